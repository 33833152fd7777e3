package gsd

import "encoding/binary"

// Index entry field offsets within its fixed indexEntrySize-byte layout.
const (
	ieOffFrame    = 0x00 // uint64
	ieOffN        = 0x08 // uint64
	ieOffLocation = 0x10 // uint64
	ieOffID       = 0x18 // uint16
	ieOffM        = 0x1A // uint32
	ieOffType     = 0x1E // uint8
	ieOffFlags    = 0x1F // uint8
)

// encodeEntry serializes e into a fresh indexEntrySize-byte buffer.
func encodeEntry(e Entry) []byte {
	buf := make([]byte, indexEntrySize)
	putEntry(buf, e)
	return buf
}

// putEntry serializes e into buf, which must be at least indexEntrySize bytes.
func putEntry(buf []byte, e Entry) {
	binary.LittleEndian.PutUint64(buf[ieOffFrame:], e.Frame)
	binary.LittleEndian.PutUint64(buf[ieOffN:], e.N)
	binary.LittleEndian.PutUint64(buf[ieOffLocation:], e.Location)
	binary.LittleEndian.PutUint16(buf[ieOffID:], e.ID)
	binary.LittleEndian.PutUint32(buf[ieOffM:], e.M)
	buf[ieOffType] = uint8(e.Type)
	buf[ieOffFlags] = e.Flags
}

// decodeEntry parses an indexEntrySize-byte buffer into an Entry.
func decodeEntry(buf []byte) Entry {
	return Entry{
		Frame:    binary.LittleEndian.Uint64(buf[ieOffFrame:]),
		N:        binary.LittleEndian.Uint64(buf[ieOffN:]),
		Location: binary.LittleEndian.Uint64(buf[ieOffLocation:]),
		ID:       binary.LittleEndian.Uint16(buf[ieOffID:]),
		M:        binary.LittleEndian.Uint32(buf[ieOffM:]),
		Type:     ElementType(buf[ieOffType]),
		Flags:    buf[ieOffFlags],
	}
}
