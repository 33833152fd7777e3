package gsd

import (
	"encoding/binary"
	"fmt"
)

// On-disk header layout constants. Field offsets are fixed and stable
// within a major format version.
const (
	gsdMagic uint64 = 0x65DF65DF65DF65DF

	headerSize = 256

	offMagic                    = 0x00 // uint64
	offVersion                  = 0x08 // uint32
	offApplication              = 0x0C // [64]byte
	offSchema                   = 0x4C // [64]byte
	offSchemaVersion            = 0x8C // uint32
	offIndexLocation            = 0x90 // uint64
	offIndexAllocatedEntries    = 0x98 // uint64
	offNamelistLocation         = 0xA0 // uint64
	offNamelistAllocatedEntries = 0xA8 // uint64
	offReservedStart            = 0xB0 // reserved through headerSize

	// appSchemaFieldSize is the full field width; the stored string is
	// truncated to appSchemaFieldSize-1 bytes plus a NUL terminator.
	appSchemaFieldSize = 64

	initialIndexEntries    = 128
	initialNamelistEntries = 128

	indexEntrySize    = 32
	namelistEntrySize = 128
)

// Supported format version range: >= 0.3 and < 2.0, excluding the open
// interval (0.3, 1.0) which was never populated by any writer.
var (
	versionMin  = MakeVersion(0, 3)
	versionGood = MakeVersion(1, 0)
	versionMax  = MakeVersion(2, 0)

	// currentVersion is written by Create for all new files.
	currentVersion = MakeVersion(1, 0)
)

func versionSupported(v uint32) bool {
	if v < versionMin {
		return false
	}
	if v > versionMin && v < versionGood {
		return false
	}
	return v < versionMax
}

// header mirrors the fixed on-disk header layout.
type header struct {
	Magic                    uint64
	Version                  uint32
	Application              string
	Schema                   string
	SchemaVersion            uint32
	IndexLocation            uint64
	IndexAllocatedEntries    uint64
	NamelistLocation         uint64
	NamelistAllocatedEntries uint64
}

// truncateASCII truncates s to at most n-1 bytes so it fits a NUL-terminated
// field of width n.
func truncateASCII(s string, n int) string {
	if len(s) > n-1 {
		return s[:n-1]
	}
	return s
}

func newHeader(application, schema string, schemaVersion uint32) header {
	return header{
		Magic:                    gsdMagic,
		Version:                  currentVersion,
		Application:              truncateASCII(application, appSchemaFieldSize),
		Schema:                   truncateASCII(schema, appSchemaFieldSize),
		SchemaVersion:            schemaVersion,
		IndexLocation:            headerSize,
		IndexAllocatedEntries:    initialIndexEntries,
		NamelistLocation:         headerSize + initialIndexEntries*indexEntrySize,
		NamelistAllocatedEntries: initialNamelistEntries,
	}
}

func putFixedString(buf []byte, s string) {
	zeroRegion(buf)
	copy(buf, s)
}

func getFixedString(buf []byte) string {
	n := 0
	for n < len(buf) && buf[n] != 0 {
		n++
	}
	return string(buf[:n])
}

// encode serializes h into a headerSize-byte little-endian buffer.
func (h header) encode() []byte {
	buf := make([]byte, headerSize)

	binary.LittleEndian.PutUint64(buf[offMagic:], h.Magic)
	binary.LittleEndian.PutUint32(buf[offVersion:], h.Version)
	putFixedString(buf[offApplication:offApplication+appSchemaFieldSize], h.Application)
	putFixedString(buf[offSchema:offSchema+appSchemaFieldSize], h.Schema)
	binary.LittleEndian.PutUint32(buf[offSchemaVersion:], h.SchemaVersion)
	binary.LittleEndian.PutUint64(buf[offIndexLocation:], h.IndexLocation)
	binary.LittleEndian.PutUint64(buf[offIndexAllocatedEntries:], h.IndexAllocatedEntries)
	binary.LittleEndian.PutUint64(buf[offNamelistLocation:], h.NamelistLocation)
	binary.LittleEndian.PutUint64(buf[offNamelistAllocatedEntries:], h.NamelistAllocatedEntries)
	// buf[offReservedStart:] is already zero.

	return buf
}

// decodeHeader parses a headerSize-byte buffer into a header.
func decodeHeader(buf []byte) (header, error) {
	if len(buf) < headerSize {
		return header{}, fmt.Errorf("header: short buffer: %w", ErrCorruptFile)
	}

	var h header
	h.Magic = binary.LittleEndian.Uint64(buf[offMagic:])
	h.Version = binary.LittleEndian.Uint32(buf[offVersion:])
	h.Application = getFixedString(buf[offApplication : offApplication+appSchemaFieldSize])
	h.Schema = getFixedString(buf[offSchema : offSchema+appSchemaFieldSize])
	h.SchemaVersion = binary.LittleEndian.Uint32(buf[offSchemaVersion:])
	h.IndexLocation = binary.LittleEndian.Uint64(buf[offIndexLocation:])
	h.IndexAllocatedEntries = binary.LittleEndian.Uint64(buf[offIndexAllocatedEntries:])
	h.NamelistLocation = binary.LittleEndian.Uint64(buf[offNamelistLocation:])
	h.NamelistAllocatedEntries = binary.LittleEndian.Uint64(buf[offNamelistAllocatedEntries:])

	return h, nil
}

// validate gates every access on the magic and supported version range.
func (h header) validate() error {
	if h.Magic != gsdMagic {
		return fmt.Errorf("bad magic %#x: %w", h.Magic, ErrInvalidFile)
	}
	if !versionSupported(h.Version) {
		return fmt.Errorf("unsupported format version %d.%d: %w",
			versionMajor(h.Version), versionMinor(h.Version), ErrInvalidFile)
	}
	return nil
}
