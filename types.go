package gsd

// ElementType identifies the numeric type stored in a chunk's payload.
type ElementType uint8

// The closed enumeration of chunk element types.
const (
	TypeUint8 ElementType = iota + 1
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
)

// elementSizes maps a type tag to its fixed byte size. Index 0 is unused
// (tag 0 is not a valid type); any tag outside 1..10 is invalid.
var elementSizes = [...]uint32{
	0, // unused
	1, // TypeUint8
	2, // TypeUint16
	4, // TypeUint32
	8, // TypeUint64
	1, // TypeInt8
	2, // TypeInt16
	4, // TypeInt32
	8, // TypeInt64
	4, // TypeFloat32
	8, // TypeFloat64
}

// SizeofType returns the fixed byte size of t, or 0 if t is not a known
// element type. Callers must treat a zero result as invalid.
func SizeofType(t ElementType) uint32 {
	if t == 0 || int(t) >= len(elementSizes) {
		return 0
	}
	return elementSizes[t]
}

// MakeVersion packs a major.minor format version into a single comparable
// 32-bit word: (major << 16) | minor. Versions compare by unsigned integer
// order.
func MakeVersion(major, minor uint16) uint32 {
	return (uint32(major) << 16) | uint32(minor)
}

// versionMajor and versionMinor unpack a version word produced by
// MakeVersion.
func versionMajor(v uint32) uint16 { return uint16(v >> 16) }
func versionMinor(v uint32) uint16 { return uint16(v) }

// OpenMode selects the access discipline for a [Handle].
type OpenMode int

const (
	// ReadOnly permits reads only. The index is loaded full-cache, preferring
	// a shared read-only memory map.
	ReadOnly OpenMode = iota

	// ReadWrite permits reads and writes. The index is loaded full-cache as a
	// heap copy so it can be edited in place.
	ReadWrite

	// Append permits writes only. The index is loaded partial-cache: only the
	// unwritten tail for the in-progress frame is kept in memory.
	Append
)

func (m OpenMode) String() string {
	switch m {
	case ReadOnly:
		return "ReadOnly"
	case ReadWrite:
		return "ReadWrite"
	case Append:
		return "Append"
	default:
		return "OpenMode(?)"
	}
}

// WritebackMode controls how aggressively payload bytes are flushed ahead
// of the index entries that reference them.
type WritebackMode int

const (
	// WritebackNone matches the original engine: WriteChunk does not flush
	// payload bytes, so they become durable only at the next successful
	// flush (an EndFrame that follows a namelist append, or an index
	// growth). Fastest, but EndFrame writes new index entries without first
	// flushing the payloads they reference, so a crash may lose payload
	// bytes that were never fsynced.
	WritebackNone WritebackMode = iota

	// WritebackSync flushes each chunk's payload bytes before WriteChunk
	// returns, closing the durability gap noted in the design: payloads are
	// always durable strictly before the index entry that references them
	// can become durable.
	WritebackSync
)

// Entry describes one used index slot: the catalog record for a single
// chunk within a single frame.
type Entry struct {
	Frame    uint64
	N        uint64
	Location uint64
	ID       uint16
	M        uint32
	Type     ElementType
	Flags    uint8
}

// used reports whether e represents an occupied index slot.
func (e Entry) used() bool { return e.Location != 0 }
