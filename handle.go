package gsd

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Options configures a Handle beyond what the on-disk format itself
// determines.
type Options struct {
	// Writeback controls payload durability ordering. Default is
	// WritebackNone, matching the original engine's behavior.
	Writeback WritebackMode

	// DisableLocking skips the advisory interprocess writer lock. Use only
	// when the caller already serializes writers through some other means.
	DisableLocking bool

	// Logger receives structured diagnostics: index growth, namelist
	// exhaustion, and detected corruption. A nil Logger disables logging.
	Logger *zap.SugaredLogger
}

// Handle mediates all reads and writes against one open GSD file. A Handle
// is single-threaded: callers must serialize all operations on it. The
// terminal state is Closed; reusing a closed Handle is undefined.
type Handle struct {
	path string
	mode OpenMode
	fd   int
	hdr  header

	fileSize int64

	namelistBuf        []byte
	namelistNumEntries uint32
	namelistDirty      bool

	idx                 indexCache
	indexNumEntries     uint64
	indexWrittenEntries uint64

	curFrame uint64

	writeback WritebackMode
	lock      *writerLock
	closed    bool

	log *zap.SugaredLogger
}

// Create initializes a new GSD file at path: truncates it, writes a fresh
// header, a zeroed 128-slot index, and a zeroed 128-slot namelist, then
// flushes.
func Create(path, application, schema string, schemaVersion uint32) error {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %q: %w: %v", path, ErrIO, err)
	}
	defer unix.Close(fd)

	hdr := newHeader(application, schema, schemaVersion)
	if err := writeInitialLayout(fd, hdr); err != nil {
		return err
	}

	return nil
}

// writeInitialLayout writes hdr, a zeroed index block, and a zeroed
// namelist block to fd in that order, then flushes. Used by both Create and
// Truncate.
func writeInitialLayout(fd int, hdr header) error {
	if err := ftruncateFD(fd, 0); err != nil {
		return err
	}

	if err := pwriteFull(fd, hdr.encode(), 0); err != nil {
		return err
	}

	zeroedIndex := make([]byte, hdr.IndexAllocatedEntries*indexEntrySize)
	if err := pwriteFull(fd, zeroedIndex, int64(hdr.IndexLocation)); err != nil {
		return err
	}

	zeroedNamelist := make([]byte, hdr.NamelistAllocatedEntries*namelistEntrySize)
	if err := pwriteFull(fd, zeroedNamelist, int64(hdr.NamelistLocation)); err != nil {
		return err
	}

	return fsyncFD(fd)
}

// CreateAndOpen creates a new GSD file and opens it in the given mode, which
// must not be ReadOnly.
func CreateAndOpen(path, application, schema string, schemaVersion uint32, mode OpenMode, opts Options) (*Handle, error) {
	if mode == ReadOnly {
		return nil, fmt.Errorf("create-and-open requires a writable mode: %w", ErrFileMustBeWritable)
	}

	if err := Create(path, application, schema, schemaVersion); err != nil {
		return nil, err
	}

	return Open(path, mode, opts)
}

// Open opens an existing GSD file in the given mode.
//
// On any failure the file descriptor, any advisory lock, and any partially
// constructed mapping are released before Open returns: every resource is
// scoped to acquisition with guaranteed release on every error exit.
func Open(path string, mode OpenMode, opts Options) (*Handle, error) {
	osFlag := unix.O_RDONLY
	if mode != ReadOnly {
		osFlag = unix.O_RDWR
	}

	fd, err := unix.Open(path, osFlag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w: %v", path, ErrIO, err)
	}

	h := &Handle{
		path:      path,
		mode:      mode,
		fd:        fd,
		writeback: opts.Writeback,
		log:       opts.Logger,
	}

	if mode != ReadOnly && !opts.DisableLocking {
		lock, err := acquireWriterLock(path)
		if err != nil {
			_ = unix.Close(fd)
			return nil, err
		}
		h.lock = lock
	}

	if err := h.load(); err != nil {
		if h.log != nil && errors.Is(err, ErrCorruptFile) {
			h.log.Errorw("corrupt file", "path", path, "error", err)
		}
		h.teardown()
		return nil, err
	}

	return h, nil
}

// load reads and validates the header, determines the file size, loads the
// namelist, finds the used-index-prefix length, attaches the mode-
// appropriate index cache, and computes the current frame counter. It may
// be called again (from Truncate) to reload a handle's state in place.
func (h *Handle) load() error {
	headerBuf := make([]byte, headerSize)
	if _, err := preadFull(h.fd, headerBuf, 0); err != nil {
		return err
	}

	hdr, err := decodeHeader(headerBuf)
	if err != nil {
		return err
	}
	if err := hdr.validate(); err != nil {
		return err
	}
	h.hdr = hdr

	fileSize, err := seekEnd(h.fd)
	if err != nil {
		return err
	}
	h.fileSize = fileSize

	namelistBuf, namelistNum, err := loadNamelist(h.fd, hdr.NamelistLocation, hdr.NamelistAllocatedEntries)
	if err != nil {
		return err
	}
	h.namelistBuf = namelistBuf
	h.namelistNumEntries = namelistNum
	h.namelistDirty = false

	usedLen, err := findUsedPrefixLen(
		func(i uint64) (Entry, error) { return diskEntry(h.fd, hdr.IndexLocation, i) },
		hdr.IndexAllocatedEntries,
		namelistNum,
		fileSize,
	)
	if err != nil {
		return err
	}
	h.indexNumEntries = usedLen
	h.indexWrittenEntries = usedLen

	h.curFrame = 0
	if usedLen > 0 {
		last, err := diskEntry(h.fd, hdr.IndexLocation, usedLen-1)
		if err != nil {
			return err
		}
		h.curFrame = last.Frame + 1
	}

	switch h.mode {
	case ReadOnly:
		mapped, residual, err := mmapReadOnly(h.fd, int64(hdr.IndexLocation), int(hdr.IndexAllocatedEntries)*indexEntrySize)
		if err != nil {
			return err
		}
		h.idx = indexCache{mapped: mapped, residual: residual}

	case ReadWrite:
		buf := make([]byte, hdr.IndexAllocatedEntries*indexEntrySize)
		if hdr.IndexAllocatedEntries > 0 {
			if _, err := preadFull(h.fd, buf, int64(hdr.IndexLocation)); err != nil {
				return err
			}
		}
		heap := make([]Entry, hdr.IndexAllocatedEntries)
		for i := range heap {
			heap[i] = decodeEntry(buf[i*indexEntrySize : (i+1)*indexEntrySize])
		}
		h.idx = indexCache{heap: heap}

	case Append:
		// Partial-cache: release any full-index structures, keep only the
		// (currently empty) unwritten tail.
		h.idx = indexCache{tail: nil}

	default:
		return fmt.Errorf("unknown open mode %v: %w", h.mode, ErrInvalidArgument)
	}

	return nil
}

// Truncate rebuilds the file using the handle's current
// application/schema/schema-version, then reloads the handle in place. Only
// permitted on writable handles.
func (h *Handle) Truncate() error {
	if h.closed {
		return ErrClosed
	}
	if h.mode == ReadOnly {
		return fmt.Errorf("truncate on read-only handle: %w", ErrInvalidArgument)
	}

	if err := h.unmapIfNeeded(); err != nil {
		return err
	}

	newHdr := newHeader(h.hdr.Application, h.hdr.Schema, h.hdr.SchemaVersion)
	if err := writeInitialLayout(h.fd, newHdr); err != nil {
		return err
	}

	return h.load()
}

// unmapIfNeeded releases any mmap held by the index cache.
func (h *Handle) unmapIfNeeded() error {
	if h.idx.mapped == nil {
		return nil
	}
	err := munmapRegion(h.idx.mapped)
	h.idx.mapped = nil
	return err
}

// teardown releases all resources a Handle may hold, for use both on
// Close and on any error exit during Open.
func (h *Handle) teardown() {
	_ = h.unmapIfNeeded()
	_ = h.lock.release()
	_ = unix.Close(h.fd)
}

// Close releases every resource the handle exclusively owns: the mmap (if
// any), the advisory lock (if any), and the file descriptor. It is an error
// to use the handle afterward.
func (h *Handle) Close() error {
	if h.closed {
		return ErrClosed
	}
	h.closed = true

	var errs []error

	if err := h.unmapIfNeeded(); err != nil {
		errs = append(errs, err)
	}
	if err := h.lock.release(); err != nil {
		errs = append(errs, err)
	}
	if err := unix.Close(h.fd); err != nil {
		errs = append(errs, fmt.Errorf("close fd: %w: %v", ErrIO, err))
	}

	return errors.Join(errs...)
}

// NFrames returns the number of committed frames.
func (h *Handle) NFrames() (uint64, error) {
	if h.closed {
		return 0, ErrClosed
	}
	return h.curFrame, nil
}

// Application returns the producer-defined application string from the
// file's header.
func (h *Handle) Application() string { return h.hdr.Application }

// Schema returns the producer-defined schema string from the file's header.
func (h *Handle) Schema() string { return h.hdr.Schema }

// SchemaVersion returns the producer-defined schema version from the
// file's header.
func (h *Handle) SchemaVersion() uint32 { return h.hdr.SchemaVersion }

// FormatVersion returns the on-disk format version (see [MakeVersion]).
func (h *Handle) FormatVersion() uint32 { return h.hdr.Version }
