package gsd

import "fmt"

// WriteChunk stages a chunk for the current, uncommitted frame: the chunk
// name is interned (appending to the namelist if needed), payload_size =
// N*M*sizeof(type) bytes are allocated at the current end of file and
// written there, and a new index entry is appended. The entry is not
// visible to readers until the next [Handle.EndFrame].
func (h *Handle) WriteChunk(name string, typ ElementType, n uint64, m uint32, flags uint8, data []byte) error {
	if h.closed {
		return ErrClosed
	}
	if h.mode == ReadOnly {
		return fmt.Errorf("write chunk on read-only handle: %w", ErrInvalidArgument)
	}
	if data == nil {
		return fmt.Errorf("write chunk %q: data is nil: %w", name, ErrInvalidArgument)
	}
	if m == 0 {
		return fmt.Errorf("write chunk %q: M must be non-zero: %w", name, ErrInvalidArgument)
	}
	if flags != 0 {
		return fmt.Errorf("write chunk %q: flags must be zero: %w", name, ErrInvalidArgument)
	}

	elemSize := SizeofType(typ)
	if elemSize == 0 {
		return fmt.Errorf("write chunk %q: unknown element type %d: %w", name, typ, ErrInvalidArgument)
	}

	payloadSize := n * uint64(m) * uint64(elemSize)
	if uint64(len(data)) != payloadSize {
		return fmt.Errorf("write chunk %q: data length %d does not match N*M*sizeof(type) %d: %w",
			name, len(data), payloadSize, ErrInvalidArgument)
	}

	id, err := h.internName(name, true)
	if err != nil {
		return err
	}
	if id == notFoundID {
		return fmt.Errorf("write chunk %q: namelist is full: %w", name, ErrNotFound)
	}

	location := uint64(h.fileSize)
	if payloadSize > 0 {
		if err := pwriteFull(h.fd, data, int64(location)); err != nil {
			return err
		}
		if h.writeback == WritebackSync {
			if err := fsyncFD(h.fd); err != nil {
				return err
			}
		}
	}
	h.fileSize += int64(payloadSize)

	if h.indexNumEntries == h.hdr.IndexAllocatedEntries {
		if err := h.growIndex(); err != nil {
			return err
		}
	}

	h.indexAppend(Entry{
		Frame:    h.curFrame,
		N:        n,
		Location: location,
		ID:       id,
		M:        m,
		Type:     typ,
		Flags:    flags,
	})

	return nil
}

// indexAppend appends e as the new logical entry at position
// h.indexNumEntries, in whichever shape the handle's indexCache holds.
func (h *Handle) indexAppend(e Entry) {
	switch {
	case h.idx.heap != nil:
		h.idx.set(h.indexNumEntries, e)
	case h.idx.mapped != nil:
		panic("gsd: indexAppend called on a read-only handle")
	default:
		h.idx.tail = append(h.idx.tail, e)
	}
	h.indexNumEntries++
}

// EndFrame commits the current frame: it writes any unwritten index entries
// to disk, flushes if the namelist changed since the last commit, and
// advances the frame counter. Calling EndFrame twice with no intervening
// WriteChunk advances the frame counter without writing any additional
// index entries.
func (h *Handle) EndFrame() error {
	if h.closed {
		return ErrClosed
	}
	if h.mode == ReadOnly {
		return fmt.Errorf("end frame on read-only handle: %w", ErrInvalidArgument)
	}

	pending := h.indexNumEntries - h.indexWrittenEntries
	if pending > 0 {
		buf := make([]byte, pending*indexEntrySize)

		switch {
		case h.idx.heap != nil:
			for i := uint64(0); i < pending; i++ {
				e := h.idx.heap[h.indexWrittenEntries+i]
				putEntry(buf[i*indexEntrySize:], e)
			}
		default: // partial-cache: tail holds exactly the pending entries
			for i, e := range h.idx.tail {
				putEntry(buf[uint64(i)*indexEntrySize:], e)
			}
		}

		off := int64(h.hdr.IndexLocation) + int64(h.indexWrittenEntries)*indexEntrySize
		if err := pwriteFull(h.fd, buf, off); err != nil {
			return err
		}

		h.indexWrittenEntries = h.indexNumEntries
		if h.idx.tail != nil {
			h.idx.tail = h.idx.tail[:0]
		}
	}

	if h.namelistDirty {
		if err := fsyncFD(h.fd); err != nil {
			return err
		}
		h.namelistDirty = false
	}

	h.curFrame++

	return nil
}

// FindChunk looks up the chunk named name within frame, returning
// (entry, true, nil) if present, (zero, false, nil) if frame is beyond the
// committed range or name was never interned. Forbidden in Append mode.
func (h *Handle) FindChunk(frame uint64, name string) (Entry, bool, error) {
	if h.closed {
		return Entry{}, false, ErrClosed
	}
	if h.mode == Append {
		return Entry{}, false, fmt.Errorf("find chunk on append-mode handle: %w", ErrInvalidArgument)
	}
	if frame >= h.curFrame {
		return Entry{}, false, nil
	}

	id, err := h.internName(name, false)
	if err != nil {
		return Entry{}, false, err
	}
	if id == notFoundID {
		return Entry{}, false, nil
	}

	e, ok := findByFrameAndID(h.idx.get, h.indexNumEntries, frame, id)
	return e, ok, nil
}

// ReadChunk reads entry's payload into out, which must have length exactly
// N*M*sizeof(type). Forbidden in Append mode.
func (h *Handle) ReadChunk(out []byte, e Entry) error {
	if h.closed {
		return ErrClosed
	}
	if h.mode == Append {
		return fmt.Errorf("read chunk on append-mode handle: %w", ErrInvalidArgument)
	}

	elemSize := SizeofType(e.Type)
	if elemSize == 0 {
		return fmt.Errorf("read chunk: unknown element type %d: %w", e.Type, ErrNotFound)
	}
	if e.Location == 0 {
		return fmt.Errorf("read chunk: entry has no payload: %w", ErrNotFound)
	}

	size := e.N * uint64(e.M) * uint64(elemSize)
	if e.Location+size > uint64(h.fileSize) {
		return fmt.Errorf("read chunk: payload extent exceeds file size: %w", ErrCorruptFile)
	}
	if uint64(len(out)) != size {
		return fmt.Errorf("read chunk: output buffer length %d does not match payload size %d: %w",
			len(out), size, ErrInvalidArgument)
	}
	if size == 0 {
		return nil
	}

	n, err := preadFull(h.fd, out, int64(e.Location))
	if err != nil {
		return err
	}
	if uint64(n) != size {
		return fmt.Errorf("read chunk: short read (%d of %d bytes): %w", n, size, ErrIO)
	}

	return nil
}

// FindMatchingChunkName returns the next interned chunk name after the
// previous cursor (pass -1 to start from the beginning) whose name begins
// with prefix, along with an opaque cursor to resume from. ok is false once
// no further match exists.
func (h *Handle) FindMatchingChunkName(prefix string, previous int) (cursor int, name string, ok bool) {
	if h.closed {
		return 0, "", false
	}
	return h.findMatchingChunkName(prefix, previous)
}
