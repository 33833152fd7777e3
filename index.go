package gsd

import "fmt"

// indexCache is the in-memory representation of the on-disk index,
// implemented as a sum type over two shapes rather than an interface with
// multiple implementations:
//
//   - full-cache (ReadOnly, ReadWrite): the entire index is held, either as
//     a shared read-only mmap (mapped != nil) or a heap copy (heap != nil).
//   - partial-cache (Append): only the unwritten tail for the in-progress
//     frame is kept, in tail. Go's append() already grows tail's backing
//     array geometrically, so the doubling growth this cache needs comes
//     for free without a hand-rolled doubling routine.
//
// Exactly one of {mapped, heap, tail-mode} is active for a given handle.
type indexCache struct {
	mapped   []byte // ReadOnly full-cache: raw bytes of the mmap'd region
	residual int    // byte offset of the index block within mapped

	heap []Entry // ReadWrite full-cache: decoded array, len == allocated

	tail []Entry // Append partial-cache: unwritten entries only
}

func (c *indexCache) isPartial() bool {
	return c.mapped == nil && c.heap == nil
}

// get returns index entry at logical position pos. Only valid in full-cache
// mode; callers must not call this in partial-cache mode (find/read are
// forbidden in Append mode, so this is never reached there).
func (c *indexCache) get(pos uint64) Entry {
	switch {
	case c.heap != nil:
		return c.heap[pos]
	case c.mapped != nil:
		off := c.residual + int(pos)*indexEntrySize
		return decodeEntry(c.mapped[off : off+indexEntrySize])
	default:
		panic("gsd: index.get called in partial-cache (append) mode")
	}
}

// set overwrites the entry at logical position pos. Only valid for the
// heap-backed full-cache shape (ReadWrite); ReadOnly handles never write.
func (c *indexCache) set(pos uint64, e Entry) {
	c.heap[pos] = e
}

// copyIndexBlocks copies the first n entries of the on-disk index from
// oldLoc to newLoc in ~16KiB blocks, used when growing a partial-cache
// (Append) index where only the published entries exist on disk.
const indexCopyBlockBytes = 16 * 1024

func copyIndexBlocks(fd int, oldLoc, newLoc uint64, n uint64) error {
	total := n * indexEntrySize
	buf := make([]byte, indexCopyBlockBytes)

	var done uint64
	for done < total {
		step := uint64(len(buf))
		if total-done < step {
			step = total - done
		}

		if _, err := preadFull(fd, buf[:step], int64(oldLoc+done)); err != nil {
			return err
		}
		if err := pwriteFull(fd, buf[:step], int64(newLoc+done)); err != nil {
			return err
		}

		done += step
	}

	return nil
}

// zeroFileRegion writes n zero bytes to fd starting at off, in bounded
// blocks so growing to a large capacity doesn't require one huge allocation.
func zeroFileRegion(fd int, off int64, n int64) error {
	const blockBytes = 64 * 1024

	buf := make([]byte, blockBytes)

	var done int64
	for done < n {
		step := int64(len(buf))
		if n-done < step {
			step = n - done
		}

		if err := pwriteFull(fd, buf[:step], off+done); err != nil {
			return err
		}

		done += step
	}

	return nil
}

// growIndex implements the grow-and-relocate algorithm for the index block:
// it is triggered when indexNumEntries == the current capacity on a write.
// New capacity is always double the old. The flush order is:
//
//	(a) flush the new index block
//	(b) rewrite the header
//	(c) flush the header
//
// so a crash either leaves the old index referenced (header not yet
// updated) or a fully-written new index referenced (header updated only
// after the new block is durable).
func (h *Handle) growIndex() error {
	oldCap := h.hdr.IndexAllocatedEntries
	newCap := oldCap * 2
	newLoc := uint64(h.fileSize)
	newRegionBytes := int64(newCap) * indexEntrySize

	switch {
	case h.idx.mapped != nil:
		return fmt.Errorf("gsd: cannot grow index on a read-only handle: %w", ErrInvalidArgument)

	case h.idx.heap != nil:
		newHeap := make([]Entry, newCap) // tail beyond oldCap is zero-value (empty slots)
		copy(newHeap, h.idx.heap)

		buf := make([]byte, newRegionBytes)
		for i, e := range newHeap {
			putEntry(buf[i*indexEntrySize:], e)
		}

		if err := pwriteFull(h.fd, buf, int64(newLoc)); err != nil {
			return err
		}
		if err := fsyncFD(h.fd); err != nil { // (a)
			return err
		}

		h.idx.heap = newHeap

	default: // partial-cache (Append)
		if err := copyIndexBlocks(h.fd, h.hdr.IndexLocation, newLoc, h.indexWrittenEntries); err != nil {
			return err
		}

		copiedBytes := int64(h.indexWrittenEntries) * indexEntrySize
		if err := zeroFileRegion(h.fd, int64(newLoc)+copiedBytes, newRegionBytes-copiedBytes); err != nil {
			return err
		}
		if err := fsyncFD(h.fd); err != nil { // (a)
			return err
		}
	}

	h.fileSize = int64(newLoc) + newRegionBytes
	h.hdr.IndexLocation = newLoc
	h.hdr.IndexAllocatedEntries = newCap

	if err := pwriteFull(h.fd, h.hdr.encode(), 0); err != nil { // (b)
		return err
	}
	if err := fsyncFD(h.fd); err != nil { // (c)
		return err
	}

	if h.log != nil {
		h.log.Infow("grew index", "path", h.path, "old_capacity", oldCap, "new_capacity", newCap)
	}

	return nil
}
