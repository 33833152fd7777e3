package gsd

import (
	"fmt"
	"strings"
)

// notFoundID is the sentinel returned by intern when a name could not be
// interned (not present, and either append was disallowed or the namelist
// is full). Valid ids only ever occupy 0..namelistAllocatedEntries-1, which
// is well below this sentinel.
const notFoundID uint16 = 0xFFFF

// maxChunkNameBytes is the largest chunk name the 128-byte namelist slot can
// hold, reserving the final byte for the NUL terminator.
const maxChunkNameBytes = namelistEntrySize - 1

// loadNamelist reads the full namelist block into a heap buffer and scans
// it for the empty-string terminator to determine how many names are used.
func loadNamelist(fd int, location, allocated uint64) ([]byte, uint32, error) {
	buf := make([]byte, allocated*namelistEntrySize)
	if allocated > 0 {
		n, err := preadFull(fd, buf, int64(location))
		if err != nil {
			return nil, 0, err
		}
		if uint64(n) < allocated*namelistEntrySize {
			return nil, 0, fmt.Errorf("namelist: short read: %w", ErrCorruptFile)
		}
	}

	var used uint32
	for used = 0; uint64(used) < allocated; used++ {
		slot := buf[uint64(used)*namelistEntrySize : uint64(used+1)*namelistEntrySize]
		if slot[0] == 0 {
			break
		}
	}

	return buf, used, nil
}

// nameSlot returns the raw NUL-terminated name bytes for id without
// allocating, or nil if id is out of range.
func (h *Handle) nameSlot(id uint16) []byte {
	if uint32(id) >= h.namelistNumEntries {
		return nil
	}
	return h.namelistBuf[uint64(id)*namelistEntrySize : uint64(id+1)*namelistEntrySize]
}

// nameAt returns the interned name for id as a Go string.
func (h *Handle) nameAt(id uint16) string {
	slot := h.nameSlot(id)
	if slot == nil {
		return ""
	}
	return getFixedString(slot)
}

// internName interns name to a 16-bit id.
//
// Lookup is linear over namelistNumEntries with a bounded compare. When
// mayAppend is true, the handle is writable, and there is a free slot, a new
// entry is written to disk immediately and the handle is marked as
// needs-sync so the next frame boundary issues a flush. Returns notFoundID
// if the name isn't present and cannot be appended.
func (h *Handle) internName(name string, mayAppend bool) (uint16, error) {
	if len(name) == 0 || len(name) > maxChunkNameBytes {
		return notFoundID, fmt.Errorf("chunk name length %d out of range: %w", len(name), ErrInvalidArgument)
	}

	for i := uint32(0); i < h.namelistNumEntries; i++ {
		if h.nameAt(uint16(i)) == name {
			return uint16(i), nil
		}
	}

	if !mayAppend || h.mode == ReadOnly {
		return notFoundID, nil
	}

	if uint64(h.namelistNumEntries) >= h.hdr.NamelistAllocatedEntries {
		// The namelist block is never grown, unlike the index.
		return notFoundID, nil
	}

	id := h.namelistNumEntries
	slotOff := h.hdr.NamelistLocation + uint64(id)*namelistEntrySize

	slotBuf := make([]byte, namelistEntrySize)
	putFixedString(slotBuf, name)

	if err := pwriteFull(h.fd, slotBuf, int64(slotOff)); err != nil {
		return notFoundID, err
	}

	copy(h.namelistBuf[uint64(id)*namelistEntrySize:], slotBuf)
	h.namelistNumEntries++
	h.namelistDirty = true

	if h.log != nil && uint64(h.namelistNumEntries) == h.hdr.NamelistAllocatedEntries {
		h.log.Warnw("namelist is now full; further new chunk names will fail to intern",
			"path", h.path, "capacity", h.hdr.NamelistAllocatedEntries)
	}

	return uint16(id), nil
}

// findMatchingChunkName returns the opaque cursor and name of the next
// namelist entry after previous (exclusive) whose name has the given
// prefix, scanning in increasing id order. previous < 0 starts from id 0.
func (h *Handle) findMatchingChunkName(prefix string, previous int) (cursor int, name string, ok bool) {
	start := previous + 1
	if start < 0 {
		start = 0
	}

	for i := start; uint32(i) < h.namelistNumEntries; i++ {
		n := h.nameAt(uint16(i))
		if strings.HasPrefix(n, prefix) {
			return i, n, true
		}
	}

	return 0, "", false
}
