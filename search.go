package gsd

import "fmt"

// diskEntry reads index entry i directly from fd at location, bypassing
// any in-memory cache. Used during open, before a handle's full-cache or
// partial-cache structures exist, to discover the used-prefix length.
func diskEntry(fd int, location uint64, i uint64) (Entry, error) {
	buf := make([]byte, indexEntrySize)
	off := int64(location) + int64(i)*indexEntrySize

	n, err := preadFull(fd, buf, off)
	if err != nil {
		return Entry{}, err
	}
	if n < indexEntrySize {
		return Entry{}, fmt.Errorf("index entry %d: short read: %w", i, ErrCorruptFile)
	}

	return decodeEntry(buf), nil
}

// validateEntry checks the generic per-entry invariants: known type, id
// within the interned namelist, zero flags, and a payload extent that does
// not exceed the file size.
func validateEntry(e Entry, namelistNumEntries uint32, fileSize int64) error {
	if SizeofType(e.Type) == 0 {
		return fmt.Errorf("index entry: unknown type tag %d: %w", e.Type, ErrCorruptFile)
	}
	if uint32(e.ID) >= namelistNumEntries {
		return fmt.Errorf("index entry: id %d not in namelist (len %d): %w", e.ID, namelistNumEntries, ErrCorruptFile)
	}
	if e.Flags != 0 {
		return fmt.Errorf("index entry: reserved flags byte %d is non-zero: %w", e.Flags, ErrCorruptFile)
	}

	extent := e.N * uint64(e.M) * uint64(SizeofType(e.Type))
	if e.Location+extent > uint64(fileSize) {
		return fmt.Errorf("index entry: payload extent %d+%d exceeds file size %d: %w",
			e.Location, extent, fileSize, ErrCorruptFile)
	}

	return nil
}

// findUsedPrefixLen binary-searches for the length of the used prefix of
// the index: it narrows toward the first empty slot, verifying along the
// way that every probed used entry is individually valid and that frames
// are non-decreasing. A slot counts as used when get(i) returns an entry
// with a non-zero location.
func findUsedPrefixLen(
	get func(i uint64) (Entry, error),
	allocated uint64,
	namelistNumEntries uint32,
	fileSize int64,
) (uint64, error) {
	if allocated == 0 {
		return 0, nil
	}

	e0, err := get(0)
	if err != nil {
		return 0, err
	}
	if !e0.used() {
		return 0, nil
	}
	if err := validateEntry(e0, namelistNumEntries, fileSize); err != nil {
		return 0, err
	}

	lo, hi := uint64(0), allocated
	loFrame := e0.Frame

	for lo+1 < hi {
		mid := lo + (hi-lo)/2

		e, err := get(mid)
		if err != nil {
			return 0, err
		}

		if !e.used() {
			hi = mid
			continue
		}

		if e.Frame < loFrame {
			return 0, fmt.Errorf("index entry %d: frame %d precedes frame %d: %w", mid, e.Frame, loFrame, ErrCorruptFile)
		}
		if err := validateEntry(e, namelistNumEntries, fileSize); err != nil {
			return 0, err
		}

		lo = mid
		loFrame = e.Frame
	}

	return lo + 1, nil
}

// findByFrameAndID looks up the entry for (targetFrame, wantID): a binary
// search narrows [0, n) to the rightmost index whose frame <= target, then
// a linear backward walk over the run of entries sharing that frame
// returns the first (i.e. highest-index, last-written) entry whose id
// matches wantID.
func findByFrameAndID(get func(i uint64) Entry, n uint64, targetFrame uint64, wantID uint16) (Entry, bool) {
	if n == 0 {
		return Entry{}, false
	}

	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		if get(mid).Frame <= targetFrame {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo == 0 {
		return Entry{}, false
	}
	anchor := lo - 1

	if get(anchor).Frame != targetFrame {
		return Entry{}, false
	}

	for i := anchor; ; i-- {
		e := get(i)
		if e.Frame != targetFrame {
			break
		}
		if e.ID == wantID {
			return e, true
		}
		if i == 0 {
			break
		}
	}

	return Entry{}, false
}
