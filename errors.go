package gsd

import "errors"

// Error classification codes.
//
// Implementations MAY wrap these with additional context via fmt.Errorf's
// %w verb. Callers MUST classify errors using errors.Is.
var (
	// ErrIO indicates a positional read/write/flush/seek failure, a short
	// write, an mmap/munmap failure, or an ftruncate failure.
	ErrIO = errors.New("gsd: i/o error")

	// ErrInvalidArgument indicates a null/invalid parameter or an operation
	// attempted from the wrong open mode (e.g. write on a read-only handle).
	ErrInvalidArgument = errors.New("gsd: invalid argument")

	// ErrNotFound indicates a chunk name was not interned, or a read-chunk
	// target has no size or references a zero offset.
	ErrNotFound = errors.New("gsd: not found")

	// ErrInvalidFile indicates a magic mismatch or unsupported format version.
	ErrInvalidFile = errors.New("gsd: invalid file")

	// ErrCorruptFile indicates an invariant was violated while loading or
	// scanning the index: invalid entry fields, non-monotonic frames,
	// misaligned name ids, or a payload extent past end of file.
	ErrCorruptFile = errors.New("gsd: corrupt file")

	// ErrFileMustBeWritable indicates CreateAndOpen was called with ReadOnly.
	ErrFileMustBeWritable = errors.New("gsd: file must be writable")

	// ErrBusy indicates a conflicting writer already holds the advisory
	// interprocess lock on this file.
	ErrBusy = errors.New("gsd: busy")

	// ErrClosed indicates an operation was attempted on a closed handle.
	ErrClosed = errors.New("gsd: handle closed")
)
