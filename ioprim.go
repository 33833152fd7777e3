package gsd

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxIOTransfer caps a single positional read/write syscall. Some platforms'
// positional I/O calls cannot accept transfers larger than 2^31 bytes; this
// engine applies the cap unconditionally so there is one portable code path
// rather than a platform-conditional one (see DESIGN.md).
const maxIOTransfer = 1 << 30 // ~1 GiB

// preadFull reads len(buf) bytes from fd at offset off, retrying short
// transfers until the full count is read or an error occurs. A read that
// hits EOF before the count is satisfied returns the partial count and a
// nil error.
func preadFull(fd int, buf []byte, off int64) (int, error) {
	total := 0
	for total < len(buf) {
		chunk := buf[total:]
		if len(chunk) > maxIOTransfer {
			chunk = chunk[:maxIOTransfer]
		}

		n, err := unix.Pread(fd, chunk, off+int64(total))
		if n > 0 {
			total += n
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return total, fmt.Errorf("pread at %d: %w: %v", off+int64(total), ErrIO, err)
		}
		if n == 0 {
			// EOF: return whatever was read without signaling an error.
			return total, nil
		}
	}
	return total, nil
}

// pwriteFull writes all of buf to fd at offset off, retrying short
// transfers until the full count is written or an error occurs.
func pwriteFull(fd int, buf []byte, off int64) error {
	total := 0
	for total < len(buf) {
		chunk := buf[total:]
		if len(chunk) > maxIOTransfer {
			chunk = chunk[:maxIOTransfer]
		}

		n, err := unix.Pwrite(fd, chunk, off+int64(total))
		if n > 0 {
			total += n
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("pwrite at %d: %w: %v", off+int64(total), ErrIO, err)
		}
		if n == 0 {
			return fmt.Errorf("pwrite at %d: %w: short write with no progress", off+int64(total), ErrIO)
		}
	}
	return nil
}

// fsyncFD requests a synchronous durability flush of fd's contents.
func fsyncFD(fd int) error {
	for {
		err := unix.Fsync(fd)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("fsync: %w: %v", ErrIO, err)
		}
		return nil
	}
}

// ftruncateFD sets fd's length to size, growing or shrinking as needed.
func ftruncateFD(fd int, size int64) error {
	for {
		err := unix.Ftruncate(fd, size)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("ftruncate to %d: %w: %v", size, ErrIO, err)
		}
		return nil
	}
}

// seekEnd returns the current length of fd by seeking to its end.
func seekEnd(fd int) (int64, error) {
	size, err := unix.Seek(fd, 0, unix.SEEK_END)
	if err != nil {
		return 0, fmt.Errorf("seek to end: %w: %v", ErrIO, err)
	}
	return size, nil
}

// zeroRegion fills buf with zero bytes using a pattern the compiler cannot
// elide, since buf may back an mmap region or a buffer about to be written
// to disk where the zeroing itself is the observable effect.
func zeroRegion(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// mmapReadOnly maps size bytes of fd starting at a page-aligned offset
// covering off, returning the mapping and the residual offset of off within
// it (so callers can recover the originally requested window).
func mmapReadOnly(fd int, off int64, size int) (mapped []byte, residual int, err error) {
	pagesize := int64(unix.Getpagesize())
	aligned := (off / pagesize) * pagesize
	residual = int(off - aligned)

	mapped, err = unix.Mmap(fd, aligned, residual+size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, 0, fmt.Errorf("mmap: %w: %v", ErrIO, err)
	}
	return mapped, residual, nil
}

// munmapRegion unmaps a region previously returned by mmapReadOnly.
func munmapRegion(mapped []byte) error {
	if mapped == nil {
		return nil
	}
	if err := unix.Munmap(mapped); err != nil {
		return fmt.Errorf("munmap: %w: %v", ErrIO, err)
	}
	return nil
}
