package gsd

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// writerLock is a non-blocking, advisory interprocess lock taken on a
// <path>.lock sidecar file by writable handles. It is a courtesy on top of
// the caller's own synchronization discipline, which is responsible for
// preventing concurrent writers; it does not make the engine safe against
// writers that bypass it entirely.
type writerLock struct {
	fd int
}

// acquireWriterLock takes a non-blocking exclusive flock on path+".lock",
// creating the sidecar file if needed. Returns ErrBusy if another handle
// already holds it.
func acquireWriterLock(path string) (*writerLock, error) {
	lockPath := path + ".lock"

	fd, err := unix.Open(lockPath, unix.O_RDWR|unix.O_CREAT, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %q: %w: %v", lockPath, ErrIO, err)
	}

	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = unix.Close(fd)
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("flock %q: %w: %v", lockPath, ErrIO, err)
	}

	return &writerLock{fd: fd}, nil
}

// release drops the lock and closes the sidecar file descriptor. The lock
// file itself is left in place, so a subsequent opener never pays a
// create-vs-open race.
func (l *writerLock) release() error {
	if l == nil {
		return nil
	}

	_ = unix.Flock(l.fd, unix.LOCK_UN)
	if err := unix.Close(l.fd); err != nil {
		return fmt.Errorf("close lock file: %w: %v", ErrIO, err)
	}
	return nil
}
