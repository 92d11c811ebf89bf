//go:build unix

package mem

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Mmap acquires buffers as private anonymous mappings, keeping large arenas
// out of the Go heap. Mappings are page aligned.
type Mmap struct{}

func (Mmap) Acquire(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("mem: mmap %d bytes: %w", n, err)
	}
	return b, nil
}

func (Mmap) Release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	err := unix.Munmap(b)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
