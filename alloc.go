package buddy

import (
	"fmt"
	"unsafe"
)

// The helpers below place values of T inside the pool arena. The garbage
// collector does not scan the arena, so T must not contain Go pointers.
// Blocks start at multiples of their own size from a page-aligned (mmap) or
// word-aligned (heap) base, which satisfies the alignment of T.

// NewValue returns a pointer to a zeroed T stored inside the pool.
func NewValue[T any](p *Pool) (*T, error) {
	var zero T
	b, err := p.Alloc(max(int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero))))
	if err != nil {
		return nil, err
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// MakeSlice returns a zeroed slice of n elements of T stored inside the pool.
func MakeSlice[T any](p *Pool, n int) ([]T, error) {
	if err := p.check("malloc"); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, p.reject("malloc", fmt.Errorf("%w: bad length: %d", ErrInvalidArgument, n))
	}
	var zero T
	elemSize := max(int(unsafe.Sizeof(zero)), 1)
	if n > p.Size()/elemSize {
		return nil, p.reject("malloc", fmt.Errorf("%w: %d elements of %d bytes exceed pool of %d", ErrOutOfSpace, n, elemSize, p.Size()))
	}
	b, err := p.Alloc(max(elemSize*n, int(unsafe.Alignof(zero))))
	if err != nil {
		return nil, err
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// Delete releases a value obtained from NewValue.
func Delete[T any](p *Pool, v *T) error {
	if v == nil {
		if err := p.check("free"); err != nil {
			return err
		}
		return p.reject("free", fmt.Errorf("%w: nil value", ErrInvalidArgument))
	}
	return p.Free(unsafe.Slice((*byte)(unsafe.Pointer(v)), 1))
}

// DeleteSlice releases a slice obtained from MakeSlice.
func DeleteSlice[T any](p *Pool, s []T) error {
	if cap(s) == 0 {
		if err := p.check("free"); err != nil {
			return err
		}
		return p.reject("free", fmt.Errorf("%w: empty slice", ErrInvalidArgument))
	}
	return p.Free(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), 1))
}
