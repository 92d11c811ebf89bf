package mem

import (
	"errors"
	"fmt"
)

// ErrOverBudget is returned when an acquisition would exceed a Budget's limit.
var ErrOverBudget = errors.New("mem: over budget")

// Budget caps the total number of bytes outstanding from an underlying Source.
// It is not safe for concurrent use.
type Budget struct {
	src   Source
	limit int
	inUse int
}

// NewBudget wraps src so that at most limit bytes are outstanding at any time.
func NewBudget(src Source, limit int) *Budget {
	return &Budget{src: src, limit: limit}
}

func (b *Budget) Acquire(n int) ([]byte, error) {
	if n > b.limit-b.inUse {
		return nil, fmt.Errorf("%w: need %d, %d of %d in use", ErrOverBudget, n, b.inUse, b.limit)
	}
	buf, err := b.src.Acquire(n)
	if err != nil {
		return nil, err
	}
	b.inUse += len(buf)
	return buf, nil
}

func (b *Budget) Release(buf []byte) error {
	if err := b.src.Release(buf); err != nil {
		return err
	}
	b.inUse -= len(buf)
	return nil
}

// InUse returns the number of bytes acquired and not yet released.
func (b *Budget) InUse() int { return b.inUse }

// Limit returns the configured cap.
func (b *Budget) Limit() int { return b.limit }
