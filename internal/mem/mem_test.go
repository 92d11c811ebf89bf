package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSources(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"heap", Heap{}},
		{"mmap", Mmap{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := tc.src.Acquire(4096)
			require.NoError(t, err)
			require.Len(t, buf, 4096)

			for i := range buf {
				buf[i] = byte(i)
			}
			require.Equal(t, byte(255), buf[255])
			require.NoError(t, tc.src.Release(buf))

			_, err = tc.src.Acquire(0)
			require.ErrorIs(t, err, ErrBadSize)
			_, err = tc.src.Acquire(-1)
			require.ErrorIs(t, err, ErrBadSize)
		})
	}
}

func TestMmapDoubleRelease(t *testing.T) {
	buf, err := Mmap{}.Acquire(1 << 12)
	require.NoError(t, err)
	require.NoError(t, Mmap{}.Release(buf))
	require.NoError(t, Mmap{}.Release(buf))
	require.NoError(t, Mmap{}.Release(nil))
}

func TestBudget(t *testing.T) {
	b := NewBudget(Heap{}, 100)
	require.Equal(t, 100, b.Limit())

	first, err := b.Acquire(60)
	require.NoError(t, err)
	require.Equal(t, 60, b.InUse())

	_, err = b.Acquire(41)
	require.ErrorIs(t, err, ErrOverBudget)
	require.Equal(t, 60, b.InUse())

	second, err := b.Acquire(40)
	require.NoError(t, err)
	require.Equal(t, 100, b.InUse())

	require.NoError(t, b.Release(first))
	require.NoError(t, b.Release(second))
	require.Zero(t, b.InUse())
}

func TestBudgetPropagatesSourceError(t *testing.T) {
	b := NewBudget(Heap{}, 10)
	_, err := b.Acquire(0)
	require.ErrorIs(t, err, ErrBadSize)
	require.Zero(t, b.InUse())
}
