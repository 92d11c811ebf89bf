package buddy

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// newTestPool creates a heap-backed pool with logging disabled.
func newTestPool(t testing.TB, orderMax, orderMin int, opts ...Option) *Pool {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop()), WithSource(HeapSource())}, opts...)
	p, err := New(orderMax, orderMin, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

// snapshot copies the tree so later states can be compared bit for bit.
func snapshot(p *Pool) []uint8 {
	return append([]uint8(nil), p.tree.nodes...)
}
