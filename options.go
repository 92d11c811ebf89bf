package buddy

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/pavanmanishd/buddy/internal/mem"
)

// Source supplies the byte buffers backing a pool's tree and arena.
// A buffer is always released through the Source that acquired it.
type Source interface {
	Acquire(n int) ([]byte, error)
	Release(b []byte) error
}

// HeapSource returns a Source that allocates from the Go heap.
func HeapSource() Source { return mem.Heap{} }

// MmapSource returns a Source backed by private anonymous mappings, or by the
// Go heap on platforms without them.
func MmapSource() Source { return mem.Mmap{} }

// Budget is a Source capped at a fixed number of outstanding bytes.
// InUse and Limit report its current state.
type Budget = mem.Budget

// BudgetSource wraps src so that at most limit bytes are outstanding at once.
func BudgetSource(src Source, limit int) *Budget { return mem.NewBudget(src, limit) }

type config struct {
	log   zerolog.Logger
	arena Source
	tree  Source
}

// Option configures a Pool at creation.
type Option func(*config)

// WithLogger sets the leveled logger rejected calls and debug traces go to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithSource sets where the arena bytes come from. Defaults to MmapSource.
func WithSource(s Source) Option {
	return func(c *config) { c.arena = s }
}

// WithTreeSource sets where the tree array comes from. Defaults to HeapSource.
func WithTreeSource(s Source) Option {
	return func(c *config) { c.tree = s }
}

func defaultConfig() config {
	return config{
		log: zerolog.New(os.Stderr).Level(zerolog.WarnLevel).
			With().Timestamp().Str("component", "buddy").Logger(),
		arena: mem.Mmap{},
		tree:  mem.Heap{},
	}
}
