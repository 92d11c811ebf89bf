package buddy

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// MaxOrder is the largest order_max a pool accepts (a 1 GiB arena).
const MaxOrder = 30

// Pool is a fixed-capacity buddy allocator over a single 2^orderMax byte arena.
// Not goroutine-safe; callers sharing a Pool must serialize access themselves.
type Pool struct {
	tree   tree
	arena  []byte
	cfg    config
	log    zerolog.Logger
	closed bool
}

// New creates a pool of 2^orderMax bytes whose smallest block is 2^orderMin
// bytes. It requires 1 <= orderMin < orderMax <= MaxOrder.
func New(orderMax, orderMin int, opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log

	switch {
	case orderMax > MaxOrder:
		err := fmt.Errorf("%w: order_max %d > %d", ErrConfig, orderMax, MaxOrder)
		log.Error().Err(err).Msg("create")
		return nil, err
	case orderMin >= orderMax:
		err := fmt.Errorf("%w: order_min %d >= order_max %d", ErrConfig, orderMin, orderMax)
		log.Error().Err(err).Msg("create")
		return nil, err
	case orderMin < 1:
		err := fmt.Errorf("%w: order_min %d < 1", ErrConfig, orderMin)
		log.Error().Err(err).Msg("create")
		return nil, err
	}

	p := &Pool{cfg: cfg, log: log}
	p.tree.maxOrder = uint8(orderMax)
	p.tree.minOrder = uint8(orderMin)

	nodes, err := cfg.tree.Acquire(treeSize(p.tree.maxOrder, p.tree.minOrder))
	if err != nil {
		err = fmt.Errorf("%w: tree of %d bytes: %w", ErrResource, treeSize(p.tree.maxOrder, p.tree.minOrder), err)
		log.Error().Err(err).Msg("create")
		return nil, err
	}
	log.Debug().Int("bytes", len(nodes)).Msg("create: tree")

	arena, err := cfg.arena.Acquire(1 << orderMax)
	if err != nil {
		err = fmt.Errorf("%w: pool of %d bytes: %w", ErrResource, 1<<orderMax, err)
		if rerr := cfg.tree.Release(nodes); rerr != nil {
			err = errors.Join(err, rerr)
		}
		log.Error().Err(err).Msg("create")
		return nil, err
	}
	log.Debug().Int("bytes", len(arena)).Int("min_block", 1<<orderMin).Msg("create: pool")

	p.tree.nodes = nodes
	p.arena = arena
	p.tree.reset()
	return p, nil
}

// Close releases the arena and the tree. Blocks handed out earlier must not be
// used afterwards. Closing a closed pool does nothing.
func (p *Pool) Close() error {
	if p == nil {
		return fmt.Errorf("%w: nil pool", ErrInvalidArgument)
	}
	if p.closed {
		return nil
	}
	p.closed = true

	err := errors.Join(p.cfg.arena.Release(p.arena), p.cfg.tree.Release(p.tree.nodes))
	p.arena = nil
	p.tree.nodes = nil
	if err != nil {
		p.log.Error().Err(err).Msg("destroy")
	}
	return err
}

// Reset frees every block at once without touching the buffers.
// Blocks handed out earlier become invalid.
func (p *Pool) Reset() error {
	if err := p.check("init"); err != nil {
		return err
	}
	p.tree.reset()
	return nil
}

// Size returns the arena size in bytes.
func (p *Pool) Size() int { return 1 << p.tree.maxOrder }

// MinBlock returns the size of the smallest block the pool hands out.
func (p *Pool) MinBlock() int { return 1 << p.tree.minOrder }

// OrderMax returns the pool's order_max.
func (p *Pool) OrderMax() int { return int(p.tree.maxOrder) }

// OrderMin returns the pool's order_min.
func (p *Pool) OrderMin() int { return int(p.tree.minOrder) }

// check rejects nil and closed pools.
func (p *Pool) check(op string) error {
	if p == nil {
		return fmt.Errorf("%w: %s: nil pool", ErrInvalidArgument, op)
	}
	if p.closed {
		return p.reject(op, fmt.Errorf("%w: %s: pool closed", ErrInvalidArgument, op))
	}
	return nil
}

// reject reports err on the pool's logger and returns it.
func (p *Pool) reject(op string, err error) error {
	p.log.Error().Str("op", op).Err(err).Msg("rejected")
	return err
}
