package buddy

// Block describes one live allocation.
type Block struct {
	Offset int   // byte offset in the arena
	Order  uint8 // block size is 1<<Order
	Size   int
}

// Blocks returns every live block in address order.
// A closed pool has none.
func (p *Pool) Blocks() []Block {
	if p == nil || p.closed {
		return nil
	}
	var out []Block
	p.tree.walk(func(i int, order uint8) {
		out = append(out, Block{Offset: p.tree.offset(i, order), Order: order, Size: 1 << order})
	})
	return out
}

// SizeInUse returns the total number of bytes in live blocks, including the
// rounding of each request up to its block size.
func (p *Pool) SizeInUse() int {
	if p == nil || p.closed {
		return 0
	}
	sum := 0
	p.tree.walk(func(_ int, order uint8) {
		sum += 1 << order
	})
	return sum
}

// Capacity returns the arena size in bytes, or 0 for a closed pool.
func (p *Pool) Capacity() int {
	if p == nil || p.closed {
		return 0
	}
	return len(p.arena)
}

// LargestFree returns the size of the largest block that can be allocated now.
func (p *Pool) LargestFree() int {
	if p == nil || p.closed || p.tree.nodes[0] == 0 {
		return 0
	}
	return 1 << p.tree.nodes[0]
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the pool has no capacity.
func (p *Pool) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	m := PoolMetrics{
		Capacity:    p.Capacity(),
		LargestFree: p.LargestFree(),
	}
	if p == nil || p.closed {
		return m
	}
	m.MinBlock = p.MinBlock()
	p.tree.walk(func(_ int, order uint8) {
		m.SizeInUse += 1 << order
		m.NumBlocks++
	})
	if m.Capacity > 0 {
		m.Utilization = float64(m.SizeInUse) / float64(m.Capacity)
	}
	return m
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	SizeInUse   int     // Bytes in live blocks
	Capacity    int     // Arena size in bytes
	NumBlocks   int     // Number of live blocks
	LargestFree int     // Largest block allocatable right now
	MinBlock    int     // Smallest block size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
