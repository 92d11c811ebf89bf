package buddy

import "math/bits"

// tree is the free-order bookkeeping of a pool: a complete binary tree stored
// breadth-first in a flat array. nodes[i] holds the order of the largest free
// block inside the subtree rooted at i, or 0 when nothing there is free.
type tree struct {
	nodes    []uint8
	maxOrder uint8
	minOrder uint8
}

func left(i int) int   { return i<<1 + 1 }
func right(i int) int  { return i<<1 + 2 }
func parent(i int) int { return (i+1)>>1 - 1 }

// treeSize returns the number of nodes needed to track orders [minOrder, maxOrder].
func treeSize(maxOrder, minOrder uint8) int {
	return 1<<(maxOrder-minOrder+1) - 1
}

// smallestOrder returns the smallest k with 1<<k >= size.
func smallestOrder(size uint) uint8 {
	if size <= 1 {
		return 0
	}
	return uint8(bits.Len(size - 1))
}

// reset marks every node as the root of a whole, unsplit free block.
func (t *tree) reset() {
	pos, width := 0, 1
	for order := int(t.maxOrder); order >= int(t.minOrder); order-- {
		level := t.nodes[pos : pos+width]
		for i := range level {
			level[i] = uint8(order)
		}
		pos += width
		width <<= 1
	}
}

// isLeaf reports whether i sits at minOrder.
func (t *tree) isLeaf(i int) bool {
	return left(i) >= len(t.nodes)
}

// alloc takes the leftmost free node of the given order and returns its index.
// It reports false when the root cannot satisfy the order.
func (t *tree) alloc(order uint8) (int, bool) {
	if t.nodes[0] < order {
		return len(t.nodes), false
	}

	i := 0
	for o := t.maxOrder; o > order; o-- {
		if t.nodes[left(i)] >= order {
			i = left(i)
		} else {
			i = right(i)
		}
	}
	t.nodes[i] = 0
	t.afterAlloc(i)
	return i, true
}

func (t *tree) afterAlloc(i int) {
	for i != 0 {
		i = parent(i)
		t.nodes[i] = max(t.nodes[left(i)], t.nodes[right(i)])
	}
}

// free returns node i, allocated at the given order, and merges buddies upward.
// Two siblings merge only when each is a whole free block of its own order.
func (t *tree) free(i int, order uint8) {
	t.nodes[i] = order
	for i != 0 {
		i = parent(i)
		order++

		l, r := t.nodes[left(i)], t.nodes[right(i)]
		if l == order-1 && r == order-1 {
			t.nodes[i] = order
		} else {
			t.nodes[i] = max(l, r)
		}
	}
}

// visit is called for every block the walk finds allocated as a single unit.
type visit func(index int, order uint8)

// walk performs a pre-order traversal and calls fn for every allocated block,
// in address order. A node is one block when its value is 0 and it is a leaf
// or both of its children still hold nonzero (stale) values.
func (t *tree) walk(fn visit) {
	type frame struct {
		index int
		order uint8
	}

	// Pushing right before left keeps at most one pending sibling per level.
	limit := int(t.maxOrder-t.minOrder) + 2
	stack := make([]frame, 0, limit)
	stack = append(stack, frame{0, t.maxOrder})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.isLeaf(f.index) {
			if t.nodes[f.index] == 0 {
				fn(f.index, f.order)
			}
			continue
		}

		if t.nodes[f.index] == f.order {
			continue // whole free block
		}

		l, r := left(f.index), right(f.index)
		if t.nodes[f.index] == 0 && t.nodes[l] != 0 && t.nodes[r] != 0 {
			fn(f.index, f.order)
			continue
		}

		if len(stack)+2 > limit {
			panic("buddy: tree walk deeper than pool orders")
		}
		stack = append(stack, frame{r, f.order - 1}, frame{l, f.order - 1})
	}
}
