package buddy

// poolSize is the arena length covered by the tree.
func (t *tree) poolSize() int {
	return 1 << t.maxOrder
}

// offset maps a node and its order to the byte offset of its block.
//
//	order 4:              0
//	order 3:       1             2
//	order 2:   3      4      5       6
//
// The first node of each level has index 2^(max-order)-1, so
// (index+1)<<order walks off the start of the level by exactly poolSize.
func (t *tree) offset(index int, order uint8) int {
	return (index+1)<<order - t.poolSize()
}

// lookup recovers the allocated node that starts at off. Candidates are tried
// from minOrder upward while off stays aligned to the candidate block size; the
// first one whose value is 0 owns the offset. Descendants of a block allocated
// as one unit always hold nonzero values, so the smallest zero node is the
// block itself. Misaligned or unallocated offsets return len(nodes), false.
func (t *tree) lookup(off int) (int, uint8, bool) {
	for order := t.minOrder; order <= t.maxOrder && off%(1<<order) == 0; order++ {
		i := 1<<(t.maxOrder-order) - 1 + off>>order
		if t.nodes[i] == 0 {
			return i, order, true
		}
	}
	return len(t.nodes), 0, false
}
