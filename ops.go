package buddy

import (
	"fmt"
	"unsafe"
)

// orderFor returns the order of the block that serves a size-byte request.
func (p *Pool) orderFor(size int) uint8 {
	return max(smallestOrder(uint(size)), p.tree.minOrder)
}

// AllocOffset reserves a block of at least size bytes and returns its offset
// in the arena. The block's contents are not zeroed.
func (p *Pool) AllocOffset(size int) (int, error) {
	if err := p.check("malloc"); err != nil {
		return -1, err
	}
	if size <= 0 {
		return -1, p.reject("malloc", fmt.Errorf("%w: bad size: %d", ErrInvalidArgument, size))
	}

	order := p.orderFor(size)
	i, ok := p.tree.alloc(order)
	if !ok {
		return -1, p.reject("malloc", fmt.Errorf("%w: need order %d, largest free is %d", ErrOutOfSpace, order, p.tree.nodes[0]))
	}
	off := p.tree.offset(i, order)
	p.log.Debug().Int("offset", off).Int("space", 1<<order).Int("size", size).Msg("malloc")
	return off, nil
}

// Alloc reserves a block of at least size bytes. The returned slice has
// length size and capacity equal to the block size.
func (p *Pool) Alloc(size int) ([]byte, error) {
	off, err := p.AllocOffset(size)
	if err != nil {
		return nil, err
	}
	return p.arena[off : off+size : off+p.blockSize(off)], nil
}

// FreeOffset returns the block starting at off to the pool.
func (p *Pool) FreeOffset(off int) error {
	if err := p.check("free"); err != nil {
		return err
	}
	i, order, err := p.locate("free", off)
	if err != nil {
		return err
	}
	p.log.Debug().Int("offset", off).Int("space", 1<<order).Msg("free")
	p.tree.free(i, order)
	return nil
}

// Free returns the block b starts in to the pool. b must start exactly at a
// block handed out by this pool.
func (p *Pool) Free(b []byte) error {
	if err := p.check("free"); err != nil {
		return err
	}
	off, err := p.sliceOffset("free", b)
	if err != nil {
		return err
	}
	return p.FreeOffset(off)
}

// ResizeOffset changes the block at off to hold at least size bytes.
//
// The request is admitted against the largest free block before the old block
// is released, so growth can fail with ErrOutOfSpace even when freeing first
// would have made room. On failure the old block is untouched. Requests that
// fit the current block return off unchanged and keep the whole block.
// Growth copies the old block into the new one and returns the new offset.
func (p *Pool) ResizeOffset(off, size int) (int, error) {
	if err := p.check("realloc"); err != nil {
		return -1, err
	}
	if size <= 0 {
		return -1, p.reject("realloc", fmt.Errorf("%w: bad size: %d", ErrInvalidArgument, size))
	}
	oi, oldOrder, err := p.locate("realloc", off)
	if err != nil {
		return -1, err
	}

	newOrder := p.orderFor(size)
	if p.tree.nodes[0] < newOrder {
		return -1, p.reject("realloc", fmt.Errorf("%w: need order %d, largest free is %d", ErrOutOfSpace, newOrder, p.tree.nodes[0]))
	}
	if newOrder <= oldOrder {
		return off, nil
	}

	p.tree.free(oi, oldOrder)
	ni, _ := p.tree.alloc(newOrder)
	noff := p.tree.offset(ni, newOrder)
	p.log.Debug().
		Int("offset", off).Int("space", 1<<oldOrder).
		Int("new_offset", noff).Int("new_space", 1<<newOrder).
		Int("size", size).Msg("realloc")

	n := 1 << oldOrder
	copy(p.arena[noff:noff+n], p.arena[off:off+n])
	return noff, nil
}

// Realloc is ResizeOffset for slices. The result has length size; when the
// block does not move it shares b's backing block.
func (p *Pool) Realloc(b []byte, size int) ([]byte, error) {
	if err := p.check("realloc"); err != nil {
		return nil, err
	}
	off, err := p.sliceOffset("realloc", b)
	if err != nil {
		return nil, err
	}
	noff, err := p.ResizeOffset(off, size)
	if err != nil {
		return nil, err
	}
	return p.arena[noff : noff+size : noff+p.blockSize(noff)], nil
}

// Bytes returns the n bytes of the arena starting at off.
func (p *Pool) Bytes(off, n int) ([]byte, error) {
	if err := p.check("bytes"); err != nil {
		return nil, err
	}
	if off < 0 || n < 0 || off > len(p.arena)-n {
		return nil, p.reject("bytes", fmt.Errorf("%w: range [%d, %d+%d) outside pool of %d", ErrInvalidArgument, off, off, n, len(p.arena)))
	}
	return p.arena[off : off+n : off+n], nil
}

// BlockSize returns the size of the live block starting at off.
func (p *Pool) BlockSize(off int) (int, error) {
	if err := p.check("size"); err != nil {
		return 0, err
	}
	_, order, err := p.locate("size", off)
	if err != nil {
		return 0, err
	}
	return 1 << order, nil
}

// blockSize is BlockSize for offsets just produced by the tree.
func (p *Pool) blockSize(off int) int {
	_, order, _ := p.tree.lookup(off)
	return 1 << order
}

// locate bounds-checks off and resolves it to its allocated node.
func (p *Pool) locate(op string, off int) (int, uint8, error) {
	if off < 0 {
		return 0, 0, p.reject(op, fmt.Errorf("%w: offset %d before pool", ErrInvalidArgument, off))
	}
	if off >= len(p.arena) {
		return 0, 0, p.reject(op, fmt.Errorf("%w: offset %d after pool of %d", ErrInvalidArgument, off, len(p.arena)))
	}
	i, order, ok := p.tree.lookup(off)
	if !ok {
		return 0, 0, p.reject(op, fmt.Errorf("%w: offset %d: illegal node or corrupted pool", ErrInvalidArgument, off))
	}
	return i, order, nil
}

// sliceOffset maps b back to its offset in the arena by address arithmetic.
func (p *Pool) sliceOffset(op string, b []byte) (int, error) {
	if cap(b) == 0 {
		return 0, p.reject(op, fmt.Errorf("%w: nil block", ErrInvalidArgument))
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.arena)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if ptr < base {
		return 0, p.reject(op, fmt.Errorf("%w: block %#x before pool at %#x", ErrInvalidArgument, ptr, base))
	}
	if ptr-base >= uintptr(len(p.arena)) {
		return 0, p.reject(op, fmt.Errorf("%w: block %#x after pool at %#x+%d", ErrInvalidArgument, ptr, base, len(p.arena)))
	}
	return int(ptr - base), nil
}
