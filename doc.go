// Package buddy implements a fixed-capacity, power-of-two buddy allocator.
//
// # Overview
//
// A Pool owns one arena of 2^orderMax bytes and hands out blocks whose sizes
// are powers of two between 2^orderMin and 2^orderMax. Free space is tracked
// in an implicit binary tree stored as a flat array: node i has children
// 2i+1 and 2i+2, and each node records the order of the largest free block
// in its subtree (0 when the subtree is full). Allocation, free and resize
// are bounded by the tree depth, orderMax-orderMin.
//
// This is useful for:
//
//   - Codec and media pipelines that need deterministic pool allocation
//   - Resource-constrained callers with a fixed memory budget
//   - Keeping large, short-lived buffers out of the Go heap
//
// # Basic Usage
//
//	p, err := buddy.New(20, 6) // 1 MiB arena, 64-byte minimum block
//	if err != nil {
//		return err
//	}
//	defer p.Close()
//
//	buf, err := p.Alloc(1000) // len 1000, cap 1024
//	if err != nil {
//		return err // errors.Is(err, buddy.ErrOutOfSpace) when full
//	}
//
//	buf, err = p.Realloc(buf, 3000) // moves into a 4 KiB block
//	p.Free(buf)
//
//	p.Reset() // release everything at once
//
// Blocks can also be addressed by arena offset with AllocOffset, FreeOffset
// and ResizeOffset.
//
// # Placement
//
// Allocation descends from the root and takes the left child whenever it can
// hold the request, so the lowest-addressed fitting block is chosen. Freeing a
// block merges it with its buddy only when the buddy is one whole free block,
// and repeats the check at every level up to the root.
//
// # Resizing
//
// Realloc checks the request against the largest free block before the old
// block is released. Growth can therefore fail with ErrOutOfSpace even when
// freeing first would have made room; the old block stays valid. A request that
// fits the current block returns the same block and keeps its full size.
//
// # Errors and Logging
//
// All failures return one of ErrConfig, ErrResource, ErrInvalidArgument or
// ErrOutOfSpace (wrapped; use errors.Is) and are logged at error level on the
// pool's zerolog logger. The pool's state is unchanged by a rejected call.
// Successful operations are traced at debug level.
//
// # Thread Safety
//
// Pool has no internal locking. Distinct pools are independent; a single pool
// must be used from one goroutine at a time.
//
// # Metrics and Reporting
//
//	m := p.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//
//	p.Report(os.Stderr, buddy.ReportTotal, "after decode")
package buddy
