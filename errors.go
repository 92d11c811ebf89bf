package buddy

import "errors"

var (
	// ErrConfig indicates an order_max/order_min pair outside 1 <= min < max <= MaxOrder.
	ErrConfig = errors.New("buddy: bad pool configuration")

	// ErrResource indicates that the tree or arena buffer could not be acquired.
	// Anything acquired before the failure has already been released.
	ErrResource = errors.New("buddy: resource acquisition failed")

	// ErrInvalidArgument covers nil or closed pools, zero sizes, and pointers or
	// offsets that do not name a live block of the pool.
	ErrInvalidArgument = errors.New("buddy: invalid argument")

	// ErrOutOfSpace indicates that no free block of the required order exists.
	ErrOutOfSpace = errors.New("buddy: not enough space in pool")
)
