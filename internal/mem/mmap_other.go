//go:build !unix

package mem

// Mmap falls back to heap buffers where anonymous mappings are unavailable.
type Mmap struct{ Heap }
