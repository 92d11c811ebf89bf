package buddy_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pavanmanishd/buddy"
)

func newPool(b *testing.B, orderMax, orderMin int) *buddy.Pool {
	b.Helper()
	p, err := buddy.New(orderMax, orderMin, buddy.WithLogger(zerolog.Nop()))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { p.Close() })
	return p
}

// BenchmarkSmallAllocations tests small allocation patterns (8-64 bytes)
// These are common for small objects and short-lived buffers
func BenchmarkSmallAllocations(b *testing.B) {
	sizes := []int{8, 16, 32, 64}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Buddy_%dB", size), func(b *testing.B) {
			p := newPool(b, 16, 3)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				off, err := p.AllocOffset(size)
				if err != nil {
					b.Fatal(err)
				}
				if err := p.FreeOffset(off); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

// BenchmarkLargeAllocations tests large allocation patterns (2KB-64KB)
// Deep pools pay for the longer descent on each call
func BenchmarkLargeAllocations(b *testing.B) {
	sizes := []int{2048, 8192, 32768, 65536}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Buddy_%dB", size), func(b *testing.B) {
			p := newPool(b, 20, 4)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				buf, err := p.Alloc(size)
				if err != nil {
					b.Fatal(err)
				}
				if err := p.Free(buf); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

type point struct {
	X, Y, Z float64
}

// BenchmarkTypedAllocations tests allocation of pointer-free Go types
func BenchmarkTypedAllocations(b *testing.B) {
	b.Run("Buddy_Struct", func(b *testing.B) {
		p := newPool(b, 16, 4)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			v, err := buddy.NewValue[point](p)
			if err != nil {
				b.Fatal(err)
			}
			v.X = float64(i)
			if err := buddy.Delete(p, v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Builtin_Struct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			v := &point{}
			v.X = float64(i)
			runtime.KeepAlive(v)
		}
	})

	b.Run("Buddy_Slice100", func(b *testing.B) {
		p := newPool(b, 16, 4)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			s, err := buddy.MakeSlice[int64](p, 100)
			if err != nil {
				b.Fatal(err)
			}
			s[99] = int64(i)
			if err := buddy.DeleteSlice(p, s); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Builtin_Slice100", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			s := make([]int64, 100)
			s[99] = int64(i)
			runtime.KeepAlive(s)
		}
	})
}

// BenchmarkBatchAllocations fills a pool with many blocks and then releases
// them either one by one or with a single Reset
func BenchmarkBatchAllocations(b *testing.B) {
	const batch = 1000

	b.Run("Buddy_FreeEach", func(b *testing.B) {
		p := newPool(b, 16, 6)
		offs := make([]int, batch)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := range offs {
				offs[j], _ = p.AllocOffset(64)
			}
			for _, off := range offs {
				_ = p.FreeOffset(off)
			}
		}
	})

	b.Run("Buddy_Reset", func(b *testing.B) {
		p := newPool(b, 16, 6)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < batch; j++ {
				_, _ = p.AllocOffset(64)
			}
			_ = p.Reset()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		bufs := make([][]byte, batch)
		for i := 0; i < b.N; i++ {
			for j := range bufs {
				bufs[j] = make([]byte, 64)
			}
		}
		runtime.KeepAlive(bufs)
	})
}

// BenchmarkGCPressure measures GC impact of keeping many live blocks
func BenchmarkGCPressure(b *testing.B) {
	const live = 10000

	b.Run("Buddy", func(b *testing.B) {
		p := newPool(b, 20, 6)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < live; j++ {
				_, _ = p.AllocOffset(64)
			}
			runtime.GC()
			_ = p.Reset()
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			bufs := make([][]byte, live)
			for j := range bufs {
				bufs[j] = make([]byte, 64)
			}
			runtime.GC()
			runtime.KeepAlive(bufs)
		}
	})
}
