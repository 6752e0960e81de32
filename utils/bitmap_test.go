package utils

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AtomicBitmap(t *testing.T) {
	bm := NewAtomicBitmap(130)
	assert.Len(t, bm, 3)
	assert.False(t, bm.Any())

	assert.True(t, bm.Set(0))
	assert.False(t, bm.Set(0))
	assert.True(t, bm.Set(64))
	assert.True(t, bm.Set(129))
	assert.True(t, bm.Get(129))
	assert.False(t, bm.Get(128))
	assert.Equal(t, 3, bm.Count())

	assert.True(t, bm.Clear(64))
	assert.False(t, bm.Clear(64))
	assert.Equal(t, 2, bm.Count())

	var seen []uint32
	bm.ForEach(func(x uint32) bool {
		seen = append(seen, x)
		return true
	})
	assert.Equal(t, []uint32{0, 129}, seen)

	assert.True(t, bm.Clear(0))
	assert.True(t, bm.Clear(129))
	assert.False(t, bm.Any())
}

func Test_AtomicBitmapAllSet(t *testing.T) {
	for _, size := range []int{0, 1, 63, 64, 65, 200} {
		bm := NewAtomicBitmap(size)
		for i := 0; i < size; i++ {
			assert.False(t, bm.AllSet(size), "size %d", size)
			bm.Set(uint32(i))
		}
		assert.True(t, bm.AllSet(size), "size %d", size)
	}
}

func Test_AtomicBitmapConcurrent(t *testing.T) {
	const size = 1 << 12
	bm := NewAtomicBitmap(size)
	nThreads := rand.Intn(8-1) + 1

	var wg sync.WaitGroup
	for tidx := 0; tidx < nThreads; tidx++ {
		wg.Add(1)
		go func(tidx int) {
			defer wg.Done()
			// Interleaved ownership so that threads share words.
			for x := tidx; x < size; x += nThreads {
				bm.Set(uint32(x))
			}
		}(tidx)
	}
	wg.Wait()
	assert.True(t, bm.AllSet(size))
	assert.Equal(t, size, bm.Count())
}

func Benchmark_AtomicBitmapSetClear(b *testing.B) {
	const size = 1 << 16
	bm := NewAtomicBitmap(size)
	entries := make([]uint32, 1024)
	for i := range entries {
		entries[i] = rand.Uint32() % size
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, e := range entries {
			bm.Set(e)
		}
		for _, e := range entries {
			bm.Clear(e)
		}
	}
}
