package utils

import (
	"math/bits"
	"sync/atomic"
)

// AtomicBitmap is a fixed size bitmap where bits may be set and cleared concurrently.
// Words are 64 bits wide, so writers that own disjoint 64-aligned ranges never contend.
type AtomicBitmap []uint64

func NewAtomicBitmap(size int) AtomicBitmap {
	return make(AtomicBitmap, (size+63)>>6)
}

// Set sets bit x. Returns true if the bit was previously unset.
func (bitmap AtomicBitmap) Set(x uint32) bool {
	word := &bitmap[x>>6]
	mask := uint64(1) << (x & 63)
	for {
		old := atomic.LoadUint64(word)
		if old&mask != 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(word, old, old|mask) {
			return true
		}
	}
}

// Clear clears bit x. Returns true if the bit was previously set.
func (bitmap AtomicBitmap) Clear(x uint32) bool {
	word := &bitmap[x>>6]
	mask := uint64(1) << (x & 63)
	for {
		old := atomic.LoadUint64(word)
		if old&mask == 0 {
			return false
		}
		if atomic.CompareAndSwapUint64(word, old, old&^mask) {
			return true
		}
	}
}

func (bitmap AtomicBitmap) Get(x uint32) bool {
	return atomic.LoadUint64(&bitmap[x>>6])&(uint64(1)<<(x&63)) != 0
}

// Count returns the number of set bits. Not synchronized with concurrent writers.
func (bitmap AtomicBitmap) Count() (count int) {
	for i := range bitmap {
		count += bits.OnesCount64(atomic.LoadUint64(&bitmap[i]))
	}
	return count
}

// AllSet returns true if every bit in [0, size) is set.
func (bitmap AtomicBitmap) AllSet(size int) bool {
	full := size >> 6
	for i := 0; i < full; i++ {
		if atomic.LoadUint64(&bitmap[i]) != ^uint64(0) {
			return false
		}
	}
	if rem := size & 63; rem != 0 {
		mask := (uint64(1) << rem) - 1
		return atomic.LoadUint64(&bitmap[full])&mask == mask
	}
	return true
}

// Any returns true if any bit is set.
func (bitmap AtomicBitmap) Any() bool {
	for i := range bitmap {
		if atomic.LoadUint64(&bitmap[i]) != 0 {
			return true
		}
	}
	return false
}

// ForEach calls fn for every set bit in ascending order, stopping early if fn returns false.
func (bitmap AtomicBitmap) ForEach(fn func(x uint32) bool) {
	for i := range bitmap {
		word := atomic.LoadUint64(&bitmap[i])
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			if !fn(uint32(i<<6 + tz)) {
				return
			}
			word &= word - 1
		}
	}
}
