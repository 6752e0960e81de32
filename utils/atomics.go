package utils

import (
	"math"
	"sync/atomic"
	"unsafe"
)

//go:nosplit
func Noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}

//go:nosplit
func AtomicAddFloat64(targetVal *float64, delta float64) (oldF float64) {
	target := (*uint64)(Noescape(unsafe.Pointer(targetVal)))
	for {
		oldU := atomic.LoadUint64(target)
		oldF = math.Float64frombits(oldU)
		if atomic.CompareAndSwapUint64(target, oldU, math.Float64bits(oldF+delta)) {
			return oldF
		}
	}
}

//go:nosplit
func AtomicLoadFloat64(targetVal *float64) float64 {
	return math.Float64frombits(atomic.LoadUint64((*uint64)(Noescape(unsafe.Pointer(targetVal)))))
}

//go:nosplit
func AtomicStoreFloat64(targetVal *float64, val float64) {
	atomic.StoreUint64((*uint64)(Noescape(unsafe.Pointer(targetVal))), math.Float64bits(val))
}

// AtomicReduceFloat64 folds value into the float64 stored (as bits) at target.
// The CAS is skipped when reduce leaves the stored bits unchanged, e.g., a min that does not win.
func AtomicReduceFloat64(target *uint64, value float64, reduce func(current, value float64) float64) (old, new float64) {
	for {
		oldU := atomic.LoadUint64(target)
		old = math.Float64frombits(oldU)
		new = reduce(old, value)
		newU := math.Float64bits(new)
		if newU == oldU || atomic.CompareAndSwapUint64(target, oldU, newU) {
			return old, new
		}
	}
}
