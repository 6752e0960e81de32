package utils

import (
	"runtime"
	"sync/atomic"
)

// Spins this many times before yielding the processor.
const spinBeforeYield = 32

// SpinLock acquires the flag at the given address with a CAS loop.
// Meant for short critical sections guarding per-vertex state, where a sync.Mutex per vertex would be too large.
func SpinLock(flag *uint32) {
	for fails := 0; !atomic.CompareAndSwapUint32(flag, 0, 1); fails++ {
		if fails >= spinBeforeYield {
			runtime.Gosched()
			fails = 0
		}
	}
}

func SpinUnlock(flag *uint32) {
	atomic.StoreUint32(flag, 0)
}
