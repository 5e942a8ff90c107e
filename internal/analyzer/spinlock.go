// SPDX-License-Identifier: MIT
package analyzer

import (
	"runtime"
	"sync/atomic"
)

// spinLock is the cross-thread publish lock for the smoothed spectrum.
// The critical section is a fixed-size array copy or the per-bin smoothing
// recursion, so a busy-wait beats parking the audio thread in the kernel.
// Never hold it across a syscall, allocation, or anything unbounded.
type spinLock struct {
	state atomic.Uint32
}

func (l *spinLock) Lock() {
	for !l.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

func (l *spinLock) Unlock() {
	l.state.Store(0)
}
