// SPDX-License-Identifier: MIT
package analyzer

import (
	"sync"
	"testing"
)

func TestSpinLockMutualExclusion(t *testing.T) {
	t.Parallel()

	var l spinLock
	var wg sync.WaitGroup
	counter := 0

	const workers = 8
	const iterations = 2000

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != workers*iterations {
		t.Errorf("counter = %d, want %d", counter, workers*iterations)
	}
}

func TestSpinLockHotPath(t *testing.T) {
	var l spinLock
	allocs := testing.AllocsPerRun(100, func() {
		l.Lock()
		l.Unlock()
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations in lock/unlock, got %.1f", allocs)
	}
}
