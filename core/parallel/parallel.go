// Package parallel spreads index-addressed work over goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Range calls fn over contiguous chunks that together cover [0, n), one
// goroutine per chunk and at most GOMAXPROCS chunks. When n <= threshold,
// fn runs once over the whole range on the calling goroutine.
//
// Every slot in [0, n) is visited exactly once, so callers may write
// results into a pre-sized slice without locking. A panic inside fn is
// re-raised on the calling goroutine once all chunks have returned, which
// keeps deferred recovery in the caller effective.
func Range(n, threshold int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n <= threshold {
		fn(0, n)
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers

	var (
		wg     sync.WaitGroup
		once   sync.Once
		caught interface{}
	)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { caught = r })
				}
			}()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()

	if caught != nil {
		panic(caught)
	}
}

// Each calls fn once per index in [0, n).
func Each(n, threshold int, fn func(i int)) {
	Range(n, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
