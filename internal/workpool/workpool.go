// Package workpool implements the single shared thread pool every compile
// stage schedules work on, per SPEC_FULL.md §9: a fixed number of worker
// goroutines, one atomic work counter per parallel region fetched down to
// exhaustion, and a single "big" mutex guarding shared accumulators. This
// deliberately departs from the teacher's per-subsystem buffered-channel
// pool (world.ChunkStreamer) in favor of the original tool's threads.cpp
// model, since the compiler's stages need deterministic, boundable
// concurrency rather than a long-lived background stream.
package workpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool shared across every pipeline stage.
// Create one per process and reuse it for CSG, BSP, VIS, and RAD so a
// -threads flag controls the whole run uniformly.
type Pool struct {
	numThreads int

	// big is the single coarse-grained mutex ("ThreadLock" in the
	// original) that stage callbacks take when touching shared
	// accumulators. It is intentionally one mutex for the whole pool, not
	// one per data structure: the original's concurrency model trades
	// fine-grained locking for simplicity and auditability.
	big sync.Mutex
}

// New creates a pool sized to n worker goroutines. n<=0 means
// runtime.NumCPU().
func New(n int) *Pool {
	if n <= 0 {
		n = max(runtime.NumCPU(), 1)
	}
	return &Pool{numThreads: n}
}

// NumThreads reports the configured worker count.
func (p *Pool) NumThreads() int { return p.numThreads }

// Lock acquires the pool's single shared mutex. Stage callbacks hold it
// only around the shared-accumulator update, never around the per-item
// work itself.
func (p *Pool) Lock() { p.big.Lock() }

// Unlock releases the pool's single shared mutex.
func (p *Pool) Unlock() { p.big.Unlock() }

// RunFor executes fn(i) for every i in [0,count) using the pool's worker
// goroutines. Work is distributed by a single atomic fetch-add counter:
// each worker fetches the next index until the counter reaches count,
// matching the original's GetThreadWork/-1-sentinel scheme without
// needing a literal sentinel value (the counter itself carries exhaustion).
//
// fn must be safe to call concurrently from numThreads goroutines; any
// shared state it touches must be protected with Lock/Unlock.
func (p *Pool) RunFor(count int, fn func(i int)) {
	if count <= 0 {
		return
	}
	var next int64
	var wg sync.WaitGroup
	workers := p.numThreads
	if workers > count {
		workers = count
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := atomic.AddInt64(&next, 1) - 1
				if i >= int64(count) {
					return
				}
				fn(int(i))
			}
		}()
	}
	wg.Wait()
}

// Reduce runs RunFor over count items, collecting each worker's partial
// result and combining them in a fixed, deterministic order (task index,
// not completion order) so floating-point accumulations — form-factor
// sums in RAD chief among them — don't vary between runs on the same
// input.
func Reduce[T any](p *Pool, count int, zero T, fn func(i int) T, combine func(acc, v T) T) T {
	partials := make([]T, count)
	p.RunFor(count, func(i int) {
		partials[i] = fn(i)
	})
	acc := zero
	for i := 0; i < count; i++ {
		acc = combine(acc, partials[i])
	}
	return acc
}
