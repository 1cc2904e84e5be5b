// Package parallel provides fork-join execution over index ranges.
//
//   - [Partition]: split [0, n) into contiguous, non-overlapping ranges
//   - [Pool]: persistent workers with per-call submission and a join barrier
//   - [For]: one-shot fork-join that spawns goroutines per call
//
// Workers only ever receive disjoint ranges, so callers may mutate the
// elements of their range without locking.
//
// # Example
//
//	pool := parallel.NewPool(0) // runtime.NumCPU() workers
//	defer pool.Close()
//	pool.For(len(items), func(start, end int) {
//	    for i := start; i < end; i++ {
//	        items[i].Update(dt)
//	    }
//	})
package parallel
