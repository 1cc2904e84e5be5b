// Package sim advances a cloth frame by frame.
//
// A [Simulator] owns the particle arena and runs each frame in a fixed order:
//
//  1. queued commands are applied
//  2. the wind vector is computed from the elapsed time
//  3. the spatial hash is rebuilt from current positions
//  4. particles are integrated in parallel, disjoint ranges (join barrier)
//  5. constraints are relaxed for a fixed number of sequential passes
//  6. the optional separation pass runs
//  7. metrics and observers see the finished frame
//
// Rendering and input collaborators never touch the arena directly; they
// read a [Snapshot] and send a [Command].
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Drive Step, Apply and Snapshot
// from one goroutine; the only concurrency is inside step 4.
package sim
