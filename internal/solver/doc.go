// Package solver holds the sequential position passes run after integration.
//
//   - [Relaxer]: fixed-pass Gauss-Seidel relaxation of distance constraints
//   - [Separator]: opt-in particle separation driven by the spatial hash
//
// Both passes run on a single goroutine. Adjacent constraints share
// particles, and each correction must see the positions written by the
// previous one, so the passes are never split across workers.
package solver
