// Package spatial provides a uniform-grid broad-phase index over particles.
//
// A [Hash] maps each particle to the cell containing it. Cells are hashed
// into buckets, so two far-apart cells may share a bucket; queries can
// therefore return false positives but never miss a particle within one
// cell of the query point. Callers that need true proximity filter with
// [Hash.Within].
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
)

var ErrInvalidCellSize = errors.New("spatial: cell size must be positive")

const (
	primeX uint64 = 73856093
	primeY uint64 = 19349669
)

// Hash buckets particle indices by grid cell. Update must not run
// concurrently with queries; queries may run concurrently with each other.
type Hash struct {
	cellSize float64
	buckets  map[uint64][]int
	count    int
}

// New returns an empty hash with the given cell edge.
func New(cellSize float64) (*Hash, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: %f", ErrInvalidCellSize, cellSize)
	}
	return &Hash{
		cellSize: cellSize,
		buckets:  make(map[uint64][]int),
	}, nil
}

// CellSize is the cell edge the hash was built with.
func (h *Hash) CellSize() float64 { return h.cellSize }

// Cell returns the integer cell coordinates of p.
func (h *Hash) Cell(p cloth.Vec2) (int, int) {
	return int(math.Floor(p.X / h.cellSize)), int(math.Floor(p.Y / h.cellSize))
}

// Key combines cell coordinates into a bucket key.
func Key(cx, cy int) uint64 {
	return uint64(int64(cx))*primeX ^ uint64(int64(cy))*primeY
}

// Update clears the index and reinserts every particle. Bucket slices are
// kept and truncated so steady-state frames do not allocate.
func (h *Hash) Update(ps []cloth.Particle) {
	for k, b := range h.buckets {
		if len(b) == 0 {
			delete(h.buckets, k)
			continue
		}
		h.buckets[k] = b[:0]
	}
	for i := range ps {
		k := Key(h.Cell(ps[i].Position))
		h.buckets[k] = append(h.buckets[k], i)
	}
	h.count = len(ps)
}

// Nearby returns the indices stored in the 3x3 block of cells around p.
// Each bucket is visited once, so a collision between two of the nine
// cells does not produce duplicates.
func (h *Hash) Nearby(p cloth.Vec2) []int {
	cx, cy := h.Cell(p)
	var seen [9]uint64
	n := 0
	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			k := Key(cx+dx, cy+dy)
			if visited(seen[:n], k) {
				continue
			}
			seen[n] = k
			n++
			out = append(out, h.buckets[k]...)
		}
	}
	return out
}

func visited(seen []uint64, k uint64) bool {
	for _, s := range seen {
		if s == k {
			return true
		}
	}
	return false
}

// Within filters Nearby down to particles no further than radius from p.
// Radii larger than the cell size can miss particles.
func (h *Hash) Within(p cloth.Vec2, radius float64, ps []cloth.Particle) []int {
	cand := h.Nearby(p)
	out := cand[:0]
	r2 := radius * radius
	for _, i := range cand {
		d := ps[i].Position.Sub(p)
		if d.X*d.X+d.Y*d.Y <= r2 {
			out = append(out, i)
		}
	}
	return out
}

// Len is the number of particles inserted by the last Update.
func (h *Hash) Len() int { return h.count }

// Buckets is the number of non-empty buckets.
func (h *Hash) Buckets() int {
	n := 0
	for _, b := range h.buckets {
		if len(b) > 0 {
			n++
		}
	}
	return n
}
