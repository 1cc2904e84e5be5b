package solver

import (
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/spatial"
)

// Separator pushes apart particles closer than Radius. It reads candidates
// from a hash rebuilt at the start of the frame, so particles that moved
// more than a cell since then may be missed for one frame.
type Separator struct {
	Radius float64
	hash   *spatial.Hash
}

func NewSeparator(radius float64, hash *spatial.Hash) *Separator {
	return &Separator{Radius: radius, hash: hash}
}

// Separate returns the number of pairs it corrected.
func (s *Separator) Separate(c *cloth.Cloth) int {
	ps := c.Particles
	r := s.Radius
	corrected := 0
	for i := range ps {
		for _, j := range s.hash.Nearby(ps[i].Position) {
			if j <= i {
				continue
			}
			a, b := &ps[i], &ps[j]
			if a.Pinned && b.Pinned {
				continue
			}
			delta := b.Position.Sub(a.Position)
			d := delta.Len()
			if d >= r || d == 0 {
				continue
			}
			push := delta.Scale((r - d) / d)
			switch {
			case a.Pinned:
				b.Position = b.Position.Add(push)
			case b.Pinned:
				a.Position = a.Position.Sub(push)
			default:
				half := push.Scale(0.5)
				a.Position = a.Position.Sub(half)
				b.Position = b.Position.Add(half)
			}
			corrected++
		}
	}
	return corrected
}
