package sim

import "github.com/san-kum/clothsim/internal/cloth"

type ParticleView struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Pinned bool    `json:"pinned"`
}

type LinkView struct {
	ID      int     `json:"id"`
	A       int     `json:"a"`
	B       int     `json:"b"`
	Active  bool    `json:"active"`
	Stretch float64 `json:"stretch"`
}

// Snapshot is a copy of the cloth safe to hold across frames.
type Snapshot struct {
	Frame     int            `json:"frame"`
	Elapsed   float64        `json:"elapsed"`
	Wind      float64        `json:"wind"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Particles []ParticleView `json:"particles"`
	Links     []LinkView     `json:"links"`
	Stats     cloth.Stats    `json:"stats"`
}

func (s *Simulator) Snapshot() Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)
	return snap
}

// SnapshotInto refills dst, reusing its slices. Render loops call this once
// per frame to avoid allocating.
func (s *Simulator) SnapshotInto(dst *Snapshot) {
	c := s.cloth
	dst.Frame = s.frame
	dst.Elapsed = s.elapsed
	dst.Wind = s.wind.X
	dst.Width = s.cfg.Width
	dst.Height = s.cfg.Height
	dst.Rows = c.Topology.Rows
	dst.Cols = c.Topology.Cols
	dst.Stats = s.stats

	dst.Particles = dst.Particles[:0]
	for i := range c.Particles {
		p := &c.Particles[i]
		dst.Particles = append(dst.Particles, ParticleView{ID: i, X: p.Position.X, Y: p.Position.Y, Pinned: p.Pinned})
	}

	dst.Links = dst.Links[:0]
	for i := range c.Constraints {
		cs := &c.Constraints[i]
		dst.Links = append(dst.Links, LinkView{
			ID:      i,
			A:       cs.A,
			B:       cs.B,
			Active:  cs.Active,
			Stretch: cs.Stretch(c.Particles),
		})
	}
}
