package cloth

import "math"

// Stats summarizes a cloth after a frame.
type Stats struct {
	MaxStretch  float64 `json:"max_stretch"`
	MeanStretch float64 `json:"mean_stretch"`
	Active      int     `json:"active"`
	Broken      int     `json:"broken"`
	Sway        float64 `json:"sway"`
	Kinetic     float64 `json:"kinetic"`
}

// Stats walks the arena once. Sway is the mean horizontal offset of the
// bottom row from where it was laid out; Kinetic is the sum of squared
// per-step displacements over 2dt² (unit mass).
func (c *Cloth) Stats(dt float64) Stats {
	var s Stats
	sum := 0.0
	for i := range c.Constraints {
		cs := &c.Constraints[i]
		if !cs.Active {
			s.Broken++
			continue
		}
		st := cs.Stretch(c.Particles)
		sum += st
		s.MaxStretch = math.Max(s.MaxStretch, st)
		s.Active++
	}
	if s.Active > 0 {
		s.MeanStretch = sum / float64(s.Active)
	}

	t := c.Topology
	if t.Rows > 0 && t.Cols > 0 {
		row := t.Rows - 1
		off := 0.0
		for col := 0; col < t.Cols; col++ {
			rest := t.Origin.X + float64(col)*t.RestDistance
			off += c.Particles[c.Index(row, col)].Position.X - rest
		}
		s.Sway = off / float64(t.Cols)
	}

	if dt > 0 {
		ke := 0.0
		for i := range c.Particles {
			v := c.Particles[i].Velocity()
			ke += v.X*v.X + v.Y*v.Y
		}
		s.Kinetic = ke / (2 * dt * dt)
	}
	return s
}
