package cloth

// Particle is a unit-mass point integrated with position Verlet.
// Velocity is implicit: Position - Previous.
type Particle struct {
	Position Vec2
	Previous Vec2
	Acc      Vec2
	Pinned   bool
}

// NewParticle places a particle at rest at (x, y).
func NewParticle(x, y float64, pinned bool) Particle {
	p := V(x, y)
	return Particle{Position: p, Previous: p, Pinned: pinned}
}

// ApplyForce accumulates f until the next Update.
func (p *Particle) ApplyForce(f Vec2) {
	p.Acc = p.Acc.Add(f)
}

// Update advances the particle by one step of dt. A pinned particle keeps
// its position and only drops the accumulated force.
func (p *Particle) Update(dt float64) {
	if p.Pinned {
		p.Acc = Vec2{}
		return
	}
	vel := p.Position.Sub(p.Previous)
	next := p.Position.Add(vel).Add(p.Acc.Scale(dt * dt))
	p.Previous = p.Position
	p.Position = next
	p.Acc = Vec2{}
}

// ConstrainToBounds clamps the position into [0,w]x[0,h]. There is no
// restitution: the particle simply stops at the wall.
func (p *Particle) ConstrainToBounds(w, h float64) {
	if p.Pinned {
		return
	}
	p.Position.X = clamp(p.Position.X, 0, w)
	p.Position.Y = clamp(p.Position.Y, 0, h)
}

// Velocity returns the displacement covered during the last step.
func (p *Particle) Velocity() Vec2 {
	return p.Position.Sub(p.Previous)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
