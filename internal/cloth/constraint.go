package cloth

import "fmt"

// Constraint keeps two particles at RestLength. A and B index into the
// particle arena the constraint was created against.
type Constraint struct {
	A, B       int
	RestLength float64
	Active     bool
}

// NewConstraint links particles a and b at their current distance.
func NewConstraint(ps []Particle, a, b int) (Constraint, error) {
	if a == b || a < 0 || b < 0 || a >= len(ps) || b >= len(ps) {
		return Constraint{}, fmt.Errorf("%w: link %d-%d over %d particles", ErrInvalidIndex, a, b, len(ps))
	}
	rest := ps[a].Position.Dist(ps[b].Position)
	if rest == 0 {
		return Constraint{}, fmt.Errorf("%w: link %d-%d", ErrDegenerateConstraint, a, b)
	}
	return Constraint{A: a, B: b, RestLength: rest, Active: true}, nil
}

// Satisfy moves the endpoints toward RestLength along the connecting axis.
// Two free endpoints split the error in opposite directions; with one end
// pinned the free endpoint takes all of it.
func (c *Constraint) Satisfy(ps []Particle) {
	if !c.Active {
		return
	}
	p1, p2 := &ps[c.A], &ps[c.B]
	if p1.Pinned && p2.Pinned {
		return
	}

	delta := p2.Position.Sub(p1.Position)
	length := delta.Len()
	if length == 0 {
		return
	}
	diff := (length - c.RestLength) / length

	switch {
	case p1.Pinned:
		p2.Position = p2.Position.Sub(delta.Scale(diff))
	case p2.Pinned:
		p1.Position = p1.Position.Add(delta.Scale(diff))
	default:
		corr := delta.Scale(0.5 * diff)
		p1.Position = p1.Position.Add(corr)
		p2.Position = p2.Position.Sub(corr)
	}
}

// Length returns the current endpoint distance.
func (c *Constraint) Length(ps []Particle) float64 {
	return ps[c.A].Position.Dist(ps[c.B].Position)
}

// Stretch is the current length over the rest length (1 means relaxed).
func (c *Constraint) Stretch(ps []Particle) float64 {
	return c.Length(ps) / c.RestLength
}
