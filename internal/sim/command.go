package sim

import (
	"fmt"

	"github.com/san-kum/clothsim/internal/cloth"
)

// Command is a mutation requested by an input collaborator.
type Command interface {
	Apply(c *cloth.Cloth) error
}

// CutConstraint severs one link. Links are never restored.
type CutConstraint struct {
	ID int
}

func (cmd CutConstraint) Apply(c *cloth.Cloth) error {
	if cmd.ID < 0 || cmd.ID >= len(c.Constraints) {
		return fmt.Errorf("%w: %d", ErrUnknownConstraint, cmd.ID)
	}
	return c.Cut(cmd.ID)
}

// DragParticle places a free particle at To and zeroes its velocity.
type DragParticle struct {
	ID int
	To cloth.Vec2
}

func (cmd DragParticle) Apply(c *cloth.Cloth) error {
	if cmd.ID < 0 || cmd.ID >= len(c.Particles) {
		return fmt.Errorf("%w: %d", ErrUnknownParticle, cmd.ID)
	}
	return c.Move(cmd.ID, cmd.To)
}

// CutAt severs every active link whose midpoint lies within Radius of Point.
type CutAt struct {
	Point  cloth.Vec2
	Radius float64
}

func (cmd CutAt) Apply(c *cloth.Cloth) error {
	r2 := cmd.Radius * cmd.Radius
	for i := range c.Constraints {
		cs := &c.Constraints[i]
		if !cs.Active {
			continue
		}
		mid := c.Particles[cs.A].Position.Add(c.Particles[cs.B].Position).Scale(0.5)
		d := mid.Sub(cmd.Point)
		if d.X*d.X+d.Y*d.Y <= r2 {
			cs.Active = false
		}
	}
	return nil
}
