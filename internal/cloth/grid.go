package cloth

import "fmt"

// PinPolicy selects which particles of a fresh grid are anchored.
type PinPolicy string

const (
	PinTop     PinPolicy = "top"
	PinCorners PinPolicy = "corners"
	PinNone    PinPolicy = "none"
)

// Topology describes the rectangular sheet built by NewGrid.
type Topology struct {
	Rows         int
	Cols         int
	RestDistance float64
	Origin       Vec2
	Pin          PinPolicy
}

func (t Topology) Validate() error {
	if t.Rows < 1 || t.Cols < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidTopology, t.Rows, t.Cols)
	}
	if t.RestDistance <= 0 {
		return fmt.Errorf("%w: rest distance must be positive, got %f", ErrInvalidTopology, t.RestDistance)
	}
	switch t.Pin {
	case PinTop, PinCorners, PinNone, "":
	default:
		return fmt.Errorf("%w: unknown pin policy %q", ErrInvalidTopology, t.Pin)
	}
	return nil
}

func (t Topology) pinned(row, col int) bool {
	switch t.Pin {
	case PinNone:
		return false
	case PinCorners:
		return row == 0 && (col == 0 || col == t.Cols-1)
	default:
		return row == 0
	}
}

// Cloth owns the particle arena and the structural links over it.
type Cloth struct {
	Topology    Topology
	Particles   []Particle
	Constraints []Constraint
}

// NewGrid lays out Rows x Cols particles at RestDistance spacing and links
// orthogonal neighbours. Particle (row, col) lives at index row*Cols+col.
func NewGrid(t Topology) (*Cloth, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	n := t.Rows * t.Cols
	ps := make([]Particle, n)
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			x := t.Origin.X + float64(col)*t.RestDistance
			y := t.Origin.Y + float64(row)*t.RestDistance
			ps[row*t.Cols+col] = NewParticle(x, y, t.pinned(row, col))
		}
	}

	links := (t.Rows*(t.Cols-1) + (t.Rows-1)*t.Cols)
	cs := make([]Constraint, 0, links)
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Cols; col++ {
			i := row*t.Cols + col
			if col < t.Cols-1 {
				c, err := NewConstraint(ps, i, i+1)
				if err != nil {
					return nil, err
				}
				cs = append(cs, c)
			}
			if row < t.Rows-1 {
				c, err := NewConstraint(ps, i, i+t.Cols)
				if err != nil {
					return nil, err
				}
				cs = append(cs, c)
			}
		}
	}

	return &Cloth{Topology: t, Particles: ps, Constraints: cs}, nil
}

func (c *Cloth) Index(row, col int) int { return row*c.Topology.Cols + col }

// Move teleports particle i to p with zero velocity.
func (c *Cloth) Move(i int, p Vec2) error {
	if i < 0 || i >= len(c.Particles) {
		return fmt.Errorf("%w: %d", ErrInvalidIndex, i)
	}
	pt := &c.Particles[i]
	if pt.Pinned {
		return fmt.Errorf("%w: %d", ErrPinned, i)
	}
	pt.Position = p
	pt.Previous = p
	return nil
}

// Cut deactivates link i. Cutting twice is a no-op.
func (c *Cloth) Cut(i int) error {
	if i < 0 || i >= len(c.Constraints) {
		return fmt.Errorf("%w: constraint %d", ErrInvalidIndex, i)
	}
	c.Constraints[i].Active = false
	return nil
}

// Valid reports whether every particle position is finite.
func (c *Cloth) Valid() bool {
	for i := range c.Particles {
		if !c.Particles[i].Position.IsValid() {
			return false
		}
	}
	return true
}
