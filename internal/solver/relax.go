package solver

import "github.com/san-kum/clothsim/internal/cloth"

// DefaultPasses is the number of relaxation sweeps per frame.
const DefaultPasses = 5

// Relaxer satisfies a cloth's constraints with Gauss-Seidel sweeps.
type Relaxer struct {
	Passes int
}

// NewRelaxer returns a Relaxer running passes sweeps; passes < 1 means
// DefaultPasses.
func NewRelaxer(passes int) *Relaxer {
	if passes < 1 {
		passes = DefaultPasses
	}
	return &Relaxer{Passes: passes}
}

// Relax runs every active constraint Passes times in index order. There is
// no convergence test; a frame always costs Passes sweeps.
func (r *Relaxer) Relax(c *cloth.Cloth) {
	for pass := 0; pass < r.Passes; pass++ {
		for i := range c.Constraints {
			c.Constraints[i].Satisfy(c.Particles)
		}
	}
}
