// Package cloth provides the mass-point model of a cloth sheet.
//
// The package defines the leaf types of the solver:
//
//   - [Particle]: Verlet point mass (position, previous position, force accumulator)
//   - [Constraint]: distance link between two particles, addressed by index
//   - [Cloth]: fixed-capacity particle arena plus its structural links
//
// # Stable Indices
//
// Constraints never hold pointers. A [Cloth] allocates its particle arena
// once in [NewGrid] and never grows it, so the index pair stored in a
// [Constraint] stays valid for the lifetime of the cloth.
//
// # Example
//
//	c, err := cloth.NewGrid(cloth.Topology{Rows: 20, Cols: 30, RestDistance: 25, Pin: cloth.PinTop})
//	if err != nil {
//	    return err
//	}
//	for i := range c.Constraints {
//	    c.Constraints[i].Satisfy(c.Particles)
//	}
package cloth
