package cloth

import "errors"

// Domain errors for cloth construction and mutation.
var (
	// ErrInvalidTopology indicates a grid that cannot be built (zero rows, bad spacing).
	ErrInvalidTopology = errors.New("cloth: invalid topology")

	// ErrDegenerateConstraint indicates a link whose rest length is zero.
	ErrDegenerateConstraint = errors.New("cloth: degenerate constraint (zero rest length)")

	// ErrInvalidIndex indicates a particle index outside the arena or a self-link.
	ErrInvalidIndex = errors.New("cloth: invalid particle index")

	// ErrPinned indicates an attempt to move a pinned particle.
	ErrPinned = errors.New("cloth: particle is pinned")
)
