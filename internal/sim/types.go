package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/clothsim/internal/cloth"
)

var (
	ErrUnknownParticle   = errors.New("sim: unknown particle")
	ErrUnknownConstraint = errors.New("sim: unknown constraint")
	ErrUnstable          = errors.New("sim: cloth unstable (NaN or Inf position)")
	ErrNoFrames          = errors.New("sim: frame count must be positive")
)

// Frame describes one completed step.
type Frame struct {
	Index   int
	Elapsed float64
	Wind    cloth.Vec2
	Stats   cloth.Stats
}

type Metric interface {
	Name() string
	Observe(c *cloth.Cloth, f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(c *cloth.Cloth, f Frame)
}

type Result struct {
	Frames  []Frame
	Metrics map[string]float64
	Errors  []error
}

// FrameError attaches frame context to an error found after a frame.
type FrameError struct {
	Frame   int
	Elapsed float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Elapsed, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
