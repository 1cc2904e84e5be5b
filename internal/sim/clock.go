package sim

import "time"

// Clock supplies the elapsed time fed to the wind term for a given frame.
type Clock interface {
	Elapsed(frame int) float64
}

// WallClock reports seconds since it was created, ignoring the frame index.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Elapsed(int) float64 {
	return time.Since(c.start).Seconds()
}

// FixedClock advances exactly 1/Rate seconds per frame, which makes
// headless runs reproducible.
type FixedClock struct {
	Rate float64
}

func (c FixedClock) Elapsed(frame int) float64 {
	if c.Rate <= 0 {
		return 0
	}
	return float64(frame) / c.Rate
}
