package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
)

// PeakStretch is the largest link stretch seen over a run.
type PeakStretch struct {
	peak float64
}

func NewPeakStretch() *PeakStretch { return &PeakStretch{} }

func (m *PeakStretch) Name() string { return "peak_stretch" }

func (m *PeakStretch) Observe(_ *cloth.Cloth, f sim.Frame) {
	m.peak = math.Max(m.peak, f.Stats.MaxStretch)
}

func (m *PeakStretch) Value() float64 { return m.peak }
func (m *PeakStretch) Reset()         { m.peak = 0 }

// MeanStretch averages the per-frame mean stretch.
type MeanStretch struct {
	sum     float64
	samples int
}

func NewMeanStretch() *MeanStretch { return &MeanStretch{} }

func (m *MeanStretch) Name() string { return "mean_stretch" }

func (m *MeanStretch) Observe(_ *cloth.Cloth, f sim.Frame) {
	m.sum += f.Stats.MeanStretch
	m.samples++
}

func (m *MeanStretch) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanStretch) Reset() {
	m.sum = 0
	m.samples = 0
}

// Broken counts links severed by the end of the run.
type Broken struct {
	last int
}

func NewBroken() *Broken { return &Broken{} }

func (m *Broken) Name() string                       { return "broken_links" }
func (m *Broken) Observe(_ *cloth.Cloth, f sim.Frame) { m.last = f.Stats.Broken }
func (m *Broken) Value() float64                      { return float64(m.last) }
func (m *Broken) Reset()                              { m.last = 0 }
