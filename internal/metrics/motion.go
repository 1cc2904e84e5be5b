package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
)

// SwayAmplitude tracks the largest horizontal excursion of the bottom row.
type SwayAmplitude struct {
	max float64
}

func NewSwayAmplitude() *SwayAmplitude { return &SwayAmplitude{} }

func (m *SwayAmplitude) Name() string { return "sway_amplitude" }

func (m *SwayAmplitude) Observe(_ *cloth.Cloth, f sim.Frame) {
	m.max = math.Max(m.max, math.Abs(f.Stats.Sway))
}

func (m *SwayAmplitude) Value() float64 { return m.max }
func (m *SwayAmplitude) Reset()         { m.max = 0 }

// Kinetic averages the kinetic energy proxy over the run, skipping the
// first frame so the settle from rest does not dominate short runs.
type Kinetic struct {
	total   float64
	samples int
}

func NewKinetic() *Kinetic { return &Kinetic{} }

func (m *Kinetic) Name() string { return "kinetic" }

func (m *Kinetic) Observe(_ *cloth.Cloth, f sim.Frame) {
	if f.Index <= 1 {
		return
	}
	m.total += f.Stats.Kinetic
	m.samples++
}

func (m *Kinetic) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Kinetic) Reset() {
	m.total = 0
	m.samples = 0
}

// Default returns the metric set attached to CLI runs.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPeakStretch(),
		NewMeanStretch(),
		NewBroken(),
		NewSwayAmplitude(),
		NewKinetic(),
	}
}

// Names lists the metric names produced by Default.
func Names() []string {
	ms := Default()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return names
}
