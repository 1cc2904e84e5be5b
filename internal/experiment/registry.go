package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["peak_stretch"] = func() sim.Metric { return metrics.NewPeakStretch() }
	r.metrics["mean_stretch"] = func() sim.Metric { return metrics.NewMeanStretch() }
	r.metrics["broken_links"] = func() sim.Metric { return metrics.NewBroken() }
	r.metrics["sway_amplitude"] = func() sim.Metric { return metrics.NewSwayAmplitude() }
	r.metrics["kinetic"] = func() sim.Metric { return metrics.NewKinetic() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Metrics builds the named metrics, or every registered one when names is
// empty.
func (r *Registry) Metrics(names []string) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, n := range names {
		m, err := r.GetMetric(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for k := range r.metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
