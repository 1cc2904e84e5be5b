package sim

import (
	"testing"

	"github.com/san-kum/clothsim/internal/config"
)

func benchStep(b *testing.B, workers int) {
	cfg := config.DefaultConfig()
	cfg.Workers = workers
	s, err := New(cfg)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(float64(i) / float64(cfg.FrameRate))
	}
}

func BenchmarkStep_OneWorker(b *testing.B)  { benchStep(b, 1) }
func BenchmarkStep_AllWorkers(b *testing.B) { benchStep(b, 0) }
