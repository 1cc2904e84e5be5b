package parallel

import "testing"

func kernel(xs []float64) func(start, end int) {
	return func(start, end int) {
		for i := start; i < end; i++ {
			xs[i] = xs[i]*0.99 + 1
		}
	}
}

func BenchmarkSerial(b *testing.B) {
	xs := make([]float64, 600)
	fn := kernel(xs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fn(0, len(xs))
	}
}

func BenchmarkSpawn(b *testing.B) {
	xs := make([]float64, 600)
	fn := kernel(xs)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		For(len(xs), DefaultWorkers(), fn)
	}
}

func BenchmarkPool(b *testing.B) {
	xs := make([]float64, 600)
	fn := kernel(xs)
	p := NewPool(0)
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.For(len(xs), fn)
	}
}
