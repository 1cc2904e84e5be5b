package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		workers int
		want    int
	}{
		{"empty", 0, 4, 0},
		{"single worker", 10, 1, 1},
		{"even split", 12, 4, 4},
		{"uneven split", 10, 4, 4},
		{"more workers than items", 3, 8, 3},
		{"zero workers", 5, 0, 1},
		{"cloth grid", 600, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranges := Partition(tt.n, tt.workers)
			if len(ranges) != tt.want {
				t.Fatalf("expected %d ranges, got %d (%v)", tt.want, len(ranges), ranges)
			}

			next := 0
			for _, r := range ranges {
				if r.Start != next {
					t.Errorf("range %v does not start at %d", r, next)
				}
				if r.Len() <= 0 {
					t.Errorf("empty range %v", r)
				}
				next = r.End
			}
			if next != tt.n {
				t.Errorf("ranges cover [0,%d), want [0,%d)", next, tt.n)
			}
		})
	}
}

func TestPool_ForVisitsEachIndexOnce(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 1001
	hits := make([]int32, n)
	for round := 0; round < 20; round++ {
		pool.For(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
	}

	for i, h := range hits {
		if h != 20 {
			t.Fatalf("index %d visited %d times, want 20", i, h)
		}
	}
}

func TestPool_ForIsABarrier(t *testing.T) {
	pool := NewPool(8)
	defer pool.Close()

	var finished int64
	pool.For(64, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt64(&finished, 1)
		}
	})
	if got := atomic.LoadInt64(&finished); got != 64 {
		t.Errorf("For returned before all work finished: %d/64", got)
	}
}

func TestPool_DefaultWorkers(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()
	if pool.Workers() != DefaultWorkers() {
		t.Errorf("expected %d workers, got %d", DefaultWorkers(), pool.Workers())
	}
}

func TestPool_ForAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()

	sum := 0
	pool.For(10, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	if sum != 45 {
		t.Errorf("expected 45, got %d", sum)
	}
}

func TestFor(t *testing.T) {
	out := make([]int, 100)
	For(len(out), 3, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = i * i
		}
	})
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*i)
		}
	}
}
