package parallel

import "sync"

type task struct {
	fn   func(start, end int)
	r    Range
	done *sync.WaitGroup
}

// Pool keeps a fixed set of worker goroutines alive across calls to For.
// For is not meant to be called concurrently with itself or with Close.
type Pool struct {
	workers int
	tasks   chan task
	wg      sync.WaitGroup
	once    sync.Once
	closed  bool
}

// NewPool starts workers goroutines; workers <= 0 means DefaultWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	p := &Pool{
		workers: workers,
		tasks:   make(chan task, workers),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for t := range p.tasks {
		t.fn(t.r.Start, t.r.End)
		t.done.Done()
	}
}

func (p *Pool) Workers() int { return p.workers }

// For runs fn once per range of Partition(n, Workers()) and returns after
// every range has finished. A single range runs on the caller's goroutine.
func (p *Pool) For(n int, fn func(start, end int)) {
	ranges := Partition(n, p.workers)
	if len(ranges) == 0 {
		return
	}
	if p.closed || len(ranges) == 1 {
		for _, r := range ranges {
			fn(r.Start, r.End)
		}
		return
	}

	var done sync.WaitGroup
	done.Add(len(ranges))
	for _, r := range ranges {
		p.tasks <- task{fn: fn, r: r, done: &done}
	}
	done.Wait()
}

// Close stops the workers and waits for them to exit. For keeps working
// afterwards but runs inline.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.closed = true
		close(p.tasks)
		p.wg.Wait()
	})
}

// For executes fn over [0, n) split into workers ranges, spawning one
// goroutine per range for this call only.
func For(n, workers int, fn func(start, end int)) {
	ranges := Partition(n, workers)
	if len(ranges) <= 1 {
		for _, r := range ranges {
			fn(r.Start, r.End)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for _, r := range ranges {
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r.Start, r.End)
	}
	wg.Wait()
}
