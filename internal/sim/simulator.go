package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/parallel"
	"github.com/san-kum/clothsim/internal/solver"
	"github.com/san-kum/clothsim/internal/spatial"
)

type Simulator struct {
	cfg       *config.Config
	cloth     *cloth.Cloth
	hash      *spatial.Hash
	pool      *parallel.Pool
	ownsPool  bool
	relaxer   *solver.Relaxer
	separator *solver.Separator
	metrics   []Metric
	observers []Observer
	pending   []Command
	log       *slog.Logger
	validate  bool

	frame   int
	elapsed float64
	wind    cloth.Vec2
	stats   cloth.Stats
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

// WithPool shares an existing pool; the simulator will not close it.
func WithPool(p *parallel.Pool) Option {
	return func(s *Simulator) { s.pool = p }
}

// WithValidation toggles the NaN/Inf check Run performs after each frame.
func WithValidation(on bool) Option {
	return func(s *Simulator) { s.validate = on }
}

// New validates cfg and builds the cloth. All setup failures surface here;
// Step itself has no error path.
func New(cfg *config.Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:       cfg.Clone(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       slog.Default(),
		validate:  true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.build(); err != nil {
		return nil, err
	}

	hash, err := spatial.New(s.cfg.CellSize())
	if err != nil {
		return nil, err
	}
	s.hash = hash
	s.hash.Update(s.cloth.Particles)
	s.relaxer = solver.NewRelaxer(s.cfg.Physics.Iterations)
	if s.cfg.SelfCollision.Enabled {
		s.separator = solver.NewSeparator(s.cfg.SelfCollision.Radius, s.hash)
	}
	if s.pool == nil {
		s.pool = parallel.NewPool(s.cfg.Workers)
		s.ownsPool = true
	}

	s.log.Debug("simulator ready",
		"preset", s.cfg.Name,
		"particles", len(s.cloth.Particles),
		"constraints", len(s.cloth.Constraints),
		"workers", s.pool.Workers(),
		"cell_size", s.cfg.CellSize(),
		"self_collision", s.cfg.SelfCollision.Enabled,
	)
	return s, nil
}

func (s *Simulator) build() error {
	c, err := cloth.NewGrid(s.cfg.Topology())
	if err != nil {
		return fmt.Errorf("build cloth: %w", err)
	}
	s.cloth = c
	s.stats = c.Stats(s.cfg.Physics.TimeStep)
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Config() *config.Config { return s.cfg }
func (s *Simulator) Cloth() *cloth.Cloth    { return s.cloth }
func (s *Simulator) FrameIndex() int        { return s.frame }

// SetWind retunes the wind between frames.
func (s *Simulator) SetWind(w config.WindConfig) { s.cfg.Wind = w }

// Reset rebuilds the sheet from the configuration, dropping cuts and drags.
func (s *Simulator) Reset() error {
	s.pending = s.pending[:0]
	s.frame = 0
	s.elapsed = 0
	s.wind = cloth.Vec2{}
	if err := s.build(); err != nil {
		return err
	}
	s.hash.Update(s.cloth.Particles)
	return nil
}

// Close releases the worker pool if the simulator created it.
func (s *Simulator) Close() {
	if s.ownsPool {
		s.pool.Close()
	}
}

// Apply runs cmd against the arena immediately.
func (s *Simulator) Apply(cmd Command) error {
	return cmd.Apply(s.cloth)
}

// Submit queues cmd for the start of the next frame.
func (s *Simulator) Submit(cmd Command) {
	s.pending = append(s.pending, cmd)
}

func (s *Simulator) drain() {
	for _, cmd := range s.pending {
		if err := cmd.Apply(s.cloth); err != nil {
			s.log.Warn("command rejected", "frame", s.frame, "command", fmt.Sprintf("%T", cmd), "err", err)
		}
	}
	s.pending = s.pending[:0]
}

// Step advances one frame using elapsed (seconds since start) for the wind.
func (s *Simulator) Step(elapsed float64) Frame {
	s.drain()

	s.elapsed = elapsed
	s.wind = Wind(s.cfg.Wind, elapsed)

	s.hash.Update(s.cloth.Particles)
	s.integrate(s.wind)
	s.relaxer.Relax(s.cloth)
	if s.separator != nil {
		s.separator.Separate(s.cloth)
	}

	s.frame++
	s.stats = s.cloth.Stats(s.cfg.Physics.TimeStep)
	f := Frame{Index: s.frame, Elapsed: elapsed, Wind: s.wind, Stats: s.stats}

	for _, m := range s.metrics {
		m.Observe(s.cloth, f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(s.cloth, f)
	}
	return f
}

func (s *Simulator) integrate(wind cloth.Vec2) {
	ps := s.cloth.Particles
	gravity := cloth.V(0, s.cfg.Physics.Gravity)
	dt, w, h := s.cfg.Physics.TimeStep, s.cfg.Width, s.cfg.Height

	s.pool.For(len(ps), func(start, end int) {
		integrateRange(ps[start:end], gravity, wind, dt, w, h)
	})
}

// integrateRange touches only the particles in ps.
func integrateRange(ps []cloth.Particle, gravity, wind cloth.Vec2, dt, w, h float64) {
	for i := range ps {
		p := &ps[i]
		p.ApplyForce(gravity)
		p.ApplyForce(wind)
		p.Update(dt)
		p.ConstrainToBounds(w, h)
	}
}

// Run steps frames times, reading elapsed time from clock. The context is
// checked between frames only; a started frame always completes.
func (s *Simulator) Run(ctx context.Context, frames int, clock Clock) (*Result, error) {
	if frames < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoFrames, frames)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Frames:  make([]Frame, 0, frames),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f := s.Step(clock.Elapsed(s.frame))
		result.Frames = append(result.Frames, f)

		if s.validate && !s.cloth.Valid() {
			err := &FrameError{Frame: f.Index, Elapsed: f.Elapsed, Wrapped: ErrUnstable}
			s.log.Warn("cloth diverged", "frame", f.Index, "elapsed", f.Elapsed)
			result.Errors = append(result.Errors, err)
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// Pick returns the particle nearest to p within radius, using the hash
// built at the start of the last frame. Radius is capped at the cell size.
func (s *Simulator) Pick(p cloth.Vec2, radius float64) (int, bool) {
	radius = math.Min(radius, s.hash.CellSize())
	best, bestD := -1, math.Inf(1)
	for _, i := range s.hash.Within(p, radius, s.cloth.Particles) {
		if d := s.cloth.Particles[i].Position.Dist(p); d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}
