package solver

import (
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/spatial"
)

func newCloth(t *testing.T, rows, cols int) *cloth.Cloth {
	t.Helper()
	c, err := cloth.NewGrid(cloth.Topology{Rows: rows, Cols: cols, RestDistance: 25, Origin: cloth.V(100, 100), Pin: cloth.PinTop})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return c
}

func maxError(c *cloth.Cloth) float64 {
	worst := 0.0
	for i := range c.Constraints {
		cs := &c.Constraints[i]
		worst = math.Max(worst, math.Abs(cs.Length(c.Particles)-cs.RestLength))
	}
	return worst
}

func TestNewRelaxer_Default(t *testing.T) {
	if r := NewRelaxer(0); r.Passes != DefaultPasses {
		t.Errorf("expected %d passes, got %d", DefaultPasses, r.Passes)
	}
	if r := NewRelaxer(3); r.Passes != 3 {
		t.Errorf("expected 3 passes, got %d", r.Passes)
	}
}

func TestRelax_ConvergesOverPasses(t *testing.T) {
	stretched := func() *cloth.Cloth {
		c := newCloth(t, 4, 1)
		for i := range c.Particles {
			c.Particles[i].Position.Y += 3 * float64(i)
		}
		return c
	}

	initial := maxError(stretched())

	one := stretched()
	NewRelaxer(1).Relax(one)

	many := stretched()
	NewRelaxer(100).Relax(many)

	if maxError(many) >= maxError(one) {
		t.Errorf("100 passes (%.6f) not tighter than 1 pass (%.6f)", maxError(many), maxError(one))
	}
	if maxError(many) > 0.1*initial {
		t.Errorf("expected error below %.4f after 100 passes, got %.6f", 0.1*initial, maxError(many))
	}
}

func TestRelax_KeepsPinnedRow(t *testing.T) {
	c := newCloth(t, 3, 3)
	for i := range c.Particles {
		if !c.Particles[i].Pinned {
			c.Particles[i].Position.Y += 10
		}
	}
	var anchors []cloth.Vec2
	for i := 0; i < 3; i++ {
		anchors = append(anchors, c.Particles[i].Position)
	}

	NewRelaxer(5).Relax(c)

	for i := 0; i < 3; i++ {
		if c.Particles[i].Position != anchors[i] {
			t.Errorf("pinned particle %d moved to %v", i, c.Particles[i].Position)
		}
	}
}

func TestRelax_SkipsCutLinks(t *testing.T) {
	c := newCloth(t, 2, 1)
	c.Particles[1].Position.Y += 10
	if err := c.Cut(0); err != nil {
		t.Fatal(err)
	}
	before := c.Particles[1].Position
	NewRelaxer(5).Relax(c)
	if c.Particles[1].Position != before {
		t.Errorf("cut link still pulled particle: %v -> %v", before, c.Particles[1].Position)
	}
}

func TestSeparate(t *testing.T) {
	c, err := cloth.NewGrid(cloth.Topology{Rows: 1, Cols: 2, RestDistance: 25, Pin: cloth.PinNone})
	if err != nil {
		t.Fatal(err)
	}
	c.Particles[1].Position = cloth.V(4, 0)

	h, err := spatial.New(50)
	if err != nil {
		t.Fatal(err)
	}
	h.Update(c.Particles)

	n := NewSeparator(10, h).Separate(c)
	if n != 1 {
		t.Errorf("expected 1 corrected pair, got %d", n)
	}
	d := c.Particles[0].Position.Dist(c.Particles[1].Position)
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("expected separation 10, got %.6f", d)
	}
	if c.Particles[0].Position.X != -3 || c.Particles[1].Position.X != 7 {
		t.Errorf("expected symmetric push, got %v %v", c.Particles[0].Position, c.Particles[1].Position)
	}
}

func TestSeparate_PinnedStaysPut(t *testing.T) {
	c, err := cloth.NewGrid(cloth.Topology{Rows: 1, Cols: 2, RestDistance: 25, Pin: cloth.PinCorners})
	if err != nil {
		t.Fatal(err)
	}
	c.Particles[1].Pinned = false
	c.Particles[1].Position = cloth.V(2, 0)

	h, _ := spatial.New(50)
	h.Update(c.Particles)
	NewSeparator(10, h).Separate(c)

	if c.Particles[0].Position != cloth.V(0, 0) {
		t.Errorf("pinned particle moved to %v", c.Particles[0].Position)
	}
	if math.Abs(c.Particles[1].Position.X-10) > 1e-9 {
		t.Errorf("free particle expected at x=10, got %v", c.Particles[1].Position)
	}
}
