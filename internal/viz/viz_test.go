package viz

import (
	"bytes"
	"errors"
	"image/gif"
	"strings"
	"testing"

	"github.com/san-kum/clothsim/internal/sim"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Fatal("dot not set")
	}
	if c.Grid[1][1] != brailleBlank|0x10 {
		t.Errorf("unexpected rune %U", c.Grid[1][1])
	}
	c.Unset(3, 5)
	if c.IsSet(3, 5) || c.Grid[1][1] != brailleBlank {
		t.Error("dot not cleared")
	}

	// out of range is a no-op
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(100, 100) {
		t.Error("out of range dot reported set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 0)
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 0) {
			t.Fatalf("dot %d missing", x)
		}
	}
	c.Clear()
	c.DrawLine(0, 0, 0, 11)
	for y := 0; y < 12; y++ {
		if !c.IsSet(0, y) {
			t.Fatalf("dot %d missing", y)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if len([]rune(lines[0])) != 3 {
		t.Errorf("expected 3 cells, got %q", lines[0])
	}
}

func TestProjectionFit(t *testing.T) {
	c := NewCanvas(40, 10) // 80x40 dots
	p := c.Fit(200, 100)
	if p.Scale != 0.4 {
		t.Errorf("scale = %v, want 0.4", p.Scale)
	}
	x, y := p.Apply(200, 100)
	if x != 80 || y != 40 {
		t.Errorf("corner maps to (%d,%d)", x, y)
	}
	wx, wy := p.Invert(40, 20)
	if wx != 100 || wy != 50 {
		t.Errorf("invert = (%v,%v)", wx, wy)
	}

	if (c.Fit(0, 10) != Projection{Scale: 1}) {
		t.Error("degenerate world should give identity")
	}
}

func TestDrawSnapshotSkipsBrokenLinks(t *testing.T) {
	snap := &sim.Snapshot{
		Particles: []sim.ParticleView{
			{ID: 0, X: 0, Y: 0, Pinned: true},
			{ID: 1, X: 10, Y: 0},
			{ID: 2, X: 10, Y: 10},
		},
		Links: []sim.LinkView{
			{ID: 0, A: 0, B: 1, Active: true},
			{ID: 1, A: 1, B: 2, Active: false},
		},
	}
	c := NewCanvas(20, 10)
	c.DrawSnapshot(snap, Projection{Scale: 2, OffsetX: 4, OffsetY: 4})

	if !c.IsSet(14, 4) {
		t.Error("active link not drawn")
	}
	if c.IsSet(24, 14) {
		t.Error("broken link drawn")
	}
	if !c.IsSet(4, 3) || !c.IsSet(3, 4) {
		t.Error("pin marker missing")
	}
}

func TestStretchColor(t *testing.T) {
	tests := []struct {
		s       float64
		r, g, b uint8
	}{
		{0, 0, 128, 255},
		{1, 128, 128, 127},
		{1.5, 192, 128, 63},
		{2, 255, 128, 0},
		{5, 255, 128, 0},
		{-1, 0, 128, 255},
	}
	for _, tt := range tests {
		r, g, b := StretchColor(tt.s)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("StretchColor(%v) = (%d,%d,%d), want (%d,%d,%d)", tt.s, r, g, b, tt.r, tt.g, tt.b)
		}
	}
	if got := StretchHex(2); got != "#ff8000" {
		t.Errorf("StretchHex(2) = %s", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("empty = %q", got)
	}
	got := []rune(Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8))
	if len(got) != 8 || got[0] != '▁' || got[7] != '█' {
		t.Errorf("ramp = %q", string(got))
	}
	if got := []rune(Sparkline(make([]float64, 100), 10)); len(got) != 10 {
		t.Errorf("expected 10 cells, got %d", len(got))
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("ocean not found")
	}
	if GetTheme("nope").Name != ThemeSlate.Name {
		t.Error("unknown theme should fall back to slate")
	}
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != Themes[0].Name {
		t.Errorf("NextTheme did not cycle: %v", seen)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}

func TestRecorder(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(2)
	if err := r.Encode(&buf); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("expected ErrNoFrames, got %v", err)
	}

	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	if !r.Capture(c) || !r.Capture(c) {
		t.Fatal("capture under limit failed")
	}
	if r.Capture(c) {
		t.Error("capture beyond limit should be refused")
	}

	if err := r.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(g.Image))
	}
	if g.Image[0].ColorIndexAt(0, 0) != 1 {
		t.Error("first dot should be lit")
	}
	r.Reset()
	if r.Len() != 0 {
		t.Error("reset did not clear frames")
	}
}
