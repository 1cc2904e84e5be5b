package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/clothsim/internal/sim"
)

func testSnapshot() *sim.Snapshot {
	return &sim.Snapshot{
		Width:  100,
		Height: 50,
		Particles: []sim.ParticleView{
			{ID: 0, X: 10, Y: 10, Pinned: true},
			{ID: 1, X: 30, Y: 10},
			{ID: 2, X: 30, Y: 30},
		},
		Links: []sim.LinkView{
			{ID: 0, A: 0, B: 1, Active: true, Stretch: 2},
			{ID: 1, A: 1, B: 2, Active: false, Stretch: 1},
		},
	}
}

func TestSnapshotToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SnapshotToSVG(&buf, testSnapshot(), 2); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, `width="200" height="100"`) {
		t.Error("scale not applied to canvas size")
	}
	if n := strings.Count(out, "<line "); n != 1 {
		t.Errorf("expected 1 line for the active link, got %d", n)
	}
	if !strings.Contains(out, `stroke="#ff8000"`) {
		t.Error("stretched link should be drawn in the stretch color")
	}
	if n := strings.Count(out, "<circle "); n != 3 {
		t.Errorf("expected 3 particles, got %d", n)
	}
	if !strings.Contains(out, `fill="#ff5050"`) {
		t.Error("pinned particle not highlighted")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestSnapshotToSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := SnapshotToSVG(&buf, &sim.Snapshot{}, 1); err == nil {
		t.Error("expected error for empty snapshot")
	}
	if err := SnapshotToSVG(&buf, nil, 1); err == nil {
		t.Error("expected error for nil snapshot")
	}
}

func TestSeriesToSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SeriesToSVG(&buf, []float64{1, 2, 3, 2}, 300, 100, "#00ff00"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `d="M0.0,`) {
		t.Error("path should start at x=0")
	}
	if n := strings.Count(out, " L"); n != 3 {
		t.Errorf("expected 3 segments, got %d", n)
	}
	if !strings.Contains(out, " L300.0,") {
		t.Error("last point should reach the right edge")
	}

	if err := SeriesToSVG(&buf, []float64{1}, 10, 10, "#fff"); err == nil {
		t.Error("expected error for single point")
	}
}
