package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/viz"
)

const (
	liveWidth   = 70
	liveHeight  = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the cloth to a terminal while a headless run is in
// progress. It is a sim.Observer and throttles itself to frameRate.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	sim       *sim.Simulator
	canvas    *viz.Canvas
	snap      sim.Snapshot
}

func NewLiveRenderer(out io.Writer, s *sim.Simulator, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		name:      s.Config().Name,
		frameRate: frameRate,
		sim:       s,
		canvas:    viz.NewCanvas(liveWidth, liveHeight),
	}
}

func (r *LiveRenderer) OnFrame(_ *cloth.Cloth, f sim.Frame) {
	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()

	r.sim.SnapshotInto(&r.snap)
	r.canvas.Clear()
	r.canvas.DrawSnapshot(&r.snap, r.canvas.Fit(r.snap.Width, r.snap.Height))
	r.render(f)
}

func (r *LiveRenderer) render(f sim.Frame) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  frame=%d  t=%.2fs  wind=%+.2f\n", r.name, f.Index, f.Elapsed, f.Wind.X)
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for _, row := range r.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	fmt.Fprintf(&b, "  stretch max=%.3f mean=%.3f  links=%d broken=%d\n",
		f.Stats.MaxStretch, f.Stats.MeanStretch, f.Stats.Active, f.Stats.Broken)

	io.WriteString(r.out, b.String())
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }
