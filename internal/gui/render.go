package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/viz"
)

const dotRadius = 2

// viewport maps world coordinates onto the window, preserving aspect.
type viewport struct {
	scale float64
	offX  float64
	offY  float64
}

func fit(worldW, worldH, screenW, screenH float64) viewport {
	s := math.Min(screenW/worldW, screenH/worldH)
	return viewport{
		scale: s,
		offX:  (screenW - worldW*s) / 2,
		offY:  (screenH - worldH*s) / 2,
	}
}

func (v viewport) toScreen(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x*v.scale+v.offX), float32(y*v.scale+v.offY))
}

func (v viewport) toWorld(x, y float32) cloth.Vec2 {
	return cloth.V((float64(x)-v.offX)/v.scale, (float64(y)-v.offY)/v.scale)
}

func stretchColor(s float64) rl.Color {
	r, g, b := viz.StretchColor(s)
	return rl.NewColor(r, g, b, 255)
}

// drawCloth draws active links colored by stretch, then every particle as a
// small dot. Pinned particles are red; the dragged one is white.
func (a *App) drawCloth() {
	ps := a.Snap.Particles
	for _, l := range a.Snap.Links {
		if !l.Active {
			continue
		}
		p1 := a.View.toScreen(ps[l.A].X, ps[l.A].Y)
		p2 := a.View.toScreen(ps[l.B].X, ps[l.B].Y)
		rl.DrawLineV(p1, p2, stretchColor(l.Stretch))
	}

	for _, p := range ps {
		col := ColAccent
		switch {
		case p.ID == a.Dragged:
			col = ColSelect
		case p.Pinned:
			col = ColPin
		}
		rl.DrawCircleV(a.View.toScreen(p.X, p.Y), dotRadius, col)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		c := a.View.toScreen(a.pointer().X, a.pointer().Y)
		r := float32(a.Sim.Config().ParticleRadius * a.View.scale)
		rl.DrawCircleLines(int32(c.X), int32(c.Y), r, ColAccent)
	}
}
