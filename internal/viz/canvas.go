package viz

import (
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/sim"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a character grid where each cell holds 2x4 dots, so its
// resolution in dots is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	return c
}

// DotWidth and DotHeight are the canvas size in dots.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Projection maps world coordinates (y down, origin top left) onto canvas
// dots, keeping the aspect ratio.
type Projection struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Fit returns the projection that fits a worldW x worldH area into the
// canvas, centred.
func (c *Canvas) Fit(worldW, worldH float64) Projection {
	if worldW <= 0 || worldH <= 0 {
		return Projection{Scale: 1}
	}
	dw, dh := float64(c.DotWidth()), float64(c.DotHeight())
	s := math.Min(dw/worldW, dh/worldH)
	return Projection{
		Scale:   s,
		OffsetX: (dw - worldW*s) / 2,
		OffsetY: (dh - worldH*s) / 2,
	}
}

func (p Projection) Apply(x, y float64) (int, int) {
	return int(math.Round(x*p.Scale + p.OffsetX)), int(math.Round(y*p.Scale + p.OffsetY))
}

// Invert maps a dot back to world coordinates.
func (p Projection) Invert(x, y int) (float64, float64) {
	return (float64(x) - p.OffsetX) / p.Scale, (float64(y) - p.OffsetY) / p.Scale
}

// DrawSnapshot draws every active link of snap, plus a small cross on each
// pinned particle. Broken links are skipped.
func (c *Canvas) DrawSnapshot(snap *sim.Snapshot, proj Projection) {
	ps := snap.Particles
	for _, l := range snap.Links {
		if !l.Active || l.A >= len(ps) || l.B >= len(ps) {
			continue
		}
		x0, y0 := proj.Apply(ps[l.A].X, ps[l.A].Y)
		x1, y1 := proj.Apply(ps[l.B].X, ps[l.B].Y)
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range ps {
		if !p.Pinned {
			continue
		}
		x, y := proj.Apply(p.X, p.Y)
		c.Set(x-1, y)
		c.Set(x+1, y)
		c.Set(x, y-1)
		c.Set(x, y+1)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
