package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/viz"
)

const svgBackground = "#0a0a0a"

// SnapshotToSVG draws the snapshot's active links in their stretch color
// and its particles as dots, scaled by scale from world units.
func SnapshotToSVG(w io.Writer, snap *sim.Snapshot, scale float64) error {
	if snap == nil || len(snap.Particles) == 0 {
		return fmt.Errorf("export: empty snapshot")
	}
	if scale <= 0 {
		scale = 1
	}

	width := snap.Width * scale
	height := snap.Height * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g stroke-width="%.2f" stroke-linecap="round">
`, width, height, width, height, svgBackground, math.Max(1, scale))

	ps := snap.Particles
	for _, l := range snap.Links {
		if !l.Active {
			continue
		}
		a, b := ps[l.A], ps[l.B]
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, a.X*scale, a.Y*scale, b.X*scale, b.Y*scale, viz.StretchHex(l.Stretch))
	}
	sb.WriteString("</g>\n<g>\n")

	r := 2 * scale
	for _, p := range ps {
		fill := "#b4b4b4"
		if p.Pinned {
			fill = "#ff5050"
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, p.X*scale, p.Y*scale, r, fill)
	}

	sb.WriteString("</g>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// SeriesToSVG plots values against their index as a polyline.
func SeriesToSVG(w io.Writer, values []float64, width, height int, strokeColor string) error {
	if len(values) < 2 {
		return fmt.Errorf("export: need at least two points, got %d", len(values))
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, svgBackground, strokeColor)

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	_, err := io.WriteString(w, sb.String())
	return err
}
