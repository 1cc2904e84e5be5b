package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// StretchColor maps a stretch ratio (current length over rest length) to
// an RGB triple: relaxed links are blue, links stretched to twice their
// rest length and beyond are red.
func StretchColor(s float64) (r, g, b uint8) {
	if math.IsNaN(s) || s < 0 {
		s = 0
	}
	v := s * 128
	return uint8(math.Min(255, v)), 128, uint8(math.Max(0, 255-v))
}

// StretchHex is StretchColor as a #rrggbb string for SVG and lipgloss.
func StretchHex(s float64) string {
	r, g, b := StretchColor(s)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// StretchStyle renders text in the stretch color.
func StretchStyle(s float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(StretchHex(s)))
}
