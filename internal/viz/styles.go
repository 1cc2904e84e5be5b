package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles the terminal views draw with,
// derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Faint    lipgloss.Style
	Accent   lipgloss.Style
	Running  lipgloss.Style
	Paused   lipgloss.Style
	Alert    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	KeyHint  lipgloss.Style
	Graph    lipgloss.Style
	Panel    lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Text:     lipgloss.NewStyle().Foreground(t.Text),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Faint:    lipgloss.NewStyle().Foreground(t.Faint),
		Accent:   lipgloss.NewStyle().Foreground(t.Accent),
		Running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Alert:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:    lipgloss.NewStyle().Foreground(t.Text),
		KeyHint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Graph:    lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Faint).Padding(0, 1),
		Selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// Sparkline renders values as a row of block characters, sampled down to
// width. Empty input renders a flat rule.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		idx := int((values[i*step] - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Bar renders a fill bar for ratio in [0, 1]; values outside are clamped.
func Bar(ratio float64, width int, on, off lipgloss.Style) string {
	filled := int(ratio * float64(width))
	filled = max(0, min(filled, width))
	return on.Render(strings.Repeat("━", filled)) + off.Render(strings.Repeat("─", width-filled))
}

// StretchLegend renders a short color ramp from relaxed to torn.
func StretchLegend() string {
	var b strings.Builder
	for _, s := range []float64{0.5, 1, 1.25, 1.5, 2} {
		b.WriteString(StretchStyle(s).Render("█"))
	}
	return b.String()
}

// Separator draws a centred decorative rule.
func Separator(width int, style lipgloss.Style) string {
	if width < 8 {
		return style.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return style.Render(fmt.Sprintf("%s ◆ %s", left, right))
}
