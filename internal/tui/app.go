package tui

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/viz"
)

const (
	tickInterval    = 16 * time.Millisecond
	historyCapacity = 120
	windFactor      = 1.25
	recordLimit     = 600
	recordPath      = "clothsim.gif"
)

var presetInfo = map[string]string{
	"default": "20x30 sheet, top row pinned",
	"small":   "10x15 sheet for small terminals",
	"gale":    "strong, fast wind",
	"calm":    "no wind",
	"banner":  "wide banner hung by its corners",
	"drape":   "dense sheet with self-collision",
}

type state int

const (
	stateMenu state = iota
	stateSim
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	state   state
	cursor  int
	presets []string
	log     *slog.Logger

	cfg     *config.Config
	sim     *sim.Simulator
	snap    sim.Snapshot
	elapsed float64
	paused  bool
	last    time.Time
	fps     float64
	history []float64

	// pointer in world coordinates, moved with the arrow keys
	pointer cloth.Vec2

	theme     viz.Theme
	styles    viz.Styles
	canvas    *viz.Canvas
	recorder  *viz.Recorder
	recording bool
	status    string

	width  int
	height int
}

// NewApp returns the terminal program model. When preset is non-empty the
// menu is skipped.
func NewApp(preset string, log *slog.Logger) (*model, error) {
	if log == nil {
		log = slog.Default()
	}
	m := &model{
		state:    stateMenu,
		presets:  config.ListPresets(),
		log:      log,
		theme:    viz.CurrentTheme,
		styles:   viz.NewStyles(viz.CurrentTheme),
		recorder: viz.NewRecorder(recordLimit),
		width:    100,
		height:   32,
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
		if err := m.start(cfg); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewAppWithConfig starts directly on cfg.
func NewAppWithConfig(cfg *config.Config, log *slog.Logger) (*model, error) {
	m, err := NewApp("", log)
	if err != nil {
		return nil, err
	}
	if err := m.start(cfg); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *model) Init() tea.Cmd {
	if m.state == stateSim {
		return tick()
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stop()
			return m, tea.Quit
		}
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
		return m.simKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeCanvas()
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if err := m.start(config.GetPreset(m.presets[m.cursor])); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m *model) simKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := m.cfg.Grid.RestDistance
	switch msg.String() {
	case "q", "esc":
		m.stop()
		m.state = stateMenu
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.sim.Reset(); err != nil {
			m.status = err.Error()
		}
		m.elapsed = 0
		m.history = m.history[:0]
	case "+", "=":
		m.retuneWind(windFactor)
	case "-", "_":
		m.retuneWind(1 / windFactor)
	case "0":
		m.retuneWind(0)
	case "up", "k":
		m.pointer.Y = math.Max(0, m.pointer.Y-step)
	case "down", "j":
		m.pointer.Y = math.Min(m.cfg.Height, m.pointer.Y+step)
	case "left", "h":
		m.pointer.X = math.Max(0, m.pointer.X-step)
	case "right", "l":
		m.pointer.X = math.Min(m.cfg.Width, m.pointer.X+step)
	case "x":
		m.sim.Submit(sim.CutAt{Point: m.pointer, Radius: step})
	case "t":
		m.theme = viz.NextTheme(m.theme)
		m.styles = viz.NewStyles(m.theme)
	case "g":
		m.toggleRecording()
	}
	return m, nil
}

// retuneWind scales the wind strength; factor 0 turns it off and a
// following increase restores the configured default.
func (m *model) retuneWind(factor float64) {
	w := m.sim.Config().Wind
	switch {
	case factor == 0:
		w.Strength = 0
	case w.Strength == 0 && factor > 1:
		w.Strength = config.DefaultWindStrength
	default:
		w.Strength *= factor
	}
	m.sim.SetWind(w)
}

func (m *model) start(cfg *config.Config) error {
	m.stop()
	s, err := sim.New(cfg, sim.WithLogger(m.log))
	if err != nil {
		return err
	}
	m.cfg = s.Config()
	m.sim = s
	m.elapsed = 0
	m.paused = false
	m.last = time.Time{}
	m.history = make([]float64, 0, historyCapacity)
	m.pointer = cloth.V(m.cfg.Width/2, m.cfg.Height/2)
	m.state = stateSim
	m.status = ""
	m.resizeCanvas()
	m.sim.SnapshotInto(&m.snap)
	return nil
}

func (m *model) stop() {
	if m.recording {
		m.toggleRecording()
	}
	if m.sim != nil {
		m.sim.Close()
		m.sim = nil
	}
}

func (m *model) toggleRecording() {
	if !m.recording {
		m.recorder.Reset()
		m.recording = true
		m.status = "recording"
		return
	}
	m.recording = false
	f, err := os.Create(recordPath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), recordPath)
}

func (m *model) resizeCanvas() {
	cw := max(m.width-36, 30)
	ch := max(m.height-6, 10)
	if m.canvas == nil || m.canvas.Width != cw || m.canvas.Height != ch {
		m.canvas = viz.NewCanvas(cw, ch)
	}
}

// advance steps one frame per tick, feeding wall time accumulated while
// not paused to the wind.
func (m *model) advance(now time.Time) {
	if !m.last.IsZero() {
		if d := now.Sub(m.last).Seconds(); d > 0 {
			m.fps = 1 / d
			if !m.paused {
				m.elapsed += d
			}
		}
	}
	m.last = now
	if m.paused {
		return
	}

	f := m.sim.Step(m.elapsed)
	if len(m.history) == historyCapacity {
		m.history = m.history[1:]
	}
	m.history = append(m.history, f.Stats.MaxStretch)
	m.sim.SnapshotInto(&m.snap)
}

func (m *model) View() string {
	if m.state == stateMenu {
		return m.viewMenu()
	}
	return m.viewSim()
}

func (m *model) viewMenu() string {
	st := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(st.Faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + st.Title.Render("c l o t h s i m") + "\n")
	b.WriteString(st.Faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + st.Title.Render("▸ ") + st.Text.Render(fmt.Sprintf("%-10s", name)) + st.Muted.Render(desc) + "\n")
		} else {
			b.WriteString("        " + st.Muted.Render(fmt.Sprintf("%-10s", name)) + st.Faint.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("      " + st.Alert.Render(m.status) + "\n")
	}
	b.WriteString(st.Muted.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m *model) viewSim() string {
	st := m.styles

	m.canvas.Clear()
	proj := m.canvas.Fit(m.snap.Width, m.snap.Height)
	m.canvas.DrawSnapshot(&m.snap, proj)
	px, py := proj.Apply(m.pointer.X, m.pointer.Y)
	for d := -2; d <= 2; d++ {
		m.canvas.Set(px+d, py)
		m.canvas.Set(px, py+d)
	}
	if m.recording {
		m.recorder.Capture(m.canvas)
	}

	canvasView := lipgloss.NewStyle().Foreground(lipgloss.Color(viz.StretchHex(m.snap.Stats.MaxStretch))).
		Render(m.canvas.String())

	var s strings.Builder
	status := st.Running.Render("● running")
	if m.paused {
		status = st.Paused.Render("○ paused")
	}
	if m.recording {
		status += "  " + st.Alert.Render("● rec")
	}
	s.WriteString(st.Title.Render(strings.ToUpper(m.cfg.Name)) + "  " + status + "\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(26), asciigraph.Caption("max stretch"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	wind := m.sim.Config().Wind
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("frame", fmt.Sprintf("%d", m.snap.Frame))
	row("time", fmt.Sprintf("%.2fs", m.snap.Elapsed))
	row("wind", fmt.Sprintf("%+.2f (%.1f @ %.2f)", m.snap.Wind, wind.Strength, wind.Frequency))
	row("stretch", fmt.Sprintf("%.3f / %.3f", m.snap.Stats.MaxStretch, m.snap.Stats.MeanStretch))
	row("links", fmt.Sprintf("%d (%d cut)", m.snap.Stats.Active, m.snap.Stats.Broken))
	row("sway", fmt.Sprintf("%+.2f", m.snap.Stats.Sway))
	row("fps", fmt.Sprintf("%.0f", m.fps))
	s.WriteString("\n" + viz.StretchLegend() + st.Muted.Render(" relaxed → torn") + "\n")

	if m.status != "" {
		s.WriteString("\n" + st.Accent.Render(m.status) + "\n")
	}

	s.WriteString("\n" + st.KeyHint.Render("space pause  ± wind  0 calm\narrows move  x cut  r reset\nt theme  g record  q menu"))

	side := st.Panel.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, side)
}

// Run starts the terminal program. An empty preset opens the menu.
func Run(preset string, log *slog.Logger) error {
	m, err := NewApp(preset, log)
	if err != nil {
		return err
	}
	return run(m)
}

// RunConfig starts the terminal program directly on cfg.
func RunConfig(cfg *config.Config, log *slog.Logger) error {
	m, err := NewAppWithConfig(cfg, log)
	if err != nil {
		return err
	}
	return run(m)
}

func run(m *model) error {
	defer m.stop()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
