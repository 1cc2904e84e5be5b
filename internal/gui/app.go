package gui

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	windowW = 1280
	windowH = 720
	title   = "clothsim"
)

// Theme Colors (Monochrome)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPin     = rl.NewColor(255, 80, 80, 255)
)

type App struct {
	Log      *slog.Logger
	Presets  []string
	Selected int
	InMenu   bool
	Running  bool

	Sim   *sim.Simulator
	Snap  sim.Snapshot
	Clock *sim.WallClock
	View  viewport

	// Dragged is the particle under the left mouse button, or -1.
	Dragged    int
	// Telemetry is a ring of recent max stretch values.
	Telemetry  []float64
	MaxHistory int

	quit bool
}

func initWindow() {
	rl.InitWindow(windowW, windowH, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp creates the window application. With a nil cfg it opens on the
// preset menu.
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		Log:        log,
		Presets:    config.ListPresets(),
		InMenu:     cfg == nil,
		Dragged:    -1,
		MaxHistory: 240,
		Telemetry:  make([]float64, 0, 240),
	}
	if cfg != nil {
		if err := a.load(cfg); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Run opens the window and blocks until it is closed. A nil cfg starts on
// the preset menu.
func Run(cfg *config.Config, log *slog.Logger) error {
	initWindow()
	defer rl.CloseWindow()

	a, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !a.quit && !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Close() {
	if a.Sim != nil {
		a.Sim.Close()
		a.Sim = nil
	}
}

func (a *App) load(cfg *config.Config) error {
	a.Close()
	s, err := sim.New(cfg, sim.WithLogger(a.Log))
	if err != nil {
		return err
	}
	a.Sim = s
	a.Clock = sim.NewWallClock()
	a.View = fit(cfg.Width, cfg.Height, windowW, windowH)
	a.Dragged = -1
	a.Telemetry = a.Telemetry[:0]
	a.Running = true
	a.Sim.SnapshotInto(&a.Snap)
	a.Log.Info("cloth loaded", "preset", cfg.Name, "particles", len(a.Snap.Particles), "links", len(a.Snap.Links))
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Close()
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.Sim.Reset(); err != nil {
			a.Log.Error("reset failed", "err", err)
		}
		a.Clock = sim.NewWallClock()
		a.Telemetry = a.Telemetry[:0]
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		a.retuneWind(1.25)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		a.retuneWind(0.8)
	}

	a.handleMouse()

	if !a.Running {
		return
	}
	f := a.Sim.Step(a.Clock.Elapsed(a.Sim.FrameIndex()))
	if len(a.Telemetry) >= a.MaxHistory {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, f.Stats.MaxStretch)
	a.Sim.SnapshotInto(&a.Snap)
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}

	// Wrap selection
	if a.Selected >= len(a.Presets) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Presets) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.load(config.GetPreset(a.Presets[a.Selected])); err != nil {
			a.Log.Error("load preset", "preset", a.Presets[a.Selected], "err", err)
			return
		}
		a.InMenu = false
	}
}

// handleMouse turns mouse input into commands: the left button picks and
// drags a particle, the right button cuts links under the cursor.
func (a *App) handleMouse() {
	m := rl.GetMousePosition()
	world := a.View.toWorld(m.X, m.Y)
	radius := a.Sim.Config().ParticleRadius

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		if id, ok := a.Sim.Pick(world, radius); ok {
			a.Dragged = id
		}
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Dragged = -1
	}

	if a.Dragged >= 0 && rl.IsMouseButtonDown(rl.MouseLeftButton) {
		a.Sim.Submit(sim.DragParticle{ID: a.Dragged, To: world})
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		a.Sim.Submit(sim.CutAt{Point: world, Radius: radius})
	}
}

func (a *App) retuneWind(factor float64) {
	w := a.Sim.Config().Wind
	if w.Strength == 0 && factor > 1 {
		w.Strength = config.DefaultWindStrength
	} else {
		w.Strength *= factor
	}
	a.Sim.SetWind(w)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawCloth()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	drawText(title, 30, 30, 24, ColSelect)
	drawText(fmt.Sprintf(":: %s", a.Sim.Config().Name), 150, 34, 16, ColText)

	a.DrawTelemetry()

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	drawText(status, 1150, 30, 16, col)

	st := a.Snap.Stats
	wind := a.Sim.Config().Wind
	drawText(fmt.Sprintf("wind %+6.2f  (%.1f @ %.2f)", a.Snap.Wind, wind.Strength, wind.Frequency), 30, 70, 14, ColText)
	drawText(fmt.Sprintf("stretch %.3f / %.3f", st.MaxStretch, st.MeanStretch), 30, 90, 14, ColText)
	drawText(fmt.Sprintf("links %d  cut %d", st.Active, st.Broken), 30, 110, 14, ColText)

	drawText("[LMB] DRAG  [RMB] CUT  [SPACE] PAUSE  [R] RESET  [UP/DOWN] WIND  [ESC] MENU  [Q] QUIT", 440, 690, 14, ColTextDim)
	drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 690, 14, ColTextDim)
}

func drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawText(text, int32(x), int32(y), int32(size), color)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	drawText(fmt.Sprintf("max stretch %.3f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	drawText(title, 50, 50, 40, ColSelect)
	drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.Selected {
			drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 690, 14, ColTextDim)
}

// pointer returns the world position under the mouse, for the cursor ring.
func (a *App) pointer() cloth.Vec2 {
	m := rl.GetMousePosition()
	return a.View.toWorld(m.X, m.Y)
}
