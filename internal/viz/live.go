package viz

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/eulerflow/internal/render"
	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/telemetry"
)

const (
	fieldCols       = 64
	fieldRows       = 22
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live terminal view of a running scene: a truecolor
// field raster, a braille flow overlay and a metrics side panel.
type Model struct {
	scene *scene.Scene
	base  scene.Params

	canvas  *Canvas
	running bool
	overlay bool

	divHistory    []float64
	energyHistory []float64

	recording bool
	frames    []*image.Paletted
	showHelp  bool
	err       error

	onStep func(s *scene.Scene, stats telemetry.FrameStats)
}

// NewModel builds the live view for the given parameters.
func NewModel(p scene.Params) (Model, error) {
	s, err := scene.New(p)
	if err != nil {
		return Model{}, err
	}
	return Model{
		scene:         s,
		base:          p,
		canvas:        NewCanvas(fieldCols, fieldRows),
		running:       true,
		divHistory:    make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

// SetStepHook registers a callback fed with each completed frame's
// telemetry, for consumers outside the view such as sonification.
func (m *Model) SetStepHook(fn func(s *scene.Scene, stats telemetry.FrameStats)) {
	m.onStep = fn
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "1":
			m.switchScene(scene.WindTunnel)
		case "2":
			m.switchScene(scene.HiresTunnel)
		case "3":
			m.switchScene(scene.Tank)
		case "4":
			m.switchScene(scene.Paint)
		case "s":
			m.toggle(func(d *scene.DisplayFlags) { d.Streamlines = !d.Streamlines })
		case "v":
			m.toggle(func(d *scene.DisplayFlags) { d.Velocities = !d.Velocities })
		case "p":
			m.toggle(func(d *scene.DisplayFlags) { d.Pressure = !d.Pressure })
		case "m":
			m.toggle(func(d *scene.DisplayFlags) { d.Smoke = !d.Smoke })
		case "g":
			m.toggle(func(d *scene.DisplayFlags) { d.SmokeGradient = !d.SmokeGradient })
		case "o":
			w, h := m.scene.Bounds()
			m.scene.SetObstacle(0.4*w, 0.5*h, true)
		case "left":
			m.nudgeObstacle(-1, 0)
		case "right":
			m.nudgeObstacle(1, 0)
		case "up":
			m.nudgeObstacle(0, 1)
		case "down":
			m.nudgeObstacle(0, -1)
		case "[":
			m.adjustInflow(-0.25)
		case "]":
			m.adjustInflow(0.25)
		case "x":
			m.overlay = !m.overlay
		case "t":
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
		case "G":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recording {
			m.captureFrame()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the simulation one frame and records the metric strips.
func (m *Model) step() {
	p := m.scene.Params()
	m.scene.Step(p.Dt)

	t := float64(m.scene.Frame()) * p.Dt
	stats := telemetry.Collect(m.scene, m.scene.Frame(), t)

	m.divHistory = append(m.divHistory, stats.MaxDivergence)
	if len(m.divHistory) > historyCapacity {
		m.divHistory = m.divHistory[1:]
	}
	m.energyHistory = append(m.energyHistory, stats.KineticEnergy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.onStep != nil {
		m.onStep(m.scene, stats)
	}
}

// reset rebuilds the scene from its preset parameters.
func (m *Model) reset() {
	s, err := scene.New(m.base)
	if err != nil {
		m.err = err
		return
	}
	m.scene = s
	m.divHistory = m.divHistory[:0]
	m.energyHistory = m.energyHistory[:0]
}

func (m *Model) switchScene(t scene.Type) {
	m.base = scene.DefaultParams(t)
	m.reset()
}

func (m *Model) toggle(fn func(*scene.DisplayFlags)) {
	d := m.scene.Display()
	fn(&d)
	m.scene.SetDisplay(d)
}

// nudgeObstacle moves the obstacle one cell, dragging it through the
// fluid so the displacement shows up as imparted velocity. With no
// obstacle yet, the first nudge drops one near the inlet.
func (m *Model) nudgeObstacle(dx, dy int) {
	f := m.scene.Fluid()
	x, y, r := m.scene.Obstacle()
	if r == 0 {
		w, h := m.scene.Bounds()
		m.scene.SetObstacle(0.4*w, 0.5*h, true)
		return
	}
	m.scene.SetObstacle(x+float64(dx)*f.H, y+float64(dy)*f.H, false)
}

func (m *Model) adjustInflow(delta float64) {
	v := m.scene.Params().Inflow + delta
	if v < 0 {
		v = 0
	}
	m.scene.SetInflow(v)
}

// View renders the field beside the metrics panel.
func (m Model) View() string {
	var field string
	if m.overlay {
		m.canvas.Clear()
		DrawFlowOverlay(m.canvas, m.scene)
		field = canvasStyle.Render(m.canvas.String())
	} else {
		field = canvasStyle.Render(FieldView(m.scene, fieldCols, fieldRows))
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, field, m.statsPanel())
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) statsPanel() string {
	p := m.scene.Params()
	t := float64(m.scene.Frame()) * p.Dt

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(p.Type.String())) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + StatusRecording.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.divHistory) > 1 {
		chart := asciigraph.Plot(m.divHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Max divergence"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	div, energy := 0.0, 0.0
	if n := len(m.divHistory); n > 0 {
		div = m.divHistory[n-1]
		energy = m.energyHistory[n-1]
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.scene.Frame())) + "\n")
	s.WriteString(labelStyle.Render("Divergence") + valueStyle.Render(fmt.Sprintf("%.5f", div)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f J", energy)) + "\n")
	s.WriteString(labelStyle.Render("Inflow") + valueStyle.Render(fmt.Sprintf("%.2f m/s", p.Inflow)) + "\n")
	if x, y, r := m.scene.Obstacle(); r > 0 {
		s.WriteString(labelStyle.Render("Obstacle") + valueStyle.Render(fmt.Sprintf("(%.2f, %.2f)", x, y)) + "\n")
	}

	if len(m.energyHistory) > 1 {
		s.WriteString("\n" + MetricLabel.Render("energy ") + SparklineChart(m.energyHistory, 30) +
			" " + MetricValue.Render(fmt.Sprintf("%.0f", energy)) + "\n")
	}

	d := m.scene.Display()
	s.WriteString("\n" + Separator(23) + "\nDISPLAY\n")
	s.WriteString(flagLine("s", "streamlines", d.Streamlines))
	s.WriteString(flagLine("v", "velocities", d.Velocities))
	s.WriteString(flagLine("p", "pressure", d.Pressure))
	s.WriteString(flagLine("m", "smoke", d.Smoke))
	s.WriteString(flagLine("g", "gradient", d.SmokeGradient))

	if m.err != nil {
		s.WriteString("\n" + StatusPaused.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n1-4:Scene X:Overlay T:Theme\n←→↑↓:Obstacle [ ]:Inflow\nG:Record ?:Help"))
	return statsStyle.Render(s.String())
}

func flagLine(key, name string, on bool) string {
	mark := " "
	if on {
		mark = "x"
	}
	return fmt.Sprintf("  [%s] %s (%s)\n", mark, name, key)
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset scene              ║
║  Q        - Quit                     ║
║  1-4      - Tunnel/Hires/Tank/Paint  ║
║  S V P M G - Toggle display layers   ║
║  Arrows   - Drag the obstacle        ║
║  O        - Drop obstacle            ║
║  [ ]      - Inflow speed -/+         ║
║  X        - Braille flow overlay     ║
║  T        - Cycle themes             ║
║  Shift+G  - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// captureFrame renders the current frame into the GIF buffer.
func (m *Model) captureFrame() {
	pm := render.Scene(m.scene, 2)
	src := pm.ToImage()
	img := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(img, src.Bounds(), src, image.Point{})
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	name := fmt.Sprintf("%s.gif", m.scene.Params().Type)
	f, err := os.Create(name)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.err = err
	}
}

// RunLive starts the live view for the given parameters and blocks
// until the user quits.
func RunLive(p scene.Params) error {
	m, err := NewModel(p)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
