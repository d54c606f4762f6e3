package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/eulerflow/internal/scene"
)

var sceneInfo = map[string]string{
	"tunnel":       "wind tunnel with smoke streak",
	"hires-tunnel": "fine grid, pressure shading",
	"tank":         "water column under gravity",
	"paint":        "obstacle paints with dye",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type app struct {
	state, cursor int
	scenes        []string
	selected      string
	params        scene.Params
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	width, height int
	liveModel     Model
}

// NewInteractiveApp builds the scene-picker shell.
func NewInteractiveApp() *app {
	return &app{
		state:  stateMenu,
		scenes: []string{"tunnel", "hires-tunnel", "tank", "paint"},
		width:  80, height: 24,
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil
	default:
		if a.state == stateSim {
			newLive, cmd := a.liveModel.Update(msg)
			a.liveModel = newLive.(Model)
			return a, cmd
		}
	}
	return a, nil
}

func (a app) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	case stateSim:
		if msg.String() == "esc" {
			a.state = stateMenu
			return a, nil
		}
		newLive, cmd := a.liveModel.Update(msg)
		a.liveModel = newLive.(Model)
		return a, cmd
	}
	return a, nil
}

func (a app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.scenes)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.selected = a.scenes[a.cursor]
		t, err := scene.ParseType(a.selected)
		if err != nil {
			return a, nil
		}
		a.params = scene.DefaultParams(t)
		a.paramNames = tunableParams(t)
		a.state, a.paramCursor = stateConfig, 0
	}
	return a, nil
}

func tunableParams(t scene.Type) []string {
	names := []string{"resolution", "iterations", "relaxation", "radius"}
	switch t {
	case scene.WindTunnel, scene.HiresTunnel:
		return append(names, "inflow")
	case scene.Tank:
		return append(names, "gravity")
	}
	return names
}

func (a app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(a.editBuf, "%f", &val)
			a.setParam(a.paramNames[a.paramCursor], val)
			a.editing, a.editBuf = false, ""
		case "escape", "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					a.editBuf += string(c)
				}
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "q", "escape", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.paramCursor > 0 {
			a.paramCursor--
		}
	case "down", "j":
		if a.paramCursor < len(a.paramNames)-1 {
			a.paramCursor++
		}
	case "enter", " ":
		a.editing = true
		a.editBuf = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", a.getParam(a.paramNames[a.paramCursor])), "0"), ".")
	case "left", "h":
		a.scaleParam(a.paramNames[a.paramCursor], 0.9)
	case "right", "l":
		a.scaleParam(a.paramNames[a.paramCursor], 1.1)
	case "s":
		m, err := NewModel(a.params)
		if err != nil {
			return a, nil
		}
		a.liveModel = m
		a.state = stateSim
		return a, a.liveModel.Init()
	}
	return a, nil
}

func (a *app) getParam(name string) float64 {
	switch name {
	case "resolution":
		return float64(a.params.Resolution)
	case "iterations":
		return float64(a.params.NumIters)
	case "relaxation":
		return a.params.OverRelaxation
	case "radius":
		return a.params.ObstacleRadius
	case "inflow":
		return a.params.Inflow
	case "gravity":
		return a.params.Gravity
	}
	return 0
}

func (a *app) setParam(name string, val float64) {
	switch name {
	case "resolution":
		if val >= 4 {
			a.params.Resolution = int(val)
		}
	case "iterations":
		if val >= 1 {
			a.params.NumIters = int(val)
		}
	case "relaxation":
		a.params.OverRelaxation = val
	case "radius":
		a.params.ObstacleRadius = val
	case "inflow":
		a.params.Inflow = val
	case "gravity":
		a.params.Gravity = val
	}
}

func (a *app) scaleParam(name string, factor float64) {
	v := a.getParam(name)
	if v == 0 {
		v = 0.1
	}
	a.setParam(name, v*factor)
}

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.liveModel.View()
	}
	return ""
}

func (a app) viewMenu() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + h.Render("EULERFLOW") + "\n    " + sub.Render("incompressible flow on a staggered grid") + "\n    " + sub.Render("────────────────────────────────────────") + "\n\n")
	for i, name := range a.scenes {
		desc := sceneInfo[name]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-14s", name)),
				lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				sub.Render(fmt.Sprintf("%-14s", name)),
				sub.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyHint("j/k", "navigate") + keyHint("enter", "select") + keyHint("q", "quit") + "\n")
	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	b.WriteString("\n\n    " + h.Render(strings.ToUpper(a.selected)) + "\n    " + sub.Render(sceneInfo[a.selected]) + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range a.paramNames {
		valStr := fmt.Sprintf("%8.3f", a.getParam(name))
		if a.editing && i == a.paramCursor {
			valStr = fmt.Sprintf("%8s", a.editBuf+"_")
		}
		if i == a.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n",
				sub.Render(fmt.Sprintf("%-12s", name)),
				sub.Render(valStr)))
		}
	}
	b.WriteString("\n    " + keyHint("j/k", "select") + keyHint("h/l", "adjust") + keyHint("enter", "edit") + keyHint("s", "start") + keyHint("esc", "back") + "\n")
	return b.String()
}

func keyHint(key, action string) string {
	k := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	d := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	return k.Render(key) + d.Render(" "+action+"  ")
}

// RunInteractive starts the scene-picker shell.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
