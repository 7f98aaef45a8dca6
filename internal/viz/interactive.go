package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kitesim/internal/config"
)

var presetInfo = map[string]string{
	"default":    "15 kn at 40°, boat at rest",
	"calm":       "light 6 kn breeze",
	"gusty":      "25 kn with sheet changes",
	"beam-reach": "moving boat on a beam reach",
	"carving":    "alternating trim turns",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// field is one editable start-up value of a preset.
type field struct {
	name string
	step float64
	ptr  func(c *config.Config) *float64
}

var fields = []field{
	{"tws (kn)", 1, func(c *config.Config) *float64 { return &c.Disturbance.TWS }},
	{"twa (deg)", 5, func(c *config.Config) *float64 { return &c.Disturbance.TWAMg }},
	{"theta (deg)", 5, func(c *config.Config) *float64 { return &c.InitState.ThetaDeg }},
	{"phi (deg)", 5, func(c *config.Config) *float64 { return &c.InitState.PhiDeg }},
	{"boat (kn)", 1, func(c *config.Config) *float64 { return &c.InitState.BoatSpeed }},
	{"dt (s)", 0.005, func(c *config.Config) *float64 { return &c.Dt }},
}

type app struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           error
	live          Model
}

// NewInteractiveApp lists the presets, lets the start-up values be edited and
// then hands over to the live view.
func NewInteractiveApp() tea.Model {
	return app{state: stateMenu, presets: config.ListPresets()}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch a.state {
		case stateMenu:
			return a.menuKey(msg)
		case stateConfig:
			return a.configKey(msg)
		}
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
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.cfg = config.GetPreset(a.presets[a.cursor])
		a.state, a.fieldCursor, a.err = stateConfig, 0, nil
	}
	return a, nil
}

func (a app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := fields[a.fieldCursor]
	if a.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(a.editBuf, "%f", &val); err == nil {
				*f.ptr(a.cfg) = val
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
				a.editBuf += s
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.fieldCursor > 0 {
			a.fieldCursor--
		}
	case "down", "j":
		if a.fieldCursor < len(fields)-1 {
			a.fieldCursor++
		}
	case "enter", " ":
		a.editing, a.editBuf = true, fmt.Sprintf("%g", *f.ptr(a.cfg))
	case "left", "h":
		*f.ptr(a.cfg) -= f.step
	case "right", "l":
		*f.ptr(a.cfg) += f.step
	case "s":
		return a.start()
	}
	return a, nil
}

func (a app) start() (tea.Model, tea.Cmd) {
	if err := a.cfg.Validate(); err != nil {
		a.err = err
		return a, nil
	}
	model, err := a.cfg.Model()
	if err != nil {
		a.err = err
		return a, nil
	}
	a.live = NewModel(model, a.cfg.InitialState(), a.cfg.Input(), a.cfg.Dt, a.cfg.Preset)
	a.state = stateSim
	return a, a.live.Init()
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuActiveD  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func (a app) View() string {
	switch a.state {
	case stateMenu:
		return a.viewMenu()
	case stateConfig:
		return a.viewConfig()
	case stateSim:
		return a.live.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuInactive.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (a app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("KITESIM") + "\n    " + menuSub.Render("kite and boat simulator") + "\n    " + menuSub.Render("───────────────────────") + "\n\n")
	for i, name := range a.presets {
		desc := presetInfo[name]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", name)), menuActiveD.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", name)), menuInactive.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (a app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(a.cfg.Preset)) + "\n    " + menuSub.Render(presetInfo[a.cfg.Preset]) + "\n    " + menuSub.Render("───────────────────────") + "\n\n")
	for i, f := range fields {
		valStr := fmt.Sprintf("%8.3f", *f.ptr(a.cfg))
		if a.editing && i == a.fieldCursor {
			valStr = fmt.Sprintf("%8s", a.editBuf+"_")
		}
		if i == a.fieldCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", f.name)), menuActiveD.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", f.name)), menuInactive.Render(valStr)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + menuError.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
