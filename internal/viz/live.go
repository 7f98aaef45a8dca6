package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kitesim/internal/geom"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/sim"
)

const (
	width           = 60
	height          = 22
	historyCapacity = 600
	trailCapacity   = 150
	tickRate        = time.Second / 60
)

// View selects the canvas projection.
type View int

const (
	ViewTop View = iota
	ViewWindow
	View3D
)

func (v View) String() string {
	switch v {
	case ViewTop:
		return "top"
	case ViewWindow:
		return "window"
	case View3D:
		return "3d"
	}
	return "unknown"
}

// Snapshot is one stepped state with the output derived from it.
type Snapshot struct {
	State  kite.State
	Output kite.Output
	Time   float64
}

var canvasStyle = lipgloss.NewStyle().Padding(1, 2)

type TickMsg time.Time

// Model is the live kite view. It owns the simulation state and steps the
// kite model once per tick.
type Model struct {
	model        *kite.Model
	state        kite.State
	output       kite.Output
	input        kite.Input
	initialState kite.State
	t, dt        float64
	steps        int
	canvas       *Canvas
	camera       *Camera
	view         View
	theme        Theme
	running      bool
	name         string
	paramKeys    []string
	selected     int
	trail        []mgl64.Vec3
	traction     []float64
	kiteSpeed    []float64
	history      []Snapshot
	playHead     int
	recorder     *Recorder
	err          error
	showHelp     bool
	observers    []sim.Observer
}

// NewModel starts a live view of model from x0 under in, stepping dt seconds
// per tick.
func NewModel(model *kite.Model, x0 kite.State, in kite.Input, dt float64, name string) Model {
	keys := append(model.Disturbance().Keys(), model.Params().Keys()...)
	m := Model{
		model:        model,
		state:        x0,
		input:        in,
		initialState: x0,
		dt:           dt,
		canvas:       NewCanvas(width, height),
		camera:       NewCamera(),
		theme:        ThemeOcean,
		running:      true,
		name:         name,
		paramKeys:    keys,
		trail:        make([]mgl64.Vec3, 0, trailCapacity),
		traction:     make([]float64, 0, historyCapacity),
		kiteSpeed:    make([]float64, 0, historyCapacity),
		history:      make([]Snapshot, 0, historyCapacity),
		playHead:     -1,
	}
	m.output = m.project(x0)
	return m
}

// WithObserver registers o to receive every stepped sample.
func (m Model) WithObserver(o sim.Observer) Model {
	m.observers = append(m.observers, o)
	return m
}

func (m Model) State() kite.State   { return m.state }
func (m Model) Input() kite.Input   { return m.input }
func (m Model) Time() float64       { return m.t }
func (m Model) Running() bool       { return m.running }
func (m Model) Err() error          { return m.err }
func (m Model) CurrentView() View   { return m.view }
func (m Model) Camera() *Camera     { return m.camera }
func (m Model) History() []Snapshot { return m.history }

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key presses and advances the simulation on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.recorder != nil {
			_ = m.recorder.Save()
		}
		return m, tea.Quit
	case " ":
		if m.err == nil {
			m.running = !m.running
		}
	case "r":
		m.reset()
	case "i":
		m.input.Reset()
	case "a":
		m.input.Delta = m.input.Delta.Nudge(-1)
	case "d":
		m.input.Delta = m.input.Delta.Nudge(1)
	case "w":
		m.input.Epsilon = m.input.Epsilon.Nudge(1)
	case "s":
		m.input.Epsilon = m.input.Epsilon.Nudge(-1)
	case "left":
		m.input.BoatHeadingSpeed = m.input.BoatHeadingSpeed.Nudge(-1)
	case "right":
		m.input.BoatHeadingSpeed = m.input.BoatHeadingSpeed.Nudge(1)
	case "tab":
		m.selected = (m.selected + 1) % len(m.paramKeys)
	case "up", "k":
		m.nudgeParam(1)
	case "down", "j":
		m.nudgeParam(-1)
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "v":
		m.view = (m.view + 1) % 3
	case "t":
		m.theme = NextTheme(m.theme)
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	case "x":
		m.camera.RotateX(0.1)
	case "X":
		m.camera.RotateX(-0.1)
	case "y":
		m.camera.RotateY(0.1)
	case "Y":
		m.camera.RotateY(-0.1)
	case "z":
		m.camera.RotateZ(0.1)
	case "Z":
		m.camera.RotateZ(-0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	}
	return m, nil
}

func (m *Model) nudgeParam(n int) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	reg := m.model.Params()
	if _, ok := reg.Get(key); !ok {
		reg = m.model.Disturbance()
	}
	_, _ = reg.Nudge(key, n)
}

// step advances the kite one tick. A degenerate state pauses the view and
// keeps the last good state on screen.
func (m *Model) step() {
	prev := m.state
	next, out, err := m.model.Step(prev, m.input, m.dt)
	if err != nil {
		m.err = err
		m.running = false
		return
	}

	sample := sim.Sample{Step: m.steps, Time: m.t, State: prev, Command: m.input.Command(), Output: out}
	for _, o := range m.observers {
		o.OnStep(sample)
	}

	m.state, m.output = next, out
	m.t += m.dt
	m.steps++

	m.traction = appendCapped(m.traction, out.Traction, historyCapacity)
	m.kiteSpeed = appendCapped(m.kiteSpeed, out.KiteSpeed, historyCapacity)
	m.trail = appendCapped(m.trail, out.LeftTether.Add(out.RightTether).Mul(0.5), trailCapacity)
	m.history = appendCapped(m.history, Snapshot{State: prev, Output: out, Time: sample.Time}, historyCapacity)
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the starting state and clears history. Inputs and
// parameters are left as they are.
func (m *Model) reset() {
	m.state = m.initialState
	m.output = m.project(m.state)
	m.t, m.steps = 0, 0
	m.err = nil
	m.running = true
	m.trail = m.trail[:0]
	m.traction = m.traction[:0]
	m.kiteSpeed = m.kiteSpeed[:0]
	m.history = m.history[:0]
	m.playHead = -1
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder(m.name + ".gif")
		return
	}
	if err := m.recorder.Save(); err != nil && !errors.Is(err, ErrNoFrames) {
		m.err = err
	}
	m.recorder = nil
}

// project derives an output for s without stepping; degenerate states give a
// zero output.
func (m *Model) project(s kite.State) kite.Output {
	f, err := m.model.Forces(s, m.input)
	if err != nil {
		return kite.Output{}
	}
	p := m.model.Params()
	return kite.Project(s, f, p.Value(params.TetherLength), p.Value(params.KiteArea))
}

func (m *Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return Snapshot{State: m.state, Output: m.output, Time: m.t}
}

func (m *Model) draw() {
	m.canvas.Clear()
	snap := m.current()
	r := m.model.Params().Value(params.TetherLength)
	if r <= 0 {
		return
	}
	switch m.view {
	case ViewTop:
		m.drawTop(snap, r)
	case ViewWindow:
		m.drawWindow(snap, r)
	case View3D:
		m.draw3D(snap, r)
	}
}

// drawTop looks down on the water: lateral offset to the right, downwind up.
func (m *Model) drawTop(snap Snapshot, r float64) {
	vp := Viewport{MinX: -1.1 * r, MaxX: 1.1 * r, MinY: -0.3 * r, MaxY: 1.1 * r}
	m.arc(vp, r, -math.Pi/2, math.Pi/2, func(a float64) (float64, float64) {
		return r * math.Sin(a), r * math.Cos(a)
	})

	for _, p := range m.trail {
		x, y := vp.Map(m.canvas, p[1], p[0])
		m.canvas.Set(x, y)
	}

	left, right := snap.Output.LeftTether, snap.Output.RightTether
	vp.Line(m.canvas, 0, 0, left[1], left[0])
	vp.Line(m.canvas, 0, 0, right[1], right[0])
	vp.Line(m.canvas, left[1], left[0], right[1], right[0])

	dir := BoatDirection(snap.State).Mul(0.2 * r)
	vp.Line(m.canvas, 0, 0, dir[1], dir[0])
	x, y := vp.Map(m.canvas, 0, 0)
	m.canvas.Dot(x, y, 1)
}

// drawWindow looks downwind from the boat: lateral offset against height.
func (m *Model) drawWindow(snap Snapshot, r float64) {
	vp := Viewport{MinX: -1.1 * r, MaxX: 1.1 * r, MinY: -0.1 * r, MaxY: 1.1 * r}
	m.arc(vp, r, 0, math.Pi, func(a float64) (float64, float64) {
		return r * math.Cos(a), r * math.Sin(a)
	})
	vp.Line(m.canvas, -r, 0, r, 0)

	for _, p := range m.trail {
		x, y := vp.Map(m.canvas, p[1], -p[2])
		m.canvas.Set(x, y)
	}

	left, right := snap.Output.LeftTether, snap.Output.RightTether
	vp.Line(m.canvas, 0, 0, left[1], -left[2])
	vp.Line(m.canvas, 0, 0, right[1], -right[2])
	vp.Line(m.canvas, left[1], -left[2], right[1], -right[2])

	zenith := geom.TetherPoint(r, 0, math.Pi/2)
	x, y := vp.Map(m.canvas, zenith[1], -zenith[2])
	m.canvas.Dot(x, y, 1)
}

func (m *Model) draw3D(snap Snapshot, r float64) {
	w := KiteScene(snap.State, snap.Output, r)
	for _, p := range m.trail {
		w.AddPoint(toView(p, r))
	}
	Render3D(m.canvas, w, m.camera)
}

const arcSegments = 48

func (m *Model) arc(vp Viewport, r, from, to float64, at func(a float64) (float64, float64)) {
	px, py := at(from)
	for i := 1; i <= arcSegments; i++ {
		x, y := at(from + (to-from)*float64(i)/arcSegments)
		vp.Line(m.canvas, px, py, x, y)
		px, py = x, y
	}
}

// View renders the canvas and the telemetry panel side by side.
func (m Model) View() string {
	st := m.theme.Styles()
	snap := m.current()
	s := snap.State

	var b strings.Builder
	b.WriteString(st.Header.Render("KITESIM · "+strings.ToUpper(m.name)) + "\n")
	b.WriteString(m.status(st) + "\n")

	if len(m.traction) > 1 {
		chart := asciigraph.Plot(m.traction, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("traction (N)"))
		b.WriteString(st.Graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		b.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Elevation", fmt.Sprintf("%6.1f°", geom.Degrees(s.Theta)))
	row("Azimuth", fmt.Sprintf("%6.1f°", geom.Degrees(s.Phi)))
	row("Heading", fmt.Sprintf("%6.3f rad", s.Psi))
	row("AWS", fmt.Sprintf("%6.2f m/s", s.AWS))
	row("AWA", fmt.Sprintf("%6.1f°", geom.Degrees(s.AWAMg)))
	row("Boat", fmt.Sprintf("%5.1f kn  %5.1f°", s.BoatSpeed, geom.Degrees(s.BoatHeading)))
	row("Traction", fmt.Sprintf("%8.1f N", snap.Output.Traction))
	row("Kite speed", fmt.Sprintf("%6.2f m/s ", snap.Output.KiteSpeed)+SparklineChart(m.kiteSpeed, 12))

	b.WriteString("\n" + st.Header.Render("CONTROLS") + "\n")
	for _, c := range []params.Scalar{m.input.Delta, m.input.Epsilon, m.input.BoatHeadingSpeed} {
		b.WriteString(fmt.Sprintf("%s %+6.2f\n", BoundsBar(c, 15), c.Value))
		b.WriteString(KeyHint.Render("  "+c.Name) + "\n")
	}

	b.WriteString("\n" + st.Header.Render("PARAMETERS") + "\n")
	b.WriteString(m.paramList(st))

	if m.err != nil {
		b.WriteString("\n" + st.Error.Render(m.err.Error()) + "\n")
	}
	b.WriteString(st.Help.Render(Separator(30) + "\nSP:Pause R:Reset I:Inputs Q:Quit\nA/D:Trim W/S:Sheet ←/→:Rudder\nV:View T:Theme G:Record ?:Help"))

	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(m.theme.Muted).
		Padding(1, 2).
		Width(46).
		Render(b.String())

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(st.Track.Render(m.canvas.String())), panel)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status(st Styles) string {
	var s string
	switch {
	case m.err != nil:
		s = st.Error.Render("DEGENERATE")
	case m.playHead != -1 && len(m.history) > 0:
		s = st.Paused.Render(fmt.Sprintf("REPLAY (%.1fs)", m.history[m.playHead].Time-m.t))
	case !m.running:
		s = st.Paused.Render("PAUSED")
	default:
		s = st.Running.Render("RUNNING")
	}
	s += "  " + Subtle.Render("view: "+m.view.String())
	if m.recorder != nil {
		s += "  " + st.Error.Render(fmt.Sprintf("REC %d", m.recorder.Len()))
	}
	return s
}

// paramList shows a window of five parameters around the selection.
func (m Model) paramList(st Styles) string {
	var b strings.Builder
	lo := max(0, min(m.selected-2, len(m.paramKeys)-5))
	hi := min(len(m.paramKeys), lo+5)
	for i := lo; i < hi; i++ {
		k := m.paramKeys[i]
		reg := m.model.Params()
		if _, ok := reg.Get(k); !ok {
			reg = m.model.Disturbance()
		}
		line := fmt.Sprintf("%-14s %10.4g", k, reg.Value(k))
		if i == m.selected {
			b.WriteString(st.Active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.Label.UnsetWidth().Render(line) + "\n")
		}
	}
	return b.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset kite state         ║
║  I        - Reset inputs             ║
║  A / D    - Differential trim -/+    ║
║  W / S    - Sheet in / ease          ║
║  ← / →    - Rudder rate -/+          ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter       ║
║  Down/J   - Decrease parameter       ║
║  [ / ]    - Rewind / forward         ║
║  V        - Cycle views              ║
║  x y z    - Rotate 3D camera         ║
║  + / -    - Zoom 3D camera           ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view on the alternate screen.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
