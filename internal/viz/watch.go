package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/sim"
)

const (
	planeWidth      = 40
	planeHeight     = 20
	historyCapacity = 600
	frameRate       = 60
)

type TickMsg time.Time

// Tunable exposes named parameters for live adjustment.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Model steps a velocity loop once per frame.
type Model struct {
	name       string
	plant      sim.Plant
	integrator dynamo.Integrator
	controller dynamo.Controller
	schedule   *sim.Schedule
	dt         float64

	x0, x    dynamo.Vector
	t        float64
	v, vd, u dynamo.Vector
	err      error
	running  bool

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	speedError []float64
	effort     []float64
	energy     []float64
}

// NewModel returns a model ready to run from x0. The controller must be
// freshly built; it is not reset by the R key.
func NewModel(name string, plant sim.Plant, integ dynamo.Integrator, ctrl dynamo.Controller, schedule *sim.Schedule, x0 dynamo.Vector, dt float64) Model {
	params := make(map[string]float64)
	if t, ok := plant.(Tunable); ok {
		for k, v := range t.GetParams() {
			params[k] = v
		}
	}
	keys := make([]string, 0, len(params))
	initial := make(map[string]float64, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initial[k] = v
	}
	sort.Strings(keys)

	n := plant.ControlDim()
	return Model{
		name:          name,
		plant:         plant,
		integrator:    integ,
		controller:    ctrl,
		schedule:      schedule,
		dt:            dt,
		x0:            x0.Clone(),
		x:             x0.Clone(),
		v:             plant.Velocity(x0),
		vd:            schedule.At(0),
		u:             make(dynamo.Vector, n),
		running:       true,
		params:        params,
		initialParams: initial,
		paramKeys:     keys,
		speedError:    make([]float64, 0, historyCapacity),
		effort:        make([]float64, 0, historyCapacity),
		energy:        make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

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
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step runs one control cycle and advances the plant by dt.
func (m *Model) step() {
	v := m.plant.Velocity(m.x)
	vd := m.schedule.At(m.t)
	u, err := m.controller.Step(v, vd)
	if err != nil {
		m.err = err
		m.running = false
		return
	}

	m.v, m.vd, m.u = v, vd, u
	m.x = m.integrator.Step(m.plant, m.x, u, m.t, m.dt)
	m.t += m.dt

	m.speedError = push(m.speedError, v.Sub(vd).Norm())
	m.effort = push(m.effort, u.Norm())
	if h, ok := m.plant.(dynamo.Hamiltonian); ok {
		m.energy = push(m.energy, h.Energy(m.x))
	}
}

func push(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > historyCapacity {
		history = history[1:]
	}
	return history
}

func (m *Model) reset() {
	m.x = m.x0.Clone()
	m.t = 0
	m.err = nil
	m.v = m.plant.Velocity(m.x)
	m.vd = m.schedule.At(0)
	m.u = make(dynamo.Vector, len(m.u))
	m.speedError = m.speedError[:0]
	m.effort = m.effort[:0]
	m.energy = m.energy[:0]
	for k, v := range m.initialParams {
		m.params[k] = v
		m.setParam(k, v)
	}
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key] * factor
	if val == 0 {
		val = 0.01 * (factor - 1) / math.Abs(factor-1)
	}
	if m.setParam(key, val) {
		m.params[key] = val
	}
}

func (m *Model) setParam(key string, val float64) bool {
	t, ok := m.plant.(Tunable)
	if !ok {
		return false
	}
	return t.SetParam(key, val) == nil
}

func (m Model) View() string {
	plane := m.drawPlane()

	var s strings.Builder
	s.WriteString(Header.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n" + Subtle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("|v|", fmt.Sprintf("%.3f", m.v.Norm()))
	row("|v_d|", fmt.Sprintf("%.3f", m.vd.Norm()))
	row("|u|", fmt.Sprintf("%.3f", m.u.Norm()))
	if len(m.energy) > 0 {
		row("Energy", fmt.Sprintf("%.3f", m.energy[len(m.energy)-1]))
	}
	if pd, ok := m.controller.(*control.PassiveDS); ok {
		if lowest, err := control.MinEigenvalue(pd.Damping()); err == nil {
			row("min λ(D)", fmt.Sprintf("%.3f", lowest))
		}
	}

	s.WriteString("\n" + MetricLabel.Render("Effort") + Sparkline(m.effort, 30) + "\n")
	if len(m.speedError) > 1 {
		chart := asciigraph.Plot(m.speedError, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("|v - v_d|"))
		s.WriteString("\n" + Graph.Render(chart) + "\n")
	}

	s.WriteString("\nPLANT\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(Subtle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-10s %.3f", k, m.params[k])
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}

	s.WriteString("\n" + Separator(30) + "\n" + KeyHint.Render("SP:Pause R:Reset Q:Quit\nTab:Select ↑↓:Tune"))
	return lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(plane), Panel.Render(s.String()))
}

// drawPlane shows the first two velocity components: the desired velocity
// as an arrow over the axes, the current velocity highlighted beside it.
func (m Model) drawPlane() string {
	extent := 1.0
	for _, vec := range []dynamo.Vector{m.v, m.vd} {
		for _, c := range vec {
			extent = math.Max(extent, 1.2*math.Abs(c))
		}
	}

	desired := NewPlane(planeWidth, planeHeight, extent)
	desired.Axes()
	current := NewPlane(planeWidth, planeHeight, extent)

	vx, vy := planar(m.v)
	dx, dy := planar(m.vd)
	desired.Arrow(dx, dy)
	current.Arrow(vx, vy)

	var b strings.Builder
	b.WriteString(Title.Render("velocity plane") + "\n")
	for r := range desired.Grid {
		for c := range desired.Grid[r] {
			if cur := current.Grid[r][c]; cur != blank {
				b.WriteString(CurrentVector.Render(string(cur | desired.Grid[r][c])))
			} else {
				b.WriteRune(desired.Grid[r][c])
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(CurrentVector.Render("v") + Subtle.Render(" current  ") + "v_d desired")
	return b.String()
}

func planar(v dynamo.Vector) (float64, float64) {
	switch len(v) {
	case 0:
		return 0, 0
	case 1:
		return v[0], 0
	}
	return v[0], v[1]
}
