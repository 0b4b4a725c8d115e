// Package tui runs a session in the terminal: wireframe view, spawn keys,
// orbit camera and a telemetry panel.
package tui

import (
	"time"

	"github.com/akmonengine/tumble/scene"
	"github.com/akmonengine/tumble/simulation"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	frameInterval  = 16 * time.Millisecond
	historyLength  = 120
	rotateStep     = 0.1
	zoomStep       = 1.1
	minCanvasCols  = 20
	minCanvasRows  = 8
	reservedRows   = 4
	panelColumns   = 44
	defaultColumns = 100
	defaultRows    = 30
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model driving one session, one loop iteration per tick
type Model struct {
	session   *simulation.Session
	camera    *scene.OrbitCamera
	telemetry *simulation.Telemetry

	width  int
	height int

	delta   float64
	fps     float64
	lastErr error
}

func NewModel(session *simulation.Session) *Model {
	return &Model{
		session:   session,
		camera:    scene.DefaultCamera(),
		telemetry: simulation.NewTelemetry(historyLength),
		width:     defaultColumns,
		height:    defaultRows,
	}
}

// Run starts the program on the alternate screen and blocks until quit
func Run(session *simulation.Session) error {
	_, err := tea.NewProgram(NewModel(session), tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.step(m.session.Loop.Advance())
		return m, tick()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "s":
		_, m.lastErr = m.session.Spawner.SpawnRandomSphere()
	case "c":
		_, m.lastErr = m.session.Spawner.SpawnRandomCube()
	case "left", "h":
		m.camera.Rotate(-rotateStep, 0)
	case "right", "l":
		m.camera.Rotate(rotateStep, 0)
	case "up", "k":
		m.camera.Rotate(0, -rotateStep)
	case "down", "j":
		m.camera.Rotate(0, rotateStep)
	case "+", "=":
		m.camera.Zoom(1 / zoomStep)
	case "-", "_":
		m.camera.Zoom(zoomStep)
	}

	return m, nil
}

// step records the outcome of one loop iteration
func (m *Model) step(delta float64) {
	m.delta = delta
	if delta > 0 {
		m.fps = 1 / delta
	}

	m.camera.Update()
	m.telemetry.Record(m.session.Context.Measure(m.session.Loop.Frame()))
}

func (m *Model) canvasSize() (int, int) {
	cols := max(minCanvasCols, m.width-panelColumns-2)
	rows := max(minCanvasRows, m.height-reservedRows)

	return cols, rows
}
