package tui

import (
	"fmt"
	"strings"

	"github.com/akmonengine/tumble/scene"
	"github.com/akmonengine/tumble/simulation"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

const (
	floorRune  = '·'
	sphereRune = 'o'
	cubeRune   = '#'
)

func (m *Model) View() string {
	cols, rows := m.canvasSize()

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		panel.Render(m.renderScene(cols, rows)),
		panel.Width(panelColumns-4).Render(m.renderPanel()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		cyan.Bold(true).Render("tumble"),
		view,
		dim.Render("s sphere  c cube  ←↑↓→ orbit  +/- zoom  q quit"),
	)
}

func (m *Model) renderScene(cols, rows int) string {
	c := newCanvas(cols, rows)
	p := projector{camera: m.camera, canvas: c}

	ctx := m.session.Context
	ctx.Lock()
	defer ctx.Unlock()

	p.drawMesh(m.session.Floor, floorRune)
	ctx.Registry.ForEach(func(pair simulation.Pair) {
		p.drawMesh(pair.Mesh, meshRune(pair))
	})

	return c.String()
}

func meshRune(pair simulation.Pair) rune {
	if pair.Body.IsSleeping {
		return '.'
	}
	if pair.Mesh.Geometry.Kind == scene.GeometryBox {
		return cubeRune
	}
	return sphereRune
}

func (m *Model) renderPanel() string {
	last := m.telemetry.Last()
	world := m.session.Loop.World()

	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString(dim.Render(fmt.Sprintf("%-10s", label)))
		sb.WriteString(white.Render(value))
		sb.WriteByte('\n')
	}

	row("state", green.Render(m.session.Loop.State().String()))
	row("frame", fmt.Sprintf("%d", m.session.Loop.Frame()))
	row("delta", fmt.Sprintf("%.4f s", m.delta))
	row("fps", fmt.Sprintf("%.0f", m.fps))
	row("bodies", fmt.Sprintf("%d", last.Bodies))
	row("sleeping", fmt.Sprintf("%d", last.Sleeping))
	row("energy", fmt.Sprintf("%.3f J", last.KineticEnergy))
	row("height", fmt.Sprintf("%.3f m", last.MeanHeight))
	row("lowest", fmt.Sprintf("%.3f m", last.LowestPoint))
	row("substeps", fmt.Sprintf("%d", world.Substeps))
	row("camera", fmt.Sprintf("%.1f m", m.camera.Distance()))

	if graph := energyGraph(m.telemetry.Energy(), panelColumns-14); graph != "" {
		sb.WriteByte('\n')
		sb.WriteString(yellow.Render(graph))
		sb.WriteByte('\n')
	}

	if m.lastErr != nil {
		sb.WriteString(red.Render(m.lastErr.Error()))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// energyGraph plots the kinetic energy history, empty until two samples exist
func energyGraph(energy []float64, width int) string {
	if len(energy) < 2 {
		return ""
	}

	return asciigraph.Plot(energy,
		asciigraph.Height(5),
		asciigraph.Width(max(10, width)),
		asciigraph.Precision(2),
		asciigraph.Caption("kinetic energy"),
	)
}
