// Package window runs a session in a raylib window: shaded meshes, spawn
// buttons and an orbit camera driven by the mouse or the arrow keys.
package window

import (
	"fmt"
	"math"

	"github.com/akmonengine/tumble/config"
	"github.com/akmonengine/tumble/scene"
	"github.com/akmonengine/tumble/simulation"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	dragSensitivity = 0.005
	keyRotateStep   = 0.03
	wheelZoomStep   = 0.1
)

var (
	colBackground = rl.NewColor(10, 10, 10, 255)
	colPanel      = rl.NewColor(20, 25, 30, 230)
	colBorder     = rl.NewColor(60, 70, 80, 255)
	colHover      = rl.NewColor(45, 55, 65, 255)
	colText       = rl.NewColor(180, 180, 180, 255)
	colTextDim    = rl.NewColor(90, 90, 90, 255)
)

type button struct {
	label  string
	bounds rl.Rectangle
	action func() (simulation.Pair, error)
}

// App owns the window resources: one model per geometry, loaded once and
// shared by every mesh.
type App struct {
	session   *simulation.Session
	graph     *scene.Scene
	camera    *scene.OrbitCamera
	telemetry *simulation.Telemetry
	render    config.RenderConfig

	models  map[*scene.Geometry]rl.Model
	buttons []button
	lastErr error
}

func NewApp(session *simulation.Session, render config.RenderConfig) *App {
	a := &App{
		session:   session,
		graph:     session.Scene,
		camera:    scene.DefaultCamera(),
		telemetry: simulation.NewTelemetry(240),
		render:    render,
		models:    make(map[*scene.Geometry]rl.Model),
	}

	a.buttons = []button{
		{label: "Create sphere", bounds: rl.NewRectangle(10, 10, 140, 32), action: session.Spawner.SpawnRandomSphere},
		{label: "Create box", bounds: rl.NewRectangle(10, 50, 140, 32), action: session.Spawner.SpawnRandomCube},
	}

	return a
}

// Run opens the window and drives the loop once per frame until the window is closed
func (a *App) Run() {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(a.render.Width), int32(a.render.Height), a.render.Title)
	rl.SetTargetFPS(int32(a.render.FPS))
	defer rl.CloseWindow()

	defer a.unloadModels()

	for !rl.WindowShouldClose() {
		a.handleInput()

		a.session.Loop.Advance()
		a.camera.Update()
		a.telemetry.Record(a.session.Context.Measure(a.session.Loop.Frame()))

		a.draw()
	}
}

func (a *App) handleInput() {
	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		for _, b := range a.buttons {
			if rl.CheckCollisionPointRec(mouse, b.bounds) {
				_, a.lastErr = b.action()
			}
		}
	}

	if rl.IsKeyPressed(rl.KeyS) {
		_, a.lastErr = a.session.Spawner.SpawnRandomSphere()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		_, a.lastErr = a.session.Spawner.SpawnRandomCube()
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.camera.Rotate(-float64(delta.X)*dragSensitivity, -float64(delta.Y)*dragSensitivity)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.camera.Rotate(-keyRotateStep, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.camera.Rotate(keyRotateStep, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.camera.Rotate(0, -keyRotateStep)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.camera.Rotate(0, keyRotateStep)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.camera.Zoom(math.Max(0.5, 1-float64(wheel)*wheelZoomStep))
	}
}

func (a *App) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(colBackground)

	rl.BeginMode3D(a.camera3D())
	a.session.Context.Lock()
	for _, mesh := range a.graph.Meshes() {
		a.drawMesh(mesh)
	}
	a.session.Context.Unlock()
	rl.EndMode3D()

	a.drawButtons()
	a.drawStats()
}

func (a *App) camera3D() rl.Camera3D {
	return rl.NewCamera3D(
		toVector3(a.camera.Position()),
		toVector3(a.camera.Target),
		rl.NewVector3(0, 1, 0),
		float32(a.camera.Fov),
		rl.CameraPerspective,
	)
}

func (a *App) drawMesh(mesh *scene.Mesh) {
	model := a.model(mesh.Geometry)
	rotation := mesh.Quaternion
	if mesh.Geometry.Kind == scene.GeometryPlane {
		// raylib planes lie in XZ, scene planes in XY
		rotation = rotation.Mul(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))
	}

	axis, angle := scene.AxisAngle(rotation)
	tint := shade(mesh.Material, a.graph)

	rl.DrawModelEx(model, toVector3(mesh.Position), toVector3(axis), float32(mgl64.RadToDeg(angle)), toVector3(mesh.Scale), tint)
	if mesh.Geometry.Kind != scene.GeometryPlane {
		rl.DrawModelWiresEx(model, toVector3(mesh.Position), toVector3(axis), float32(mgl64.RadToDeg(angle)), toVector3(mesh.Scale), colBorder)
	}
}

// model returns the raylib model of a geometry, generating it on first use
func (a *App) model(geometry *scene.Geometry) rl.Model {
	if model, ok := a.models[geometry]; ok {
		return model
	}

	var mesh rl.Mesh
	switch geometry.Kind {
	case scene.GeometrySphere:
		mesh = rl.GenMeshSphere(float32(geometry.Radius), geometry.HeightSegments, geometry.WidthSegments)
	case scene.GeometryBox:
		mesh = rl.GenMeshCube(float32(geometry.Width), float32(geometry.Height), float32(geometry.Depth))
	default:
		mesh = rl.GenMeshPlane(float32(geometry.Width), float32(geometry.Height), geometry.WidthSegments, geometry.HeightSegments)
	}

	model := rl.LoadModelFromMesh(mesh)
	a.models[geometry] = model

	return model
}

func (a *App) unloadModels() {
	for geometry, model := range a.models {
		rl.UnloadModel(model)
		delete(a.models, geometry)
	}
}

func (a *App) drawButtons() {
	mouse := rl.GetMousePosition()
	for _, b := range a.buttons {
		fill := colPanel
		if rl.CheckCollisionPointRec(mouse, b.bounds) {
			fill = colHover
		}
		rl.DrawRectangleRec(b.bounds, fill)
		rl.DrawRectangleLinesEx(b.bounds, 1, colBorder)
		rl.DrawText(b.label, int32(b.bounds.X)+10, int32(b.bounds.Y)+9, 14, colText)
	}
}

func (a *App) drawStats() {
	last := a.telemetry.Last()
	lines := []string{
		fmt.Sprintf("frame    %d", a.session.Loop.Frame()),
		fmt.Sprintf("bodies   %d (%d asleep)", last.Bodies, last.Sleeping),
		fmt.Sprintf("energy   %.3f J", last.KineticEnergy),
		fmt.Sprintf("height   %.3f m", last.MeanHeight),
	}
	if a.lastErr != nil {
		lines = append(lines, a.lastErr.Error())
	}

	x := int32(rl.GetScreenWidth()) - 220
	for i, line := range lines {
		rl.DrawText(line, x, 10+int32(i)*18, 14, colText)
	}

	rl.DrawText("S sphere  C box  right drag / arrows orbit  wheel zoom", 10, int32(rl.GetScreenHeight())-24, 14, colTextDim)
	rl.DrawFPS(10, 92)
}

// shade lights a material with the scene lights, ignoring the light directions
func shade(material *scene.StandardMaterial, graph *scene.Scene) rl.Color {
	intensity := 0.0
	for _, light := range graph.AmbientLights() {
		intensity += light.Intensity
	}
	for _, light := range graph.DirectionalLights() {
		intensity += light.Intensity * math.Max(0, -light.Direction().Y())
	}
	intensity = math.Min(1, intensity)

	scale := func(c uint8) uint8 {
		return uint8(math.Round(float64(c) * intensity))
	}

	return rl.NewColor(scale(material.Color.R), scale(material.Color.G), scale(material.Color.B), 255)
}

func toVector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}
