// Package shell is an Ebitengine front end for the pixlab editing engine.
//
// It owns the window, turns mouse and keyboard input into editor calls,
// uploads the composited canvas to a texture and draws it through a
// zoomable [Camera] with a pixel grid, the selection marquee, a palette
// strip and a status overlay. Everything it changes goes through
// [pixlab.Editor], so undo and redo cover all edits.
//
// For automated runs, a [TestRunner] replays a JSON script of clicks, drags,
// editor actions and pixel checks, and captures screenshots.
package shell

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pixlab"
)

var backgroundColor = color.NRGBA{R: 43, G: 43, B: 48, A: 255}

// Game implements ebiten.Game for one editor.
type Game struct {
	cfg     Config
	ed      *pixlab.Editor
	cam     *Camera
	palette *pixlab.Palette
	canvas  canvasView

	ptr    pointerState
	cursor image.Point
	keyBuf []ebiten.Key

	injectQueue     []pointerSample
	screenshotQueue []string
	runner          *TestRunner
	exitOnDone      bool

	showGrid bool
	status   string
	outW     int
	outH     int
}

// NewGame creates a shell for ed. A nil palette uses pixlab.DefaultPalette.
// The camera starts centered on the canvas at the configured zoom.
func NewGame(cfg Config, ed *pixlab.Editor, pal *pixlab.Palette) *Game {
	if pal == nil || len(pal.Colors) == 0 {
		pal = &pixlab.DefaultPalette
	}
	doc := ed.Document()
	cam := NewCamera(float64(cfg.Window.Width), float64(cfg.Window.Height), cfg.Canvas.Zoom)
	cam.X, cam.Y = float64(doc.Width())/2, float64(doc.Height())/2
	ed.Tools().SetColor(pal.Colors[0])
	return &Game{
		cfg:      cfg,
		ed:       ed,
		cam:      cam,
		palette:  pal,
		showGrid: true,
	}
}

// Editor returns the edited editor.
func (g *Game) Editor() *pixlab.Editor { return g.ed }

// Camera returns the canvas camera.
func (g *Game) Camera() *Camera { return g.cam }

// ExitWhenScriptDone makes Update end the game once the attached test
// runner has finished.
func (g *Game) ExitWhenScriptDone(exit bool) { g.exitOnDone = exit }

// Update advances animations, the test runner and input by one tick.
func (g *Game) Update() error {
	if g.runner != nil && g.runner.Done() && g.exitOnDone {
		return ebiten.Termination
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	g.cam.update(dt)
	if g.runner != nil {
		g.runner.step(g)
	}
	g.processInput()
	return nil
}

// Draw renders the canvas and the overlay, then takes queued screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.canvas.sync(g.ed)
	grid := g.showGrid && g.cfg.Canvas.GridZoom > 0 && g.cam.Zoom >= g.cfg.Canvas.GridZoom
	g.canvas.draw(screen, g.cam, grid, g.ed.Tools().Marquee())
	g.drawOverlay(screen)
	g.flushScreenshots(screen)
}

// Layout keeps the screen at the window size and the camera viewport in
// step with it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.cam.SetViewport(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and runs the game loop until the window is closed
// or the test script ends.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowSize(g.cfg.Window.Width, g.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	pixlab.Logger().Info("shell started", "title", g.cfg.Window.Title,
		"width", g.cfg.Window.Width, "height", g.cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
