package shell

import (
	"testing"

	"github.com/phanxgames/pixlab"
)

// newTestGame returns a game with a 200x200 window showing a 16x16 canvas
// at zoom 10, so canvas pixel (x, y) covers screen pixels
// [20+10x, 30+10x) x [20+10y, 30+10y).
func newTestGame(t testing.TB) *Game {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 200, 200
	cfg.Canvas.Width, cfg.Canvas.Height = 16, 16
	cfg.Canvas.Zoom = 10
	cfg.ProjectPath = ""
	ed, err := pixlab.NewEditor(pixlab.EditorConfig{Width: 16, Height: 16, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	return NewGame(cfg, ed, nil)
}

// screenOf returns the screen position of the center of canvas pixel (x, y).
func screenOf(x, y int) (float64, float64) {
	return float64(20+10*x) + 5, float64(20+10*y) + 5
}

func press(g *Game, x, y int, b MouseButton) {
	sx, sy := screenOf(x, y)
	g.processPointer(pointerSample{x: sx, y: sy, pressed: true, button: b})
}

func release(g *Game, x, y int) {
	sx, sy := screenOf(x, y)
	g.processPointer(pointerSample{x: sx, y: sy})
}

// frame runs the parts of Update that do not need a running game loop.
func frame(g *Game) {
	if g.runner != nil {
		g.runner.step(g)
	}
	g.processInjectedInput()
}

func layerPixel(t testing.TB, g *Game, layer, x, y int) pixlab.Color {
	t.Helper()
	lv, err := g.Editor().Document().Layer(layer)
	if err != nil {
		t.Fatal(err)
	}
	c, err := lv.Get(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

var (
	red  = pixlab.Color{R: 255, A: 255}
	blue = pixlab.Color{B: 255, A: 255}
)
