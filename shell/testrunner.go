package shell

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/phanxgames/pixlab"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Name   string  `json:"name,omitempty"`
	Color  string  `json:"color,omitempty"`
	Canvas bool    `json:"canvas,omitempty"` // coordinates are canvas pixels
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner plays a JSON script of input, editor actions, pixel checks and
// screenshots across frames, for automated visual testing. Attach it to a
// Game with SetTestRunner.
//
// Supported actions:
//
//	click      x, y                     press and release
//	drag       fromX, fromY, toX, toY   press, frames-2 moves, release
//	wait       frames                   do nothing for a number of frames
//	tool       name                     select a tool ("pencil", "fill", ...)
//	color      color                    set the drawing color ("#rrggbb[aa]")
//	do         name                     run an Action ("undo", "add_layer", ...)
//	expect     x, y, color              check a composited canvas pixel
//	screenshot label                    capture the window
//
// Pointer coordinates are screen pixels unless "canvas" is true, in which
// case they name canvas pixels and are mapped through the camera.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
	failures  []string
}

// LoadTestScript parses and checks a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

func (st testStep) check() error {
	switch st.Action {
	case "click", "drag", "wait", "screenshot":
		return nil
	case "tool":
		_, err := pixlab.ParseTool(st.Name)
		return err
	case "color", "expect":
		_, err := pixlab.ParseHexColor(st.Color)
		return err
	case "do":
		_, err := ParseAction(st.Name)
		return err
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

// SetTestRunner attaches a runner to the game. Its steps run from
// Game.Update before input processing, one step per frame.
func (g *Game) SetTestRunner(runner *TestRunner) {
	g.runner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Failures returns a description of every failed expect step.
func (r *TestRunner) Failures() []string {
	return r.failures
}

// step advances the test runner by one frame. Called from Game.Update.
func (r *TestRunner) step(g *Game) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(g.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		g.Screenshot(st.Label)
	case "click":
		x, y := r.screen(g, st, st.X, st.Y)
		g.InjectClick(x, y)
	case "drag":
		frames := st.Frames
		if frames < 2 {
			frames = 2
		}
		fx, fy := r.screen(g, st, st.FromX, st.FromY)
		tx, ty := r.screen(g, st, st.ToX, st.ToY)
		g.InjectDrag(fx, fy, tx, ty, frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "tool":
		id, _ := pixlab.ParseTool(st.Name)
		g.report(g.ed.SelectTool(id))
	case "color":
		c, _ := pixlab.ParseHexColor(st.Color)
		g.ed.Tools().SetColor(c)
	case "do":
		a, _ := ParseAction(st.Name)
		g.report(g.Do(a))
	case "expect":
		r.expect(g, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(g.injectQueue) == 0 {
		r.done = true
	}
}

// screen maps step coordinates to screen space. Canvas coordinates address
// the center of a canvas pixel.
func (r *TestRunner) screen(g *Game, st testStep, x, y float64) (float64, float64) {
	if !st.Canvas {
		return x, y
	}
	return g.cam.CanvasToScreen(x+0.5, y+0.5)
}

// expect compares the composited pixel at canvas (X, Y) with Color.
func (r *TestRunner) expect(g *Game, st testStep) {
	want, _ := pixlab.ParseHexColor(st.Color)
	p := image.Pt(int(st.X), int(st.Y))
	img := g.ed.CompositedImage()
	if !p.In(img.Rect) {
		r.fail(fmt.Sprintf("step %d: expect at %v: outside the canvas", r.cursor-1, p))
		return
	}
	c := img.NRGBAAt(p.X, p.Y)
	got := pixlab.Color{R: c.R, G: c.G, B: c.B, A: c.A}
	if got != want {
		r.fail(fmt.Sprintf("step %d: pixel %v = %s, want %s", r.cursor-1, p, got.Hex(), want.Hex()))
	}
}

func (r *TestRunner) fail(msg string) {
	r.failures = append(r.failures, msg)
	pixlab.Logger().Warn("test script expectation failed", "detail", msg)
}
