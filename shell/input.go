package shell

import (
	"errors"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/pixlab"
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // draws with the current tool
	MouseButtonRight                     // samples a color
	MouseButtonMiddle                    // pans the view
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// wheelZoomDuration is the length of the zoom animation per wheel notch,
// in seconds.
const wheelZoomDuration = 0.12

// pointerSample is the pointer state for one frame, in screen coordinates.
type pointerSample struct {
	x, y    float64
	pressed bool
	button  MouseButton
}

// pointerState tracks the mouse between frames.
type pointerState struct {
	down   bool
	button MouseButton // button captured at press time
	onUI   bool        // press started on the palette strip
	lastX  float64
	lastY  float64
	last   image.Point // canvas pixel of the last sample
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Game.Update to handle mouse, wheel and
// keyboard input. Injected pointer events replace the real mouse for the
// frame they are consumed in.
func (g *Game) processInput() {
	mods := readModifiers()
	g.processKeys(mods)

	if g.processInjectedInput() {
		return
	}

	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)

	if _, wy := ebiten.Wheel(); wy != 0 && !g.ptr.down {
		g.wheelZoom(wy, sx, sy)
	}

	// If the pointer is already down, keep the stored button so the
	// gesture does not change mid-interaction.
	var s pointerSample
	s.x, s.y = sx, sy
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		s.pressed = true
		switch {
		case left:
			s.button = MouseButtonLeft
		case right:
			s.button = MouseButtonRight
		default:
			s.button = MouseButtonMiddle
		}
	}
	g.processPointer(s)
}

// wheelZoom doubles or halves the zoom per notch towards the cursor.
func (g *Game) wheelZoom(notches, sx, sy float64) {
	from := g.cam.Zoom
	if g.cam.zoom != nil {
		// Chain from the running animation's target.
		from = g.cam.zoom.target
	}
	g.cam.ZoomTo(from*math.Pow(2, math.Copysign(1, notches)), sx, sy, wheelZoomDuration, ease.OutQuad)
}

// processPointer runs the pointer state machine for one sample and turns
// it into tool gestures, color sampling or panning.
func (g *Game) processPointer(s pointerSample) {
	ps := &g.ptr
	pt := g.cam.CanvasPoint(s.x, s.y)
	g.cursor = pt

	switch {
	case s.pressed && !ps.down:
		ps.down = true
		ps.button = s.button
		ps.lastX, ps.lastY = s.x, s.y
		ps.last = pt
		ps.onUI = false

		if i, ok := g.paletteHit(s.x, s.y); ok {
			ps.onUI = true
			g.ed.Tools().SetColor(g.palette.Colors[i])
			return
		}
		switch ps.button {
		case MouseButtonLeft:
			g.report(g.ed.PointerDown(pt, g.ed.Tools().Tool()))
		case MouseButtonRight:
			g.pick(pt)
		}

	case !s.pressed && ps.down:
		if !ps.onUI && ps.button == MouseButtonLeft {
			g.report(g.ed.PointerUp(pt))
		}
		ps.down = false
		ps.onUI = false

	case s.pressed && ps.down:
		if ps.onUI {
			break
		}
		switch ps.button {
		case MouseButtonLeft:
			if pt != ps.last {
				g.report(g.ed.PointerMove(pt))
			}
		case MouseButtonMiddle:
			if s.x != ps.lastX || s.y != ps.lastY {
				g.cam.PanBy(s.x-ps.lastX, s.y-ps.lastY)
			}
		}
		ps.lastX, ps.lastY = s.x, s.y
		ps.last = pt
	}
}

// pick samples the active layer at pt without changing the current tool.
func (g *Game) pick(pt image.Point) {
	tools := g.ed.Tools()
	prev := tools.Tool()
	g.report(g.ed.PointerDown(pt, pixlab.ToolPicker))
	g.report(tools.SelectTool(prev))
}

// report shows a failed user action in the status line. Expected refusals
// such as drawing on a locked layer are not logged as warnings.
func (g *Game) report(err error) {
	if err == nil {
		return
	}
	g.status = err.Error()
	if errors.Is(err, pixlab.ErrLayerLocked) || errors.Is(err, pixlab.ErrOutOfBounds) ||
		errors.Is(err, pixlab.ErrEmptyHistory) {
		pixlab.Logger().Debug("action refused", "err", err)
		return
	}
	pixlab.Logger().Warn("action failed", "err", err)
}
