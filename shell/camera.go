package shell

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits of the canvas view.
const (
	MinZoom = 0.25
	MaxZoom = 64.0
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// zoomAnim holds an active zoom tween and the screen point kept fixed.
type zoomAnim struct {
	tween            *gween.Tween
	target           float64
	anchorX, anchorY float64
}

// Camera maps between screen and canvas coordinates. The canvas point
// (X, Y) is shown at the center of the viewport, magnified Zoom times.
type Camera struct {
	// X and Y are the canvas position at the viewport center.
	X, Y float64
	// Zoom is the on-screen size of one canvas pixel.
	Zoom float64
	// ViewW and ViewH are the viewport size in screen pixels.
	ViewW, ViewH float64

	scroll *scrollAnim
	zoom   *zoomAnim
}

// NewCamera creates a camera for a viewport of the given size, looking at
// the canvas origin.
func NewCamera(viewW, viewH float64, zoom float64) *Camera {
	return &Camera{Zoom: clampZoom(zoom), ViewW: viewW, ViewH: viewH}
}

// ScreenToCanvas converts screen coordinates to canvas coordinates.
func (c *Camera) ScreenToCanvas(sx, sy float64) (cx, cy float64) {
	cx = (sx-c.ViewW/2)/c.Zoom + c.X
	cy = (sy-c.ViewH/2)/c.Zoom + c.Y
	return
}

// CanvasToScreen converts canvas coordinates to screen coordinates.
func (c *Camera) CanvasToScreen(cx, cy float64) (sx, sy float64) {
	sx = (cx-c.X)*c.Zoom + c.ViewW/2
	sy = (cy-c.Y)*c.Zoom + c.ViewH/2
	return
}

// CanvasPoint returns the canvas pixel under a screen position. The result
// may lie outside the canvas.
func (c *Camera) CanvasPoint(sx, sy float64) image.Point {
	cx, cy := c.ScreenToCanvas(sx, sy)
	return image.Pt(int(math.Floor(cx)), int(math.Floor(cy)))
}

// GeoM returns the transform that draws canvas-space images on screen.
func (c *Camera) GeoM() ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-c.X, -c.Y)
	m.Scale(c.Zoom, c.Zoom)
	m.Translate(c.ViewW/2, c.ViewH/2)
	return m
}

// SetViewport updates the viewport size, e.g. after a window resize.
func (c *Camera) SetViewport(w, h float64) {
	c.ViewW, c.ViewH = w, h
}

// ZoomAt sets the zoom immediately, keeping the canvas point under the
// screen position (sx, sy) in place. Any zoom animation is stopped.
func (c *Camera) ZoomAt(zoom, sx, sy float64) {
	c.zoom = nil
	c.setZoomAt(zoom, sx, sy)
}

// ZoomTo animates the zoom over duration seconds, keeping the canvas point
// under (sx, sy) in place.
func (c *Camera) ZoomTo(zoom, sx, sy float64, duration float32, easeFn ease.TweenFunc) {
	zoom = clampZoom(zoom)
	c.zoom = &zoomAnim{
		tween:   gween.New(float32(c.Zoom), float32(zoom), duration, easeFn),
		target:  zoom,
		anchorX: sx,
		anchorY: sy,
	}
}

// ScrollTo animates the camera to the given canvas position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// PanBy moves the view by a screen-space delta, as when dragging the canvas.
// Any scroll animation is stopped.
func (c *Camera) PanBy(dx, dy float64) {
	c.scroll = nil
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// Fit centers a canvas of the given size and picks the largest zoom that
// shows all of it with a margin. Zooms of 1 and more are whole numbers so
// canvas pixels stay square.
func (c *Camera) Fit(width, height int) {
	c.scroll, c.zoom = nil, nil
	c.X, c.Y = float64(width)/2, float64(height)/2
	c.Zoom = FitZoom(width, height, c.ViewW, c.ViewH)
}

// FitZoom returns the zoom used by Camera.Fit.
func FitZoom(width, height int, viewW, viewH float64) float64 {
	const margin = 0.9
	if width < 1 || height < 1 || viewW <= 0 || viewH <= 0 {
		return 1
	}
	z := math.Min(viewW*margin/float64(width), viewH*margin/float64(height))
	if z >= 1 {
		z = math.Floor(z)
	}
	return clampZoom(z)
}

// Animating reports whether a zoom or scroll animation is running.
func (c *Camera) Animating() bool {
	return c.zoom != nil || c.scroll != nil
}

// update advances zoom and scroll animations by dt seconds.
func (c *Camera) update(dt float32) {
	if c.zoom != nil {
		val, done := c.zoom.tween.Update(dt)
		c.setZoomAt(float64(val), c.zoom.anchorX, c.zoom.anchorY)
		if done {
			c.zoom = nil
		}
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			val, done := c.scroll.tweenX.Update(dt)
			c.X = float64(val)
			c.scroll.doneX = done
		}
		if !c.scroll.doneY {
			val, done := c.scroll.tweenY.Update(dt)
			c.Y = float64(val)
			c.scroll.doneY = done
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}
}

func (c *Camera) setZoomAt(zoom, sx, sy float64) {
	wx, wy := c.ScreenToCanvas(sx, sy)
	c.Zoom = clampZoom(zoom)
	c.X = wx - (sx-c.ViewW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewH/2)/c.Zoom
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	return math.Min(z, MaxZoom)
}
