package shell

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pixlab"
)

// checkerCell is the size in canvas pixels of the transparency checkerboard.
const checkerCell = 4

var (
	checkerLight = color.NRGBA{R: 204, G: 204, B: 204, A: 255}
	checkerDark  = color.NRGBA{R: 153, G: 153, B: 153, A: 255}
	gridColor    = color.NRGBA{R: 0, G: 0, B: 0, A: 48}
	marqueeColor = color.NRGBA{R: 255, G: 255, B: 255, A: 220}
)

// canvasView mirrors the editor's composite in a GPU texture. Only the
// region the compositor recomposed, plus the area of the gesture preview,
// is uploaded each frame.
type canvasView struct {
	tex     *ebiten.Image
	checker *ebiten.Image
	white   *ebiten.Image
	size    image.Point
	upload  []byte
	preview image.Rectangle // preview area uploaded last frame
}

// sync brings the texture up to date with the editor, including the
// in-progress gesture.
func (v *canvasView) sync(ed *pixlab.Editor) {
	img := ed.CompositedImage()
	dirty := ed.Compositor().Stats().Region

	if v.tex == nil || v.size != img.Rect.Size() {
		v.resize(img.Rect.Size())
		dirty = img.Rect
	}

	var pb image.Rectangle
	if patch := ed.PreviewOverlay(); patch != nil {
		pb = patch.Bounds()
		img = ed.Compositor().RenderPreview(ed.Document(), patch)
	}
	// The previous preview area must be restored from the composite.
	dirty = dirty.Union(pb).Union(v.preview).Intersect(img.Rect)
	v.preview = pb
	if dirty.Empty() {
		return
	}
	v.upload = premultiplyRect(v.upload[:0], img, dirty)
	v.tex.SubImage(dirty).(*ebiten.Image).WritePixels(v.upload)
}

func (v *canvasView) resize(size image.Point) {
	if v.tex != nil {
		v.tex.Deallocate()
		v.checker.Deallocate()
	}
	v.size = size
	v.tex = ebiten.NewImage(size.X, size.Y)
	v.checker = ebiten.NewImageFromImage(checkerImage(size.X, size.Y))
	v.preview = image.Rectangle{}
	if v.white == nil {
		v.white = ebiten.NewImage(1, 1)
		v.white.Fill(color.White)
	}
}

// draw renders the canvas, the pixel grid and the selection marquee.
func (v *canvasView) draw(screen *ebiten.Image, cam *Camera, grid bool, marquee image.Rectangle) {
	if v.tex == nil {
		return
	}
	op := &ebiten.DrawImageOptions{GeoM: cam.GeoM()}
	screen.DrawImage(v.checker, op)
	screen.DrawImage(v.tex, op)

	if grid {
		v.drawGrid(screen, cam)
	}
	if !marquee.Empty() {
		x0, y0 := cam.CanvasToScreen(float64(marquee.Min.X), float64(marquee.Min.Y))
		x1, y1 := cam.CanvasToScreen(float64(marquee.Max.X), float64(marquee.Max.Y))
		v.rect(screen, x0, y0, x1-x0, 1, marqueeColor)
		v.rect(screen, x0, y1-1, x1-x0, 1, marqueeColor)
		v.rect(screen, x0, y0, 1, y1-y0, marqueeColor)
		v.rect(screen, x1-1, y0, 1, y1-y0, marqueeColor)
	}
}

// drawGrid draws one line per canvas pixel boundary inside the viewport.
func (v *canvasView) drawGrid(screen *ebiten.Image, cam *Camera) {
	cx0, cy0 := cam.ScreenToCanvas(0, 0)
	cx1, cy1 := cam.ScreenToCanvas(cam.ViewW, cam.ViewH)
	xa, xb := clampInt(int(math.Ceil(cx0)), 0, v.size.X), clampInt(int(math.Floor(cx1)), 0, v.size.X)
	ya, yb := clampInt(int(math.Ceil(cy0)), 0, v.size.Y), clampInt(int(math.Floor(cy1)), 0, v.size.Y)

	_, top := cam.CanvasToScreen(0, 0)
	_, bottom := cam.CanvasToScreen(0, float64(v.size.Y))
	for x := xa; x <= xb; x++ {
		sx, _ := cam.CanvasToScreen(float64(x), 0)
		v.rect(screen, math.Floor(sx), top, 1, bottom-top, gridColor)
	}
	left, _ := cam.CanvasToScreen(0, 0)
	right, _ := cam.CanvasToScreen(float64(v.size.X), 0)
	for y := ya; y <= yb; y++ {
		_, sy := cam.CanvasToScreen(0, float64(y))
		v.rect(screen, left, math.Floor(sy), right-left, 1, gridColor)
	}
}

// rect fills a screen rectangle by scaling the 1x1 white image.
func (v *canvasView) rect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	if v.white == nil || w <= 0 || h <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(v.white, op)
}

// premultiplyRect appends the pixels of r in img to dst as premultiplied
// RGBA, the layout ebiten expects for WritePixels.
func premultiplyRect(dst []byte, img *image.NRGBA, r image.Rectangle) []byte {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := img.PixOffset(r.Min.X, y)
		row := img.Pix[off : off+4*r.Dx()]
		for i := 0; i < len(row); i += 4 {
			a := uint32(row[i+3])
			dst = append(dst,
				uint8((uint32(row[i])*a+127)/255),
				uint8((uint32(row[i+1])*a+127)/255),
				uint8((uint32(row[i+2])*a+127)/255),
				uint8(a))
		}
	}
	return dst
}

// checkerImage returns the transparency checkerboard for a canvas.
func checkerImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := checkerLight
			if (x/checkerCell+y/checkerCell)%2 == 1 {
				c = checkerDark
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
