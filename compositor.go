package pixlab

import (
	"image"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// minParallelPixels is the region size below which compositing stays on the
// calling goroutine.
const minParallelPixels = 64 * 64

// Composite flattens the visible layers of a document into a new image.
// It is a pure function of the document state: equal documents always
// produce byte-identical images.
func Composite(view DocumentView) *image.NRGBA {
	img := image.NewNRGBA(view.Bounds())
	composeRect(view.d, img, img.Bounds(), nil)
	return img
}

// CompositeStats describes the most recent Render call.
type CompositeStats struct {
	Region   image.Rectangle // area recomposed
	Full     bool            // whole canvas recomposed
	Bands    int             // number of parallel bands
	Duration time.Duration
}

// Compositor keeps the last composite of a document and brings it up to
// date by recomposing only damaged regions. Every region is computed with
// the same per-pixel code as Composite, so incremental results are
// identical to a full composite.
//
// Large regions are split into horizontal bands composed in parallel. The
// workers only read layer buffers and each writes a disjoint band of the
// output; Render returns after all bands are done.
type Compositor struct {
	workers int
	img     *image.NRGBA
	preview *image.NRGBA
	stats   CompositeStats
}

// NewCompositor creates a compositor using up to workers goroutines per
// region. workers <= 0 means GOMAXPROCS; 1 disables parallelism.
func NewCompositor(workers int) *Compositor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Compositor{workers: workers}
}

// Render updates the cached composite for view and returns it. Only damage
// is recomposed unless full is true, nothing is cached yet, or the canvas
// size changed. The returned image belongs to the compositor and is
// overwritten by the next Render.
func (c *Compositor) Render(view DocumentView, damage image.Rectangle, full bool) *image.NRGBA {
	bounds := view.Bounds()
	if c.img == nil || c.img.Rect != bounds {
		c.img = image.NewNRGBA(bounds)
		full = true
	}
	region := damage.Intersect(bounds)
	if full {
		region = bounds
	}
	t0 := time.Now()
	bands := c.compose(view.d, c.img, region, nil)
	c.stats = CompositeStats{Region: region, Full: full, Bands: bands, Duration: time.Since(t0)}
	if !region.Empty() {
		Logger().Debug("composite", "region", region.String(), "full", full,
			"bands", bands, "duration", c.stats.Duration)
	}
	return c.img
}

// RenderPreview returns the cached composite with patch drawn into its
// layer, as if the patch had been applied. The document is not modified.
// Render must have been called for the current document state. When patch
// is nil the cached composite itself is returned.
func (c *Compositor) RenderPreview(view DocumentView, patch *Patch) *image.NRGBA {
	if c.img == nil {
		c.Render(view, image.Rectangle{}, true)
	}
	if patch == nil || patch.Layer < 0 || patch.Layer >= len(view.d.layers) {
		return c.img
	}
	if c.preview == nil || c.preview.Rect != c.img.Rect {
		c.preview = image.NewNRGBA(c.img.Rect)
	}
	copy(c.preview.Pix, c.img.Pix)

	ov := &overlay{layer: view.d.layers[patch.Layer], pix: make(map[image.Point]Color, len(patch.Edits))}
	for _, e := range patch.Edits {
		ov.pix[e.Pos] = e.New
	}
	c.compose(view.d, c.preview, patch.Bounds().Intersect(view.Bounds()), ov)
	return c.preview
}

// Image returns the cached composite, or nil before the first Render.
func (c *Compositor) Image() *image.NRGBA { return c.img }

// Stats returns timing information about the last Render.
func (c *Compositor) Stats() CompositeStats { return c.stats }

// compose recomposes r of dst and returns the number of bands used.
func (c *Compositor) compose(d *Document, dst *image.NRGBA, r image.Rectangle, ov *overlay) int {
	if r.Empty() {
		return 0
	}
	rows := r.Dy()
	if c.workers <= 1 || rows < 2 || r.Dx()*rows < minParallelPixels {
		composeRect(d, dst, r, ov)
		return 1
	}
	band := (rows + c.workers - 1) / c.workers
	var g errgroup.Group
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y += band {
		sub := image.Rect(r.Min.X, y, r.Max.X, min(y+band, r.Max.Y))
		g.Go(func() error {
			composeRect(d, dst, sub, ov)
			return nil
		})
		n++
	}
	_ = g.Wait()
	return n
}

// overlay substitutes pixels of one layer during compositing.
type overlay struct {
	layer *Layer
	pix   map[image.Point]Color
}

// composeRect blends every visible layer, bottom to top, for each pixel of r
// and stores the result in dst. It only reads the document.
func composeRect(d *Document, dst *image.NRGBA, r image.Rectangle, ov *overlay) {
	layers := make([]*Layer, 0, len(d.layers))
	for i := len(d.layers) - 1; i >= 0; i-- {
		if l := d.layers[i]; l.props.Visible && l.props.Opacity > 0 {
			layers = append(layers, l)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc fcolor
			for _, l := range layers {
				src := l.buf.at(x, y)
				if ov != nil && l == ov.layer {
					if c, ok := ov.pix[image.Pt(x, y)]; ok {
						src = c
					}
				}
				acc = blendPixel(acc, src, l.props.Opacity, l.props.BlendMode)
			}
			out := acc.toColor()
			p := dst.Pix[off : off+4 : off+4]
			p[0], p[1], p[2], p[3] = out.R, out.G, out.B, out.A
			off += 4
		}
	}
}
