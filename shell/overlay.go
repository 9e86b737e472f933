package shell

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/pixlab"
)

// Palette strip layout, in screen pixels from the bottom-left corner.
const (
	swatchSize   = 16
	swatchGap    = 2
	swatchMargin = 4
)

var selectedOutline = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// paletteHit returns the palette entry under a screen position.
func (g *Game) paletteHit(sx, sy float64) (int, bool) {
	top := g.cam.ViewH - swatchMargin - swatchSize
	if sy < top || sy >= top+swatchSize || sx < swatchMargin {
		return 0, false
	}
	i := int(sx-swatchMargin) / (swatchSize + swatchGap)
	if i >= len(g.palette.Colors) {
		return 0, false
	}
	// Gaps between swatches do not count.
	if int(sx-swatchMargin)%(swatchSize+swatchGap) >= swatchSize {
		return 0, false
	}
	return i, true
}

// drawPalette draws the palette strip with the current color outlined.
func (g *Game) drawPalette(screen *ebiten.Image) {
	top := g.cam.ViewH - swatchMargin - swatchSize
	current := g.palette.Index(g.ed.Tools().Options().Color)
	for i, c := range g.palette.Colors {
		x := float64(swatchMargin + i*(swatchSize+swatchGap))
		if i == current {
			g.canvas.rect(screen, x-1, top-1, swatchSize+2, swatchSize+2, selectedOutline)
		}
		g.canvas.rect(screen, x, top, swatchSize, swatchSize, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
}

// statusText returns the overlay lines: tool and view state, the layer
// stack, and the last message.
func (g *Game) statusText() string {
	ed := g.ed
	doc := ed.Document()
	opts := ed.Tools().Options()

	var b strings.Builder
	fill := ""
	if opts.FillShapes {
		fill = " (filled)"
	}
	fmt.Fprintf(&b, "%s%s  %s  zoom %g%%  cursor %d,%d\n",
		ed.Tools().Tool(), fill, opts.Color.Hex(), g.cam.Zoom*100, g.cursor.X, g.cursor.Y)
	fmt.Fprintf(&b, "%dx%d  undo %d  redo %d\n",
		doc.Width(), doc.Height(), ed.History().UndoLen(), ed.History().RedoLen())
	for i := 0; i < doc.LayerCount(); i++ {
		lv, err := doc.Layer(i)
		if err != nil {
			continue
		}
		b.WriteString(layerLine(lv, i == doc.ActiveLayer()))
		b.WriteByte('\n')
	}
	if g.status != "" {
		b.WriteString(g.status)
		b.WriteByte('\n')
	}
	return b.String()
}

func layerLine(lv pixlab.LayerView, active bool) string {
	mark := "  "
	if active {
		mark = "> "
	}
	flags := ""
	if !lv.Visible() {
		flags += " hidden"
	}
	if lv.Props().Locked {
		flags += " locked"
	}
	return fmt.Sprintf("%s%s  %.0f%% %s%s", mark, lv.Name(), lv.Opacity()*100, lv.BlendMode(), flags)
}

// drawOverlay draws the status text, the palette strip and, when enabled,
// the frame rate.
func (g *Game) drawOverlay(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, g.statusText(), swatchMargin, swatchMargin)
	g.drawPalette(screen)
	if g.cfg.Debug {
		msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		ebitenutil.DebugPrintAt(screen, msg, int(g.cam.ViewW)-80, swatchMargin)
	}
}
