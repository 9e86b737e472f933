package pixlab

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
)

// LayerTransform is a whole-layer geometric operation that keeps the canvas
// size.
type LayerTransform uint8

const (
	FlipHorizontal LayerTransform = iota
	FlipVertical
	Rotate180
)

// String returns the operation's display name, used as the command name.
func (t LayerTransform) String() string {
	switch t {
	case FlipHorizontal:
		return "Flip Horizontal"
	case FlipVertical:
		return "Flip Vertical"
	case Rotate180:
		return "Rotate 180"
	default:
		return fmt.Sprintf("LayerTransform(%d)", uint8(t))
	}
}

// NewTransformLayer builds a SetPixels command that applies op to layer in
// the document's current state. Only pixels that change are recorded, so a
// symmetric layer produces an empty (no-op) command.
func NewTransformLayer(view DocumentView, layer int, op LayerTransform) (*SetPixels, error) {
	if err := view.d.checkIndex(layer); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	src := view.d.layers[layer].buf.nrgbaView()
	var out *image.NRGBA
	switch op {
	case FlipHorizontal:
		out = imaging.FlipH(src)
	case FlipVertical:
		out = imaging.FlipV(src)
	case Rotate180:
		out = imaging.Rotate180(src)
	default:
		return nil, fmt.Errorf("pixlab: unknown layer transform %d", uint8(op))
	}
	cmd := diffImage(view.d.layers[layer].buf, out, layer)
	cmd.label = op.String()
	return cmd, nil
}

// NewReplaceLayerPixels builds a SetPixels command that makes layer look
// like img. img is placed at the canvas origin and clipped to the canvas;
// canvas pixels not covered by img become transparent.
func NewReplaceLayerPixels(view DocumentView, layer int, img image.Image) (*SetPixels, error) {
	if err := view.d.checkIndex(layer); err != nil {
		return nil, fmt.Errorf("replace pixels: %w", err)
	}
	canvas := imaging.New(view.d.width, view.d.height, color.NRGBA{})
	canvas = imaging.Paste(canvas, img, image.Point{})
	cmd := diffImage(view.d.layers[layer].buf, canvas, layer)
	cmd.label = "Replace Pixels"
	return cmd, nil
}

// diffImage returns the edits turning buf into img, which must have buf's
// size and origin (0, 0).
func diffImage(buf *PixelBuffer, img *image.NRGBA, layer int) *SetPixels {
	var edits []PixelEdit
	for y := 0; y < buf.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*buf.width]
		for x := 0; x < buf.width; x++ {
			p := row[4*x : 4*x+4 : 4*x+4]
			nc := Color{p[0], p[1], p[2], p[3]}
			if oc := buf.at(x, y); oc != nc {
				edits = append(edits, PixelEdit{Pos: image.Pt(x, y), Old: oc, New: nc})
			}
		}
	}
	return &SetPixels{layer: layer, edits: edits}
}

// LayerFromImage converts img into a free-standing layer of the given canvas
// size. Images larger than the canvas are scaled down with nearest-neighbor
// sampling to fit, keeping their aspect ratio; the result is centered.
func LayerFromImage(img image.Image, name string, width, height int) (*Layer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("layer from image: %w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("layer from image: %w: empty image", ErrInvalidDimensions)
	}
	if b.Dx() > width || b.Dy() > height {
		img = imaging.Fit(img, width, height, imaging.NearestNeighbor)
	}
	canvas := imaging.PasteCenter(imaging.New(width, height, color.NRGBA{}), img)
	buf, err := NewPixelBufferFromImage(canvas)
	if err != nil {
		return nil, fmt.Errorf("layer from image: %w", err)
	}
	return NewLayerFromBuffer(DefaultLayerProps(name), buf), nil
}

// ImportImage decodes an image (any format registered with the image
// package, plus EXIF orientation) and converts it with LayerFromImage.
func ImportImage(r io.Reader, name string, width, height int) (*Layer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("import image: %w", err)
	}
	return LayerFromImage(img, name, width, height)
}
