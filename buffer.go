package pixlab

import (
	"fmt"
	"image"
	"image/draw"
)

// PixelBuffer is a dense, fixed-size grid of colors. Every coordinate inside
// the buffer always holds a defined color; new buffers start transparent.
//
// Pixels are stored row-major as R, G, B, A bytes, the same layout as
// image.NRGBA, so conversion to and from the image package is a copy.
type PixelBuffer struct {
	width  int
	height int
	pix    []uint8
}

// MaxSide is the largest width or height of a buffer. It keeps the pixel
// byte count of a full canvas within a 32-bit int.
const MaxSide = 16384

// checkDimensions reports ErrInvalidDimensions unless both sides are in
// [1, MaxSide].
func checkDimensions(width, height int) error {
	if width < 1 || height < 1 || width > MaxSide || height > MaxSide {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return nil
}

// NewPixelBuffer creates a transparent buffer. Both dimensions must be at
// least 1 and at most MaxSide.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, 4*width*height),
	}, nil
}

// NewPixelBufferFromImage copies img into a new buffer of the same size.
// The image's origin is mapped to (0, 0).
func NewPixelBufferFromImage(img image.Image) (*PixelBuffer, error) {
	b := img.Bounds()
	buf, err := NewPixelBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	dst := buf.nrgbaView()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return buf, nil
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Bounds returns the rectangle (0, 0)-(Width, Height).
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *PixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Get returns the color at (x, y).
func (b *PixelBuffer) Get(x, y int) (Color, error) {
	if !b.InBounds(x, y) {
		return Color{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return b.at(x, y), nil
}

// Set writes c at (x, y).
func (b *PixelBuffer) Set(x, y int, c Color) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	b.set(x, y, c)
	return nil
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c Color) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// Clone returns a deep copy that shares no storage with b.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &PixelBuffer{width: b.width, height: b.height, pix: pix}
}

// Resize returns a new buffer of the given size. Content that overlaps the
// new area is preserved, positioned according to anchor; uncovered area is
// transparent. b itself is not modified.
func (b *PixelBuffer) Resize(width, height int, anchor Anchor) (*PixelBuffer, error) {
	out, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	ox, oy := anchor.offset(b.width, b.height, width, height)

	// Overlap of the old content (translated by ox, oy) with the new bounds.
	src := b.Bounds().Add(image.Pt(ox, oy)).Intersect(out.Bounds())
	if src.Empty() {
		return out, nil
	}
	rowBytes := 4 * src.Dx()
	for y := src.Min.Y; y < src.Max.Y; y++ {
		di := out.offset(src.Min.X, y)
		si := b.offset(src.Min.X-ox, y-oy)
		copy(out.pix[di:di+rowBytes], b.pix[si:si+rowBytes])
	}
	return out, nil
}

// Equal reports whether o has the same size and identical pixels.
func (b *PixelBuffer) Equal(o *PixelBuffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.width != o.width || b.height != o.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// NRGBA returns a copy of the buffer as an *image.NRGBA.
func (b *PixelBuffer) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	copy(img.Pix, b.pix)
	return img
}

// nrgbaView wraps the buffer's own storage. Writes through the view mutate
// the buffer, so it never leaves the package.
func (b *PixelBuffer) nrgbaView() *image.NRGBA {
	return &image.NRGBA{Pix: b.pix, Stride: 4 * b.width, Rect: b.Bounds()}
}

func (b *PixelBuffer) offset(x, y int) int {
	return 4 * (y*b.width + x)
}

func (b *PixelBuffer) at(x, y int) Color {
	i := b.offset(x, y)
	p := b.pix[i : i+4 : i+4]
	return Color{p[0], p[1], p[2], p[3]}
}

func (b *PixelBuffer) set(x, y int, c Color) {
	i := b.offset(x, y)
	p := b.pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}
