package pixlab

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is an 8-bit-per-channel RGBA color with straight (non-premultiplied)
// alpha. Premultiplication only happens inside the compositor.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fill color of new layers and grown canvas area.
var Transparent = Color{}

// Common colors.
var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// RGBA returns c as a color.NRGBA so it can be used with image/color consumers.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA converts c to the standard library's straight-alpha color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ColorFrom converts any color.Color to a straight-alpha Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B, n.A}
}

// BlendMode selects the arithmetic used to combine a layer with the layers
// beneath it.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive, clamped at white
	BlendMultiply                  // source * destination; only darkens
	BlendScreen                    // 1 - (1-src)*(1-dst); only brightens
	BlendErase                     // subtracts source alpha from destination alpha
)

var blendModeNames = [...]string{
	BlendNormal:   "normal",
	BlendAdd:      "add",
	BlendMultiply: "multiply",
	BlendScreen:   "screen",
	BlendErase:    "erase",
}

// String returns the lower-case name used in document records.
func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(b))
}

// Valid reports whether b is one of the defined blend modes.
func (b BlendMode) Valid() bool {
	return int(b) < len(blendModeNames)
}

// ParseBlendMode converts a name produced by BlendMode.String back to a
// BlendMode. Matching is case-insensitive.
func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range blendModeNames {
		if name == s {
			return BlendMode(i), nil
		}
	}
	return BlendNormal, fmt.Errorf("pixlab: unknown blend mode %q", s)
}

// Anchor decides which edge or corner of existing content stays fixed when a
// buffer is resized.
type Anchor uint8

const (
	AnchorTopLeft Anchor = iota
	AnchorTop
	AnchorTopRight
	AnchorLeft
	AnchorCenter
	AnchorRight
	AnchorBottomLeft
	AnchorBottom
	AnchorBottomRight
)

// offset returns where the old content's origin lands inside the new buffer.
// Negative values crop the old content.
func (a Anchor) offset(oldW, oldH, newW, newH int) (int, int) {
	dw, dh := newW-oldW, newH-oldH
	var ox, oy int
	switch a {
	case AnchorTop, AnchorCenter, AnchorBottom:
		ox = dw / 2
	case AnchorTopRight, AnchorRight, AnchorBottomRight:
		ox = dw
	}
	switch a {
	case AnchorLeft, AnchorCenter, AnchorRight:
		oy = dh / 2
	case AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		oy = dh
	}
	return ox, oy
}
