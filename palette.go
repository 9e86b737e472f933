package pixlab

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional, case-insensitive). Colors without an alpha byte are opaque.
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("pixlab: bad hex color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("pixlab: bad hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when c is not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Palette is a named, ordered list of swatches.
type Palette struct {
	Name   string
	Colors []Color
}

// DefaultPalette is the 16-color palette used when none is configured.
var DefaultPalette = Palette{
	Name: "default",
	Colors: []Color{
		{0, 0, 0, 255}, {255, 255, 255, 255}, {136, 0, 0, 255}, {170, 255, 238, 255},
		{204, 68, 204, 255}, {0, 204, 85, 255}, {0, 0, 170, 255}, {238, 238, 119, 255},
		{221, 136, 85, 255}, {102, 68, 0, 255}, {255, 119, 119, 255}, {51, 51, 51, 255},
		{119, 119, 119, 255}, {170, 255, 102, 255}, {0, 136, 255, 255}, {187, 187, 187, 255},
	},
}

// Index returns the position of c in the palette, or -1.
func (p *Palette) Index(c Color) int {
	for i, pc := range p.Colors {
		if pc == c {
			return i
		}
	}
	return -1
}

// MarshalJSON writes the palette in the object form accepted by LoadPalette.
func (p Palette) MarshalJSON() ([]byte, error) {
	out := jsonPalette{Name: p.Name, Colors: make([]string, len(p.Colors))}
	for i, c := range p.Colors {
		out.Colors[i] = c.Hex()
	}
	return json.Marshal(out)
}

type jsonPalette struct {
	Name   string   `json:"name,omitempty"`
	Colors []string `json:"colors"`
}

// LoadPalette parses a palette from JSON. Two forms are accepted: an object
// {"name": ..., "colors": ["#rrggbb", ...]} and a bare array of hex strings.
func LoadPalette(data []byte) (*Palette, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("pixlab: failed to parse palette JSON: %w", err)
	}

	var jp jsonPalette
	trimmed := strings.TrimSpace(string(probe))
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(probe, &jp.Colors); err != nil {
			return nil, fmt.Errorf("pixlab: palette array: %w", err)
		}
	case strings.HasPrefix(trimmed, "{"):
		if err := json.Unmarshal(probe, &jp); err != nil {
			return nil, fmt.Errorf("pixlab: palette object: %w", err)
		}
		if jp.Colors == nil {
			return nil, fmt.Errorf("pixlab: palette JSON has no \"colors\" key")
		}
	default:
		return nil, fmt.Errorf("pixlab: palette JSON must be an object or an array")
	}

	p := &Palette{Name: jp.Name, Colors: make([]Color, 0, len(jp.Colors))}
	for i, s := range jp.Colors {
		c, err := ParseHexColor(s)
		if err != nil {
			return nil, fmt.Errorf("pixlab: palette entry %d: %w", i, err)
		}
		p.Colors = append(p.Colors, c)
	}
	return p, nil
}
