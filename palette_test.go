package pixlab

import (
	"encoding/json"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff0000", Color{255, 0, 0, 255}},
		{"00ff00", Color{0, 255, 0, 255}},
		{"#0000FF80", Color{0, 0, 255, 128}},
		{"  #123456  ", Color{0x12, 0x34, 0x56, 255}},
		{"#00000000", Transparent},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexColorErrors(t *testing.T) {
	for _, in := range []string{"", "#fff", "#12345", "#gg0000", "#1234567", "red"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", in)
		}
	}
}

func TestColorHex(t *testing.T) {
	if got := (Color{255, 16, 0, 255}).Hex(); got != "#ff1000" {
		t.Errorf("Hex = %q", got)
	}
	if got := (Color{1, 2, 3, 4}).Hex(); got != "#01020304" {
		t.Errorf("Hex = %q", got)
	}
	for _, c := range DefaultPalette.Colors {
		back, err := ParseHexColor(c.Hex())
		if err != nil || back != c {
			t.Errorf("round trip %v: %v, %v", c, back, err)
		}
	}
}

func TestLoadPaletteObject(t *testing.T) {
	p, err := LoadPalette([]byte(`{"name": "gb", "colors": ["#0f380f", "#306230", "#8bac0f", "#9bbc0f"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "gb" || len(p.Colors) != 4 {
		t.Fatalf("palette = %+v", p)
	}
	if p.Colors[0] != (Color{0x0f, 0x38, 0x0f, 255}) {
		t.Errorf("color 0 = %v", p.Colors[0])
	}
	if p.Index(Color{0x9b, 0xbc, 0x0f, 255}) != 3 {
		t.Error("Index of last color should be 3")
	}
	if p.Index(White) != -1 {
		t.Error("Index of missing color should be -1")
	}
}

func TestLoadPaletteArray(t *testing.T) {
	p, err := LoadPalette([]byte(`["#000000", "#ffffff80"]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Colors) != 2 || p.Colors[1] != (Color{255, 255, 255, 128}) {
		t.Errorf("palette = %+v", p)
	}
}

func TestLoadPaletteErrors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"name": "x"}`,
		`["#000000", "nope"]`,
		`42`,
	} {
		if _, err := LoadPalette([]byte(in)); err == nil {
			t.Errorf("LoadPalette(%s) should fail", in)
		}
	}
}

func TestPaletteMarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(DefaultPalette)
	if err != nil {
		t.Fatal(err)
	}
	p, err := LoadPalette(data)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != DefaultPalette.Name || len(p.Colors) != len(DefaultPalette.Colors) {
		t.Fatalf("got %+v", p)
	}
	for i := range p.Colors {
		if p.Colors[i] != DefaultPalette.Colors[i] {
			t.Errorf("color %d = %v, want %v", i, p.Colors[i], DefaultPalette.Colors[i])
		}
	}
}
