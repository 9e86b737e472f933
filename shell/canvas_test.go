package shell

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestPremultiplyRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 255, G: 100, B: 10, A: 128})
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 200, B: 200, A: 0})

	got := premultiplyRect(nil, img, image.Rect(1, 0, 3, 2))
	want := []byte{
		255, 128, 0, 255, 128, 50, 5, 128,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("premultiplyRect = %v, want %v", got, want)
	}

	// Appends to the buffer it is given.
	buf := premultiplyRect([]byte{9}, img, image.Rect(0, 0, 1, 1))
	if !bytes.Equal(buf, []byte{9, 0, 0, 0, 0}) {
		t.Errorf("append form = %v", buf)
	}
}

func TestUnpremultiply(t *testing.T) {
	pix := []byte{
		128, 50, 5, 128, // half alpha
		10, 20, 30, 255, // opaque: unchanged
		0, 0, 0, 0, // transparent: unchanged
		200, 10, 0, 100, // over-saturated input is clamped
	}
	got := unpremultiply(pix)
	want := []byte{
		255, 99, 9, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
		255, 25, 0, 100,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("unpremultiply = %v, want %v", got, want)
	}
}

func TestCheckerImage(t *testing.T) {
	img := checkerImage(10, 9)
	if img.Rect != image.Rect(0, 0, 10, 9) {
		t.Fatalf("bounds = %v", img.Rect)
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, checkerLight},
		{3, 3, checkerLight},
		{4, 0, checkerDark},
		{0, 4, checkerDark},
		{4, 4, checkerLight},
		{9, 8, checkerLight},
		{9, 4, checkerDark},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"after undo", "after_undo"},
		{"v1.2-final", "v1.2-final"},
		{"a/b\\c:d", "a_b_c_d"},
		{"héllo", "h_llo"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if clampInt(-3, 0, 10) != 0 || clampInt(15, 0, 10) != 10 || clampInt(4, 0, 10) != 4 {
		t.Error("clampInt out of range")
	}
}
