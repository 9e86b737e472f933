package pixlab

import (
	"image"
	"testing"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want []image.Point
	}{
		{"single point", image.Pt(3, 3), image.Pt(3, 3), []image.Point{{3, 3}}},
		{"vertical", image.Pt(2, 2), image.Pt(2, 5), []image.Point{{2, 2}, {2, 3}, {2, 4}, {2, 5}}},
		{"horizontal reversed", image.Pt(3, 0), image.Pt(0, 0), []image.Point{{3, 0}, {2, 0}, {1, 0}, {0, 0}}},
		{"diagonal", image.Pt(0, 0), image.Pt(3, 3), []image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"shallow", image.Pt(0, 0), image.Pt(4, 2), []image.Point{{0, 0}, {1, 1}, {2, 1}, {3, 2}, {4, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(tt.a, tt.b)
			if len(got) != len(tt.want) {
				t.Fatalf("Line = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Line = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestLineIsConnected(t *testing.T) {
	ends := []image.Point{{17, 3}, {-5, 9}, {2, -13}, {-8, -8}, {0, 11}}
	for _, b := range ends {
		pts := Line(image.Pt(0, 0), b)
		if pts[0] != image.Pt(0, 0) || pts[len(pts)-1] != b {
			t.Errorf("Line to %v has ends %v, %v", b, pts[0], pts[len(pts)-1])
		}
		for i := 1; i < len(pts); i++ {
			d := pts[i].Sub(pts[i-1])
			if abs(d.X) > 1 || abs(d.Y) > 1 || d == (image.Point{}) {
				t.Errorf("Line to %v: gap between %v and %v", b, pts[i-1], pts[i])
			}
		}
	}
}

func TestRectOutline(t *testing.T) {
	pts := RectOutline(image.Pt(4, 3), image.Pt(1, 1))
	// 4x3 rectangle: 2*4 + 2*3 - 4 border pixels.
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10: %v", len(pts), pts)
	}
	seen := map[image.Point]bool{}
	for _, p := range pts {
		if seen[p] {
			t.Errorf("duplicate %v", p)
		}
		seen[p] = true
		onEdge := p.X == 1 || p.X == 4 || p.Y == 1 || p.Y == 3
		if !onEdge || p.X < 1 || p.X > 4 || p.Y < 1 || p.Y > 3 {
			t.Errorf("%v is not on the border", p)
		}
	}
	if seen[image.Pt(2, 2)] {
		t.Error("interior pixel included")
	}
}

func TestRectOutlineThin(t *testing.T) {
	if got := len(RectOutline(image.Pt(0, 0), image.Pt(5, 1))); got != 12 {
		t.Errorf("2-row outline len = %d, want 12", got)
	}
	if got := len(RectOutline(image.Pt(2, 0), image.Pt(2, 4))); got != 5 {
		t.Errorf("1-column outline len = %d, want 5", got)
	}
}

func TestRectFilled(t *testing.T) {
	pts := RectFilled(image.Pt(2, 2), image.Pt(0, 1))
	if len(pts) != 6 {
		t.Fatalf("len = %d, want 6", len(pts))
	}
	if pts[0] != image.Pt(0, 1) || pts[5] != image.Pt(2, 2) {
		t.Errorf("order = %v", pts)
	}
}

func TestFloodFill(t *testing.T) {
	// 5x5 with a vertical red wall at x=2 splitting the canvas.
	b := mustBuffer(t, 5, 5)
	for y := 0; y < 5; y++ {
		b.set(2, y, red)
	}
	pts := FloodFill(b, image.Pt(0, 0), image.Rectangle{})
	if len(pts) != 10 {
		t.Fatalf("filled %d pixels, want 10", len(pts))
	}
	for _, p := range pts {
		if p.X >= 2 {
			t.Errorf("fill leaked to %v", p)
		}
	}

	wall := FloodFill(b, image.Pt(2, 4), image.Rectangle{})
	if len(wall) != 5 {
		t.Errorf("wall fill = %d pixels, want 5", len(wall))
	}
}

func TestFloodFillIsFourConnected(t *testing.T) {
	// Diagonal touch only: (0,0) and (1,1) transparent, the others red.
	b := mustBuffer(t, 2, 2)
	b.set(1, 0, red)
	b.set(0, 1, red)
	if pts := FloodFill(b, image.Pt(0, 0), image.Rectangle{}); len(pts) != 1 {
		t.Errorf("filled %v, want only the start pixel", pts)
	}
}

func TestFloodFillClip(t *testing.T) {
	b := mustBuffer(t, 8, 8)
	clip := image.Rect(2, 2, 5, 4)
	pts := FloodFill(b, image.Pt(3, 3), clip)
	if len(pts) != 6 {
		t.Fatalf("filled %d, want 6", len(pts))
	}
	for _, p := range pts {
		if !p.In(clip) {
			t.Errorf("%v outside clip", p)
		}
	}
	if pts := FloodFill(b, image.Pt(0, 0), clip); pts != nil {
		t.Errorf("start outside clip filled %d pixels", len(pts))
	}
	if pts := FloodFill(b, image.Pt(-1, 0), image.Rectangle{}); pts != nil {
		t.Error("start outside buffer should return nil")
	}
}

func TestFloodFillUniqueLargeRegion(t *testing.T) {
	b := mustBuffer(t, 64, 64)
	// A spiral-ish obstacle to exercise span seeding.
	for x := 0; x < 60; x++ {
		b.set(x, 10, red)
		b.set(63-x, 20, red)
	}
	pts := FloodFill(b, image.Pt(0, 0), image.Rectangle{})
	seen := make(map[image.Point]bool, len(pts))
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("duplicate %v", p)
		}
		seen[p] = true
	}
	if want := 64*64 - 120; len(pts) != want {
		t.Errorf("filled %d, want %d", len(pts), want)
	}
}
