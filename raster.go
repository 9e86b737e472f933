package pixlab

import "image"

// Line returns the pixels of the segment from a to b, both ends included,
// using Bresenham's algorithm. Consecutive points are 8-connected, so a
// fast pointer movement still produces a gap-free stroke.
func Line(a, b image.Point) []image.Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	pts := make([]image.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	x, y := a.X, a.Y
	for {
		pts = append(pts, image.Pt(x, y))
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// spanRect returns the rectangle whose opposite corner pixels are a and b,
// both included.
func spanRect(a, b image.Point) image.Rectangle {
	r := image.Rectangle{Min: a, Max: b}.Canon()
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}

// RectOutline returns the border pixels of the rectangle spanned by the
// corner pixels a and b. Each pixel appears once.
func RectOutline(a, b image.Point) []image.Point {
	r := spanRect(a, b)
	if r.Dx() <= 2 || r.Dy() <= 2 {
		return RectFilled(a, b)
	}
	pts := make([]image.Point, 0, 2*(r.Dx()+r.Dy()))
	for x := r.Min.X; x < r.Max.X; x++ {
		pts = append(pts, image.Pt(x, r.Min.Y))
	}
	for y := r.Min.Y + 1; y < r.Max.Y; y++ {
		pts = append(pts, image.Pt(r.Max.X-1, y))
	}
	for x := r.Max.X - 2; x >= r.Min.X; x-- {
		pts = append(pts, image.Pt(x, r.Max.Y-1))
	}
	for y := r.Max.Y - 2; y > r.Min.Y; y-- {
		pts = append(pts, image.Pt(r.Min.X, y))
	}
	return pts
}

// RectFilled returns every pixel of the rectangle spanned by the corner
// pixels a and b, row by row.
func RectFilled(a, b image.Point) []image.Point {
	r := spanRect(a, b)
	pts := make([]image.Point, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

// FloodFill returns the 4-connected region of pixels in buf that have the
// same color as the pixel at start, in scanline order of discovery.
// It returns nil when start is outside buf. If clip is not empty the region
// is limited to it.
func FloodFill(buf *PixelBuffer, start image.Point, clip image.Rectangle) []image.Point {
	bounds := buf.Bounds()
	if !clip.Empty() {
		bounds = bounds.Intersect(clip)
	}
	if !start.In(bounds) {
		return nil
	}
	target := buf.at(start.X, start.Y)
	w := bounds.Dx()
	visited := make([]bool, w*bounds.Dy())
	seen := func(x, y int) bool {
		return visited[(y-bounds.Min.Y)*w+(x-bounds.Min.X)]
	}
	match := func(x, y int) bool {
		return !seen(x, y) && buf.at(x, y) == target
	}

	var pts []image.Point
	stack := []image.Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !match(p.X, p.Y) {
			continue
		}
		// Extend the span left and right from p.
		x0 := p.X
		for x0 > bounds.Min.X && match(x0-1, p.Y) {
			x0--
		}
		x1 := p.X
		for x1 < bounds.Max.X-1 && match(x1+1, p.Y) {
			x1++
		}
		for x := x0; x <= x1; x++ {
			visited[(p.Y-bounds.Min.Y)*w+(x-bounds.Min.X)] = true
			pts = append(pts, image.Pt(x, p.Y))
		}
		// Seed the rows above and below once per run of matching pixels.
		for _, ny := range [2]int{p.Y - 1, p.Y + 1} {
			if ny < bounds.Min.Y || ny >= bounds.Max.Y {
				continue
			}
			inRun := false
			for x := x0; x <= x1; x++ {
				if match(x, ny) {
					if !inRun {
						stack = append(stack, image.Pt(x, ny))
						inRun = true
					}
				} else {
					inRun = false
				}
			}
		}
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
