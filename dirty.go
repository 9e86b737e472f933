package pixlab

import "image"

// damageTracker accumulates the bounding box of canvas areas changed since
// the last composite.
type damageTracker struct {
	rect image.Rectangle
	full bool
}

// add extends the damaged area by r. Empty rectangles are ignored.
func (t *damageTracker) add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	t.rect = t.rect.Union(r)
}

// markAll forces the next take to report the whole canvas.
func (t *damageTracker) markAll() {
	t.full = true
}

// take returns the damaged area clipped to bounds and resets the tracker.
// The second result is true when the whole canvas must be recomposed.
func (t *damageTracker) take(bounds image.Rectangle) (image.Rectangle, bool) {
	r, full := t.rect.Intersect(bounds), t.full
	t.rect, t.full = image.Rectangle{}, false
	if full {
		return bounds, true
	}
	return r, false
}
