package pixlab

import "image"

// editSet accumulates pixel edits for one gesture. Each coordinate is kept
// once, in first-touch order, with the old color seen first and the new
// color written last.
type editSet struct {
	index map[image.Point]int
	edits []PixelEdit
}

func (s *editSet) add(p image.Point, before, after Color) {
	if s.index == nil {
		s.index = make(map[image.Point]int)
	}
	if i, ok := s.index[p]; ok {
		s.edits[i].New = after
		return
	}
	s.index[p] = len(s.edits)
	s.edits = append(s.edits, PixelEdit{Pos: p, Old: before, New: after})
}

func (s *editSet) has(p image.Point) bool {
	_, ok := s.index[p]
	return ok
}

func (s *editSet) len() int { return len(s.edits) }

// net returns the edits whose old and new colors differ.
func (s *editSet) net() []PixelEdit {
	out := make([]PixelEdit, 0, len(s.edits))
	for _, e := range s.edits {
		if e.Old != e.New {
			out = append(out, e)
		}
	}
	return out
}

func (s *editSet) reset() {
	clear(s.index)
	s.edits = s.edits[:0]
}
