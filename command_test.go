package pixlab

import (
	"errors"
	"image"
	"testing"
)

// testDocument returns a 6x5 document with three distinct layers, the middle
// one active.
func testDocument(t testing.TB) *Document {
	t.Helper()
	top := solidLayer(t, "top", 6, 5, Transparent)
	top.Buffer().set(1, 1, red)
	top.Buffer().set(4, 3, green)
	mid := solidLayer(t, "mid", 6, 5, Color{10, 20, 30, 128})
	bottom := solidLayer(t, "bottom", 6, 5, White)
	bottom.SetProps(LayerProps{Name: "bottom", Visible: true, Opacity: 0.75, BlendMode: BlendMultiply})
	d, err := NewDocumentFromLayers(6, 5, top, mid, bottom)
	if err != nil {
		t.Fatal(err)
	}
	d.active = 1
	return d
}

func TestCommandRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(t *testing.T) Command
	}{
		{"set pixels", func(t *testing.T) Command {
			return NewSetPixels(0, []PixelEdit{
				{Pos: image.Pt(0, 0), Old: Transparent, New: blue},
				{Pos: image.Pt(1, 1), Old: red, New: blue},
			})
		}},
		{"add layer at top", func(t *testing.T) Command {
			return NewAddLayer(0, solidLayer(t, "new", 6, 5, green))
		}},
		{"add layer at bottom", func(t *testing.T) Command {
			return NewAddLayer(3, solidLayer(t, "new", 6, 5, green))
		}},
		{"remove top layer", func(t *testing.T) Command { return NewRemoveLayer(0) }},
		{"remove active layer", func(t *testing.T) Command { return NewRemoveLayer(1) }},
		{"remove bottom layer", func(t *testing.T) Command { return NewRemoveLayer(2) }},
		{"reorder down", func(t *testing.T) Command { return NewReorderLayer(0, 2) }},
		{"reorder up", func(t *testing.T) Command { return NewReorderLayer(2, 0) }},
		{"change props", func(t *testing.T) Command {
			return NewChangeLayerProps(1, LayerProps{Name: "renamed", Opacity: 0.2, BlendMode: BlendScreen, Locked: true})
		}},
		{"resize grow", func(t *testing.T) Command { return NewResizeCanvas(9, 7, AnchorCenter) }},
		{"resize shrink", func(t *testing.T) Command { return NewResizeCanvas(2, 2, AnchorBottomRight) }},
		{"batch", func(t *testing.T) Command {
			return NewBatch("Batch",
				NewSetPixels(2, []PixelEdit{{Pos: image.Pt(5, 4), Old: White, New: red}}),
				NewReorderLayer(2, 0),
				NewRemoveLayer(1),
			)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDocument(t)
			before := d.Clone()
			activeBefore := d.ActiveLayer()
			log := NewCommandLog(d)

			if err := log.Apply(tt.cmd(t)); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if d.Equal(before) {
				t.Fatal("Apply did not change the document")
			}
			after := d.Clone()
			activeAfter := d.ActiveLayer()

			if err := log.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if !d.Equal(before) {
				t.Error("Undo did not restore the document")
			}
			if d.ActiveLayer() != activeBefore {
				t.Errorf("active after undo = %d, want %d", d.ActiveLayer(), activeBefore)
			}

			if err := log.Redo(); err != nil {
				t.Fatalf("Redo: %v", err)
			}
			if !d.Equal(after) {
				t.Error("Redo did not restore the post-apply state")
			}
			if d.ActiveLayer() != activeAfter {
				t.Errorf("active after redo = %d, want %d", d.ActiveLayer(), activeAfter)
			}
		})
	}
}

func TestSetPixelsCoalesces(t *testing.T) {
	cmd := NewSetPixels(0, []PixelEdit{
		{Pos: image.Pt(1, 1), Old: Transparent, New: red},
		{Pos: image.Pt(1, 1), Old: red, New: green},
		{Pos: image.Pt(2, 2), Old: Transparent, New: red},
		{Pos: image.Pt(2, 2), Old: red, New: Transparent},
	})
	edits := cmd.Edits()
	if len(edits) != 1 {
		t.Fatalf("edits = %+v, want one", edits)
	}
	if e := edits[0]; e.Pos != image.Pt(1, 1) || e.Old != Transparent || e.New != green {
		t.Errorf("edit = %+v", e)
	}
	if cmd.Name() != "Set Pixels" || cmd.Layer() != 0 || cmd.Len() != 1 {
		t.Errorf("name=%q layer=%d len=%d", cmd.Name(), cmd.Layer(), cmd.Len())
	}
}

func TestSetPixelsAllOrNothing(t *testing.T) {
	d := testDocument(t)
	before := d.Clone()
	log := NewCommandLog(d)
	err := log.Apply(NewSetPixels(0, []PixelEdit{
		{Pos: image.Pt(0, 0), Old: Transparent, New: blue},
		{Pos: image.Pt(6, 0), Old: Transparent, New: blue},
	}))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("error = %v, want ErrOutOfBounds", err)
	}
	if !d.Equal(before) {
		t.Error("failed command modified the document")
	}
	if log.CanUndo() {
		t.Error("failed command was recorded")
	}
}

func TestStructuralCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"add past end", NewAddLayer(4, mustLayer(t, 6, 5)), ErrInvalidLayerIndex},
		{"add negative", NewAddLayer(-1, mustLayer(t, 6, 5)), ErrInvalidLayerIndex},
		{"add wrong size", NewAddLayer(0, mustLayer(t, 5, 5)), ErrDimensionMismatch},
		{"remove missing", NewRemoveLayer(3), ErrInvalidLayerIndex},
		{"reorder from missing", NewReorderLayer(7, 0), ErrInvalidLayerIndex},
		{"reorder to missing", NewReorderLayer(0, -1), ErrInvalidLayerIndex},
		{"props missing", NewChangeLayerProps(9, DefaultLayerProps("x")), ErrInvalidLayerIndex},
		{"set pixels missing layer", NewSetPixels(5, []PixelEdit{{New: red}}), ErrInvalidLayerIndex},
		{"resize invalid", NewResizeCanvas(0, 3, AnchorTopLeft), ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDocument(t)
			before := d.Clone()
			log := NewCommandLog(d)
			if err := log.Apply(tt.cmd); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if !d.Equal(before) || log.UndoLen() != 0 {
				t.Error("failed command changed state")
			}
		})
	}
}

func mustLayer(t testing.TB, w, h int) *Layer {
	t.Helper()
	l, err := NewLayer("l", w, h)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRemoveOnlyLayer(t *testing.T) {
	d := mustDocument(t, 3, 3)
	log := NewCommandLog(d)
	if err := log.Apply(NewRemoveLayer(0)); !errors.Is(err, ErrInvalidLayerIndex) {
		t.Errorf("error = %v, want ErrInvalidLayerIndex", err)
	}
	if d.LayerCount() != 1 {
		t.Error("only layer was removed")
	}
}

func TestAddLayerActivatesNewLayer(t *testing.T) {
	d := testDocument(t)
	log := NewCommandLog(d)
	if err := log.Apply(NewAddLayer(2, mustLayer(t, 6, 5))); err != nil {
		t.Fatal(err)
	}
	if d.ActiveLayer() != 2 {
		t.Errorf("active = %d, want 2", d.ActiveLayer())
	}
	if err := log.Undo(); err != nil {
		t.Fatal(err)
	}
	if d.ActiveLayer() != 1 {
		t.Errorf("active after undo = %d, want 1", d.ActiveLayer())
	}
}

func TestAddLayerSnapshotIsolated(t *testing.T) {
	d := testDocument(t)
	log := NewCommandLog(d)
	l := mustLayer(t, 6, 5)
	if err := log.Apply(NewAddLayer(0, l)); err != nil {
		t.Fatal(err)
	}
	l.Buffer().Fill(red)
	if c, _ := d.layers[0].buf.Get(0, 0); c != Transparent {
		t.Error("caller's layer aliases the document")
	}
}

func TestReorderActiveFollowsLayer(t *testing.T) {
	d := testDocument(t) // active = 1 ("mid")
	log := NewCommandLog(d)
	if err := log.Apply(NewReorderLayer(1, 2)); err != nil {
		t.Fatal(err)
	}
	if d.ActiveLayer() != 2 || d.layers[2].props.Name != "mid" {
		t.Errorf("active = %d (%q), want mid at 2", d.ActiveLayer(), d.layers[d.ActiveLayer()].props.Name)
	}
	if err := log.Apply(NewReorderLayer(0, 2)); err != nil {
		t.Fatal(err)
	}
	if name := d.layers[d.ActiveLayer()].props.Name; name != "mid" {
		t.Errorf("active layer = %q, want mid", name)
	}
}

func TestNoopCommandsNotRecorded(t *testing.T) {
	d := testDocument(t)
	log := NewCommandLog(d)
	cmds := []Command{
		NewSetPixels(0, nil),
		NewSetPixels(0, []PixelEdit{{Pos: image.Pt(1, 1), Old: red, New: red}}),
		NewReorderLayer(1, 1),
		NewChangeLayerProps(0, d.layers[0].props),
		NewResizeCanvas(6, 5, AnchorCenter),
		NewBatch("empty"),
	}
	for _, c := range cmds {
		if err := log.Apply(c); err != nil {
			t.Errorf("%s: %v", c.Name(), err)
		}
	}
	if log.UndoLen() != 0 {
		t.Errorf("UndoLen = %d, want 0", log.UndoLen())
	}
}

func TestChangeLayerPropsClampsOpacity(t *testing.T) {
	d := testDocument(t)
	log := NewCommandLog(d)
	cmd := NewChangeLayerProps(0, LayerProps{Name: "top", Visible: true, Opacity: 3})
	if err := log.Apply(cmd); err != nil {
		t.Fatal(err)
	}
	if d.layers[0].props.Opacity != 1 {
		t.Errorf("opacity = %v, want 1", d.layers[0].props.Opacity)
	}
	if cmd.Old().Name != "top" || cmd.New().Opacity != 1 {
		t.Errorf("old=%+v new=%+v", cmd.Old(), cmd.New())
	}
}

func TestResizeCanvasUndoMismatch(t *testing.T) {
	d := testDocument(t)
	log := NewCommandLog(d)
	if err := log.Apply(NewResizeCanvas(8, 8, AnchorTopLeft)); err != nil {
		t.Fatal(err)
	}
	// Corrupt the document behind the log's back.
	d.width = 3
	if err := log.Undo(); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
	if log.UndoLen() != 1 || log.RedoLen() != 0 {
		t.Errorf("stacks changed: undo=%d redo=%d", log.UndoLen(), log.RedoLen())
	}
}

func TestBatchRollsBackOnFailure(t *testing.T) {
	d := testDocument(t)
	before := d.Clone()
	log := NewCommandLog(d)
	err := log.Apply(NewBatch("bad",
		NewSetPixels(0, []PixelEdit{{Pos: image.Pt(0, 0), Old: Transparent, New: red}}),
		NewRemoveLayer(0),
		NewRemoveLayer(9),
	))
	if !errors.Is(err, ErrInvalidLayerIndex) {
		t.Fatalf("error = %v", err)
	}
	if !d.Equal(before) {
		t.Error("batch failure left partial changes")
	}
	if log.CanUndo() {
		t.Error("failed batch was recorded")
	}
}

func TestCommandDamage(t *testing.T) {
	d := testDocument(t)
	cmd := NewSetPixels(0, []PixelEdit{
		{Pos: image.Pt(1, 1), Old: red, New: blue},
		{Pos: image.Pt(3, 4), Old: Transparent, New: blue},
	})
	if got, want := cmd.damage(d), image.Rect(1, 1, 4, 5); got != want {
		t.Errorf("SetPixels damage = %v, want %v", got, want)
	}
	if got := NewRemoveLayer(0).damage(d); got != d.Bounds() {
		t.Errorf("RemoveLayer damage = %v", got)
	}
}
