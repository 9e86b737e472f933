package pixlab

import (
	"errors"
	"image"
	"testing"
)

func paint(p image.Point, old, c Color) Command {
	return NewSetPixels(0, []PixelEdit{{Pos: p, Old: old, New: c}})
}

func TestCommandLogEmpty(t *testing.T) {
	log := NewCommandLog(mustDocument(t, 4, 4))
	if log.CanUndo() || log.CanRedo() {
		t.Error("new log should have nothing to undo or redo")
	}
	if err := log.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Undo error = %v, want ErrEmptyHistory", err)
	}
	if err := log.Redo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Redo error = %v, want ErrEmptyHistory", err)
	}
	if _, ok := log.UndoName(); ok {
		t.Error("UndoName should report false")
	}
	if err := log.Apply(nil); err == nil {
		t.Error("Apply(nil) should fail")
	}
}

func TestCommandLogUndoRedo(t *testing.T) {
	d := mustDocument(t, 4, 4)
	log := NewCommandLog(d)
	if err := log.Apply(paint(image.Pt(0, 0), Transparent, red)); err != nil {
		t.Fatal(err)
	}
	if err := log.Apply(paint(image.Pt(0, 0), red, blue)); err != nil {
		t.Fatal(err)
	}
	if !log.CanUndo() || log.CanRedo() || log.UndoLen() != 2 {
		t.Fatalf("undo=%d redo=%d", log.UndoLen(), log.RedoLen())
	}
	if name, _ := log.UndoName(); name != "Set Pixels" {
		t.Errorf("UndoName = %q", name)
	}

	if err := log.Undo(); err != nil {
		t.Fatal(err)
	}
	if c := d.layers[0].buf.at(0, 0); c != red {
		t.Errorf("after one undo = %v, want red", c)
	}
	if err := log.Undo(); err != nil {
		t.Fatal(err)
	}
	if c := d.layers[0].buf.at(0, 0); c != Transparent {
		t.Errorf("after two undos = %v, want transparent", c)
	}
	if err := log.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("third undo error = %v", err)
	}
	if log.RedoLen() != 2 {
		t.Errorf("RedoLen = %d, want 2", log.RedoLen())
	}
	if err := log.Redo(); err != nil {
		t.Fatal(err)
	}
	if err := log.Redo(); err != nil {
		t.Fatal(err)
	}
	if c := d.layers[0].buf.at(0, 0); c != blue {
		t.Errorf("after redos = %v, want blue", c)
	}
}

func TestCommandLogDivergence(t *testing.T) {
	d := mustDocument(t, 4, 4)
	log := NewCommandLog(d)
	if err := log.Apply(paint(image.Pt(1, 1), Transparent, red)); err != nil {
		t.Fatal(err)
	}
	if err := log.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := log.Apply(paint(image.Pt(2, 2), Transparent, blue)); err != nil {
		t.Fatal(err)
	}
	if err := log.Redo(); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("Redo after divergence error = %v, want ErrEmptyHistory", err)
	}
	if c := d.layers[0].buf.at(1, 1); c != Transparent {
		t.Errorf("discarded command resurfaced: %v", c)
	}
}

func TestCommandLogLimit(t *testing.T) {
	d := mustDocument(t, 8, 1)
	log := NewCommandLog(d)
	log.SetLimit(3)
	for x := 0; x < 5; x++ {
		if err := log.Apply(paint(image.Pt(x, 0), Transparent, red)); err != nil {
			t.Fatal(err)
		}
	}
	if log.UndoLen() != 3 || log.Limit() != 3 {
		t.Fatalf("UndoLen = %d, Limit = %d", log.UndoLen(), log.Limit())
	}
	for log.CanUndo() {
		if err := log.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	// The two oldest strokes are no longer undoable.
	for x := 0; x < 5; x++ {
		want := Transparent
		if x < 2 {
			want = red
		}
		if c := d.layers[0].buf.at(x, 0); c != want {
			t.Errorf("pixel %d = %v, want %v", x, c, want)
		}
	}

	log.SetLimit(0)
	if log.Limit() != 0 {
		t.Error("SetLimit(0) should remove the cap")
	}
}

func TestCommandLogSetLimitTrimsExisting(t *testing.T) {
	log := NewCommandLog(mustDocument(t, 8, 1))
	for x := 0; x < 6; x++ {
		if err := log.Apply(paint(image.Pt(x, 0), Transparent, red)); err != nil {
			t.Fatal(err)
		}
	}
	log.SetLimit(2)
	if log.UndoLen() != 2 {
		t.Errorf("UndoLen = %d, want 2", log.UndoLen())
	}
	for i := 2; i < cap(log.undo); i++ {
		if log.undo[:cap(log.undo)][i] != nil {
			t.Errorf("trimmed slot %d still references a command", i)
		}
	}
}

func TestCommandLogClear(t *testing.T) {
	d := mustDocument(t, 4, 4)
	log := NewCommandLog(d)
	_ = log.Apply(paint(image.Pt(0, 0), Transparent, red))
	_ = log.Apply(paint(image.Pt(1, 0), Transparent, red))
	_ = log.Undo()
	var got []HistoryAction
	log.onChange = func(a HistoryAction, _ Command, _ image.Rectangle) { got = append(got, a) }
	log.Clear()
	if log.CanUndo() || log.CanRedo() {
		t.Error("Clear left entries")
	}
	if c := d.layers[0].buf.at(0, 0); c != red {
		t.Error("Clear changed the document")
	}
	if len(got) != 1 || got[0] != HistoryClear {
		t.Errorf("actions = %v", got)
	}
}

func TestCommandLogDamage(t *testing.T) {
	d := mustDocument(t, 10, 10)
	log := NewCommandLog(d)
	r, full := log.TakeDamage()
	if !full || r != d.Bounds() {
		t.Fatalf("first TakeDamage = %v, %v; want full canvas", r, full)
	}
	if r, full := log.TakeDamage(); full || !r.Empty() {
		t.Fatalf("second TakeDamage = %v, %v; want empty", r, full)
	}

	_ = log.Apply(paint(image.Pt(2, 3), Transparent, red))
	_ = log.Apply(paint(image.Pt(5, 1), Transparent, red))
	r, full = log.TakeDamage()
	if full || r != image.Rect(2, 1, 6, 4) {
		t.Errorf("TakeDamage = %v, %v; want (2,1)-(6,4)", r, full)
	}

	_ = log.Undo()
	if r, _ := log.TakeDamage(); r != image.Rect(5, 1, 6, 2) {
		t.Errorf("undo damage = %v", r)
	}

	log.MarkAllDamaged()
	if r, full := log.TakeDamage(); !full || r != d.Bounds() {
		t.Errorf("after MarkAllDamaged = %v, %v", r, full)
	}
}

func TestCommandLogOnChange(t *testing.T) {
	log := NewCommandLog(mustDocument(t, 4, 4))
	type call struct {
		action HistoryAction
		name   string
	}
	var calls []call
	log.onChange = func(a HistoryAction, c Command, _ image.Rectangle) {
		calls = append(calls, call{a, c.Name()})
	}
	_ = log.Apply(paint(image.Pt(0, 0), Transparent, red))
	_ = log.Undo()
	_ = log.Redo()
	want := []call{{HistoryApply, "Set Pixels"}, {HistoryUndo, "Set Pixels"}, {HistoryRedo, "Set Pixels"}}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestHistoryActionString(t *testing.T) {
	for a, want := range map[HistoryAction]string{
		HistoryApply: "apply", HistoryUndo: "undo", HistoryRedo: "redo", HistoryClear: "clear",
		HistoryAction(9): "HistoryAction(9)",
	} {
		if got := a.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", a, got, want)
		}
	}
}
