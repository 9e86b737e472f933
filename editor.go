package pixlab

import (
	"fmt"
	"image"
)

// EventSink is the interface for optional observers of document changes,
// such as an ECS bridge or a UI that updates its layer panel. When set on an
// Editor, every history change is forwarded as an EditEvent.
type EventSink interface {
	EmitEvent(event EditEvent)
}

// EditEventType identifies the kind of EditEvent.
type EditEventType uint8

const (
	EventApplied  EditEventType = iota // a new command was applied
	EventUndone                        // a command was reverted
	EventRedone                        // a command was re-applied
	EventCleared                       // history was cleared
	EventReplaced                      // the whole document was replaced
)

var editEventNames = [...]string{"applied", "undone", "redone", "cleared", "replaced"}

// String returns the event name.
func (t EditEventType) String() string {
	if int(t) < len(editEventNames) {
		return editEventNames[t]
	}
	return fmt.Sprintf("EditEventType(%d)", uint8(t))
}

// EditEvent describes one change to the edited document.
type EditEvent struct {
	Type    EditEventType
	Command string          // command name; empty for cleared and replaced
	Region  image.Rectangle // canvas area affected
	UndoLen int
	RedoLen int
	Layers  int // layer count after the change
	Active  int // active layer after the change
}

// EditorConfig holds the engine settings of an Editor. The zero value is
// usable apart from the canvas size.
type EditorConfig struct {
	// Width and Height are the canvas size of the initial document.
	Width, Height int

	// HistoryLimit caps the undo stack; 0 means unlimited.
	HistoryLimit int

	// Workers is the compositor parallelism; 0 means GOMAXPROCS.
	Workers int

	// Debug enables per-operation stats on stderr and invariant checks.
	Debug bool
}

// Editor ties a Document to its CommandLog, ToolEngine and Compositor. It is
// the surface a UI shell talks to: pointer events, undo and redo, layer
// management and the composited image for display.
//
// An Editor is owned by a single goroutine, normally the shell's update
// loop. Only the compositor uses extra goroutines, internally.
type Editor struct {
	doc   *Document
	log   *CommandLog
	tools *ToolEngine
	comp  *Compositor
	sink  EventSink
	debug bool
	limit int

	layerSeq int
}

// NewEditor creates an editor with a new single-layer document.
func NewEditor(cfg EditorConfig) (*Editor, error) {
	doc, err := NewDocument(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("new editor: %w", err)
	}
	return NewEditorForDocument(doc, cfg), nil
}

// NewEditorForDocument creates an editor for an existing document. The
// editor takes ownership of doc. cfg.Width and cfg.Height are ignored.
func NewEditorForDocument(doc *Document, cfg EditorConfig) *Editor {
	e := &Editor{
		comp:  NewCompositor(cfg.Workers),
		debug: cfg.Debug,
		limit: cfg.HistoryLimit,
	}
	e.attach(doc)
	Logger().Info("editor created", "width", doc.width, "height", doc.height,
		"layers", len(doc.layers), "history_limit", cfg.HistoryLimit)
	return e
}

// attach makes doc the edited document with a fresh history.
func (e *Editor) attach(doc *Document) {
	e.doc = doc
	e.log = NewCommandLog(doc)
	e.log.SetLimit(e.limit)
	e.log.onChange = e.historyChanged
	opts := ToolOptions{Color: Black}
	tool := ToolPencil
	if e.tools != nil {
		e.tools.Cancel()
		opts, tool = e.tools.Options(), e.tools.Tool()
	}
	e.tools = NewToolEngine(e.log)
	e.tools.opts = opts
	e.tools.tool = tool
	e.layerSeq = len(doc.layers)
}

// Document returns a read-only view of the edited document.
func (e *Editor) Document() DocumentView { return e.doc.View() }

// History returns the command log.
func (e *Editor) History() *CommandLog { return e.log }

// Tools returns the tool engine.
func (e *Editor) Tools() *ToolEngine { return e.tools }

// Compositor returns the compositor used for display.
func (e *Editor) Compositor() *Compositor { return e.comp }

// SetEventSink sets the observer notified of document changes. nil removes it.
func (e *Editor) SetEventSink(s EventSink) { e.sink = s }

// SetDebugMode enables or disables debug mode. When enabled, composite and
// history stats are printed to stderr and document invariants are checked
// after every change.
func (e *Editor) SetDebugMode(enabled bool) { e.debug = enabled }

// ReplaceDocument swaps in a new document, e.g. after opening a file. The
// undo history is discarded and any gesture is cancelled.
func (e *Editor) ReplaceDocument(doc *Document) {
	e.attach(doc)
	e.comp = NewCompositor(e.comp.workers)
	Logger().Info("document replaced", "width", doc.width, "height", doc.height, "layers", len(doc.layers))
	e.emit(EditEvent{Type: EventReplaced, Region: doc.Bounds()})
}

// --- Pointer input (delegated to the ToolEngine) ---

// PointerDown starts a gesture with tool at pos, in canvas coordinates.
func (e *Editor) PointerDown(pos image.Point, tool ToolID) error {
	return e.tools.PointerDown(pos, tool)
}

// PointerMove updates the running gesture.
func (e *Editor) PointerMove(pos image.Point) error { return e.tools.PointerMove(pos) }

// PointerUp finishes the running gesture and records its command.
func (e *Editor) PointerUp(pos image.Point) error { return e.tools.PointerUp(pos) }

// Cancel abandons the running gesture.
func (e *Editor) Cancel() { e.tools.Cancel() }

// SelectTool switches the current tool.
func (e *Editor) SelectTool(id ToolID) error { return e.tools.SelectTool(id) }

// --- History ---

// Apply cancels any gesture and applies cmd through the command log.
func (e *Editor) Apply(cmd Command) error {
	e.tools.Cancel()
	return e.log.Apply(cmd)
}

// Undo cancels any gesture and reverts the last command.
func (e *Editor) Undo() error {
	e.tools.Cancel()
	return e.log.Undo()
}

// Redo cancels any gesture and re-applies the last undone command.
func (e *Editor) Redo() error {
	e.tools.Cancel()
	return e.log.Redo()
}

// CanUndo reports whether Undo would do something.
func (e *Editor) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether Redo would do something.
func (e *Editor) CanRedo() bool { return e.log.CanRedo() }

// ClearHistory empties the undo and redo stacks.
func (e *Editor) ClearHistory() { e.log.Clear() }

// --- Layer management ---

// AddLayer inserts a new transparent layer at index (0 = top) and makes it
// active. An empty name gets a generated "Layer N" name.
func (e *Editor) AddLayer(index int, name string) error {
	if name == "" {
		name = fmt.Sprintf("Layer %d", e.layerSeq+1)
	}
	l, err := NewLayer(name, e.doc.width, e.doc.height)
	if err != nil {
		return err
	}
	if err := e.Apply(NewAddLayer(index, l)); err != nil {
		return err
	}
	e.layerSeq++
	return nil
}

// InsertLayer inserts a copy of l at index, e.g. an imported image.
func (e *Editor) InsertLayer(index int, l *Layer) error {
	return e.Apply(NewAddLayer(index, l))
}

// RemoveLayer deletes the layer at index. The only layer cannot be removed.
func (e *Editor) RemoveLayer(index int) error {
	return e.Apply(NewRemoveLayer(index))
}

// ReorderLayer moves a layer from one index to another.
func (e *Editor) ReorderLayer(from, to int) error {
	return e.Apply(NewReorderLayer(from, to))
}

// DuplicateLayer inserts a copy of layer index directly above it and makes
// the copy active.
func (e *Editor) DuplicateLayer(index int) error {
	if err := e.doc.checkIndex(index); err != nil {
		return fmt.Errorf("duplicate layer: %w", err)
	}
	c := e.doc.layers[index].Clone()
	c.props.Name += " copy"
	return e.Apply(NewAddLayer(index, c))
}

// MergeDown composites layer index onto the layer below it and removes it,
// as a single undo step. The lower layer keeps its properties.
func (e *Editor) MergeDown(index int) error {
	if err := e.doc.checkIndex(index); err != nil {
		return fmt.Errorf("merge down: %w", err)
	}
	if index+1 >= len(e.doc.layers) {
		return fmt.Errorf("merge down: %w: layer %d has no layer below", ErrInvalidLayerIndex, index)
	}
	upper, lower := e.doc.layers[index], e.doc.layers[index+1]

	// A hidden upper layer still merges; its opacity and blend mode apply.
	top := &Layer{props: upper.props, buf: upper.buf}
	top.props.Visible = true
	base := &Layer{props: DefaultLayerProps(lower.props.Name), buf: lower.buf}
	pair := &Document{width: e.doc.width, height: e.doc.height, layers: []*Layer{top, base}}
	merged := Composite(pair.View())

	set := diffImage(lower.buf, merged, index+1)
	set.label = "Merge Pixels"
	return e.Apply(NewBatch("Merge Down", set, NewRemoveLayer(index)))
}

// UpdateLayerProps replaces the properties of layer index.
func (e *Editor) UpdateLayerProps(index int, props LayerProps) error {
	return e.Apply(NewChangeLayerProps(index, props))
}

// SetActiveLayer selects the layer tools paint on. Not recorded in history.
func (e *Editor) SetActiveLayer(index int) error {
	e.tools.Cancel()
	return e.doc.SetActiveLayer(index)
}

// ResizeCanvas resizes every layer to width x height, keeping content fixed
// at anchor.
func (e *Editor) ResizeCanvas(width, height int, anchor Anchor) error {
	if err := e.Apply(NewResizeCanvas(width, height, anchor)); err != nil {
		return err
	}
	e.tools.SetSelection(e.tools.Selection())
	return nil
}

// TransformLayer flips or rotates layer index.
func (e *Editor) TransformLayer(index int, op LayerTransform) error {
	cmd, err := NewTransformLayer(e.doc.View(), index, op)
	if err != nil {
		return err
	}
	return e.Apply(cmd)
}

// ReplaceLayerPixels pastes img over the whole of layer index, placed at the
// canvas origin. Pixels img does not cover become transparent. One undo step.
func (e *Editor) ReplaceLayerPixels(index int, img image.Image) error {
	cmd, err := NewReplaceLayerPixels(e.doc.View(), index, img)
	if err != nil {
		return err
	}
	if l := e.doc.layers[index]; l.props.Locked {
		return fmt.Errorf("replace pixels on %q: %w", l.props.Name, ErrLayerLocked)
	}
	e.tools.Cancel()
	return e.Apply(cmd)
}

// --- Display ---

// CompositedImage returns the flattened document, recomposing only what
// changed since the previous call. The image is owned by the editor and is
// only valid until the next call.
func (e *Editor) CompositedImage() *image.NRGBA {
	r, full := e.log.TakeDamage()
	img := e.comp.Render(e.doc.View(), r, full)
	if e.debug {
		e.debugLog(e.comp.Stats())
	}
	return img
}

// PreviewOverlay returns the in-progress gesture's pixels, or nil.
func (e *Editor) PreviewOverlay() *Patch { return e.tools.Preview() }

// PreviewImage returns the composited document with the in-progress gesture
// drawn in, as the shell should display it while dragging.
func (e *Editor) PreviewImage() *image.NRGBA {
	e.CompositedImage()
	return e.comp.RenderPreview(e.doc.View(), e.tools.Preview())
}

// --- Events ---

func (e *Editor) historyChanged(action HistoryAction, cmd Command, r image.Rectangle) {
	if e.debug {
		debugCheckDocument(e.doc)
		debugCheckHistory(e.log)
	}
	ev := EditEvent{Region: r}
	switch action {
	case HistoryApply:
		ev.Type = EventApplied
	case HistoryUndo:
		ev.Type = EventUndone
	case HistoryRedo:
		ev.Type = EventRedone
	case HistoryClear:
		ev.Type = EventCleared
	}
	if cmd != nil {
		ev.Command = cmd.Name()
	}
	e.emit(ev)
}

func (e *Editor) emit(ev EditEvent) {
	ev.UndoLen, ev.RedoLen = e.log.UndoLen(), e.log.RedoLen()
	ev.Layers, ev.Active = len(e.doc.layers), e.doc.ActiveLayer()
	if e.sink != nil {
		e.sink.EmitEvent(ev)
	}
}
