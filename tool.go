package pixlab

import (
	"fmt"
	"image"
	"strings"
)

// ToolID identifies a drawing tool. The set is fixed; behavior is selected
// with a switch on the ID rather than through an interface.
type ToolID uint8

const (
	ToolPencil    ToolID = iota // freehand stroke in the current color
	ToolEraser                  // freehand stroke writing transparent pixels
	ToolLine                    // straight line from the press point
	ToolRectangle               // rectangle spanned by the press point
	ToolFill                    // 4-connected flood fill, no drag phase
	ToolSelect                  // rectangular selection that clips drawing
	ToolPicker                  // eyedropper: samples the active layer
)

var toolNames = [...]string{
	ToolPencil:    "Pencil",
	ToolEraser:    "Eraser",
	ToolLine:      "Line",
	ToolRectangle: "Rectangle",
	ToolFill:      "Fill",
	ToolSelect:    "Select",
	ToolPicker:    "Picker",
}

// String returns the tool's display name.
func (t ToolID) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("ToolID(%d)", uint8(t))
}

// Valid reports whether t is a defined tool.
func (t ToolID) Valid() bool { return int(t) < len(toolNames) }

// ParseTool returns the tool with the given name, case-insensitively.
func ParseTool(name string) (ToolID, error) {
	for i, n := range toolNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return ToolID(i), nil
		}
	}
	return ToolPencil, fmt.Errorf("pixlab: unknown tool %q", name)
}

// ToolState is the state of the tool state machine.
type ToolState uint8

const (
	StateIdle     ToolState = iota // no gesture in progress
	StateDragging                  // between pointer down and pointer up
)

// ToolOptions are the user-adjustable settings shared by all tools.
type ToolOptions struct {
	Color      Color
	FillShapes bool // rectangles are filled instead of outlined
}

// gesture is the per-gesture ephemeral state. It only lives between a
// pointer down and the matching pointer up or cancel.
type gesture struct {
	tool   ToolID
	layer  int
	anchor image.Point
	last   image.Point
	edits  editSet         // pencil and eraser accumulator
	shape  []image.Point   // line and rectangle preview
	marq   image.Rectangle // selection preview
}

// ToolEngine turns pointer events in canvas coordinates into commands.
//
// The engine is Idle or Dragging. A pointer down starts a gesture, moves
// update it and pointer up submits at most one SetPixels command to the
// CommandLog, so a whole stroke is one undo step. Cancel drops the gesture
// without touching the log. Nothing is written to the document while
// dragging; the in-progress result is exposed through Preview.
type ToolEngine struct {
	log       *CommandLog
	tool      ToolID
	opts      ToolOptions
	state     ToolState
	g         gesture
	selection image.Rectangle
}

// NewToolEngine creates an idle engine with the pencil selected and black as
// the drawing color. Commands are submitted to log.
func NewToolEngine(log *CommandLog) *ToolEngine {
	return &ToolEngine{log: log, tool: ToolPencil, opts: ToolOptions{Color: Black}}
}

// Tool returns the selected tool.
func (t *ToolEngine) Tool() ToolID { return t.tool }

// State returns Idle or Dragging.
func (t *ToolEngine) State() ToolState { return t.state }

// Options returns the current tool options.
func (t *ToolEngine) Options() ToolOptions { return t.opts }

// SetOptions replaces the tool options. A running gesture keeps the options
// it started with for everything already accumulated.
func (t *ToolEngine) SetOptions(o ToolOptions) { t.opts = o }

// SetColor sets the drawing color.
func (t *ToolEngine) SetColor(c Color) { t.opts.Color = c }

// Selection returns the active selection, or an empty rectangle when there
// is none.
func (t *ToolEngine) Selection() image.Rectangle { return t.selection }

// SetSelection sets the selection rectangle, clipped to the canvas.
func (t *ToolEngine) SetSelection(r image.Rectangle) {
	t.selection = r.Canon().Intersect(t.log.Document().Bounds())
}

// ClearSelection removes the selection.
func (t *ToolEngine) ClearSelection() { t.selection = image.Rectangle{} }

// SelectTool switches tools. A gesture in progress is cancelled.
func (t *ToolEngine) SelectTool(id ToolID) error {
	if !id.Valid() {
		return fmt.Errorf("select tool: unknown tool %d", uint8(id))
	}
	t.Cancel()
	t.tool = id
	return nil
}

// Cancel abandons the current gesture. No command is emitted.
func (t *ToolEngine) Cancel() {
	if t.state == StateDragging {
		Logger().Debug("gesture cancelled", "tool", t.g.tool.String())
	}
	t.state = StateIdle
	t.resetGesture()
}

// PointerDown starts a gesture with tool at pos. A gesture already in
// progress is cancelled first. The fill tool completes immediately and
// the picker only samples a color; both leave the engine Idle.
func (t *ToolEngine) PointerDown(pos image.Point, tool ToolID) error {
	if err := t.SelectTool(tool); err != nil {
		return err
	}
	doc := t.log.Document()

	if tool == ToolSelect {
		t.begin(pos, -1)
		t.g.marq = t.selectRect(pos, pos)
		return nil
	}

	layer := doc.ActiveLayer()
	if layer < 0 {
		return fmt.Errorf("%s: %w: document has no layers", tool, ErrInvalidLayerIndex)
	}
	l := doc.layers[layer]

	if tool == ToolPicker {
		if l.buf.InBounds(pos.X, pos.Y) {
			t.opts.Color = l.buf.at(pos.X, pos.Y)
		}
		return nil
	}

	if l.props.Locked {
		return fmt.Errorf("%s on %q: %w", tool, l.props.Name, ErrLayerLocked)
	}

	switch tool {
	case ToolFill:
		return t.fill(l, layer, pos)
	case ToolPencil, ToolEraser:
		t.begin(pos, layer)
		t.stroke(pos, pos)
	case ToolLine, ToolRectangle:
		t.begin(pos, layer)
	}
	return nil
}

// PointerMove updates the running gesture. It is ignored while Idle.
func (t *ToolEngine) PointerMove(pos image.Point) error {
	if t.state != StateDragging {
		return nil
	}
	switch t.g.tool {
	case ToolPencil, ToolEraser:
		if pos != t.g.last {
			t.stroke(t.g.last, pos)
		}
	case ToolLine, ToolRectangle:
		t.g.shape = t.shape(t.g.anchor, pos)
	case ToolSelect:
		t.g.marq = t.selectRect(t.g.anchor, pos)
	}
	t.g.last = pos
	return nil
}

// PointerUp finishes the gesture at pos and submits its command, if any, to
// the CommandLog. It is ignored while Idle.
func (t *ToolEngine) PointerUp(pos image.Point) error {
	if t.state != StateDragging {
		return nil
	}
	if err := t.PointerMove(pos); err != nil {
		return err
	}
	g := &t.g
	var edits []PixelEdit
	switch g.tool {
	case ToolPencil, ToolEraser:
		edits = g.edits.net()
	case ToolLine, ToolRectangle:
		edits = t.shapeEdits(g.layer, g.shape)
	case ToolSelect:
		if g.anchor == pos {
			t.selection = image.Rectangle{}
		} else {
			t.selection = g.marq
		}
	}
	tool, layer := g.tool, g.layer
	t.state = StateIdle
	t.resetGesture()

	if len(edits) == 0 {
		return nil
	}
	cmd := &SetPixels{label: tool.String(), layer: layer, edits: edits}
	return t.log.Apply(cmd)
}

// Preview returns the pixels of the gesture in progress as they would be
// written to the layer, or nil when there is nothing to show. The patch is
// never part of the document.
func (t *ToolEngine) Preview() *Patch {
	if t.state != StateDragging {
		return nil
	}
	var edits []PixelEdit
	switch t.g.tool {
	case ToolPencil, ToolEraser:
		edits = make([]PixelEdit, len(t.g.edits.edits))
		copy(edits, t.g.edits.edits)
	case ToolLine, ToolRectangle:
		edits = t.shapeEdits(t.g.layer, t.g.shape)
	}
	if len(edits) == 0 {
		return nil
	}
	return &Patch{Layer: t.g.layer, Edits: edits}
}

// Marquee returns the selection rectangle being dragged, or the committed
// selection when no selection gesture is running.
func (t *ToolEngine) Marquee() image.Rectangle {
	if t.state == StateDragging && t.g.tool == ToolSelect {
		return t.g.marq
	}
	return t.selection
}

// --- Tool behavior ---

func (t *ToolEngine) begin(pos image.Point, layer int) {
	t.resetGesture()
	t.state = StateDragging
	t.g.tool = t.tool
	t.g.layer = layer
	t.g.anchor = pos
	t.g.last = pos
}

func (t *ToolEngine) resetGesture() {
	t.g.edits.reset()
	t.g.shape = t.g.shape[:0]
	t.g.marq = image.Rectangle{}
	t.g.layer = -1
}

// paintColor is the color the current gesture writes.
func (t *ToolEngine) paintColor() Color {
	if t.g.tool == ToolEraser {
		return Transparent
	}
	return t.opts.Color
}

// clipped reports whether p falls outside the canvas or the selection.
func (t *ToolEngine) clipped(l *Layer, p image.Point) bool {
	if !l.buf.InBounds(p.X, p.Y) {
		return true
	}
	return !t.selection.Empty() && !p.In(t.selection)
}

// stroke appends the segment from a to b to the pencil/eraser accumulator.
func (t *ToolEngine) stroke(a, b image.Point) {
	l := t.log.Document().layers[t.g.layer]
	c := t.paintColor()
	for _, p := range Line(a, b) {
		if t.clipped(l, p) {
			continue
		}
		t.g.edits.add(p, l.buf.at(p.X, p.Y), c)
	}
}

// shape recomputes the line or rectangle from the anchor to pos. Degenerate
// shapes, where pos is the anchor, produce nothing. A one-pixel-wide
// rectangle is drawn as a run of pixels.
func (t *ToolEngine) shape(anchor, pos image.Point) []image.Point {
	switch t.g.tool {
	case ToolLine:
		if anchor == pos {
			return nil
		}
		return Line(anchor, pos)
	case ToolRectangle:
		if anchor == pos {
			return nil
		}
		if t.opts.FillShapes {
			return RectFilled(anchor, pos)
		}
		return RectOutline(anchor, pos)
	}
	return nil
}

func (t *ToolEngine) shapeEdits(layer int, pts []image.Point) []PixelEdit {
	if len(pts) == 0 {
		return nil
	}
	l := t.log.Document().layers[layer]
	c := t.paintColor()
	var set editSet
	for _, p := range pts {
		if t.clipped(l, p) {
			continue
		}
		set.add(p, l.buf.at(p.X, p.Y), c)
	}
	return set.net()
}

func (t *ToolEngine) fill(l *Layer, layer int, pos image.Point) error {
	c := t.opts.Color
	pts := FloodFill(l.buf, pos, t.selection)
	if len(pts) == 0 || l.buf.at(pos.X, pos.Y) == c {
		return nil
	}
	edits := make([]PixelEdit, len(pts))
	for i, p := range pts {
		edits[i] = PixelEdit{Pos: p, Old: l.buf.at(p.X, p.Y), New: c}
	}
	return t.log.Apply(&SetPixels{label: ToolFill.String(), layer: layer, edits: edits})
}

func (t *ToolEngine) selectRect(a, b image.Point) image.Rectangle {
	return spanRect(a, b).Intersect(t.log.Document().Bounds())
}

// Patch is a set of pixels of one layer shown on top of the document while a
// gesture is in progress.
type Patch struct {
	Layer int
	Edits []PixelEdit
}

// Bounds returns the bounding box of the patch.
func (p *Patch) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, e := range p.Edits {
		r = r.Union(image.Rectangle{Min: e.Pos, Max: e.Pos.Add(image.Pt(1, 1))})
	}
	return r
}

// Image renders the new colors of the patch into an image covering Bounds.
// Pixels outside the patch are transparent.
func (p *Patch) Image() *image.NRGBA {
	b := p.Bounds()
	img := image.NewNRGBA(b)
	for _, e := range p.Edits {
		img.SetNRGBA(e.Pos.X, e.Pos.Y, e.New.NRGBA())
	}
	return img
}
