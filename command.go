package pixlab

import (
	"fmt"
	"image"
)

// Command is a reversible edit of a Document. The set of commands is closed:
// only the variants in this package implement it, and each one stores enough
// state to apply and revert itself exactly.
//
// Applying or reverting a command is all-or-nothing: on error the document
// is left exactly as it was.
type Command interface {
	// Name is a short human-readable label, e.g. for an "Undo Pencil" menu item.
	Name() string

	apply(d *Document) error
	revert(d *Document) error
	// damage is the canvas area affected by the last apply or revert.
	damage(d *Document) image.Rectangle
	// noop reports whether applying the command to d would change nothing.
	noop(d *Document) bool
}

// PixelEdit records one pixel change.
type PixelEdit struct {
	Pos image.Point
	Old Color
	New Color
}

// --- SetPixels ---

// SetPixels writes a set of pixels on one layer.
type SetPixels struct {
	label string
	layer int
	edits []PixelEdit
}

// NewSetPixels builds a pixel command for layer. Edits are coalesced so each
// coordinate appears once, with its first old color and its last new color;
// coordinates whose net change is nothing are dropped.
func NewSetPixels(layer int, edits []PixelEdit) *SetPixels {
	var set editSet
	for _, e := range edits {
		set.add(e.Pos, e.Old, e.New)
	}
	return &SetPixels{label: "Set Pixels", layer: layer, edits: set.net()}
}

// Name implements Command.
func (c *SetPixels) Name() string { return c.label }

// Layer returns the index of the edited layer.
func (c *SetPixels) Layer() int { return c.layer }

// Edits returns a copy of the recorded pixel changes.
func (c *SetPixels) Edits() []PixelEdit {
	out := make([]PixelEdit, len(c.edits))
	copy(out, c.edits)
	return out
}

// Len returns the number of pixels the command touches.
func (c *SetPixels) Len() int { return len(c.edits) }

func (c *SetPixels) validate(d *Document) (*Layer, error) {
	if err := d.checkIndex(c.layer); err != nil {
		return nil, err
	}
	l := d.layers[c.layer]
	for _, e := range c.edits {
		if !l.buf.InBounds(e.Pos.X, e.Pos.Y) {
			return nil, fmt.Errorf("%s: %w: (%d,%d)", c.label, ErrOutOfBounds, e.Pos.X, e.Pos.Y)
		}
	}
	return l, nil
}

func (c *SetPixels) apply(d *Document) error {
	l, err := c.validate(d)
	if err != nil {
		return err
	}
	for _, e := range c.edits {
		l.buf.set(e.Pos.X, e.Pos.Y, e.New)
	}
	return nil
}

func (c *SetPixels) revert(d *Document) error {
	l, err := c.validate(d)
	if err != nil {
		return err
	}
	for i := len(c.edits) - 1; i >= 0; i-- {
		e := c.edits[i]
		l.buf.set(e.Pos.X, e.Pos.Y, e.Old)
	}
	return nil
}

func (c *SetPixels) damage(*Document) image.Rectangle {
	var r image.Rectangle
	for _, e := range c.edits {
		r = r.Union(image.Rectangle{Min: e.Pos, Max: e.Pos.Add(image.Pt(1, 1))})
	}
	return r
}

func (c *SetPixels) noop(*Document) bool { return len(c.edits) == 0 }

// --- AddLayer ---

// AddLayer inserts a copy of a layer snapshot at an index. The new layer
// becomes the active layer.
type AddLayer struct {
	index      int
	snapshot   *Layer
	prevActive int
}

// NewAddLayer creates a command inserting a clone of snapshot at index.
// index may equal the layer count to append at the bottom.
func NewAddLayer(index int, snapshot *Layer) *AddLayer {
	return &AddLayer{index: index, snapshot: snapshot.Clone()}
}

// Name implements Command.
func (c *AddLayer) Name() string { return "Add Layer" }

// Index returns the insertion index.
func (c *AddLayer) Index() int { return c.index }

func (c *AddLayer) apply(d *Document) error {
	if c.index < 0 || c.index > len(d.layers) {
		return fmt.Errorf("add layer: %w: %d (document has %d layers)",
			ErrInvalidLayerIndex, c.index, len(d.layers))
	}
	if err := checkSnapshot(d, c.snapshot); err != nil {
		return fmt.Errorf("add layer: %w", err)
	}
	c.prevActive = d.active
	d.insertLayer(c.index, c.snapshot.Clone())
	d.active = c.index
	return nil
}

func (c *AddLayer) revert(d *Document) error {
	if err := d.checkIndex(c.index); err != nil {
		return fmt.Errorf("undo add layer: %w", err)
	}
	d.removeLayer(c.index)
	d.active = c.prevActive
	d.clampActive()
	return nil
}

func (c *AddLayer) damage(d *Document) image.Rectangle { return d.Bounds() }

func (c *AddLayer) noop(*Document) bool { return false }

// --- RemoveLayer ---

// RemoveLayer deletes a layer, keeping a snapshot to restore it on undo.
// The last remaining layer of a document cannot be removed.
type RemoveLayer struct {
	index      int
	snapshot   *Layer
	prevActive int
}

// NewRemoveLayer creates a command removing the layer at index. The snapshot
// is captured when the command is applied.
func NewRemoveLayer(index int) *RemoveLayer {
	return &RemoveLayer{index: index}
}

// Name implements Command.
func (c *RemoveLayer) Name() string { return "Remove Layer" }

// Index returns the index of the removed layer.
func (c *RemoveLayer) Index() int { return c.index }

func (c *RemoveLayer) apply(d *Document) error {
	if err := d.checkIndex(c.index); err != nil {
		return fmt.Errorf("remove layer: %w", err)
	}
	if len(d.layers) == 1 {
		return fmt.Errorf("remove layer: %w: cannot remove the only layer", ErrInvalidLayerIndex)
	}
	if c.snapshot != nil {
		if err := checkSnapshot(d, c.snapshot); err != nil {
			return fmt.Errorf("remove layer: %w", err)
		}
	}
	c.prevActive = d.active
	c.snapshot = d.removeLayer(c.index)
	d.clampActive()
	return nil
}

func (c *RemoveLayer) revert(d *Document) error {
	if c.snapshot == nil {
		return fmt.Errorf("undo remove layer: command was never applied")
	}
	if c.index < 0 || c.index > len(d.layers) {
		return fmt.Errorf("undo remove layer: %w: %d", ErrInvalidLayerIndex, c.index)
	}
	if err := checkSnapshot(d, c.snapshot); err != nil {
		return fmt.Errorf("undo remove layer: %w", err)
	}
	d.insertLayer(c.index, c.snapshot.Clone())
	d.active = c.prevActive
	d.clampActive()
	return nil
}

func (c *RemoveLayer) damage(d *Document) image.Rectangle { return d.Bounds() }

func (c *RemoveLayer) noop(*Document) bool { return false }

// --- ReorderLayer ---

// ReorderLayer moves the layer at From so that it ends up at index To.
// The active layer follows its layer.
type ReorderLayer struct {
	from, to   int
	prevActive int
}

// NewReorderLayer creates a command moving a layer from one index to another.
func NewReorderLayer(from, to int) *ReorderLayer {
	return &ReorderLayer{from: from, to: to}
}

// Name implements Command.
func (c *ReorderLayer) Name() string { return "Reorder Layer" }

func (c *ReorderLayer) apply(d *Document) error {
	if err := d.checkIndex(c.from); err != nil {
		return fmt.Errorf("reorder layer: %w", err)
	}
	if err := d.checkIndex(c.to); err != nil {
		return fmt.Errorf("reorder layer: %w", err)
	}
	c.prevActive = d.active
	active := d.layers[d.active]
	d.moveLayer(c.from, c.to)
	d.active = indexOf(d.layers, active)
	return nil
}

func (c *ReorderLayer) revert(d *Document) error {
	if err := d.checkIndex(c.from); err != nil {
		return fmt.Errorf("undo reorder layer: %w", err)
	}
	if err := d.checkIndex(c.to); err != nil {
		return fmt.Errorf("undo reorder layer: %w", err)
	}
	d.moveLayer(c.to, c.from)
	d.active = c.prevActive
	d.clampActive()
	return nil
}

func (c *ReorderLayer) damage(d *Document) image.Rectangle { return d.Bounds() }

func (c *ReorderLayer) noop(*Document) bool { return c.from == c.to }

// --- ChangeLayerProps ---

// ChangeLayerProps replaces the metadata of one layer.
type ChangeLayerProps struct {
	index int
	old   LayerProps
	new   LayerProps
}

// NewChangeLayerProps creates a command setting the props of layer index.
// Opacity is clamped to [0, 1]. The previous props are captured on apply.
func NewChangeLayerProps(index int, props LayerProps) *ChangeLayerProps {
	return &ChangeLayerProps{index: index, new: props.normalized()}
}

// Name implements Command.
func (c *ChangeLayerProps) Name() string { return "Layer Properties" }

// Old returns the props the layer had before the last apply.
func (c *ChangeLayerProps) Old() LayerProps { return c.old }

// New returns the props the command sets.
func (c *ChangeLayerProps) New() LayerProps { return c.new }

func (c *ChangeLayerProps) apply(d *Document) error {
	if err := d.checkIndex(c.index); err != nil {
		return fmt.Errorf("layer properties: %w", err)
	}
	l := d.layers[c.index]
	c.old = l.props
	l.props = c.new
	return nil
}

func (c *ChangeLayerProps) revert(d *Document) error {
	if err := d.checkIndex(c.index); err != nil {
		return fmt.Errorf("undo layer properties: %w", err)
	}
	d.layers[c.index].props = c.old
	return nil
}

func (c *ChangeLayerProps) damage(d *Document) image.Rectangle { return d.Bounds() }

func (c *ChangeLayerProps) noop(d *Document) bool {
	if c.index < 0 || c.index >= len(d.layers) {
		return false // let apply report the bad index
	}
	return d.layers[c.index].props == c.new
}

// --- ResizeCanvas ---

// ResizeCanvas changes the canvas size, resizing every layer in lock-step.
type ResizeCanvas struct {
	width, height int
	anchor        Anchor
	oldW, oldH    int
	old           []*PixelBuffer
}

// NewResizeCanvas creates a command resizing the canvas to width x height.
// Existing content is kept in place relative to anchor.
func NewResizeCanvas(width, height int, anchor Anchor) *ResizeCanvas {
	return &ResizeCanvas{width: width, height: height, anchor: anchor}
}

// Name implements Command.
func (c *ResizeCanvas) Name() string { return "Resize Canvas" }

func (c *ResizeCanvas) apply(d *Document) error {
	resized := make([]*PixelBuffer, len(d.layers))
	for i, l := range d.layers {
		b, err := l.buf.Resize(c.width, c.height, c.anchor)
		if err != nil {
			return fmt.Errorf("resize canvas: %w", err)
		}
		resized[i] = b
	}
	c.oldW, c.oldH = d.width, d.height
	c.old = make([]*PixelBuffer, len(d.layers))
	for i, l := range d.layers {
		c.old[i] = l.buf
		l.buf = resized[i]
	}
	d.width, d.height = c.width, c.height
	return nil
}

func (c *ResizeCanvas) revert(d *Document) error {
	if len(c.old) != len(d.layers) || d.width != c.width || d.height != c.height {
		return fmt.Errorf("undo resize canvas: %w", ErrDimensionMismatch)
	}
	for i, l := range d.layers {
		l.buf = c.old[i]
	}
	d.width, d.height = c.oldW, c.oldH
	return nil
}

func (c *ResizeCanvas) damage(d *Document) image.Rectangle {
	return image.Rect(0, 0, max(c.width, c.oldW), max(c.height, c.oldH))
}

func (c *ResizeCanvas) noop(d *Document) bool {
	return c.width == d.width && c.height == d.height
}

// --- Batch ---

// Batch applies a sequence of commands as one undo step. If any member
// fails, the members already applied are reverted before the error is
// returned.
type Batch struct {
	name string
	cmds []Command
}

// NewBatch groups cmds under one history entry called name.
func NewBatch(name string, cmds ...Command) *Batch {
	return &Batch{name: name, cmds: cmds}
}

// Name implements Command.
func (c *Batch) Name() string { return c.name }

// Len returns the number of grouped commands.
func (c *Batch) Len() int { return len(c.cmds) }

func (c *Batch) apply(d *Document) error {
	for i, cmd := range c.cmds {
		if err := cmd.apply(d); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = c.cmds[j].revert(d)
			}
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

func (c *Batch) revert(d *Document) error {
	for i := len(c.cmds) - 1; i >= 0; i-- {
		if err := c.cmds[i].revert(d); err != nil {
			for j := i + 1; j < len(c.cmds); j++ {
				_ = c.cmds[j].apply(d)
			}
			return fmt.Errorf("undo %s: %w", c.name, err)
		}
	}
	return nil
}

func (c *Batch) damage(d *Document) image.Rectangle {
	var r image.Rectangle
	for _, cmd := range c.cmds {
		r = r.Union(cmd.damage(d))
	}
	return r
}

func (c *Batch) noop(d *Document) bool {
	for _, cmd := range c.cmds {
		if !cmd.noop(d) {
			return false
		}
	}
	return true
}

func checkSnapshot(d *Document, l *Layer) error {
	if l == nil {
		return fmt.Errorf("%w: missing layer snapshot", ErrDimensionMismatch)
	}
	if l.Width() != d.width || l.Height() != d.height {
		return fmt.Errorf("%w: layer is %dx%d, canvas is %dx%d",
			ErrDimensionMismatch, l.Width(), l.Height(), d.width, d.height)
	}
	return nil
}

func indexOf(layers []*Layer, l *Layer) int {
	for i, x := range layers {
		if x == l {
			return i
		}
	}
	return 0
}
