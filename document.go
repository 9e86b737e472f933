package pixlab

import (
	"fmt"
	"image"
)

// Document is an ordered stack of equally sized layers. Index 0 is the
// topmost layer.
//
// The exported API of Document is read-only except for SetActiveLayer, which
// only moves the selection. Pixel and structural changes go through Commands
// applied by a CommandLog so that every edit is undoable.
type Document struct {
	width  int
	height int
	layers []*Layer
	active int
}

// NewDocument creates a document with a single transparent layer named
// "Layer 1".
func NewDocument(width, height int) (*Document, error) {
	l, err := NewLayer("Layer 1", width, height)
	if err != nil {
		return nil, fmt.Errorf("new document: %w", err)
	}
	return &Document{width: width, height: height, layers: []*Layer{l}}, nil
}

// NewDocumentFromLayers builds a document from layers listed top to bottom.
// The layers are cloned and must all be width x height.
func NewDocumentFromLayers(width, height int, layers ...*Layer) (*Document, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("new document: %w: %dx%d", ErrInvalidDimensions, width, height)
	}
	d := &Document{width: width, height: height, layers: make([]*Layer, 0, len(layers))}
	for i, l := range layers {
		if l.Width() != width || l.Height() != height {
			return nil, fmt.Errorf("new document: layer %d is %dx%d: %w",
				i, l.Width(), l.Height(), ErrDimensionMismatch)
		}
		d.layers = append(d.layers, l.Clone())
	}
	return d, nil
}

// Width returns the canvas width.
func (d *Document) Width() int { return d.width }

// Height returns the canvas height.
func (d *Document) Height() int { return d.height }

// Bounds returns the canvas rectangle.
func (d *Document) Bounds() image.Rectangle { return image.Rect(0, 0, d.width, d.height) }

// LayerCount returns the number of layers.
func (d *Document) LayerCount() int { return len(d.layers) }

// Layer returns a read-only view of layer i.
func (d *Document) Layer(i int) (LayerView, error) {
	if err := d.checkIndex(i); err != nil {
		return LayerView{}, err
	}
	return LayerView{l: d.layers[i]}, nil
}

// ActiveLayer returns the index of the active layer, or -1 when the document
// has no layers.
func (d *Document) ActiveLayer() int {
	if len(d.layers) == 0 {
		return -1
	}
	return d.active
}

// SetActiveLayer selects the layer drawing tools paint on. The selection is
// not part of the undo history.
func (d *Document) SetActiveLayer(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.active = i
	return nil
}

// View returns an immutable view of the document for compositing.
func (d *Document) View() DocumentView { return DocumentView{d: d} }

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{width: d.width, height: d.height, active: d.active,
		layers: make([]*Layer, len(d.layers))}
	for i, l := range d.layers {
		c.layers[i] = l.Clone()
	}
	return c
}

// Equal reports whether o has the same canvas size and the same layers, in
// the same order, pixel for pixel. The active layer is selection state and
// is not compared.
func (d *Document) Equal(o *Document) bool {
	if d.width != o.width || d.height != o.height || len(d.layers) != len(o.layers) {
		return false
	}
	for i := range d.layers {
		if !d.layers[i].Equal(o.layers[i]) {
			return false
		}
	}
	return true
}

func (d *Document) checkIndex(i int) error {
	if i < 0 || i >= len(d.layers) {
		return fmt.Errorf("%w: %d (document has %d layers)", ErrInvalidLayerIndex, i, len(d.layers))
	}
	return nil
}

// --- Mutation primitives, used only by command application ---

func (d *Document) insertLayer(i int, l *Layer) {
	d.layers = append(d.layers, nil)
	copy(d.layers[i+1:], d.layers[i:])
	d.layers[i] = l
}

func (d *Document) removeLayer(i int) *Layer {
	l := d.layers[i]
	copy(d.layers[i:], d.layers[i+1:])
	d.layers[len(d.layers)-1] = nil
	d.layers = d.layers[:len(d.layers)-1]
	return l
}

func (d *Document) moveLayer(from, to int) {
	l := d.removeLayer(from)
	d.insertLayer(to, l)
}

// clampActive keeps the active index valid after a structural change.
func (d *Document) clampActive() {
	if d.active >= len(d.layers) {
		d.active = len(d.layers) - 1
	}
	if d.active < 0 {
		d.active = 0
	}
}

// DocumentView is a read-only handle used by the compositor and the shell.
// It cannot mutate the document it views.
type DocumentView struct {
	d *Document
}

// Width returns the canvas width.
func (v DocumentView) Width() int { return v.d.width }

// Height returns the canvas height.
func (v DocumentView) Height() int { return v.d.height }

// Bounds returns the canvas rectangle.
func (v DocumentView) Bounds() image.Rectangle { return v.d.Bounds() }

// LayerCount returns the number of layers.
func (v DocumentView) LayerCount() int { return len(v.d.layers) }

// Layer returns a read-only view of layer i.
func (v DocumentView) Layer(i int) (LayerView, error) { return v.d.Layer(i) }

// ActiveLayer returns the active layer index, or -1 for an empty document.
func (v DocumentView) ActiveLayer() int { return v.d.ActiveLayer() }

// Export returns a lossless record of the viewed document.
func (v DocumentView) Export() DocumentRecord { return v.d.Export() }
