package pixlab

import (
	"fmt"
	"math"
)

// LayerProps is the metadata of a layer, everything except its pixels.
type LayerProps struct {
	Name      string
	Visible   bool
	Locked    bool
	Opacity   float64 // 0 = fully transparent, 1 = as painted
	BlendMode BlendMode
}

// DefaultLayerProps returns the properties of a freshly created layer.
func DefaultLayerProps(name string) LayerProps {
	return LayerProps{Name: name, Visible: true, Opacity: 1, BlendMode: BlendNormal}
}

// normalized clamps Opacity into [0, 1] and replaces unknown blend modes with
// BlendNormal. NaN opacity becomes 1.
func (p LayerProps) normalized() LayerProps {
	switch {
	case math.IsNaN(p.Opacity):
		p.Opacity = 1
	case p.Opacity < 0:
		p.Opacity = 0
	case p.Opacity > 1:
		p.Opacity = 1
	}
	if !p.BlendMode.Valid() {
		p.BlendMode = BlendNormal
	}
	return p
}

// Layer is one pixel buffer of a document plus its compositing metadata.
//
// A Layer obtained from NewLayer is free-standing and may be painted
// directly through Buffer. Once a layer is part of a Document it is only
// reachable through a read-only LayerView; commands insert clones, so a
// caller holding the original cannot mutate the document behind the
// history's back.
type Layer struct {
	props LayerProps
	buf   *PixelBuffer
}

// NewLayer creates a transparent, visible, fully opaque Normal layer.
func NewLayer(name string, width, height int) (*Layer, error) {
	buf, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("new layer %q: %w", name, err)
	}
	return &Layer{props: DefaultLayerProps(name), buf: buf}, nil
}

// NewLayerFromBuffer wraps buf (not copied) with props.
func NewLayerFromBuffer(props LayerProps, buf *PixelBuffer) *Layer {
	return &Layer{props: props.normalized(), buf: buf}
}

// Props returns the layer's metadata.
func (l *Layer) Props() LayerProps { return l.props }

// SetProps replaces the metadata of a free-standing layer.
func (l *Layer) SetProps(p LayerProps) { l.props = p.normalized() }

// Buffer returns the layer's pixels for direct painting. Only meaningful for
// layers that are not (yet) part of a document.
func (l *Layer) Buffer() *PixelBuffer { return l.buf }

// Width returns the layer width.
func (l *Layer) Width() int { return l.buf.width }

// Height returns the layer height.
func (l *Layer) Height() int { return l.buf.height }

// Clone returns a deep copy.
func (l *Layer) Clone() *Layer {
	return &Layer{props: l.props, buf: l.buf.Clone()}
}

// Equal reports whether o has identical props and pixels.
func (l *Layer) Equal(o *Layer) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.props == o.props && l.buf.Equal(o.buf)
}

// LayerView is a read-only handle to a layer inside a document. It is only
// valid until the next command is applied to that document.
type LayerView struct {
	l *Layer
}

// Props returns the layer's metadata.
func (v LayerView) Props() LayerProps { return v.l.props }

// Name returns the layer name.
func (v LayerView) Name() string { return v.l.props.Name }

// Visible reports whether the layer takes part in compositing.
func (v LayerView) Visible() bool { return v.l.props.Visible }

// Opacity returns the layer opacity in [0, 1].
func (v LayerView) Opacity() float64 { return v.l.props.Opacity }

// BlendMode returns the layer blend mode.
func (v LayerView) BlendMode() BlendMode { return v.l.props.BlendMode }

// Get returns the color at (x, y).
func (v LayerView) Get(x, y int) (Color, error) { return v.l.buf.Get(x, y) }

// Width returns the layer width.
func (v LayerView) Width() int { return v.l.buf.width }

// Height returns the layer height.
func (v LayerView) Height() int { return v.l.buf.height }

// Snapshot returns a detached deep copy of the layer.
func (v LayerView) Snapshot() *Layer { return v.l.Clone() }
