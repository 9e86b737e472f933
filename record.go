package pixlab

import (
	"fmt"
	"math"
)

// DocumentRecord is the structured, encoding-independent form of a
// document. It holds everything needed to rebuild an equal document.
type DocumentRecord struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Active int           `json:"active"`
	Layers []LayerRecord `json:"layers"` // top to bottom
}

// LayerRecord is one layer of a DocumentRecord. Pixels holds Width*Height
// straight-alpha RGBA quadruples in row-major order. Encoders that store
// pixels separately (as images) may leave it nil and fill it in before
// ImportDocument.
type LayerRecord struct {
	Name      string  `json:"name"`
	Visible   bool    `json:"visible"`
	Locked    bool    `json:"locked,omitempty"`
	Opacity   float64 `json:"opacity"`
	BlendMode string  `json:"blend_mode"`
	Pixels    []byte  `json:"pixels,omitempty"`
}

// Export returns a deep, lossless copy of the document as a record.
func (d *Document) Export() DocumentRecord {
	rec := DocumentRecord{
		Width:  d.width,
		Height: d.height,
		Active: d.ActiveLayer(),
		Layers: make([]LayerRecord, len(d.layers)),
	}
	for i, l := range d.layers {
		pix := make([]byte, len(l.buf.pix))
		copy(pix, l.buf.pix)
		rec.Layers[i] = LayerRecord{
			Name:      l.props.Name,
			Visible:   l.props.Visible,
			Locked:    l.props.Locked,
			Opacity:   l.props.Opacity,
			BlendMode: l.props.BlendMode.String(),
			Pixels:    pix,
		}
	}
	return rec
}

// ImportDocument rebuilds a document from rec. The record is validated as a
// whole before anything is built: bad dimensions return
// ErrInvalidDimensions, pixel data of the wrong length returns
// ErrDimensionMismatch, and unknown blend modes or opacities outside [0, 1]
// are rejected. An out-of-range active index falls back to the top layer.
func ImportDocument(rec DocumentRecord) (*Document, error) {
	if err := checkDimensions(rec.Width, rec.Height); err != nil {
		return nil, fmt.Errorf("import document: %w", err)
	}
	if len(rec.Layers) == 0 {
		return nil, fmt.Errorf("import document: %w: no layers", ErrInvalidLayerIndex)
	}
	want := 4 * rec.Width * rec.Height
	layers := make([]*Layer, len(rec.Layers))
	for i, lr := range rec.Layers {
		if len(lr.Pixels) != want {
			Logger().Warn("rejecting document record", "layer", i, "pixels", len(lr.Pixels), "want", want)
			return nil, fmt.Errorf("import document: layer %d (%q) has %d pixel bytes, want %d: %w",
				i, lr.Name, len(lr.Pixels), want, ErrDimensionMismatch)
		}
		mode, err := ParseBlendMode(lr.BlendMode)
		if err != nil {
			return nil, fmt.Errorf("import document: layer %d: %w", i, err)
		}
		if math.IsNaN(lr.Opacity) || lr.Opacity < 0 || lr.Opacity > 1 {
			return nil, fmt.Errorf("import document: layer %d: opacity %v outside [0, 1]", i, lr.Opacity)
		}
		pix := make([]uint8, want)
		copy(pix, lr.Pixels)
		layers[i] = &Layer{
			props: LayerProps{
				Name:      lr.Name,
				Visible:   lr.Visible,
				Locked:    lr.Locked,
				Opacity:   lr.Opacity,
				BlendMode: mode,
			},
			buf: &PixelBuffer{width: rec.Width, height: rec.Height, pix: pix},
		}
	}
	d := &Document{width: rec.Width, height: rec.Height, layers: layers, active: rec.Active}
	if rec.Active < 0 || rec.Active >= len(layers) {
		d.active = 0
	}
	return d, nil
}
