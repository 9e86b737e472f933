// Package project stores pixlab documents as project files.
//
// A project file is a zip archive holding a project.json manifest with the
// canvas size, active layer and layer properties, plus one PNG per layer
// (layer_0.png is the top layer). PNG keeps straight alpha, so a saved and
// reloaded document is equal to the original.
package project

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/phanxgames/pixlab"
)

// FormatVersion is the manifest version written by Save.
const FormatVersion = 1

// MaxSide is the largest canvas width or height Load accepts.
const MaxSide = pixlab.MaxSide

const manifestName = "project.json"

// ErrInvalidProject is returned for archives that are not pixlab projects.
var ErrInvalidProject = errors.New("project: invalid project file")

type manifest struct {
	Version int          `json:"version"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Active  int          `json:"active"`
	Layers  []layerEntry `json:"layers"`
}

type layerEntry struct {
	pixlab.LayerRecord
	File string `json:"file"`
}

func layerFile(i int) string { return fmt.Sprintf("layer_%d.png", i) }

// Save writes the document as a project archive to w.
func Save(w io.Writer, view pixlab.DocumentView) error {
	rec := view.Export()
	m := manifest{
		Version: FormatVersion,
		Width:   rec.Width,
		Height:  rec.Height,
		Active:  rec.Active,
		Layers:  make([]layerEntry, len(rec.Layers)),
	}
	for i, l := range rec.Layers {
		l.Pixels = nil
		m.Layers[i] = layerEntry{LayerRecord: l, File: layerFile(i)}
	}

	zw := zip.NewWriter(w)
	mw, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("save project: manifest: %w", err)
	}

	for i, l := range rec.Layers {
		// PNG data is already compressed.
		lw, err := zw.CreateHeader(&zip.FileHeader{Name: layerFile(i), Method: zip.Store})
		if err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		img := &image.NRGBA{Pix: l.Pixels, Stride: 4 * rec.Width, Rect: image.Rect(0, 0, rec.Width, rec.Height)}
		if err := png.Encode(lw, img); err != nil {
			return fmt.Errorf("save project: layer %d (%q): %w", i, l.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// SaveFile writes the document to path. The file is replaced only once the
// archive has been written completely.
func SaveFile(path string, view pixlab.DocumentView) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pixlab-*")
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, view); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	pixlab.Logger().Info("project saved", "path", path,
		"width", view.Width(), "height", view.Height(), "layers", view.LayerCount())
	return nil
}

// Load reads a project archive of the given size.
func Load(r io.ReaderAt, size int64) (*pixlab.Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return nil, fmt.Errorf("%w: no %s", ErrInvalidProject, manifestName)
	}
	var m manifest
	if err := readJSON(mf, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidProject, manifestName, err)
	}
	if m.Version < 1 || m.Version > FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidProject, m.Version)
	}
	if m.Width > MaxSide || m.Height > MaxSide {
		return nil, fmt.Errorf("load project: %w: %dx%d exceeds %d", pixlab.ErrInvalidDimensions, m.Width, m.Height, MaxSide)
	}

	rec := pixlab.DocumentRecord{
		Width:  m.Width,
		Height: m.Height,
		Active: m.Active,
		Layers: make([]pixlab.LayerRecord, len(m.Layers)),
	}
	for i, e := range m.Layers {
		f, ok := files[e.File]
		if !ok {
			return nil, fmt.Errorf("%w: layer %d: missing %q", ErrInvalidProject, i, e.File)
		}
		pix, err := readLayer(f, m.Width, m.Height)
		if err != nil {
			return nil, fmt.Errorf("load project: layer %d (%q): %w", i, e.Name, err)
		}
		rec.Layers[i] = e.LayerRecord
		rec.Layers[i].Pixels = pix
	}

	doc, err := pixlab.ImportDocument(rec)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return doc, nil
}

// LoadFile reads a project archive from path.
func LoadFile(path string) (*pixlab.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	doc, err := Load(f, fi.Size())
	if err != nil {
		return nil, err
	}
	pixlab.Logger().Info("project loaded", "path", path,
		"width", doc.Width(), "height", doc.Height(), "layers", doc.LayerCount())
	return doc, nil
}

func readJSON(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

// readLayer decodes a layer PNG into straight-alpha pixels after checking
// its size against the canvas.
func readLayer(f *zip.File, width, height int) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(rc)
	rc.Close()
	if err != nil {
		return nil, err
	}
	if cfg.Width != width || cfg.Height != height {
		return nil, fmt.Errorf("%w: image is %dx%d, canvas is %dx%d",
			pixlab.ErrDimensionMismatch, cfg.Width, cfg.Height, width, height)
	}

	rc, err = f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := png.Decode(rc)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img).Pix, nil
}
