// Command pixlab is a pixel-art editor.
//
// Usage:
//
//	pixlab [-config pixlab.toml] [-open art.pixlab] [-import sprite.png] [-paste sprite.png] [-script run.json]
//
// Drawing: B pencil, E eraser, L line, R rectangle, G fill, M select,
// I picker; right click samples a color, middle drag pans, the wheel zooms.
// 1-9 and 0 pick palette colors. Ctrl+Z / Ctrl+Y undo and redo, Ctrl+S
// saves the project, Ctrl+Shift+X exports a PNG, F12 takes a screenshot.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/phanxgames/pixlab"
	"github.com/phanxgames/pixlab/project"
	"github.com/phanxgames/pixlab/shell"
)

var (
	configPath = flag.String("config", "pixlab.toml", "Configuration file")
	openPath   = flag.String("open", "", "Project file to open")
	importPath = flag.String("import", "", "Image to import as a new layer")
	pastePath  = flag.String("paste", "", "Image to paste over the active layer at the canvas origin")
	scriptPath = flag.String("script", "", "JSON test script to run; the editor exits when it ends")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("pixlab: %v", err)
	}
}

func run() error {
	cfg, err := shell.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	pixlab.SetLogger(logger)

	pal, err := loadPalette(cfg.Palette)
	if err != nil {
		return err
	}

	edCfg := pixlab.EditorConfig{
		Width:        cfg.Canvas.Width,
		Height:       cfg.Canvas.Height,
		HistoryLimit: cfg.HistoryLimit,
		Workers:      cfg.Workers,
		Debug:        cfg.Debug,
	}
	var ed *pixlab.Editor
	if *openPath != "" {
		doc, err := project.LoadFile(*openPath)
		if err != nil {
			return err
		}
		ed = pixlab.NewEditorForDocument(doc, edCfg)
		cfg.ProjectPath = *openPath
	} else if ed, err = pixlab.NewEditor(edCfg); err != nil {
		return err
	}

	if *importPath != "" {
		if err := importLayer(ed, *importPath); err != nil {
			return err
		}
	}
	if *pastePath != "" {
		if err := pasteImage(ed, *pastePath); err != nil {
			return err
		}
	}

	g := shell.NewGame(cfg, ed, pal)
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := shell.LoadTestScript(data)
		if err != nil {
			return err
		}
		g.SetTestRunner(runner)
		g.ExitWhenScriptDone(true)
		if err := shell.Run(g); err != nil {
			return err
		}
		if f := runner.Failures(); len(f) > 0 {
			return fmt.Errorf("script %s: %d failed expectations:\n  %s",
				*scriptPath, len(f), strings.Join(f, "\n  "))
		}
		return nil
	}
	return shell.Run(g)
}

func loadPalette(path string) (*pixlab.Palette, error) {
	if path == "" {
		return &pixlab.DefaultPalette, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	pal, err := pixlab.LoadPalette(data)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", path, err)
	}
	if len(pal.Colors) == 0 {
		return nil, errors.New("load palette " + path + ": no colors")
	}
	return pal, nil
}

// importLayer decodes an image file and inserts it above the active layer.
func importLayer(ed *pixlab.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()
	doc := ed.Document()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l, err := pixlab.ImportImage(f, name, doc.Width(), doc.Height())
	if err != nil {
		return err
	}
	return ed.InsertLayer(doc.ActiveLayer(), l)
}

// pasteImage decodes an image file and replaces the active layer's pixels
// with it.
func pasteImage(ed *pixlab.Editor, path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	return ed.ReplaceLayerPixels(ed.Document().ActiveLayer(), img)
}
