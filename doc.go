// Package pixlab is the canvas editing engine of a pixel-art editor.
//
// It provides the layered pixel model, the drawing tools that turn pointer
// input into pixel edits, an undo/redo command log, and a compositor that
// flattens the layer stack into an image. Windowing, widgets and file
// dialogs live outside the package; the shell package in this module is an
// [Ebitengine] front end built on it.
//
// # Quick start
//
// An [Editor] bundles everything a shell needs:
//
//	ed, err := pixlab.NewEditor(pixlab.EditorConfig{Width: 64, Height: 64})
//	if err != nil {
//		return err
//	}
//	ed.Tools().SetColor(pixlab.Color{R: 255, A: 255})
//	ed.PointerDown(image.Pt(2, 2), pixlab.ToolPencil)
//	ed.PointerMove(image.Pt(2, 3))
//	ed.PointerUp(image.Pt(2, 5))  // one command, one undo step
//	img := ed.CompositedImage()    // *image.NRGBA, ready for display
//	ed.Undo()
//
// # Data model
//
// A [Document] is an ordered stack of [Layer]s of equal size; index 0 is the
// top layer. Each layer owns a [PixelBuffer] of straight-alpha [Color]s and
// carries its name, visibility, lock flag, opacity and [BlendMode].
//
// Documents are read through [DocumentView] and [LayerView] and are changed
// only by applying a [Command] through a [CommandLog]: [SetPixels],
// [AddLayer], [RemoveLayer], [ReorderLayer], [ChangeLayerProps],
// [ResizeCanvas] and [Batch]. Every command stores what it needs to revert
// itself exactly, and applying or reverting is all-or-nothing.
//
// # Tools
//
// The [ToolEngine] is a two-state machine (idle, dragging). Pencil and
// eraser strokes are gap-filled with Bresenham lines and coalesced into a
// single command per gesture. Line and rectangle show a preview while
// dragging ([ToolEngine.Preview]) and commit on release. Fill and the color
// picker act on pointer down. The selection tool sets a rectangle that clips
// every other tool.
//
// # Compositing
//
// [Composite] is a pure function of the document. A [Compositor] caches the
// last result and recomposes only the region damaged since the previous
// frame, splitting large regions into bands composed in parallel. Both
// paths share the same per-pixel code and give identical bytes.
//
// # Persistence
//
// [Document.Export] and [ImportDocument] convert to and from a
// [DocumentRecord], an encoding-independent description of the document.
// The project sub-package stores it as a zip of JSON and PNG files;
// [ExportImage] writes the flattened image as PNG, JPEG, BMP or TIFF.
//
// # Logging
//
// The package is silent by default. Install a [log/slog] logger with
// [SetLogger] to see command and compositing activity.
//
// [Ebitengine]: https://ebitengine.org
package pixlab
