package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/pixlab"
	"github.com/phanxgames/pixlab/project"
)

// Action is an editor command bound to a key or run from a test script.
type Action uint8

const (
	ActionUndo Action = iota
	ActionRedo
	ActionCancel
	ActionZoomIn
	ActionZoomOut
	ActionFit
	ActionAddLayer
	ActionRemoveLayer
	ActionDuplicateLayer
	ActionMergeDown
	ActionLayerUp   // select the layer above
	ActionLayerDown // select the layer below
	ActionMoveLayerUp
	ActionMoveLayerDown
	ActionToggleVisible
	ActionToggleLock
	ActionFlipHorizontal
	ActionFlipVertical
	ActionRotate180
	ActionToggleFill
	ActionClearSelection
	ActionToggleGrid
	ActionSave
	ActionExport
	ActionScreenshot
)

var actionNames = [...]string{
	ActionUndo:           "undo",
	ActionRedo:           "redo",
	ActionCancel:         "cancel",
	ActionZoomIn:         "zoom_in",
	ActionZoomOut:        "zoom_out",
	ActionFit:            "fit",
	ActionAddLayer:       "add_layer",
	ActionRemoveLayer:    "remove_layer",
	ActionDuplicateLayer: "duplicate_layer",
	ActionMergeDown:      "merge_down",
	ActionLayerUp:        "layer_up",
	ActionLayerDown:      "layer_down",
	ActionMoveLayerUp:    "move_layer_up",
	ActionMoveLayerDown:  "move_layer_down",
	ActionToggleVisible:  "toggle_visible",
	ActionToggleLock:     "toggle_lock",
	ActionFlipHorizontal: "flip_horizontal",
	ActionFlipVertical:   "flip_vertical",
	ActionRotate180:      "rotate_180",
	ActionToggleFill:     "toggle_fill",
	ActionClearSelection: "clear_selection",
	ActionToggleGrid:     "toggle_grid",
	ActionSave:           "save",
	ActionExport:         "export",
	ActionScreenshot:     "screenshot",
}

// String returns the action name used in test scripts.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction returns the action with the given name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("shell: unknown action %q", name)
}

// --- Key bindings ---

type keyBinding struct {
	key    ebiten.Key
	mods   KeyModifiers
	action Action
}

var keyBindings = []keyBinding{
	{ebiten.KeyZ, ModCtrl, ActionUndo},
	{ebiten.KeyZ, ModCtrl | ModShift, ActionRedo},
	{ebiten.KeyY, ModCtrl, ActionRedo},
	{ebiten.KeyEscape, 0, ActionCancel},
	{ebiten.KeyEqual, 0, ActionZoomIn},
	{ebiten.KeyMinus, 0, ActionZoomOut},
	{ebiten.Key0, ModCtrl, ActionFit},
	{ebiten.KeyN, ModCtrl | ModShift, ActionAddLayer},
	{ebiten.KeyDelete, 0, ActionRemoveLayer},
	{ebiten.KeyJ, ModCtrl, ActionDuplicateLayer},
	{ebiten.KeyE, ModCtrl, ActionMergeDown},
	{ebiten.KeyPageUp, 0, ActionLayerUp},
	{ebiten.KeyPageDown, 0, ActionLayerDown},
	{ebiten.KeyPageUp, ModCtrl, ActionMoveLayerUp},
	{ebiten.KeyPageDown, ModCtrl, ActionMoveLayerDown},
	{ebiten.KeyV, ModShift, ActionToggleVisible},
	{ebiten.KeyL, ModShift, ActionToggleLock},
	{ebiten.KeyH, ModShift, ActionFlipHorizontal},
	{ebiten.KeyV, ModAlt, ActionFlipVertical},
	{ebiten.KeyR, ModShift, ActionRotate180},
	{ebiten.KeyF, ModShift, ActionToggleFill},
	{ebiten.KeyD, ModCtrl, ActionClearSelection},
	{ebiten.KeyG, ModCtrl, ActionToggleGrid},
	{ebiten.KeyS, ModCtrl, ActionSave},
	{ebiten.KeyX, ModCtrl | ModShift, ActionExport},
	{ebiten.KeyF12, 0, ActionScreenshot},
}

// toolKeys select a tool when pressed without modifiers.
var toolKeys = map[ebiten.Key]pixlab.ToolID{
	ebiten.KeyB: pixlab.ToolPencil,
	ebiten.KeyE: pixlab.ToolEraser,
	ebiten.KeyL: pixlab.ToolLine,
	ebiten.KeyR: pixlab.ToolRectangle,
	ebiten.KeyG: pixlab.ToolFill,
	ebiten.KeyM: pixlab.ToolSelect,
	ebiten.KeyI: pixlab.ToolPicker,
}

// paletteKeys pick palette entries 0 to 9.
var paletteKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9, ebiten.Key0,
}

// matchBinding returns the action bound to key with exactly mods held.
func matchBinding(key ebiten.Key, mods KeyModifiers) (Action, bool) {
	for _, b := range keyBindings {
		if b.key == key && b.mods == mods {
			return b.action, true
		}
	}
	return 0, false
}

// processKeys handles keys pressed this frame.
func (g *Game) processKeys(mods KeyModifiers) {
	g.keyBuf = inpututil.AppendJustPressedKeys(g.keyBuf[:0])
	for _, k := range g.keyBuf {
		g.handleKey(k, mods)
	}
}

// handleKey runs whatever key is bound to with mods held.
func (g *Game) handleKey(key ebiten.Key, mods KeyModifiers) {
	if a, ok := matchBinding(key, mods); ok {
		g.report(g.Do(a))
		return
	}
	if mods != 0 {
		return
	}
	if id, ok := toolKeys[key]; ok {
		g.report(g.ed.SelectTool(id))
		return
	}
	for i, k := range paletteKeys {
		if k == key {
			g.report(g.SelectColor(i))
			return
		}
	}
}

// SelectColor makes palette entry i the drawing color.
func (g *Game) SelectColor(i int) error {
	if i < 0 || i >= len(g.palette.Colors) {
		return fmt.Errorf("shell: palette %q has no color %d", g.palette.Name, i)
	}
	g.ed.Tools().SetColor(g.palette.Colors[i])
	return nil
}

// Do runs an action against the editor.
func (g *Game) Do(a Action) error {
	ed := g.ed
	doc := ed.Document()
	active := doc.ActiveLayer()
	cx, cy := g.cam.ViewW/2, g.cam.ViewH/2

	switch a {
	case ActionUndo:
		return ed.Undo()
	case ActionRedo:
		return ed.Redo()
	case ActionCancel:
		ed.Cancel()
	case ActionZoomIn:
		g.cam.ZoomTo(g.cam.Zoom*2, cx, cy, wheelZoomDuration, ease.OutQuad)
	case ActionZoomOut:
		g.cam.ZoomTo(g.cam.Zoom/2, cx, cy, wheelZoomDuration, ease.OutQuad)
	case ActionFit:
		g.cam.Fit(doc.Width(), doc.Height())
	case ActionAddLayer:
		return ed.AddLayer(active, "")
	case ActionRemoveLayer:
		return ed.RemoveLayer(active)
	case ActionDuplicateLayer:
		return ed.DuplicateLayer(active)
	case ActionMergeDown:
		return ed.MergeDown(active)
	case ActionLayerUp:
		if active > 0 {
			return ed.SetActiveLayer(active - 1)
		}
	case ActionLayerDown:
		if active+1 < doc.LayerCount() {
			return ed.SetActiveLayer(active + 1)
		}
	case ActionMoveLayerUp:
		if active > 0 {
			return ed.ReorderLayer(active, active-1)
		}
	case ActionMoveLayerDown:
		if active+1 < doc.LayerCount() {
			return ed.ReorderLayer(active, active+1)
		}
	case ActionToggleVisible, ActionToggleLock:
		lv, err := doc.Layer(active)
		if err != nil {
			return err
		}
		p := lv.Props()
		if a == ActionToggleVisible {
			p.Visible = !p.Visible
		} else {
			p.Locked = !p.Locked
		}
		return ed.UpdateLayerProps(active, p)
	case ActionFlipHorizontal:
		return ed.TransformLayer(active, pixlab.FlipHorizontal)
	case ActionFlipVertical:
		return ed.TransformLayer(active, pixlab.FlipVertical)
	case ActionRotate180:
		return ed.TransformLayer(active, pixlab.Rotate180)
	case ActionToggleFill:
		o := ed.Tools().Options()
		o.FillShapes = !o.FillShapes
		ed.Tools().SetOptions(o)
	case ActionClearSelection:
		ed.Tools().ClearSelection()
	case ActionToggleGrid:
		g.showGrid = !g.showGrid
	case ActionSave:
		if err := project.SaveFile(g.cfg.ProjectPath, doc); err != nil {
			return err
		}
		g.status = "saved " + g.cfg.ProjectPath
	case ActionExport:
		path, err := g.exportFlattened()
		if err != nil {
			return err
		}
		g.status = "exported " + path
	case ActionScreenshot:
		g.Screenshot("manual")
	default:
		return fmt.Errorf("shell: unknown action %d", uint8(a))
	}
	return nil
}

// exportFlattened writes the composited canvas as a PNG next to the project
// file and returns its path.
func (g *Game) exportFlattened() (string, error) {
	path := strings.TrimSuffix(g.cfg.ProjectPath, filepath.Ext(g.cfg.ProjectPath)) + ".png"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := pixlab.ExportImage(f, g.ed.Document(), pixlab.FormatPNG, g.cfg.ExportScale); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	pixlab.Logger().Info("image exported", "path", path, "scale", g.cfg.ExportScale)
	return path, nil
}
