package pixlab

import (
	"fmt"
	"os"
)

// debugLog prints composite and history stats to stderr.
func (e *Editor) debugLog(stats CompositeStats) {
	if stats.Region.Empty() {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[pixlab] composite: %v | full: %v | bands: %d | time: %v\n",
		stats.Region, stats.Full, stats.Bands, stats.Duration)
	_, _ = fmt.Fprintf(os.Stderr,
		"[pixlab] layers: %d | active: %d | undo: %d | redo: %d\n",
		len(e.doc.layers), e.doc.ActiveLayer(), e.log.UndoLen(), e.log.RedoLen())
}

// debugCheckDocument panics with a descriptive message when a document
// invariant is broken. Only called in debug mode.
func debugCheckDocument(d *Document) {
	if len(d.layers) == 0 {
		panic("pixlab debug: document has no layers")
	}
	if d.active < 0 || d.active >= len(d.layers) {
		panic(fmt.Sprintf("pixlab debug: active layer %d out of range (%d layers)", d.active, len(d.layers)))
	}
	for i, l := range d.layers {
		if l.buf.width != d.width || l.buf.height != d.height {
			panic(fmt.Sprintf("pixlab debug: layer %d (%q) is %dx%d, canvas is %dx%d",
				i, l.props.Name, l.buf.width, l.buf.height, d.width, d.height))
		}
	}
}

// debugMaxHistory warns on stderr when an uncapped history grows past this
// many entries.
const debugMaxHistory = 10000

func debugCheckHistory(l *CommandLog) {
	if l.limit == 0 && len(l.undo) > debugMaxHistory {
		_, _ = fmt.Fprintf(os.Stderr, "[pixlab] warning: %d undo entries with no history limit\n", len(l.undo))
	}
}
