package pixlab

import (
	"errors"
	"fmt"
	"image"
)

// HistoryAction identifies what happened to a CommandLog.
type HistoryAction uint8

const (
	HistoryApply HistoryAction = iota // a new command was applied
	HistoryUndo                       // the newest command was reverted
	HistoryRedo                       // the newest undone command was re-applied
	HistoryClear                      // both stacks were emptied
)

// String returns the action name.
func (a HistoryAction) String() string {
	switch a {
	case HistoryApply:
		return "apply"
	case HistoryUndo:
		return "undo"
	case HistoryRedo:
		return "redo"
	case HistoryClear:
		return "clear"
	default:
		return fmt.Sprintf("HistoryAction(%d)", uint8(a))
	}
}

// CommandLog applies commands to a document and keeps them on an undo stack.
//
// Applying a new command after an undo discards the redo stack: diverging
// history is never merged. The log has no size cap unless SetLimit is used,
// in which case the oldest undo entries are dropped first.
type CommandLog struct {
	doc   *Document
	undo  []Command
	redo  []Command
	limit int

	damage   damageTracker
	onChange func(HistoryAction, Command, image.Rectangle)
}

// NewCommandLog creates an empty log editing doc.
func NewCommandLog(doc *Document) *CommandLog {
	l := &CommandLog{doc: doc}
	l.damage.markAll()
	return l
}

// Document returns the edited document.
func (l *CommandLog) Document() *Document { return l.doc }

// Apply executes cmd's forward effect and pushes it onto the undo stack,
// clearing the redo stack. A command that would change nothing is not
// recorded. On error nothing changes.
func (l *CommandLog) Apply(cmd Command) error {
	if cmd == nil {
		return errors.New("pixlab: apply nil command")
	}
	if cmd.noop(l.doc) {
		Logger().Debug("skipping no-op command", "command", cmd.Name())
		return nil
	}
	if err := cmd.apply(l.doc); err != nil {
		return err
	}
	l.undo = append(l.undo, cmd)
	clear(l.redo)
	l.redo = l.redo[:0]
	l.trim()
	l.changed(HistoryApply, cmd)
	return nil
}

// Undo reverts the most recent command and moves it to the redo stack.
// It returns ErrEmptyHistory when there is nothing to undo. If the command
// cannot be reverted (for example ErrDimensionMismatch) the error is
// returned and both the document and the stacks are left unchanged.
func (l *CommandLog) Undo() error {
	if len(l.undo) == 0 {
		return fmt.Errorf("undo: %w", ErrEmptyHistory)
	}
	cmd := l.undo[len(l.undo)-1]
	if err := cmd.revert(l.doc); err != nil {
		Logger().Warn("undo failed", "command", cmd.Name(), "error", err)
		return err
	}
	l.undo[len(l.undo)-1] = nil
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, cmd)
	l.changed(HistoryUndo, cmd)
	return nil
}

// Redo re-applies the most recently undone command. It returns
// ErrEmptyHistory when there is nothing to redo.
func (l *CommandLog) Redo() error {
	if len(l.redo) == 0 {
		return fmt.Errorf("redo: %w", ErrEmptyHistory)
	}
	cmd := l.redo[len(l.redo)-1]
	if err := cmd.apply(l.doc); err != nil {
		Logger().Warn("redo failed", "command", cmd.Name(), "error", err)
		return err
	}
	l.redo[len(l.redo)-1] = nil
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, cmd)
	l.changed(HistoryRedo, cmd)
	return nil
}

// CanUndo reports whether Undo would do something.
func (l *CommandLog) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo would do something.
func (l *CommandLog) CanRedo() bool { return len(l.redo) > 0 }

// UndoLen returns the number of commands that can be undone.
func (l *CommandLog) UndoLen() int { return len(l.undo) }

// RedoLen returns the number of commands that can be redone.
func (l *CommandLog) RedoLen() int { return len(l.redo) }

// UndoName returns the name of the command Undo would revert.
func (l *CommandLog) UndoName() (string, bool) {
	if len(l.undo) == 0 {
		return "", false
	}
	return l.undo[len(l.undo)-1].Name(), true
}

// RedoName returns the name of the command Redo would re-apply.
func (l *CommandLog) RedoName() (string, bool) {
	if len(l.redo) == 0 {
		return "", false
	}
	return l.redo[len(l.redo)-1].Name(), true
}

// SetLimit caps the undo stack at n entries; n <= 0 removes the cap. When
// the cap is exceeded the oldest entries are dropped.
func (l *CommandLog) SetLimit(n int) {
	l.limit = max(n, 0)
	l.trim()
}

// Limit returns the undo cap, or 0 when unlimited.
func (l *CommandLog) Limit() int { return l.limit }

// Clear empties both stacks. The document is not changed.
func (l *CommandLog) Clear() {
	clear(l.undo)
	clear(l.redo)
	l.undo = l.undo[:0]
	l.redo = l.redo[:0]
	Logger().Info("history cleared")
	if l.onChange != nil {
		l.onChange(HistoryClear, nil, image.Rectangle{})
	}
}

// TakeDamage returns the canvas area changed since the previous call and
// resets it. full is true when the whole canvas must be recomposed, which
// is always the case for the first call.
func (l *CommandLog) TakeDamage() (r image.Rectangle, full bool) {
	return l.damage.take(l.doc.Bounds())
}

// MarkAllDamaged makes the next TakeDamage report the whole canvas.
func (l *CommandLog) MarkAllDamaged() { l.damage.markAll() }

func (l *CommandLog) trim() {
	if l.limit <= 0 || len(l.undo) <= l.limit {
		return
	}
	n := copy(l.undo, l.undo[len(l.undo)-l.limit:])
	clear(l.undo[n:])
	l.undo = l.undo[:n]
}

func (l *CommandLog) changed(action HistoryAction, cmd Command) {
	r := cmd.damage(l.doc)
	l.damage.add(r)
	Logger().Debug("history", "action", action.String(), "command", cmd.Name(),
		"damage", r.String(), "undo", len(l.undo), "redo", len(l.redo))
	if l.onChange != nil {
		l.onChange(action, cmd, r)
	}
}
