package pixlab

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is; the
// returned errors usually wrap one of these with the offending value.
var (
	// ErrOutOfBounds is returned for explicit pixel access outside a buffer.
	// Drawing tools never return it: they clip instead.
	ErrOutOfBounds = errors.New("pixlab: coordinate out of bounds")

	// ErrEmptyHistory is returned by Undo or Redo when there is nothing to
	// undo or redo.
	ErrEmptyHistory = errors.New("pixlab: empty history")

	// ErrInvalidLayerIndex is returned by structural operations that name a
	// layer that does not exist.
	ErrInvalidLayerIndex = errors.New("pixlab: invalid layer index")

	// ErrDimensionMismatch is returned when a stored snapshot or record does
	// not fit the current document. The document is left untouched.
	ErrDimensionMismatch = errors.New("pixlab: dimension mismatch")

	// ErrInvalidDimensions is returned when a buffer or document is created
	// with a width or height below 1.
	ErrInvalidDimensions = errors.New("pixlab: invalid dimensions")

	// ErrLayerLocked is returned when a drawing gesture starts on a locked
	// layer.
	ErrLayerLocked = errors.New("pixlab: layer is locked")
)
