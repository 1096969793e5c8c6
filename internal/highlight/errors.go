package highlight

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSelection is returned when a selection is empty, inverted,
	// out of bounds, or contains only whitespace.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrInvalidRange is returned when a range cannot be applied to an index.
	ErrInvalidRange = errors.New("invalid range")
	// ErrOverlappingHighlight is returned when a range touches text that is
	// already wrapped by another highlight marker.
	ErrOverlappingHighlight = errors.New("overlapping highlight")
	// ErrStaleIndex is returned when the tree was mutated after extraction.
	ErrStaleIndex = errors.New("text index no longer matches document")
)

// SelectionError describes why a selection was rejected.
type SelectionError struct {
	Start  int
	End    int
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection [%d,%d): %s", e.Start, e.End, e.Reason)
}

// Unwrap lets callers match SelectionError with errors.Is(err, ErrInvalidSelection).
func (e *SelectionError) Unwrap() error {
	return ErrInvalidSelection
}
