package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrToolFailure is wrapped when the external extraction utility exits
	// with an error.
	ErrToolFailure = errors.New("external extraction tool failed")
	// ErrClearBlocked is wrapped when the destination cannot be emptied.
	ErrClearBlocked = errors.New("destination directory could not be cleared")
	// ErrUnsafePath is wrapped when an archive entry would land outside the
	// destination directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// ExtractError describes a failed extraction step.
type ExtractError struct {
	Op   string // "clear", "sniff", "unzip", "tool"
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s (%s): %v", e.Path, e.Op, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
