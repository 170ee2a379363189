package importer

import (
	"errors"
	"fmt"
)

// ErrScreenImageMissing is wrapped when an ACV screen index names no image.
var ErrScreenImageMissing = errors.New("no image matches screen index")

// SynthesisError reports a sidecar or image that prevented building a
// document.
type SynthesisError struct {
	File string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize from %s: %v", e.File, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
