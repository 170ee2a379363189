package render

import (
	"errors"
	"fmt"

	"github.com/yuanying/acbfview/internal/acbf"
)

// ErrNoPage is returned when the requested page does not exist.
var ErrNoPage = errors.New("page does not exist")

// ImageLoadError reports a page image that could not be read or decoded.
type ImageLoadError struct {
	Href string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("load image %q: %v", e.Href, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// FontLookupError reports a configured font file that could not be loaded.
type FontLookupError struct {
	Style acbf.Style
	Path  string
	Err   error
}

func (e *FontLookupError) Error() string {
	return fmt.Sprintf("font for %s (%s): %v", e.Style, e.Path, e.Err)
}

func (e *FontLookupError) Unwrap() error { return e.Err }

// ErrEmptyViewport is returned when the viewport has no area.
var ErrEmptyViewport = errors.New("viewport has no area")
