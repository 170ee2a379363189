package layout

import (
	"fmt"
	"strings"
)

// ZoomMode is the page display mode. The numeric values are persisted in
// reading history.
type ZoomMode int

const (
	ZoomWholePage ZoomMode = 1
	ZoomFitWidth  ZoomMode = 2
	ZoomPanel     ZoomMode = 3
)

func (z ZoomMode) String() string {
	switch z {
	case ZoomWholePage:
		return "whole"
	case ZoomFitWidth:
		return "width"
	case ZoomPanel:
		return "panel"
	default:
		return fmt.Sprintf("ZoomMode(%d)", int(z))
	}
}

// ParseZoomMode accepts "whole", "width", "panel" or their numbers.
func ParseZoomMode(s string) (ZoomMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "whole", "page", "1":
		return ZoomWholePage, nil
	case "width", "fit-width", "2":
		return ZoomFitWidth, nil
	case "panel", "frame", "3":
		return ZoomPanel, nil
	default:
		return 0, fmt.Errorf("invalid zoom mode: %q (allowed: whole, width, panel)", s)
	}
}

// zoomCycle is walked by CycleZoom; FitWidth appears twice so the cycle
// goes in and back out.
var zoomCycle = [...]ZoomMode{ZoomWholePage, ZoomFitWidth, ZoomPanel, ZoomFitWidth}

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// Enhancements are the image adjustment sliders. Zero means unchanged.
type Enhancements struct {
	Brightness float64 // [-0.9, 1]
	Contrast   float64 // [-0.9, 1]
	Sharpness  float64 // [-2, 2]
	Saturation float64 // [-1, 1]
}

// Clamp limits every value to its slider range.
func (e Enhancements) Clamp() Enhancements {
	return Enhancements{
		Brightness: clamp(e.Brightness, -0.9, 1),
		Contrast:   clamp(e.Contrast, -0.9, 1),
		Sharpness:  clamp(e.Sharpness, -2, 2),
		Saturation: clamp(e.Saturation, -1, 1),
	}
}

// IsZero reports whether no adjustment is requested.
func (e Enhancements) IsZero() bool {
	return e == Enhancements{}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Book is the part of a document the layout state machine needs. Page
// indexes are document indexes: 0 is the cover.
type Book interface {
	PagesTotal() int
	FrameCount(page int) int
}

// RenderState is everything that determines what the viewer shows.
type RenderState struct {
	Zoom      ZoomMode
	ZoomIndex int // position in the zoom cycle
	// Page is the displayed page counter: 1 is the cover and
	// PagesTotal()+1 the last body page.
	Page          int
	Frame         int // 1-based active frame in panel zoom
	Rotation      int // 0, 90, 180 or 270, counter-clockwise
	Viewport      Size
	Enhance       Enhancements
	FitWidthStart int // vertical image offset in fit-width mode
	Language      int // index into the document languages
}

// NewState returns the state for a freshly opened book.
func NewState(viewport Size) RenderState {
	return RenderState{
		Zoom:     ZoomWholePage,
		Page:     1,
		Frame:    1,
		Viewport: viewport,
	}
}

// DocumentPage returns the document page index shown for s.Page.
func (s *RenderState) DocumentPage() int {
	return s.Page - 1
}

// SetZoom jumps straight to zoom mode z.
func (s *RenderState) SetZoom(z ZoomMode) {
	s.Zoom = z
	for i, m := range zoomCycle {
		if m == z {
			s.ZoomIndex = i
			return
		}
	}
}

// EffectiveZoom is the mode actually used to lay out the current page:
// panel zoom on a page without frames shows the whole page.
func (s *RenderState) EffectiveZoom(b Book) ZoomMode {
	if s.Zoom == ZoomPanel && framesOn(b, s.Page) == 0 {
		return ZoomWholePage
	}
	return s.Zoom
}

// Restore sets page, frame, zoom and language from reading history,
// clamping each to what b offers.
func (s *RenderState) Restore(b Book, page, frame int, zoom ZoomMode, language, languages int) {
	last := b.PagesTotal() + 1
	if page < 1 || page > last {
		page = 1
	}
	s.Page = page
	s.Frame = 1
	if n := framesOn(b, page); frame >= 1 && frame <= n {
		s.Frame = frame
	}
	switch zoom {
	case ZoomWholePage, ZoomFitWidth, ZoomPanel:
		s.SetZoom(zoom)
	default:
		s.SetZoom(ZoomWholePage)
	}
	if language < 0 || language >= languages {
		language = 0
	}
	s.Language = language
}

// ReadingProgress returns how far into the book the state is, in [0,1],
// counting frames as fractions of a page.
func (s *RenderState) ReadingProgress(b Book) float64 {
	pages := float64(b.PagesTotal() + 1)
	p := float64(s.Page) / pages
	if n := framesOn(b, s.Page); n > 0 && s.Frame > 1 {
		p += 1 / pages / float64(n) * float64(s.Frame-1)
	}
	if p > 1 {
		p = 1
	}
	return p
}

func framesOn(b Book, displayed int) int {
	return b.FrameCount(displayed - 1)
}
