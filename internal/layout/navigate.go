package layout

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange is returned by GoTo for a page outside 1..PagesTotal()+1.
var ErrPageOutOfRange = errors.New("page out of range")

// Align is where fit-width mode scrolls to after a page change.
type Align int

const (
	AlignNone  Align = iota
	AlignUpper       // top of the page
	AlignLower       // bottom of the page
)

// Move tells the caller what a state transition requires.
type Move struct {
	Changed     bool  // state differs from before
	Reload      bool  // the page changed and its bitmap must be rebuilt
	Rerender    bool  // same page, new geometry
	Align       Align // fit-width scroll anchor
	ZoomToFrame bool  // scroll/scale to s.Frame
	Animate     bool  // the zoom may be animated
	Anchor      bool  // recompute FitWidthStart for the current rotation
}

// Next advances one frame in panel zoom, otherwise one page. Moving past
// the last frame of a page enters the next page at frame 1.
func (s *RenderState) Next(b Book) Move {
	last := b.PagesTotal() + 1
	if s.Zoom == ZoomPanel {
		if s.Frame < framesOn(b, s.Page) {
			s.Frame++
			return Move{Changed: true, ZoomToFrame: true, Animate: true}
		}
		if s.Page >= last {
			return Move{}
		}
		s.Page++
		s.Frame = 1
		s.FitWidthStart = 0
		return Move{Changed: true, Reload: true, ZoomToFrame: framesOn(b, s.Page) > 0}
	}
	if s.Page >= last {
		return Move{}
	}
	s.Page++
	s.Frame = 1
	s.FitWidthStart = 0
	return Move{Changed: true, Reload: true, Align: AlignUpper}
}

// Prev goes back one frame in panel zoom, otherwise one page. From frame 1
// the previous page is entered at its last frame.
func (s *RenderState) Prev(b Book) Move {
	if s.Zoom == ZoomPanel {
		if s.Frame > 1 {
			s.Frame--
			return Move{Changed: true, ZoomToFrame: true, Animate: true}
		}
		if s.Page <= 1 {
			return Move{}
		}
		s.Page--
		s.Frame = max(framesOn(b, s.Page), 1)
		return Move{Changed: true, Reload: true, ZoomToFrame: framesOn(b, s.Page) > 0}
	}
	if s.Page <= 1 {
		return Move{}
	}
	s.Page--
	s.Frame = 1
	return Move{Changed: true, Reload: true, Align: AlignLower}
}

// First jumps to the cover.
func (s *RenderState) First(b Book) Move {
	if s.Page == 1 {
		return Move{}
	}
	s.Page = 1
	s.Frame = 1
	m := Move{Changed: true, Reload: true, Align: AlignUpper}
	switch s.Zoom {
	case ZoomFitWidth:
		m.Anchor = true
	case ZoomPanel:
		m.ZoomToFrame = framesOn(b, s.Page) > 0
	}
	return m
}

// Last jumps to the last page; in panel zoom to its last frame.
func (s *RenderState) Last(b Book) Move {
	last := b.PagesTotal() + 1
	switch s.Zoom {
	case ZoomPanel:
		s.Page = last
		s.Frame = max(framesOn(b, last), 1)
		return Move{Changed: true, Reload: true, ZoomToFrame: framesOn(b, last) > 0}
	case ZoomFitWidth:
		s.Page = last
		return Move{Changed: true, Reload: true, Anchor: true}
	default:
		if s.Page >= last {
			return Move{}
		}
		s.Page = last
		s.Frame = 1
		s.FitWidthStart = 0
		return Move{Changed: true, Reload: true}
	}
}

// GoTo jumps to displayed page n, 1 ≤ n ≤ PagesTotal()+1.
func (s *RenderState) GoTo(b Book, n int) (Move, error) {
	last := b.PagesTotal() + 1
	if n < 1 || n > last {
		return Move{}, fmt.Errorf("%w: %d (1-%d)", ErrPageOutOfRange, n, last)
	}
	if n == s.Page {
		return Move{}, nil
	}
	s.Page = n
	s.Frame = 1
	return Move{
		Changed:     true,
		Reload:      true,
		Align:       AlignUpper,
		ZoomToFrame: s.Zoom == ZoomPanel && framesOn(b, n) > 0,
	}, nil
}

// CycleZoom steps through whole page, fit width, panel and back, skipping
// panel zoom on pages without frames.
func (s *RenderState) CycleZoom(b Book) Move {
	frames := framesOn(b, s.Page)
	idx := s.ZoomIndex + 1
	if idx == 1 && frames == 0 {
		idx = 3
	}
	if idx == 2 && frames == 0 {
		idx = 0
	}
	if idx >= len(zoomCycle) {
		idx = 0
	}
	s.ZoomIndex = idx
	s.Zoom = zoomCycle[idx]

	m := Move{Changed: true, Rerender: true, Align: AlignUpper}
	if s.Zoom == ZoomFitWidth {
		m.Anchor = true
	}
	if s.Zoom == ZoomPanel && frames > 0 {
		if s.Frame < 1 || s.Frame > frames {
			s.Frame = 1
		}
		m.ZoomToFrame = true
	}
	return m
}

// Rotate turns the page a further 90 degrees counter-clockwise.
func (s *RenderState) Rotate() Move {
	s.Rotation = (s.Rotation + 90) % 360
	return Move{Changed: true, Rerender: true, Align: AlignUpper, Anchor: s.Zoom == ZoomFitWidth}
}

// SetLanguage selects the text layer at idx, clamped to the n available.
func (s *RenderState) SetLanguage(idx, n int) Move {
	if idx < 0 || idx >= n {
		idx = 0
	}
	if idx == s.Language {
		return Move{}
	}
	s.Language = idx
	return Move{Changed: true, Reload: true}
}
