package viewer

import (
	"context"
	"fmt"
	"image"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/layout"
	"github.com/yuanying/acbfview/internal/render"
)

type stepFunc func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error)

// navigate applies step to a copy of the state, renders the result and
// commits both. A failed render leaves the previous state and page.
func (s *Session) navigate(ctx context.Context, step stepFunc) (*render.Result, error) {
	if !s.worker.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer s.worker.Release(1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	doc, st, prev := s.doc, s.state, s.current
	s.mu.Unlock()
	if doc == nil {
		return nil, ErrNoDocument
	}

	m, err := step(&st, doc)
	if err != nil {
		return nil, err
	}
	if !m.Changed && prev != nil {
		return prev, nil
	}

	res, err := s.renderPage(doc, st)
	if err != nil {
		return nil, err
	}
	// A frame without area keeps the panel view already on screen.
	if res.FrameSkipped && prev != nil && prev.Panel != nil && prev.Page == res.Page {
		s.mu.Lock()
		s.state = st
		s.mu.Unlock()
		return prev, nil
	}
	if m.Anchor && res.Zoom == layout.ZoomFitWidth {
		st.FitWidthStart = layout.FitWidthStart(st.Rotation, res.Transform.Source, st.Viewport)
		res.AnchorFitWidth(st.FitWidthStart, st.Viewport)
	}
	if m.Align == layout.AlignLower {
		res.ScrollToBottom(st.Viewport)
	}

	if m.Animate && s.opts.Animate && !m.Reload && prev != nil && prev.Panel != nil && res.Panel != nil {
		if err := s.animate(ctx, prev, res); err != nil {
			s.logger.Debug("zoom animation interrupted", "error", err)
		}
	}

	s.mu.Lock()
	s.state = st
	s.current = res
	s.mu.Unlock()
	return res, nil
}

// Next advances one frame or page.
func (s *Session) Next(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.Next(doc), nil
	})
}

// Prev goes back one frame or page.
func (s *Session) Prev(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.Prev(doc), nil
	})
}

// First shows the cover.
func (s *Session) First(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.First(doc), nil
	})
}

// Last shows the last page.
func (s *Session) Last(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.Last(doc), nil
	})
}

// GoTo shows displayed page n.
func (s *Session) GoTo(ctx context.Context, n int) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.GoTo(doc, n)
	})
}

// CycleZoom switches to the next zoom mode.
func (s *Session) CycleZoom(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.CycleZoom(doc), nil
	})
}

// Rotate turns the page 90 degrees counter-clockwise.
func (s *Session) Rotate(ctx context.Context) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, _ *acbf.Document) (layout.Move, error) {
		return st.Rotate(), nil
	})
}

// SetLanguage selects the text layer at idx.
func (s *Session) SetLanguage(ctx context.Context, idx int) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		return st.SetLanguage(idx, max(len(doc.Info.Languages), 1)), nil
	})
}

// SetViewport re-lays out the page for a new viewport. The active frame
// is kept.
func (s *Session) SetViewport(ctx context.Context, vp layout.Size) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, _ *acbf.Document) (layout.Move, error) {
		if st.Viewport == vp {
			return layout.Move{}, nil
		}
		st.Viewport = vp
		return layout.Move{Changed: true, Rerender: true, Anchor: st.Zoom == layout.ZoomFitWidth}, nil
	})
}

// SetEnhancements changes the image adjustment sliders.
func (s *Session) SetEnhancements(ctx context.Context, e layout.Enhancements) (*render.Result, error) {
	return s.navigate(ctx, func(st *layout.RenderState, _ *acbf.Document) (layout.Move, error) {
		e = e.Clamp()
		if st.Enhance == e {
			return layout.Move{}, nil
		}
		st.Enhance = e
		return layout.Move{Changed: true, Rerender: true}, nil
	})
}

// ClickResult describes what a click did.
type ClickResult struct {
	// Reference is set when the click hit a reference hotspot; the
	// caller shows its text and navigation does not happen.
	Reference *acbf.Reference
	Action    layout.Action
	Page      *render.Result // page shown after the click
}

// Click handles a click at pt in viewport coordinates: references win,
// then jumps, then the navigation zones.
func (s *Session) Click(ctx context.Context, pt image.Point) (ClickResult, error) {
	s.mu.Lock()
	doc, st, cur := s.doc, s.state, s.current
	s.mu.Unlock()
	if doc == nil {
		return ClickResult{}, ErrNoDocument
	}

	if cur != nil {
		onCanvas := pt.Add(cur.Scroll)
		if r, ok := layout.HitTest(cur.Regions, onCanvas, layout.RegionReference); ok {
			ref := doc.References[r.Ref]
			ref.Points = r.Polygon
			return ClickResult{Reference: &ref, Page: cur}, nil
		}
		if r, ok := layout.HitTest(cur.Regions, onCanvas, layout.RegionJump); ok {
			// Jump targets are document page indexes; the cover is 0.
			res, err := s.GoTo(ctx, r.Page+1)
			return ClickResult{Page: res}, err
		}
	}

	if cur != nil && cur.Image != nil {
		// zones follow the rotation the page was drawn with
		st.Rotation = cur.Transform.Rotation
	}
	a := st.ClickAction(pt)
	var res *render.Result
	var err error
	switch a {
	case layout.ActionNext:
		res, err = s.Next(ctx)
	case layout.ActionPrev:
		res, err = s.Prev(ctx)
	default:
		res = cur
	}
	return ClickResult{Action: a, Page: res}, err
}

// Position is an explicit reading position.
type Position struct {
	Page     int // displayed page, 1 is the cover
	Frame    int
	Zoom     layout.ZoomMode
	Rotation int
	Language int
}

// Seek jumps straight to p. Page, frame and language are clamped to what
// the book offers, as when restoring from history.
func (s *Session) Seek(ctx context.Context, p Position) (*render.Result, error) {
	if p.Rotation%90 != 0 {
		return nil, fmt.Errorf("invalid rotation %d: must be a multiple of 90", p.Rotation)
	}
	return s.navigate(ctx, func(st *layout.RenderState, doc *acbf.Document) (layout.Move, error) {
		st.Restore(doc, p.Page, p.Frame, p.Zoom, p.Language, max(len(doc.Info.Languages), 1))
		st.Rotation = ((p.Rotation % 360) + 360) % 360
		st.FitWidthStart = 0
		return layout.Move{Changed: true, Rerender: true, Anchor: st.Zoom == layout.ZoomFitWidth}, nil
	})
}
