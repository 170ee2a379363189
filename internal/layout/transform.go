package layout

import (
	"image"
	"math"

	"github.com/yuanying/acbfview/internal/acbf"
)

// Transform maps page-image coordinates to the coordinates of the rendered
// bitmap or canvas. Page coordinates are in the stored pixel space of the
// image file; the stages are orientation, crop, rotation, scale and origin.
type Transform struct {
	Orientation Orientation // EXIF orientation applied at load
	Raw         Size        // stored image size, needed by Orientation

	Crop     image.Point // top-left of the kept area after border trimming
	Source   Size        // size after cropping, before rotation
	Rotation int
	Scale    float64
	Origin   image.Point // where the scaled image sits on the canvas
}

// Apply maps a source point to output space.
func (t Transform) Apply(pt image.Point) image.Point {
	p := RotatePoint(t.Orientation.Apply(pt, t.Raw).Sub(t.Crop), t.Source, t.Rotation)
	return image.Pt(
		int(math.Round(float64(p.X)*t.Scale)),
		int(math.Round(float64(p.Y)*t.Scale)),
	).Add(t.Origin)
}

// Invert maps an output point back to source space.
func (t Transform) Invert(pt image.Point) image.Point {
	if t.Scale == 0 {
		return t.Orientation.Invert(t.Crop, t.Raw)
	}
	p := pt.Sub(t.Origin)
	p = image.Pt(
		int(math.Floor(float64(p.X)/t.Scale)),
		int(math.Floor(float64(p.Y)/t.Scale)),
	)
	return t.Orientation.Invert(UnrotatePoint(p, t.Source, t.Rotation).Add(t.Crop), t.Raw)
}

// ApplyPolygon maps every vertex of p.
func (t Transform) ApplyPolygon(p acbf.Polygon) acbf.Polygon {
	out := make(acbf.Polygon, len(p))
	for i, pt := range p {
		out[i] = t.Apply(pt)
	}
	return out
}

// ApplyRect maps r and returns the bounding box of the result.
func (t Transform) ApplyRect(r image.Rectangle) image.Rectangle {
	return t.ApplyPolygon(acbf.Rect(r)).Bounds()
}

// RegionKind classifies a hit-testable polygon.
type RegionKind int

const (
	RegionFrame RegionKind = iota
	RegionTextArea
	RegionReference
	RegionJump
)

func (k RegionKind) String() string {
	switch k {
	case RegionFrame:
		return "frame"
	case RegionTextArea:
		return "text-area"
	case RegionReference:
		return "reference"
	case RegionJump:
		return "jump"
	default:
		return "unknown"
	}
}

// Region is a polygon in output space.
type Region struct {
	Kind    RegionKind
	Index   int // position within its kind on the page
	Polygon acbf.Polygon
	Ref     string // reference id for RegionReference
	Page    int    // target page for RegionJump
}

// PageRegions collects the hit-testable polygons of page p in output
// space. Reference and jump regions come first so they win hit tests.
func PageRegions(doc *acbf.Document, page int, lang string, t Transform) []Region {
	p := doc.Page(page)
	if p == nil {
		return nil
	}
	var regions []Region
	for i, ref := range doc.PageReferences(page) {
		regions = append(regions, Region{Kind: RegionReference, Index: i, Polygon: t.ApplyPolygon(ref.Points), Ref: ref.ID})
	}
	for i, j := range p.Jumps {
		regions = append(regions, Region{Kind: RegionJump, Index: i, Polygon: t.ApplyPolygon(j.Points), Page: j.Page})
	}
	if layer := p.TextLayers[lang]; layer != nil {
		for i, a := range layer.Areas {
			regions = append(regions, Region{Kind: RegionTextArea, Index: i, Polygon: t.ApplyPolygon(a.Points)})
		}
	}
	for i, f := range p.Frames {
		regions = append(regions, Region{Kind: RegionFrame, Index: i, Polygon: t.ApplyPolygon(f.Points)})
	}
	return regions
}

// HitTest returns the first region of one of kinds containing pt. No kinds
// means any kind.
func HitTest(regions []Region, pt image.Point, kinds ...RegionKind) (Region, bool) {
	for _, r := range regions {
		if len(kinds) > 0 && !hasKind(kinds, r.Kind) {
			continue
		}
		if r.Polygon.Contains(pt) {
			return r, true
		}
	}
	return Region{}, false
}

func hasKind(kinds []RegionKind, k RegionKind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// Action is the navigation a click resolves to.
type Action int

const (
	ActionNone Action = iota
	ActionNext
	ActionPrev
	ActionCenter
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrev:
		return "prev"
	case ActionCenter:
		return "center"
	default:
		return "none"
	}
}

// ClickAction maps a click at pt in the viewport to a navigation action.
// The outer thirds navigate; in fit-width mode the top and bottom thirds do,
// and each direction flips with the rotation so "next" follows the page.
func (s *RenderState) ClickAction(pt image.Point) Action {
	w, h := float64(s.Viewport.W), float64(s.Viewport.H)
	x, y := float64(pt.X), float64(pt.Y)

	zone := func(v, extent float64, forward bool) Action {
		switch {
		case v > extent*0.66:
			if forward {
				return ActionNext
			}
			return ActionPrev
		case v < extent*0.33:
			if forward {
				return ActionPrev
			}
			return ActionNext
		}
		return ActionNone
	}

	var a Action
	if s.Zoom == ZoomFitWidth {
		switch s.Rotation {
		case 0:
			a = zone(y, h, true)
		case 180:
			a = zone(y, h, false)
		case 90:
			a = zone(x, w, true)
		case 270:
			a = zone(x, w, false)
		}
	} else {
		a = zone(x, w, s.Rotation == 0 || s.Rotation == 90)
	}
	if a != ActionNone {
		return a
	}
	if x > w*0.33 && x < w*0.66 && y > h*0.33 && y < h*0.66 {
		return ActionCenter
	}
	return ActionNone
}
