package layout

import (
	"image"
	"math"
)

// MinCanvasMargin is the smallest padding around a panel-zoom canvas.
const MinCanvasMargin = 1000

// WholePageScale fits img entirely inside vp. Without stretch the image is
// never enlarged.
func WholePageScale(img, vp Size, stretch bool) float64 {
	if img.Empty() || vp.Empty() {
		return 0
	}
	s := math.Min(float64(vp.W)/float64(img.W), float64(vp.H)/float64(img.H))
	if !stretch && s > 1 {
		s = 1
	}
	return s
}

// FitWidthScale makes img exactly as wide as vp.
func FitWidthScale(img, vp Size) float64 {
	if img.Empty() || vp.W <= 0 {
		return 0
	}
	return float64(vp.W) / float64(img.W)
}

// PanelScale fits the frame bounding box inside vp. ok is false when the
// frame has no width or height.
func PanelScale(frame image.Rectangle, vp Size) (scale float64, ok bool) {
	fw, fh := frame.Dx(), frame.Dy()
	if fw <= 0 || fh <= 0 || vp.Empty() {
		return 0, false
	}
	return math.Min(float64(vp.W)/float64(fw), float64(vp.H)/float64(fh)), true
}

// Scaled returns img multiplied by scale, rounded to whole pixels.
func Scaled(img Size, scale float64) Size {
	return Size{
		W: int(math.Round(float64(img.W) * scale)),
		H: int(math.Round(float64(img.H) * scale)),
	}
}

// CanvasMargin is the padding on every side of a panel-zoom canvas, large
// enough that any panel can be centered without showing an edge.
func CanvasMargin(vp Size) int {
	return max(MinCanvasMargin, vp.W, vp.H)
}

// Offset is a scroll position in canvas pixels.
type Offset struct {
	X, Y float64
}

// Point rounds o to whole pixels.
func (o Offset) Point() image.Point {
	return image.Pt(int(math.Round(o.X)), int(math.Round(o.Y)))
}

// ZoomTarget is the scroll offset that centers frame, scaled by scale,
// in vp on a canvas padded by margin.
func ZoomTarget(frame image.Rectangle, scale float64, vp Size, margin int) Offset {
	fw := float64(frame.Dx()) * scale
	fh := float64(frame.Dy()) * scale
	return Offset{
		X: float64(frame.Min.X)*scale - math.Trunc((float64(vp.W)-fw)/2) + float64(margin),
		Y: float64(frame.Min.Y)*scale - math.Trunc((float64(vp.H)-fh)/2) + float64(margin),
	}
}

// FitWidthStart is the vertical offset that keeps the visual start of a
// rotated page in view in fit-width mode. img is the unrotated size.
func FitWidthStart(rotation int, img, vp Size) int {
	if img.Empty() {
		return 0
	}
	switch rotation {
	case 180:
		return vp.H - int(float64(img.H)/(float64(img.W)/float64(vp.W)))
	case 270:
		return vp.W - int(float64(img.H)/(float64(img.W)/float64(vp.H)))
	default:
		return 0
	}
}

// RotatedSize returns the size of img after rotation.
func RotatedSize(img Size, rotation int) Size {
	if rotation == 90 || rotation == 270 {
		return Size{W: img.H, H: img.W}
	}
	return img
}

// RotatePoint maps a point of a w×h image onto the same image rotated
// counter-clockwise by rotation degrees.
func RotatePoint(pt image.Point, img Size, rotation int) image.Point {
	switch rotation {
	case 90:
		return image.Pt(pt.Y, img.W-pt.X)
	case 180:
		return image.Pt(img.W-pt.X, img.H-pt.Y)
	case 270:
		return image.Pt(img.H-pt.Y, pt.X)
	default:
		return pt
	}
}

// UnrotatePoint is the inverse of RotatePoint.
func UnrotatePoint(pt image.Point, img Size, rotation int) image.Point {
	switch rotation {
	case 90:
		return image.Pt(img.W-pt.Y, pt.X)
	case 180:
		return image.Pt(img.W-pt.X, img.H-pt.Y)
	case 270:
		return image.Pt(pt.Y, img.H-pt.X)
	default:
		return pt
	}
}

// PanelView is the geometry of one panel-zoom step.
type PanelView struct {
	Scale  float64
	Image  Size // scaled page image
	Canvas Size // scaled image plus margin on every side
	Margin int
	Target Offset // scroll offset centering the frame
}

// ComputePanelView sizes the canvas and target for frame, both given in
// the space of the rotated page image img. ok is false for a degenerate
// frame, in which case the view should stay as it is.
func ComputePanelView(img Size, frame image.Rectangle, vp Size) (PanelView, bool) {
	scale, ok := PanelScale(frame, vp)
	if !ok {
		return PanelView{}, false
	}
	margin := CanvasMargin(vp)
	scaled := Scaled(img, scale)
	return PanelView{
		Scale:  scale,
		Image:  scaled,
		Canvas: Size{W: scaled.W + 2*margin, H: scaled.H + 2*margin},
		Margin: margin,
		Target: ZoomTarget(frame, scale, vp, margin),
	}, true
}
