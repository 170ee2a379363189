package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/layout"
)

// Result is one rendered page.
type Result struct {
	// Image is the scaled page image, nil for a background-only page.
	Image *image.NRGBA
	// Source is the composed page before scaling: cropped, enhanced,
	// with text and rotated. Animation rescales it step by step.
	Source *image.NRGBA

	Canvas  layout.Size // full drawing surface
	Origin  image.Point // where Image sits on the canvas
	Scroll  image.Point // canvas offset shown at the viewport's top-left
	BgColor color.NRGBA
	Scale   float64
	Zoom    layout.ZoomMode // effective mode used for this page

	Page      int // document page index
	Transform layout.Transform
	Regions   []layout.Region
	Panel     *layout.PanelView // set in panel zoom
	// FrameSkipped is set when panel zoom was asked for a frame without
	// area and the page was laid out whole instead.
	FrameSkipped bool
}

// Compose draws the whole canvas.
func (r *Result) Compose() *image.NRGBA {
	return r.compose(image.Rect(0, 0, r.Canvas.W, r.Canvas.H))
}

// View draws the part of the canvas visible in a viewport of size vp.
func (r *Result) View(vp layout.Size) *image.NRGBA {
	return r.compose(image.Rectangle{Min: r.Scroll, Max: r.Scroll.Add(image.Pt(vp.W, vp.H))})
}

func (r *Result) compose(area image.Rectangle) *image.NRGBA {
	out := imaging.New(max(area.Dx(), 1), max(area.Dy(), 1), r.BgColor)
	if r.Image == nil {
		return out
	}
	return imaging.Paste(out, r.Image, r.Origin.Sub(area.Min))
}

// AnchorFitWidth scrolls a fit-width page so that the image offset start
// is honored. Other zoom modes are left alone.
func (r *Result) AnchorFitWidth(start int, vp layout.Size) {
	if r.Zoom != layout.ZoomFitWidth {
		return
	}
	r.Scroll.Y = min(max(0, -start), r.maxScrollY(vp))
}

// ScrollToBottom shows the end of a fit-width page.
func (r *Result) ScrollToBottom(vp layout.Size) {
	if r.Zoom != layout.ZoomFitWidth {
		return
	}
	r.Scroll.Y = r.maxScrollY(vp)
}

func (r *Result) maxScrollY(vp layout.Size) int {
	return max(0, r.Canvas.H-vp.H)
}

// Renderer turns document pages into bitmaps for a RenderState.
type Renderer struct {
	opts     Options
	fonts    *FontSet
	fallback *FontSet
}

// NewRenderer returns a renderer for opts.
func NewRenderer(opts Options) *Renderer {
	opts.normalize()
	return &Renderer{
		opts:     opts,
		fonts:    NewFontSet(opts.Fonts),
		fallback: DefaultFontSet(opts.Fonts),
	}
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// Rescale resizes a page source with the configured filter.
func (r *Renderer) Rescale(src image.Image, size layout.Size) *image.NRGBA {
	return Resize(src, size, r.opts.Filter)
}

// RenderPage renders the page s points at. Image failures degrade to a
// background-only page; only a missing page or viewport is an error.
func (r *Renderer) RenderPage(doc *acbf.Document, s layout.RenderState) (*Result, error) {
	logger := r.opts.Logger
	if s.Viewport.Empty() {
		return nil, ErrEmptyViewport
	}
	idx := s.DocumentPage()
	page := doc.Page(idx)
	if page == nil {
		return nil, ErrNoPage
	}

	res := &Result{
		Page:    idx,
		Canvas:  s.Viewport,
		BgColor: colorOr(doc.PageBgColor(idx), color.NRGBA{A: 255}),
		Zoom:    layout.ZoomWholePage,
	}

	img, orient, err := LoadImage(doc, page.Image, r.opts.ExifOrientation)
	if err != nil {
		if page.Image != "" {
			logger.Warn("page image unavailable, showing background", "page", idx, "href", page.Image, "error", err)
		}
		return res, nil
	}
	raw := orient.Size(layout.Size{W: img.Bounds().Dx(), H: img.Bounds().Dy()})

	var crop image.Point
	if r.opts.CropBorder {
		img, crop = TrimBorder(img)
	}
	img = Enhance(img, s.Enhance)
	cropped := layout.Size{W: img.Bounds().Dx(), H: img.Bounds().Dy()}
	toImage := layout.Transform{Orientation: orient, Raw: raw, Crop: crop, Source: cropped, Scale: 1}

	lang := doc.Language(s.Language)
	if lang.Show {
		if layer := page.TextLayers[lang.Code]; layer != nil {
			img, err = r.drawText(img, layer, toImage, idx)
			if err != nil {
				return nil, err
			}
		}
	}

	zoom := s.EffectiveZoom(doc)
	rotation := s.Rotation
	if r.opts.AutoRotate && zoom == layout.ZoomWholePage {
		rotation = layout.BestFitRotation(cropped, rotation, s.Viewport)
	}
	toImage.Rotation = rotation

	img = Rotate(img, rotation)
	src := layout.Size{W: img.Bounds().Dx(), H: img.Bounds().Dy()}
	res.Source = img

	var scaled layout.Size
	switch zoom {
	case layout.ZoomFitWidth:
		res.Scale = layout.FitWidthScale(src, s.Viewport)
		scaled = layout.Scaled(src, res.Scale)
		res.Canvas = layout.Size{W: s.Viewport.W, H: scaled.H}
		res.Zoom = zoom
		res.AnchorFitWidth(s.FitWidthStart, s.Viewport)
	case layout.ZoomPanel:
		frame := max(0, min(s.Frame-1, len(page.Frames)-1))
		box := toImage.ApplyRect(page.Frames[frame].Bounds())
		pv, ok := layout.ComputePanelView(src, box, s.Viewport)
		if !ok {
			logger.Warn("frame has no area, skipping panel zoom", "page", idx, "frame", frame+1)
			zoom = layout.ZoomWholePage
			res.FrameSkipped = true
			break
		}
		res.Panel = &pv
		res.Scale = pv.Scale
		scaled = pv.Image
		res.Canvas = pv.Canvas
		res.Origin = image.Pt(pv.Margin, pv.Margin)
		res.Scroll = pv.Target.Point()
		res.BgColor = colorOr(doc.FrameBgColor(idx, frame), res.BgColor)
	}
	if zoom == layout.ZoomWholePage {
		res.Scale = layout.WholePageScale(src, s.Viewport, r.opts.Stretch)
		scaled = layout.Scaled(src, res.Scale)
		res.Canvas = s.Viewport
		res.Origin = image.Pt((s.Viewport.W-scaled.W)/2, (s.Viewport.H-scaled.H)/2)
	}
	res.Zoom = zoom

	res.Image = Resize(img, scaled, r.opts.Filter)
	res.Transform = toImage
	res.Transform.Scale = res.Scale
	res.Transform.Origin = res.Origin
	res.Regions = layout.PageRegions(doc, idx, lang.Code, res.Transform)
	return res, nil
}

// drawText composites layer onto a copy of img. A font that cannot be
// loaded is retried once with the bundled fonts.
func (r *Renderer) drawText(img *image.NRGBA, layer *acbf.TextLayer, toImage layout.Transform, page int) (*image.NRGBA, error) {
	out := imaging.Clone(img)
	err := RenderTextLayer(out, layer, toImage, r.fonts, r.opts)
	var fe *FontLookupError
	if !errors.As(err, &fe) {
		return out, err
	}
	r.opts.Logger.Warn("font unavailable, using bundled fonts", "page", page, "style", fe.Style.String(), "path", fe.Path, "error", fe.Err)

	out = imaging.Clone(img)
	if err := RenderTextLayer(out, layer, toImage, r.fallback, r.opts); err != nil {
		return nil, err
	}
	return out, nil
}
