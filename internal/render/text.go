package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/layout"
)

// DefaultTextBgColor fills text areas when neither the area nor its layer
// sets a background.
const DefaultTextBgColor = "#ffffff"

// AreaBackground returns the fill of area in layer: the area bgcolor, then
// the layer bgcolor, then white. The page background is not used because
// comic bodies are often black and text would vanish into it.
func AreaBackground(area acbf.TextArea, layer *acbf.TextLayer) color.NRGBA {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if area.BgColor != "" {
		return colorOr(area.BgColor, white)
	}
	if layer != nil && layer.BgColor != "" {
		return colorOr(layer.BgColor, white)
	}
	return colorOr(DefaultTextBgColor, white)
}

// RenderTextLayer draws every area of layer onto dst. Area polygons are
// mapped through toImage first, so an oriented or trimmed page keeps its
// text in place.
func RenderTextLayer(dst *image.NRGBA, layer *acbf.TextLayer, toImage layout.Transform, fonts *FontSet, opts Options) error {
	if layer == nil {
		return nil
	}
	for _, area := range layer.Areas {
		area.Points = toImage.ApplyPolygon(area.Points)
		if err := RenderTextArea(dst, area, AreaBackground(area, layer), fonts, opts); err != nil {
			return err
		}
	}
	return nil
}

// RenderTextArea fills the bounding box of area with bg and draws its
// paragraphs centered inside it. Glyphs are clipped to the bounding box,
// not to the polygon.
func RenderTextArea(dst *image.NRGBA, area acbf.TextArea, bg color.NRGBA, fonts *FontSet, opts Options) error {
	opts.normalize()
	box := area.Points.Bounds()
	if box.Empty() {
		return nil
	}
	if !area.Transparent {
		draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	rotation := ((area.Rotation % 360) + 360) % 360
	if rotation == 0 {
		return drawParagraphs(dst, box, area, fonts, opts)
	}

	// Lay out in a tile as wide as the rotated box, then turn it into place.
	tw, th := box.Dx(), box.Dy()
	if rotation == 90 || rotation == 270 {
		tw, th = th, tw
	}
	tile := image.NewNRGBA(image.Rect(0, 0, tw, th))
	if err := drawParagraphs(tile, tile.Bounds(), area, fonts, opts); err != nil {
		return err
	}
	turned := imaging.Rotate(tile, float64(rotation), color.Transparent)
	tb := turned.Bounds()
	at := image.Pt(
		box.Min.X+(box.Dx()-tb.Dx())/2,
		box.Min.Y+(box.Dy()-tb.Dy())/2,
	)
	target := image.Rectangle{Min: at, Max: at.Add(tb.Size())}.Intersect(box)
	draw.Draw(dst, target, turned, tb.Min.Add(target.Min.Sub(at)), draw.Over)
	return nil
}

func drawParagraphs(dst *image.NRGBA, box image.Rectangle, area acbf.TextArea, fonts *FontSet, opts Options) error {
	base := baseStyle(area.Type)
	m := faceMeasurer{fonts: fonts}

	var lines []Line
	for _, p := range area.Paragraphs {
		ls, err := Wrap(p, box.Dx(), base, m)
		if err != nil {
			return err
		}
		lines = append(lines, ls...)
	}
	total := 0
	for _, l := range lines {
		total += l.Height
	}

	fg, alt := opts.TextColor, opts.InvertedTextColor
	if area.Inverted {
		fg, alt = alt, fg
	}

	clip, ok := dst.SubImage(box).(*image.NRGBA)
	if !ok {
		return nil
	}
	y := box.Min.Y + max(0, (box.Dy()-total)/2)
	for _, l := range lines {
		ascent, err := lineAscent(l, fonts)
		if err != nil {
			return err
		}
		x := box.Min.X + (box.Dx()-l.Width)/2
		for i, w := range l.Words {
			if i > 0 {
				x += w.Space
			}
			for _, p := range w.Pieces {
				face, err := fonts.Face(p.Style)
				if err != nil {
					return err
				}
				col := fg
				if p.Style == acbf.StyleInverted {
					col = alt
				}
				d := &font.Drawer{
					Dst:  clip,
					Src:  image.NewUniform(col),
					Face: face,
					Dot:  fixed.P(x, y+ascent),
				}
				d.DrawString(p.Text)
				x += p.Width
			}
		}
		y += l.Height
	}
	return nil
}

func lineAscent(l Line, fonts *FontSet) (int, error) {
	a := 0
	for _, w := range l.Words {
		for _, p := range w.Pieces {
			face, err := fonts.Face(p.Style)
			if err != nil {
				return 0, err
			}
			a = max(a, face.Metrics().Ascent.Ceil())
		}
	}
	return a, nil
}

// baseStyle is the style plain spans take in an area of the given type.
func baseStyle(areaType string) acbf.Style {
	switch areaType {
	case "commentary":
		return acbf.StyleCommentary
	case "code":
		return acbf.StyleCode
	default:
		return acbf.StyleDefault
	}
}
