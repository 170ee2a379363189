package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/yuanying/acbfview/internal/layout"
)

// borderTolerance is the per-channel difference still counted as border.
const borderTolerance = 16

// TrimBorder removes uniform margins matching the top-left pixel. It
// returns the kept area's offset in img. An image that is entirely border
// is returned unchanged.
func TrimBorder(img *image.NRGBA) (*image.NRGBA, image.Point) {
	b := img.Bounds()
	if b.Empty() {
		return img, image.Point{}
	}
	ref := img.NRGBAAt(b.Min.X, b.Min.Y)

	rowIsBorder := func(y int) bool {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !near(img.NRGBAAt(x, y), ref) {
				return false
			}
		}
		return true
	}
	colIsBorder := func(x, y0, y1 int) bool {
		for y := y0; y < y1; y++ {
			if !near(img.NRGBAAt(x, y), ref) {
				return false
			}
		}
		return true
	}

	top, bottom := b.Min.Y, b.Max.Y
	for top < bottom && rowIsBorder(top) {
		top++
	}
	if top == bottom {
		return img, image.Point{}
	}
	for bottom > top && rowIsBorder(bottom-1) {
		bottom--
	}
	left, right := b.Min.X, b.Max.X
	for left < right && colIsBorder(left, top, bottom) {
		left++
	}
	for right > left && colIsBorder(right-1, top, bottom) {
		right--
	}

	keep := image.Rect(left, top, right, bottom)
	if keep == b {
		return img, image.Point{}
	}
	return imaging.Crop(img, keep), keep.Min.Sub(b.Min)
}

func near(a, b color.NRGBA) bool {
	return diff(a.R, b.R) <= borderTolerance &&
		diff(a.G, b.G) <= borderTolerance &&
		diff(a.B, b.B) <= borderTolerance &&
		diff(a.A, b.A) <= borderTolerance
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Enhance applies the brightness, contrast, saturation and sharpness
// sliders. Values are clamped to their ranges first.
func Enhance(img *image.NRGBA, e layout.Enhancements) *image.NRGBA {
	e = e.Clamp()
	if e.IsZero() {
		return img
	}
	if e.Brightness != 0 {
		img = imaging.AdjustBrightness(img, e.Brightness*100)
	}
	if e.Contrast != 0 {
		img = imaging.AdjustContrast(img, e.Contrast*100)
	}
	if e.Saturation != 0 {
		img = imaging.AdjustSaturation(img, e.Saturation*100)
	}
	switch {
	case e.Sharpness > 0:
		img = imaging.Sharpen(img, e.Sharpness)
	case e.Sharpness < 0:
		img = imaging.Blur(img, -e.Sharpness)
	}
	return img
}

// Rotate turns img counter-clockwise by a multiple of 90 degrees.
func Rotate(img *image.NRGBA, rotation int) *image.NRGBA {
	switch rotation {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// Resize scales img to size with the named filter.
func Resize(img image.Image, size layout.Size, filter string) *image.NRGBA {
	f, err := ParseFilter(filter)
	if err != nil {
		f = imaging.Lanczos
	}
	w, h := max(size.W, 1), max(size.H, 1)
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, f)
}
