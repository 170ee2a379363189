package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/yuanying/acbfview/internal/acbf"
)

// Options configures page rendering.
type Options struct {
	Filter     string // nearest, linear, cubic or lanczos
	Stretch    bool   // allow enlarging pages in whole-page mode
	CropBorder bool   // trim uniform margins
	// AutoRotate turns whole-page views by 90 degrees when the page fits
	// the viewport larger that way.
	AutoRotate bool
	// ExifOrientation turns JPEG pages upright from their EXIF tag. Frame
	// and text polygons are mapped through the same orientation.
	ExifOrientation bool

	TextColor         color.Color
	InvertedTextColor color.Color
	Fonts             map[acbf.Style]FontSpec // empty Path means the bundled font

	Logger *slog.Logger
}

// DefaultOptions returns the rendering defaults.
func DefaultOptions() Options {
	return Options{
		Filter:            "lanczos",
		Stretch:           true,
		TextColor:         color.Black,
		InvertedTextColor: color.White,
	}
}

// ParseFilter maps a resize filter name to an imaging filter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "linear", "bilinear":
		return imaging.Linear, nil
	case "cubic", "bicubic":
		return imaging.CatmullRom, nil
	case "lanczos", "antialias":
		return imaging.Lanczos, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("invalid resize filter: %q (allowed: nearest, linear, cubic, lanczos)", name)
	}
}

func (o *Options) normalize() {
	if o.Filter == "" {
		o.Filter = "lanczos"
	}
	if o.TextColor == nil {
		o.TextColor = color.Black
	}
	if o.InvertedTextColor == nil {
		o.InvertedTextColor = color.White
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
