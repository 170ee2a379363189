package render

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/layout"
)

var errNoImage = errors.New("page has no image")

// LoadImage reads the image a page href points at. "#id" hrefs resolve to
// embedded binaries; anything else is relative to the document directory.
// With exifOrient the image is turned upright and the applied orientation
// is returned, so page polygons can be mapped the same way.
func LoadImage(doc *acbf.Document, href string, exifOrient bool) (*image.NRGBA, layout.Orientation, error) {
	data, err := readImageData(doc, href)
	if err != nil {
		return nil, layout.OrientNormal, &ImageLoadError{Href: href, Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, layout.OrientNormal, &ImageLoadError{Href: href, Err: err}
	}
	orient := layout.OrientNormal
	if exifOrient {
		orient = readOrientation(data)
		img = applyOrientation(img, orient)
	}
	return imaging.Clone(img), orient, nil
}

func readImageData(doc *acbf.Document, href string) ([]byte, error) {
	if href == "" {
		return nil, errNoImage
	}
	if id, ok := strings.CutPrefix(href, "#"); ok {
		bin, found := doc.Binaries[id]
		if !found {
			return nil, errors.New("embedded binary not found")
		}
		return bin.Data, nil
	}
	path := href
	if !filepath.IsAbs(path) {
		path = filepath.Join(doc.Dir, filepath.FromSlash(href))
	}
	return os.ReadFile(path)
}

// readOrientation returns the EXIF orientation tag of data, if any.
func readOrientation(data []byte) layout.Orientation {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return layout.OrientNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return layout.OrientNormal
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return layout.OrientNormal
	}
	return layout.Orientation(v)
}

func applyOrientation(img image.Image, o layout.Orientation) image.Image {
	switch o {
	case layout.OrientFlipH:
		return imaging.FlipH(img)
	case layout.OrientRotate180:
		return imaging.Rotate180(img)
	case layout.OrientFlipV:
		return imaging.FlipV(img)
	case layout.OrientTranspose:
		return imaging.Transpose(img)
	case layout.OrientRotateCW:
		return imaging.Rotate270(img)
	case layout.OrientTransverse:
		return imaging.Transverse(img)
	case layout.OrientRotateCCW:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
