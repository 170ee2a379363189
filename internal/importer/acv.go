package importer

import (
	"encoding/xml"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuanying/acbfview/internal/acbf"
)

// acvComic mirrors the ACV comic.xml sidecar.
type acvComic struct {
	XMLName xml.Name    `xml:"comic"`
	BgColor string      `xml:"bgcolor,attr"`
	Title   string      `xml:"title,attr"`
	Images  *acvImages  `xml:"images"`
	Screens []acvScreen `xml:"screen"`
}

type acvImages struct {
	IndexPattern string `xml:"indexPattern,attr"`
	NamePattern  string `xml:"namePattern,attr"`
}

type acvScreen struct {
	Index   string     `xml:"index,attr"`
	BgColor string     `xml:"bgcolor,attr"`
	Frames  []acvFrame `xml:"frame"`
}

type acvFrame struct {
	RelativeArea string `xml:"relativeArea,attr"`
	BgColor      string `xml:"bgcolor,attr"`
}

func applyACV(doc *acbf.Document, dir string, pages map[string]*acbf.Page, nested map[string]string) error {
	sidecar := filepath.Join(dir, acvSidecar)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return &SynthesisError{File: sidecar, Err: err}
	}
	var comic acvComic
	if err := xml.Unmarshal(data, &comic); err != nil {
		return &SynthesisError{File: sidecar, Err: fmt.Errorf("failed to parse XML: %w", err)}
	}

	if comic.BgColor != "" {
		doc.BgColor = comic.BgColor
	}
	if comic.Title != "" {
		doc.Info.Titles[""] = comic.Title
	}
	if len(comic.Screens) == 0 {
		return nil
	}
	if comic.Images == nil || comic.Images.NamePattern == "" {
		return &SynthesisError{File: sidecar, Err: fmt.Errorf("screens declared without an images name pattern")}
	}

	for _, screen := range comic.Screens {
		idx, err := strconv.Atoi(strings.TrimSpace(screen.Index))
		if err != nil {
			return &SynthesisError{File: sidecar, Err: fmt.Errorf("invalid screen index %q: %w", screen.Index, err)}
		}
		name := screenName(comic.Images.NamePattern, comic.Images.IndexPattern, idx)

		page, ok := pages[name]
		if !ok {
			href, found := nested[name]
			if !found {
				return &SynthesisError{File: sidecar, Err: fmt.Errorf("%w: %d (%s)", ErrScreenImageMissing, idx, name)}
			}
			page = newPage(href)
			doc.Pages = append(doc.Pages, page)
			pages[name] = page
			delete(nested, name)
		}
		if screen.BgColor != "" {
			page.BgColor = screen.BgColor
		}
		if len(screen.Frames) == 0 {
			continue
		}

		w, h, err := imageSize(filepath.Join(dir, filepath.FromSlash(page.Image)))
		if err != nil {
			return &SynthesisError{File: page.Image, Err: err}
		}
		for _, f := range screen.Frames {
			rect, err := relativeRect(f.RelativeArea, w, h)
			if err != nil {
				return &SynthesisError{File: sidecar, Err: fmt.Errorf("screen %d: %w", idx, err)}
			}
			page.Frames = append(page.Frames, acbf.Frame{Points: acbf.Rect(rect), BgColor: f.BgColor})
		}
	}
	return nil
}

// screenName expands a name pattern such as "screen_@index" with idx
// zero-padded to the width of indexPattern. A trailing image extension in
// the pattern is dropped so the result compares against file stems.
func screenName(namePattern, indexPattern string, idx int) string {
	num := fmt.Sprintf("%0*d", len(indexPattern), idx)
	name := strings.ReplaceAll(namePattern, "@index", num)
	if IsImage(name) {
		name = stem(name)
	}
	return name
}

// relativeRect converts an "x y w h" unit-square area into pixels of a
// w×h image, truncating each edge.
func relativeRect(area string, width, height int) (image.Rectangle, error) {
	fields := strings.Fields(area)
	if len(fields) != 4 {
		return image.Rectangle{}, fmt.Errorf("relativeArea %q: want 4 values", area)
	}
	var v [4]float64
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("relativeArea %q: %w", area, err)
		}
		v[i] = f
	}
	x, y, w, h := v[0], v[1], v[2], v[3]
	W, H := float64(width), float64(height)
	return image.Rect(
		int(W*x), int(H*y),
		int(W*(x+w)), int(H*(y+h)),
	), nil
}
