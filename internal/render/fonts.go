package render

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/yuanying/acbfview/internal/acbf"
)

// DefaultFontSize is the point size used when a FontSpec sets none.
const DefaultFontSize = 14

// FontSpec selects the font file and size for one style.
type FontSpec struct {
	Path string // TrueType/OpenType file; empty means the bundled Go font
	Size float64
}

var bundledFonts = map[acbf.Style][]byte{
	acbf.StyleDefault:    goregular.TTF,
	acbf.StyleEmphasis:   goitalic.TTF,
	acbf.StyleStrong:     gobold.TTF,
	acbf.StyleCode:       gomono.TTF,
	acbf.StyleCommentary: goitalic.TTF,
	acbf.StyleInverted:   goregular.TTF,
}

// FontSet lazily loads one face per style. It is safe for concurrent use.
type FontSet struct {
	specs map[acbf.Style]FontSpec

	mu    sync.Mutex
	faces map[acbf.Style]font.Face
}

// NewFontSet returns a font set for specs. Styles missing from specs use
// the bundled font at DefaultFontSize.
func NewFontSet(specs map[acbf.Style]FontSpec) *FontSet {
	copied := make(map[acbf.Style]FontSpec, len(specs))
	for k, v := range specs {
		copied[k] = v
	}
	return &FontSet{specs: copied, faces: make(map[acbf.Style]font.Face)}
}

// DefaultFontSet uses the bundled Go fonts for every style, keeping the
// configured sizes of specs.
func DefaultFontSet(specs map[acbf.Style]FontSpec) *FontSet {
	sized := make(map[acbf.Style]FontSpec, len(specs))
	for k, v := range specs {
		sized[k] = FontSpec{Size: v.Size}
	}
	return NewFontSet(sized)
}

// Face returns the face for style, loading it on first use.
func (f *FontSet) Face(style acbf.Style) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.faces[style]; ok {
		return face, nil
	}
	spec := f.specs[style]
	size := spec.Size
	if size <= 0 {
		size = DefaultFontSize
	}

	data := bundledFonts[style]
	if data == nil {
		data = goregular.TTF
	}
	if spec.Path != "" {
		b, err := os.ReadFile(spec.Path)
		if err != nil {
			return nil, &FontLookupError{Style: style, Path: spec.Path, Err: err}
		}
		data = b
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, &FontLookupError{Style: style, Path: spec.Path, Err: err}
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &FontLookupError{Style: style, Path: spec.Path, Err: fmt.Errorf("failed to create face: %w", err)}
	}
	f.faces[style] = face
	return face, nil
}
