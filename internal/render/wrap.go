package render

import (
	"strings"

	"golang.org/x/image/font"

	"github.com/yuanying/acbfview/internal/acbf"
)

// Measurer reports text metrics in pixels.
type Measurer interface {
	Width(text string, style acbf.Style) (int, error)
	LineHeight(style acbf.Style) (int, error)
}

// Piece is a run of one style inside a word.
type Piece struct {
	Text  string
	Style acbf.Style
	Width int
}

// Word is a unit that is never split across lines. A word can mix styles,
// e.g. a bold name followed by a plain comma.
type Word struct {
	Pieces []Piece
	Width  int
	Space  int // width of the space preceding the word on a line
}

// Line is one wrapped line.
type Line struct {
	Words  []Word
	Width  int
	Height int
}

// Text returns the line content without styling.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		var b strings.Builder
		for _, p := range w.Pieces {
			b.WriteString(p.Text)
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, " ")
}

// Wrap lays out p greedily in lines no wider than width. A word wider than
// width gets a line of its own and is not split. base replaces the default
// style, so commentary areas draw plain spans in the commentary font.
func Wrap(p acbf.Paragraph, width int, base acbf.Style, m Measurer) ([]Line, error) {
	words, err := splitWords(p, base, m)
	if err != nil {
		return nil, err
	}

	var lines []Line
	var cur Line
	for _, w := range words {
		if len(cur.Words) == 0 {
			cur.Words = append(cur.Words, w)
			cur.Width = w.Width
			continue
		}
		if cur.Width+w.Space+w.Width <= width {
			cur.Words = append(cur.Words, w)
			cur.Width += w.Space + w.Width
			continue
		}
		lines = append(lines, cur)
		cur = Line{Words: []Word{w}, Width: w.Width}
	}
	if len(cur.Words) > 0 {
		lines = append(lines, cur)
	}

	for i := range lines {
		h, err := lineHeight(lines[i], m)
		if err != nil {
			return nil, err
		}
		lines[i].Height = h
	}
	return lines, nil
}

func splitWords(p acbf.Paragraph, base acbf.Style, m Measurer) ([]Word, error) {
	var words []Word
	var cur Word
	pendingSpace := false
	var spaceStyle acbf.Style

	flush := func() {
		if len(cur.Pieces) > 0 {
			words = append(words, cur)
		}
		cur = Word{}
	}

	for _, span := range p {
		style := span.Style
		if style == acbf.StyleDefault {
			style = base
		}
		parts := strings.Split(span.Text, " ")
		for i, part := range parts {
			if i > 0 {
				flush()
				pendingSpace = true
				spaceStyle = style
			}
			if part == "" {
				continue
			}
			w, err := m.Width(part, style)
			if err != nil {
				return nil, err
			}
			if len(cur.Pieces) == 0 && len(words) > 0 && pendingSpace {
				sw, err := m.Width(" ", spaceStyle)
				if err != nil {
					return nil, err
				}
				cur.Space = sw
			}
			pendingSpace = false
			cur.Pieces = append(cur.Pieces, Piece{Text: part, Style: style, Width: w})
			cur.Width += w
		}
	}
	flush()
	return words, nil
}

func lineHeight(l Line, m Measurer) (int, error) {
	h := 0
	for _, w := range l.Words {
		for _, p := range w.Pieces {
			ph, err := m.LineHeight(p.Style)
			if err != nil {
				return 0, err
			}
			h = max(h, ph)
		}
	}
	return h, nil
}

// faceMeasurer measures with the faces of a FontSet.
type faceMeasurer struct {
	fonts *FontSet
}

func (fm faceMeasurer) Width(text string, style acbf.Style) (int, error) {
	face, err := fm.fonts.Face(style)
	if err != nil {
		return 0, err
	}
	return font.MeasureString(face, text).Ceil(), nil
}

func (fm faceMeasurer) LineHeight(style acbf.Style) (int, error) {
	face, err := fm.fonts.Face(style)
	if err != nil {
		return 0, err
	}
	return face.Metrics().Height.Ceil(), nil
}
