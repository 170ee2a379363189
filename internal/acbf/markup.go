package acbf

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseMarkup parses the inline markup of one paragraph into styled spans.
// Whitespace runs collapse to a single space, adjacent spans with the same
// style are merged and the paragraph is trimmed at both ends.
func ParseMarkup(inner string) (Paragraph, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return nil, fmt.Errorf("failed to parse inline markup: %w", err)
	}

	var p Paragraph
	walkMarkup(doc.Find("body"), StyleDefault, "", &p)
	return normalizeSpans(p), nil
}

func walkMarkup(s *goquery.Selection, style Style, link string, out *Paragraph) {
	s.Contents().Each(func(i int, c *goquery.Selection) {
		switch name := goquery.NodeName(c); name {
		case "#text":
			*out = append(*out, Span{Text: c.Text(), Style: style, Link: link})
		case "br":
			*out = append(*out, Span{Text: " ", Style: style, Link: link})
		case "a":
			href, _ := c.Attr("href")
			walkMarkup(c, style, href, out)
		default:
			walkMarkup(c, styleForElement(name, style), link, out)
		}
	})
}

func styleForElement(name string, parent Style) Style {
	switch name {
	case "emphasis", "em", "i":
		return StyleEmphasis
	case "strong", "b":
		return StyleStrong
	case "code":
		return StyleCode
	case "commentary":
		return StyleCommentary
	case "inverted":
		return StyleInverted
	default:
		return parent
	}
}

func normalizeSpans(in Paragraph) Paragraph {
	var out Paragraph
	for _, s := range in {
		s.Text = collapseSpace(s.Text)
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if strings.HasSuffix(last.Text, " ") && strings.HasPrefix(s.Text, " ") {
				s.Text = s.Text[1:]
				if s.Text == "" {
					continue
				}
			}
			if last.Style == s.Style && last.Link == s.Link {
				last.Text += s.Text
				continue
			}
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	out[0].Text = strings.TrimLeft(out[0].Text, " ")
	last := len(out) - 1
	out[last].Text = strings.TrimRight(out[last].Text, " ")
	if out[0].Text == "" {
		out = out[1:]
	}
	if n := len(out); n > 0 && out[n-1].Text == "" {
		out = out[:n-1]
	}
	return out
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}

// PlainText returns the paragraph text without styling.
func (p Paragraph) PlainText() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Links returns the distinct link targets used in the paragraph.
func (p Paragraph) Links() []string {
	var links []string
	seen := make(map[string]bool)
	for _, s := range p {
		if s.Link == "" || seen[s.Link] {
			continue
		}
		seen[s.Link] = true
		links = append(links, s.Link)
	}
	return links
}

// Markup renders the paragraph back to ACBF inline markup.
func (p Paragraph) Markup() string {
	var b strings.Builder
	for _, s := range p {
		text := escapeText(s.Text)
		if s.Style != StyleDefault {
			text = "<" + s.Style.String() + ">" + text + "</" + s.Style.String() + ">"
		}
		if s.Link != "" {
			text = `<a href="` + escapeText(s.Link) + `">` + text + "</a>"
		}
		b.WriteString(text)
	}
	return b.String()
}

func escapeText(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer fails.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
