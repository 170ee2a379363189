package acbf

import (
	"sort"
	"strings"
)

// PagesTotal returns the number of body pages. The cover is not counted.
func (d *Document) PagesTotal() int {
	return len(d.Pages)
}

// Page returns the page at index i: 0 is the cover, 1..PagesTotal() are
// body pages and PagesTotal()+1 is an empty end-of-book page. Any other
// index returns nil.
func (d *Document) Page(i int) *Page {
	switch {
	case i == 0:
		if d.Cover == nil {
			return &Page{}
		}
		return d.Cover
	case i >= 1 && i <= len(d.Pages):
		return d.Pages[i-1]
	case i == len(d.Pages)+1:
		return &Page{}
	default:
		return nil
	}
}

// FrameCount returns the number of frames on page i.
func (d *Document) FrameCount(i int) int {
	if p := d.Page(i); p != nil {
		return len(p.Frames)
	}
	return 0
}

// PageBgColor returns the effective background of page i.
func (d *Document) PageBgColor(i int) string {
	if p := d.Page(i); p != nil && p.BgColor != "" {
		return p.BgColor
	}
	if d.BgColor != "" {
		return d.BgColor
	}
	return DefaultBgColor
}

// FrameBgColor returns the background of frame f (0-based) on page i,
// falling back to the page background.
func (d *Document) FrameBgColor(i, f int) string {
	if p := d.Page(i); p != nil && f >= 0 && f < len(p.Frames) && p.Frames[f].BgColor != "" {
		return p.Frames[f].BgColor
	}
	return d.PageBgColor(i)
}

// Language returns the language layer at idx, clamped to the declared list.
func (d *Document) Language(idx int) Language {
	langs := d.Info.Languages
	if len(langs) == 0 {
		return Language{Code: UnknownLanguage}
	}
	if idx < 0 || idx >= len(langs) {
		idx = 0
	}
	return langs[idx]
}

// TextLayer returns the text layer of page i for lang, or nil.
func (d *Document) TextLayer(i int, lang string) *TextLayer {
	p := d.Page(i)
	if p == nil {
		return nil
	}
	return p.TextLayers[lang]
}

// Title returns the book title for lang, falling back to English, the
// untagged title and finally the alphabetically first one.
func (d *Document) Title(lang string) string {
	titles := d.Info.Titles
	for _, l := range []string{lang, "en", ""} {
		if t, ok := titles[l]; ok && t != "" {
			return t
		}
	}
	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if titles[k] != "" {
			return titles[k]
		}
	}
	return ""
}

// Annotation returns the annotation paragraphs for lang with the same
// fallback order as Title.
func (d *Document) Annotation(lang string) []string {
	for _, l := range []string{lang, "en", ""} {
		if a, ok := d.Info.Annotations[l]; ok {
			return a
		}
	}
	return nil
}

// PageReferences returns the reference hotspots of page i. A text area in
// any language that links to "#id" yields a hotspot over that area.
func (d *Document) PageReferences(i int) []Reference {
	p := d.Page(i)
	if p == nil {
		return nil
	}
	langs := make([]string, 0, len(p.TextLayers))
	for lang := range p.TextLayers {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var refs []Reference
	seen := make(map[string]bool)
	for _, lang := range langs {
		for _, area := range p.TextLayers[lang].Areas {
			for _, para := range area.Paragraphs {
				for _, link := range para.Links() {
					id, ok := strings.CutPrefix(link, "#")
					if !ok {
						continue
					}
					body, ok := d.References[id]
					if !ok {
						continue
					}
					key := id + "|" + area.Points.String()
					if seen[key] {
						continue
					}
					seen[key] = true
					refs = append(refs, Reference{ID: id, Points: area.Points, Text: body.Text})
				}
			}
		}
	}
	return refs
}

// AuthorNames returns the display names of the book authors.
func (d *Document) AuthorNames() []string {
	names := make([]string, 0, len(d.Info.Authors))
	for _, a := range d.Info.Authors {
		names = append(names, a.DisplayName())
	}
	return names
}

// DisplayName joins the name parts, using the nickname when no name is set.
func (a Author) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return a.Nickname
	}
	return strings.Join(parts, " ")
}
