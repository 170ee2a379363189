package acbf

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseError reports a document that could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Empty returns the invalid placeholder document: no pages, no cover,
// a single unknown language.
func Empty() *Document {
	return &Document{
		Valid:      false,
		BgColor:    DefaultBgColor,
		Info:       BookInfo{Titles: map[string]string{}, Languages: []Language{{Code: UnknownLanguage}}},
		References: map[string]Reference{},
		Binaries:   map[string]Binary{},
	}
}

// Open parses the document at path. Any failure is logged and yields
// Empty() so callers can keep showing an empty viewer.
func Open(path string, logger *slog.Logger) *Document {
	doc, err := ParseFile(path)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("document is not valid, showing empty book", "path", path, "error", err)
		return Empty()
	}
	return doc
}

// ParseFile reads and parses an ACBF file. Image hrefs resolve against the
// directory of path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes ACBF XML content. dir is the directory image hrefs are
// relative to.
func Parse(content []byte, dir string) (*Document, error) {
	var root xmlACBF
	if err := xml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("failed to parse ACBF XML: %w", err)
	}

	doc := Empty()
	doc.Valid = true
	doc.Dir = dir

	info, err := convertBookInfo(&root.Meta.BookInfo)
	if err != nil {
		return nil, err
	}
	doc.Info = info
	doc.Publish = convertPublishInfo(&root.Meta.PublishInfo)
	doc.DocInfo = convertDocumentInfo(&root.Meta.DocumentInfo)

	if root.Body.BgColor != "" {
		doc.BgColor = root.Body.BgColor
	}

	if cp := root.Meta.BookInfo.Coverpage; cp != nil {
		doc.Cover, err = convertPage(cp)
		if err != nil {
			return nil, fmt.Errorf("coverpage: %w", err)
		}
	} else {
		doc.Cover = &Page{}
	}

	for i := range root.Body.Pages {
		page, err := convertPage(&root.Body.Pages[i])
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		doc.Pages = append(doc.Pages, page)
	}

	if root.References != nil {
		for _, ref := range root.References.References {
			paras, err := convertParagraphs(ref.Paragraphs)
			if err != nil {
				return nil, fmt.Errorf("reference %q: %w", ref.ID, err)
			}
			doc.References[ref.ID] = Reference{ID: ref.ID, Text: paras}
		}
	}

	if root.Data != nil {
		for _, bin := range root.Data.Binaries {
			data, err := decodeBinary(bin.Value)
			if err != nil {
				return nil, fmt.Errorf("binary %q: %w", bin.ID, err)
			}
			doc.Binaries[bin.ID] = Binary{ContentType: bin.ContentType, Data: data}
		}
	}

	return doc, nil
}

func convertBookInfo(bi *xmlBookInfo) (BookInfo, error) {
	info := BookInfo{
		Titles:      make(map[string]string),
		Annotations: make(map[string][]string),
		Keywords:    make(map[string]string),
	}

	for _, a := range bi.Authors {
		info.Authors = append(info.Authors, convertAuthor(a))
	}
	for _, t := range bi.Titles {
		info.Titles[t.Lang] = strings.TrimSpace(t.Value)
	}
	for _, g := range bi.Genres {
		genre := Genre{Name: strings.TrimSpace(g.Value)}
		if m, err := strconv.Atoi(strings.TrimSpace(g.Match)); err == nil {
			genre.Match = m
			genre.HasMatch = true
		}
		info.Genres = append(info.Genres, genre)
	}
	if bi.Characters != nil {
		for _, n := range bi.Characters.Names {
			info.Characters = append(info.Characters, strings.TrimSpace(n))
		}
	}
	for _, an := range bi.Annotations {
		paras, err := convertParagraphs(an.Paragraphs)
		if err != nil {
			return info, fmt.Errorf("annotation: %w", err)
		}
		for _, p := range paras {
			info.Annotations[an.Lang] = append(info.Annotations[an.Lang], p.PlainText())
		}
	}
	for _, k := range bi.Keywords {
		info.Keywords[k.Lang] = strings.TrimSpace(k.Value)
	}
	if bi.Languages != nil {
		for _, l := range bi.Languages.Layers {
			info.Languages = append(info.Languages, Language{
				Code: l.Lang,
				Show: parseBool(l.Show),
			})
		}
	}
	if len(info.Languages) == 0 {
		info.Languages = []Language{{Code: UnknownLanguage}}
	}
	for _, s := range bi.Sequences {
		info.Sequences = append(info.Sequences, Sequence{
			Title:  s.Title,
			Number: strings.TrimSpace(s.Value),
			Volume: s.Volume,
		})
	}
	for _, d := range bi.DatabaseRefs {
		info.DatabaseRefs = append(info.DatabaseRefs, DatabaseRef{DBName: d.DBName, Type: d.Type, Value: strings.TrimSpace(d.Value)})
	}
	for _, c := range bi.ContentRatings {
		info.ContentRating = append(info.ContentRating, ContentRating{Type: c.Type, Value: strings.TrimSpace(c.Value)})
	}
	return info, nil
}

func convertAuthor(a xmlAuthor) Author {
	return Author{
		Activity:   a.Activity,
		Lang:       a.Lang,
		FirstName:  strings.TrimSpace(a.FirstName),
		MiddleName: strings.TrimSpace(a.MiddleName),
		LastName:   strings.TrimSpace(a.LastName),
		Nickname:   strings.TrimSpace(a.Nickname),
	}
}

func convertPublishInfo(pi *xmlPublishInfo) PublishInfo {
	out := PublishInfo{
		Publisher: strings.TrimSpace(pi.Publisher),
		City:      strings.TrimSpace(pi.City),
		ISBN:      strings.TrimSpace(pi.ISBN),
		License:   strings.TrimSpace(pi.License),
	}
	if pi.PublishDate != nil {
		out.PublishDate = pi.PublishDate.Value
		out.PublishDateText = strings.TrimSpace(pi.PublishDate.Text)
	}
	return out
}

func convertDocumentInfo(di *xmlDocumentInfo) DocumentInfo {
	out := DocumentInfo{
		ID:      strings.TrimSpace(di.ID),
		Version: strings.TrimSpace(di.Version),
	}
	for _, a := range di.Authors {
		out.Authors = append(out.Authors, convertAuthor(a))
	}
	if di.CreationDate != nil {
		out.CreationDate = strings.TrimSpace(di.CreationDate.Text)
		if out.CreationDate == "" {
			out.CreationDate = di.CreationDate.Value
		}
	}
	out.Source = plainParagraphs(di.Source)
	out.History = plainParagraphs(di.History)
	return out
}

func plainParagraphs(ps *xmlParagraphs) []string {
	if ps == nil {
		return nil
	}
	var out []string
	for _, p := range ps.Paragraphs {
		para, err := ParseMarkup(p.Inner)
		if err != nil || len(para) == 0 {
			continue
		}
		out = append(out, para.PlainText())
	}
	return out
}

func convertPage(xp *xmlPage) (*Page, error) {
	page := &Page{
		BgColor:    xp.BgColor,
		Transition: xp.Transition,
		Titles:     make(map[string]string),
		TextLayers: make(map[string]*TextLayer),
	}
	if xp.Image != nil {
		page.Image = xp.Image.Href
	}
	for _, t := range xp.Titles {
		page.Titles[t.Lang] = strings.TrimSpace(t.Value)
	}

	for _, f := range xp.Frames {
		pts, err := ParsePoints(f.Points)
		if err != nil {
			return nil, fmt.Errorf("frame: %w", err)
		}
		page.Frames = append(page.Frames, Frame{Points: pts, BgColor: f.BgColor})
	}

	for _, xl := range xp.TextLayers {
		layer := &TextLayer{Lang: xl.Lang, BgColor: xl.BgColor}
		for _, xa := range xl.Areas {
			area, err := convertTextArea(xa)
			if err != nil {
				return nil, fmt.Errorf("text-layer %q: %w", xl.Lang, err)
			}
			layer.Areas = append(layer.Areas, area)
		}
		page.TextLayers[xl.Lang] = layer
	}

	for _, j := range xp.Jumps {
		pts, err := ParsePoints(j.Points)
		if err != nil {
			return nil, fmt.Errorf("jump: %w", err)
		}
		target, err := strconv.Atoi(strings.TrimSpace(j.Page))
		if err != nil {
			return nil, fmt.Errorf("jump page %q: %w", j.Page, err)
		}
		page.Jumps = append(page.Jumps, Jump{Page: target, Points: pts})
	}

	return page, nil
}

func convertTextArea(xa xmlTextArea) (TextArea, error) {
	pts, err := ParsePoints(xa.Points)
	if err != nil {
		return TextArea{}, fmt.Errorf("text-area: %w", err)
	}
	area := TextArea{
		Points:      pts,
		BgColor:     xa.BgColor,
		Type:        strings.ToLower(xa.Type),
		Inverted:    parseBool(xa.Inverted),
		Transparent: parseBool(xa.Transparent),
	}
	if xa.Rotation != "" {
		rot, err := strconv.Atoi(strings.TrimSpace(xa.Rotation))
		if err != nil {
			return TextArea{}, fmt.Errorf("text-rotation %q: %w", xa.Rotation, err)
		}
		area.Rotation = rot
	}
	area.Paragraphs, err = convertParagraphs(xa.Paragraphs)
	if err != nil {
		return TextArea{}, err
	}
	return area, nil
}

func convertParagraphs(ps []xmlParagraph) ([]Paragraph, error) {
	var out []Paragraph
	for _, p := range ps {
		para, err := ParseMarkup(p.Inner)
		if err != nil {
			return nil, err
		}
		out = append(out, para)
	}
	return out, nil
}

func decodeBinary(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(clean)
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
