package acbf

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// WriteFile serializes doc as an ACBF file at path.
func WriteFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(doc, f); err != nil {
		return err
	}
	return f.Close()
}

// Write serializes doc as indented ACBF XML.
func Write(doc *Document, w io.Writer) error {
	root := buildXML(doc)
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode ACBF XML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return nil
}

func buildXML(doc *Document) *xmlACBF {
	root := &xmlACBF{Xmlns: Namespace}
	bi := &root.Meta.BookInfo

	for _, a := range doc.Info.Authors {
		bi.Authors = append(bi.Authors, authorXML(a))
	}
	for _, lang := range sortedKeys(doc.Info.Titles) {
		bi.Titles = append(bi.Titles, xmlLangText{Lang: lang, Value: doc.Info.Titles[lang]})
	}
	for _, g := range doc.Info.Genres {
		xg := xmlGenre{Value: g.Name}
		if g.HasMatch {
			xg.Match = strconv.Itoa(g.Match)
		}
		bi.Genres = append(bi.Genres, xg)
	}
	if len(doc.Info.Characters) > 0 {
		bi.Characters = &xmlCharacters{Names: doc.Info.Characters}
	}
	for _, lang := range sortedKeys(doc.Info.Annotations) {
		an := xmlAnnotation{Lang: lang}
		for _, text := range doc.Info.Annotations[lang] {
			an.Paragraphs = append(an.Paragraphs, xmlParagraph{Inner: escapeText(text)})
		}
		bi.Annotations = append(bi.Annotations, an)
	}
	for _, lang := range sortedKeys(doc.Info.Keywords) {
		bi.Keywords = append(bi.Keywords, xmlLangText{Lang: lang, Value: doc.Info.Keywords[lang]})
	}
	if doc.Cover != nil {
		bi.Coverpage = pageXML(doc.Cover)
	} else {
		bi.Coverpage = &xmlPage{}
	}
	if len(doc.Info.Languages) > 0 && !(len(doc.Info.Languages) == 1 && doc.Info.Languages[0].Code == UnknownLanguage) {
		langs := &xmlLanguages{}
		for _, l := range doc.Info.Languages {
			langs.Layers = append(langs.Layers, xmlLanguage{Lang: l.Code, Show: strconv.FormatBool(l.Show)})
		}
		bi.Languages = langs
	}
	for _, s := range doc.Info.Sequences {
		bi.Sequences = append(bi.Sequences, xmlSequence{Title: s.Title, Volume: s.Volume, Value: s.Number})
	}
	for _, d := range doc.Info.DatabaseRefs {
		bi.DatabaseRefs = append(bi.DatabaseRefs, xmlDatabaseRef{DBName: d.DBName, Type: d.Type, Value: d.Value})
	}
	for _, c := range doc.Info.ContentRating {
		bi.ContentRatings = append(bi.ContentRatings, xmlContentRating{Type: c.Type, Value: c.Value})
	}

	pi := &root.Meta.PublishInfo
	pi.Publisher = doc.Publish.Publisher
	if doc.Publish.PublishDate != "" || doc.Publish.PublishDateText != "" {
		pi.PublishDate = &xmlDate{Value: doc.Publish.PublishDate, Text: doc.Publish.PublishDateText}
	}
	pi.City = doc.Publish.City
	pi.ISBN = doc.Publish.ISBN
	pi.License = doc.Publish.License

	di := &root.Meta.DocumentInfo
	for _, a := range doc.DocInfo.Authors {
		di.Authors = append(di.Authors, authorXML(a))
	}
	if doc.DocInfo.CreationDate != "" {
		di.CreationDate = &xmlDate{Text: doc.DocInfo.CreationDate}
	}
	di.Source = paragraphsXML(doc.DocInfo.Source)
	di.ID = doc.DocInfo.ID
	di.Version = doc.DocInfo.Version
	di.History = paragraphsXML(doc.DocInfo.History)

	if doc.BgColor != "" && doc.BgColor != DefaultBgColor {
		root.Body.BgColor = doc.BgColor
	}
	for _, p := range doc.Pages {
		root.Body.Pages = append(root.Body.Pages, *pageXML(p))
	}

	if len(doc.References) > 0 {
		refs := &xmlReferences{}
		for _, id := range sortedKeys(doc.References) {
			ref := xmlReference{ID: id}
			for _, p := range doc.References[id].Text {
				ref.Paragraphs = append(ref.Paragraphs, xmlParagraph{Inner: p.Markup()})
			}
			refs.References = append(refs.References, ref)
		}
		root.References = refs
	}
	if len(doc.Binaries) > 0 {
		data := &xmlData{}
		for _, id := range sortedKeys(doc.Binaries) {
			bin := doc.Binaries[id]
			data.Binaries = append(data.Binaries, xmlBinary{
				ID:          id,
				ContentType: bin.ContentType,
				Value:       base64.StdEncoding.EncodeToString(bin.Data),
			})
		}
		root.Data = data
	}
	return root
}

func authorXML(a Author) xmlAuthor {
	return xmlAuthor{
		Activity:   a.Activity,
		Lang:       a.Lang,
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		LastName:   a.LastName,
		Nickname:   a.Nickname,
	}
}

func paragraphsXML(texts []string) *xmlParagraphs {
	if len(texts) == 0 {
		return nil
	}
	ps := &xmlParagraphs{}
	for _, t := range texts {
		ps.Paragraphs = append(ps.Paragraphs, xmlParagraph{Inner: escapeText(t)})
	}
	return ps
}

func pageXML(p *Page) *xmlPage {
	xp := &xmlPage{BgColor: p.BgColor, Transition: p.Transition}
	for _, lang := range sortedKeys(p.Titles) {
		xp.Titles = append(xp.Titles, xmlLangText{Lang: lang, Value: p.Titles[lang]})
	}
	if p.Image != "" {
		xp.Image = &xmlImage{Href: p.Image}
	}
	for _, lang := range sortedKeys(p.TextLayers) {
		layer := p.TextLayers[lang]
		xl := xmlTextLayer{Lang: layer.Lang, BgColor: layer.BgColor}
		for _, a := range layer.Areas {
			xl.Areas = append(xl.Areas, textAreaXML(a))
		}
		xp.TextLayers = append(xp.TextLayers, xl)
	}
	for _, f := range p.Frames {
		xp.Frames = append(xp.Frames, xmlFrame{Points: f.Points.String(), BgColor: f.BgColor})
	}
	for _, j := range p.Jumps {
		xp.Jumps = append(xp.Jumps, xmlJump{Page: strconv.Itoa(j.Page), Points: j.Points.String()})
	}
	return xp
}

func textAreaXML(a TextArea) xmlTextArea {
	xa := xmlTextArea{
		Points:  a.Points.String(),
		BgColor: a.BgColor,
		Type:    a.Type,
	}
	if a.Rotation != 0 {
		xa.Rotation = strconv.Itoa(a.Rotation)
	}
	if a.Inverted {
		xa.Inverted = "true"
	}
	if a.Transparent {
		xa.Transparent = "true"
	}
	for _, p := range a.Paragraphs {
		xa.Paragraphs = append(xa.Paragraphs, xmlParagraph{Inner: p.Markup()})
	}
	return xa
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
