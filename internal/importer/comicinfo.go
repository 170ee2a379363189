package importer

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yuanying/acbfview/internal/acbf"
)

// comicInfo mirrors the ComicRack ComicInfo.xml schema. Pointer fields
// distinguish an absent element from an empty one.
type comicInfo struct {
	XMLName     xml.Name `xml:"ComicInfo"`
	Title       *string  `xml:"Title"`
	Series      *string  `xml:"Series"`
	Number      *string  `xml:"Number"`
	Volume      *string  `xml:"Volume"`
	Summary     *string  `xml:"Summary"`
	Year        *string  `xml:"Year"`
	Month       *string  `xml:"Month"`
	Day         *string  `xml:"Day"`
	Writer      *string  `xml:"Writer"`
	Penciller   *string  `xml:"Penciller"`
	Inker       *string  `xml:"Inker"`
	Colorist    *string  `xml:"Colorist"`
	Letterer    *string  `xml:"Letterer"`
	CoverArtist *string  `xml:"CoverArtist"`
	Adapter     *string  `xml:"Adapter"`
	Publisher   *string  `xml:"Publisher"`
	Genre       *string  `xml:"Genre"`
	Tags        *string  `xml:"Tags"`
	Web         *string  `xml:"Web"`
	Characters  *string  `xml:"Characters"`
	LanguageISO *string  `xml:"LanguageISO"`
	AgeRating   *string  `xml:"AgeRating"`
}

func applyComicInfo(doc *acbf.Document, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &SynthesisError{File: path, Err: err}
	}
	var ci comicInfo
	if err := xml.Unmarshal(data, &ci); err != nil {
		return &SynthesisError{File: path, Err: fmt.Errorf("failed to parse XML: %w", err)}
	}
	mapComicInfo(doc, &ci)
	return nil
}

func mapComicInfo(doc *acbf.Document, ci *comicInfo) {
	info := &doc.Info

	roles := []struct {
		activity string
		value    *string
	}{
		{"Writer", ci.Writer},
		{"Penciller", ci.Penciller},
		{"Inker", ci.Inker},
		{"Colorist", ci.Colorist},
		{"CoverArtist", ci.CoverArtist},
		{"Adapter", ci.Adapter},
		{"Letterer", ci.Letterer},
	}
	for _, r := range roles {
		if r.value == nil {
			continue
		}
		author, ok := splitName(*r.value)
		if !ok {
			continue
		}
		author.Activity = r.activity
		info.Authors = append(info.Authors, author)
	}

	if ci.Title != nil {
		info.Titles[""] = strings.TrimSpace(*ci.Title)
	}
	if ci.Genre != nil {
		for _, g := range splitList(*ci.Genre) {
			info.Genres = append(info.Genres, acbf.Genre{Name: g})
		}
	}
	if ci.Characters != nil {
		info.Characters = append(info.Characters, splitList(*ci.Characters)...)
	}
	if ci.Series != nil {
		seq := acbf.Sequence{Title: strings.TrimSpace(*ci.Series), Number: "0"}
		if ci.Number != nil {
			seq.Number = strings.TrimSpace(*ci.Number)
		}
		if ci.Volume != nil {
			seq.Volume = strings.TrimSpace(*ci.Volume)
		}
		info.Sequences = append(info.Sequences, seq)
	}
	if ci.Summary != nil {
		var paras []string
		for _, line := range strings.Split(*ci.Summary, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				paras = append(paras, line)
			}
		}
		if len(paras) > 0 {
			if info.Annotations == nil {
				info.Annotations = map[string][]string{}
			}
			info.Annotations[""] = paras
		}
	}
	if ci.LanguageISO != nil {
		if code := strings.TrimSpace(*ci.LanguageISO); code != "" {
			info.Languages = []acbf.Language{{Code: code, Show: false}}
		}
	}
	if ci.Tags != nil && strings.TrimSpace(*ci.Tags) != "" {
		if info.Keywords == nil {
			info.Keywords = map[string]string{}
		}
		info.Keywords[""] = strings.TrimSpace(*ci.Tags)
	}
	if ci.AgeRating != nil && strings.TrimSpace(*ci.AgeRating) != "" {
		info.ContentRating = append(info.ContentRating, acbf.ContentRating{Type: "ComicInfo", Value: strings.TrimSpace(*ci.AgeRating)})
	}
	if ci.Web != nil && strings.TrimSpace(*ci.Web) != "" {
		info.DatabaseRefs = append(info.DatabaseRefs, acbf.DatabaseRef{DBName: "web", Type: "URL", Value: strings.TrimSpace(*ci.Web)})
	}

	if ci.Year != nil && ci.Month != nil && ci.Day != nil {
		if date, ok := publishDate(*ci.Year, *ci.Month, *ci.Day); ok {
			doc.Publish.PublishDate = date
			doc.Publish.PublishDateText = strings.TrimSpace(*ci.Year)
		}
	}
	if ci.Publisher != nil {
		doc.Publish.Publisher = strings.TrimSpace(*ci.Publisher)
	}
}

// splitName splits a credit on whitespace: the first token is the first
// name, the last token the last name and anything between the middle name.
func splitName(s string) (acbf.Author, bool) {
	tokens := strings.Fields(s)
	switch len(tokens) {
	case 0:
		return acbf.Author{}, false
	case 1:
		return acbf.Author{FirstName: tokens[0], LastName: tokens[0]}, true
	}
	return acbf.Author{
		FirstName:  tokens[0],
		MiddleName: strings.Join(tokens[1:len(tokens)-1], " "),
		LastName:   tokens[len(tokens)-1],
	}, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func publishDate(year, month, day string) (string, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return "", false
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return "", false
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), true
}
