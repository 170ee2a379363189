package acbf

import "image"

// Namespace is the ACBF 1.0 XML namespace written on the root element.
const Namespace = "http://www.fictionbook-lib.org/xml/acbf/1.0"

// Extension is the file extension of native ACBF documents.
const Extension = ".acbf"

// UnknownLanguage is the language code used when a document declares none.
const UnknownLanguage = "??"

// DefaultBgColor is the body background used when the document sets none.
const DefaultBgColor = "#000000"

// Document is the parsed representation of an ACBF file.
type Document struct {
	Valid bool
	Path  string // path of the .acbf file
	Dir   string // directory image hrefs are resolved against

	Info    BookInfo
	Publish PublishInfo
	DocInfo DocumentInfo

	BgColor    string // body default background
	Cover      *Page
	Pages      []*Page
	References map[string]Reference // id -> reference body
	Binaries   map[string]Binary    // id -> embedded data
}

// BookInfo represents the book-info section of the metadata.
type BookInfo struct {
	Titles        map[string]string // lang ("" = untagged) -> title
	Authors       []Author
	Genres        []Genre
	Characters    []string
	Annotations   map[string][]string // lang -> paragraphs
	Keywords      map[string]string   // lang -> comma separated keywords
	Languages     []Language
	Sequences     []Sequence
	DatabaseRefs  []DatabaseRef
	ContentRating []ContentRating
}

// Author is a person credited in book-info or document-info.
type Author struct {
	Activity   string // e.g. "Writer", "Penciller"
	Lang       string
	FirstName  string
	MiddleName string
	LastName   string
	Nickname   string
}

// Genre is a genre tag with an optional match percentage.
type Genre struct {
	Name     string
	Match    int
	HasMatch bool
}

// Language is one declared language layer.
type Language struct {
	Code string
	Show bool // whether the text layer is drawn
}

// Sequence is a series membership.
type Sequence struct {
	Title  string
	Number string
	Volume string
}

// DatabaseRef references an external catalog entry.
type DatabaseRef struct {
	DBName string
	Type   string
	Value  string
}

// ContentRating is an age or content classification.
type ContentRating struct {
	Type  string
	Value string
}

// PublishInfo represents the publish-info section.
type PublishInfo struct {
	Publisher       string
	PublishDate     string // value attribute, YYYY-MM-DD
	PublishDateText string // displayed text
	City            string
	ISBN            string
	License         string
}

// DocumentInfo represents the document-info section.
type DocumentInfo struct {
	Authors      []Author
	CreationDate string
	Source       []string
	ID           string
	Version      string
	History      []string
}

// Page is one page of the book. Index 0 of a document is the cover.
type Page struct {
	Image      string // href relative to Document.Dir, or "#id" for embedded data
	BgColor    string // empty means inherit from body
	Transition string
	Titles     map[string]string // lang -> bookmark label
	Frames     []Frame
	TextLayers map[string]*TextLayer // lang -> layer
	Jumps      []Jump
}

// Frame is one panel on a page.
type Frame struct {
	Points  Polygon
	BgColor string
}

// TextLayer holds the text areas of one language.
type TextLayer struct {
	Lang    string
	BgColor string
	Areas   []TextArea
}

// TextArea is a block of text drawn over the page art.
type TextArea struct {
	Points      Polygon
	Paragraphs  []Paragraph
	BgColor     string
	Type        string // speech, commentary, code, heading, ...
	Rotation    int
	Inverted    bool
	Transparent bool
}

// Paragraph is a sequence of styled spans.
type Paragraph []Span

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style Style
	Link  string // target of an enclosing <a href>, if any
}

// Style is the inline style class of a span.
type Style int

const (
	StyleDefault Style = iota
	StyleEmphasis
	StyleStrong
	StyleCode
	StyleCommentary
	StyleInverted
)

// Styles lists every style class.
var Styles = []Style{StyleDefault, StyleEmphasis, StyleStrong, StyleCode, StyleCommentary, StyleInverted}

// String returns the element name of the style.
func (s Style) String() string {
	switch s {
	case StyleEmphasis:
		return "emphasis"
	case StyleStrong:
		return "strong"
	case StyleCode:
		return "code"
	case StyleCommentary:
		return "commentary"
	case StyleInverted:
		return "inverted"
	default:
		return "default"
	}
}

// Reference is a clickable hotspot with popup text.
type Reference struct {
	ID     string
	Points Polygon
	Text   []Paragraph
}

// Jump is a clickable region that navigates to another page.
type Jump struct {
	Page   int
	Points Polygon
}

// Binary is embedded image data.
type Binary struct {
	ContentType string
	Data        []byte
}

// ContentsEntry is one line of a table of contents.
type ContentsEntry struct {
	Label string
	Page  int // displayed page number (cover = 1)
}

// Bounds returns the bounding box of the frame polygon.
func (f Frame) Bounds() image.Rectangle {
	return f.Points.Bounds()
}
