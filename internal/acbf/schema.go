package acbf

import "encoding/xml"

// The xml* types mirror the ACBF 1.0 schema. They are used both for
// decoding and encoding so a written document parses back unchanged.
// Field order follows the schema's element order.

type xmlACBF struct {
	XMLName    xml.Name       `xml:"ACBF"`
	Xmlns      string         `xml:"xmlns,attr,omitempty"`
	Meta       xmlMetaData    `xml:"meta-data"`
	Body       xmlBody        `xml:"body"`
	References *xmlReferences `xml:"references,omitempty"`
	Data       *xmlData       `xml:"data,omitempty"`
}

type xmlMetaData struct {
	BookInfo     xmlBookInfo     `xml:"book-info"`
	PublishInfo  xmlPublishInfo  `xml:"publish-info"`
	DocumentInfo xmlDocumentInfo `xml:"document-info"`
}

type xmlBookInfo struct {
	Authors        []xmlAuthor        `xml:"author"`
	Titles         []xmlLangText      `xml:"book-title"`
	Genres         []xmlGenre         `xml:"genre"`
	Characters     *xmlCharacters     `xml:"characters,omitempty"`
	Annotations    []xmlAnnotation    `xml:"annotation"`
	Keywords       []xmlLangText      `xml:"keywords"`
	Coverpage      *xmlPage           `xml:"coverpage,omitempty"`
	Languages      *xmlLanguages      `xml:"languages,omitempty"`
	Sequences      []xmlSequence      `xml:"sequence"`
	DatabaseRefs   []xmlDatabaseRef   `xml:"databaseref"`
	ContentRatings []xmlContentRating `xml:"content-rating"`
}

type xmlAuthor struct {
	Activity   string `xml:"activity,attr,omitempty"`
	Lang       string `xml:"lang,attr,omitempty"`
	FirstName  string `xml:"first-name,omitempty"`
	MiddleName string `xml:"middle-name,omitempty"`
	LastName   string `xml:"last-name,omitempty"`
	Nickname   string `xml:"nickname,omitempty"`
}

type xmlLangText struct {
	Lang  string `xml:"lang,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlGenre struct {
	Match string `xml:"match,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlCharacters struct {
	Names []string `xml:"name"`
}

type xmlAnnotation struct {
	Lang       string         `xml:"lang,attr,omitempty"`
	Paragraphs []xmlParagraph `xml:"p"`
}

// xmlParagraph keeps the raw inline markup of a <p>; ParseMarkup turns it
// into styled spans.
type xmlParagraph struct {
	Inner string `xml:",innerxml"`
}

type xmlParagraphs struct {
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlLanguages struct {
	Layers []xmlLanguage `xml:"text-layer"`
}

type xmlLanguage struct {
	Lang string `xml:"lang,attr"`
	Show string `xml:"show,attr"`
}

type xmlSequence struct {
	Title  string `xml:"title,attr"`
	Volume string `xml:"volume,attr,omitempty"`
	Value  string `xml:",chardata"`
}

type xmlDatabaseRef struct {
	DBName string `xml:"dbname,attr"`
	Type   string `xml:"type,attr,omitempty"`
	Value  string `xml:",chardata"`
}

type xmlContentRating struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

type xmlPublishInfo struct {
	Publisher   string   `xml:"publisher,omitempty"`
	PublishDate *xmlDate `xml:"publish-date,omitempty"`
	City        string   `xml:"city,omitempty"`
	ISBN        string   `xml:"isbn,omitempty"`
	License     string   `xml:"license,omitempty"`
}

type xmlDate struct {
	Value string `xml:"value,attr,omitempty"`
	Text  string `xml:",chardata"`
}

type xmlDocumentInfo struct {
	Authors      []xmlAuthor    `xml:"author"`
	CreationDate *xmlDate       `xml:"creation-date,omitempty"`
	Source       *xmlParagraphs `xml:"source,omitempty"`
	ID           string         `xml:"id,omitempty"`
	Version      string         `xml:"version,omitempty"`
	History      *xmlParagraphs `xml:"history,omitempty"`
}

type xmlBody struct {
	BgColor string    `xml:"bgcolor,attr,omitempty"`
	Pages   []xmlPage `xml:"page"`
}

// xmlPage is shared by <page> and <coverpage>.
type xmlPage struct {
	BgColor    string         `xml:"bgcolor,attr,omitempty"`
	Transition string         `xml:"transition,attr,omitempty"`
	Titles     []xmlLangText  `xml:"title"`
	Image      *xmlImage      `xml:"image"`
	TextLayers []xmlTextLayer `xml:"text-layer"`
	Frames     []xmlFrame     `xml:"frame"`
	Jumps      []xmlJump      `xml:"jump"`
}

type xmlImage struct {
	Href string `xml:"href,attr"`
}

type xmlTextLayer struct {
	Lang    string        `xml:"lang,attr"`
	BgColor string        `xml:"bgcolor,attr,omitempty"`
	Areas   []xmlTextArea `xml:"text-area"`
}

type xmlTextArea struct {
	Points      string         `xml:"points,attr"`
	BgColor     string         `xml:"bgcolor,attr,omitempty"`
	Type        string         `xml:"type,attr,omitempty"`
	Rotation    string         `xml:"text-rotation,attr,omitempty"`
	Inverted    string         `xml:"inverted,attr,omitempty"`
	Transparent string         `xml:"transparent,attr,omitempty"`
	Paragraphs  []xmlParagraph `xml:"p"`
}

type xmlFrame struct {
	Points  string `xml:"points,attr"`
	BgColor string `xml:"bgcolor,attr,omitempty"`
}

type xmlJump struct {
	Page   string `xml:"page,attr"`
	Points string `xml:"points,attr"`
}

type xmlReferences struct {
	References []xmlReference `xml:"reference"`
}

type xmlReference struct {
	ID         string         `xml:"id,attr"`
	Paragraphs []xmlParagraph `xml:"p"`
}

type xmlData struct {
	Binaries []xmlBinary `xml:"binary"`
}

type xmlBinary struct {
	ID          string `xml:"id,attr"`
	ContentType string `xml:"content-type,attr"`
	Value       string `xml:",chardata"`
}
