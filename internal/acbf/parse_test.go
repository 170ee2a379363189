package acbf

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

const sampleACBF = `<?xml version="1.0" encoding="UTF-8"?>
<ACBF xmlns="http://www.fictionbook-lib.org/xml/acbf/1.0">
  <meta-data>
    <book-info>
      <author activity="Writer" lang="en">
        <first-name>Cory</first-name>
        <last-name>Doctorow</last-name>
      </author>
      <book-title lang="en">Craphound</book-title>
      <book-title lang="sk">Smetiar</book-title>
      <genre match="90">science_fiction</genre>
      <genre>humor</genre>
      <characters><name>Craphound</name><name>Jerry</name></characters>
      <annotation lang="en"><p>First line.</p><p>Second <emphasis>line</emphasis>.</p></annotation>
      <keywords lang="en">aliens, junk</keywords>
      <coverpage>
        <image href="cover.jpg"/>
      </coverpage>
      <languages>
        <text-layer lang="en" show="true"/>
        <text-layer lang="sk" show="false"/>
      </languages>
      <sequence title="Craphound" volume="1">2</sequence>
      <databaseref dbname="comicvine">4000-1</databaseref>
      <content-rating type="Age">16+</content-rating>
    </book-info>
    <publish-info>
      <publisher>Example Press</publisher>
      <publish-date value="2010-05-01">2010</publish-date>
      <city>Bratislava</city>
      <isbn>123</isbn>
      <license>CC BY-NC-SA</license>
    </publish-info>
    <document-info>
      <author><nickname>whale</nickname></author>
      <creation-date value="2011-01-01">Jan 2011</creation-date>
      <source><p>scan</p></source>
      <id>abc</id>
      <version>1.1</version>
      <history><p>1.0 first</p><p>1.1 fixes</p></history>
    </document-info>
  </meta-data>
  <body bgcolor="#111111">
    <page>
      <title lang="en">Chapter 1</title>
      <image href="p1.jpg"/>
      <text-layer lang="en" bgcolor="#fafafa">
        <text-area points="10,10 110,10 110,60 10,60" type="speech">
          <p>Hello <strong>there</strong>, see <a href="#note1">note</a>.</p>
        </text-area>
        <text-area points="0,0 50,0 50,20 0,20" inverted="true" text-rotation="90" transparent="true">
          <p>BOOM</p>
        </text-area>
      </text-layer>
      <frame points="0,0 500,0 500,300 0,300"/>
      <frame points="0,300 500,300 500,600 0,600" bgcolor="#ffffff"/>
      <jump page="3" points="400,500 500,500 500,600 400,600"/>
    </page>
    <page bgcolor="#222222" transition="fade">
      <image href="#bin1"/>
    </page>
  </body>
  <references>
    <reference id="note1"><p>A footnote.</p></reference>
  </references>
  <data>
    <binary id="bin1" content-type="image/png">aGVs
bG8=</binary>
  </data>
</ACBF>`

func TestParse_Sample(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "/tmp/book")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !doc.Valid {
		t.Fatal("Valid = false, want true")
	}
	if doc.PagesTotal() != 2 {
		t.Fatalf("PagesTotal() = %d, want 2", doc.PagesTotal())
	}
	if doc.Page(0).Image != "cover.jpg" {
		t.Fatalf("cover image = %q", doc.Page(0).Image)
	}
	if doc.Page(1).Image != "p1.jpg" {
		t.Fatalf("page 1 image = %q", doc.Page(1).Image)
	}
	if doc.BgColor != "#111111" {
		t.Fatalf("BgColor = %q", doc.BgColor)
	}
	if got := doc.PageBgColor(1); got != "#111111" {
		t.Fatalf("PageBgColor(1) = %q, want body default", got)
	}
	if got := doc.PageBgColor(2); got != "#222222" {
		t.Fatalf("PageBgColor(2) = %q", got)
	}
	if doc.Page(2).Transition != "fade" {
		t.Fatalf("Transition = %q", doc.Page(2).Transition)
	}
}

func TestParse_Metadata(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	info := doc.Info

	if info.Titles["en"] != "Craphound" || info.Titles["sk"] != "Smetiar" {
		t.Fatalf("Titles = %v", info.Titles)
	}
	if len(info.Authors) != 1 || info.Authors[0].DisplayName() != "Cory Doctorow" || info.Authors[0].Activity != "Writer" {
		t.Fatalf("Authors = %+v", info.Authors)
	}
	if len(info.Genres) != 2 || !info.Genres[0].HasMatch || info.Genres[0].Match != 90 || info.Genres[1].HasMatch {
		t.Fatalf("Genres = %+v", info.Genres)
	}
	if len(info.Characters) != 2 || info.Characters[1] != "Jerry" {
		t.Fatalf("Characters = %v", info.Characters)
	}
	if got := info.Annotations["en"]; len(got) != 2 || got[1] != "Second line." {
		t.Fatalf("Annotations = %v", info.Annotations)
	}
	if info.Keywords["en"] != "aliens, junk" {
		t.Fatalf("Keywords = %v", info.Keywords)
	}
	if len(info.Languages) != 2 || info.Languages[0] != (Language{Code: "en", Show: true}) || info.Languages[1].Show {
		t.Fatalf("Languages = %+v", info.Languages)
	}
	if len(info.Sequences) != 1 || info.Sequences[0] != (Sequence{Title: "Craphound", Number: "2", Volume: "1"}) {
		t.Fatalf("Sequences = %+v", info.Sequences)
	}
	if len(info.DatabaseRefs) != 1 || info.DatabaseRefs[0].Value != "4000-1" {
		t.Fatalf("DatabaseRefs = %+v", info.DatabaseRefs)
	}
	if len(info.ContentRating) != 1 || info.ContentRating[0].Value != "16+" {
		t.Fatalf("ContentRating = %+v", info.ContentRating)
	}

	pub := doc.Publish
	if pub.Publisher != "Example Press" || pub.PublishDate != "2010-05-01" || pub.PublishDateText != "2010" ||
		pub.City != "Bratislava" || pub.ISBN != "123" || pub.License != "CC BY-NC-SA" {
		t.Fatalf("Publish = %+v", pub)
	}

	di := doc.DocInfo
	if len(di.Authors) != 1 || di.Authors[0].DisplayName() != "whale" {
		t.Fatalf("DocInfo.Authors = %+v", di.Authors)
	}
	if di.CreationDate != "Jan 2011" || di.ID != "abc" || di.Version != "1.1" {
		t.Fatalf("DocInfo = %+v", di)
	}
	if len(di.History) != 2 || len(di.Source) != 1 {
		t.Fatalf("History = %v, Source = %v", di.History, di.Source)
	}
}

func TestParse_FramesAndTextLayers(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.FrameCount(1) != 2 {
		t.Fatalf("FrameCount(1) = %d, want 2", doc.FrameCount(1))
	}
	if got := doc.Page(1).Frames[1].Bounds(); got != image.Rect(0, 300, 500, 600) {
		t.Fatalf("frame 2 bounds = %v", got)
	}
	if got := doc.FrameBgColor(1, 1); got != "#ffffff" {
		t.Fatalf("FrameBgColor(1,1) = %q", got)
	}
	if got := doc.FrameBgColor(1, 0); got != "#111111" {
		t.Fatalf("FrameBgColor(1,0) = %q, want page fallback", got)
	}

	layer := doc.TextLayer(1, "en")
	if layer == nil {
		t.Fatal("TextLayer(1, en) = nil")
	}
	if layer.BgColor != "#fafafa" || len(layer.Areas) != 2 {
		t.Fatalf("layer = %+v", layer)
	}
	speech := layer.Areas[0]
	if speech.Type != "speech" || speech.Inverted || len(speech.Paragraphs) != 1 {
		t.Fatalf("speech area = %+v", speech)
	}
	if got := speech.Paragraphs[0].PlainText(); got != "Hello there, see note." {
		t.Fatalf("PlainText() = %q", got)
	}
	boom := layer.Areas[1]
	if !boom.Inverted || !boom.Transparent || boom.Rotation != 90 {
		t.Fatalf("boom area = %+v", boom)
	}
	if doc.TextLayer(1, "sk") != nil {
		t.Fatal("TextLayer(1, sk) should be nil")
	}

	jumps := doc.Page(1).Jumps
	if len(jumps) != 1 || jumps[0].Page != 3 {
		t.Fatalf("Jumps = %+v", jumps)
	}
}

func TestParse_ReferencesAndBinaries(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	refs := doc.PageReferences(1)
	if len(refs) != 1 {
		t.Fatalf("PageReferences(1) = %d entries, want 1", len(refs))
	}
	if refs[0].ID != "note1" || refs[0].Text[0].PlainText() != "A footnote." {
		t.Fatalf("reference = %+v", refs[0])
	}
	if !refs[0].Points.Contains(image.Pt(50, 30)) {
		t.Fatal("reference polygon should contain (50,30)")
	}

	bin, ok := doc.Binaries["bin1"]
	if !ok {
		t.Fatal("binary bin1 not found")
	}
	if string(bin.Data) != "hello" || bin.ContentType != "image/png" {
		t.Fatalf("binary = %q (%s)", bin.Data, bin.ContentType)
	}
}

func TestParse_PageIndexing(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sentinel := doc.Page(doc.PagesTotal() + 1)
	if sentinel == nil {
		t.Fatal("sentinel page is nil")
	}
	if sentinel.Image != "" || len(sentinel.Frames) != 0 {
		t.Fatalf("sentinel page should be empty, got %+v", sentinel)
	}
	if doc.Page(-1) != nil || doc.Page(doc.PagesTotal()+2) != nil {
		t.Fatal("out of range pages should be nil")
	}
}

func TestParse_DefaultLanguage(t *testing.T) {
	doc, err := Parse([]byte(`<ACBF><meta-data><book-info/></meta-data><body/></ACBF>`), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Info.Languages) != 1 || doc.Info.Languages[0].Code != UnknownLanguage {
		t.Fatalf("Languages = %+v", doc.Info.Languages)
	}
	if doc.PagesTotal() != 0 {
		t.Fatalf("PagesTotal() = %d", doc.PagesTotal())
	}
	if doc.BgColor != DefaultBgColor {
		t.Fatalf("BgColor = %q", doc.BgColor)
	}
}

func TestParse_InvalidPoints(t *testing.T) {
	_, err := Parse([]byte(`<ACBF><body><page><frame points="1;2 3,4"/></page></body></ACBF>`), "")
	if err == nil {
		t.Fatal("expected error for malformed points")
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.acbf"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestOpen_DegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.acbf")
	if err := os.WriteFile(path, []byte("<ACBF><body>"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := Open(path, nil)
	if doc.Valid {
		t.Fatal("Valid = true, want false")
	}
	if doc.PagesTotal() != 0 {
		t.Fatalf("PagesTotal() = %d", doc.PagesTotal())
	}
	if len(doc.Info.Languages) != 1 || doc.Info.Languages[0].Code != UnknownLanguage {
		t.Fatalf("Languages = %+v", doc.Info.Languages)
	}
}

func TestParseFile_SetsDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.acbf")
	if err := os.WriteFile(path, []byte(sampleACBF), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if doc.Dir != dir || doc.Path != path {
		t.Fatalf("Dir = %q, Path = %q", doc.Dir, doc.Path)
	}
}

func TestDocument_TitleFallback(t *testing.T) {
	doc := Empty()
	doc.Info.Titles = map[string]string{"de": "Buch", "en": "Book"}
	if got := doc.Title("de"); got != "Buch" {
		t.Fatalf("Title(de) = %q", got)
	}
	if got := doc.Title("fr"); got != "Book" {
		t.Fatalf("Title(fr) = %q, want en fallback", got)
	}
	doc.Info.Titles = map[string]string{"sk": "Kniha", "cz": "Kniha CZ"}
	if got := doc.Title("fr"); got != "Kniha CZ" {
		t.Fatalf("Title(fr) = %q, want first sorted", got)
	}
}

func TestDocument_Contents(t *testing.T) {
	doc, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	table := doc.ContentsTable()
	if len(table) != 2 {
		t.Fatalf("ContentsTable() has %d lists, want 2", len(table))
	}
	if len(table[0]) != 1 || table[0][0] != (ContentsEntry{Label: "Chapter 1", Page: 2}) {
		t.Fatalf("en contents = %+v", table[0])
	}
	if len(table[1]) != 0 {
		t.Fatalf("sk contents = %+v, want empty", table[1])
	}
}
