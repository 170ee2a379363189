package acbf

import (
	"bytes"
	"image"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite_RoundTrip(t *testing.T) {
	orig, err := Parse([]byte(sampleACBF), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var buf bytes.Buffer
	if err := Write(orig, &buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Fatalf("output should start with XML header, got %q", buf.String()[:20])
	}
	if !strings.Contains(buf.String(), `xmlns="`+Namespace+`"`) {
		t.Fatal("output should carry the ACBF namespace")
	}

	got, err := Parse(buf.Bytes(), "")
	if err != nil {
		t.Fatalf("Parse(written) error = %v\n%s", err, buf.String())
	}

	if got.PagesTotal() != orig.PagesTotal() {
		t.Fatalf("PagesTotal() = %d, want %d", got.PagesTotal(), orig.PagesTotal())
	}
	if got.Title("en") != "Craphound" || got.Title("sk") != "Smetiar" {
		t.Fatalf("titles = %v", got.Info.Titles)
	}
	if got.Cover.Image != "cover.jpg" {
		t.Fatalf("cover = %q", got.Cover.Image)
	}
	if got.BgColor != "#111111" {
		t.Fatalf("BgColor = %q", got.BgColor)
	}
	for i := 1; i <= orig.PagesTotal(); i++ {
		if got.Page(i).Image != orig.Page(i).Image {
			t.Fatalf("page %d image = %q, want %q", i, got.Page(i).Image, orig.Page(i).Image)
		}
		if got.FrameCount(i) != orig.FrameCount(i) {
			t.Fatalf("page %d frames = %d, want %d", i, got.FrameCount(i), orig.FrameCount(i))
		}
		for f := range orig.Page(i).Frames {
			if got.Page(i).Frames[f].Points.String() != orig.Page(i).Frames[f].Points.String() {
				t.Fatalf("page %d frame %d = %v", i, f, got.Page(i).Frames[f].Points)
			}
		}
	}

	area := got.TextLayer(1, "en").Areas[0]
	if area.Paragraphs[0].PlainText() != "Hello there, see note." {
		t.Fatalf("text = %q", area.Paragraphs[0].PlainText())
	}
	if links := area.Paragraphs[0].Links(); len(links) != 1 || links[0] != "#note1" {
		t.Fatalf("Links() = %v", links)
	}
	if string(got.Binaries["bin1"].Data) != "hello" {
		t.Fatalf("binary = %q", got.Binaries["bin1"].Data)
	}
	if got.References["note1"].Text[0].PlainText() != "A footnote." {
		t.Fatalf("reference = %+v", got.References["note1"])
	}
	if len(got.Info.Languages) != 2 || got.Info.Languages[1].Show {
		t.Fatalf("Languages = %+v", got.Info.Languages)
	}
}

func TestWriteFile_SynthesizedDocument(t *testing.T) {
	doc := Empty()
	doc.Valid = true
	doc.Info.Titles[""] = "Bare & Simple"
	doc.Info.Authors = []Author{{FirstName: "Jane", MiddleName: "Q.", LastName: "Public", Activity: "Writer"}}
	doc.Cover = &Page{Image: "001.jpg"}
	doc.Pages = []*Page{
		{Image: "002.jpg", Frames: []Frame{{Points: Rect(image.Rect(100, 100, 400, 300))}}},
		{Image: "003.jpg"},
	}

	path := filepath.Join(t.TempDir(), "book.acbf")
	if err := WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if got.Title("xx") != "Bare & Simple" {
		t.Fatalf("Title() = %q", got.Title("xx"))
	}
	if names := got.AuthorNames(); len(names) != 1 || names[0] != "Jane Q. Public" {
		t.Fatalf("AuthorNames() = %v", names)
	}
	if got.PagesTotal() != 2 || got.Cover.Image != "001.jpg" {
		t.Fatalf("pages = %d, cover = %q", got.PagesTotal(), got.Cover.Image)
	}
	if got.Page(1).Frames[0].Points.String() != "100,100 400,100 400,300 100,300" {
		t.Fatalf("frame = %s", got.Page(1).Frames[0].Points)
	}
	if len(got.Info.Languages) != 1 || got.Info.Languages[0].Code != UnknownLanguage {
		t.Fatalf("Languages = %+v", got.Info.Languages)
	}
	if got.BgColor != DefaultBgColor {
		t.Fatalf("BgColor = %q", got.BgColor)
	}
}
