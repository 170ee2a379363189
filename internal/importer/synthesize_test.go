package importer

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/yuanying/acbfview/internal/acbf"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func pageImages(doc *acbf.Document) []string {
	var out []string
	for _, p := range doc.Pages {
		out = append(out, p.Image)
	}
	return out
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  Convention
	}{
		{"native", []string{"book.acbf", "comic.xml", "a.png"}, ConventionNative},
		{"acv", []string{"comic.xml", "ComicInfo.xml", "a.png"}, ConventionACV},
		{"comicinfo", []string{"ComicInfo.xml", "a.png"}, ConventionComicInfo},
		{"images", []string{"a.png", "notes.txt"}, ConventionImages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				writeFile(t, filepath.Join(dir, f), "x")
			}
			got, native, err := Detect(dir)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
			if (got == ConventionNative) != (native != "") {
				t.Errorf("Detect() native path = %q", native)
			}
		})
	}
}

func TestBuild_BareImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "002.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "001.png"), 4, 4)
	writePNG(t, filepath.Join(dir, "ch2", "001.PNG"), 4, 4)
	writePNG(t, filepath.Join(dir, "010.png"), 4, 4)
	writeFile(t, filepath.Join(dir, "readme.txt"), "hi")

	doc, err := Build(dir, ConventionImages)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.Cover.Image != "001.png" {
		t.Errorf("cover = %q, want 001.png", doc.Cover.Image)
	}
	want := []string{"002.png", "010.png", "ch2/001.PNG"}
	got := pageImages(doc)
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i+1, got[i], want[i])
		}
	}
	for i := 1; i <= doc.PagesTotal(); i++ {
		if doc.FrameCount(i) != 0 || len(doc.Page(i).TextLayers) != 0 {
			t.Errorf("page %d should have no frames or text", i)
		}
	}
}

func TestBuild_DeterministicOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "A.png", "a.png", "c/d.gif", "B.webp"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	first, err := Build(dir, ConventionImages)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(dir, ConventionImages)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		a, b := pageImages(first), pageImages(again)
		if len(a) != len(b) {
			t.Fatalf("page count changed: %v vs %v", a, b)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("order changed: %v vs %v", a, b)
			}
		}
	}
	if first.Cover.Image != "A.png" {
		t.Errorf("cover = %q, want A.png (case-sensitive sort)", first.Cover.Image)
	}
}

func TestBuild_ACV(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover.png"), 10, 10)
	writePNG(t, filepath.Join(dir, "screen_001.png"), 1000, 500)
	writePNG(t, filepath.Join(dir, "screen_002.png"), 200, 100)
	writePNG(t, filepath.Join(dir, "extra", "screen_003.png"), 100, 100)
	writePNG(t, filepath.Join(dir, "extra", "unused.png"), 100, 100)
	writeFile(t, filepath.Join(dir, acvSidecar), `<?xml version="1.0"?>
<comic title="ACV Book" bgcolor="#123456">
  <images indexPattern="000" namePattern="screen_@index"/>
  <screen index="1" bgcolor="#ffffff">
    <frame relativeArea="0.1 0.2 0.3 0.4"/>
    <frame relativeArea="0 0 1 1" bgcolor="#00ff00"/>
  </screen>
  <screen index="3"/>
</comic>`)

	doc, err := Build(dir, ConventionACV)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if doc.Title("") != "ACV Book" {
		t.Errorf("title = %q", doc.Title(""))
	}
	if doc.BgColor != "#123456" {
		t.Errorf("BgColor = %q", doc.BgColor)
	}

	want := []string{"screen_001.png", "screen_002.png", "extra/screen_003.png"}
	got := pageImages(doc)
	if len(got) != len(want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("page %d = %q, want %q", i+1, got[i], want[i])
		}
	}

	page := doc.Page(1)
	if page.BgColor != "#ffffff" {
		t.Errorf("screen bgcolor = %q", page.BgColor)
	}
	if len(page.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(page.Frames))
	}
	if got := page.Frames[0].Points.String(); got != "100,100 400,100 400,300 100,300" {
		t.Errorf("frame 1 = %s", got)
	}
	if got := page.Frames[1].Points.String(); got != "0,0 1000,0 1000,500 0,500" {
		t.Errorf("frame 2 = %s", got)
	}
	if page.Frames[1].BgColor != "#00ff00" {
		t.Errorf("frame 2 bgcolor = %q", page.Frames[1].BgColor)
	}
	if doc.FrameCount(2) != 0 {
		t.Errorf("unreferenced page should have no frames")
	}
}

func TestBuild_ACVMissingScreenImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover.png"), 10, 10)
	writeFile(t, filepath.Join(dir, acvSidecar), `<comic><images indexPattern="00" namePattern="p@index"/><screen index="7"/></comic>`)

	_, err := Build(dir, ConventionACV)
	if !errors.Is(err, ErrScreenImageMissing) {
		t.Fatalf("error = %v, want ErrScreenImageMissing", err)
	}
	var se *SynthesisError
	if !errors.As(err, &se) {
		t.Fatalf("error = %T, want *SynthesisError", err)
	}
}

func TestBuild_MalformedSidecar(t *testing.T) {
	for _, name := range []string{acvSidecar, comicInfoSidecar} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writePNG(t, filepath.Join(dir, "cover.png"), 10, 10)
			writeFile(t, filepath.Join(dir, name), "<comic><unclosed>")
			conv, _, err := Detect(dir)
			if err != nil {
				t.Fatal(err)
			}
			_, err = Build(dir, conv)
			var se *SynthesisError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *SynthesisError", err)
			}
		})
	}
}

func TestRelativeRect(t *testing.T) {
	r, err := relativeRect("0.1 0.2 0.3 0.4", 1000, 500)
	if err != nil {
		t.Fatalf("relativeRect() error = %v", err)
	}
	if r != image.Rect(100, 100, 400, 300) {
		t.Errorf("relativeRect() = %v", r)
	}
	if _, err := relativeRect("0.1 0.2 0.3", 10, 10); err == nil {
		t.Error("expected error for three values")
	}
}

func TestScreenName(t *testing.T) {
	tests := []struct {
		name, index string
		idx         int
		want        string
	}{
		{"screen_@index", "000", 7, "screen_007"},
		{"@index", "00", 12, "12"},
		{"p@index.jpg", "0000", 3, "p0003"},
		{"x@index", "0", 123, "x123"},
	}
	for _, tt := range tests {
		if got := screenName(tt.name, tt.index, tt.idx); got != tt.want {
			t.Errorf("screenName(%q, %q, %d) = %q, want %q", tt.name, tt.index, tt.idx, got, tt.want)
		}
	}
}

func TestPrepare_WritesDocument(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "01.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "02.png"), 8, 8)

	path, conv, err := Prepare(dir, "/library/My Comic.cbz", nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if conv != ConventionImages {
		t.Errorf("convention = %v", conv)
	}
	if path != filepath.Join(dir, "My Comic.acbf") {
		t.Errorf("path = %q", path)
	}

	doc, err := acbf.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if doc.PagesTotal() != 1 || doc.Page(0).Image != "01.png" || doc.Page(1).Image != "02.png" {
		t.Errorf("document pages = %d, cover = %q", doc.PagesTotal(), doc.Page(0).Image)
	}

	again, conv, err := Prepare(dir, "/library/My Comic.cbz", nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if conv != ConventionNative || again != path {
		t.Errorf("second Prepare() = %q, %v; want native %q", again, conv, path)
	}
}
