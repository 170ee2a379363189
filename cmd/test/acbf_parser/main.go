// Test program for ACBF document parser functionality
//
// Usage:
//   go run ./cmd/test/acbf_parser/main.go <acbf-file-path>
//
// Example:
//   go run ./cmd/test/acbf_parser/main.go ~/Comics/sample/sample.acbf
//
// This program will:
// - Parse the ACBF document
// - Display metadata (title, authors, languages, etc.)
// - List pages with their frames, text layers and jumps
// - Show the table of contents per language
// - List references and embedded binaries

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yuanying/acbfview/internal/acbf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <acbf-file-path>\n", os.Args[0])
		os.Exit(1)
	}

	path := os.Args[1]

	fmt.Println("=== ACBF Parser Test ===")
	fmt.Printf("File: %s\n\n", path)

	doc, err := acbf.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing ACBF: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ ACBF parsed successfully\n\n")

	// Metadata
	fmt.Println("--- Metadata ---")
	fmt.Printf("Title: %s\n", doc.Title(""))
	fmt.Printf("Authors: %s\n", strings.Join(doc.AuthorNames(), ", "))
	langs := make([]string, 0, len(doc.Info.Languages))
	for _, l := range doc.Info.Languages {
		if l.Show {
			langs = append(langs, l.Code)
		} else {
			langs = append(langs, l.Code+" (hidden)")
		}
	}
	fmt.Printf("Languages: %s\n", strings.Join(langs, ", "))
	for _, g := range doc.Info.Genres {
		fmt.Printf("Genre: %s\n", g.Name)
	}
	for _, s := range doc.Info.Sequences {
		fmt.Printf("Sequence: %s #%s\n", s.Title, s.Number)
	}
	if doc.Publish.Publisher != "" {
		fmt.Printf("Publisher: %s (%s)\n", doc.Publish.Publisher, doc.Publish.PublishDate)
	}
	fmt.Printf("Background: %s\n\n", doc.PageBgColor(0))

	// Pages
	fmt.Printf("--- Pages (%d + cover) ---\n", doc.PagesTotal())
	for i := 0; i <= doc.PagesTotal(); i++ {
		p := doc.Page(i)
		label := fmt.Sprintf("page %d", i)
		if i == 0 {
			label = "cover"
		}
		fmt.Printf("%2d. %-8s %s\n", i+1, label, p.Image)
		for j, f := range p.Frames {
			fmt.Printf("      frame %d: %v\n", j+1, f.Bounds())
		}
		layers := make([]string, 0, len(p.TextLayers))
		for lang := range p.TextLayers {
			layers = append(layers, lang)
		}
		sort.Strings(layers)
		for _, lang := range layers {
			fmt.Printf("      text-layer %s: %d areas\n", lang, len(p.TextLayers[lang].Areas))
		}
		for _, j := range p.Jumps {
			fmt.Printf("      jump -> page %d at %v\n", j.Page, j.Points.Bounds())
		}
	}

	// Table of contents
	fmt.Println("\n--- Contents ---")
	for i, entries := range doc.ContentsTable() {
		fmt.Printf("[%s]\n", doc.Language(i).Code)
		for _, e := range entries {
			fmt.Printf("  %3d  %s\n", e.Page, e.Label)
		}
	}

	// References and binaries
	fmt.Printf("\n--- References (%d) ---\n", len(doc.References))
	for id, r := range doc.References {
		texts := make([]string, 0, len(r.Text))
		for _, p := range r.Text {
			texts = append(texts, p.PlainText())
		}
		fmt.Printf("  #%s: %s\n", id, strings.Join(texts, " / "))
	}
	fmt.Printf("\n--- Binaries (%d) ---\n", len(doc.Binaries))
	for id, b := range doc.Binaries {
		fmt.Printf("  #%s: %s, %d bytes\n", id, b.ContentType, len(b.Data))
	}

	fmt.Println("\n✓ All tests passed!")
}
