package importer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/yuanying/acbfview/internal/acbf"
)

// Prepare returns the path of the document to open for an extracted
// archive in dir. A native document is used as-is; otherwise one is
// synthesized from the images and sidecars and written next to them.
func Prepare(dir, archivePath string, logger *slog.Logger) (string, Convention, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conv, native, err := Detect(dir)
	if err != nil {
		return "", 0, err
	}
	if conv == ConventionNative {
		logger.Debug("found native document", "path", native)
		return native, conv, nil
	}

	doc, err := Build(dir, conv)
	if err != nil {
		return "", conv, err
	}
	out := filepath.Join(dir, documentName(archivePath))
	if err := acbf.WriteFile(doc, out); err != nil {
		return "", conv, &SynthesisError{File: out, Err: err}
	}
	logger.Info("synthesized document",
		"path", out,
		"convention", conv,
		"pages", doc.PagesTotal(),
	)
	return out, conv, nil
}

// Synthesize builds and writes a document for dir regardless of whether a
// native one already exists, returning the written path.
func Synthesize(dir, archivePath string) (string, error) {
	conv, _, err := Detect(dir)
	if err != nil {
		return "", err
	}
	if conv == ConventionNative {
		conv = sidecarConvention(dir)
	}
	doc, err := Build(dir, conv)
	if err != nil {
		return "", err
	}
	out := filepath.Join(dir, documentName(archivePath))
	if err := acbf.WriteFile(doc, out); err != nil {
		return "", &SynthesisError{File: out, Err: err}
	}
	return out, nil
}

func sidecarConvention(dir string) Convention {
	switch {
	case isFile(filepath.Join(dir, acvSidecar)):
		return ConventionACV
	case isFile(filepath.Join(dir, comicInfoSidecar)):
		return ConventionComicInfo
	default:
		return ConventionImages
	}
}

func documentName(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + acbf.Extension
}

// Build synthesizes an in-memory document from the files in dir using the
// given convention. The first image in sorted order is the cover.
func Build(dir string, conv Convention) (*acbf.Document, error) {
	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}

	doc := acbf.Empty()
	doc.Valid = true
	doc.Dir = dir
	doc.Cover = &acbf.Page{}

	// stem -> page, for ACV screen lookup
	pages := make(map[string]*acbf.Page)
	// stem -> href of nested images that only become pages through a screen
	nested := make(map[string]string)

	first := true
	for _, f := range files {
		if !IsImage(f) {
			continue
		}
		if first {
			first = false
			doc.Cover = newPage(f)
			pages[stem(f)] = doc.Cover
			continue
		}
		if conv == ConventionACV {
			if strings.Contains(f, "/") {
				nested[stem(f)] = f
				continue
			}
			page := newPage(f)
			doc.Pages = append(doc.Pages, page)
			pages[stem(f)] = page
			continue
		}
		doc.Pages = append(doc.Pages, newPage(f))
	}

	switch conv {
	case ConventionACV:
		if err := applyACV(doc, dir, pages, nested); err != nil {
			return nil, err
		}
	case ConventionComicInfo:
		if err := applyComicInfo(doc, filepath.Join(dir, comicInfoSidecar)); err != nil {
			return nil, err
		}
	case ConventionImages:
	default:
		return nil, fmt.Errorf("cannot synthesize a document for convention %s", conv)
	}
	return doc, nil
}

func newPage(href string) *acbf.Page {
	return &acbf.Page{
		Image:      href,
		Titles:     map[string]string{},
		TextLayers: map[string]*acbf.TextLayer{},
	}
}
