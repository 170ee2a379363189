package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuanying/acbfview/internal/acbf"
)

// Convention is the metadata layout found in an extracted archive.
type Convention int

const (
	ConventionNative    Convention = iota // an .acbf document is present
	ConventionACV                         // comic.xml sidecar
	ConventionComicInfo                   // ComicInfo.xml sidecar
	ConventionImages                      // images only
)

const (
	acvSidecar       = "comic.xml"
	comicInfoSidecar = "ComicInfo.xml"
)

func (c Convention) String() string {
	switch c {
	case ConventionNative:
		return "acbf"
	case ConventionACV:
		return "acv"
	case ConventionComicInfo:
		return "comicinfo"
	case ConventionImages:
		return "images"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Detect inspects the top level of dir. When a native document exists its
// path is returned too. An ACV sidecar wins over ComicInfo.
func Detect(dir string) (Convention, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, "", fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), acbf.Extension) {
			return ConventionNative, filepath.Join(dir, e.Name()), nil
		}
	}
	if isFile(filepath.Join(dir, acvSidecar)) {
		return ConventionACV, "", nil
	}
	if isFile(filepath.Join(dir, comicInfoSidecar)) {
		return ConventionComicInfo, "", nil
	}
	return ConventionImages, "", nil
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
