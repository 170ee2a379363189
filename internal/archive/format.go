package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Format identifies an archive container by its leading bytes.
type Format int

const (
	FormatUnknown Format = iota
	FormatZIP
	FormatRAR
	Format7z
	FormatGzip
	FormatBzip2
	FormatTar
)

func (f Format) String() string {
	switch f {
	case FormatZIP:
		return "zip"
	case FormatRAR:
		return "rar"
	case Format7z:
		return "7z"
	case FormatGzip:
		return "gzip"
	case FormatBzip2:
		return "bzip2"
	case FormatTar:
		return "tar"
	default:
		return "unknown"
	}
}

// headerSize covers the tar "ustar" magic at offset 257.
const headerSize = 262

var (
	zipLocal   = []byte("PK\x03\x04")
	zipEmpty   = []byte("PK\x05\x06")
	zipSpanned = []byte("PK\x07\x08")
	rarMagic   = []byte("Rar!\x1a\x07")
	sevenZip   = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
	gzipMagic  = []byte{0x1F, 0x8B}
	bzip2Magic = []byte("BZh")
	tarMagic   = []byte("ustar")
)

// DetectFormat sniffs the container format of the file at path. The file
// extension is not consulted.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return sniff(head[:n]), nil
}

func sniff(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, zipLocal), bytes.HasPrefix(head, zipEmpty), bytes.HasPrefix(head, zipSpanned):
		return FormatZIP
	case bytes.HasPrefix(head, rarMagic):
		return FormatRAR
	case bytes.HasPrefix(head, sevenZip):
		return Format7z
	case bytes.HasPrefix(head, gzipMagic):
		return FormatGzip
	case bytes.HasPrefix(head, bzip2Magic):
		return FormatBzip2
	case len(head) >= 262 && bytes.Equal(head[257:262], tarMagic):
		return FormatTar
	default:
		return FormatUnknown
	}
}
