package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc receives the completed fraction of an extraction in [0,1].
type ProgressFunc func(fraction float64)

// Extractor unpacks comic archives into a working directory.
type Extractor struct {
	// Tool handles every container that is not ZIP. Nil means DefaultTool().
	Tool ToolRunner
	// Progress is called synchronously on the calling goroutine.
	Progress ProgressFunc
	Logger   *slog.Logger
}

// NewExtractor returns an Extractor backed by the default external tool.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{Tool: DefaultTool(), Logger: logger}
}

// Extract empties destDir and unpacks archivePath into it. A path that
// already names an ACBF document is returned unchanged without touching
// destDir. On success destDir is returned.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) (string, error) {
	if strings.EqualFold(filepath.Ext(archivePath), ".acbf") {
		return archivePath, nil
	}
	logger := e.logger()

	if err := ClearDir(destDir); err != nil {
		return "", &ExtractError{Op: "clear", Path: destDir, Err: err}
	}

	format, err := DetectFormat(archivePath)
	if err != nil {
		return "", &ExtractError{Op: "sniff", Path: archivePath, Err: err}
	}
	logger.Debug("detected archive format", "path", archivePath, "format", format)

	if format == FormatZIP {
		if err := e.unzip(archivePath, destDir); err != nil {
			return "", &ExtractError{Op: "unzip", Path: archivePath, Err: err}
		}
		return destDir, nil
	}

	tool := e.Tool
	if tool == nil {
		tool = DefaultTool()
	}
	e.report(0.5)
	if err := tool.Run(ctx, archivePath, destDir); err != nil {
		return "", &ExtractError{Op: "tool", Path: archivePath, Err: fmt.Errorf("%w: %v", ErrToolFailure, err)}
	}
	e.report(1)
	return destDir, nil
}

func (e *Extractor) unzip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		if r != nil {
			r.Close()
		}
		return fmt.Errorf("%w: %v", ErrUnsafePath, err)
	}
	if err != nil {
		return fmt.Errorf("failed to open ZIP archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dest)
	total := len(r.File)
	for i, zf := range r.File {
		fpath := filepath.Join(root, zf.Name)
		if fpath != root && !strings.HasPrefix(fpath, root+string(os.PathSeparator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, zf.Name)
		}

		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0o755); err != nil {
				return err
			}
		} else {
			if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
				return err
			}
			if err := extractFile(zf, fpath); err != nil {
				return fmt.Errorf("failed to extract %s: %w", zf.Name, err)
			}
		}
		e.report(float64(i+1) / float64(total))
	}
	if total == 0 {
		e.report(1)
	}
	return nil
}

func extractFile(zf *zip.File, dest string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (e *Extractor) report(fraction float64) {
	if e.Progress != nil {
		e.Progress(fraction)
	}
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// ClearDir removes every entry of dir, creating dir when it does not exist.
func ClearDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrClearBlocked, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrClearBlocked, err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("%w: %v", ErrClearBlocked, err)
		}
	}
	return nil
}
