package main

import (
	"archive/zip"
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/layout"
)

func subcommand(t *testing.T, name string, flagArgs ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	if err != nil {
		t.Fatalf("Find(%q) error = %v", name, err)
	}
	if err := cmd.ParseFlags(flagArgs); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd
}

func readRenderOptionsForTest(t *testing.T, flagArgs ...string) error {
	t.Helper()
	_, err := readRenderOptions(subcommand(t, "render", flagArgs...), []string{"./books/sample.cbz"})
	return err
}

func TestReadRenderOptions_Defaults(t *testing.T) {
	opts, err := readRenderOptions(subcommand(t, "render"), []string{"./books/sample.cbz"})
	if err != nil {
		t.Fatalf("readRenderOptions() error = %v", err)
	}

	if opts.OutputPath != "./books/sample-p1.png" {
		t.Fatalf("OutputPath = %q", opts.OutputPath)
	}
	if opts.Viewport != (layout.Size{W: defaultWidth, H: defaultHeight}) {
		t.Fatalf("Viewport = %v", opts.Viewport)
	}
	if opts.Position.Page != 1 || opts.Position.Frame != 1 || opts.Position.Zoom != layout.ZoomWholePage {
		t.Fatalf("Position = %+v", opts.Position)
	}
	if !opts.Render.Stretch || opts.Render.CropBorder || opts.Render.AutoRotate || opts.Render.ExifOrientation {
		t.Fatalf("Render = %+v", opts.Render)
	}
	if spec := opts.Render.Fonts[acbf.StyleDefault]; spec.Path != "" || spec.Size != defaultFontSize {
		t.Fatalf("default font = %+v", spec)
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
}

func TestReadRenderOptions_CustomFlags(t *testing.T) {
	cmd := subcommand(t, "render",
		"--output", "./out/page.png",
		"--page", "3",
		"--frame", "2",
		"--zoom", "panel",
		"--rotate", "90",
		"--width", "640",
		"--height", "480",
		"--filter", "cubic",
		"--no-stretch",
		"--crop-border",
		"--autorotate",
		"--exif-orientation",
		"--brightness", "0.5",
		"--sharpness", "-1",
		"--font", "/fonts/comic.ttf",
		"--font-size", "20",
		"--text-color", "#333",
		"--work-dir", "/tmp/books",
		"--extractor", "unar -o",
		"--verbose",
	)
	opts, err := readRenderOptions(cmd, []string{"./books/sample.cbz"})
	if err != nil {
		t.Fatalf("readRenderOptions() error = %v", err)
	}

	if opts.OutputPath != "./out/page.png" {
		t.Fatalf("OutputPath = %q", opts.OutputPath)
	}
	if p := opts.Position; p.Page != 3 || p.Frame != 2 || p.Rotation != 90 || p.Zoom != layout.ZoomPanel {
		t.Fatalf("Position = %+v", p)
	}
	if opts.Viewport != (layout.Size{W: 640, H: 480}) {
		t.Fatalf("Viewport = %v", opts.Viewport)
	}
	if opts.Render.Filter != "cubic" || opts.Render.Stretch || !opts.Render.CropBorder || !opts.Render.AutoRotate || !opts.Render.ExifOrientation {
		t.Fatalf("Render = %+v", opts.Render)
	}
	if opts.Enhance.Brightness != 0.5 || opts.Enhance.Sharpness != -1 {
		t.Fatalf("Enhance = %+v", opts.Enhance)
	}
	if spec := opts.Render.Fonts[acbf.StyleDefault]; spec.Path != "/fonts/comic.ttf" || spec.Size != 20 {
		t.Fatalf("default font = %+v", spec)
	}
	if spec := opts.Render.Fonts[acbf.StyleStrong]; spec.Path != "" || spec.Size != 20 {
		t.Fatalf("strong font = %+v", spec)
	}
	if opts.Render.TextColor != (color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}) {
		t.Fatalf("TextColor = %v", opts.Render.TextColor)
	}
	if opts.WorkRoot != "/tmp/books" || opts.Tool != "unar -o" {
		t.Fatalf("WorkRoot = %q, Tool = %q", opts.WorkRoot, opts.Tool)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
}

func TestReadRenderOptions_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		flag string
	}{
		{args: []string{"--page", "0"}, flag: "--page"},
		{args: []string{"--frame", "0"}, flag: "--frame"},
		{args: []string{"--zoom", "diagonal"}, flag: "--zoom"},
		{args: []string{"--rotate", "45"}, flag: "--rotate"},
		{args: []string{"--width", "0"}, flag: "--width"},
		{args: []string{"--height", "-1"}, flag: "--height"},
		{args: []string{"--language", "-1"}, flag: "--language"},
		{args: []string{"--filter", "box"}, flag: "--filter"},
		{args: []string{"--font-size", "0"}, flag: "--font-size"},
		{args: []string{"--text-color", "nope"}, flag: "--text-color"},
		{args: []string{"--inverted-text-color", "#12"}, flag: "--inverted-text-color"},
		{args: []string{"--brightness", "5"}, flag: "enhancement"},
		{args: []string{"--log-level", "trace"}, flag: "--log-level"},
		{args: []string{"--log-format", "yaml"}, flag: "--log-format"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := readRenderOptionsForTest(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.flag) {
				t.Fatalf("expected %s validation error, got %v", tt.flag, err)
			}
		})
	}
}

func TestReadCLIOptions_JSONFormat(t *testing.T) {
	opts, err := readCLIOptions(subcommand(t, "info", "--log-format", "json"), []string{"./books/sample.cbz"})
	if err != nil {
		t.Fatalf("readCLIOptions() error = %v", err)
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level")
	}
}

func TestBuildLogger_FormatNormalization(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	// JSON format should produce JSON output (starts with '{')
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

func TestBuildLogger_Level(t *testing.T) {
	logger := buildLogger(io.Discard, "WARN", "text")
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("WARN logger should not log INFO")
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Fatal("WARN logger should log WARN")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := defaultOutputPath("./books/sample.cbz", "acbf")
	if got != "./books/sample.acbf" {
		t.Fatalf("defaultOutputPath() = %q", got)
	}
}

// createTestCBZ writes a CBZ with a cover and two pages into dir.
func createTestCBZ(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.cbz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range []string{"01.png", "02.png", "03.png"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(w, imaging.New(120, 60, color.NRGBA{R: 200, A: 255})); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	book := createTestCBZ(t, dir)
	out := filepath.Join(dir, "page.png")

	if _, err := runCLI(t, "render", book, "--page", "2", "--width", "240", "--height", "100", "--work-dir", dir, "-o", out); err != nil {
		t.Fatalf("render error = %v", err)
	}
	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	if img.Bounds().Dx() != 240 || img.Bounds().Dy() != 100 {
		t.Errorf("output size = %v, want 240x100", img.Bounds().Size())
	}

	_, err = runCLI(t, "render", book, "--page", "9", "--work-dir", dir, "-o", out)
	if err == nil || !strings.Contains(err.Error(), "--page") {
		t.Errorf("expected --page range error, got %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	book := createTestCBZ(t, dir)
	out := filepath.Join(dir, "exported.acbf")

	if _, err := runCLI(t, "export", book, "--work-dir", dir, "-o", out); err != nil {
		t.Fatalf("export error = %v", err)
	}
	doc, err := acbf.ParseFile(out)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if doc.PagesTotal() != 2 || doc.Cover.Image != "01.png" {
		t.Errorf("exported %d pages with cover %q", doc.PagesTotal(), doc.Cover.Image)
	}
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	book := createTestCBZ(t, dir)

	out, err := runCLI(t, "info", book, "--work-dir", dir)
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	for _, want := range []string{"Title:", "Pages:      2", "02.png", "03.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}
