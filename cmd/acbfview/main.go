package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/yuanying/acbfview/internal/acbf"
	"github.com/yuanying/acbfview/internal/archive"
	"github.com/yuanying/acbfview/internal/layout"
	"github.com/yuanying/acbfview/internal/render"
	"github.com/yuanying/acbfview/internal/viewer"
)

const (
	defaultWidth    = 800
	defaultHeight   = 600
	defaultFontSize = render.DefaultFontSize
)

type cliOptions struct {
	InputPath string
	WorkRoot  string
	Tool      string
	Logger    *slog.Logger
}

type renderOptions struct {
	cliOptions
	OutputPath string
	Position   viewer.Position
	Viewport   layout.Size
	Enhance    layout.Enhancements
	Render     render.Options
}

type exportOptions struct {
	cliOptions
	OutputPath string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "acbfview",
		Short: "Inspect and render ACBF comic books",
		Long: `acbfview opens comic books (ACBF, CBZ and any archive the external
extractor understands, with ACV or ComicInfo metadata) and renders pages
the way a comic viewer shows them: whole page, fit width or panel by panel.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text, json")
	pf.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")
	pf.String("work-dir", "", "Parent directory for extracted books (default: system temp dir)")
	pf.String("extractor", "", `External extractor command line (default: "patool --non-interactive extract --outdir")`)

	root.AddCommand(newInfoCmd(), newRenderCmd(), newExportCmd())
	return root
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <book>",
		Short: "Print book metadata, pages and table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts, viewer.DefaultOptions())
			if err != nil {
				return err
			}
			defer s.Close()
			return printInfo(cmd.OutOrStdout(), s.Document())
		},
	}
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <book>",
		Short: "Render one page to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readRenderOptions(cmd, args)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "Output PNG path (default: <book>-p<page>.png)")
	f.Int("page", 1, "Displayed page number (1 is the cover)")
	f.Int("frame", 1, "Frame number in panel zoom")
	f.String("zoom", "whole", "Zoom mode: whole, width, panel")
	f.Int("rotate", 0, "Counter-clockwise rotation: 0, 90, 180, 270")
	f.Int("width", defaultWidth, "Viewport width in pixels")
	f.Int("height", defaultHeight, "Viewport height in pixels")
	f.Int("language", 0, "Index of the text layer language")
	f.String("filter", "lanczos", "Resize filter: nearest, linear, cubic, lanczos")
	f.Bool("no-stretch", false, "Never enlarge pages in whole page mode")
	f.Bool("crop-border", false, "Trim uniform page margins")
	f.Bool("autorotate", false, "Rotate whole pages to best fit the viewport")
	f.Bool("exif-orientation", false, "Turn JPEG pages upright from their EXIF orientation")
	f.Float64("brightness", 0, "Brightness adjustment (-0.9 to 1)")
	f.Float64("contrast", 0, "Contrast adjustment (-0.9 to 1)")
	f.Float64("saturation", 0, "Saturation adjustment (-1 to 1)")
	f.Float64("sharpness", 0, "Sharpness adjustment (-2 to 2)")
	f.String("font", "", "Font file for plain text (default: bundled Go font)")
	f.Float64("font-size", defaultFontSize, "Text layer font size in points")
	f.String("text-color", "#000000", "Text color")
	f.String("inverted-text-color", "#ffffff", "Text color of inverted areas")
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <book>",
		Short: "Write the book's ACBF document, synthesizing it when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := readCLIOptions(cmd, args)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = defaultOutputPath(base.InputPath, "acbf")
			}
			return runExport(cmd.Context(), exportOptions{cliOptions: base, OutputPath: output})
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output path (default: input with .acbf extension)")
	return cmd
}

func readCLIOptions(cmd *cobra.Command, args []string) (cliOptions, error) {
	if len(args) != 1 {
		return cliOptions{}, fmt.Errorf("expected one book path, got %d", len(args))
	}
	logLevel := flagValue(cmd, "log-level")
	logFormat := flagValue(cmd, "log-format")
	verbose := flagValue(cmd, "verbose") == "true"
	workRoot := flagValue(cmd, "work-dir")
	tool := flagValue(cmd, "extractor")

	if !isValidLogLevel(logLevel) {
		return cliOptions{}, fmt.Errorf("invalid --log-level: %q (allowed: debug, info, warn, error)", logLevel)
	}
	if !isValidLogFormat(logFormat) {
		return cliOptions{}, fmt.Errorf("invalid --log-format: %q (allowed: text, json)", logFormat)
	}
	if verbose {
		logLevel = "debug"
	}

	return cliOptions{
		InputPath: args[0],
		WorkRoot:  workRoot,
		Tool:      tool,
		Logger:    buildLogger(os.Stderr, logLevel, logFormat),
	}, nil
}

// flagValue looks name up on cmd and its parents' persistent flags.
func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

func readRenderOptions(cmd *cobra.Command, args []string) (renderOptions, error) {
	base, err := readCLIOptions(cmd, args)
	if err != nil {
		return renderOptions{}, err
	}
	flags := cmd.Flags()
	output, _ := flags.GetString("output")
	page, _ := flags.GetInt("page")
	frame, _ := flags.GetInt("frame")
	zoomName, _ := flags.GetString("zoom")
	rotation, _ := flags.GetInt("rotate")
	width, _ := flags.GetInt("width")
	height, _ := flags.GetInt("height")
	language, _ := flags.GetInt("language")
	filter, _ := flags.GetString("filter")
	noStretch, _ := flags.GetBool("no-stretch")
	cropBorder, _ := flags.GetBool("crop-border")
	autoRotate, _ := flags.GetBool("autorotate")
	exifOrient, _ := flags.GetBool("exif-orientation")
	brightness, _ := flags.GetFloat64("brightness")
	contrast, _ := flags.GetFloat64("contrast")
	saturation, _ := flags.GetFloat64("saturation")
	sharpness, _ := flags.GetFloat64("sharpness")
	fontPath, _ := flags.GetString("font")
	fontSize, _ := flags.GetFloat64("font-size")
	textColor, _ := flags.GetString("text-color")
	invertedColor, _ := flags.GetString("inverted-text-color")

	if page < 1 {
		return renderOptions{}, fmt.Errorf("invalid --page: %d (must be >= 1)", page)
	}
	if frame < 1 {
		return renderOptions{}, fmt.Errorf("invalid --frame: %d (must be >= 1)", frame)
	}
	zoom, err := layout.ParseZoomMode(zoomName)
	if err != nil {
		return renderOptions{}, fmt.Errorf("invalid --zoom: %w", err)
	}
	switch rotation {
	case 0, 90, 180, 270:
	default:
		return renderOptions{}, fmt.Errorf("invalid --rotate: %d (allowed: 0, 90, 180, 270)", rotation)
	}
	if width <= 0 {
		return renderOptions{}, fmt.Errorf("invalid --width: %d (must be > 0)", width)
	}
	if height <= 0 {
		return renderOptions{}, fmt.Errorf("invalid --height: %d (must be > 0)", height)
	}
	if language < 0 {
		return renderOptions{}, fmt.Errorf("invalid --language: %d (must be >= 0)", language)
	}
	if _, err := render.ParseFilter(filter); err != nil {
		return renderOptions{}, fmt.Errorf("invalid --filter: %w", err)
	}
	if fontSize <= 0 {
		return renderOptions{}, fmt.Errorf("invalid --font-size: %v (must be > 0)", fontSize)
	}
	fg, err := render.ParseColor(textColor)
	if err != nil {
		return renderOptions{}, fmt.Errorf("invalid --text-color: %w", err)
	}
	inverted, err := render.ParseColor(invertedColor)
	if err != nil {
		return renderOptions{}, fmt.Errorf("invalid --inverted-text-color: %w", err)
	}
	enhance := layout.Enhancements{
		Brightness: brightness,
		Contrast:   contrast,
		Saturation: saturation,
		Sharpness:  sharpness,
	}
	if enhance.Clamp() != enhance {
		return renderOptions{}, fmt.Errorf("invalid enhancement: brightness, contrast, saturation or sharpness out of range")
	}

	if output == "" {
		output = strings.TrimSuffix(base.InputPath, filepath.Ext(base.InputPath)) + fmt.Sprintf("-p%d.png", page)
	}

	ropts := render.DefaultOptions()
	ropts.Filter = filter
	ropts.Stretch = !noStretch
	ropts.CropBorder = cropBorder
	ropts.AutoRotate = autoRotate
	ropts.ExifOrientation = exifOrient
	ropts.TextColor = fg
	ropts.InvertedTextColor = inverted
	ropts.Fonts = make(map[acbf.Style]render.FontSpec, len(acbf.Styles))
	for _, style := range acbf.Styles {
		spec := render.FontSpec{Size: fontSize}
		if style == acbf.StyleDefault {
			spec.Path = fontPath
		}
		ropts.Fonts[style] = spec
	}
	ropts.Logger = base.Logger

	return renderOptions{
		cliOptions: base,
		OutputPath: output,
		Position: viewer.Position{
			Page:     page,
			Frame:    frame,
			Zoom:     zoom,
			Rotation: rotation,
			Language: language,
		},
		Viewport: layout.Size{W: width, H: height},
		Enhance:  enhance,
		Render:   ropts,
	}, nil
}

func openSession(ctx context.Context, opts cliOptions, vopts viewer.Options) (*viewer.Session, error) {
	vopts.WorkRoot = opts.WorkRoot
	vopts.Logger = opts.Logger
	vopts.Animate = false
	if opts.Tool != "" {
		tool, err := archive.ParseCommand(opts.Tool)
		if err != nil {
			return nil, fmt.Errorf("invalid --extractor: %w", err)
		}
		vopts.Tool = tool
	}
	vopts.Progress = func(fraction float64) {
		opts.Logger.Debug("extracting", "path", opts.InputPath, "progress", fraction)
	}

	s := viewer.NewSession(vopts)
	start := time.Now()
	if _, err := s.Open(ctx, opts.InputPath); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open %s: %w", opts.InputPath, err)
	}
	opts.Logger.Debug("book ready", "path", opts.InputPath, "elapsed", time.Since(start))
	return s, nil
}

func runRender(ctx context.Context, opts renderOptions) error {
	vopts := viewer.DefaultOptions()
	vopts.Viewport = opts.Viewport
	vopts.Enhance = opts.Enhance
	vopts.Render = opts.Render

	s, err := openSession(ctx, opts.cliOptions, vopts)
	if err != nil {
		return err
	}
	defer s.Close()

	if last := s.Document().PagesTotal() + 1; opts.Position.Page > last {
		return fmt.Errorf("invalid --page: %d (book has pages 1-%d)", opts.Position.Page, last)
	}
	res, err := s.Seek(ctx, opts.Position)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if err := imaging.Save(res.View(opts.Viewport), opts.OutputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.OutputPath, err)
	}
	opts.Logger.Info("rendered page",
		"output", opts.OutputPath,
		"page", s.State().Page,
		"frame", s.State().Frame,
		"zoom", res.Zoom,
		"scale", res.Scale,
		"progress", s.Progress(),
	)
	return nil
}

func runExport(ctx context.Context, opts exportOptions) error {
	s, err := openSession(ctx, opts.cliOptions, viewer.DefaultOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	doc := s.Document()
	if !doc.Valid {
		return fmt.Errorf("%s has no valid ACBF document", opts.InputPath)
	}
	if err := acbf.WriteFile(doc, opts.OutputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	opts.Logger.Info("exported document", "output", opts.OutputPath, "convention", s.Convention(), "pages", doc.PagesTotal())
	return nil
}

func printInfo(w io.Writer, doc *acbf.Document) error {
	lang := doc.Language(0).Code
	fmt.Fprintf(w, "Title:      %s\n", doc.Title(lang))
	if names := doc.AuthorNames(); len(names) > 0 {
		fmt.Fprintf(w, "Authors:    %s\n", strings.Join(names, ", "))
	}
	for _, seq := range doc.Info.Sequences {
		fmt.Fprintf(w, "Sequence:   %s #%s\n", seq.Title, seq.Number)
	}
	if doc.Publish.Publisher != "" {
		fmt.Fprintf(w, "Publisher:  %s\n", doc.Publish.Publisher)
	}
	var langs []string
	for _, l := range doc.Info.Languages {
		code := l.Code
		if !l.Show {
			code += " (hidden)"
		}
		langs = append(langs, code)
	}
	if len(langs) > 0 {
		fmt.Fprintf(w, "Languages:  %s\n", strings.Join(langs, ", "))
	}
	fmt.Fprintf(w, "Pages:      %d\n", doc.PagesTotal())

	for i := 1; i <= doc.PagesTotal(); i++ {
		p := doc.Page(i)
		areas := 0
		for _, layer := range p.TextLayers {
			areas += len(layer.Areas)
		}
		fmt.Fprintf(w, "  %3d  %-30s frames=%d text-areas=%d\n", i+1, p.Image, len(p.Frames), areas)
	}

	if toc := doc.Contents(0); len(toc) > 0 {
		fmt.Fprintln(w, "Contents:")
		for _, e := range toc {
			fmt.Fprintf(w, "  %3d  %s\n", e.Page, e.Label)
		}
	}
	return nil
}

func defaultOutputPath(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + ext
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidLogFormat(format string) bool {
	switch strings.ToLower(format) {
	case "text", "json":
		return true
	}
	return false
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
