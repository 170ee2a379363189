package viewer

import (
	"log/slog"
	"time"

	"github.com/yuanying/acbfview/internal/archive"
	"github.com/yuanying/acbfview/internal/layout"
	"github.com/yuanying/acbfview/internal/render"
)

// Animation defaults.
const (
	DefaultAnimationDelay   = 10 * time.Millisecond
	DefaultAnimationCadence = 2
)

// Options configures a Session.
type Options struct {
	// WorkRoot is where working directories are created. Empty means the
	// system temp directory.
	WorkRoot string
	Viewport layout.Size
	Render   render.Options
	// Enhance holds the initial image adjustment sliders.
	Enhance layout.Enhancements

	Animate          bool
	AnimationDelay   time.Duration
	AnimationCadence int // resize every n steps; 1 resizes on every step

	// Tool extracts non-ZIP archives. Nil means archive.DefaultTool().
	Tool     archive.ToolRunner
	Progress archive.ProgressFunc
	History  HistoryStore

	// Pump is called periodically on the waiting goroutine while a render
	// worker is in flight, e.g. to repaint a loading indicator.
	Pump func()
	// Display receives every animation frame.
	Display func(Frame)

	Logger *slog.Logger
}

// DefaultOptions returns the session defaults.
func DefaultOptions() Options {
	return Options{
		Viewport:         layout.Size{W: 800, H: 600},
		Render:           render.DefaultOptions(),
		Animate:          true,
		AnimationDelay:   DefaultAnimationDelay,
		AnimationCadence: DefaultAnimationCadence,
	}
}

func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Render.Logger == nil {
		o.Render.Logger = o.Logger
	}
	if o.AnimationCadence < 1 {
		o.AnimationCadence = DefaultAnimationCadence
	}
	if o.AnimationDelay < 0 {
		o.AnimationDelay = 0
	}
	if o.Tool == nil {
		o.Tool = archive.DefaultTool()
	}
	if o.History == nil {
		o.History = NewMemoryHistory()
	}
}
