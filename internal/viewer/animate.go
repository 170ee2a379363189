package viewer

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yuanying/acbfview/internal/layout"
	"github.com/yuanying/acbfview/internal/render"
)

// Frame is one displayed step of a zoom animation.
type Frame struct {
	Step   int
	Image  *image.NRGBA // page bitmap at the step's scale
	Canvas layout.Size
	Offset layout.Offset // scroll position
}

// animate moves from one panel view to the next. While the viewer scrolls,
// a single worker pre-scales the next bitmap; it is joined before the
// bitmap is swapped in.
func (s *Session) animate(ctx context.Context, from, to *render.Result) error {
	plan := layout.PlanAnimation(
		sizeOf(from.Image), sizeOf(to.Image),
		offsetOf(from.Scroll), offsetOf(to.Scroll),
		s.opts.AnimationCadence,
	)
	margin := to.Panel.Margin
	shown := from.Image

	var g *errgroup.Group
	var next *image.NRGBA
	join := func() error {
		if g == nil {
			return nil
		}
		err := g.Wait()
		g = nil
		return err
	}
	defer join()

	for _, step := range plan {
		if step.Resize {
			if err := join(); err != nil {
				return err
			}
			size := step.Size
			g = new(errgroup.Group)
			g.Go(func() error {
				next = s.renderer.Rescale(to.Source, size)
				return nil
			})
		}
		if step.Swap {
			if err := join(); err != nil {
				return err
			}
			shown = next
		}

		if s.opts.Display != nil {
			sz := sizeOf(shown)
			s.opts.Display(Frame{
				Step:   step.Index,
				Image:  shown,
				Canvas: layout.Size{W: sz.W + 2*margin, H: sz.H + 2*margin},
				Offset: step.Offset,
			})
		}
		if step.Index < len(plan) {
			if err := sleep(ctx, s.opts.AnimationDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func sizeOf(img *image.NRGBA) layout.Size {
	if img == nil {
		return layout.Size{}
	}
	b := img.Bounds()
	return layout.Size{W: b.Dx(), H: b.Dy()}
}

func offsetOf(p image.Point) layout.Offset {
	return layout.Offset{X: float64(p.X), Y: float64(p.Y)}
}
