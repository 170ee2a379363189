package layout

import "math"

// AnimationSteps is the number of steps in a panel-zoom animation.
const AnimationSteps = 25

// AnimationStep is one frame of a zoom animation.
type AnimationStep struct {
	Index  int // 1..AnimationSteps
	Size   Size
	Offset Offset
	Resize bool // start scaling the page bitmap to Size
	Swap   bool // wait for the last resize and display it
}

// PlanAnimation interpolates linearly from (fromSize, from) to
// (toSize, to). Resizing happens every cadence steps and the result is
// swapped in on the following step, so a cadence of 2 resizes on odd steps
// and swaps on even ones. A cadence of 1 or less resizes and swaps every
// step. The last step always lands exactly on the target.
func PlanAnimation(fromSize, toSize Size, from, to Offset, cadence int) []AnimationStep {
	if cadence < 1 {
		cadence = 1
	}
	steps := make([]AnimationStep, 0, AnimationSteps)
	for k := 1; k <= AnimationSteps; k++ {
		t := float64(k) / AnimationSteps
		step := AnimationStep{
			Index: k,
			Size: Size{
				W: lerpInt(fromSize.W, toSize.W, t),
				H: lerpInt(fromSize.H, toSize.H, t),
			},
			Offset: Offset{
				X: math.Max(lerp(from.X, to.X, t), 0),
				Y: math.Max(lerp(from.Y, to.Y, t), 0),
			},
		}
		if cadence == 1 {
			step.Resize, step.Swap = true, true
		} else {
			step.Resize = (k-1)%cadence == 0
			step.Swap = k%cadence == 0
		}
		steps = append(steps, step)
	}
	last := &steps[len(steps)-1]
	last.Size = toSize
	last.Offset = to
	last.Resize, last.Swap = true, true
	return steps
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpInt(a, b int, t float64) int {
	return int(math.Round(lerp(float64(a), float64(b), t)))
}
