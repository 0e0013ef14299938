// Package animate steps a window from one frame to another.
package animate

import (
	"fmt"
	"math"
	"time"

	"github.com/1broseidon/winjitsu/internal/platform"
)

// DefaultSteps is the number of interpolation frames per animation.
const DefaultSteps = 25

// Animator linearly interpolates a window's bounds, issuing one resize and
// one move per frame, then lands exactly on the target.
type Animator struct {
	Control platform.WindowControl
	Steps   int
	// Delay is slept between frames. Zero runs frames back to back.
	Delay time.Duration

	sleep func(time.Duration)
}

// New returns an Animator with the given frame count; steps <= 0 selects
// DefaultSteps.
func New(control platform.WindowControl, steps int, delay time.Duration) *Animator {
	return &Animator{Control: control, Steps: steps, Delay: delay}
}

// Animate moves window id from `from` to `to`. It blocks until the final
// frame is issued and stops at the first collaborator error.
func (a *Animator) Animate(id platform.WindowID, from, to platform.Frame) error {
	steps := a.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	n := float64(steps)

	wStep := (to.Width - from.Width) / n
	hStep := (to.Height - from.Height) / n
	// Position deltas are current minus target and are subtracted.
	xStep := (from.X - to.X) / n
	yStep := (from.Y - to.Y) / n

	cur := from
	for i := 0; i < steps; i++ {
		cur.Width += wStep
		cur.Height += hStep
		cur.X -= xStep
		cur.Y -= yStep

		if err := a.apply(id, roundFrame(cur)); err != nil {
			return fmt.Errorf("animation frame %d: %w", i+1, err)
		}
		a.pause()
	}

	if err := a.apply(id, to.Truncate()); err != nil {
		return fmt.Errorf("final frame: %w", err)
	}
	return nil
}

func (a *Animator) apply(id platform.WindowID, r platform.Rect) error {
	if err := a.Control.Resize(id, r.Width, r.Height); err != nil {
		return err
	}
	return a.Control.Move(id, r.X, r.Y)
}

func (a *Animator) pause() {
	if a.Delay <= 0 {
		return
	}
	sleep := a.sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(a.Delay)
}

// roundFrame rounds half to even, the rounding window positions have
// always used.
func roundFrame(f platform.Frame) platform.Rect {
	return platform.Rect{
		X:      int(math.RoundToEven(f.X)),
		Y:      int(math.RoundToEven(f.Y)),
		Width:  int(math.RoundToEven(f.Width)),
		Height: int(math.RoundToEven(f.Height)),
	}
}
