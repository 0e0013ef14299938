// Package placement computes target rectangles for window actions. Every
// function is pure: no collaborator is consulted.
package placement

import (
	"fmt"

	"github.com/1broseidon/winjitsu/internal/platform"
)

const (
	// FullscreenInset is the gap kept between a fullscreen window and each
	// screen edge.
	FullscreenInset = 5

	// RestoreShrink is subtracted from the current size to form the
	// animation start of a restore. The start frame is not the window's
	// true geometry.
	RestoreShrink = 10
)

// Direction is a screen-half, quarter or center placement.
type Direction string

const (
	North     Direction = "N"
	South     Direction = "S"
	East      Direction = "E"
	West      Direction = "W"
	NorthEast Direction = "NE"
	NorthWest Direction = "NW"
	SouthEast Direction = "SE"
	SouthWest Direction = "SW"
	Center    Direction = "C"
)

// Directions lists every Direction in table order.
var Directions = []Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest, Center}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// DefaultFallback is used when no display is flagged primary.
var DefaultFallback = Size{Width: 1920, Height: 1080}

// Screen is the display a window is considered to be on. XBase is the
// horizontal offset of that display: 0 for the primary, the primary's width
// for the secondary.
type Screen struct {
	Width  int
	Height int
	XBase  int
}

// ScreenFor decides which display a window whose left edge is at x is on.
// The window is on the primary display when x <= primaryWidth-1, otherwise
// on the first secondary display. Without a secondary display the primary
// is used; without a primary the fallback size is used.
func ScreenFor(x int, layout platform.Layout, fallback Size) Screen {
	primary, ok := layout.Primary()
	if !ok {
		return Screen{Width: fallback.Width, Height: fallback.Height}
	}

	onPrimary := Screen{Width: primary.Width, Height: primary.Height}
	if x <= primary.Width-1 {
		return onPrimary
	}

	secondary := layout.Secondary()
	if len(secondary) == 0 {
		return onPrimary
	}
	other := secondary[0]
	return Screen{Width: other.Width, Height: other.Height, XBase: primary.Width}
}

// Direction returns the target frame for a directional placement. Snaps
// resize the window to a half or quarter of the screen; Center keeps the
// window's size.
func (s Screen) Direction(d Direction, win platform.Rect) (platform.Frame, error) {
	w := float64(s.Width)
	h := float64(s.Height)
	halfW := w / 2
	halfH := h / 2
	base := float64(s.XBase)

	switch d {
	case North:
		return platform.Frame{X: base, Y: 0, Width: w, Height: halfH}, nil
	case South:
		return platform.Frame{X: base, Y: halfH, Width: w, Height: halfH}, nil
	case East:
		return platform.Frame{X: base + halfW, Y: 0, Width: halfW, Height: h}, nil
	case West:
		return platform.Frame{X: base, Y: 0, Width: halfW, Height: h}, nil
	case NorthEast:
		return platform.Frame{X: base + halfW, Y: 0, Width: halfW, Height: halfH}, nil
	case NorthWest:
		return platform.Frame{X: base, Y: 0, Width: halfW, Height: halfH}, nil
	case SouthEast:
		return platform.Frame{X: base + halfW, Y: halfH, Width: halfW, Height: halfH}, nil
	case SouthWest:
		return platform.Frame{X: base, Y: halfH, Width: halfW, Height: halfH}, nil
	case Center:
		ww := float64(win.Width)
		wh := float64(win.Height)
		return platform.Frame{
			X:      (w-ww)/2 + base,
			Y:      (h - wh) / 2,
			Width:  ww,
			Height: wh,
		}, nil
	default:
		return platform.Frame{}, fmt.Errorf("unknown direction %q", d)
	}
}

// Fullscreen returns the near-fullscreen frame, inset on every side.
func (s Screen) Fullscreen() platform.Frame {
	x := FullscreenInset
	if s.XBase > 0 {
		x = s.XBase + FullscreenInset
	}
	return platform.Frame{
		X:      float64(x),
		Y:      FullscreenInset,
		Width:  float64(s.Width - 2*FullscreenInset),
		Height: float64(s.Height - 2*FullscreenInset),
	}
}

// IsFullscreen reports whether win already has the fullscreen width.
// The comparison is exact.
func (s Screen) IsFullscreen(win platform.Rect) bool {
	return win.Width == s.Width-2*FullscreenInset
}

// RestoreStart returns the frame a restore animation starts from.
func (s Screen) RestoreStart(win platform.Rect) platform.Frame {
	x := FullscreenInset
	if s.XBase > 0 {
		x = s.XBase
	}
	return platform.Frame{
		X:      float64(x),
		Y:      FullscreenInset,
		Width:  float64(win.Width - RestoreShrink),
		Height: float64(win.Height - RestoreShrink),
	}
}

// ToggleDisplay mirrors win onto the other display by shifting it one
// primary width left or right. Size and y are unchanged.
func ToggleDisplay(win platform.Rect, primaryWidth int) platform.Frame {
	shift := primaryWidth
	if win.X > primaryWidth-1 {
		shift = -primaryWidth
	}
	target := win
	target.X += shift
	return platform.FrameOf(target)
}
