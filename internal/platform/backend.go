package platform

import "fmt"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Frame is a Rect whose components may be fractional, as produced by
// half-screen splits and animation steps.
type Frame struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// FrameOf converts an integral Rect to a Frame.
func FrameOf(r Rect) Frame {
	return Frame{
		X:      float64(r.X),
		Y:      float64(r.Y),
		Width:  float64(r.Width),
		Height: float64(r.Height),
	}
}

// Truncate converts the frame to a Rect, truncating each component toward zero.
func (f Frame) Truncate() Rect {
	return Rect{
		X:      int(f.X),
		Y:      int(f.Y),
		Width:  int(f.Width),
		Height: int(f.Height),
	}
}

// Display describes one connected output.
type Display struct {
	Name    string
	Width   int
	Height  int
	Primary bool
}

func (d Display) String() string {
	s := fmt.Sprintf("%s %dx%d", d.Name, d.Width, d.Height)
	if d.Primary {
		s += " primary"
	}
	return s
}

// Layout is the ordered set of displays returned by a single query.
type Layout struct {
	Displays []Display
}

// Primary returns the primary display. When several displays claim to be
// primary the last one wins.
func (l Layout) Primary() (Display, bool) {
	var (
		primary Display
		found   bool
	)
	for _, d := range l.Displays {
		if d.Primary {
			primary = d
			found = true
		}
	}
	return primary, found
}

// Secondary returns the non-primary displays in query order.
func (l Layout) Secondary() []Display {
	var out []Display
	for _, d := range l.Displays {
		if !d.Primary {
			out = append(out, d)
		}
	}
	return out
}

// WindowState is a snapshot of one window at one instant.
type WindowState struct {
	ID     WindowID
	Bounds Rect
}

// WindowControl is the window-control collaborator.
type WindowControl interface {
	ActiveWindow() (WindowID, error)
	Geometry(id WindowID) (Rect, error)
	Resize(id WindowID, width, height int) error
	Move(id WindowID, x, y int) error
}

// DisplayQuery is the display-configuration collaborator.
type DisplayQuery interface {
	Displays() (Layout, error)
}

// Backend abstracts the window-system operations winjitsu needs.
type Backend interface {
	WindowControl
	DisplayQuery
}

// QueryActiveWindow returns the id and geometry of the focused window.
func QueryActiveWindow(wc WindowControl) (WindowState, error) {
	id, err := wc.ActiveWindow()
	if err != nil {
		return WindowState{}, fmt.Errorf("failed to get active window: %w", err)
	}
	bounds, err := wc.Geometry(id)
	if err != nil {
		return WindowState{}, fmt.Errorf("failed to get geometry of window %d: %w", id, err)
	}
	return WindowState{ID: id, Bounds: bounds}, nil
}
