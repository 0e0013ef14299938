package platform

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes an external command and returns its standard output.
type Runner func(name string, args ...string) ([]byte, error)

// CommandError reports a failed collaborator invocation.
type CommandError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmd := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", cmd, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// runCommand is the default Runner.
func runCommand(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &CommandError{
			Name:   name,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return out, nil
}

// ExecBackend drives xdotool and xrandr as external processes.
type ExecBackend struct {
	run Runner
}

var _ Backend = (*ExecBackend)(nil)

// NewExecBackend creates a backend that shells out to xdotool and xrandr.
// A nil runner uses os/exec.
func NewExecBackend(run Runner) *ExecBackend {
	if run == nil {
		run = runCommand
	}
	return &ExecBackend{run: run}
}

// ActiveWindow returns the focused window id via `xdotool getactivewindow`.
func (b *ExecBackend) ActiveWindow() (WindowID, error) {
	out, err := b.run("xdotool", "getactivewindow")
	if err != nil {
		return 0, err
	}
	raw := strings.TrimSpace(string(out))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected xdotool window id %q: %w", raw, err)
	}
	return WindowID(id), nil
}

// Geometry returns the window's position and size via
// `xdotool getwindowgeometry --shell`.
func (b *ExecBackend) Geometry(id WindowID) (Rect, error) {
	out, err := b.run("xdotool", "getwindowgeometry", "--shell", formatID(id))
	if err != nil {
		return Rect{}, err
	}
	return ParseShellGeometry(string(out))
}

// Resize runs `xdotool windowsize`.
func (b *ExecBackend) Resize(id WindowID, width, height int) error {
	_, err := b.run("xdotool", "windowsize", formatID(id), strconv.Itoa(width), strconv.Itoa(height))
	return err
}

// Move runs `xdotool windowmove`.
func (b *ExecBackend) Move(id WindowID, x, y int) error {
	_, err := b.run("xdotool", "windowmove", formatID(id), strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// Displays enumerates connected outputs via `xrandr`.
func (b *ExecBackend) Displays() (Layout, error) {
	out, err := b.run("xrandr")
	if err != nil {
		return Layout{}, err
	}
	return ParseXrandr(string(out)), nil
}

func formatID(id WindowID) string {
	return strconv.FormatUint(uint64(id), 10)
}

var errMissingGeometryKey = errors.New("missing geometry key")

// ParseShellGeometry parses `KEY=value` lines as printed by
// `xdotool getwindowgeometry --shell`. X, Y, WIDTH and HEIGHT are required.
func ParseShellGeometry(output string) (Rect, error) {
	values := make(map[string]int)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return Rect{}, fmt.Errorf("malformed geometry line %q", line)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Rect{}, fmt.Errorf("geometry key %s: %w", key, err)
		}
		values[strings.TrimSpace(key)] = v
	}

	var r Rect
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"X", &r.X},
		{"Y", &r.Y},
		{"WIDTH", &r.Width},
		{"HEIGHT", &r.Height},
	} {
		v, ok := values[f.key]
		if !ok {
			return Rect{}, fmt.Errorf("%w %s", errMissingGeometryKey, f.key)
		}
		*f.dst = v
	}
	return r, nil
}

// ParseXrandr parses xrandr's default output into a Layout. Each line
// containing " connected" starts a display; only the line directly after it
// is consulted for a WxH token. Displays without one are dropped.
func ParseXrandr(output string) Layout {
	lines := strings.Split(output, "\n")
	var layout Layout
	for i, line := range lines {
		if !strings.Contains(line, " connected") {
			continue
		}
		if i+1 >= len(lines) {
			continue
		}
		w, h, ok := parseResolution(lines[i+1])
		if !ok {
			continue
		}
		name := ""
		if fields := strings.Fields(line); len(fields) > 0 {
			name = fields[0]
		}
		layout.Displays = append(layout.Displays, Display{
			Name:    name,
			Width:   w,
			Height:  h,
			Primary: strings.Contains(line, " primary"),
		})
	}
	return layout
}

// parseResolution reads the first whitespace token of line as "<w>x<h>".
func parseResolution(line string) (int, int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, 0, false
	}
	ws, hs, ok := strings.Cut(fields[0], "x")
	if !ok {
		return 0, 0, false
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
