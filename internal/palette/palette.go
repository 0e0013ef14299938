// Package palette lets the user pick an action from a dmenu-style launcher.
package palette

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/1broseidon/winjitsu/internal/action"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Launchers in detection order.
var Launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// Picker shows a list of labels through an external launcher.
type Picker struct {
	command string

	// run feeds stdin to the launcher and returns its stdout; replaced in tests.
	run func(stdin, name string, args ...string) ([]byte, error)
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// New returns a picker for the named launcher. "" and "auto" select the
// first launcher found in PATH.
func New(name string) (*Picker, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range Launchers {
			if _, err := lookPath(candidate); err == nil {
				return newPicker(candidate), nil
			}
		}
		return nil, fmt.Errorf("no palette launcher found in PATH (looked for: %s)", strings.Join(Launchers, ", "))
	}

	if !IsLauncher(name) {
		return nil, fmt.Errorf("unknown palette launcher: %q (expected: auto, %s)", name, strings.Join(Launchers, ", "))
	}
	if _, err := lookPath(name); err != nil {
		return nil, fmt.Errorf("palette launcher %q not found in PATH", name)
	}
	return newPicker(name), nil
}

// IsLauncher reports whether name is a supported launcher.
func IsLauncher(name string) bool {
	for _, l := range Launchers {
		if l == name {
			return true
		}
	}
	return false
}

func newPicker(command string) *Picker {
	return &Picker{command: command, run: runLauncher}
}

// Command returns the launcher executable.
func (p *Picker) Command() string {
	return p.command
}

// Pick shows labels and returns the index of the chosen one.
func (p *Picker) Pick(prompt string, labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("palette: no items to show")
	}

	lines := make([]string, len(labels))
	for i, l := range labels {
		lines[i] = sanitizeLabel(l)
	}

	out, err := p.run(strings.Join(lines, "\n"), p.command, p.args(prompt)...)
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return 0, ErrCancelled
		}
		return 0, fmt.Errorf("%s failed: %w", p.command, err)
	}
	if selection == "" {
		return 0, ErrCancelled
	}
	return p.parseSelection(selection, lines)
}

func (p *Picker) args(prompt string) []string {
	switch p.command {
	case "rofi":
		// Index output avoids matching on label text.
		return []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom"}
	case "fuzzel":
		return []string{"--dmenu", "--prompt", prompt, "--index"}
	case "wofi":
		return []string{"--dmenu", "--prompt", prompt}
	default:
		return []string{"-i", "-p", prompt}
	}
}

func (p *Picker) parseSelection(selection string, lines []string) (int, error) {
	if p.command == "rofi" || p.command == "fuzzel" {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(lines) {
				return 0, fmt.Errorf("palette: index %d out of range", idx)
			}
			return idx, nil
		}
	}
	for i, l := range lines {
		if l == selection {
			return i, nil
		}
	}
	return 0, fmt.Errorf("palette: unknown selection %q", selection)
}

// ChooseAction lets the user pick one of actions.
func ChooseAction(p *Picker, actions []action.Action) (action.Action, error) {
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = fmt.Sprintf("%-3s %s", a, a.Description())
	}
	idx, err := p.Pick("winjitsu", labels)
	if err != nil {
		return "", err
	}
	return actions[idx], nil
}

func runLauncher(stdin, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%w: %s", err, msg)
		}
		return out, err
	}
	return out, nil
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	// 1 is "no selection", 130 is Ctrl+C.
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
