package hotkeys

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/winjitsu/internal/action"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// ActionRunner performs one window action.
type ActionRunner interface {
	Run(a action.Action) error
}

// X11Accessor is implemented by backends that expose X11 internals.
type X11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding maps a key sequence to an action.
type Binding struct {
	Action action.Action
	Keys   string
}

// Bindings converts a hotkey map (action token -> key sequence) into a
// sorted binding list. Empty sequences are skipped.
func Bindings(hotkeys map[string]string) ([]Binding, error) {
	out := make([]Binding, 0, len(hotkeys))
	for token, keys := range hotkeys {
		if keys == "" {
			continue
		}
		a, err := action.Parse(token)
		if err != nil {
			return nil, fmt.Errorf("hotkey %q: %w", token, err)
		}
		out = append(out, Binding{Action: a, Keys: keys})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Action < out[j].Action
	})
	return out, nil
}

// Handler manages global keyboard shortcuts.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	runner ActionRunner
	logger *slog.Logger

	// connect grabs keys on the root window; replaced in tests.
	connect func(keys string, cb func()) error
	// mu serializes actions so a held key cannot interleave animations.
	mu sync.Mutex
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the accessor's root window.
func NewHandler(x X11Accessor, runner ActionRunner, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Handler{
		xu:     x.XUtil(),
		root:   x.RootWindow(),
		runner: runner,
		logger: logger,
	}
	h.connect = h.grab

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(h.xu)
	})
	return h
}

// RegisterAll binds every entry. A binding that fails to grab is logged and
// skipped; the count of bound keys is returned.
func (h *Handler) RegisterAll(bindings []Binding) int {
	bound := 0
	for _, b := range bindings {
		if err := h.Register(b); err != nil {
			h.logger.Warn("hotkey not bound", "action", string(b.Action), "keys", b.Keys, "error", err)
			continue
		}
		h.logger.Info("hotkey bound", "action", string(b.Action), "keys", b.Keys)
		bound++
	}
	return bound
}

// Register binds a single key sequence to its action.
func (h *Handler) Register(b Binding) error {
	a := b.Action
	return h.connect(b.Keys, func() { h.trigger(a) })
}

func (h *Handler) trigger(a action.Action) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Debug("hotkey triggered", "action", string(a))
	if err := h.runner.Run(a); err != nil {
		h.logger.Error("action failed", "action", string(a), "error", err)
	}
}

func (h *Handler) grab(keys string, cb func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		cb()
	}).Connect(h.xu, h.root, keys, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	if xu == nil {
		return
	}
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the given lock masks, including
// the empty one. Zero and duplicate masks are dropped.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}

	masks := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		masks = append(masks, mask)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
