package action

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/winjitsu/internal/animate"
	"github.com/1broseidon/winjitsu/internal/cache"
	"github.com/1broseidon/winjitsu/internal/placement"
	"github.com/1broseidon/winjitsu/internal/platform"
)

// Runner executes actions against a backend.
type Runner struct {
	backend  platform.Backend
	cache    cache.Store
	animator *animate.Animator
	fallback placement.Size
	logger   *slog.Logger
}

// RunnerConfig wires a Runner.
type RunnerConfig struct {
	Backend  platform.Backend
	Cache    cache.Store
	Animator *animate.Animator
	// Fallback is the screen size used when no display is primary.
	// Zero selects placement.DefaultFallback.
	Fallback placement.Size
	Logger   *slog.Logger
}

// NewRunner creates a Runner. A nil Animator animates through Backend with
// the default frame count.
func NewRunner(cfg RunnerConfig) *Runner {
	anim := cfg.Animator
	if anim == nil {
		anim = animate.New(cfg.Backend, animate.DefaultSteps, 0)
	}
	fallback := cfg.Fallback
	if fallback.Width <= 0 || fallback.Height <= 0 {
		fallback = placement.DefaultFallback
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		backend:  cfg.Backend,
		cache:    cfg.Cache,
		animator: anim,
		fallback: fallback,
		logger:   logger,
	}
}

// Run performs one action to completion.
func (r *Runner) Run(a Action) error {
	if a == ClearCache {
		if err := r.cache.Clear(); err != nil {
			return err
		}
		r.logger.Info("cache cleared")
		return nil
	}

	win, err := platform.QueryActiveWindow(r.backend)
	if err != nil {
		return err
	}
	layout, err := r.backend.Displays()
	if err != nil {
		return fmt.Errorf("failed to query displays: %w", err)
	}

	if a == ToggleDisplay {
		return r.toggleDisplay(win, layout)
	}

	screen := placement.ScreenFor(win.Bounds.X, layout, r.fallback)
	r.logger.Debug("resolved screen",
		"action", string(a),
		"window_id", win.ID,
		"x", win.Bounds.X,
		"screen_width", screen.Width,
		"screen_height", screen.Height,
		"x_base", screen.XBase)

	switch {
	case a.IsDirectional():
		target, err := screen.Direction(placement.Direction(a), win.Bounds)
		if err != nil {
			return err
		}
		return r.animate(win.ID, platform.FrameOf(win.Bounds), target)
	case a == Fullscreen:
		return r.fullscreen(win, screen)
	case a == Unscreen:
		return r.unscreen(win, screen)
	case a == ToggleFullscreen:
		if screen.IsFullscreen(win.Bounds) {
			return r.unscreen(win, screen)
		}
		return r.fullscreen(win, screen)
	default:
		return fmt.Errorf("unsupported action %q", a)
	}
}

func (r *Runner) fullscreen(win platform.WindowState, screen placement.Screen) error {
	if err := r.cache.Save(win.ID, cache.RecordOf(win)); err != nil {
		return err
	}
	return r.animate(win.ID, platform.FrameOf(win.Bounds), screen.Fullscreen())
}

func (r *Runner) unscreen(win platform.WindowState, screen placement.Screen) error {
	rec, ok, err := r.cache.Load(win.ID)
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Info("no saved geometry, nothing to restore", "window_id", win.ID)
		return nil
	}
	return r.animate(win.ID, screen.RestoreStart(win.Bounds), platform.FrameOf(rec.Rect()))
}

func (r *Runner) toggleDisplay(win platform.WindowState, layout platform.Layout) error {
	primary, ok := layout.Primary()
	if !ok {
		r.logger.Info("no primary display, not toggling", "window_id", win.ID)
		return nil
	}
	target := placement.ToggleDisplay(win.Bounds, primary.Width)
	return r.animate(win.ID, platform.FrameOf(win.Bounds), target)
}

func (r *Runner) animate(id platform.WindowID, from, to platform.Frame) error {
	r.logger.Debug("animating",
		"window_id", id,
		"from", fmt.Sprintf("%+v", from),
		"to", fmt.Sprintf("%+v", to))
	if err := r.animator.Animate(id, from, to); err != nil {
		return fmt.Errorf("failed to move window %d: %w", id, err)
	}
	return nil
}
