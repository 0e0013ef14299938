// Package daemon holds background housekeeping for the hotkey daemon.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/winjitsu/internal/platform"
)

// WindowLister returns the ids of windows that currently exist.
type WindowLister func() ([]platform.WindowID, error)

// RecordStore is the part of the geometry cache the reconciler prunes.
type RecordStore interface {
	IDs() ([]platform.WindowID, error)
	Delete(id platform.WindowID) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically deletes geometry records whose window is gone.
type Reconciler struct {
	interval    time.Duration
	store       RecordStore
	listWindows WindowLister
	logger      *slog.Logger
}

// NewReconciler creates a reconciler. Interval defaults to ten minutes.
func NewReconciler(cfg ReconcilerConfig, store RecordStore, listWindows WindowLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:    interval,
		store:       store,
		listWindows: listWindows,
		logger:      logger,
	}
}

// Run starts the reconciliation loop. Blocks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// ReconcileNow runs one pass immediately and returns the number of records
// deleted.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile()
}

func (r *Reconciler) reconcile() int {
	cached, err := r.store.IDs()
	if err != nil {
		r.logger.Error("reconciler: failed to list cached windows", "error", err)
		return 0
	}
	if len(cached) == 0 {
		return 0
	}

	live, err := r.listWindows()
	if err != nil {
		r.logger.Error("reconciler: failed to list windows", "error", err)
		return 0
	}
	// An empty client list means the window manager does not publish one,
	// not that every window closed.
	if len(live) == 0 {
		r.logger.Debug("reconciler: empty client list, skipping")
		return 0
	}

	alive := make(map[platform.WindowID]bool, len(live))
	for _, id := range live {
		alive[id] = true
	}

	deleted := 0
	for _, id := range cached {
		if alive[id] {
			continue
		}
		if err := r.store.Delete(id); err != nil {
			r.logger.Warn("reconciler: failed to delete record", "window_id", id, "error", err)
			continue
		}
		r.logger.Info("reconciler: dropped record for closed window", "window_id", id)
		deleted++
	}
	return deleted
}
