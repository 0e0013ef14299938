package daemon

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/winjitsu/internal/cache"
	"github.com/1broseidon/winjitsu/internal/platform"
)

func seededStore(t *testing.T, ids ...platform.WindowID) *cache.FileStore {
	t.Helper()
	store := cache.NewFileStore(filepath.Join(t.TempDir(), "winjitsu"))
	for _, id := range ids {
		if err := store.Save(id, cache.Record{Width: 10, Height: 10}); err != nil {
			t.Fatalf("Save(%d): %v", id, err)
		}
	}
	return store
}

func listing(ids ...platform.WindowID) WindowLister {
	return func() ([]platform.WindowID, error) { return ids, nil }
}

func TestReconcileNow_DeletesClosedWindows(t *testing.T) {
	store := seededStore(t, 1, 2, 3)
	r := NewReconciler(ReconcilerConfig{}, store, listing(2, 99))

	if got := r.ReconcileNow(); got != 2 {
		t.Fatalf("deleted %d records, want 2", got)
	}
	for id, want := range map[platform.WindowID]bool{1: false, 2: true, 3: false} {
		if _, ok, _ := store.Load(id); ok != want {
			t.Fatalf("window %d record present=%v, want %v", id, ok, want)
		}
	}
}

func TestReconcileNow_EmptyClientListKeepsRecords(t *testing.T) {
	store := seededStore(t, 1, 2)
	r := NewReconciler(ReconcilerConfig{}, store, listing())

	if got := r.ReconcileNow(); got != 0 {
		t.Fatalf("deleted %d records, want 0", got)
	}
	if _, ok, _ := store.Load(1); !ok {
		t.Fatal("record deleted despite empty client list")
	}
}

func TestReconcileNow_ListerErrorKeepsRecords(t *testing.T) {
	store := seededStore(t, 5)
	r := NewReconciler(ReconcilerConfig{}, store, func() ([]platform.WindowID, error) {
		return nil, errors.New("connection closed")
	})

	if got := r.ReconcileNow(); got != 0 {
		t.Fatalf("deleted %d records, want 0", got)
	}
}

func TestReconcileNow_EmptyCacheSkipsListing(t *testing.T) {
	called := false
	store := seededStore(t)
	r := NewReconciler(ReconcilerConfig{}, store, func() ([]platform.WindowID, error) {
		called = true
		return nil, nil
	})

	r.ReconcileNow()
	if called {
		t.Fatal("window listing should be skipped when nothing is cached")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	store := seededStore(t, 1)
	r := NewReconciler(ReconcilerConfig{Interval: time.Millisecond}, store, listing(2))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok, _ := store.Load(1); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("record was never pruned")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
