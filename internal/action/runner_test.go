package action

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/1broseidon/winjitsu/internal/animate"
	"github.com/1broseidon/winjitsu/internal/cache"
	"github.com/1broseidon/winjitsu/internal/platform"
)

type fakeBackend struct {
	id         platform.WindowID
	bounds     platform.Rect
	layout     platform.Layout
	queryErr   error
	displayErr error

	resizes []platform.Rect
	moves   []platform.Rect
	queries int
}

func (f *fakeBackend) ActiveWindow() (platform.WindowID, error) {
	f.queries++
	if f.queryErr != nil {
		return 0, f.queryErr
	}
	return f.id, nil
}

func (f *fakeBackend) Geometry(platform.WindowID) (platform.Rect, error) {
	return f.bounds, nil
}

// Resize and Move update bounds so consecutive runs see the window where
// the previous action left it.
func (f *fakeBackend) Resize(_ platform.WindowID, w, h int) error {
	f.resizes = append(f.resizes, platform.Rect{Width: w, Height: h})
	f.bounds.Width, f.bounds.Height = w, h
	return nil
}

func (f *fakeBackend) Move(_ platform.WindowID, x, y int) error {
	f.moves = append(f.moves, platform.Rect{X: x, Y: y})
	f.bounds.X, f.bounds.Y = x, y
	return nil
}

func (f *fakeBackend) Displays() (platform.Layout, error) {
	if f.displayErr != nil {
		return platform.Layout{}, f.displayErr
	}
	return f.layout, nil
}

func (f *fakeBackend) final() platform.Rect {
	r := f.resizes[len(f.resizes)-1]
	m := f.moves[len(f.moves)-1]
	return platform.Rect{X: m.X, Y: m.Y, Width: r.Width, Height: r.Height}
}

func (f *fakeBackend) reset() {
	f.resizes = nil
	f.moves = nil
}

func dualHead() platform.Layout {
	return platform.Layout{Displays: []platform.Display{
		{Name: "eDP-1", Width: 1920, Height: 1080, Primary: true},
		{Name: "DP-1", Width: 1280, Height: 1024},
	}}
}

func newTestRunner(t *testing.T, b *fakeBackend) (*Runner, *cache.FileStore) {
	t.Helper()
	store := cache.NewFileStore(filepath.Join(t.TempDir(), "winjitsu"))
	return NewRunner(RunnerConfig{Backend: b, Cache: store}), store
}

func TestParse(t *testing.T) {
	for _, a := range All {
		got, err := Parse(string(a))
		if err != nil || got != a {
			t.Fatalf("Parse(%q) = %q, %v", a, got, err)
		}
		if a.Description() == "" {
			t.Fatalf("%s has no description", a)
		}
	}
	for _, bad := range []string{"", "n", "tf", "NN", "north"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestRun_FullscreenOnSecondary(t *testing.T) {
	b := &fakeBackend{id: 123, bounds: platform.Rect{X: 2000, Y: 0, Width: 800, Height: 600}, layout: dualHead()}
	r, store := newTestRunner(t, b)

	if err := r.Run(Fullscreen); err != nil {
		t.Fatalf("Run(F): %v", err)
	}

	if got, want := b.final(), (platform.Rect{X: 1925, Y: 5, Width: 1270, Height: 1014}); got != want {
		t.Fatalf("final = %+v, want %+v", got, want)
	}
	if len(b.resizes) != animate.DefaultSteps+1 {
		t.Fatalf("issued %d resizes, want %d", len(b.resizes), animate.DefaultSteps+1)
	}

	rec, ok, err := store.Load(123)
	if err != nil || !ok {
		t.Fatalf("expected saved record, ok=%v err=%v", ok, err)
	}
	if rec != (cache.Record{X: 2000, Y: 0, Width: 800, Height: 600}) {
		t.Fatalf("saved %+v", rec)
	}
}

func TestRun_CenterOnPrimary(t *testing.T) {
	b := &fakeBackend{id: 1, bounds: platform.Rect{X: 100, Y: 30, Width: 800, Height: 600}, layout: dualHead()}
	r, _ := newTestRunner(t, b)

	if err := r.Run(Center); err != nil {
		t.Fatalf("Run(C): %v", err)
	}
	if got, want := b.final(), (platform.Rect{X: 560, Y: 240, Width: 800, Height: 600}); got != want {
		t.Fatalf("final = %+v, want %+v", got, want)
	}
}

func TestRun_DirectionalTruncatesHalfPixels(t *testing.T) {
	layout := platform.Layout{Displays: []platform.Display{{Width: 1281, Height: 1023, Primary: true}}}
	b := &fakeBackend{id: 1, bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 200}, layout: layout}
	r, _ := newTestRunner(t, b)

	if err := r.Run(SouthEast); err != nil {
		t.Fatalf("Run(SE): %v", err)
	}
	if got, want := b.final(), (platform.Rect{X: 640, Y: 511, Width: 640, Height: 511}); got != want {
		t.Fatalf("final = %+v, want %+v", got, want)
	}
}

func TestRun_ToggleDisplay(t *testing.T) {
	b := &fakeBackend{id: 1, bounds: platform.Rect{X: 100, Y: 40, Width: 800, Height: 600}, layout: dualHead()}
	r, _ := newTestRunner(t, b)

	if err := r.Run(ToggleDisplay); err != nil {
		t.Fatalf("Run(TD): %v", err)
	}
	if got, want := b.final(), (platform.Rect{X: 2020, Y: 40, Width: 800, Height: 600}); got != want {
		t.Fatalf("final = %+v, want %+v", got, want)
	}

	b.reset()
	if err := r.Run(ToggleDisplay); err != nil {
		t.Fatalf("Run(TD) back: %v", err)
	}
	if got := b.final().X; got != 100 {
		t.Fatalf("toggled back to x=%d, want 100", got)
	}
}

func TestRun_ToggleDisplayWithoutPrimaryIsNoop(t *testing.T) {
	layout := platform.Layout{Displays: []platform.Display{{Width: 1920, Height: 1080}}}
	b := &fakeBackend{id: 1, bounds: platform.Rect{X: 100, Width: 10, Height: 10}, layout: layout}
	r, _ := newTestRunner(t, b)

	if err := r.Run(ToggleDisplay); err != nil {
		t.Fatalf("Run(TD): %v", err)
	}
	if len(b.resizes) != 0 || len(b.moves) != 0 {
		t.Fatal("expected no window requests")
	}
}

func TestRun_FullscreenThenUnscreenRestores(t *testing.T) {
	original := platform.Rect{X: 2000, Y: 30, Width: 800, Height: 600}
	b := &fakeBackend{id: 123, bounds: original, layout: dualHead()}
	r, _ := newTestRunner(t, b)

	if err := r.Run(Fullscreen); err != nil {
		t.Fatalf("Run(F): %v", err)
	}
	b.reset()
	if err := r.Run(Unscreen); err != nil {
		t.Fatalf("Run(U): %v", err)
	}
	if got := b.final(); got != original {
		t.Fatalf("restored %+v, want %+v", got, original)
	}

	// The restore animation starts from the shrunken synthetic frame:
	// start (1920,5,1260,1004) toward (2000,30,800,600).
	// first frame: w=1260-18.4=1241.6, h=1004-16.16=987.84, x=1920+3.2, y=5+1.
	first := platform.Rect{X: b.moves[0].X, Y: b.moves[0].Y, Width: b.resizes[0].Width, Height: b.resizes[0].Height}
	if want := (platform.Rect{X: 1923, Y: 6, Width: 1242, Height: 988}); first != want {
		t.Fatalf("first restore frame = %+v, want %+v", first, want)
	}
}

func TestRun_ToggleFullscreen(t *testing.T) {
	original := platform.Rect{X: 100, Y: 100, Width: 640, Height: 480}
	b := &fakeBackend{id: 5, bounds: original, layout: dualHead()}
	r, _ := newTestRunner(t, b)

	if err := r.Run(ToggleFullscreen); err != nil {
		t.Fatalf("Run(TF): %v", err)
	}
	if got, want := b.final(), (platform.Rect{X: 5, Y: 5, Width: 1910, Height: 1070}); got != want {
		t.Fatalf("after first TF = %+v, want %+v", got, want)
	}

	b.reset()
	if err := r.Run(ToggleFullscreen); err != nil {
		t.Fatalf("Run(TF): %v", err)
	}
	if got := b.final(); got != original {
		t.Fatalf("after second TF = %+v, want %+v", got, original)
	}
}

func TestRun_UnscreenWithoutRecordIsNoop(t *testing.T) {
	b := &fakeBackend{id: 9, bounds: platform.Rect{X: 5, Y: 5, Width: 1910, Height: 1070}, layout: dualHead()}
	r, _ := newTestRunner(t, b)

	if err := r.Run(Unscreen); err != nil {
		t.Fatalf("Run(U): %v", err)
	}
	if len(b.resizes) != 0 {
		t.Fatal("expected no window requests")
	}
}

func TestRun_ClearCacheThenUnscreenIsNoop(t *testing.T) {
	b := &fakeBackend{id: 9, bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 300}, layout: dualHead()}
	r, store := newTestRunner(t, b)

	if err := r.Run(Fullscreen); err != nil {
		t.Fatalf("Run(F): %v", err)
	}
	queries := b.queries
	if err := r.Run(ClearCache); err != nil {
		t.Fatalf("Run(CC): %v", err)
	}
	if b.queries != queries {
		t.Fatal("CC must not query the window")
	}
	if _, ok, _ := store.Load(9); ok {
		t.Fatal("expected cache to be empty")
	}

	b.reset()
	if err := r.Run(Unscreen); err != nil {
		t.Fatalf("Run(U): %v", err)
	}
	if len(b.resizes) != 0 {
		t.Fatal("expected restore after clear to be a no-op")
	}

	if err := r.Run(ClearCache); err != nil {
		t.Fatalf("second CC: %v", err)
	}
}

func TestRun_NoPrimaryUsesFallbackResolution(t *testing.T) {
	b := &fakeBackend{id: 1, bounds: platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}}
	r, _ := newTestRunner(t, b)

	if err := r.Run(North); err != nil {
		t.Fatalf("Run(N): %v", err)
	}
	if got, want := b.final(), (platform.Rect{X: 0, Y: 0, Width: 1920, Height: 540}); got != want {
		t.Fatalf("final = %+v, want %+v", got, want)
	}
}

func TestRun_CollaboratorFailuresAreReturned(t *testing.T) {
	boom := errors.New("xdotool: command not found")
	b := &fakeBackend{queryErr: boom}
	r, _ := newTestRunner(t, b)
	if err := r.Run(North); !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}

	xrandrErr := errors.New("xrandr: cannot open display")
	b = &fakeBackend{id: 1, bounds: platform.Rect{Width: 1, Height: 1}, displayErr: xrandrErr}
	r, _ = newTestRunner(t, b)
	if err := r.Run(Fullscreen); !errors.Is(err, xrandrErr) {
		t.Fatalf("Run error = %v, want %v", err, xrandrErr)
	}
}
