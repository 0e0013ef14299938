// Package cache persists one geometry record per window so a fullscreen
// action can be undone.
package cache

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/winjitsu/internal/platform"
)

// Record is a saved window geometry. The window id is the lookup key.
type Record struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RecordOf builds a Record from a window snapshot.
func RecordOf(state platform.WindowState) Record {
	return Record{
		X:      state.Bounds.X,
		Y:      state.Bounds.Y,
		Width:  state.Bounds.Width,
		Height: state.Bounds.Height,
	}
}

// Rect returns the record as a platform rectangle.
func (r Record) Rect() platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Store saves and loads geometry records keyed by window id.
type Store interface {
	Save(id platform.WindowID, rec Record) error
	// Load reports ok=false without error when no record exists.
	Load(id platform.WindowID) (rec Record, ok bool, err error)
	Clear() error
}

// FileStore keeps one KEY=VALUE file per window under a root directory.
// There is no locking; concurrent writers race and the last one wins.
type FileStore struct {
	root string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Root returns the cache directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) path(id platform.WindowID) string {
	return filepath.Join(s.root, strconv.FormatUint(uint64(id), 10)+".pid")
}

// Save writes the record for id, replacing any previous one.
func (s *FileStore) Save(id platform.WindowID, rec Record) error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "WINDOW=%d\n", id)
	fmt.Fprintf(&buf, "X=%d\n", rec.X)
	fmt.Fprintf(&buf, "Y=%d\n", rec.Y)
	fmt.Fprintf(&buf, "WIDTH=%d\n", rec.Width)
	fmt.Fprintf(&buf, "HEIGHT=%d\n", rec.Height)

	if err := os.WriteFile(s.path(id), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write geometry for window %d: %w", id, err)
	}
	return nil
}

// Load reads the record for id.
func (s *FileStore) Load(id platform.WindowID) (Record, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("failed to read geometry for window %d: %w", id, err)
	}

	rec, err := parseRecord(data)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to parse geometry for window %d: %w", id, err)
	}
	return rec, true, nil
}

// Clear deletes the cache directory and every record in it.
func (s *FileStore) Clear() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// IDs lists the windows that have a record. A missing cache directory
// yields no ids.
func (s *FileStore) IDs() ([]platform.WindowID, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	var ids []platform.WindowID
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".pid")
		if !ok || e.IsDir() {
			continue
		}
		id, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, platform.WindowID(id))
	}
	return ids, nil
}

// Delete removes the record for id. Deleting a missing record is not an error.
func (s *FileStore) Delete(id platform.WindowID) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete geometry for window %d: %w", id, err)
	}
	return nil
}

func parseRecord(data []byte) (Record, error) {
	values := make(map[string]int)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, raw, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Record{}, fmt.Errorf("key %s: %w", key, err)
		}
		values[key] = v
	}
	if err := scanner.Err(); err != nil {
		return Record{}, err
	}

	var rec Record
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"X", &rec.X},
		{"Y", &rec.Y},
		{"WIDTH", &rec.Width},
		{"HEIGHT", &rec.Height},
	} {
		v, ok := values[f.key]
		if !ok {
			return Record{}, fmt.Errorf("missing key %s", f.key)
		}
		*f.dst = v
	}
	return rec, nil
}
