package cachepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "winjitsu"

// Dir returns the default geometry cache directory. Priority:
// 1) $XDG_CACHE_HOME/winjitsu (if XDG_CACHE_HOME is set)
// 2) ~/.cache/winjitsu
//
// The directory is not created.
func Dir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cache", appName), nil
}
