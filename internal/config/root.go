package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify a project root, in order of preference.
var rootMarkers = []string{FileName, "Cargo.toml"}

// FindProjectRoot walks up from start looking for relforge.yaml, then for
// Cargo.toml.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for _, marker := range rootMarkers {
		if found, ok := findUp(dir, marker); ok {
			return found, nil
		}
	}
	return "", fmt.Errorf("%s or Cargo.toml not found in %s or any parent directory", FileName, dir)
}

func findUp(dir, marker string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
