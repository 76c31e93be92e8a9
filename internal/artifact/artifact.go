// Package artifact finds the compiled binary, stages it under a stable name
// and assembles the staging directory that is later archived.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dosanma1/relforge/pkg/xos"
)

// BinaryPath returns {root}/target/{triple}/release/{binary}.
func BinaryPath(root, triple, binary string) string {
	return filepath.Join(root, "target", triple, "release", binary)
}

// MissingArtifactError reports an expected binary that the build did not
// produce, along with what the release directory actually contains.
type MissingArtifactError struct {
	Expected string
	Dir      string
	Found    []string
}

func (e *MissingArtifactError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "compiled binary not found: %s", e.Expected)
	switch {
	case e.Found == nil:
		fmt.Fprintf(&b, "\n%s does not exist", e.Dir)
	case len(e.Found) == 0:
		fmt.Fprintf(&b, "\n%s is empty", e.Dir)
	default:
		fmt.Fprintf(&b, "\nfiles found in %s:", e.Dir)
		for _, name := range e.Found {
			fmt.Fprintf(&b, "\n  - %s", name)
		}
	}
	return b.String()
}

// Locate verifies the compiled binary exists at path. When it does not, the
// returned *MissingArtifactError lists the sibling entries, skipping .d
// dependency-info files.
func Locate(path string) (string, error) {
	info, err := os.Stat(path)
	if err == nil && info.Mode().IsRegular() {
		return path, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	return "", &MissingArtifactError{Expected: path, Dir: dir, Found: listOutputs(dir)}
}

func listOutputs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	found := []string{}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".d") {
			continue
		}
		found = append(found, e.Name())
	}
	return found
}

// Stage copies the binary into outputDir, creating it if needed, and returns
// the staged path. Mode and modification time are preserved.
func Stage(src, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	dst := filepath.Join(outputDir, filepath.Base(src))
	if err := xos.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to copy %s to %s: %w", src, outputDir, err)
	}
	return dst, nil
}

// Set is the list of files inside a staging directory, relative to it,
// using forward slashes.
type Set struct {
	Root  string
	Files []string
}

// Contains reports whether rel is part of the set.
func (s Set) Contains(rel string) bool {
	for _, f := range s.Files {
		if f == rel {
			return true
		}
	}
	return false
}

// Assemble copies the staged binary to {moduleDir}/bin/{name} and returns
// the resulting contents of moduleDir.
func Assemble(binary, moduleDir string) (Set, error) {
	binDir := filepath.Join(moduleDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return Set{}, fmt.Errorf("failed to create %s: %w", binDir, err)
	}

	if err := xos.CopyFile(binary, filepath.Join(binDir, filepath.Base(binary))); err != nil {
		return Set{}, fmt.Errorf("failed to copy %s into staging directory: %w", binary, err)
	}

	return Collect(moduleDir)
}

// Collect lists the regular files under root in lexical order.
func Collect(root string) (Set, error) {
	set := Set{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		set.Files = append(set.Files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Set{}, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(set.Files)
	return set, nil
}
