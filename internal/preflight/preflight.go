// Package preflight verifies that the release environment is usable before
// the pipeline performs any side effect.
package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Kind selects how a prerequisite is verified.
type Kind int

const (
	// KindDir requires an existing directory.
	KindDir Kind = iota
	// KindFile requires an existing regular file.
	KindFile
	// KindExecutable requires a file path, or a bare program name found on PATH.
	KindExecutable
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	case KindExecutable:
		return "executable"
	default:
		return "path"
	}
}

// Check is a single required path.
type Check struct {
	Name string
	Path string
	Kind Kind
	Hint string
}

// MissingPrerequisiteError reports the first prerequisite that failed.
type MissingPrerequisiteError struct {
	Check  Check
	Reason string
}

func (e *MissingPrerequisiteError) Error() string {
	msg := fmt.Sprintf("%s not found: expected %s at %s", e.Check.Name, e.Check.Kind, e.Check.Path)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Check.Hint != "" {
		msg += "\n" + e.Check.Hint
	}
	return msg
}

// Validate verifies each check in order and stops at the first failure.
func Validate(checks []Check) error {
	for _, c := range checks {
		if err := verify(c); err != nil {
			return err
		}
	}
	return nil
}

func verify(c Check) error {
	if c.Path == "" {
		return &MissingPrerequisiteError{Check: c, Reason: "no path configured"}
	}

	if c.Kind == KindExecutable && isBareName(c.Path) {
		if _, err := exec.LookPath(c.Path); err != nil {
			return &MissingPrerequisiteError{Check: c, Reason: "not on PATH"}
		}
		return nil
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingPrerequisiteError{Check: c}
		}
		return &MissingPrerequisiteError{Check: c, Reason: err.Error()}
	}

	switch c.Kind {
	case KindDir:
		if !info.IsDir() {
			return &MissingPrerequisiteError{Check: c, Reason: "not a directory"}
		}
	case KindFile, KindExecutable:
		if !info.Mode().IsRegular() {
			return &MissingPrerequisiteError{Check: c, Reason: "not a regular file"}
		}
	}
	return nil
}

// isBareName reports whether path is a program name rather than a path.
func isBareName(path string) bool {
	if filepath.IsAbs(path) {
		return false
	}
	if filepath.Base(path) != path {
		return false
	}
	// "D:7z.exe" style drive-relative names are paths on Windows.
	return runtime.GOOS != "windows" || filepath.VolumeName(path) == ""
}
