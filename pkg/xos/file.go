package xos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFile copies src to dst atomically, keeping the source permissions and
// modification time. dst is replaced if it already exists.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := WriteFile(dst, content, info.Mode().Perm()); err != nil {
		return err
	}

	mtime := info.ModTime()
	return os.Chtimes(dst, mtime, mtime)
}

// RemoveIfExists deletes path and reports whether something was removed.
// A missing path is not an error.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Move relocates src to dst, replacing any existing dst.
// The destination is deleted first and the move falls back to copy+remove
// when a rename is not possible (different volumes). Moving a file onto
// itself leaves it in place.
func Move(src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		_, err := os.Stat(src)
		return err
	}

	if _, err := RemoveIfExists(dst); err != nil {
		return fmt.Errorf("failed to remove existing %s: %w", dst, err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return os.Remove(src)
}
