//go:build windows
// +build windows

package xos

import (
	"io"
	"os"
	"path/filepath"
)

// WriteReader writes data from a reader to the named file through a temp
// file in the same directory. Windows cannot rename over an existing file,
// so the target is removed just before the rename.
func WriteReader(filename string, r io.Reader, perm os.FileMode) (err error) {
	t, err := os.CreateTemp(filepath.Dir(filename), ".xos-*")
	if err != nil {
		return err
	}
	tmp := t.Name()
	defer func() {
		if err != nil {
			t.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(t, r); err != nil {
		return err
	}
	if err = t.Sync(); err != nil {
		return err
	}
	if err = t.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp, perm); err != nil {
		return err
	}

	if _, err = RemoveIfExists(filename); err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}
