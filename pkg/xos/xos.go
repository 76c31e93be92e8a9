// Package xos provides cross-platform atomic file operations.
// A rewritten file is either the old content or the new content, never a
// truncated mix.
package xos

import (
	"bytes"
	"os"
)

// WriteFile writes data to the named file atomically. The file ends up with
// exactly perm, whether or not it existed before and regardless of umask.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return WriteReader(filename, bytes.NewReader(data), perm)
}
