package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/dosanma1/relforge/pkg/xos"
)

// Artifact is a finished release archive.
type Artifact struct {
	Path string
	Size int64
}

// Name returns the archive file name.
func (a Artifact) Name() string {
	return filepath.Base(a.Path)
}

// HumanSize formats the size for reports, e.g. "1.3 MB".
func (a Artifact) HumanSize() string {
	return humanize.Bytes(uint64(a.Size))
}

// Relocate moves src into destDir, replacing a file with the same name.
// The destination is deleted before the move because source and destination
// may live on different volumes where rename cannot replace atomically.
func Relocate(src, destDir string) (Artifact, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	dst := filepath.Join(destDir, filepath.Base(src))
	if err := xos.Move(src, dst); err != nil {
		return Artifact{}, fmt.Errorf("failed to move archive to %s: %w", destDir, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to stat relocated archive: %w", err)
	}
	return Artifact{Path: dst, Size: info.Size()}, nil
}

// WriteChecksum writes "<sha256>  <name>\n" to <path>.sha256 and returns the
// checksum file path.
func WriteChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	sumPath := path + ".sha256"
	line := fmt.Sprintf("%s  %s\n", hex.EncodeToString(h.Sum(nil)), filepath.Base(path))
	if err := xos.WriteFile(sumPath, []byte(line), 0o644); err != nil {
		return "", fmt.Errorf("failed to write checksum: %w", err)
	}
	return sumPath, nil
}
