package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/dosanma1/relforge/pkg/xos"
)

// BuiltinName selects the in-process zip writer.
const BuiltinName = "builtin"

// Builtin writes zip archives in-process. Entries are stored relative to the
// source directory with forward slashes and keep their file modes.
type Builtin struct{}

// Name implements Archiver.
func (b *Builtin) Name() string {
	return BuiltinName
}

// Create implements Archiver.
func (b *Builtin) Create(ctx context.Context, srcDir, dest string) (err error) {
	if _, err := xos.RemoveIfExists(dest); err != nil {
		return fmt.Errorf("failed to remove existing archive %s: %w", dest, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	zw := zip.NewWriter(f)
	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == srcDir || (!d.IsDir() && !d.Type().IsRegular()) {
			return nil
		}
		return addEntry(zw, srcDir, path, d)
	})
	if walkErr != nil {
		zw.Close()
		return fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func addEntry(zw *zip.Writer, root, path string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(rel)

	if d.IsDir() {
		header.Name += "/"
		_, err := zw.CreateHeader(header)
		return err
	}

	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)
	return err
}
