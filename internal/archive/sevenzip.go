package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dosanma1/relforge/internal/runner"
	"github.com/dosanma1/relforge/pkg/xos"
)

// SevenZipName selects the external 7-Zip archiver.
const SevenZipName = "7z"

// SevenZip archives through the 7-Zip command line tool.
type SevenZip struct {
	Runner  runner.Runner
	Path    string
	WorkDir string
}

// Name implements Archiver.
func (s *SevenZip) Name() string {
	return SevenZipName
}

// Command returns the 7-Zip invocation for srcDir and dest. The trailing
// wildcard is expanded by 7-Zip itself, so the archive holds the contents of
// srcDir rather than the directory.
func (s *SevenZip) Command(srcDir, dest string) runner.Command {
	return runner.Command{
		Program: s.Path,
		Args:    []string{"a", "-tzip", "-r", dest, filepath.Join(srcDir, "*")},
		Dir:     s.WorkDir,
	}
}

// Create implements Archiver.
func (s *SevenZip) Create(ctx context.Context, srcDir, dest string) error {
	if _, err := xos.RemoveIfExists(dest); err != nil {
		return fmt.Errorf("failed to remove existing archive %s: %w", dest, err)
	}

	if _, err := runner.Check(ctx, s.Runner, s.Command(srcDir, dest)); err != nil {
		return fmt.Errorf("7-Zip compression failed: %w", err)
	}
	return nil
}
