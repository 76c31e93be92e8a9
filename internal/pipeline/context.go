package pipeline

import (
	"path/filepath"

	"github.com/dosanma1/relforge/internal/archive"
	"github.com/dosanma1/relforge/internal/artifact"
	"github.com/dosanma1/relforge/internal/version"
)

// BuildContext is the immutable description of one pipeline run. It is
// created once before the first stage and passed to every stage by value.
type BuildContext struct {
	RunID        string
	ProjectRoot  string
	TargetTriple string
	BinaryName   string
	ProductName  string
	OutputDir    string
	ModuleDir    string
	MetadataFile string

	// Version is empty when the metadata declares none.
	Version string
}

// BinaryPath is where the release build leaves the binary.
func (bc BuildContext) BinaryPath() string {
	return artifact.BinaryPath(bc.ProjectRoot, bc.TargetTriple, bc.BinaryName)
}

// StagedBinaryPath is the binary's stable location in the output directory.
func (bc BuildContext) StagedBinaryPath() string {
	return filepath.Join(bc.OutputDir, bc.BinaryName)
}

// ArchiveName applies the versioned naming policy.
func (bc BuildContext) ArchiveName() string {
	return version.ArchiveName(bc.ProductName, bc.Version, archive.Extension)
}

// WorkArchivePath is where the archiver writes, before relocation.
func (bc BuildContext) WorkArchivePath() string {
	return filepath.Join(bc.ProjectRoot, bc.ArchiveName())
}

// FinalArchivePath is the relocated archive in the output directory.
func (bc BuildContext) FinalArchivePath() string {
	return filepath.Join(bc.OutputDir, bc.ArchiveName())
}
