package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/archive"
	"github.com/dosanma1/relforge/internal/ui"
	"github.com/dosanma1/relforge/internal/version"
	"github.com/dosanma1/relforge/pkg/xos"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove release artifacts",
	Long: `Remove the archive and checksum for the current version, the staged binary
and the binary copied into the module directory.

Use --all to remove the whole output directory.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove the whole output directory")
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printer := newPrinter(cmd)
	printer.Step(ui.IconClean, "Cleaning release artifacts...")

	v := (&version.Resolver{}).Resolve(cfg.MetadataFile)
	name := version.ArchiveName(cfg.ProductName, v, archive.Extension)
	binary := cfg.BinaryName
	if binary == "" {
		binary = (&version.Resolver{}).PackageName(cfg.MetadataFile)
	}

	paths := []string{
		filepath.Join(cfg.ProjectRoot, name),
		filepath.Join(cfg.OutputDir, name),
		filepath.Join(cfg.OutputDir, name+".sha256"),
	}
	if binary != "" {
		paths = append(paths,
			filepath.Join(cfg.OutputDir, binary),
			filepath.Join(cfg.ModuleDir, "bin", binary),
		)
	}

	removed := 0
	for _, p := range paths {
		ok, err := xos.RemoveIfExists(p)
		if err != nil {
			return err
		}
		if ok {
			removed++
			printer.Info("Removed %s", p)
		}
	}

	if cleanAll {
		if err := os.RemoveAll(cfg.OutputDir); err != nil {
			return err
		}
		printer.Info("Removed %s", cfg.OutputDir)
	}

	printer.Success("Clean complete (%d files removed)", removed)
	return nil
}
