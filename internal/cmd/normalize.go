package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/lineending"
	"github.com/dosanma1/relforge/internal/ui"
)

var normalizeExtensions []string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <dir>",
	Short: "Convert CRLF line endings to LF",
	Long: `Rewrite CRLF line endings to LF in every matching file under <dir>.
Files without CRLF are left untouched.

Examples:
  relforge normalize module
  relforge normalize module --ext .sh,.prop,.rc`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringSliceVar(&normalizeExtensions, "ext", lineending.DefaultExtensions, "File extensions to normalize")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot normalize %s: %w", args[0], err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", args[0])
	}

	printer := newPrinter(cmd)
	printer.Step(ui.IconClean, "Normalizing line endings in %s...", dir)

	n := lineending.New(normalizeExtensions...)
	n.OnFile = func(r lineending.FileResult) {
		rel, _ := filepath.Rel(dir, r.Path)
		if r.Converted {
			printer.Info("%s: %d line endings converted", filepath.ToSlash(rel), r.Replaced)
		} else {
			printer.Debug("%s: already LF", filepath.ToSlash(rel))
		}
	}

	report, err := n.Normalize(dir)
	if err != nil {
		return err
	}

	printer.Success("%d of %d files converted", report.Converted(), report.Scanned())
	return nil
}
