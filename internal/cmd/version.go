package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/archive"
	"github.com/dosanma1/relforge/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the project version and archive name",
	Long: `Print the version declared in the project metadata, or "(none)" when it
declares none, followed by the archive name a release would produce.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printer := newPrinter(cmd)
	resolver := &version.Resolver{}
	if flags.verbose {
		resolver.Warnf = printer.Warn
	}

	v := resolver.Resolve(cfg.MetadataFile)
	shown := v
	if shown == "" {
		shown = "(none)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, shown)
	fmt.Fprintln(out, version.ArchiveName(cfg.ProductName, v, archive.Extension))
	return nil
}
