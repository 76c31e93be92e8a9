package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/config"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	root       string
	verbose    bool
	noProgress bool

	target   string
	product  string
	ndk      string
	sevenZip string
	archiver string
}

var flags globalFlags

func registerGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to the config file (default: <root>/"+config.FileName+")")
	pf.StringVar(&flags.root, "root", "", "Project root (default: nearest directory with "+config.FileName+" or Cargo.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Show tool output and debug details")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "Disable the stage progress bar")

	pf.StringVar(&flags.target, "target", "", "Override the target triple")
	pf.StringVar(&flags.product, "product", "", "Override the product name used for the archive")
	pf.StringVar(&flags.ndk, "ndk", "", "Override the Android NDK directory")
	pf.StringVar(&flags.sevenZip, "7z", "", "Override the 7-Zip executable path")
	pf.StringVar(&flags.archiver, "archiver", "", "Archiver to use (7z|builtin)")
}

// applyOverrides copies explicitly set flags onto cfg. Flags win over the
// environment and the config file.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, value string) {
		if cmd.Flags().Changed(name) {
			*dst = value
		}
	}

	set("target", &cfg.TargetTriple, flags.target)
	set("product", &cfg.ProductName, flags.product)
	set("ndk", &cfg.NDKPath, flags.ndk)
	set("7z", &cfg.Archive.SevenZipPath, flags.sevenZip)
	set("archiver", &cfg.Archive.Format, flags.archiver)
}
