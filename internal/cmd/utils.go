package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/config"
	"github.com/dosanma1/relforge/internal/ui"
)

// projectRoot resolves --root, or walks up from the working directory.
// Without any marker the working directory itself is used.
func projectRoot() (string, error) {
	if flags.root != "" {
		return filepath.Abs(flags.root)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	if root, err := config.FindProjectRoot(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}

// configPath returns the config file the command reads.
func configPath(root string) string {
	if flags.configFile != "" {
		return flags.configFile
	}
	return filepath.Join(root, config.FileName)
}

// loadConfig loads the configuration with flag overrides applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if flags.configFile != "" {
		cfg, err = config.LoadFile(flags.configFile, root)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return nil, err
	}

	applyOverrides(cmd, cfg)
	return cfg, nil
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout(), flags.verbose)
}

// progressEnabled reports whether the stage bar should render. Verbose mode
// streams tool output, which would tear the bar.
func progressEnabled(cmd *cobra.Command) bool {
	return !flags.noProgress && !flags.verbose && ui.IsTerminal(cmd.OutOrStdout())
}
