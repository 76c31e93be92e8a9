package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/config"
	"github.com/dosanma1/relforge/internal/version"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [product-name]",
	Short: "Write a relforge.yaml with the default settings",
	Long: `Create relforge.yaml in the project root. The product name defaults to the
Cargo package name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing relforge.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	path := configPath(root)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	product := "FreePPS"
	if len(args) > 0 {
		product = args[0]
	} else if name := (&version.Resolver{}).PackageName(filepath.Join(root, "Cargo.toml")); name != "" {
		product = name
	}

	cfg := config.NewDefaultConfig(product)
	applyOverrides(cmd, cfg)
	if err := cfg.Save(path); err != nil {
		return err
	}

	newPrinter(cmd).Success("Created %s", path)
	return nil
}
