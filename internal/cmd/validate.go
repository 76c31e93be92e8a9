package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/config"
	"github.com/dosanma1/relforge/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate relforge.yaml",
	Long: `Validates relforge.yaml against the embedded JSON Schema, then checks
that the resolved configuration (after environment and flag overrides) is
usable.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	path := configPath(root)
	printer := newPrinter(cmd)
	printer.Step(ui.IconSearch, "Validating %s...", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := config.ValidateSchema(data); err != nil {
		var se *config.SchemaError
		if errors.As(err, &se) {
			printer.Error("%s has %d schema violation(s):", path, len(se.Violations))
			for _, v := range se.Violations {
				printer.Info("- %s", v)
			}
			return fmt.Errorf("validation failed")
		}
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	printer.Success("%s is valid!", path)
	return nil
}
