package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/pipeline"
	"github.com/dosanma1/relforge/internal/runner"
	"github.com/dosanma1/relforge/internal/ui"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Build and package the module archive",
	Long: `Run the full release pipeline: compile the crate for the target, then
assemble, normalize and archive the module directory.

The archive is named <product>_v<version>.zip, or <product>.zip when the
project metadata declares no version, and is placed in the output directory.

Examples:
  relforge release
  relforge release --archiver builtin
  relforge release --target armv7-linux-androideabi --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.ModeRelease)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the crate and stage the binary",
	Long: `Add the target, run the format and lint gate, compile in release mode
and copy the binary into the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.ModeBuild)
	},
}

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Package an already staged binary",
	Long: `Assemble the module directory around the binary staged by 'relforge build',
normalize line endings and produce the release archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.ModePackage)
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(packageCmd)
}

func runPipeline(cmd *cobra.Command, mode pipeline.Mode) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printer := newPrinter(cmd)
	p, err := pipeline.New(cfg, pipeline.Options{
		Runner:   runner.NewLocal(flags.verbose),
		Printer:  printer,
		Progress: progressEnabled(cmd),
	})
	if err != nil {
		return err
	}

	bc := p.Context()
	printer.Title("%s %s %s (%s)", ui.IconRocket, mode, bc.ProductName, bc.TargetTriple)
	printer.Debug("project root: %s", bc.ProjectRoot)

	summary, err := p.Run(cmd.Context(), mode)
	if err != nil {
		return reportFailure(printer, err)
	}

	printer.Success("%s completed in %s", mode, summary.Duration.Round(time.Millisecond))
	if summary.Archive != nil {
		printer.Info("%s %s (%s)", ui.IconPackage, summary.Archive.Path, summary.Archive.HumanSize())
	}
	return nil
}

// reportFailure prints the stage failure in full and returns a one-line
// error for main.
func reportFailure(printer *ui.Printer, err error) error {
	if errors.Is(err, pipeline.ErrInterrupted) {
		return pipeline.ErrInterrupted
	}

	var se *pipeline.StageError
	if !errors.As(err, &se) {
		return err
	}

	printer.Error("%s", se.Err)
	if se.Hint != "" {
		printer.Warn("%s", se.Hint)
	}
	return fmt.Errorf("%s stage failed (%s)", se.Stage, se.Kind)
}
