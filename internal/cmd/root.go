package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dosanma1/relforge/internal/pipeline"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "relforge",
	Short: "relforge - Release pipeline for cross-compiled Rust modules",
	Long: `relforge builds a Rust crate for an Android target and packages it as a
distributable module archive.

The release pipeline runs these stages in order and stops at the first failure:
  preflight → provision → quality → compile → stage-binary →
  assemble → normalize → archive → relocate → checksum → publish

Configuration is read from relforge.yaml in the project root, then from
RELFORGE_* environment variables (and .env), then from flags.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running
// pipeline and surface as pipeline.ErrInterrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, pipeline.ErrInterrupted) || (err != nil && ctx.Err() != nil) {
		return pipeline.ErrInterrupted
	}
	return err
}

func init() {
	registerGlobalFlags(rootCmd)
}
