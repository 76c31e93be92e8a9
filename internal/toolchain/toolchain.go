// Package toolchain drives the Rust toolchain for a cross-compiled release:
// target provisioning, the formatting and lint gate, and the release build.
// All work is delegated to rustup and cargo through a runner.Runner.
package toolchain

import (
	"context"
	"fmt"

	"github.com/dosanma1/relforge/internal/runner"
)

// Tools names the executables and extra arguments used by the toolchain stages.
// ClippyArgs are extra lint flags added after the mandatory `-D warnings`.
type Tools struct {
	Rustup     string
	Cargo      string
	ClippyArgs []string
	BuildArgs  []string
}

// DefaultTools returns the stock rustup/cargo configuration.
func DefaultTools() Tools {
	return Tools{
		Rustup: "rustup",
		Cargo:  "cargo",
	}
}

// Provisioner makes sure a cross-compilation target is installed.
type Provisioner struct {
	Runner      runner.Runner
	Tools       Tools
	ProjectRoot string
}

// Ensure runs `rustup target add <triple>`. rustup treats an installed target
// as a no-op, so Ensure is safe to call on every run.
func (p *Provisioner) Ensure(ctx context.Context, triple string) error {
	cmd := runner.Command{
		Program: p.Tools.Rustup,
		Args:    []string{"target", "add", triple},
		Dir:     p.ProjectRoot,
	}
	if _, err := runner.Check(ctx, p.Runner, cmd); err != nil {
		return fmt.Errorf("failed to add target %s: %w", triple, err)
	}
	return nil
}

// Compiler runs the optimized cross build.
type Compiler struct {
	Runner      runner.Runner
	Tools       Tools
	ProjectRoot string
}

// Build runs `cargo build --target <triple> --release`. Success is decided by
// the exit status alone; the artifact itself is located by a later stage.
func (c *Compiler) Build(ctx context.Context, triple string) error {
	args := []string{"build", "--target", triple, "--release"}
	args = append(args, c.Tools.BuildArgs...)

	cmd := runner.Command{Program: c.Tools.Cargo, Args: args, Dir: c.ProjectRoot}
	if _, err := runner.Check(ctx, c.Runner, cmd); err != nil {
		return fmt.Errorf("release build for %s failed: %w", triple, err)
	}
	return nil
}
