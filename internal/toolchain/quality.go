package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/dosanma1/relforge/internal/runner"
)

// ErrLint marks a lint failure. Lint findings are never auto-fixed.
var ErrLint = errors.New("lint check failed")

// ErrFormatApply marks a formatter that could not rewrite the sources.
var ErrFormatApply = errors.New("formatter failed to apply fixes")

// GateReport describes what the quality gate did.
type GateReport struct {
	// Formatted is true when the format check found issues and the
	// formatter rewrote sources.
	Formatted bool
}

// QualityGate runs the format check, optional auto-format, then strict lint.
// Lint always denies warnings; Tools.ClippyArgs are appended after
// `-D warnings` and cannot relax it.
type QualityGate struct {
	Runner      runner.Runner
	Tools       Tools
	ProjectRoot string
}

// Run executes both phases. Formatting issues are repaired in place;
// a formatter that fails to apply and any lint failure are fatal.
func (g *QualityGate) Run(ctx context.Context) (GateReport, error) {
	var report GateReport

	check := g.cargo("fmt", "--", "--check")
	res, err := g.Runner.Run(ctx, check)
	if err != nil {
		return report, fmt.Errorf("failed to run %s: %w", check, err)
	}

	if !res.Success() {
		apply := g.cargo("fmt")
		if _, err := runner.Check(ctx, g.Runner, apply); err != nil {
			return report, fmt.Errorf("%w: %w", ErrFormatApply, err)
		}
		report.Formatted = true
	}

	lintArgs := append([]string{"clippy", "--", "-D", "warnings"}, g.Tools.ClippyArgs...)
	if _, err := runner.Check(ctx, g.Runner, g.cargo(lintArgs...)); err != nil {
		return report, fmt.Errorf("%w: %w", ErrLint, err)
	}

	return report, nil
}

func (g *QualityGate) cargo(args ...string) runner.Command {
	return runner.Command{Program: g.Tools.Cargo, Args: args, Dir: g.ProjectRoot}
}
