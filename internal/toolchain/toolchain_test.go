package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dosanma1/relforge/internal/runner"
	"github.com/dosanma1/relforge/internal/runner/runnertest"
)

const root = "/work/FreePPS"

func TestProvisioner_Ensure(t *testing.T) {
	fake := runnertest.New()
	p := &Provisioner{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	require.NoError(t, p.Ensure(context.Background(), "aarch64-linux-android"))

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "rustup target add aarch64-linux-android", calls[0].String())
	assert.Equal(t, root, calls[0].Dir)
}

func TestProvisioner_Ensure_Failure(t *testing.T) {
	fake := runnertest.New().Exit("rustup", []string{"target"}, 1, "error: network unreachable")
	p := &Provisioner{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	err := p.Ensure(context.Background(), "aarch64-linux-android")
	require.Error(t, err)

	var toolErr *runner.ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, err.Error(), "network unreachable")
}

func TestQualityGate_CleanSourcesSkipFormatting(t *testing.T) {
	fake := runnertest.New()
	g := &QualityGate{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	report, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Formatted)
	assert.Equal(t, []string{
		"cargo fmt -- --check",
		"cargo clippy -- -D warnings",
	}, fake.CommandLines())
}

func TestQualityGate_FormatIssuesAreRepaired(t *testing.T) {
	fake := runnertest.New().Exit("cargo", []string{"fmt", "--", "--check"}, 1, "Diff in src/main.rs")
	g := &QualityGate{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	report, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Formatted)
	assert.Equal(t, []string{
		"cargo fmt -- --check",
		"cargo fmt",
		"cargo clippy -- -D warnings",
	}, fake.CommandLines())
}

func TestQualityGate_FormatApplyFailureIsFatal(t *testing.T) {
	fake := runnertest.New().
		Exit("cargo", []string{"fmt"}, 1, "rustfmt crashed").
		Exit("cargo", []string{"fmt", "--", "--check"}, 1, "Diff in src/main.rs")
	g := &QualityGate{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	_, err := g.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormatApply))
	assert.NotContains(t, fake.CommandLines(), "cargo clippy -- -D warnings")
}

func TestQualityGate_LintFailureIsFatal(t *testing.T) {
	fake := runnertest.New().Exit("cargo", []string{"clippy"}, 101, "error: unused variable: `x`")
	g := &QualityGate{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	_, err := g.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLint))
	assert.Contains(t, err.Error(), "unused variable")
}

func TestQualityGate_CustomClippyArgsKeepDenyWarnings(t *testing.T) {
	fake := runnertest.New()
	tools := DefaultTools()
	tools.ClippyArgs = []string{"-W", "clippy::pedantic"}
	g := &QualityGate{Runner: fake, Tools: tools, ProjectRoot: root}

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, fake.CommandLines(), "cargo clippy -- -D warnings -W clippy::pedantic")
}

func TestCompiler_Build(t *testing.T) {
	fake := runnertest.New()
	c := &Compiler{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	require.NoError(t, c.Build(context.Background(), "aarch64-linux-android"))
	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "cargo build --target aarch64-linux-android --release", calls[0].String())
	assert.Equal(t, root, calls[0].Dir)
}

func TestCompiler_Build_Failure(t *testing.T) {
	fake := runnertest.New().Exit("cargo", []string{"build"}, 101, "error: linker `aarch64-linux-android-clang` not found")
	c := &Compiler{Runner: fake, Tools: DefaultTools(), ProjectRoot: root}

	err := c.Build(context.Background(), "aarch64-linux-android")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "linker")
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{"missing linker", "error: linker `aarch64-linux-android-clang` not found", "aarch64-linux-android-clang"},
		{"missing std", "error[E0463]: can't find crate for `std`\n= note: the `aarch64-linux-android` target may not be installed", "rustup target add"},
		{"unknown target", "error: toolchain 'stable-x86_64' does not support target 'arm64-android'", "arm64-android"},
		{"missing component", "error: 'cargo-clippy' is not installed for the toolchain 'stable'", "rustup component add"},
		{"unknown", "error: something else", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(tt.output)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}
