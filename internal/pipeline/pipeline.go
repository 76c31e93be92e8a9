// Package pipeline runs the release stages in a fixed order and stops at the
// first failure.
//
// Exactly one pipeline may run against a project root at a time. Nothing
// enforces this; concurrent runs share the staging and output directories
// and can corrupt each other's archives.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dosanma1/relforge/internal/archive"
	"github.com/dosanma1/relforge/internal/config"
	"github.com/dosanma1/relforge/internal/runner"
	"github.com/dosanma1/relforge/internal/ui"
	"github.com/dosanma1/relforge/internal/version"
)

// Mode selects which stages run.
type Mode string

const (
	// ModeBuild compiles and stages the binary.
	ModeBuild Mode = "build"
	// ModePackage archives an already staged binary.
	ModePackage Mode = "package"
	// ModeRelease runs build then package.
	ModeRelease Mode = "release"
)

// Options are the collaborators of a Pipeline.
type Options struct {
	Runner   runner.Runner
	Printer  *ui.Printer
	Progress bool

	// Publisher overrides the S3 uploader built from the configuration.
	Publisher Publisher
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Version   string
	Results   []StageResult
	Archive   *archive.Artifact
	Checksum  string
	Published []string
	Duration  time.Duration
}

// Pipeline drives one release run.
type Pipeline struct {
	cfg     *config.Config
	bc      BuildContext
	runner  runner.Runner
	printer *ui.Printer
	bar     bool

	publisher Publisher

	summary Summary
}

// New resolves the BuildContext from cfg. Version lookup is soft: a missing
// version only changes the archive name.
func New(cfg *config.Config, opts Options) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.Runner == nil {
		return nil, errors.New("pipeline requires a runner")
	}
	if opts.Printer == nil {
		return nil, errors.New("pipeline requires a printer")
	}

	resolver := &version.Resolver{Warnf: opts.Printer.Warn}
	v := resolver.Resolve(cfg.MetadataFile)

	binary := cfg.BinaryName
	if binary == "" {
		// Read failures were already reported by Resolve.
		binary = (&version.Resolver{}).PackageName(cfg.MetadataFile)
	}
	if binary == "" {
		binary = cfg.ProductName
	}

	bc := BuildContext{
		RunID:        uuid.NewString(),
		ProjectRoot:  cfg.ProjectRoot,
		TargetTriple: cfg.TargetTriple,
		BinaryName:   binary,
		ProductName:  cfg.ProductName,
		OutputDir:    cfg.OutputDir,
		ModuleDir:    cfg.ModuleDir,
		MetadataFile: cfg.MetadataFile,
		Version:      v,
	}

	return &Pipeline{
		cfg:     cfg,
		bc:      bc,
		runner:  opts.Runner,
		printer: opts.Printer,
		bar:     opts.Progress,

		publisher: opts.Publisher,
		summary:   Summary{RunID: bc.RunID, Version: v},
	}, nil
}

// Context returns the BuildContext the stages receive.
func (p *Pipeline) Context() BuildContext {
	return p.bc
}

// Run executes the stages for mode.
func (p *Pipeline) Run(ctx context.Context, mode Mode) (*Summary, error) {
	stages, err := p.Stages(mode)
	if err != nil {
		return nil, err
	}
	return p.RunStages(ctx, stages)
}

// RunStages runs stages in order. The first failing stage ends the run and
// its *StageError is returned. Cancellation of ctx is reported as
// ErrInterrupted.
func (p *Pipeline) RunStages(ctx context.Context, stages []Stage) (*Summary, error) {
	start := time.Now()
	progress := ui.NewProgress(p.printer.Writer(), len(stages), p.bar)
	p.printer.AttachProgress(progress)
	defer func() {
		progress.Finish()
		p.printer.AttachProgress(nil)
		p.summary.Duration = time.Since(start)
	}()

	p.printer.Debug("run %s, project %s", p.bc.RunID, p.bc.ProjectRoot)

	for i, st := range stages {
		if ctx.Err() != nil {
			return &p.summary, interrupted(st.Name)
		}

		progress.Start(i, st.Name)
		stageStart := time.Now()
		res := st.Run(ctx, p.bc)
		res.Stage = st.Name
		res.Duration = time.Since(stageStart)
		p.summary.Results = append(p.summary.Results, res)

		if res.Err != nil {
			if ctx.Err() != nil {
				return &p.summary, interrupted(st.Name)
			}
			return &p.summary, attachStage(st.Name, res.Err)
		}

		p.printer.Debug("%s finished in %s", st.Name, res.Duration.Round(time.Millisecond))
		progress.Done()
	}

	return &p.summary, nil
}

func interrupted(stage string) error {
	return &StageError{Stage: stage, Kind: KindInterrupted, Err: ErrInterrupted}
}

func attachStage(stage string, err error) error {
	var se *StageError
	if errors.As(err, &se) {
		if se.Stage == "" {
			se.Stage = stage
		}
		return se
	}
	return &StageError{Stage: stage, Kind: KindToolFailure, Err: err}
}
