package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dosanma1/relforge/internal/archive"
	"github.com/dosanma1/relforge/internal/artifact"
	"github.com/dosanma1/relforge/internal/lineending"
	"github.com/dosanma1/relforge/internal/preflight"
	"github.com/dosanma1/relforge/internal/publish"
	"github.com/dosanma1/relforge/internal/runner"
	"github.com/dosanma1/relforge/internal/toolchain"
	"github.com/dosanma1/relforge/internal/ui"
)

// Stage names, in pipeline order.
const (
	StagePreflight   = "preflight"
	StageProvision   = "provision"
	StageQuality     = "quality"
	StageCompile     = "compile"
	StageStageBinary = "stage-binary"
	StageAssemble    = "assemble"
	StageNormalize   = "normalize"
	StageArchive     = "archive"
	StageRelocate    = "relocate"
	StageChecksum    = "checksum"
	StagePublish     = "publish"
)

// Publisher uploads release files and returns the keys written.
type Publisher interface {
	Upload(ctx context.Context, files ...string) ([]string, error)
}

// Stages returns the ordered stage list for mode. Preflight always runs
// first and only once.
func (p *Pipeline) Stages(mode Mode) ([]Stage, error) {
	var stages []Stage
	switch mode {
	case ModeBuild:
		stages = append(stages, p.preflightStage(mode))
		stages = append(stages, p.buildStages()...)
	case ModePackage:
		stages = append(stages, p.preflightStage(mode))
		stages = append(stages, p.packageStages()...)
	case ModeRelease:
		stages = append(stages, p.preflightStage(mode))
		stages = append(stages, p.buildStages()...)
		stages = append(stages, p.packageStages()...)
	default:
		return nil, fmt.Errorf("unknown mode: %s", mode)
	}
	return stages, nil
}

func (p *Pipeline) buildStages() []Stage {
	return []Stage{
		{Name: StageProvision, Run: p.provision},
		{Name: StageQuality, Run: p.quality},
		{Name: StageCompile, Run: p.compile},
		{Name: StageStageBinary, Run: p.stageBinary},
	}
}

func (p *Pipeline) packageStages() []Stage {
	stages := []Stage{
		{Name: StageAssemble, Run: p.assemble},
		{Name: StageNormalize, Run: p.normalize},
		{Name: StageArchive, Run: p.archive},
		{Name: StageRelocate, Run: p.relocate},
	}
	if p.cfg.ChecksumEnabled() {
		stages = append(stages, Stage{Name: StageChecksum, Run: p.checksum})
	}
	if p.publishConfig().Enabled() {
		stages = append(stages, Stage{Name: StagePublish, Run: p.publish})
	}
	return stages
}

// PreflightChecks lists the prerequisites for mode in verification order.
// The project metadata file is not required: a missing version only
// changes the archive name.
func (p *Pipeline) PreflightChecks(mode Mode) []preflight.Check {
	bc := p.bc
	checks := []preflight.Check{
		{Name: "project root", Path: bc.ProjectRoot, Kind: preflight.KindDir},
		{
			Name: "module directory",
			Path: bc.ModuleDir,
			Kind: preflight.KindDir,
			Hint: "create it with the module template (module.prop, scripts) before packaging",
		},
	}

	if mode == ModeBuild || mode == ModeRelease {
		checks = append(checks,
			preflight.Check{
				Name: "Android NDK",
				Path: p.cfg.NDKPath,
				Kind: preflight.KindDir,
				Hint: "set ndk_path in relforge.yaml, pass --ndk, or export ANDROID_NDK_HOME",
			},
			preflight.Check{
				Name: "rustup",
				Path: p.cfg.Tools.Rustup,
				Kind: preflight.KindExecutable,
				Hint: "install rustup from https://rustup.rs",
			},
			preflight.Check{
				Name: "cargo",
				Path: p.cfg.Tools.Cargo,
				Kind: preflight.KindExecutable,
				Hint: "install the Rust toolchain with rustup",
			},
		)
	}

	if mode == ModePackage {
		checks = append(checks, preflight.Check{
			Name: "staged binary",
			Path: bc.StagedBinaryPath(),
			Kind: preflight.KindFile,
			Hint: "run 'relforge build' first",
		})
	}

	if (mode == ModePackage || mode == ModeRelease) && p.cfg.UsesSevenZip() {
		checks = append(checks, preflight.Check{
			Name: "7-Zip",
			Path: p.cfg.Archive.SevenZipPath,
			Kind: preflight.KindExecutable,
			Hint: "install 7-Zip, pass --7z, or use --archiver builtin",
		})
	}

	return checks
}

func (p *Pipeline) preflightStage(mode Mode) Stage {
	return Stage{
		Name: StagePreflight,
		Run: func(_ context.Context, bc BuildContext) StageResult {
			p.printer.Step(ui.IconSearch, "Checking prerequisites...")
			if err := preflight.Validate(p.PreflightChecks(mode)); err != nil {
				return fail(KindPrerequisite, err)
			}

			if bc.Version == "" {
				p.printer.Info("Version: (none)")
			} else {
				p.printer.Info("Version: %s", bc.Version)
			}
			p.printer.Info("Target: %s", bc.TargetTriple)
			return ok()
		},
	}
}

func (p *Pipeline) tools() toolchain.Tools {
	return toolchain.Tools{
		Rustup:     p.cfg.Tools.Rustup,
		Cargo:      p.cfg.Tools.Cargo,
		ClippyArgs: p.cfg.Tools.ClippyArgs,
		BuildArgs:  p.cfg.Tools.BuildArgs,
	}
}

func (p *Pipeline) provision(ctx context.Context, bc BuildContext) StageResult {
	p.printer.Step(ui.IconTool, "Adding target %s...", bc.TargetTriple)
	prov := &toolchain.Provisioner{Runner: p.runner, Tools: p.tools(), ProjectRoot: bc.ProjectRoot}
	if err := prov.Ensure(ctx, bc.TargetTriple); err != nil {
		return toolFailure(KindToolFailure, err)
	}
	return ok()
}

func (p *Pipeline) quality(ctx context.Context, bc BuildContext) StageResult {
	p.printer.Step(ui.IconSearch, "Checking formatting and lints...")
	gate := &toolchain.QualityGate{Runner: p.runner, Tools: p.tools(), ProjectRoot: bc.ProjectRoot}
	report, err := gate.Run(ctx)
	if err != nil {
		return toolFailure(KindQuality, err)
	}

	if report.Formatted {
		p.printer.Info("Formatting issues fixed")
		return ok("sources reformatted")
	}
	p.printer.Info("No formatting needed")
	return ok()
}

func (p *Pipeline) compile(ctx context.Context, bc BuildContext) StageResult {
	p.printer.Step(ui.IconPackage, "Building %s for %s (release)...", bc.BinaryName, bc.TargetTriple)
	compiler := &toolchain.Compiler{Runner: p.runner, Tools: p.tools(), ProjectRoot: bc.ProjectRoot}
	if err := compiler.Build(ctx, bc.TargetTriple); err != nil {
		return toolFailure(KindToolFailure, err)
	}
	return ok()
}

func (p *Pipeline) stageBinary(_ context.Context, bc BuildContext) StageResult {
	src, err := artifact.Locate(bc.BinaryPath())
	if err != nil {
		var missing *artifact.MissingArtifactError
		if errors.As(err, &missing) {
			return fail(KindMissingArtifact, err)
		}
		return fail(KindFilesystem, err)
	}

	staged, err := artifact.Stage(src, bc.OutputDir)
	if err != nil {
		return fail(KindFilesystem, err)
	}
	p.printer.Success("Binary staged at %s", staged)
	return ok(staged)
}

func (p *Pipeline) assemble(_ context.Context, bc BuildContext) StageResult {
	p.printer.Step(ui.IconPackage, "Assembling %s...", filepath.Base(bc.ModuleDir))
	set, err := artifact.Assemble(bc.StagedBinaryPath(), bc.ModuleDir)
	if err != nil {
		return fail(KindFilesystem, err)
	}
	for _, f := range set.Files {
		p.printer.Debug("%s", f)
	}
	p.printer.Info("%d files in staging directory", len(set.Files))
	return ok()
}

func (p *Pipeline) normalize(_ context.Context, bc BuildContext) StageResult {
	p.printer.Step(ui.IconClean, "Normalizing line endings...")
	n := lineending.New(p.cfg.Normalize.Extensions...)
	n.OnFile = func(r lineending.FileResult) {
		rel, err := filepath.Rel(bc.ModuleDir, r.Path)
		if err != nil {
			rel = r.Path
		}
		if r.Converted {
			p.printer.Detail("%s: %d line endings converted", filepath.ToSlash(rel), r.Replaced)
		} else {
			p.printer.Debug("%s: already LF", filepath.ToSlash(rel))
		}
	}

	report, err := n.Normalize(bc.ModuleDir)
	if err != nil {
		return fail(KindNormalize, err)
	}
	p.printer.Info("%d of %d files converted", report.Converted(), report.Scanned())
	return ok()
}

func (p *Pipeline) archive(ctx context.Context, bc BuildContext) StageResult {
	a, err := archive.Get(p.cfg.Archive.Format, archive.Options{
		Runner:       p.runner,
		SevenZipPath: p.cfg.Archive.SevenZipPath,
		WorkDir:      bc.ProjectRoot,
	})
	if err != nil {
		return fail(KindToolFailure, err)
	}

	p.printer.Step(ui.IconPackage, "Creating %s with %s...", bc.ArchiveName(), a.Name())
	if err := a.Create(ctx, bc.ModuleDir, bc.WorkArchivePath()); err != nil {
		var te *runner.ToolError
		if errors.As(err, &te) {
			return toolFailure(KindToolFailure, err)
		}
		return fail(KindFilesystem, err)
	}
	return ok(bc.WorkArchivePath())
}

func (p *Pipeline) relocate(_ context.Context, bc BuildContext) StageResult {
	art, err := archive.Relocate(bc.WorkArchivePath(), bc.OutputDir)
	if err != nil {
		return fail(KindFilesystem, err)
	}
	p.summary.Archive = &art
	p.printer.Success("Archive ready: %s (%s)", art.Path, art.HumanSize())
	return ok(art.Path)
}

func (p *Pipeline) checksum(_ context.Context, bc BuildContext) StageResult {
	sum, err := archive.WriteChecksum(bc.FinalArchivePath())
	if err != nil {
		return fail(KindFilesystem, err)
	}
	p.summary.Checksum = sum
	p.printer.Info("Checksum: %s", filepath.Base(sum))
	return ok(sum)
}

func (p *Pipeline) publishConfig() publish.Config {
	pc := p.cfg.Publish
	return publish.Config{
		Endpoint:  pc.Endpoint,
		Bucket:    pc.Bucket,
		Prefix:    pc.Prefix,
		Region:    pc.Region,
		AccessKey: pc.AccessKey,
		SecretKey: pc.SecretKey,
		Insecure:  pc.Insecure,
	}
}

func (p *Pipeline) publish(ctx context.Context, bc BuildContext) StageResult {
	pub := p.publisher
	if pub == nil {
		u, err := publish.New(p.publishConfig())
		if err != nil {
			return failHint(KindPrerequisite, err, "check the publish section of relforge.yaml")
		}
		pub = u
	}

	files := []string{bc.FinalArchivePath()}
	if p.summary.Checksum != "" {
		files = append(files, p.summary.Checksum)
	}

	p.printer.Step(ui.IconUpload, "Uploading to %s/%s...", p.cfg.Publish.Endpoint, p.cfg.Publish.Bucket)
	keys, err := pub.Upload(ctx, files...)
	p.summary.Published = keys
	if err != nil {
		return fail(KindToolFailure, err)
	}
	for _, k := range keys {
		p.printer.Info("%s", k)
	}
	return ok(keys...)
}

// toolFailure attaches an operator hint derived from the tool's output.
func toolFailure(kind Kind, err error) StageResult {
	var te *runner.ToolError
	if errors.As(err, &te) {
		if hint := toolchain.Diagnose(te.Result.Output()); hint != "" {
			return failHint(kind, err, hint)
		}
	}
	return fail(kind, err)
}
