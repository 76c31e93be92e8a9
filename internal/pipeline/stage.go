package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInterrupted is returned when the operator cancels the run.
var ErrInterrupted = errors.New("interrupted by user")

// Kind classifies a stage failure.
type Kind int

const (
	KindPrerequisite Kind = iota + 1
	KindQuality
	KindToolFailure
	KindMissingArtifact
	KindNormalize
	KindFilesystem
	KindInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindPrerequisite:
		return "missing prerequisite"
	case KindQuality:
		return "quality gate"
	case KindToolFailure:
		return "tool failure"
	case KindMissingArtifact:
		return "missing artifact"
	case KindNormalize:
		return "normalization"
	case KindFilesystem:
		return "filesystem"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// StageError is the failure of a named stage.
type StageError struct {
	Stage string
	Kind  Kind
	Err   error
	// Hint is an optional operator suggestion.
	Hint string
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s failed (%s): %v", e.Stage, e.Kind, e.Err)
	if e.Hint != "" {
		msg += "\nhint: " + e.Hint
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageResult is the outcome of one stage.
type StageResult struct {
	Stage    string
	Err      error
	Duration time.Duration
	Notes    []string
}

// OK reports whether the stage succeeded.
func (r StageResult) OK() bool {
	return r.Err == nil
}

// Stage is a named step of the pipeline.
type Stage struct {
	Name string
	Run  func(ctx context.Context, bc BuildContext) StageResult
}

func ok(notes ...string) StageResult {
	return StageResult{Notes: notes}
}

func fail(kind Kind, err error) StageResult {
	return StageResult{Err: &StageError{Kind: kind, Err: err}}
}

func failHint(kind Kind, err error, hint string) StageResult {
	return StageResult{Err: &StageError{Kind: kind, Err: err, Hint: hint}}
}
