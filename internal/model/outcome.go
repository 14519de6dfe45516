// Package model holds the shared value types of the compilation pipeline.
package model

import "time"

// Stage identifies one step of a version's pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageSnapshot  Stage = "snapshot"
	StageProvision Stage = "provision"
	StageBuild     Stage = "build"
	StageOrganize  Stage = "organize"
)

// StageStatus represents the result of running a single stage.
type StageStatus int

const (
	// StageOK indicates the stage completed.
	StageOK StageStatus = iota
	// StageFailed indicates the stage failed; later stages are skipped.
	StageFailed
)

func (s StageStatus) String() string {
	if s == StageOK {
		return "ok"
	}

	return "failed"
}

// StageResult is the outcome of one pipeline stage. Failures are carried as
// values rather than unwound across component boundaries.
type StageResult struct {
	Stage  Stage       `yaml:"stage"`
	Status StageStatus `yaml:"status"`
	Detail string      `yaml:"detail,omitempty"`
}

// OKStage returns a successful result for the given stage.
func OKStage(stage Stage) StageResult {
	return StageResult{Stage: stage, Status: StageOK}
}

// FailedStage returns a failed result carrying the error text.
func FailedStage(stage Stage, err error) StageResult {
	detail := ""
	if err != nil {
		detail = err.Error()
	}

	return StageResult{Stage: stage, Status: StageFailed, Detail: detail}
}

// VersionOutcome aggregates the stage results of one version's pipeline run.
type VersionOutcome struct {
	Version VersionDescriptor `yaml:"version"`
	Stages  []StageResult     `yaml:"stages"`

	// OutputDir is the per-version artifact directory. It is set as soon as
	// the build stage creates it, even when a later step fails, since a
	// partially populated directory is intentionally left in place.
	OutputDir Path `yaml:"output_dir,omitempty"`
}

// Succeeded reports whether every attempted stage completed.
func (o VersionOutcome) Succeeded() bool {
	for _, stage := range o.Stages {
		if stage.Status == StageFailed {
			return false
		}
	}

	return len(o.Stages) > 0
}

// FailedStage returns the first failed stage result, or nil.
func (o VersionOutcome) FailedStage() *StageResult {
	for i := range o.Stages {
		if o.Stages[i].Status == StageFailed {
			return &o.Stages[i]
		}
	}

	return nil
}

// RunSummary is the final per-run report: one outcome per configured
// version, in declared order.
type RunSummary struct {
	SourceDir  Path             `yaml:"source_dir"`
	StartedAt  time.Time        `yaml:"started_at"`
	FinishedAt time.Time        `yaml:"finished_at"`
	Outcomes   []VersionOutcome `yaml:"outcomes"`
}

// Failures counts versions that did not complete their pipeline.
func (s RunSummary) Failures() int {
	failed := 0

	for _, outcome := range s.Outcomes {
		if !outcome.Succeeded() {
			failed++
		}
	}

	return failed
}
