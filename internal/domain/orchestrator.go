package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	"pycforge.dev/pkg/pycforge/internal/controller"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// pycacheDirName is the transient compiler cache local tooling leaves
// behind in the source tree.
const pycacheDirName = "__pycache__"

// Orchestrator drives the version table in declared order, sequencing
// snapshot, provisioning, build, and organization per version. A failure in
// one version never stops the others; after all versions are attempted the
// source tree's transient leftovers are cleaned up.
type Orchestrator interface {
	CompileAll(ctx context.Context) (m.RunSummary, error)
}

type orchestrator struct {
	cfg         Config
	fs          adapter.SourceFSAdapter
	tool        adapter.RewriteTool
	snapshotter SourceSnapshotter
	provisioner ImageProvisioner
	runner      BuildRunner
	organizer   ArtifactOrganizer
	ui          controller.UI
}

// NewOrchestrator wires the full pipeline for one run. The rewrite tool is
// shared between the up-front availability check and the per-file rewrites
// inside the snapshotter.
func NewOrchestrator(
	cfg Config,
	fs adapter.SourceFSAdapter,
	engine adapter.ContainerEngine,
	tool adapter.RewriteTool,
	ui controller.UI,
) Orchestrator {
	rewriter := NewLegacySyntaxRewriter(fs, tool, NewRegexLowerer())

	return &orchestrator{
		cfg:         cfg,
		fs:          fs,
		tool:        tool,
		snapshotter: NewSourceSnapshotter(cfg, fs, rewriter),
		provisioner: NewImageProvisioner(cfg, fs, engine),
		runner:      NewBuildRunner(cfg, fs, engine),
		organizer:   NewArtifactOrganizer(fs),
		ui:          ui,
	}
}

// CompileAll attempts every configured version and returns the aggregated
// summary. The only error it returns is a missing rewrite engine that
// cannot be installed; per-version failures are carried in the summary.
func (o *orchestrator) CompileAll(ctx context.Context) (m.RunSummary, error) {
	summary := m.RunSummary{
		SourceDir: o.cfg.SourceDir,
		StartedAt: time.Now(),
	}

	if o.cfg.NeedsLegacyRewrite() {
		if err := o.tool.EnsureInstalled(ctx); err != nil {
			return summary, fmt.Errorf("rewrite engine unavailable: %w", err)
		}
	}

	for _, version := range o.cfg.Versions {
		outcome := o.runVersion(ctx, version)
		summary.Outcomes = append(summary.Outcomes, outcome)
		o.ui.VersionCompleted(outcome)
	}

	o.cleanupCompilerCaches()
	o.cleanupSnapshot()

	summary.FinishedAt = time.Now()

	return summary, nil
}

// runVersion sequences one version's pipeline, converting each stage into a
// result value. The first failed stage ends the version; later versions are
// unaffected.
func (o *orchestrator) runVersion(ctx context.Context, version m.VersionDescriptor) m.VersionOutcome {
	outcome := m.VersionOutcome{Version: version}

	o.ui.StartVersion(version)

	snapshot, err := o.snapshotter.Prepare(ctx, version)
	if err != nil {
		slog.Error("snapshot preparation failed", "version", version.ID, "error", err)
		outcome.Stages = append(outcome.Stages, m.FailedStage(m.StageSnapshot, err))

		return outcome
	}

	outcome.Stages = append(outcome.Stages, m.OKStage(m.StageSnapshot))

	image, err := o.provisioner.EnsureImage(ctx, version)
	if err != nil {
		slog.Error("image provisioning failed", "version", version.ID, "error", err)
		outcome.Stages = append(outcome.Stages, m.FailedStage(m.StageProvision, err))

		return outcome
	}

	outcome.Stages = append(outcome.Stages, m.OKStage(m.StageProvision))

	outputDir, buildResult := o.runner.Run(ctx, version, image, snapshot)
	outcome.OutputDir = outputDir
	outcome.Stages = append(outcome.Stages, buildResult)

	if buildResult.Status == m.StageFailed {
		return outcome
	}

	if err := o.organizer.Flatten(outputDir); err != nil {
		slog.Error("artifact organization failed", "version", version.ID, "error", err)
		outcome.Stages = append(outcome.Stages, m.FailedStage(m.StageOrganize, err))

		return outcome
	}

	outcome.Stages = append(outcome.Stages, m.OKStage(m.StageOrganize))

	return outcome
}

// cleanupCompilerCaches removes every transient compiler cache directory
// under the source tree. Idempotent and best-effort.
func (o *orchestrator) cleanupCompilerCaches() {
	var caches []string

	err := o.fs.Walk(o.cfg.SourceDir, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && filepath.Base(path) == pycacheDirName {
			caches = append(caches, path)
			return filepath.SkipDir
		}

		return nil
	})
	if err != nil {
		slog.Warn("compiler cache scan failed", "error", err)
		return
	}

	for _, cache := range caches {
		if err := o.fs.RemoveAll(m.Path(cache)); err != nil {
			slog.Warn("failed to remove compiler cache", "dir", cache, "error", err)
		}
	}
}

// cleanupSnapshot removes the shared snapshot directory. Idempotent.
func (o *orchestrator) cleanupSnapshot() {
	if err := o.fs.RemoveAll(o.cfg.SnapshotDir()); err != nil {
		slog.Warn("failed to remove snapshot dir", "dir", o.cfg.SnapshotDir(), "error", err)
	}
}
