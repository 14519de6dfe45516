package domain

import (
	"context"
	"fmt"
	"log/slog"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// compileCommand is executed inside a build instance: compile every source
// file found under the mounted snapshot.
var compileCommand = []string{
	"find", DefaultMountTarget,
	"-name", "*" + DefaultSourceExt,
	"-exec", "python", "-m", "py_compile", "{}", ";",
}

// BuildRunner executes one compilation pass in a disposable container bound
// to the snapshot, then extracts produced artifacts to the host. Engine
// failures never propagate past this component; the version is reported as
// failed through the stage result instead.
type BuildRunner interface {
	// Run recreates the version's output directory, runs the compile pass,
	// and copies artifacts out. The output directory is returned even on
	// failure so partial results stay inspectable. The build instance is
	// always removed, after extraction has been attempted.
	Run(ctx context.Context, version m.VersionDescriptor, image string, snapshot m.Path) (m.Path, m.StageResult)
}

type buildRunner struct {
	cfg    Config
	fs     adapter.SourceFSAdapter
	engine adapter.ContainerEngine
}

// NewBuildRunner constructs a BuildRunner backed by the given container
// engine.
func NewBuildRunner(cfg Config, fs adapter.SourceFSAdapter, engine adapter.ContainerEngine) BuildRunner {
	return &buildRunner{cfg: cfg, fs: fs, engine: engine}
}

func (r *buildRunner) Run(ctx context.Context, version m.VersionDescriptor, image string, snapshot m.Path) (m.Path, m.StageResult) {
	outputDir := r.cfg.OutputDir(version)

	if err := r.recreateOutputDir(outputDir); err != nil {
		slog.Error("failed to recreate output dir", "dir", outputDir, "error", err)
		return outputDir, m.FailedStage(m.StageBuild, err)
	}

	container := r.cfg.ContainerName(version)

	// Removal must stay after the extraction attempt, never before, and is
	// best-effort: the engine may report "no such container".
	defer func() {
		if err := r.engine.RemoveContainer(ctx, container); err != nil {
			slog.Debug("container removal reported an error", "container", container, "error", err)
		}
	}()

	spec := adapter.RunSpec{
		Name:        container,
		Image:       image,
		MountSource: snapshot,
		MountTarget: r.cfg.MountTarget,
		Command:     compileCommand,
	}

	slog.Info("running build instance", "container", container, "image", image)

	if err := r.engine.RunContainer(ctx, spec); err != nil {
		slog.Error("compilation run failed", "container", container, "version", version.ID, "error", err)
		return outputDir, m.FailedStage(m.StageBuild, fmt.Errorf("compile in %s: %w", container, err))
	}

	if err := r.engine.CopyFromContainer(ctx, container, r.cfg.MountTarget, outputDir); err != nil {
		slog.Error("artifact extraction failed", "container", container, "version", version.ID, "error", err)
		return outputDir, m.FailedStage(m.StageBuild, fmt.Errorf("extract artifacts from %s: %w", container, err))
	}

	return outputDir, m.OKStage(m.StageBuild)
}

func (r *buildRunner) recreateOutputDir(dir m.Path) error {
	if err := r.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear output dir: %w", err)
	}

	if err := r.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	return nil
}
