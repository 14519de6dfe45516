package domain

import (
	"context"
	"fmt"
	"log/slog"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// ImageProvisioner ensures a build-environment image exists for a version,
// building it on demand from a minimal generated recipe. Images are created
// at most once per version per host and never deleted by this system.
type ImageProvisioner interface {
	// EnsureImage returns the deterministic image name for the version,
	// building the image first when the engine store has no match.
	EnsureImage(ctx context.Context, version m.VersionDescriptor) (string, error)
}

type provisioner struct {
	cfg    Config
	fs     adapter.SourceFSAdapter
	engine adapter.ContainerEngine
}

// NewImageProvisioner constructs an ImageProvisioner backed by the given
// container engine.
func NewImageProvisioner(cfg Config, fs adapter.SourceFSAdapter, engine adapter.ContainerEngine) ImageProvisioner {
	return &provisioner{cfg: cfg, fs: fs, engine: engine}
}

func (p *provisioner) EnsureImage(ctx context.Context, version m.VersionDescriptor) (string, error) {
	name := p.cfg.ImageName(version)

	exists, err := p.engine.ImageExists(ctx, name)
	if err != nil {
		return "", fmt.Errorf("check image %s: %w", name, err)
	}

	if exists {
		slog.Info("image already exists, skipping build", "image", name)
		return name, nil
	}

	if err := p.buildImage(ctx, version, name); err != nil {
		return "", err
	}

	slog.Info("built image", "image", name, "base", version.BaseImage)

	return name, nil
}

// buildImage writes the recipe, runs the engine build, and removes the
// recipe again whatever the build outcome.
func (p *provisioner) buildImage(ctx context.Context, version m.VersionDescriptor, name string) error {
	recipe := p.cfg.RecipePath(version)
	content := fmt.Sprintf("FROM %s\nWORKDIR /app\nRUN mkdir /app/src\n", version.BaseImage)

	if err := p.fs.WriteFile(recipe, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write build recipe %s: %w", recipe, err)
	}

	defer func() {
		if err := p.fs.Remove(recipe); err != nil {
			slog.Warn("failed to remove build recipe", "recipe", recipe, "error", err)
		}
	}()

	if err := p.engine.BuildImage(ctx, recipe, name, p.cfg.SourceDir); err != nil {
		return fmt.Errorf("build image %s for %s: %w", name, version.ID, err)
	}

	return nil
}
