package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// RewriteTool drives the external structural-downgrade engine that applies
// legacy-compatibility fixers (print-statement form, iterator protocol
// differences) to one file at a time.
type RewriteTool interface {
	// EnsureInstalled checks that the engine is available on the host and
	// installs it on demand when missing.
	EnsureInstalled(ctx context.Context) error

	// RewriteInPlace mutates the file at path on disk into its legacy-
	// compatible form.
	RewriteInPlace(ctx context.Context, path m.Path) error
}

// ThreeToTwoTool wraps the 3to2 fixer suite, invoked as an external process
// with its write-in-place flag.
type ThreeToTwoTool struct {
	runner ProcessRunner
	python string
	binary string
}

// NewThreeToTwoTool constructs a ThreeToTwoTool. Empty binaries default to
// "python3" for the installer probe and "3to2" for the fixer itself.
func NewThreeToTwoTool(runner ProcessRunner, python, binary string) *ThreeToTwoTool {
	if python == "" {
		python = "python3"
	}

	if binary == "" {
		binary = "3to2"
	}

	return &ThreeToTwoTool{runner: runner, python: python, binary: binary}
}

// EnsureInstalled probes for the lib3to2 package and installs it via pip
// when the import fails.
func (t *ThreeToTwoTool) EnsureInstalled(ctx context.Context) error {
	if _, err := t.runner.Run(ctx, t.python, "-c", "import lib3to2"); err == nil {
		slog.Debug("3to2 already installed")
		return nil
	}

	slog.Info("3to2 not found, installing", "python", t.python)

	out, err := t.runner.Run(ctx, t.python, "-m", "pip", "install", "3to2")
	if err != nil {
		return fmt.Errorf("install 3to2: %w: %s", err, strings.TrimSpace(out))
	}

	return nil
}

// RewriteInPlace runs the fixer suite against a single file, writing the
// result back to the same path.
func (t *ThreeToTwoTool) RewriteInPlace(ctx context.Context, path m.Path) error {
	out, err := t.runner.Run(ctx, t.binary, "-w", string(path))
	if err != nil {
		return fmt.Errorf("rewrite %s with %s: %w: %s", path, t.binary, err, strings.TrimSpace(out))
	}

	return nil
}
