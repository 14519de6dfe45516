package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

// SourceSnapshotter builds the immutable per-run copy of source files a
// build instance compiles from. Each invocation destroys and recreates the
// snapshot, so no state leaks between versions.
type SourceSnapshotter interface {
	// Prepare produces a clean snapshot for the given version and returns
	// its directory. When the version's runtime cannot execute modern
	// syntax, every copied file is rewritten before returning.
	Prepare(ctx context.Context, version m.VersionDescriptor) (m.Path, error)
}

type snapshotter struct {
	cfg      Config
	fs       adapter.SourceFSAdapter
	rewriter LegacySyntaxRewriter
}

// NewSourceSnapshotter constructs a SourceSnapshotter for the run's source
// tree.
func NewSourceSnapshotter(cfg Config, fs adapter.SourceFSAdapter, rewriter LegacySyntaxRewriter) SourceSnapshotter {
	return &snapshotter{cfg: cfg, fs: fs, rewriter: rewriter}
}

// Prepare wipes and repopulates the snapshot directory with every top-level
// source file of the source tree.
func (s *snapshotter) Prepare(ctx context.Context, version m.VersionDescriptor) (m.Path, error) {
	if _, err := s.fs.FileInfo(s.cfg.SourceDir); err != nil {
		return "", fmt.Errorf("source tree unavailable: %w", err)
	}

	snapshotDir := s.cfg.SnapshotDir()

	if err := s.fs.RemoveAll(snapshotDir); err != nil {
		return "", fmt.Errorf("clear snapshot dir: %w", err)
	}

	if err := s.fs.MkdirAll(snapshotDir, 0o750); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	err := s.fs.Walk(s.cfg.SourceDir, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, DefaultSourceExt) {
			return nil
		}

		target := s.fs.JoinPath(string(snapshotDir), filepath.Base(path))
		if err := s.fs.CopyFile(m.Path(path), target, info.Mode()); err != nil {
			return fmt.Errorf("copy %s into snapshot: %w", path, err)
		}

		if version.LegacySyntax {
			return s.rewriter.RewriteFile(ctx, target)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("populate snapshot for %s: %w", version.ID, err)
	}

	slog.Info("prepared snapshot", "dir", snapshotDir, "version", version.ID)

	return snapshotDir, nil
}
