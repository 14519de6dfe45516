package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pycforge.dev/pkg/pycforge/internal/adapter"
	m "pycforge.dev/pkg/pycforge/internal/model"
)

func newOrchestratorFixture(t *testing.T, versions []m.VersionDescriptor) (Config, *fakeEngine, *fakeRewriteTool, Orchestrator) {
	t.Helper()

	sourceDir := t.TempDir()
	writePy(t, sourceDir, "a.py", "x = 1\n")

	cfg := NewConfig(m.Path(sourceDir), versions)
	engine := newFakeEngine()
	engine.exists = true
	tool := &fakeRewriteTool{}

	orch := NewOrchestrator(cfg, adapter.NewLocalSourceFSAdapter(), engine, tool, nopUI{})

	return cfg, engine, tool, orch
}

func TestOrchestrator_FailedVersionDoesNotStopOthers(t *testing.T) {
	versions := []m.VersionDescriptor{
		{ID: "3.9", BaseImage: "python:3.9-slim"},
		{ID: "3.11", BaseImage: "python:3.11-slim"},
	}

	cfg, engine, _, orch := newOrchestratorFixture(t, versions)
	engine.failOn["run pycompiler_container_39"] = errors.New("exit status 1")

	summary, err := orch.CompileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)

	assert.False(t, summary.Outcomes[0].Succeeded())
	assert.Equal(t, m.StageBuild, summary.Outcomes[0].FailedStage().Stage)
	assert.True(t, summary.Outcomes[1].Succeeded())
	assert.Equal(t, 1, summary.Failures())

	// The failed version's output directory is kept for inspection.
	_, statErr := os.Stat(string(cfg.OutputDir(versions[0])))
	assert.NoError(t, statErr)
}

func TestOrchestrator_CleansUpTransientState(t *testing.T) {
	versions := []m.VersionDescriptor{{ID: "3.11", BaseImage: "python:3.11-slim"}}
	cfg, _, _, orch := newOrchestratorFixture(t, versions)

	// Leftover local-tooling cache that final cleanup must remove.
	pycache := filepath.Join(string(cfg.SourceDir), "__pycache__")
	require.NoError(t, os.MkdirAll(pycache, 0o750))

	_, err := orch.CompileAll(context.Background())
	require.NoError(t, err)

	_, statErr := os.Stat(string(cfg.SnapshotDir()))
	assert.True(t, os.IsNotExist(statErr), "snapshot dir must be removed after the run")

	_, statErr = os.Stat(pycache)
	assert.True(t, os.IsNotExist(statErr), "compiler caches must be removed after the run")
}

func TestOrchestrator_InstallsRewriteEngineOnlyWhenNeeded(t *testing.T) {
	modern := []m.VersionDescriptor{{ID: "3.11", BaseImage: "python:3.11-slim"}}
	_, _, tool, orch := newOrchestratorFixture(t, modern)

	_, err := orch.CompileAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, tool.installCalls)

	legacy := []m.VersionDescriptor{{ID: "2.7", BaseImage: "python:2.7-slim", LegacySyntax: true}}
	_, _, tool, orch = newOrchestratorFixture(t, legacy)

	_, err = orch.CompileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tool.installCalls)
}

func TestOrchestrator_MissingRewriteEngineIsFatal(t *testing.T) {
	legacy := []m.VersionDescriptor{{ID: "2.7", BaseImage: "python:2.7-slim", LegacySyntax: true}}
	_, engine, tool, orch := newOrchestratorFixture(t, legacy)
	tool.installErr = errors.New("pip unreachable")

	_, err := orch.CompileAll(context.Background())
	require.Error(t, err)
	assert.Empty(t, engine.calls, "no version may be attempted without the rewrite engine")
}

func TestOrchestrator_VersionOrderPreserved(t *testing.T) {
	versions := []m.VersionDescriptor{
		{ID: "2.7", BaseImage: "python:2.7-slim", LegacySyntax: true},
		{ID: "3.7", BaseImage: "python:3.7-slim"},
		{ID: "3.11", BaseImage: "python:3.11-slim"},
	}

	_, _, _, orch := newOrchestratorFixture(t, versions)

	summary, err := orch.CompileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 3)

	for i, version := range versions {
		assert.Equal(t, version.ID, summary.Outcomes[i].Version.ID)
	}
}
