package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

func TestRunReportStore_SaveAndLoad(t *testing.T) {
	store := NewRunReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	summary := m.RunSummary{
		SourceDir: "/work/project",
		StartedAt: time.Date(2024, 11, 5, 10, 0, 0, 0, time.UTC),
		Outcomes: []m.VersionOutcome{
			{
				Version:   m.VersionDescriptor{ID: "2.7", BaseImage: "python:2.7-slim", LegacySyntax: true},
				Stages:    []m.StageResult{m.OKStage(m.StageSnapshot), m.FailedStage(m.StageProvision, os.ErrPermission)},
				OutputDir: "/work/project/python2.7libs",
			},
			{
				Version: m.VersionDescriptor{ID: "3.11", BaseImage: "python:3.11-slim"},
				Stages: []m.StageResult{
					m.OKStage(m.StageSnapshot),
					m.OKStage(m.StageProvision),
					m.OKStage(m.StageBuild),
					m.OKStage(m.StageOrganize),
				},
				OutputDir: "/work/project/python3.11libs",
			},
		},
	}

	require.NoError(t, store.SaveSummary(dir, summary))

	loaded, err := store.LoadSummary(dir)
	require.NoError(t, err)

	assert.Equal(t, summary.SourceDir, loaded.SourceDir)
	assert.Equal(t, summary.Outcomes, loaded.Outcomes)
	assert.Equal(t, 1, loaded.Failures())
}

func TestRunReportStore_LoadMissing(t *testing.T) {
	store := NewRunReportStore()

	_, err := store.LoadSummary(m.Path(t.TempDir()))
	require.Error(t, err)
}
