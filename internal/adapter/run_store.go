package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// runReportFileName is the file a run's summary is written to inside the
// reports directory.
const runReportFileName = "run.yaml"

// RunReportStore persists the per-run summary so results remain inspectable
// after the process exits.
type RunReportStore interface {
	SaveSummary(dir m.Path, summary m.RunSummary) error
	LoadSummary(dir m.Path) (m.RunSummary, error)
}

type runReportStore struct{}

// NewRunReportStore constructs a filesystem-backed RunReportStore.
func NewRunReportStore() RunReportStore {
	return &runReportStore{}
}

// SaveSummary writes the summary as YAML, creating the reports directory
// when missing.
func (s *runReportStore) SaveSummary(dir m.Path, summary m.RunSummary) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}

	path := filepath.Join(string(dir), runReportFileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}

	return nil
}

// LoadSummary reads back the last saved summary.
func (s *runReportStore) LoadSummary(dir m.Path) (m.RunSummary, error) {
	path := filepath.Join(string(dir), runReportFileName)

	data, err := os.ReadFile(path) // #nosec G304 - reports dir comes from config
	if err != nil {
		return m.RunSummary{}, fmt.Errorf("read run summary: %w", err)
	}

	var summary m.RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return m.RunSummary{}, fmt.Errorf("unmarshal run summary: %w", err)
	}

	return summary, nil
}
