// Package controller provides output adapters for displaying compilation
// progress and results.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// UI defines the interface for reporting pipeline progress. Implementations
// can use different output methods (simple text, TUI).
type UI interface {
	// StartVersion announces that a version's pipeline is beginning.
	StartVersion(version m.VersionDescriptor)

	// VersionCompleted reports one version's aggregated outcome.
	VersionCompleted(outcome m.VersionOutcome)

	// DisplaySummary renders the final per-version report.
	DisplaySummary(summary m.RunSummary) error
}

// NewUI selects the UI implementation: the TUI on interactive terminals,
// plain text otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
