package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

// SimpleUI implements UI using cobra Command's Printf.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// StartVersion prints a per-version banner.
func (s *SimpleUI) StartVersion(version m.VersionDescriptor) {
	s.cmd.Printf("\n==> Python %s (%s)\n", version.ID, version.BaseImage)
}

// VersionCompleted prints the version's result line.
func (s *SimpleUI) VersionCompleted(outcome m.VersionOutcome) {
	if outcome.Succeeded() {
		s.cmd.Printf("Python %s compiled, artifacts in %s\n", outcome.Version.ID, outcome.OutputDir)
		return
	}

	if failed := outcome.FailedStage(); failed != nil {
		s.cmd.Printf("Python %s failed at %s: %s\n", outcome.Version.ID, failed.Stage, failed.Detail)
		return
	}

	s.cmd.Printf("Python %s failed: no stage was attempted\n", outcome.Version.ID)
}

// DisplaySummary renders the final per-version table.
func (s *SimpleUI) DisplaySummary(summary m.RunSummary) error {
	s.cmd.Printf("\n%s", renderSummaryTable(summary))
	s.cmd.Println("Compilation complete. Check the version-specific directories for bytecode files.")

	return nil
}

func renderSummaryTable(summary m.RunSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Version", "Result", "Output"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, outcome := range summary.Outcomes {
		result := "ok"
		output := string(outcome.OutputDir)

		if failed := outcome.FailedStage(); failed != nil {
			result = fmt.Sprintf("failed (%s)", failed.Stage)
		}

		table.Append([]string{outcome.Version.ID, result, output})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Versions %d", len(summary.Outcomes)),
		fmt.Sprintf("%d failed", summary.Failures()),
		"",
	})

	table.Render()

	return tableBuffer.String()
}
