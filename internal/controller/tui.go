package controller

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "pycforge.dev/pkg/pycforge/internal/model"
)

const (
	// ANSI color codes for failure lines (red) and dim detail text.
	redColor   = "\033[31m"
	grayColor  = "\033[2;90m"
	resetColor = "\033[0m"

	summaryReservedLines = 6
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// StartVersion announces a version's pipeline.
func (t *TUI) StartVersion(version m.VersionDescriptor) {
	fmt.Fprintf(t.output, "\n⚙ Python %s (%s)\n", version.ID, version.BaseImage)
}

// VersionCompleted prints the version's result line.
func (t *TUI) VersionCompleted(outcome m.VersionOutcome) {
	if outcome.Succeeded() {
		fmt.Fprintf(t.output, "  ✓ artifacts in %s\n", outcome.OutputDir)
		return
	}

	if failed := outcome.FailedStage(); failed != nil {
		fmt.Fprintf(t.output, "  %s✗ failed at %s%s %s%s%s\n",
			redColor, failed.Stage, resetColor,
			grayColor, failed.Detail, resetColor)
		return
	}

	fmt.Fprintf(t.output, "  %s✗ no stage was attempted%s\n", redColor, resetColor)
}

// DisplaySummary shows the final report, paginated when it does not fit the
// terminal.
func (t *TUI) DisplaySummary(summary m.RunSummary) error {
	model := newSummaryModel(summary)

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	// Short reports are printed directly; a program is only worth it when
	// the user has to scroll.
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// summaryModel renders the run summary as a scrollable list of versions.
type summaryModel struct {
	summary m.RunSummary
	offset  int
	width   int
	height  int
}

func newSummaryModel(summary m.RunSummary) summaryModel {
	return summaryModel{summary: summary}
}

func (sm summaryModel) Init() tea.Cmd {
	return nil
}

func (sm summaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.width = msg.Width
		sm.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return sm, tea.Quit
		case "up", "k":
			if sm.offset > 0 {
				sm.offset--
			}
		case "down", "j":
			if sm.offset < len(sm.summary.Outcomes)-1 {
				sm.offset++
			}
		case "g":
			sm.offset = 0
		}
	}

	return sm, nil
}

func (sm summaryModel) View() string {
	var b strings.Builder

	b.WriteString("\n  Compilation summary\n\n")

	lines := sm.outcomeLines()
	if sm.needsPagination() {
		end := sm.offset + sm.itemsPerPage()
		if end > len(lines) {
			end = len(lines)
		}

		lines = lines[sm.offset:end]
	}

	for _, line := range lines {
		fmt.Fprintf(&b, "%s\n", line)
	}

	fmt.Fprintf(&b, "\n  %d version(s), %d failed\n", len(sm.summary.Outcomes), sm.summary.Failures())

	if sm.needsPagination() {
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | q: quit\n")
	}

	return b.String()
}

func (sm summaryModel) outcomeLines() []string {
	lines := make([]string, 0, len(sm.summary.Outcomes))

	for _, outcome := range sm.summary.Outcomes {
		if outcome.Succeeded() {
			lines = append(lines, fmt.Sprintf("  ✓ %-6s %s", outcome.Version.ID, outcome.OutputDir))
			continue
		}

		if failed := outcome.FailedStage(); failed != nil {
			lines = append(lines, fmt.Sprintf("  %s✗ %-6s %s: %s%s",
				redColor, outcome.Version.ID, failed.Stage, failed.Detail, resetColor))
			continue
		}

		lines = append(lines, fmt.Sprintf("  %s✗ %-6s no stage was attempted%s",
			redColor, outcome.Version.ID, resetColor))
	}

	return lines
}

func (sm summaryModel) itemsPerPage() int {
	available := sm.height - summaryReservedLines
	if available < 1 {
		return 1
	}

	return available
}

func (sm summaryModel) needsPagination() bool {
	return sm.height > 0 && len(sm.summary.Outcomes) > sm.itemsPerPage()
}
