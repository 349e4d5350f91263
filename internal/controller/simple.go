package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// SimpleUI prints lint results through the cobra command's output stream.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool
}

// NewSimpleUI creates a SimpleUI. Severity tokens are colorized only when
// styled is true.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, styled: styled}
}

// DisplayIssues prints issues grouped by linter name.
func (s *SimpleUI) DisplayIssues(ctx context.Context, order []string, grouped map[string][]m.LinterIssue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(order) == 0 {
		return nil
	}

	s.cmd.Println("lint results:")

	for _, linterName := range order {
		s.cmd.Printf("%s:\n", linterName)

		for _, issue := range grouped[linterName] {
			s.cmd.Printf("  - %s\n", s.formatIssue(issue))
		}
	}

	return nil
}

func (s *SimpleUI) formatIssue(issue m.LinterIssue) string {
	return FormatIssue(issue, s.styled)
}

// FormatIssue renders one issue as "[SEVERITY] id: message (filename)".
func FormatIssue(issue m.LinterIssue, styled bool) string {
	severity := issue.Severity.String()
	if styled {
		severity = severityStyle(issue.Severity).Render(severity)
	}

	location := ""
	if issue.Filename != "" {
		location = fmt.Sprintf(" (%s)", issue.Filename)
	}

	return fmt.Sprintf("[%s] %s: %s%s", severity, issue.ID, issue.Message, location)
}

func severityStyle(severity m.Severity) lipgloss.Style {
	switch severity {
	case m.SeverityError:
		return errorStyle
	case m.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// DisplayLinters prints the registered linters as a table.
func (s *SimpleUI) DisplayLinters(ctx context.Context, rows []LinterRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Linter", "Stage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, row := range rows {
		table.Append([]string{row.Name, string(row.Stage)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total %d", len(rows)), ""})
	table.Render()

	s.cmd.Printf("\n%s", tableBuffer.String())

	return nil
}

// DisplaySummary prints the closing line for a lint run.
func (s *SimpleUI) DisplaySummary(ctx context.Context, label string, highest m.Severity, found bool) {
	if err := ctx.Err(); err != nil {
		return
	}

	switch {
	case !found:
		s.cmd.Printf("Linted %s successfully.\n", label)
	case highest == m.SeverityError:
		s.cmd.Printf("Errors found in %s\n", label)
	default:
		s.cmd.Printf("Possible issues found in %s\n", label)
	}
}
