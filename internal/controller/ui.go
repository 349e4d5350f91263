// Package controller provides output adapters for displaying lint results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// LinterRow describes one registered linter for the list view.
type LinterRow struct {
	Name  string
	Stage m.Stage
}

// UI renders lint results. Implementations can use different output
// methods (plain text, TUI).
type UI interface {
	// DisplayIssues renders issues grouped by linter, in run order.
	DisplayIssues(ctx context.Context, order []string, grouped map[string][]m.LinterIssue) error

	// DisplayLinters renders the table of registered linters.
	DisplayLinters(ctx context.Context, rows []LinterRow) error

	// DisplaySummary prints the closing line for a lint run.
	DisplaySummary(ctx context.Context, label string, highest m.Severity, found bool)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI picks an interactive browser when requested on a terminal, and a
// plain printer otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive && IsTTY(os.Stdout) {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd, IsTTY(os.Stdout))
}
