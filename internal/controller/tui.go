package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	linterStyle = lipgloss.NewStyle().Bold(true)
)

// TUI renders lint results in an interactive pager. Linter tables and
// summaries fall back to plain printing.
type TUI struct {
	*SimpleUI
}

// NewTUI creates a TUI bound to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd, true)}
}

// DisplayIssues shows issues in a scrollable browser. Short result sets
// are printed directly without entering the alternate screen.
func (t *TUI) DisplayIssues(ctx context.Context, order []string, grouped map[string][]m.LinterIssue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(order) == 0 {
		return nil
	}

	lines := buildIssueLines(order, grouped)

	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		height = 0
	}

	// Everything fits on screen, no need for a pager.
	if height == 0 || len(lines)+2 < height {
		return t.SimpleUI.DisplayIssues(ctx, order, grouped)
	}

	browser := newIssueBrowser(lines)

	program := tea.NewProgram(browser, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("issue browser failed: %w", err)
	}

	return nil
}

func buildIssueLines(order []string, grouped map[string][]m.LinterIssue) []string {
	var lines []string

	for _, linterName := range order {
		lines = append(lines, linterStyle.Render(linterName+":"))

		for _, issue := range grouped[linterName] {
			lines = append(lines, "  - "+FormatIssue(issue, true))
		}
	}

	return lines
}

type browserKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Quit}}
}

var browserKeys = browserKeyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type issueBrowser struct {
	viewport viewport.Model
	help     help.Model
	content  string
	ready    bool
}

func newIssueBrowser(lines []string) *issueBrowser {
	return &issueBrowser{
		help:    help.New(),
		content: strings.Join(lines, "\n"),
	}
}

// Init implements tea.Model.
func (b *issueBrowser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *issueBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, browserKeys.Quit) {
			return b, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(b.headerView())
		footerHeight := lipgloss.Height(b.footerView())

		if !b.ready {
			b.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			b.viewport.SetContent(b.content)
			b.ready = true
		} else {
			b.viewport.Width = msg.Width
			b.viewport.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	b.viewport, cmd = b.viewport.Update(msg)

	return b, cmd
}

// View implements tea.Model.
func (b *issueBrowser) View() string {
	if !b.ready {
		return "loading results..."
	}

	return fmt.Sprintf("%s\n%s\n%s", b.headerView(), b.viewport.View(), b.footerView())
}

func (b *issueBrowser) headerView() string {
	return titleStyle.Render("lint results")
}

func (b *issueBrowser) footerView() string {
	return b.help.View(browserKeys)
}
