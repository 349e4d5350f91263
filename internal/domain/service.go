package domain

import (
	"context"
	"log/slog"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// SelectLintersFunc is the pre-run selection hook. It receives the
// registered candidates for the stage and may inject, drop or reorder
// linters before any of them runs.
type SelectLintersFunc func(stage m.Stage, lintCtx *m.LintContext, candidates []Factory) []Factory

// FilterIssueFunc is the post-run filtering hook, applied after user
// suppression rules. Returning false drops the issue.
type FilterIssueFunc func(linter Linter, issue m.LinterIssue, lintCtx *m.LintContext) bool

// IgnoreLoaderFunc loads project-level suppression rules relative to the
// project directory.
type IgnoreLoaderFunc func(projectDir m.Path) (m.IgnoreConfig, error)

// LinterService runs registered linters for a stage, filters their issues
// through the loaded suppression config and both hooks, and aggregates what
// survives. It is not safe for concurrent Run calls on one instance.
type LinterService struct {
	registry      *Registry
	selectLinters SelectLintersFunc
	filterIssue   FilterIssueFunc
	loadIgnores   IgnoreLoaderFunc

	ignoreCfg      m.IgnoreConfig
	issues         []m.LinterIssue
	issuesByLinter map[string][]m.LinterIssue
	linterOrder    []string
}

// Option configures a LinterService.
type Option func(*LinterService)

// WithRegistry points the service at a registry other than DefaultRegistry.
func WithRegistry(registry *Registry) Option {
	return func(s *LinterService) {
		s.registry = registry
	}
}

// WithSelectLinters installs the pre-run selection hook.
func WithSelectLinters(hook SelectLintersFunc) Option {
	return func(s *LinterService) {
		s.selectLinters = hook
	}
}

// WithFilterIssue installs the post-run filtering hook.
func WithFilterIssue(hook FilterIssueFunc) Option {
	return func(s *LinterService) {
		s.filterIssue = hook
	}
}

// WithIgnoreLoader installs the loader for project-level suppression rules.
func WithIgnoreLoader(loader IgnoreLoaderFunc) Option {
	return func(s *LinterService) {
		s.loadIgnores = loader
	}
}

// NewLinterService builds an engine with identity hooks, no project-level
// ignore loader and the default registry.
func NewLinterService(options ...Option) *LinterService {
	s := &LinterService{
		registry: DefaultRegistry,
		selectLinters: func(_ m.Stage, _ *m.LintContext, candidates []Factory) []Factory {
			return candidates
		},
		filterIssue: func(_ Linter, _ m.LinterIssue, _ *m.LintContext) bool {
			return true
		},
		ignoreCfg:      make(m.IgnoreConfig),
		issuesByLinter: make(map[string][]m.LinterIssue),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// LoadIgnoreConfig computes and caches the effective suppression config:
// project-level rules first (when a loader is configured), then CLI rules
// layered on top. It must be called before Run to take effect; without it
// nothing is ignored.
func (s *LinterService) LoadIgnoreConfig(projectDir m.Path, cliIgnores m.IgnoreConfig) (m.IgnoreConfig, error) {
	cfg := make(m.IgnoreConfig)

	if s.loadIgnores != nil {
		fileCfg, err := s.loadIgnores(projectDir)
		if err != nil {
			return nil, err
		}

		m.MergeIgnoreConfig(cfg, fileCfg)
	}

	m.MergeIgnoreConfig(cfg, cliIgnores)

	s.ignoreCfg = cfg

	return cfg, nil
}

// Run executes the selected linters for the stage, strictly one after
// another in selection order, and streams surviving issues as they are
// produced. Both channels are closed when the run finishes; a linter
// failure stops the run immediately and is delivered unwrapped on the
// error channel. Results are readable from Issues, IssuesByLinter and
// Summary once the issue channel has been drained.
func (s *LinterService) Run(ctx context.Context, stage m.Stage, lintCtx *m.LintContext) (<-chan m.LinterIssue, <-chan error) {
	issueCh := make(chan m.LinterIssue)
	errCh := make(chan error, 1)

	s.issues = nil
	s.issuesByLinter = make(map[string][]m.LinterIssue)
	s.linterOrder = nil

	go func() {
		defer close(issueCh)
		defer close(errCh)

		selected := s.selectLinters(stage, lintCtx, s.registry.ForStage(stage))

		for _, factory := range selected {
			linter := factory()

			slog.Debug("running linter", "name", linter.Name(), "stage", stage)

			if err := linter.Run(ctx, lintCtx, s.emitFunc(ctx, linter, lintCtx, issueCh)); err != nil {
				errCh <- err
				return
			}
		}
	}()

	return issueCh, errCh
}

func (s *LinterService) emitFunc(ctx context.Context, linter Linter, lintCtx *m.LintContext, issueCh chan<- m.LinterIssue) EmitFunc {
	return func(issue m.LinterIssue) error {
		if m.ShouldIgnore(linter.Name(), issue, s.ignoreCfg) {
			slog.Debug("issue suppressed", "linter", linter.Name(), "id", issue.ID, "filename", issue.Filename)
			return nil
		}

		if !s.filterIssue(linter, issue, lintCtx) {
			return nil
		}

		s.aggregate(linter.Name(), issue)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case issueCh <- issue:
			return nil
		}
	}
}

func (s *LinterService) aggregate(linterName string, issue m.LinterIssue) {
	s.issues = append(s.issues, issue)

	if _, ok := s.issuesByLinter[linterName]; !ok {
		s.linterOrder = append(s.linterOrder, linterName)
	}

	s.issuesByLinter[linterName] = append(s.issuesByLinter[linterName], issue)
}

// Issues returns a copy of the issues aggregated by the most recent run.
func (s *LinterService) Issues() []m.LinterIssue {
	return append([]m.LinterIssue(nil), s.issues...)
}

// IssuesByLinter returns the aggregated issues grouped by linter name.
func (s *LinterService) IssuesByLinter() map[string][]m.LinterIssue {
	grouped := make(map[string][]m.LinterIssue, len(s.issuesByLinter))
	for name, issues := range s.issuesByLinter {
		grouped[name] = append([]m.LinterIssue(nil), issues...)
	}

	return grouped
}

// LinterOrder returns the names of linters that reported issues, in run
// order.
func (s *LinterService) LinterOrder() []string {
	return append([]string(nil), s.linterOrder...)
}

// HighestSeverity returns the maximum severity among aggregated issues.
// The second return value is false when the run produced no issues.
func (s *LinterService) HighestSeverity() (m.Severity, bool) {
	return m.HighestSeverity(s.issues)
}

// Summary maps the most recent run to an exit status. Only error-level
// issues fail the run; warnings alone leave the exit status at OK.
func (s *LinterService) Summary() m.ExitCode {
	if highest, ok := s.HighestSeverity(); ok && highest == m.SeverityError {
		return m.ExitError
	}

	return m.ExitOK
}
