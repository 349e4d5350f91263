// Package domain contains the linter registry, suppression handling and
// the run engine.
package domain

import (
	"context"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// EmitFunc receives one issue from a running linter. It returns an error
// when the consumer cannot accept further issues (e.g. the run was
// cancelled); the linter must stop and return that error unchanged.
type EmitFunc func(m.LinterIssue) error

// Linter is the capability every concrete linter exposes.
//
// Name is the stable identifier used as the suppression-config key and for
// grouping issues in reports. Run pushes issues through emit one at a time,
// so a linter can stream without materialising a full collection. Run may
// read the filesystem under the context's directories but must not mutate
// the context itself. A non-nil error aborts the whole lint pass.
type Linter interface {
	Name() string
	Stage() m.Stage
	Run(ctx context.Context, lintCtx *m.LintContext, emit EmitFunc) error
}
