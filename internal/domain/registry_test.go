package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// fakeLinter is a configurable linter used across the domain tests.
type fakeLinter struct {
	name   string
	stage  m.Stage
	issues []m.LinterIssue
	err    error
}

func (l *fakeLinter) Name() string   { return l.name }
func (l *fakeLinter) Stage() m.Stage { return l.stage }

func (l *fakeLinter) Run(_ context.Context, _ *m.LintContext, emit EmitFunc) error {
	for _, issue := range l.issues {
		if err := emit(issue); err != nil {
			return err
		}
	}

	return l.err
}

func fakeFactory(l *fakeLinter) Factory {
	return func() Linter { return l }
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(fakeFactory(&fakeLinter{name: "dummy.pre", stage: m.StagePre}))
	require.NoError(t, err)

	factories := registry.ForStage(m.StagePre)
	require.Len(t, factories, 1)
	assert.Equal(t, "dummy.pre", factories[0]().Name())
	assert.Empty(t, registry.ForStage(m.StagePost))
}

func TestRegistry_RegisterInvalid(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(func() Linter { return nil }))
	assert.Error(t, registry.Register(fakeFactory(&fakeLinter{name: "", stage: m.StagePre})))
	assert.Error(t, registry.Register(fakeFactory(&fakeLinter{name: "dummy", stage: m.Stage("nope")})))

	assert.Empty(t, registry.ForStage(m.StagePre))
	assert.Empty(t, registry.ForStage(m.StagePost))
}

func TestRegistry_DuplicateRegistrationNotDeduplicated(t *testing.T) {
	registry := NewRegistry()
	factory := fakeFactory(&fakeLinter{name: "dummy.pre", stage: m.StagePre})

	require.NoError(t, registry.Register(factory))
	require.NoError(t, registry.Register(factory))

	assert.Len(t, registry.ForStage(m.StagePre), 2)
}

func TestRegistry_SnapshotRestore(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(fakeFactory(&fakeLinter{name: "keep.pre", stage: m.StagePre})))

	snapshot := registry.Snapshot()

	require.NoError(t, registry.Register(fakeFactory(&fakeLinter{name: "extra.pre", stage: m.StagePre})))
	require.NoError(t, registry.Register(fakeFactory(&fakeLinter{name: "extra.post", stage: m.StagePost})))
	require.Len(t, registry.ForStage(m.StagePre), 2)

	registry.Restore(snapshot)

	factories := registry.ForStage(m.StagePre)
	require.Len(t, factories, 1)
	assert.Equal(t, "keep.pre", factories[0]().Name())
	assert.Empty(t, registry.ForStage(m.StagePost))
}

func TestRegistry_SnapshotIsIsolated(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(fakeFactory(&fakeLinter{name: "keep.pre", stage: m.StagePre})))

	snapshot := registry.Snapshot()

	// Registering after the snapshot must not alter the captured lists.
	require.NoError(t, registry.Register(fakeFactory(&fakeLinter{name: "extra.pre", stage: m.StagePre})))

	assert.Len(t, snapshot[m.StagePre], 1)
}
