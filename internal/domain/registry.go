package domain

import (
	"fmt"
	"log/slog"
	"sync"

	m "testcraft.dev/pkg/testcraft/internal/model"
)

// Factory constructs a fresh linter instance for one run.
type Factory func() Linter

// Registry holds the known linter factories, partitioned by stage. It
// lives for the whole process; tests that register linters must snapshot
// and restore it to avoid leaking state between cases.
type Registry struct {
	mu      sync.Mutex
	byStage map[m.Stage][]Factory
}

// DefaultRegistry is the process-wide registry shared by every engine
// instance unless one is built with WithRegistry.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byStage: make(map[m.Stage][]Factory)}
}

// Register validates the factory's probe instance and appends the factory
// to the list for its declared stage. Registering the same factory twice is
// not deduplicated; the linter will simply run twice.
func (r *Registry) Register(factory Factory) error {
	if factory == nil {
		return fmt.Errorf("register linter: nil factory")
	}

	probe := factory()
	if probe == nil {
		return fmt.Errorf("register linter: factory returned nil")
	}

	name := probe.Name()
	stage := probe.Stage()

	if name == "" || !stage.Valid() {
		return fmt.Errorf("register linter %T: missing or invalid name or stage", probe)
	}

	slog.Debug("registering linter", "name", name, "stage", stage)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byStage[stage] = append(r.byStage[stage], factory)

	return nil
}

// ForStage returns a copy of the factory list for the stage, in
// registration order.
func (r *Registry) ForStage(stage m.Stage) []Factory {
	r.mu.Lock()
	defer r.mu.Unlock()

	factories := make([]Factory, len(r.byStage[stage]))
	copy(factories, r.byStage[stage])

	return factories
}

// Snapshot captures the current registry contents.
func (r *Registry) Snapshot() map[m.Stage][]Factory {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[m.Stage][]Factory, len(r.byStage))
	for stage, factories := range r.byStage {
		snap[stage] = append([]Factory(nil), factories...)
	}

	return snap
}

// Restore replaces the registry contents with a previously captured
// snapshot.
func (r *Registry) Restore(snap map[m.Stage][]Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byStage = make(map[m.Stage][]Factory, len(snap))
	for stage, factories := range snap {
		r.byStage[stage] = append([]Factory(nil), factories...)
	}
}
