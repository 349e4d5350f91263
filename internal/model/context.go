package model

// LintContext bundles the paths (and optional project model) a linter
// inspects during one run. It is built fresh per invocation and must not be
// mutated by linters.
type LintContext struct {
	// ProjectDir is the root of the source tree under inspection.
	ProjectDir Path

	// ArtifactDirs holds directories of unpacked build output. Populated
	// only for post-stage runs, possibly empty.
	ArtifactDirs []Path

	// Project is the parsed project model when it was available. Linters
	// must not require it.
	Project *Project
}
