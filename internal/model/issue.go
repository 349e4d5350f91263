package model

// Stage selects which tree a lint run inspects.
type Stage string

const (
	// StagePre lints the unbuilt source tree.
	StagePre Stage = "pre"
	// StagePost lints an unpacked build artifact.
	StagePost Stage = "post"
)

// Valid reports whether the stage is one of the known values.
func (s Stage) Valid() bool {
	return s == StagePre || s == StagePost
}

// Severity is the level of a linter issue, ordered INFO < WARNING < ERROR.
type Severity int

const (
	// SeverityInfo marks purely informational issues.
	SeverityInfo Severity = iota + 1
	// SeverityWarning marks issues worth fixing that do not fail a run.
	SeverityWarning
	// SeverityError marks issues that fail the run.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}

	return "UNKNOWN"
}

// ExitCode summarises a lint run for the calling process.
type ExitCode int

const (
	// ExitOK means no issues, or nothing above warning level.
	ExitOK ExitCode = 0
	// ExitWarn is reserved for policies that fail on warnings.
	ExitWarn ExitCode = 1
	// ExitError means at least one error-level issue surfaced.
	ExitError ExitCode = 2
)

// LinterIssue is a single issue reported by a linter.
//
// ID is a short stable code unique within the linter's namespace (e.g.
// "TC001"). Filename may be empty when the issue is not file-specific.
type LinterIssue struct {
	ID       string
	Message  string
	Severity Severity
	Filename string
	URL      string
}

// HighestSeverity returns the maximum severity in issues. The second return
// value is false when issues is empty.
func HighestSeverity(issues []LinterIssue) (Severity, bool) {
	var (
		highest Severity
		found   bool
	)

	for _, issue := range issues {
		if !found || issue.Severity > highest {
			highest = issue.Severity
			found = true
		}
	}

	return highest, found
}
