package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeverityInfo < SeverityWarning)
	assert.True(t, SeverityWarning < SeverityError)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "INFO", SeverityInfo.String())
	assert.Equal(t, "WARNING", SeverityWarning.String())
	assert.Equal(t, "ERROR", SeverityError.String())
}

func TestStageValid(t *testing.T) {
	assert.True(t, StagePre.Valid())
	assert.True(t, StagePost.Valid())
	assert.False(t, Stage("").Valid())
	assert.False(t, Stage("mid").Valid())
}

func TestHighestSeverity(t *testing.T) {
	issues := []LinterIssue{
		{ID: "A", Severity: SeverityWarning},
		{ID: "B", Severity: SeverityInfo},
		{ID: "C", Severity: SeverityWarning},
	}

	highest, found := HighestSeverity(issues)
	assert.True(t, found)
	assert.Equal(t, SeverityWarning, highest)
}

func TestHighestSeverity_Empty(t *testing.T) {
	_, found := HighestSeverity(nil)
	assert.False(t, found)
}

func TestHighestSeverity_ErrorWins(t *testing.T) {
	issues := []LinterIssue{
		{ID: "A", Severity: SeverityError},
		{ID: "B", Severity: SeverityInfo},
	}

	highest, found := HighestSeverity(issues)
	assert.True(t, found)
	assert.Equal(t, SeverityError, highest)
}
