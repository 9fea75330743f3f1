package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityOrdering(t *testing.T) {
	assert.True(t, PriorityCritical.Rank() > PriorityHigh.Rank())
	assert.True(t, PriorityHigh.Rank() > PriorityMedium.Rank())
	assert.True(t, PriorityMedium.Rank() > PriorityLow.Rank())
	assert.Equal(t, -1, Priority("urgent").Rank())

	assert.True(t, PriorityLow.Valid())
	assert.False(t, Priority("").Valid())
}

func TestMaxPriority(t *testing.T) {
	assert.Equal(t, PriorityCritical, MaxPriority(PriorityLow, PriorityCritical, PriorityMedium))
	assert.Equal(t, PriorityLow, MaxPriority())
	assert.Equal(t, PriorityLow, MaxPriority(Priority("bogus")))
}

func TestNewTechnologyRecord(t *testing.T) {
	rec := NewTechnologyRecord("react", "18.2.0")

	assert.Equal(t, "TechnologyRecord", rec.ObjType)
	assert.False(t, rec.AddedAt.IsZero())
	require.NotNil(t, rec.VersionMajor)
	assert.Equal(t, 18, *rec.VersionMajor)
	require.NotNil(t, rec.VersionMinor)
	assert.Equal(t, 2, *rec.VersionMinor)
	require.NotNil(t, rec.VersionPatch)
	assert.Equal(t, 0, *rec.VersionPatch)
}

func TestParseAndSetVersionBranchPrefix(t *testing.T) {
	rec := &TechnologyRecord{CurrentVersion: "main-v12.0.1376-g7ac6f3"}
	rec.ParseAndSetVersion()

	require.NotNil(t, rec.VersionMajor)
	assert.Equal(t, 12, *rec.VersionMajor)
}

func TestRecountAndScore(t *testing.T) {
	report := &VulnerabilityReport{Entries: []VulnerabilityEntry{
		{Severity: SeverityCritical},
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityUnknown},
	}}
	report.Recount()

	assert.Equal(t, 4, report.Count)
	assert.Equal(t, 1, report.Critical)
	assert.Equal(t, 1, report.High)
	assert.Equal(t, 1, report.Medium)
	assert.Zero(t, report.Low)
	// unknown entries count toward the total only
	assert.Equal(t, 100-25-15-5, report.SecurityScore)
}
