// Package model - TechnologyRecord defines the tracked technology document and its derived analysis fields.
package model

import (
	"time"

	"github.com/stackwatch/stackwatch-backend/util"
)

// Priority is the synthesized risk level for a technology record.
type Priority string

// Priority levels ordered from least to most urgent.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the numeric ordering of a priority. Unknown values rank below low.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return -1
}

// Valid reports whether p is one of the four defined levels.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// MaxPriority returns the most urgent of the given priorities.
func MaxPriority(priorities ...Priority) Priority {
	max := PriorityLow
	for _, p := range priorities {
		if p.Rank() > max.Rank() {
			max = p
		}
	}
	return max
}

// VersionGapUpToDate and VersionGapComparisonFailed are the sentinel gap descriptions.
const (
	VersionGapUpToDate         = "up-to-date"
	VersionGapComparisonFailed = "comparison-failed"
	VersionGapUnknown          = "unknown"
)

// UnknownVersion is stored as latest_version when every version source failed.
const UnknownVersion = "Unknown"

// LifecycleInfo holds the resolved EOL/support data for the version in use.
// A nil LifecycleInfo on the record means no lifecycle source returned data.
type LifecycleInfo struct {
	EOL     string `json:"eol,omitempty"`
	Support string `json:"support,omitempty"`
	LTS     bool   `json:"lts,omitempty"`
	Cycle   string `json:"cycle,omitempty"`
	// Source records which precedence tier satisfied the lookup:
	// version-specific, static, api-specific, api-latest or pattern.
	Source string `json:"source"`
}

// TechnologyRecord represents a tracked technology stored in the database.
type TechnologyRecord struct {
	Key            string `json:"_key,omitempty"`
	ObjType        string `json:"objtype,omitempty"`
	Technology     string `json:"technology"`
	CurrentVersion string `json:"current_version"`
	Product        string `json:"product,omitempty"`
	Notes          string `json:"notes,omitempty"`

	LatestVersion string `json:"latest_version,omitempty"`
	CheckURL      string `json:"check_url,omitempty"`
	VersionSource string `json:"version_source,omitempty"`
	VersionMajor  *int   `json:"version_major,omitempty"`
	VersionMinor  *int   `json:"version_minor,omitempty"`
	VersionPatch  *int   `json:"version_patch,omitempty"`

	Lifecycle       *LifecycleInfo       `json:"lifecycle,omitempty"`
	Vulnerabilities *VulnerabilityReport `json:"vulnerabilities,omitempty"`

	Priority        Priority `json:"priority,omitempty"`
	VersionGap      string   `json:"version_gap,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	NextSteps       []string `json:"next_steps,omitempty"`

	AddedAt      time.Time `json:"added_at,omitempty"`
	LastAnalyzed time.Time `json:"last_analyzed,omitempty"`
}

// NewTechnologyRecord creates a record with default values.
func NewTechnologyRecord(technology, currentVersion string) *TechnologyRecord {
	rec := &TechnologyRecord{
		ObjType:        "TechnologyRecord",
		Technology:     technology,
		CurrentVersion: currentVersion,
		AddedAt:        time.Now().UTC(),
	}
	rec.ParseAndSetVersion()
	return rec
}

// ParseAndSetVersion parses the current version string into numeric components.
func (r *TechnologyRecord) ParseAndSetVersion() {
	if r.CurrentVersion == "" {
		return
	}
	parsed := util.ParseSemanticVersion(util.CleanVersion(r.CurrentVersion))
	if parsed != nil {
		r.VersionMajor = parsed.Major
		r.VersionMinor = parsed.Minor
		r.VersionPatch = parsed.Patch
	}
}
