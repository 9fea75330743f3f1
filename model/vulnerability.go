// Package model - vulnerability report types attached to a TechnologyRecord.
package model

// Severity buckets used when classifying advisory entries.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityUnknown  = "unknown"
)

// VulnerabilityEntry is one advisory affecting the tracked package+version.
type VulnerabilityEntry struct {
	ID         string   `json:"id"`
	Severity   string   `json:"severity"`
	Score      float64  `json:"score,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Published  string   `json:"published,omitempty"`
	Modified   string   `json:"modified,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	References []string `json:"references,omitempty"`
	FixedIn    []string `json:"fixed_in,omitempty"`
	PURL       string   `json:"purl,omitempty"`
}

// VulnerabilityReport aggregates the advisory entries for one record.
// A nil report means the record was never checked; an empty Entries slice
// with RuntimeTechnology false means "checked, clean".
type VulnerabilityReport struct {
	Entries       []VulnerabilityEntry `json:"entries"`
	Count         int                  `json:"count"`
	Critical      int                  `json:"critical"`
	High          int                  `json:"high"`
	Medium        int                  `json:"medium"`
	Low           int                  `json:"low"`
	SecurityScore int                  `json:"security_score"`
	Ecosystem     string               `json:"ecosystem,omitempty"`

	// RuntimeTechnology marks the degraded vendor-managed result returned for
	// language runtimes and platforms that have no ecosystem advisory feed.
	RuntimeTechnology bool   `json:"runtime_technology,omitempty"`
	Note              string `json:"note,omitempty"`
}

// Recount recomputes the per-severity counters and the security score from
// the entries. Unknown-severity entries count toward the total only.
func (v *VulnerabilityReport) Recount() {
	v.Count = len(v.Entries)
	v.Critical, v.High, v.Medium, v.Low = 0, 0, 0, 0
	for _, e := range v.Entries {
		switch e.Severity {
		case SeverityCritical:
			v.Critical++
		case SeverityHigh:
			v.High++
		case SeverityMedium:
			v.Medium++
		case SeverityLow:
			v.Low++
		}
	}
	v.SecurityScore = SecurityScore(v.Critical, v.High, v.Medium, v.Low)
}

// SecurityScore computes the 0-100 weighted score; lower is worse.
func SecurityScore(critical, high, medium, low int) int {
	score := 100 - 25*critical - 15*high - 5*medium - 1*low
	if score < 0 {
		return 0
	}
	return score
}
