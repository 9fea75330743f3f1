package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/google/osv-scanner/pkg/models"
	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/util"
)

// RuntimeSecurityScore is the fixed neutral score for technologies whose
// vulnerabilities are managed through vendor channels rather than an
// ecosystem feed. Deliberately below a clean scan's 100 so the two states
// never look alike.
const RuntimeSecurityScore = 75

const maxEntryReferences = 5

// VulnerabilityResolver queries the advisory database for ecosystem packages
// and produces the degraded vendor-managed result for runtime technologies.
type VulnerabilityResolver struct {
	DB     VulnerabilitySource
	Logger *zap.Logger
}

// Resolve returns the vulnerability report for a record, or nil when no data
// is available (source failure) or the technology is outside both modes.
// Failures never surface as errors; an absent report is the contract.
func (r *VulnerabilityResolver) Resolve(ctx context.Context, norm catalog.Normalization, pkgName, ecosystem, version string) *model.VulnerabilityReport {
	if ecosystem == "" {
		if catalog.RuntimeCategory(norm.Category) {
			return &model.VulnerabilityReport{
				Entries:           []model.VulnerabilityEntry{},
				SecurityScore:     RuntimeSecurityScore,
				RuntimeTechnology: true,
				Note:              "No ecosystem advisory feed covers this technology; consult the vendor's security advisories.",
			}
		}
		return nil
	}

	if r.DB == nil {
		return nil
	}

	vulns, err := r.DB.QueryVulnerabilities(ctx, pkgName, ecosystem, version)
	if err != nil {
		r.logger().Sugar().Warnf("vulnerability lookup failed for %s@%s (%s): %v", pkgName, version, ecosystem, err)
		return nil
	}

	report := &model.VulnerabilityReport{
		Entries:   []model.VulnerabilityEntry{},
		Ecosystem: ecosystem,
	}
	for _, vuln := range vulns {
		if !versionConfirmed(version, vuln.Affected) {
			continue
		}
		report.Entries = append(report.Entries, classify(vuln, ecosystem, pkgName, version))
	}
	report.Recount()
	return report
}

// versionConfirmed re-checks the advisory's affected ranges locally with the
// ecosystem's own version ordering. Advisories without range data are trusted
// as returned by the version-scoped query.
func versionConfirmed(version string, affected []models.Affected) bool {
	hasRangeData := false
	for _, a := range affected {
		if len(a.Versions) > 0 || len(a.Ranges) > 0 {
			hasRangeData = true
		}
		if util.IsVersionAffected(version, a) {
			return true
		}
	}
	return !hasRangeData
}

func classify(vuln models.Vulnerability, ecosystem, pkgName, version string) model.VulnerabilityEntry {
	entry := model.VulnerabilityEntry{
		ID:      vuln.ID,
		Aliases: vuln.Aliases,
		Summary: vuln.Summary,
		FixedIn: util.ExtractFixedVersions(version, vuln.Affected),
		PURL:    util.BuildPURL(ecosystem, pkgName, version),
	}
	if entry.Summary == "" {
		entry.Summary = firstLine(vuln.Details)
	}
	if !vuln.Published.IsZero() {
		entry.Published = vuln.Published.Format(time.RFC3339)
	}
	if !vuln.Modified.IsZero() {
		entry.Modified = vuln.Modified.Format(time.RFC3339)
	}
	for _, ref := range vuln.References {
		if len(entry.References) == maxEntryReferences {
			break
		}
		if ref.URL != "" {
			entry.References = append(entry.References, ref.URL)
		}
	}

	entry.Score = util.HighestCVSSScore(vuln.Severity)
	entry.Severity = severityBucket(entry.Score, vuln)
	return entry
}

// severityBucket maps a CVSS base score to a severity level. Unscored
// advisories carrying a CVE identifier default to medium; unscored advisories
// without one stay unknown and are excluded from the security score.
func severityBucket(score float64, vuln models.Vulnerability) string {
	switch {
	case score >= 9.0:
		return model.SeverityCritical
	case score >= 7.0:
		return model.SeverityHigh
	case score >= 4.0:
		return model.SeverityMedium
	case score > 0:
		return model.SeverityLow
	}
	if hasCVEAlias(vuln) {
		return model.SeverityMedium
	}
	return model.SeverityUnknown
}

func hasCVEAlias(vuln models.Vulnerability) bool {
	if strings.HasPrefix(vuln.ID, "CVE-") {
		return true
	}
	for _, alias := range vuln.Aliases {
		if strings.HasPrefix(alias, "CVE-") {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func (r *VulnerabilityResolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
