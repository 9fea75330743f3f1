package util

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/google/osv-scanner/pkg/models"
)

// versionComparator abstracts the ecosystem-specific version orderings so the
// OSV range walk is written once. cmp returns <0, 0 or >0; ok is false when
// the string does not parse under this ecosystem's rules.
type versionComparator func(a, b string) (cmp int, ok bool)

func semverCompare(a, b string) (int, bool) {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return 0, false
	}
	return va.Compare(vb), true
}

func npmCompare(a, b string) (int, bool) {
	va, errA := npm.NewVersion(a)
	vb, errB := npm.NewVersion(b)
	if errA != nil || errB != nil {
		return 0, false
	}
	if va.LessThan(vb) {
		return -1, true
	}
	if va.GreaterThan(vb) {
		return 1, true
	}
	return 0, true
}

func pep440Compare(a, b string) (int, bool) {
	va, errA := pep440.Parse(a)
	vb, errB := pep440.Parse(b)
	if errA != nil || errB != nil {
		return 0, false
	}
	if va.LessThan(vb) {
		return -1, true
	}
	if va.GreaterThan(vb) {
		return 1, true
	}
	return 0, true
}

func stringCompare(a, b string) (int, bool) {
	return strings.Compare(a, b), true
}

func comparatorFor(ecosystem string) versionComparator {
	switch strings.ToLower(ecosystem) {
	case "npm":
		return npmCompare
	case "pypi":
		return pep440Compare
	default:
		return semverCompare
	}
}

// IsVersionAffected checks whether a version falls inside an OSV affected
// entry, consulting the explicit version list first and then the ranges with
// the ecosystem's own version ordering.
func IsVersionAffected(version string, affected models.Affected) bool {
	for _, v := range affected.Versions {
		if version == v {
			return true
		}
	}

	ecosystem := string(affected.Package.Ecosystem)
	for _, vrange := range affected.Ranges {
		if vrange.Type != models.RangeEcosystem && vrange.Type != models.RangeSemVer {
			continue
		}
		if versionInRange(version, vrange, comparatorFor(ecosystem)) {
			return true
		}
	}
	return false
}

// versionInRange walks a range's events and checks introduced/fixed/
// last_affected boundaries. Ranges missing either boundary are treated as
// not-affected: incomplete data must not produce false positives. The OSV
// value "0" for introduced means "from the beginning".
func versionInRange(version string, vrange models.Range, cmp versionComparator) bool {
	var introduced, fixed, lastAffected string
	for _, event := range vrange.Events {
		if event.Introduced != "" {
			introduced = event.Introduced
		}
		if event.Fixed != "" {
			fixed = event.Fixed
		}
		if event.LastAffected != "" {
			lastAffected = event.LastAffected
		}
	}

	if introduced == "" || (fixed == "" && lastAffected == "") {
		return false
	}

	compare := func(a, b string) (int, bool) {
		if c, ok := cmp(a, b); ok {
			return c, true
		}
		return stringCompare(a, b)
	}

	if introduced != "0" {
		if c, _ := compare(version, introduced); c < 0 {
			return false
		}
	}
	if fixed != "" {
		if c, _ := compare(version, fixed); c >= 0 {
			return false
		}
	}
	if lastAffected != "" {
		if c, _ := compare(version, lastAffected); c > 0 {
			return false
		}
	}
	return true
}

// ExtractFixedVersions returns the fix versions from the ranges that contain
// the current version; when no range matches, every distinct fixed version is
// returned as a fallback hint.
func ExtractFixedVersions(currentVersion string, allAffected []models.Affected) []string {
	var matched []string
	seen := make(map[string]bool)

	for _, affected := range allAffected {
		cmp := comparatorFor(string(affected.Package.Ecosystem))
		for _, vrange := range affected.Ranges {
			if vrange.Type != models.RangeEcosystem && vrange.Type != models.RangeSemVer {
				continue
			}
			if !versionInRange(currentVersion, vrange, cmp) {
				continue
			}
			for _, event := range vrange.Events {
				if event.Fixed != "" && !seen[event.Fixed] {
					matched = append(matched, event.Fixed)
					seen[event.Fixed] = true
				}
			}
		}
	}
	if len(matched) > 0 {
		return matched
	}

	var all []string
	for _, affected := range allAffected {
		for _, vrange := range affected.Ranges {
			for _, event := range vrange.Events {
				if event.Fixed != "" && !seen[event.Fixed] {
					all = append(all, event.Fixed)
					seen[event.Fixed] = true
				}
			}
		}
	}
	return all
}
