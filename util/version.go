// Package util provides version parsing, lifecycle date parsing, CVSS scoring
// and environment helpers shared across the resolvers.
package util

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParsedVersion holds parsed semantic version components.
// Components that could not be parsed stay nil.
type ParsedVersion struct {
	Major *int
	Minor *int
	Patch *int
}

// ParseSemanticVersion parses a version string into numeric components.
// Tries strict semver first, then a lenient dot-split for forms like "1.2" or "16".
func ParseSemanticVersion(version string) *ParsedVersion {
	if version == "" {
		return &ParsedVersion{}
	}

	clean := strings.TrimPrefix(strings.TrimPrefix(version, "go"), "v")

	// Strict parsing only: the lenient parser coerces "16" or "3.12" into a
	// full triple, which would turn absent components into zeros.
	if v, err := semver.StrictNewVersion(clean); err == nil {
		major := int(v.Major())
		minor := int(v.Minor())
		patch := int(v.Patch())
		return &ParsedVersion{Major: &major, Minor: &minor, Patch: &patch}
	}

	parts := strings.Split(clean, ".")
	result := &ParsedVersion{}
	if len(parts) >= 1 {
		if major, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			result.Major = &major
		}
	}
	if len(parts) >= 2 {
		if minor, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			result.Minor = &minor
		}
	}
	if len(parts) >= 3 {
		patchStr := strings.FieldsFunc(parts[2], func(r rune) bool {
			return r == '-' || r == '+'
		})[0]
		if patch, err := strconv.Atoi(strings.TrimSpace(patchStr)); err == nil {
			result.Patch = &patch
		}
	}
	return result
}

var versionPrefixPattern = regexp.MustCompile(`^.*?-v(\d+)`)
var nonVersionChars = regexp.MustCompile(`[^0-9.]`)

// CleanVersion removes branch prefixes from version strings.
// "main-v12.0.1376-g7ac6f3" -> "12.0.1376-g7ac6f3"; plain versions pass through.
func CleanVersion(version string) string {
	if version == "" {
		return version
	}
	if matches := versionPrefixPattern.FindStringSubmatch(version); len(matches) > 1 {
		return versionPrefixPattern.ReplaceAllString(version, matches[1])
	}
	return version
}

// MajorIdentifier extracts the major release identifier used for lifecycle
// cycle matching. Ecosystems that version 3.8, 3.9, ... as distinct major
// releases are identified by their minor component: for "3.x" with x > 7 the
// second part is the identifier, otherwise the first part is.
func MajorIdentifier(version string) string {
	clean := nonVersionChars.ReplaceAllString(version, "")
	if clean == "" {
		return ""
	}
	parts := strings.Split(clean, ".")
	if len(parts) >= 2 && parts[0] == "3" {
		if minor, err := strconv.Atoi(parts[1]); err == nil && minor > 7 {
			return parts[1]
		}
	}
	return parts[0]
}
