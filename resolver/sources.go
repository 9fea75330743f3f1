// Package resolver implements the reconciliation pipeline: version,
// lifecycle and vulnerability resolution for a technology record, and the
// synthesis of one overall risk priority from whatever subset of data the
// sources returned.
package resolver

import (
	"context"
	"errors"

	"github.com/google/osv-scanner/pkg/models"

	"github.com/stackwatch/stackwatch-backend/clients"
)

// PackageRegistry is satisfied by the npm and PyPI clients.
type PackageRegistry interface {
	GetLatestVersion(ctx context.Context, pkg string) (version, docURL string, err error)
}

// ReleaseSource is satisfied by the GitHub client.
type ReleaseSource interface {
	GetLatestRelease(ctx context.Context, repo string) (version, releaseURL string, err error)
}

// LifecycleSource is satisfied by the endoflife.date client. Implementations
// may return an empty cycle list with a nil error; callers must not assume a
// nil error means at least one cycle.
type LifecycleSource interface {
	GetCycles(ctx context.Context, slug string) ([]clients.Cycle, error)
}

// VulnerabilitySource is satisfied by the OSV client.
type VulnerabilitySource interface {
	QueryVulnerabilities(ctx context.Context, name, ecosystem, version string) ([]models.Vulnerability, error)
}

// TextGenerator is satisfied by the Ollama client. Its output is untrusted
// free text that must survive strict parsing before any of it is used.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sentinel errors for exhausted source chains.
var (
	ErrNoVersionData   = errors.New("no version source returned data")
	ErrNoLifecycleData = errors.New("no lifecycle source returned data")
)
