package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
)

// VersionResult is the first successful answer from the source chain.
type VersionResult struct {
	LatestVersion string
	CheckURL      string
	Source        string
}

// Ecosystem maps the winning source type to the advisory-database ecosystem
// it implies. Empty when the source carries no ecosystem.
func (r VersionResult) Ecosystem() string {
	switch r.Source {
	case catalog.SourceNpm:
		return "npm"
	case catalog.SourcePyPI:
		return "PyPI"
	}
	return ""
}

// VersionResolver walks a technology's strategy ordering and returns the
// first source that produces a latest version. It never aggregates or
// cross-validates across sources.
type VersionResolver struct {
	Npm    PackageRegistry
	PyPI   PackageRegistry
	GitHub ReleaseSource
	Logger *zap.Logger
}

// Resolve attempts each strategy in order. Failure of every strategy returns
// ErrNoVersionData; the caller substitutes the "Unknown" placeholder and a
// search-engine URL.
func (r *VersionResolver) Resolve(ctx context.Context, norm catalog.Normalization) (VersionResult, error) {
	log := r.logger().Sugar()

	for _, strategy := range norm.Strategies {
		switch strategy {
		case catalog.SourceNpm:
			if r.Npm == nil {
				continue
			}
			pkg := norm.Key
			if norm.Tech != nil && norm.Tech.Npm != "" {
				pkg = norm.Tech.Npm
			} else if norm.Known {
				// Known technology without an npm identity; don't guess.
				continue
			}
			version, docURL, err := r.Npm.GetLatestVersion(ctx, pkg)
			if err != nil {
				log.Debugf("npm lookup failed for %s: %v", pkg, err)
				continue
			}
			return VersionResult{LatestVersion: version, CheckURL: docURL, Source: catalog.SourceNpm}, nil

		case catalog.SourcePyPI:
			if r.PyPI == nil {
				continue
			}
			pkg := norm.Key
			if norm.Tech != nil && norm.Tech.PyPI != "" {
				pkg = norm.Tech.PyPI
			} else if norm.Known {
				continue
			}
			version, docURL, err := r.PyPI.GetLatestVersion(ctx, pkg)
			if err != nil {
				log.Debugf("pypi lookup failed for %s: %v", pkg, err)
				continue
			}
			return VersionResult{LatestVersion: version, CheckURL: docURL, Source: catalog.SourcePyPI}, nil

		case catalog.SourceGitHub:
			if r.GitHub == nil || norm.Tech == nil {
				continue
			}
			for _, repo := range norm.Tech.Repos {
				version, releaseURL, err := r.GitHub.GetLatestRelease(ctx, repo)
				if err != nil {
					log.Debugf("release lookup failed for %s: %v", repo, err)
					continue
				}
				return VersionResult{LatestVersion: version, CheckURL: releaseURL, Source: catalog.SourceGitHub}, nil
			}

		case catalog.SourceStatic:
			if norm.Tech == nil || norm.Tech.StaticVersion == "" {
				continue
			}
			return VersionResult{
				LatestVersion: norm.Tech.StaticVersion,
				CheckURL:      norm.Tech.CheckURL,
				Source:        catalog.SourceStatic,
			}, nil
		}
	}

	return VersionResult{}, ErrNoVersionData
}

func (r *VersionResolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
