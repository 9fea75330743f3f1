package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackwatch/stackwatch-backend/catalog"
)

type fakeRegistry struct {
	version string
	docURL  string
	err     error
	asked   []string
}

func (f *fakeRegistry) GetLatestVersion(_ context.Context, pkg string) (string, string, error) {
	f.asked = append(f.asked, pkg)
	return f.version, f.docURL, f.err
}

type fakeReleases struct {
	version string
	url     string
	err     error
	asked   []string
}

func (f *fakeReleases) GetLatestRelease(_ context.Context, repo string) (string, string, error) {
	f.asked = append(f.asked, repo)
	return f.version, f.url, f.err
}

func TestVersionResolveFirstSuccessWins(t *testing.T) {
	npm := &fakeRegistry{version: "18.2.0", docURL: "https://react.dev/"}
	gh := &fakeReleases{version: "18.3.0"}

	r := &VersionResolver{Npm: npm, GitHub: gh}
	norm := catalog.Normalization{
		Key:        "react",
		Known:      true,
		Tech:       &catalog.Technology{Npm: "react", Repos: []string{"facebook/react"}},
		Strategies: []string{catalog.SourceNpm, catalog.SourceGitHub},
	}

	result, err := r.Resolve(context.Background(), norm)
	require.NoError(t, err)
	assert.Equal(t, "18.2.0", result.LatestVersion)
	assert.Equal(t, "https://react.dev/", result.CheckURL)
	assert.Equal(t, catalog.SourceNpm, result.Source)
	assert.Equal(t, "npm", result.Ecosystem())
	assert.Empty(t, gh.asked, "later strategies must not run after a success")
}

func TestVersionResolveFallsThroughOnFailure(t *testing.T) {
	npm := &fakeRegistry{err: errors.New("registry down")}
	gh := &fakeReleases{version: "1.27.0", url: "https://github.com/nginx/nginx/releases"}

	r := &VersionResolver{Npm: npm, GitHub: gh}
	norm := catalog.Normalization{
		Key:        "nginx",
		Known:      true,
		Tech:       &catalog.Technology{Npm: "nginx-placeholder", Repos: []string{"nginx/nginx"}},
		Strategies: []string{catalog.SourceNpm, catalog.SourceGitHub},
	}

	result, err := r.Resolve(context.Background(), norm)
	require.NoError(t, err)
	assert.Equal(t, "1.27.0", result.LatestVersion)
	assert.Equal(t, catalog.SourceGitHub, result.Source)
	assert.Empty(t, result.Ecosystem(), "release sources imply no advisory ecosystem")
}

func TestVersionResolveKnownWithoutRegistryIdentitySkips(t *testing.T) {
	npm := &fakeRegistry{version: "9.9.9"}

	r := &VersionResolver{Npm: npm}
	// Known technology with no npm identity: the resolver must not guess the
	// package name from the key.
	norm := catalog.Normalization{
		Key:        "postgresql",
		Known:      true,
		Tech:       &catalog.Technology{},
		Strategies: []string{catalog.SourceNpm},
	}

	_, err := r.Resolve(context.Background(), norm)
	assert.ErrorIs(t, err, ErrNoVersionData)
	assert.Empty(t, npm.asked)
}

func TestVersionResolveUnknownUsesKeyAsPackageName(t *testing.T) {
	npm := &fakeRegistry{version: "2.1.0", docURL: "https://example.com"}

	r := &VersionResolver{Npm: npm}
	norm := catalog.Normalization{
		Key:        "some-internal-lib",
		Strategies: catalog.DefaultStrategies,
	}

	result, err := r.Resolve(context.Background(), norm)
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", result.LatestVersion)
	assert.Equal(t, []string{"some-internal-lib"}, npm.asked)
}

func TestVersionResolveStaticFallback(t *testing.T) {
	r := &VersionResolver{}
	norm := catalog.Normalization{
		Key:   "java",
		Known: true,
		Tech: &catalog.Technology{
			StaticVersion: "21",
			CheckURL:      "https://www.oracle.com/java/technologies/downloads/",
		},
		Strategies: []string{catalog.SourceGitHub, catalog.SourceStatic},
	}

	result, err := r.Resolve(context.Background(), norm)
	require.NoError(t, err)
	assert.Equal(t, "21", result.LatestVersion)
	assert.Equal(t, catalog.SourceStatic, result.Source)
	assert.Equal(t, "https://www.oracle.com/java/technologies/downloads/", result.CheckURL)
}

func TestVersionResolveAllSourcesExhausted(t *testing.T) {
	npm := &fakeRegistry{err: errors.New("down")}
	pypi := &fakeRegistry{err: errors.New("down")}
	gh := &fakeReleases{err: errors.New("down")}

	r := &VersionResolver{Npm: npm, PyPI: pypi, GitHub: gh}
	norm := catalog.Normalization{
		Key:        "mystery-tool",
		Strategies: catalog.DefaultStrategies,
	}

	_, err := r.Resolve(context.Background(), norm)
	assert.ErrorIs(t, err, ErrNoVersionData)
}
