package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	return c
}

func TestNormalizeAliasesCollapse(t *testing.T) {
	c := mustLoad(t)

	// Every spelling of the same technology lands on one canonical key.
	for _, raw := range []string{"node.js", "Node.JS", "node", "nodejs", " NODEJS "} {
		norm := c.Normalize(raw)
		assert.True(t, norm.Known, "raw %q", raw)
		assert.Equal(t, "node.js", norm.Key, "raw %q", raw)
	}

	norm := c.Normalize("K8S")
	assert.True(t, norm.Known)
	assert.Equal(t, "kubernetes", norm.Key)
}

func TestNormalizeKnownMetadata(t *testing.T) {
	c := mustLoad(t)

	react := c.Normalize("React")
	require.True(t, react.Known)
	assert.Equal(t, CategoryFrontend, react.Category)
	require.NotNil(t, react.Tech)
	assert.Equal(t, "react", react.Tech.Npm)

	java := c.Normalize("openjdk")
	require.True(t, java.Known)
	assert.Equal(t, "java", java.Key)
	assert.Equal(t, CategoryLanguage, java.Category)
}

func TestNormalizeUnknown(t *testing.T) {
	c := mustLoad(t)

	norm := c.Normalize("  Some Internal Tool ")
	assert.False(t, norm.Known)
	assert.Equal(t, "some internal tool", norm.Key)
	assert.Equal(t, CategoryUnknown, norm.Category)
	assert.Nil(t, norm.Tech)
	assert.Equal(t, DefaultStrategies, norm.Strategies)
}

func TestNormalizeStrategiesDefaultWhenUnset(t *testing.T) {
	c := mustLoad(t)

	norm := c.Normalize("react")
	require.True(t, norm.Known)
	assert.NotEmpty(t, norm.Strategies)
}

func TestSuggestions(t *testing.T) {
	c := mustLoad(t)

	out := c.Suggestions("re")
	assert.Contains(t, out, "react")
	assert.Contains(t, out, "redis")
	assert.NotContains(t, out, "vue")

	// blank query returns everything, sorted
	all := c.Suggestions("")
	assert.Contains(t, all, "java")
	assert.True(t, len(all) >= 20)
	assert.IsType(t, []string{}, all)
}

func TestRuntimeCategory(t *testing.T) {
	assert.True(t, RuntimeCategory(CategoryLanguage))
	assert.True(t, RuntimeCategory(CategoryDatabase))
	assert.True(t, RuntimeCategory(CategoryWebserver))
	assert.False(t, RuntimeCategory(CategoryFrontend))
	assert.False(t, RuntimeCategory(CategoryBackend))
	assert.False(t, RuntimeCategory(CategoryUnknown))
}
