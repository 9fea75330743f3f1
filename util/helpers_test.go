package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("react"))
	assert.False(t, IsEmpty(" react "))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("HELPER_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("HELPER_TEST_INT", 7))

	t.Setenv("HELPER_TEST_INT", "nope")
	assert.Equal(t, 7, GetEnvInt("HELPER_TEST_INT", 7))

	assert.Equal(t, 7, GetEnvInt("HELPER_TEST_INT_UNSET", 7))
}

func TestEcosystemToPurlType(t *testing.T) {
	assert.Equal(t, "pypi", EcosystemToPurlType("PyPI"))
	assert.Equal(t, "golang", EcosystemToPurlType("Go"))
	assert.Equal(t, "pypi", EcosystemToPurlType("pypi"))
	assert.Equal(t, "somereg", EcosystemToPurlType("SomeReg"))
}

func TestBuildPURL(t *testing.T) {
	assert.Equal(t, "pkg:npm/react@18.2.0", BuildPURL("npm", "react", "18.2.0"))
	assert.Equal(t, "pkg:npm/%40angular/core@17.0.0", BuildPURL("npm", "@angular/core", "17.0.0"))
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/search?q=spring+boot+latest+version",
		SearchURL(" spring boot "))
}
