package util

import (
	"testing"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/stretchr/testify/assert"
)

func npmAffected(events ...models.Event) models.Affected {
	return models.Affected{
		Package: models.Package{Ecosystem: models.Ecosystem("npm"), Name: "left-pad"},
		Ranges:  []models.Range{{Type: models.RangeSemVer, Events: events}},
	}
}

func TestIsVersionAffectedExplicitList(t *testing.T) {
	affected := models.Affected{
		Package:  models.Package{Ecosystem: models.Ecosystem("npm")},
		Versions: []string{"1.0.0", "1.0.1"},
	}

	assert.True(t, IsVersionAffected("1.0.1", affected))
	assert.False(t, IsVersionAffected("1.0.2", affected))
}

func TestIsVersionAffectedRange(t *testing.T) {
	affected := npmAffected(
		models.Event{Introduced: "0"},
		models.Event{Fixed: "4.17.21"},
	)

	assert.True(t, IsVersionAffected("4.17.20", affected))
	assert.False(t, IsVersionAffected("4.17.21", affected))
	assert.False(t, IsVersionAffected("5.0.0", affected))
}

func TestIsVersionAffectedIntroducedBound(t *testing.T) {
	affected := npmAffected(
		models.Event{Introduced: "2.0.0"},
		models.Event{Fixed: "2.3.0"},
	)

	assert.False(t, IsVersionAffected("1.9.9", affected))
	assert.True(t, IsVersionAffected("2.0.0", affected))
	assert.True(t, IsVersionAffected("2.2.5", affected))
	assert.False(t, IsVersionAffected("2.3.0", affected))
}

func TestIsVersionAffectedLastAffected(t *testing.T) {
	affected := npmAffected(
		models.Event{Introduced: "1.0.0"},
		models.Event{LastAffected: "1.4.0"},
	)

	assert.True(t, IsVersionAffected("1.4.0", affected))
	assert.False(t, IsVersionAffected("1.4.1", affected))
}

// A range with only an introduced event has no upper bound; incomplete data
// must not flag every later version.
func TestIsVersionAffectedIncompleteRange(t *testing.T) {
	affected := npmAffected(models.Event{Introduced: "0"})

	assert.False(t, IsVersionAffected("1.0.0", affected))
}

func TestIsVersionAffectedSkipsGitRanges(t *testing.T) {
	affected := models.Affected{
		Package: models.Package{Ecosystem: models.Ecosystem("npm")},
		Ranges: []models.Range{{
			Type: models.RangeGit,
			Events: []models.Event{
				{Introduced: "0"},
				{Fixed: "deadbeef"},
			},
		}},
	}

	assert.False(t, IsVersionAffected("1.0.0", affected))
}

func TestExtractFixedVersionsMatchedRange(t *testing.T) {
	all := []models.Affected{
		npmAffected(models.Event{Introduced: "0"}, models.Event{Fixed: "4.17.21"}),
		npmAffected(models.Event{Introduced: "5.0.0"}, models.Event{Fixed: "5.0.8"}),
	}

	fixed := ExtractFixedVersions("4.17.20", all)
	assert.Equal(t, []string{"4.17.21"}, fixed)
}

func TestExtractFixedVersionsFallback(t *testing.T) {
	all := []models.Affected{
		npmAffected(models.Event{Introduced: "2.0.0"}, models.Event{Fixed: "2.3.0"}),
		npmAffected(models.Event{Introduced: "3.0.0"}, models.Event{Fixed: "3.1.0"}),
	}

	// The current version matches no range; every distinct fix is a hint.
	fixed := ExtractFixedVersions("1.0.0", all)
	assert.ElementsMatch(t, []string{"2.3.0", "3.1.0"}, fixed)
}
