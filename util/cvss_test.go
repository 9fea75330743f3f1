package util

import (
	"testing"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCVSSScore(t *testing.T) {
	// log4shell
	score := CalculateCVSSScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H")
	assert.InDelta(t, 10.0, score, 0.01)

	assert.Zero(t, CalculateCVSSScore(""))
	assert.Zero(t, CalculateCVSSScore("not a vector"))
	assert.Zero(t, CalculateCVSSScore("CVSS:3.1/garbage"))
}

func TestHighestCVSSScore(t *testing.T) {
	severities := []models.Severity{
		{Type: models.SeverityCVSSV3, Score: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N"},
		{Type: models.SeverityCVSSV3, Score: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H"},
	}

	assert.InDelta(t, 10.0, HighestCVSSScore(severities), 0.01)
	assert.Zero(t, HighestCVSSScore(nil))
}

func TestGetSeverityRating(t *testing.T) {
	assert.Equal(t, "NONE", GetSeverityRating(0))
	assert.Equal(t, "LOW", GetSeverityRating(3.9))
	assert.Equal(t, "MEDIUM", GetSeverityRating(4.0))
	assert.Equal(t, "HIGH", GetSeverityRating(7.0))
	assert.Equal(t, "CRITICAL", GetSeverityRating(9.0))
}
