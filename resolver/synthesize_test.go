package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
)

func TestEvaluateVersionGap(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		latest   string
		priority model.Priority
		gap      string
	}{
		{"equal", "18.2.0", "18.2.0", model.PriorityLow, model.VersionGapUpToDate},
		{"ahead of latest", "18.3.0", "18.2.0", model.PriorityLow, model.VersionGapUpToDate},
		{"patch behind", "18.2.0", "18.2.3", model.PriorityLow, "3 patch version(s) behind"},
		{"minor behind", "18.0.0", "18.2.0", model.PriorityMedium, "2 minor version(s) behind"},
		{"five minors behind", "18.0.0", "18.5.0", model.PriorityHigh, "5 minor version(s) behind"},
		{"one major behind", "17.0.0", "18.2.0", model.PriorityHigh, "1 major version(s) behind"},
		{"two majors behind", "16.0.0", "18.2.0", model.PriorityCritical, "2 major version(s) behind"},
		{"latest unknown", "18.2.0", model.UnknownVersion, model.PriorityMedium, model.VersionGapUnknown},
		{"latest empty", "18.2.0", "", model.PriorityMedium, model.VersionGapUnknown},
		{"current unparseable", "latest", "18.2.0", model.PriorityMedium, model.VersionGapComparisonFailed},
		{"missing components are zero", "18", "18.0.0", model.PriorityLow, model.VersionGapUpToDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, gap := EvaluateVersionGap(tt.current, tt.latest)
			assert.Equal(t, tt.priority, priority)
			assert.Equal(t, tt.gap, gap)
		})
	}
}

func TestEvaluateLifecycle(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		info     *model.LifecycleInfo
		priority model.Priority
	}{
		{"nil info", nil, model.PriorityLow},
		{"already past", &model.LifecycleInfo{EOL: "2024-04-30"}, model.PriorityCritical},
		{"inside 90 days", &model.LifecycleInfo{EOL: "2024-06-01"}, model.PriorityCritical},
		{"inside a year", &model.LifecycleInfo{EOL: "2024-12-01"}, model.PriorityHigh},
		{"inside three years", &model.LifecycleInfo{EOL: "2026-05-01"}, model.PriorityMedium},
		{"far future", &model.LifecycleInfo{EOL: "2030-01-01"}, model.PriorityLow},
		{"support drives urgency", &model.LifecycleInfo{EOL: "2030-01-01", Support: "2024-10-01"}, model.PriorityHigh},
		{"rolling", &model.LifecycleInfo{EOL: "rolling"}, model.PriorityLow},
		{"api boolean eol", &model.LifecycleInfo{EOL: "true"}, model.PriorityCritical},
		{"lts text", &model.LifecycleInfo{EOL: "lts until further notice"}, model.PriorityMedium},
		{"not specified", &model.LifecycleInfo{EOL: "not specified"}, model.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.priority, EvaluateLifecycle(tt.info, now))
		})
	}
}

func TestEvaluateLifecycleAlreadyEOLWarning(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	eval := evaluateLifecycle(&model.LifecycleInfo{EOL: "2024-04-30"}, now)

	assert.Equal(t, model.PriorityCritical, eval.priority)
	require.NotEmpty(t, eval.warnings)
	assert.Contains(t, eval.warnings[0], "already end-of-life")
}

func TestEvaluateVulnerabilities(t *testing.T) {
	assert.Equal(t, model.PriorityLow, EvaluateVulnerabilities(nil))
	assert.Equal(t, model.PriorityCritical, EvaluateVulnerabilities(&model.VulnerabilityReport{Critical: 1}))
	assert.Equal(t, model.PriorityHigh, EvaluateVulnerabilities(&model.VulnerabilityReport{High: 2}))
	assert.Equal(t, model.PriorityLow, EvaluateVulnerabilities(&model.VulnerabilityReport{Medium: 4, Low: 9}))
}

func TestSynthesizeCriticalVulnOverride(t *testing.T) {
	s := &Synthesizer{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "lodash",
		CurrentVersion: "4.17.21",
		LatestVersion:  "4.17.21",
		Vulnerabilities: &model.VulnerabilityReport{
			Critical:      1,
			Count:         1,
			SecurityScore: 75,
		},
	}

	s.Synthesize(context.Background(), rec, catalog.Normalization{Key: "lodash"}, now)

	// up to date and inside its support window, but a critical advisory
	// forces the record to critical regardless
	assert.Equal(t, model.VersionGapUpToDate, rec.VersionGap)
	assert.Equal(t, model.PriorityCritical, rec.Priority)
	assert.Equal(t, nextStepTemplates[model.PriorityCritical], rec.NextSteps)
}

func TestSynthesizeCombinesSignals(t *testing.T) {
	s := &Synthesizer{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "node.js",
		CurrentVersion: "16.20.0",
		LatestVersion:  "22.3.0",
		Lifecycle:      &model.LifecycleInfo{EOL: "2024-04-30", Support: "2023-10-30"},
	}
	norm := catalog.Normalization{Key: "node.js", Category: catalog.CategoryRuntime, Known: true}

	s.Synthesize(context.Background(), rec, norm, now)

	assert.Equal(t, model.PriorityCritical, rec.Priority)
	assert.Equal(t, "6 major version(s) behind", rec.VersionGap)
	assert.NotEmpty(t, rec.Summary)
	require.NotEmpty(t, rec.Recommendations)
	assert.Contains(t, rec.Recommendations[0], "major upgrade")
	assert.Contains(t, rec.Recommendations, categoryInsights[catalog.CategoryRuntime])
}

func TestSynthesizeUpToDateRecommendation(t *testing.T) {
	s := &Synthesizer{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "react",
		CurrentVersion: "18.2.0",
		LatestVersion:  "18.2.0",
		Vulnerabilities: &model.VulnerabilityReport{
			Entries:       []model.VulnerabilityEntry{},
			SecurityScore: 100,
		},
	}

	s.Synthesize(context.Background(), rec, catalog.Normalization{Key: "react", Category: catalog.CategoryFrontend}, now)

	assert.Equal(t, model.PriorityLow, rec.Priority)
	assert.Contains(t, rec.Recommendations, "No known vulnerabilities for this version.")
}

func TestSynthesizeIdempotent(t *testing.T) {
	s := &Synthesizer{}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	norm := catalog.Normalization{Key: "vue", Category: catalog.CategoryFrontend}

	rec := &model.TechnologyRecord{
		Technology:     "vue",
		CurrentVersion: "2.7.0",
		LatestVersion:  "3.4.0",
	}

	s.Synthesize(context.Background(), rec, norm, now)
	first := *rec
	s.Synthesize(context.Background(), rec, norm, now)

	assert.Equal(t, first.Priority, rec.Priority)
	assert.Equal(t, first.VersionGap, rec.VersionGap)
	assert.Equal(t, first.Summary, rec.Summary)
	assert.Equal(t, first.Recommendations, rec.Recommendations)
}

type fakeAI struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAI) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestSynthesizeAIRaisesPriority(t *testing.T) {
	ai := &fakeAI{response: `{"priority":"high","summary":"Upgrade soon.","recommendations":["Do the thing"],"nextSteps":["Step one"]}`}
	s := &Synthesizer{AI: ai}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "react",
		CurrentVersion: "18.2.0",
		LatestVersion:  "18.2.3",
	}

	s.Synthesize(context.Background(), rec, catalog.Normalization{Key: "react"}, now)

	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.Equal(t, "Upgrade soon.", rec.Summary)
	assert.Equal(t, []string{"Do the thing"}, rec.Recommendations)
	assert.Equal(t, []string{"Step one"}, rec.NextSteps)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "react")
}

func TestSynthesizeAICannotLowerPriority(t *testing.T) {
	ai := &fakeAI{response: `{"priority":"low","summary":"All fine."}`}
	s := &Synthesizer{AI: ai}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "angular",
		CurrentVersion: "14.0.0",
		LatestVersion:  "17.0.0",
	}

	s.Synthesize(context.Background(), rec, catalog.Normalization{Key: "angular"}, now)

	// deterministic critical (3 majors behind) is a floor
	assert.Equal(t, model.PriorityCritical, rec.Priority)
	// wording may still be replaced
	assert.Equal(t, "All fine.", rec.Summary)
}

func TestSynthesizeAIFailureKeepsDeterministicOutput(t *testing.T) {
	ai := &fakeAI{err: errors.New("model not loaded")}
	s := &Synthesizer{AI: ai}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rec := &model.TechnologyRecord{
		Technology:     "react",
		CurrentVersion: "17.0.0",
		LatestVersion:  "18.2.0",
	}

	s.Synthesize(context.Background(), rec, catalog.Normalization{Key: "react"}, now)

	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.NotEmpty(t, rec.Recommendations)
	assert.NotEmpty(t, rec.NextSteps)
}

func TestParseAdvice(t *testing.T) {
	advice, err := parseAdvice("Here you go:\n```json\n{\"priority\":\"high\",\"summary\":\"x\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "high", advice.Priority)

	_, err = parseAdvice("no json here")
	assert.Error(t, err)

	_, err = parseAdvice(`{"priority":"urgent"}`)
	assert.Error(t, err, "unknown priority values are rejected")
}
