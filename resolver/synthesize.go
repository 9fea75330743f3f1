package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/util"
)

// Synthesizer combines version-gap, lifecycle and vulnerability signals into
// one priority plus human-readable recommendations. The AI collaborator is
// advisory only: deterministic rules set a floor it can raise, never lower.
type Synthesizer struct {
	AI     TextGenerator
	Logger *zap.Logger
}

// gapEvaluation is the version-distance portion of the synthesis.
type gapEvaluation struct {
	priority model.Priority
	gap      string
	detail   string
}

// EvaluateVersionGap compares current and latest as dot-integer triples with
// missing components treated as zero. Major distance dominates.
func EvaluateVersionGap(currentVersion, latestVersion string) (model.Priority, string) {
	e := evaluateVersionGap(currentVersion, latestVersion)
	return e.priority, e.gap
}

func evaluateVersionGap(currentVersion, latestVersion string) gapEvaluation {
	if latestVersion == "" || latestVersion == model.UnknownVersion {
		return gapEvaluation{priority: model.PriorityMedium, gap: model.VersionGapUnknown}
	}

	current := util.ParseSemanticVersion(util.CleanVersion(currentVersion))
	latest := util.ParseSemanticVersion(util.CleanVersion(latestVersion))
	if current.Major == nil || latest.Major == nil {
		return gapEvaluation{priority: model.PriorityMedium, gap: model.VersionGapComparisonFailed}
	}

	intOrZero := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}

	majorDiff := intOrZero(latest.Major) - intOrZero(current.Major)
	minorDiff := intOrZero(latest.Minor) - intOrZero(current.Minor)
	patchDiff := intOrZero(latest.Patch) - intOrZero(current.Patch)

	switch {
	case majorDiff > 0:
		priority := model.PriorityHigh
		if majorDiff >= 2 {
			priority = model.PriorityCritical
		}
		return gapEvaluation{
			priority: priority,
			gap:      fmt.Sprintf("%d major version(s) behind", majorDiff),
			detail:   fmt.Sprintf("Plan a major upgrade from %s to %s.", currentVersion, latestVersion),
		}
	case majorDiff == 0 && minorDiff > 0:
		priority := model.PriorityMedium
		if minorDiff >= 5 {
			priority = model.PriorityHigh
		}
		return gapEvaluation{
			priority: priority,
			gap:      fmt.Sprintf("%d minor version(s) behind", minorDiff),
			detail:   fmt.Sprintf("Update to %s during a regular maintenance window.", latestVersion),
		}
	case majorDiff == 0 && minorDiff == 0 && patchDiff > 0:
		return gapEvaluation{
			priority: model.PriorityLow,
			gap:      fmt.Sprintf("%d patch version(s) behind", patchDiff),
			detail:   fmt.Sprintf("Apply the %s patch release when convenient.", latestVersion),
		}
	}
	return gapEvaluation{priority: model.PriorityLow, gap: model.VersionGapUpToDate}
}

// lifecycleEvaluation carries the date-derived urgency and any warning text.
type lifecycleEvaluation struct {
	priority model.Priority
	warnings []string
}

// EvaluateLifecycle derives urgency from the support-end and EOL dates
// independently and keeps the worse of the two.
func EvaluateLifecycle(info *model.LifecycleInfo, now time.Time) model.Priority {
	return evaluateLifecycle(info, now).priority
}

func evaluateLifecycle(info *model.LifecycleInfo, now time.Time) lifecycleEvaluation {
	if info == nil {
		return lifecycleEvaluation{priority: model.PriorityLow}
	}

	eval := lifecycleEvaluation{priority: model.PriorityLow}
	apply := func(priority model.Priority, warning string) {
		if priority.Rank() > eval.priority.Rank() {
			eval.priority = priority
		}
		if warning != "" {
			eval.warnings = append(eval.warnings, warning)
		}
	}

	if p, warning := dateUrgency(info.EOL, "end-of-life", now); p.Valid() {
		apply(p, warning)
	}
	if p, warning := dateUrgency(info.Support, "active support", now); p.Valid() {
		apply(p, warning)
	}
	return eval
}

// Proximity thresholds stepping lifecycle urgency down from critical.
const (
	lifecycleCriticalDays = 90
	lifecycleHighDays     = 365
	lifecycleMediumDays   = 3 * 365
)

// dateUrgency evaluates one lifecycle date string. Unparseable text degrades
// to a textual classification, never an error.
func dateUrgency(raw, label string, now time.Time) (model.Priority, string) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "not specified" || s == "active" {
		return model.PriorityLow, ""
	}

	if date, ok := util.ParseLifecycleDate(raw); ok {
		days := util.DaysUntil(date, now)
		switch {
		case days < 0:
			return model.PriorityCritical, fmt.Sprintf("The %s window ended on %s; this version is already end-of-life and no longer receives security updates.", label, raw)
		case days < lifecycleCriticalDays:
			return model.PriorityCritical, fmt.Sprintf("The %s window ends on %s (%d days); an immediate upgrade is required.", label, raw, days)
		case days < lifecycleHighDays:
			return model.PriorityHigh, fmt.Sprintf("The %s window ends on %s; schedule an upgrade within the year.", label, raw)
		case days < lifecycleMediumDays:
			return model.PriorityMedium, ""
		default:
			return model.PriorityLow, ""
		}
	}

	// Textual lifecycle descriptions.
	switch {
	case strings.Contains(s, "rolling"), strings.Contains(s, "ongoing"):
		return model.PriorityLow, ""
	case s == "true":
		// The lifecycle API published "already EOL" without a date.
		return model.PriorityCritical, fmt.Sprintf("This version is already end-of-life (%s) and no longer receives security updates.", label)
	case strings.Contains(s, "lts"), strings.Contains(s, "month"):
		return model.PriorityMedium, ""
	}
	return model.PriorityLow, ""
}

// EvaluateVulnerabilities returns the override priority a report forces.
func EvaluateVulnerabilities(report *model.VulnerabilityReport) model.Priority {
	switch {
	case report == nil:
		return model.PriorityLow
	case report.Critical > 0:
		return model.PriorityCritical
	case report.High > 0:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

// Synthesize fills the record's priority, version gap, recommendations and
// next steps from whatever subset of resolution data is present.
func (s *Synthesizer) Synthesize(ctx context.Context, rec *model.TechnologyRecord, norm catalog.Normalization, now time.Time) {
	gap := evaluateVersionGap(rec.CurrentVersion, rec.LatestVersion)
	lifecycle := evaluateLifecycle(rec.Lifecycle, now)
	vulnPriority := EvaluateVulnerabilities(rec.Vulnerabilities)

	priority := model.MaxPriority(gap.priority, lifecycle.priority, vulnPriority)

	rec.VersionGap = gap.gap
	rec.Priority = priority
	rec.Recommendations = s.recommendations(rec, norm, gap, lifecycle)
	rec.NextSteps = nextStepTemplates[priority]
	rec.Summary = s.summary(rec, priority)

	if s.AI != nil {
		s.consultAI(ctx, rec, norm, priority)
	}
}

func (s *Synthesizer) recommendations(rec *model.TechnologyRecord, norm catalog.Normalization, gap gapEvaluation, lifecycle lifecycleEvaluation) []string {
	var recs []string

	if gap.detail != "" {
		recs = append(recs, gap.detail)
	} else if gap.gap == model.VersionGapUpToDate {
		recs = append(recs, fmt.Sprintf("%s %s is current; keep tracking new releases.", rec.Technology, rec.CurrentVersion))
	} else if gap.gap == model.VersionGapUnknown || gap.gap == model.VersionGapComparisonFailed {
		recs = append(recs, fmt.Sprintf("Verify the latest %s release manually at %s.", rec.Technology, rec.CheckURL))
	}

	recs = append(recs, lifecycle.warnings...)

	if report := rec.Vulnerabilities; report != nil {
		switch {
		case report.RuntimeTechnology:
			recs = append(recs, report.Note)
		case report.Critical > 0:
			recs = append(recs, fmt.Sprintf("%d critical and %d high severity advisories affect %s %s; remediate before any other work.", report.Critical, report.High, rec.Technology, rec.CurrentVersion))
		case report.High > 0:
			recs = append(recs, fmt.Sprintf("%d high severity advisories affect %s %s; prioritize the fixed release.", report.High, rec.Technology, rec.CurrentVersion))
		case report.Count == 0:
			recs = append(recs, "No known vulnerabilities for this version.")
		}
	}

	if insight, ok := categoryInsights[norm.Category]; ok {
		recs = append(recs, insight)
	}
	return recs
}

func (s *Synthesizer) summary(rec *model.TechnologyRecord, priority model.Priority) string {
	return fmt.Sprintf("%s %s: %s priority (%s).", rec.Technology, rec.CurrentVersion, priority, rec.VersionGap)
}

var nextStepTemplates = map[model.Priority][]string{
	model.PriorityCritical: {
		"Schedule the upgrade within the next 1-2 weeks",
		"Create a detailed upgrade plan with rollback steps",
		"Set up a testing environment for the target version",
		"Assign a dedicated team to the migration",
	},
	model.PriorityHigh: {
		"Plan the upgrade for the next quarter",
		"Review breaking changes in the release notes",
		"Audit dependencies for compatibility",
	},
	model.PriorityMedium: {
		"Include the upgrade in the next release cycle",
		"Monitor the vendor's announcements for schedule changes",
	},
	model.PriorityLow: {
		"Continue monitoring for new releases",
		"No immediate action required",
	},
}

var categoryInsights = map[string]string{
	catalog.CategoryFrontend:         "Frontend frameworks move quickly; budget for breaking changes between majors.",
	catalog.CategoryBackend:          "Backend framework upgrades need regression coverage on request handling paths.",
	catalog.CategoryDatabase:         "Database upgrades require a tested backup/restore path before migration.",
	catalog.CategoryLanguage:         "Language runtime upgrades affect every dependency; validate the full build chain.",
	catalog.CategoryRuntime:          "Runtime upgrades affect every dependency; validate the full build chain.",
	catalog.CategoryOrchestration:    "Orchestration upgrades should roll through staging clusters first.",
	catalog.CategoryContainerization: "Container engine upgrades need node-by-node rollout with workload draining.",
	catalog.CategoryWebserver:        "Web server upgrades should be canaried behind the load balancer.",
	catalog.CategorySearch:           "Search cluster upgrades need index compatibility verification.",
	catalog.CategoryBuild:            "Build tool upgrades should be verified in CI before developer rollout.",
}

// aiAdvice is the only response shape accepted from the AI collaborator.
type aiAdvice struct {
	Priority        string   `json:"priority"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	NextSteps       []string `json:"nextSteps"`
}

// consultAI asks the collaborator for richer wording. The response must parse
// as the strict JSON shape; its priority can only raise the deterministic
// result, and any failure leaves the deterministic output untouched.
func (s *Synthesizer) consultAI(ctx context.Context, rec *model.TechnologyRecord, norm catalog.Normalization, floor model.Priority) {
	log := s.logger().Sugar()

	response, err := s.AI.Generate(ctx, buildPrompt(rec, norm))
	if err != nil {
		log.Debugf("ai collaborator unavailable for %s: %v", rec.Technology, err)
		return
	}

	advice, err := parseAdvice(response)
	if err != nil {
		log.Debugf("discarding unparseable ai response for %s: %v", rec.Technology, err)
		return
	}

	if p := model.Priority(advice.Priority); p.Valid() && p.Rank() > floor.Rank() {
		rec.Priority = p
	}
	if advice.Summary != "" {
		rec.Summary = advice.Summary
	}
	if len(advice.Recommendations) > 0 {
		rec.Recommendations = advice.Recommendations
	}
	if len(advice.NextSteps) > 0 {
		rec.NextSteps = advice.NextSteps
	}
}

func buildPrompt(rec *model.TechnologyRecord, norm catalog.Normalization) string {
	var b strings.Builder
	b.WriteString("You are assessing upgrade urgency for a tracked technology.\n")
	b.WriteString("Use ONLY the facts below. Do not invent version numbers or dates that are not listed.\n\n")
	fmt.Fprintf(&b, "Technology: %s (category: %s)\n", rec.Technology, norm.Category)
	fmt.Fprintf(&b, "Version in use: %s\n", rec.CurrentVersion)
	fmt.Fprintf(&b, "Latest version: %s\n", rec.LatestVersion)
	fmt.Fprintf(&b, "Version gap: %s\n", rec.VersionGap)
	if rec.Lifecycle != nil {
		fmt.Fprintf(&b, "End-of-life: %s (support until: %s, source: %s)\n", rec.Lifecycle.EOL, rec.Lifecycle.Support, rec.Lifecycle.Source)
	}
	if report := rec.Vulnerabilities; report != nil {
		if report.RuntimeTechnology {
			b.WriteString("Vulnerabilities: vendor-managed, no ecosystem feed\n")
		} else {
			fmt.Fprintf(&b, "Vulnerabilities: %d total (%d critical, %d high, %d medium, %d low), security score %d/100\n",
				report.Count, report.Critical, report.High, report.Medium, report.Low, report.SecurityScore)
		}
	}
	fmt.Fprintf(&b, "Rule-based priority: %s\n\n", rec.Priority)
	b.WriteString(`Respond with a single JSON object: {"priority": "critical|high|medium|low", "summary": "...", "recommendations": ["..."], "nextSteps": ["..."]}`)
	return b.String()
}

// parseAdvice extracts and validates the JSON object from the model's text.
func parseAdvice(response string) (*aiAdvice, error) {
	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var advice aiAdvice
	if err := json.Unmarshal([]byte(response[start:end+1]), &advice); err != nil {
		return nil, err
	}
	if advice.Priority != "" && !model.Priority(advice.Priority).Valid() {
		return nil, fmt.Errorf("invalid priority %q", advice.Priority)
	}
	return &advice, nil
}

func (s *Synthesizer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
