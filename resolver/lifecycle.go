package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/util"
)

// Provenance values recorded in LifecycleInfo.Source.
const (
	SourceVersionSpecific = "version-specific"
	SourceStaticTable     = "static"
	SourceAPISpecific     = "api-specific"
	SourceAPILatest       = "api-latest"
	SourcePattern         = "pattern"
)

type staticCycle struct {
	eol     string
	support string
	lts     bool
}

// Version-exact lifecycle schedules for runtimes whose calendars are fixed
// and well documented. Keyed by the major release identifier.
var javaLifecycle = map[string]staticCycle{
	"8":  {eol: "2030-12", support: "2030-12", lts: true},
	"11": {eol: "2026-09", support: "2024-09", lts: true},
	"17": {eol: "2029-09", support: "2027-09", lts: true},
	"21": {eol: "2031-09", support: "2029-09", lts: true},
	"22": {eol: "2025-03", support: "2025-03"},
	"23": {eol: "2025-09", support: "2025-09"},
	"24": {eol: "2026-03", support: "2026-03"},
	"25": {eol: "2033-09", support: "2031-09", lts: true},
}

var nodeLifecycle = map[string]staticCycle{
	"16": {eol: "2024-04-30", support: "2023-10-30", lts: true},
	"18": {eol: "2025-04-30", support: "2024-10-30", lts: true},
	"20": {eol: "2026-04-30", support: "2025-10-30", lts: true},
	"21": {eol: "2024-06-01", support: "2024-06-01"},
	"22": {eol: "2027-04-30", support: "2026-10-30", lts: true},
	"23": {eol: "2024-06-01", support: "2024-06-01"},
}

// Python versions its minor releases as distinct support lines; keys carry
// the full "3.x" identifier.
var pythonLifecycle = map[string]staticCycle{
	"3.8":  {eol: "2024-10"},
	"3.9":  {eol: "2025-10"},
	"3.10": {eol: "2026-10"},
	"3.11": {eol: "2027-10"},
	"3.12": {eol: "2028-10"},
	"3.13": {eol: "2029-10"},
}

var versionedLifecycles = map[string]map[string]staticCycle{
	"java":    javaLifecycle,
	"node.js": nodeLifecycle,
	"python":  pythonLifecycle,
}

// LifecycleResolver determines EOL and support-end data for the version in
// use through a strict precedence: version-exact static table, general static
// description, the public lifecycle API, then hand-authored textual patterns.
type LifecycleResolver struct {
	API       LifecycleSource
	Discovery *catalog.Discoverer
	Logger    *zap.Logger
}

// Resolve returns the lifecycle info with its provenance, or
// ErrNoLifecycleData when every tier comes up empty.
func (r *LifecycleResolver) Resolve(ctx context.Context, norm catalog.Normalization, currentVersion string) (*model.LifecycleInfo, error) {
	major := util.MajorIdentifier(currentVersion)

	// Tier 1: version-exact static table.
	if table, ok := versionedLifecycles[norm.Key]; ok {
		if cycle, ok := r.lookupStatic(table, currentVersion, major); ok {
			return &model.LifecycleInfo{
				EOL:     cycle.eol,
				Support: cycle.support,
				LTS:     cycle.lts,
				Cycle:   major,
				Source:  SourceVersionSpecific,
			}, nil
		}
	}

	// Tier 2: general static lifecycle description.
	if norm.Tech != nil && norm.Tech.StaticEOL != "" {
		return &model.LifecycleInfo{
			EOL:     norm.Tech.StaticEOL,
			Support: norm.Tech.StaticSupport,
			LTS:     norm.Tech.StaticLTS,
			Source:  SourceStaticTable,
		}, nil
	}

	// Tier 3: lifecycle API.
	if info := r.resolveFromAPI(ctx, norm, currentVersion, major); info != nil {
		return info, nil
	}

	// Tier 4: textual pattern fallback.
	if norm.Tech != nil && norm.Tech.EOLPattern != "" {
		return &model.LifecycleInfo{
			EOL:    norm.Tech.EOLPattern,
			Source: SourcePattern,
		}, nil
	}

	return nil, ErrNoLifecycleData
}

func (r *LifecycleResolver) lookupStatic(table map[string]staticCycle, currentVersion, major string) (staticCycle, bool) {
	if cycle, ok := table[strings.TrimSpace(currentVersion)]; ok {
		return cycle, true
	}
	if cycle, ok := table[major]; ok {
		return cycle, true
	}
	// Minor-versioned lines are also reachable by bare major identifier.
	if cycle, ok := table["3."+major]; ok {
		return cycle, true
	}
	return staticCycle{}, false
}

func (r *LifecycleResolver) resolveFromAPI(ctx context.Context, norm catalog.Normalization, currentVersion, major string) *model.LifecycleInfo {
	if r.API == nil {
		return nil
	}

	var slugs []string
	if norm.Tech != nil {
		slugs = norm.Tech.EOLSlugs
	}
	if len(slugs) == 0 && r.Discovery != nil {
		if slug, ok := r.Discovery.Discover(ctx, norm.Key); ok {
			slugs = []string{slug}
		}
	}

	log := r.logger().Sugar()
	for _, slug := range slugs {
		cycles, err := r.API.GetCycles(ctx, slug)
		if err != nil {
			log.Debugf("lifecycle lookup failed for %s: %v", slug, err)
			continue
		}

		for _, c := range cycles {
			if c.Cycle == major || c.Cycle == currentVersion || (major != "" && strings.HasPrefix(c.Latest, major)) {
				return &model.LifecycleInfo{
					EOL:     c.EOL,
					Support: c.Support,
					LTS:     c.LTS,
					Cycle:   c.Cycle,
					Source:  SourceAPISpecific,
				}
			}
		}

		// Without a version to match, the newest cycle is the best answer.
		// With a version and no matching cycle, substituting the newest
		// cycle's dates would be misleading, so this tier reports nothing.
		if currentVersion == "" && len(cycles) > 0 {
			c := cycles[0]
			return &model.LifecycleInfo{
				EOL:     c.EOL,
				Support: c.Support,
				LTS:     c.LTS,
				Cycle:   c.Cycle,
				Source:  SourceAPILatest,
			}
		}
	}
	return nil
}

func (r *LifecycleResolver) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
