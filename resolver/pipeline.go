package resolver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/util"
)

// RecordStore is the persistence collaborator the pipeline saves through.
// Update must return model.ErrRecordNotFound for keys that no longer exist.
type RecordStore interface {
	Get(ctx context.Context, key string) (*model.TechnologyRecord, error)
	Update(ctx context.Context, rec *model.TechnologyRecord) error
}

// Analyzer runs the full resolution pass for one record: version, lifecycle,
// vulnerabilities, then synthesis. Sub-resolutions run sequentially to bound
// outstanding requests against rate-limited public APIs; each may fail
// independently without aborting the pass.
type Analyzer struct {
	Catalog         *catalog.Catalog
	Versions        *VersionResolver
	Lifecycle       *LifecycleResolver
	Vulnerabilities *VulnerabilityResolver
	Synthesizer     *Synthesizer
	Store           RecordStore
	Now             func() time.Time
	Logger          *zap.Logger
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// Analyze mutates the record in place with one complete pass. Partial source
// failures leave the corresponding field groups absent; the synthesized
// priority, version gap and check URL are always populated.
func (a *Analyzer) Analyze(ctx context.Context, rec *model.TechnologyRecord) {
	log := a.logger().Sugar()
	norm := a.Catalog.Normalize(rec.Technology)
	rec.ParseAndSetVersion()

	log.Debugf("resolving version for %s", norm.Key)
	result, err := a.Versions.Resolve(ctx, norm)
	if err != nil {
		rec.LatestVersion = model.UnknownVersion
		rec.CheckURL = util.SearchURL(rec.Technology)
		rec.VersionSource = ""
	} else {
		rec.LatestVersion = result.LatestVersion
		rec.CheckURL = result.CheckURL
		rec.VersionSource = result.Source
		if rec.CheckURL == "" {
			rec.CheckURL = util.SearchURL(rec.Technology)
		}
	}

	log.Debugf("resolving lifecycle for %s", norm.Key)
	info, err := a.Lifecycle.Resolve(ctx, norm, rec.CurrentVersion)
	if err != nil {
		rec.Lifecycle = nil
	} else {
		rec.Lifecycle = info
	}

	log.Debugf("resolving vulnerabilities for %s", norm.Key)
	pkg, ecosystem := packageIdentity(norm, result)
	rec.Vulnerabilities = a.Vulnerabilities.Resolve(ctx, norm, pkg, ecosystem, rec.CurrentVersion)

	log.Debugf("synthesizing priority for %s", norm.Key)
	a.Synthesizer.Synthesize(ctx, rec, norm, a.now())
	rec.LastAnalyzed = a.now()
}

// packageIdentity derives the advisory lookup identity from the source that
// won version resolution. Only registry sources imply an ecosystem.
func packageIdentity(norm catalog.Normalization, result VersionResult) (pkg, ecosystem string) {
	ecosystem = result.Ecosystem()
	if ecosystem == "" {
		return "", ""
	}
	pkg = norm.Key
	if norm.Tech != nil {
		switch result.Source {
		case catalog.SourceNpm:
			if norm.Tech.Npm != "" {
				pkg = norm.Tech.Npm
			}
		case catalog.SourcePyPI:
			if norm.Tech.PyPI != "" {
				pkg = norm.Tech.PyPI
			}
		}
	}
	return pkg, ecosystem
}

// AnalyzeAndSave loads a record, runs a pass and persists the result. When
// the record was deleted while the pass was running the result is discarded.
func (a *Analyzer) AnalyzeAndSave(ctx context.Context, key string) (*model.TechnologyRecord, error) {
	rec, err := a.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	a.Analyze(ctx, rec)

	if err := a.Store.Update(ctx, rec); err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			a.logger().Sugar().Infof("record %s deleted during analysis; discarding result", key)
		}
		return nil, err
	}
	return rec, nil
}

func (a *Analyzer) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
