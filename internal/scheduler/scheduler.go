// Package scheduler runs the periodic background refresh of tracked records.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/resolver"
	"github.com/stackwatch/stackwatch-backend/store"
	"github.com/stackwatch/stackwatch-backend/util"
)

// DefaultInterval is used when SYNC_INTERVAL_MINUTES is unset or invalid.
const DefaultInterval = 5 * time.Minute

// RecordLister supplies the candidate keys for a refresh tick.
type RecordLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// RecordAnalyzer runs one full analysis pass for a key.
type RecordAnalyzer interface {
	AnalyzeAndSave(ctx context.Context, key string) (*model.TechnologyRecord, error)
}

// Scheduler re-analyzes one stored record per tick so the whole portfolio
// drifts toward freshness without hammering the upstream APIs.
type Scheduler struct {
	Store    RecordLister
	Analyzer RecordAnalyzer
	Interval time.Duration
	Logger   *zap.Logger
}

// New builds a scheduler with the interval taken from the environment.
func New(st *store.TechnologyStore, an *resolver.Analyzer, logger *zap.Logger) *Scheduler {
	minutes := util.GetEnvInt("SYNC_INTERVAL_MINUTES", 0)
	interval := DefaultInterval
	if minutes > 0 {
		interval = time.Duration(minutes) * time.Minute
	}
	return &Scheduler{Store: st, Analyzer: an, Interval: interval, Logger: logger}
}

// Start blocks until ctx is cancelled, refreshing one record per tick.
func (s *Scheduler) Start(ctx context.Context) {
	s.Logger.Sugar().Infof("Background sync started, interval %s", s.Interval)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("Background sync stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	keys, err := s.Store.Keys(ctx)
	if err != nil {
		s.Logger.Sugar().Warnf("Background sync: listing records failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}

	key := keys[rand.Intn(len(keys))]
	s.Logger.Sugar().Infof("Background sync: refreshing record %s", key)

	if _, err := s.Analyzer.AnalyzeAndSave(ctx, key); err != nil {
		s.Logger.Sugar().Warnf("Background sync: refresh of %s failed: %v", key, err)
	}
}
