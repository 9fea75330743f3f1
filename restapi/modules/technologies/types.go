// Package technologies implements the REST API handlers for the tracked
// technology records: CRUD, analysis, bulk operations, import/export and
// name suggestions.
package technologies

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/catalog"
	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/resolver"
	"github.com/stackwatch/stackwatch-backend/store"
)

// Deps carries the collaborators the handlers close over.
type Deps struct {
	Store    *store.TechnologyStore
	Analyzer *resolver.Analyzer
	Catalog  *catalog.Catalog

	// Inter-record pause for bulk operations, a rate-limit courtesy toward
	// the public registries rather than a correctness requirement.
	AnalyzeAllDelay time.Duration
	ImportDelay     time.Duration

	Logger *zap.Logger

	bulk *bulkState
}

// bulkState tracks the progress of a running analyze-all pass.
type bulkState struct {
	mu     sync.Mutex
	status model.BulkAnalysisStatus
}

// EnsureBulkState initializes the shared analyze-all progress tracker. The
// router calls it once before registering handlers; the handler closures each
// copy Deps, so the pointer must be set before they are built.
func (d *Deps) EnsureBulkState() {
	if d.bulk == nil {
		d.bulk = &bulkState{}
	}
}

func (d *Deps) bulkStatus() *bulkState {
	d.EnsureBulkState()
	return d.bulk
}

func (b *bulkState) snapshot() model.BulkAnalysisStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// begin marks a pass as started; false when one is already running.
func (b *bulkState) begin(total int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.Running {
		return false
	}
	b.status = model.BulkAnalysisStatus{Running: true, Total: total}
	return true
}

func (b *bulkState) progress(completed int, current string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.Completed = completed
	b.status.Current = current
}

func (b *bulkState) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.Running = false
	b.status.Current = ""
}
