// Package store persists technology records and discovered lifecycle slugs
// in ArangoDB.
package store

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"go.uber.org/zap"

	"github.com/stackwatch/stackwatch-backend/database"
	"github.com/stackwatch/stackwatch-backend/model"
)

// TechnologyStore is the persistence collaborator for the analysis pipeline
// and the API handlers. All record mutation goes through its methods.
type TechnologyStore struct {
	db     database.DBConnection
	logger *zap.Logger
}

// NewTechnologyStore wraps an initialized database connection.
func NewTechnologyStore(db database.DBConnection, logger *zap.Logger) *TechnologyStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TechnologyStore{db: db, logger: logger}
}

func (s *TechnologyStore) collection() arangodb.Collection {
	return s.db.Collections[database.TechnologyCollection]
}

// Create stores a new record and assigns its key.
func (s *TechnologyStore) Create(ctx context.Context, rec *model.TechnologyRecord) (*model.TechnologyRecord, error) {
	meta, err := s.collection().CreateDocument(ctx, rec)
	if err != nil {
		return nil, err
	}
	rec.Key = meta.Key
	return rec, nil
}

// Get loads one record by key.
func (s *TechnologyStore) Get(ctx context.Context, key string) (*model.TechnologyRecord, error) {
	var rec model.TechnologyRecord
	if _, err := s.collection().ReadDocument(ctx, key, &rec); err != nil {
		if shared.IsNotFound(err) {
			return nil, model.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List returns every record, oldest first.
func (s *TechnologyStore) List(ctx context.Context) ([]model.TechnologyRecord, error) {
	query := `
		FOR t IN technology
			SORT t.added_at ASC
			RETURN t
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	records := []model.TechnologyRecord{}
	for cursor.HasMore() {
		var rec model.TechnologyRecord
		if _, err := cursor.ReadDocument(ctx, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Keys returns every record key, used by the background sync to pick its
// random target without loading full documents.
func (s *TechnologyStore) Keys(ctx context.Context) ([]string, error) {
	query := `
		FOR t IN technology
			RETURN t._key
	`
	cursor, err := s.db.Database.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	keys := []string{}
	for cursor.HasMore() {
		var key string
		if _, err := cursor.ReadDocument(ctx, &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Update replaces a record in place. A key that no longer exists returns
// model.ErrRecordNotFound so in-flight analysis results for deleted records
// get discarded.
func (s *TechnologyStore) Update(ctx context.Context, rec *model.TechnologyRecord) error {
	if _, err := s.collection().ReplaceDocument(ctx, rec.Key, rec); err != nil {
		if shared.IsNotFound(err) {
			return model.ErrRecordNotFound
		}
		return err
	}
	return nil
}

// Delete removes one record.
func (s *TechnologyStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection().DeleteDocument(ctx, key); err != nil {
		if shared.IsNotFound(err) {
			return model.ErrRecordNotFound
		}
		return err
	}
	return nil
}

// DeleteAll clears the record list.
func (s *TechnologyStore) DeleteAll(ctx context.Context) error {
	return s.collection().Truncate(ctx)
}

// ReplaceAll swaps the full record list, the full-replace contract used by
// restores and imports of complete exports.
func (s *TechnologyStore) ReplaceAll(ctx context.Context, records []model.TechnologyRecord) error {
	if err := s.collection().Truncate(ctx); err != nil {
		return err
	}
	for i := range records {
		if _, err := s.collection().CreateDocument(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}
