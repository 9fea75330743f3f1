package store

import (
	"context"

	"github.com/arangodb/go-driver/v2/arangodb"

	"github.com/stackwatch/stackwatch-backend/database"
)

// slugMapping is one discovered canonical-key to lifecycle-slug mapping.
type slugMapping struct {
	Key  string `json:"key"`
	Slug string `json:"slug"`
}

// SlugCache persists lifecycle slugs discovered by fuzzy matching so the
// live product list only has to be consulted once per technology. Implements
// catalog.SlugCache.
type SlugCache struct {
	db database.DBConnection
}

// NewSlugCache wraps an initialized database connection.
func NewSlugCache(db database.DBConnection) *SlugCache {
	return &SlugCache{db: db}
}

// GetSlug returns the cached slug for a canonical key.
func (c *SlugCache) GetSlug(ctx context.Context, key string) (string, bool, error) {
	query := `
		FOR m IN slugcache
			FILTER m.key == @key
			LIMIT 1
			RETURN m.slug
	`
	cursor, err := c.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return "", false, err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var slug string
		if _, err := cursor.ReadDocument(ctx, &slug); err != nil {
			return "", false, err
		}
		return slug, true, nil
	}
	return "", false, nil
}

// SaveSlug stores or refreshes the mapping for a canonical key.
func (c *SlugCache) SaveSlug(ctx context.Context, key, slug string) error {
	query := `
		UPSERT { key: @key }
			INSERT { key: @key, slug: @slug }
			UPDATE { slug: @slug }
		IN slugcache
	`
	cursor, err := c.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key, "slug": slug},
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}
