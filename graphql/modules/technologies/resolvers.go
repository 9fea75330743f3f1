package technologies

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/store"
)

// ResolveTechnologies returns every tracked record, oldest first.
func ResolveTechnologies(p graphql.ResolveParams, st *store.TechnologyStore) (interface{}, error) {
	return st.List(p.Context)
}

// ResolveTechnology returns a single record by key, or nil when it does not exist.
func ResolveTechnology(p graphql.ResolveParams, st *store.TechnologyStore, key string) (interface{}, error) {
	rec, err := st.Get(p.Context, key)
	if errors.Is(err, model.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
