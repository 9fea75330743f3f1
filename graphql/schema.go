// Package graphql assembles the root query schema from the module fields.
package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/graphql/modules/dashboard"
	"github.com/stackwatch/stackwatch-backend/graphql/modules/technologies"
	"github.com/stackwatch/stackwatch-backend/store"
)

// CreateSchema builds the root schema over the given store.
func CreateSchema(st *store.TechnologyStore) (gql.Schema, error) {
	fields := gql.Fields{}
	for name, field := range dashboard.GetQueryFields(st) {
		fields[name] = field
	}
	for name, field := range technologies.GetQueryFields(st) {
		fields[name] = field
	}

	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return gql.NewSchema(gql.SchemaConfig{Query: rootQuery})
}
