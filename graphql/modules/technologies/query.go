// Package technologies defines the GraphQL queries for technology records.
package technologies

import (
	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/store"
)

// GetQueryFields returns the technology queries to be mounted in the root schema
func GetQueryFields(st *store.TechnologyStore) graphql.Fields {
	return graphql.Fields{
		"technologies": &graphql.Field{
			Type: graphql.NewList(TechnologyType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveTechnologies(p, st)
			},
		},
		"technology": &graphql.Field{
			Type: TechnologyType,
			Args: graphql.FieldConfigArgument{
				"key": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				key := p.Args["key"].(string)
				return ResolveTechnology(p, st, key)
			},
		},
	}
}
