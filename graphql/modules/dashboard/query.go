package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/store"
)

// GetQueryFields returns the dashboard queries to be mounted in the root schema
func GetQueryFields(st *store.TechnologyStore) graphql.Fields {
	return graphql.Fields{
		"dashboardStats": &graphql.Field{
			Type: DashboardStatsType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolveStats(p, st)
			},
		},
		"priorityDistribution": &graphql.Field{
			Type: PriorityDistributionType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return ResolvePriorityDistribution(p, st)
			},
		},
	}
}
