// Package dashboard defines the GraphQL types for the dashboard.
package dashboard

import (
	"github.com/graphql-go/graphql"
)

// DashboardStatsType represents the top-card counters on the dashboard
var DashboardStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "DashboardStats",
	Fields: graphql.Fields{
		"total":               &graphql.Field{Type: graphql.Int},
		"critical":            &graphql.Field{Type: graphql.Int},
		"upgrade_recommended": &graphql.Field{Type: graphql.Int},
		"up_to_date":          &graphql.Field{Type: graphql.Int},
		"analyzed":            &graphql.Field{Type: graphql.Int},
	},
})

// PriorityDistributionType represents the count of records per priority level
var PriorityDistributionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PriorityDistribution",
	Fields: graphql.Fields{
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
		"none":     &graphql.Field{Type: graphql.Int},
	},
})
