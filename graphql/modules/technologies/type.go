// Package technologies defines the GraphQL types for technology records.
package technologies

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/model"
)

// sourceRecord unwraps the resolver source for both value and pointer forms.
func sourceRecord(p graphql.ResolveParams) (*model.TechnologyRecord, bool) {
	switch rec := p.Source.(type) {
	case *model.TechnologyRecord:
		return rec, true
	case model.TechnologyRecord:
		return &rec, true
	}
	return nil, false
}

func formatTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

// LifecycleType represents the resolved EOL/support data for a record
var LifecycleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Lifecycle",
	Fields: graphql.Fields{
		"eol":     &graphql.Field{Type: graphql.String},
		"support": &graphql.Field{Type: graphql.String},
		"lts":     &graphql.Field{Type: graphql.Boolean},
		"cycle":   &graphql.Field{Type: graphql.String},
		"source":  &graphql.Field{Type: graphql.String},
	},
})

// VulnerabilityEntryType represents one advisory affecting a record
var VulnerabilityEntryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VulnerabilityEntry",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.String},
		"severity":   &graphql.Field{Type: graphql.String},
		"score":      &graphql.Field{Type: graphql.Float},
		"summary":    &graphql.Field{Type: graphql.String},
		"published":  &graphql.Field{Type: graphql.String},
		"modified":   &graphql.Field{Type: graphql.String},
		"aliases":    &graphql.Field{Type: graphql.NewList(graphql.String)},
		"references": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"fixed_in":   &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// VulnerabilityReportType represents the aggregated advisory data for a record
var VulnerabilityReportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VulnerabilityReport",
	Fields: graphql.Fields{
		"entries":            &graphql.Field{Type: graphql.NewList(VulnerabilityEntryType)},
		"count":              &graphql.Field{Type: graphql.Int},
		"critical":           &graphql.Field{Type: graphql.Int},
		"high":               &graphql.Field{Type: graphql.Int},
		"medium":             &graphql.Field{Type: graphql.Int},
		"low":                &graphql.Field{Type: graphql.Int},
		"security_score":     &graphql.Field{Type: graphql.Int},
		"ecosystem":          &graphql.Field{Type: graphql.String},
		"runtime_technology": &graphql.Field{Type: graphql.Boolean},
		"note":               &graphql.Field{Type: graphql.String},
	},
})

// TechnologyType represents a tracked technology record
var TechnologyType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Technology",
	Fields: graphql.Fields{
		"key": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if rec, ok := sourceRecord(p); ok {
					return rec.Key, nil
				}
				return nil, nil
			},
		},
		"technology":      &graphql.Field{Type: graphql.String},
		"current_version": &graphql.Field{Type: graphql.String},
		"product":         &graphql.Field{Type: graphql.String},
		"notes":           &graphql.Field{Type: graphql.String},
		"latest_version":  &graphql.Field{Type: graphql.String},
		"check_url":       &graphql.Field{Type: graphql.String},
		"version_source":  &graphql.Field{Type: graphql.String},
		"lifecycle":       &graphql.Field{Type: LifecycleType},
		"vulnerabilities": &graphql.Field{Type: VulnerabilityReportType},
		"priority":        &graphql.Field{Type: graphql.String},
		"version_gap":     &graphql.Field{Type: graphql.String},
		"summary":         &graphql.Field{Type: graphql.String},
		"recommendations": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"next_steps":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"added_at": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if rec, ok := sourceRecord(p); ok {
					return formatTime(rec.AddedAt), nil
				}
				return nil, nil
			},
		},
		"last_analyzed": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if rec, ok := sourceRecord(p); ok {
					return formatTime(rec.LastAnalyzed), nil
				}
				return nil, nil
			},
		},
	},
})
