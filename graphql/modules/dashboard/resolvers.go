package dashboard

import (
	"github.com/graphql-go/graphql"

	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/store"
)

// ResolveStats computes the dashboard top-card counters from the stored records.
func ResolveStats(p graphql.ResolveParams, st *store.TechnologyStore) (interface{}, error) {
	records, err := st.List(p.Context)
	if err != nil {
		return nil, err
	}

	stats := model.DashboardStats{Total: len(records)}
	for _, rec := range records {
		switch rec.Priority {
		case model.PriorityCritical:
			stats.Critical++
			stats.UpgradeRecommended++
		case model.PriorityHigh:
			stats.UpgradeRecommended++
		}
		if rec.VersionGap == model.VersionGapUpToDate {
			stats.UpToDate++
		}
		if !rec.LastAnalyzed.IsZero() {
			stats.Analyzed++
		}
	}
	return stats, nil
}

// ResolvePriorityDistribution counts records per priority level. Records that
// have not been analyzed yet land in the "none" bucket.
func ResolvePriorityDistribution(p graphql.ResolveParams, st *store.TechnologyStore) (interface{}, error) {
	records, err := st.List(p.Context)
	if err != nil {
		return nil, err
	}

	var dist model.PriorityDistribution
	for _, rec := range records {
		switch rec.Priority {
		case model.PriorityCritical:
			dist.Critical++
		case model.PriorityHigh:
			dist.High++
		case model.PriorityMedium:
			dist.Medium++
		case model.PriorityLow:
			dist.Low++
		default:
			dist.None++
		}
	}
	return dist, nil
}
