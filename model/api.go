// Package model - API types for requests/responses on the REST surface.
package model

// TechnologyRequest is the body for creating or updating a record.
type TechnologyRequest struct {
	Technology     string `json:"technology"`
	CurrentVersion string `json:"current_version"`
	Product        string `json:"product,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ImportRequest carries pre-parsed bulk rows. Row parsing (CSV, pasted text)
// happens upstream; the service only ingests structured rows.
type ImportRequest struct {
	Rows []TechnologyRequest `json:"rows"`
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// BulkAnalysisStatus is the progress of a running analyze-all pass.
type BulkAnalysisStatus struct {
	Running   bool   `json:"running"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Current   string `json:"current,omitempty"`
}

// DashboardStats aggregates the record list for the dashboard cards.
type DashboardStats struct {
	Total              int `json:"total"`
	Critical           int `json:"critical"`
	UpgradeRecommended int `json:"upgrade_recommended"`
	UpToDate           int `json:"up_to_date"`
	Analyzed           int `json:"analyzed"`
}

// PriorityDistribution holds per-priority record counts. None counts records
// that have not been analyzed yet.
type PriorityDistribution struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
}
