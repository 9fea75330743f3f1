package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultOSVURL = "https://api.osv.dev"

// OSVClient queries the OSV vulnerability database.
type OSVClient struct {
	// BaseURL allows overriding the API URL for testing.
	BaseURL string
	http    *retryablehttp.Client
}

// NewOSVClient creates a client against the public OSV API.
func NewOSVClient() *OSVClient {
	return &OSVClient{
		BaseURL: defaultOSVURL,
		http:    newHTTPClient(),
	}
}

type osvQuery struct {
	Package struct {
		Name      string `json:"name"`
		Ecosystem string `json:"ecosystem"`
	} `json:"package"`
	Version string `json:"version,omitempty"`
}

type osvQueryResponse struct {
	Vulns []models.Vulnerability `json:"vulns"`
}

// QueryVulnerabilities returns the advisories affecting a package version
// within an ecosystem. An empty slice means the database was reachable and
// reported the package clean.
func (c *OSVClient) QueryVulnerabilities(ctx context.Context, name, ecosystem, version string) ([]models.Vulnerability, error) {
	var query osvQuery
	query.Package.Name = name
	query.Package.Ecosystem = ecosystem
	query.Version = version

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/query", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var result osvQueryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("malformed vulnerability response for %s: %w", name, err)
	}
	return result.Vulns, nil
}
