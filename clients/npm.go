package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultNpmRegistryURL = "https://registry.npmjs.org"

// NpmClient looks up the latest published version of an npm package.
type NpmClient struct {
	// BaseURL allows overriding the registry URL for testing.
	BaseURL string
	http    *retryablehttp.Client
}

// NewNpmClient creates a client against the public npm registry.
func NewNpmClient() *NpmClient {
	return &NpmClient{
		BaseURL: defaultNpmRegistryURL,
		http:    newHTTPClient(),
	}
}

type npmLatestResponse struct {
	Version  string `json:"version"`
	Homepage string `json:"homepage"`
}

// GetLatestVersion returns the version published under the "latest" dist-tag
// and a documentation URL for the package.
func (c *NpmClient) GetLatestVersion(ctx context.Context, pkg string) (version, docURL string, err error) {
	endpoint := fmt.Sprintf("%s/%s/latest", c.BaseURL, url.PathEscape(pkg))
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", "", err
	}

	var latest npmLatestResponse
	if err := json.Unmarshal(body, &latest); err != nil {
		return "", "", fmt.Errorf("malformed registry response for %s: %w", pkg, err)
	}
	if latest.Version == "" {
		return "", "", fmt.Errorf("registry response for %s has no version", pkg)
	}

	docURL = latest.Homepage
	if docURL == "" {
		docURL = fmt.Sprintf("https://www.npmjs.com/package/%s", pkg)
	}
	return latest.Version, docURL, nil
}
