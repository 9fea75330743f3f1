package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultPyPIURL = "https://pypi.org"

// PyPIClient looks up the latest release of a Python package.
type PyPIClient struct {
	// BaseURL allows overriding the index URL for testing.
	BaseURL string
	http    *retryablehttp.Client
}

// NewPyPIClient creates a client against the public package index.
func NewPyPIClient() *PyPIClient {
	return &PyPIClient{
		BaseURL: defaultPyPIURL,
		http:    newHTTPClient(),
	}
}

type pypiResponse struct {
	Info struct {
		Version     string `json:"version"`
		ProjectURL  string `json:"project_url"`
		PackageURL  string `json:"package_url"`
		DocsURL     string `json:"docs_url"`
		HomePage    string `json:"home_page"`
		ReleaseDate string `json:"release_date"`
	} `json:"info"`
}

// GetLatestVersion returns the current release version and a documentation URL.
func (c *PyPIClient) GetLatestVersion(ctx context.Context, pkg string) (version, docURL string, err error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.BaseURL, url.PathEscape(pkg))
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

	var info pypiResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return "", "", fmt.Errorf("malformed index response for %s: %w", pkg, err)
	}
	if info.Info.Version == "" {
		return "", "", fmt.Errorf("index response for %s has no version", pkg)
	}

	docURL = info.Info.HomePage
	if docURL == "" {
		docURL = fmt.Sprintf("https://pypi.org/project/%s/", pkg)
	}
	return info.Info.Version, docURL, nil
}
