package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const defaultGitHubAPIURL = "https://api.github.com"

// GitHubClient reads the latest release tag of a repository.
type GitHubClient struct {
	// BaseURL allows overriding the API URL for testing.
	BaseURL string
	http    *retryablehttp.Client
}

// NewGitHubClient creates a client against the public GitHub API.
func NewGitHubClient() *GitHubClient {
	return &GitHubClient{
		BaseURL: defaultGitHubAPIURL,
		http:    newHTTPClient(),
	}
}

// GetLatestRelease returns the latest release version (tag with any leading
// "v" stripped) and the release page URL for an "owner/repo" identifier.
func (c *GitHubClient) GetLatestRelease(ctx context.Context, repo string) (version, releaseURL string, err error) {
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", c.BaseURL, repo)
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	body, err := readBody(resp)
	if err != nil {
		return "", "", err
	}

	tag := gjson.GetBytes(body, "tag_name").String()
	if tag == "" {
		return "", "", fmt.Errorf("release response for %s has no tag", repo)
	}

	releaseURL = gjson.GetBytes(body, "html_url").String()
	if releaseURL == "" {
		releaseURL = fmt.Sprintf("https://github.com/%s/releases", repo)
	}
	return strings.TrimPrefix(tag, "v"), releaseURL, nil
}
