// Package clients contains the typed HTTP clients for the external data
// sources: package registries, GitHub releases, the endoflife.date API, the
// OSV vulnerability database and the optional local AI model.
package clients

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrNotFound is returned when a source answers but has no data for the
// requested identifier. Callers treat it like any other per-source failure.
var ErrNotFound = errors.New("not found")

// newHTTPClient builds the retrying HTTP client every source uses. 429/503
// responses are retried with backoff and then surfaced as ordinary failures.
func newHTTPClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil
	return client
}

// readBody drains a 2xx response and fails on non-2xx statuses or an empty
// body, so a "successful" but useless answer counts as a source failure.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("empty response body")
	}
	return body, nil
}
