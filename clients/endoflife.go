package clients

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const defaultEndOfLifeURL = "https://endoflife.date"

// Cycle is one release-cycle record from the lifecycle API. The upstream
// fields are heterogeneous (cycle may be a string or a number, eol/support
// may be a date string or a boolean), so they are normalized here: booleans
// become "" (no date published) for false and "true" for true.
type Cycle struct {
	Cycle   string
	Latest  string
	EOL     string
	Support string
	LTS     bool
	LTSDate string
}

// EndOfLifeClient queries the public lifecycle API.
type EndOfLifeClient struct {
	// BaseURL allows overriding the API URL for testing.
	BaseURL string
	http    *retryablehttp.Client
}

// NewEndOfLifeClient creates a client against the public lifecycle API.
func NewEndOfLifeClient() *EndOfLifeClient {
	return &EndOfLifeClient{
		BaseURL: defaultEndOfLifeURL,
		http:    newHTTPClient(),
	}
}

func (c *EndOfLifeClient) get(ctx context.Context, path string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	return readBody(resp)
}

// dateOrFlag flattens the API's string-or-bool date fields.
func dateOrFlag(value gjson.Result) string {
	switch value.Type {
	case gjson.String:
		return value.String()
	case gjson.True:
		return "true"
	default:
		return ""
	}
}

// GetCycles returns the ordered cycle list for a product slug, newest first
// as published by the API.
func (c *EndOfLifeClient) GetCycles(ctx context.Context, slug string) ([]Cycle, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/%s.json", url.PathEscape(slug)))
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("malformed cycle list for %s", slug)
	}

	var cycles []Cycle
	parsed.ForEach(func(_, value gjson.Result) bool {
		cycle := Cycle{
			Cycle:   value.Get("cycle").String(),
			Latest:  value.Get("latest").String(),
			EOL:     dateOrFlag(value.Get("eol")),
			Support: dateOrFlag(value.Get("support")),
		}
		lts := value.Get("lts")
		switch lts.Type {
		case gjson.True:
			cycle.LTS = true
		case gjson.String:
			// Some products publish the LTS promotion date instead of a flag.
			cycle.LTS = true
			cycle.LTSDate = lts.String()
		}
		cycles = append(cycles, cycle)
		return true
	})

	if len(cycles) == 0 {
		return nil, ErrNotFound
	}
	return cycles, nil
}

// ListProducts returns every product slug the lifecycle API knows, used by
// the catalog's slug discovery.
func (c *EndOfLifeClient) ListProducts(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/api/all.json")
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("malformed product list")
	}

	var products []string
	parsed.ForEach(func(_, value gjson.Result) bool {
		if s := value.String(); s != "" {
			products = append(products, s)
		}
		return true
	})
	return products, nil
}
