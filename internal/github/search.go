// Package github is a thin client for the GitHub repository search API.
//
// The search view used to call api.github.com straight from the browser;
// routing it through the server keeps the query-building logic in one place
// and gives the frontend a same-origin endpoint. The response body is passed
// through untouched — the client already knows GitHub's search result shape.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://api.github.com"

// resultsPerPage matches the page size the search view renders.
const resultsPerPage = 12

// SearchQuery mirrors the filters of the search view. Zero values mean
// "no filter"; an empty Term falls back to the stars:>100 default query.
type SearchQuery struct {
	Term     string
	Language string
	MinStars int
	MaxStars int
	Topics   []string
	Page     int // 1-based; forwarded as-is (simple page-number forwarding only)
}

// Client calls the GitHub search API. Unauthenticated — search is a public
// endpoint and the rate limit is acceptable for this traffic.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a search client. httpClient may be nil, in which case
// http.DefaultClient is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is NewClient with an overridable API root, for tests.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	c := NewClient(httpClient)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// SearchRepositories runs a repository search and returns GitHub's raw JSON
// response body. A non-200 upstream status is an error — the caller surfaces
// it as a 500.
func (c *Client) SearchRepositories(ctx context.Context, query SearchQuery) ([]byte, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", buildQualifiers(query))
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(resultsPerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("github: building search request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github: calling search API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github: search API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading search response: %w", err)
	}

	return body, nil
}

// buildQualifiers assembles the search qualifier string the way the search
// view did: free-text term (default stars:>100), then language:, stars:
// range, and topic: qualifiers appended in that order.
func buildQualifiers(query SearchQuery) string {
	var b strings.Builder

	term := query.Term
	if term == "" {
		term = "stars:>100"
	}
	b.WriteString(term)

	if query.Language != "" {
		b.WriteString(" language:" + query.Language)
	}
	// One-sided bounds use the open-ended qualifiers: a range with a zero
	// end (stars:500..0) is inverted and matches nothing.
	switch {
	case query.MinStars > 0 && query.MaxStars > 0:
		b.WriteString(fmt.Sprintf(" stars:%d..%d", query.MinStars, query.MaxStars))
	case query.MinStars > 0:
		b.WriteString(fmt.Sprintf(" stars:>=%d", query.MinStars))
	case query.MaxStars > 0:
		b.WriteString(fmt.Sprintf(" stars:<=%d", query.MaxStars))
	}
	for _, topic := range query.Topics {
		if topic != "" {
			b.WriteString(" topic:" + topic)
		}
	}

	return b.String()
}
