package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// EscapeQuery percent-encodes s as a URI component: every reserved
// character is escaped and spaces become %20.
func EscapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Fetcher performs the single upstream GET of a query.
type Fetcher struct {
	userAgent string
	client    *http.Client
}

// NewFetcher creates a fetcher. A zero timeout leaves the transport default in place.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "omnisuggest/0.1"
	}
	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &Fetcher{
		userAgent: userAgent,
		client:    client,
	}
}

// Fetch requests endpointTemplate + EscapeQuery(query) and returns the body.
// Every failure is a *QueryError of kind NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, endpointTemplate, query string) (string, error) {
	requestURL := endpointTemplate + EscapeQuery(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", networkError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", networkError(fmt.Errorf("unexpected status code %d (%s)",
			resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError(fmt.Errorf("failed to read response: %w", err))
	}
	return string(body), nil
}
