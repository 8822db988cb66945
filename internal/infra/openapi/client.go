// Package openapi implements the remote schedule clients for the three
// upstream open-data API families: the JSON-paginated hub schedule API and
// the two XML-paginated regional generations.
//
// All clients share the same contract: drive pagination until the
// source-reported total is reached or a page comes back empty, enforce the
// mandated inter-request delay, and on any failure stop that endpoint's
// pagination and hand back whatever was accumulated. A failing endpoint is
// never allowed to abort the run.
package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps response reads; schedule pages are small and an
// unbounded read of a misbehaving upstream would stall the run.
const maxBodyBytes = 8 << 20

// Transport issues rate-limited GET requests for one source family.
// One Transport per family gives the family a single pacing budget: the
// limiter spaces successive pages of one endpoint and successive sibling
// endpoint calls alike.
type Transport struct {
	client  *http.Client
	limiter *rate.Limiter
	source  string
}

// NewTransport creates a Transport for the named source that waits at least
// delay between successive requests. The first request passes immediately.
func NewTransport(client *http.Client, source string, delay time.Duration) *Transport {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Transport{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		source:  source,
	}
}

// Source returns the source label used in logs and metrics.
func (t *Transport) Source() string {
	return t.source
}

// Get performs one paced GET and returns the raw body. Non-2xx statuses and
// network failures come back as *FetchError with type transport.
func (t *Transport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Source: t.source, Type: ErrorTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{Source: t.source, Type: ErrorTransport, Err: err}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: t.source, Type: ErrorTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Source: t.source, Type: ErrorTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Source:  t.source,
			Type:    ErrorTransport,
			Code:    fmt.Sprintf("%d", resp.StatusCode),
			Message: snippet(body),
		}
	}

	return body, nil
}

// buildURL assembles an endpoint URL. The portal hands out serviceKey values
// that are already URL-encoded; running the key through url.Values would
// double-encode it, so it is appended verbatim.
func buildURL(base, serviceKey string, params url.Values) string {
	query := "serviceKey=" + serviceKey
	if encoded := params.Encode(); encoded != "" {
		query += "&" + encoded
	}
	return base + "?" + query
}

// paginationDone reports whether the page loop should stop: either the page
// was empty or the accumulated count reached the source-reported total.
func paginationDone(accumulated, pageItems, total int) bool {
	if pageItems == 0 {
		return true
	}
	return total > 0 && accumulated >= total
}

// snippet trims a body for inclusion in an error message.
func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
