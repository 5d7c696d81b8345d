package alma

import (
	"context"
	"net/url"
	"strconv"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves one page of a report per call.
type Fetcher struct {
	client *Client
}

// NewFetcher creates a page fetcher on top of client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch issues one request and classifies the response.
// Error envelopes become *domain.ServiceError; unparsable bodies wrap
// domain.ErrMalformedResponse.
func (f *Fetcher) Fetch(ctx context.Context, q domain.PageQuery) (*domain.Page, error) {
	resp, err := f.client.Get(ctx, queryParams(q))
	if err != nil {
		return nil, err
	}

	env := ParseEnvelope(resp.Body)
	switch e := env.(type) {
	case *ErrorEnvelope:
		return nil, e.ServiceError()
	case *ResultEnvelope:
		if resp.OK() {
			return e.Page(), nil
		}
	}

	// A non-2xx answer without an error envelope is a transport failure.
	if !resp.OK() {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			URL:        f.client.Endpoint(),
			Attempts:   resp.Attempts,
		}
	}
	return nil, envelopeError(env)
}

// queryParams encodes an initial or continuation query.
func queryParams(q domain.PageQuery) url.Values {
	params := url.Values{}
	if q.IsContinuation() {
		params.Set("token", q.Token)
		return params
	}
	params.Set("path", q.Path)
	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}
	return params
}
