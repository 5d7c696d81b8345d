package driven

import (
	"context"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// PageFetcher issues one request against the analytics service.
//
// Implementations return:
//   - a Page (possibly empty) on a result envelope
//   - an error wrapping domain.ErrMalformedResponse when the body cannot be parsed
//   - a *domain.ServiceError when the service reports an error envelope
//   - any other error for transport failures that outlived the retry policy
type PageFetcher interface {
	Fetch(ctx context.Context, query domain.PageQuery) (*domain.Page, error)
}

// FilterBuilder renders the filter payload restricting a report variable to a set of values.
type FilterBuilder interface {
	// BuildFilter returns the filter expression. It is only called with at least one value.
	BuildFilter(variable string, values []string) (string, error)
}
