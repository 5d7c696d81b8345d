package alma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/logger"
)

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Body       []byte

	// Attempts is the number of requests it took.
	Attempts int
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client performs authenticated GET requests against the reports endpoint.
// One Client reuses a single pooled http.Client for all requests.
type Client struct {
	http     *http.Client
	endpoint *url.URL
	apiKey   string
	policy   RetryPolicy
	limiter  *RateLimiter

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client for endpoint authenticated with apiKey.
func NewClient(endpoint, apiKey string, settings domain.HTTPSettings) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("alma: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("alma: endpoint %q must be an http(s) URL", endpoint)
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultHTTPTimeout
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: u,
		apiKey:   apiKey,
		policy:   NewRetryPolicy(settings),
		limiter:  NewRateLimiter(settings.RequestsPerSecond),
		sleep:    sleepContext,
	}, nil
}

// Endpoint returns the endpoint URL without query parameters.
func (c *Client) Endpoint() string {
	u := *c.endpoint
	u.RawQuery = ""
	return u.String()
}

// Get sends a GET request with the given query parameters.
// Connection errors and statuses in the retry policy are retried with
// backoff; when retries run out a *TransportError is returned.
// Any other response is returned as is, whatever its status.
func (c *Client) Get(ctx context.Context, params url.Values) (*Response, error) {
	u := *c.endpoint
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	target := u.String()

	var (
		lastErr    error
		lastStatus int
		lastBody   []byte
	)

	for attempt := 1; attempt <= c.policy.Retries+1; attempt++ {
		if attempt > 1 {
			delay := c.policy.Backoff(attempt - 1)
			logger.Debug("Retry %d/%d in %s", attempt-1, c.policy.Retries, delay)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		status, body, err := c.do(ctx, target)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Debug("Request failed: %v", err)
			lastErr, lastStatus, lastBody = err, 0, nil
			continue
		}

		if c.policy.RetryStatus(status) {
			logger.Debug("Retryable status %d", status)
			lastErr, lastStatus, lastBody = nil, status, body
			continue
		}

		return &Response{StatusCode: status, Body: body, Attempts: attempt}, nil
	}

	te := &TransportError{
		StatusCode: lastStatus,
		URL:        c.Endpoint(),
		Attempts:   c.policy.Retries + 1,
		Err:        lastErr,
	}
	if env, ok := ParseEnvelope(lastBody).(*ErrorEnvelope); ok {
		te.Message = env.Message
	}
	return nil, te
}

func (c *Client) do(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}
