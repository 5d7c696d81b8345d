// Package alma provides the client for the Alma analytics reports API.
//
// Reports are fetched page by page. The first request names the report path
// (and optionally a filter expression); every following request carries only
// the resumption token returned by the service. Responses are XML and are
// classified by ParseEnvelope into result, error and malformed outcomes.
//
// The HTTP client retries connection failures and configured status codes
// with exponential backoff, and can throttle requests with a token bucket.
package alma
