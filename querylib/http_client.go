package querylib

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent   string
	client      *http.Client
	rateLimiter *rate.Limiter
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	if err := h.rateLimiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("cannot wait for a rate limiter: %w", err)
	}

	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	return h.client.Do(req)
}

// NewHTTPClient wraps a given HTTP client with rate limiter and sets a
// user agent.
//
// Please see https://pkg.go.dev/golang.org/x/time/rate to get a meaning
// of rate limiter parameters. If rateLimitInterval is 0, then rate
// limiter lets everything pass.
//
// Timeouts and proxies are the business of the given client. Please use
// NewHTTPTransport to get a transport which respects a proxy mapping.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimitInterval time.Duration,
	rateLimitBurst int) HTTPClient {
	limit := rate.Inf

	if rateLimitInterval > 0 {
		limit = rate.Every(rateLimitInterval)
	}

	if rateLimitBurst < 1 {
		rateLimitBurst = 1
	}

	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(limit, rateLimitBurst),
	}
}
