// Package geocode resolves street addresses to coordinates using the US
// Census Bureau geocoder.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client resolves a one-line street address to coordinates.
type Client interface {
	// Geocode looks up a single address. A lookup that completes but finds
	// no match returns Matched=false with a nil error.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude       float64
	Longitude      float64
	MatchedAddress string
	Source         string
	Matched        bool
}

// Option configures the geocoder.
type Option func(*censusClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *censusClient) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for Census API calls.
func WithRateLimit(rps float64) Option {
	return func(c *censusClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *censusClient) {
		c.httpClient.Timeout = d
	}
}

// WithBaseURL overrides the Census geocoder endpoint.
func WithBaseURL(u string) Option {
	return func(c *censusClient) {
		c.baseURL = u
	}
}

type censusClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates a Census-backed geocoding Client.
func NewClient(opts ...Option) Client {
	c := &censusClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(50, 50), // Census default: 50 req/s
		baseURL:    censusOneLineURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
