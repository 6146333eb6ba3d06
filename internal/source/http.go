package source

import (
	"net/http"
	"time"
)

// HTTPClient abstracts HTTP operations for testing.
// This interface is satisfied by *http.Client and can be mocked in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultHTTPClient returns a configured HTTP client for production use.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
	}
}

// fetcherOptions holds optional dependencies for the fetcher.
type fetcherOptions struct {
	httpClient HTTPClient
	userAgent  string
	timeout    time.Duration
}

// Option configures optional fetcher dependencies.
type Option func(*fetcherOptions)

// WithHTTPClient sets a custom HTTP client.
// Use this in tests to inject a mock HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *fetcherOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent with remote requests. An
// empty value keeps the default.
func WithUserAgent(ua string) Option {
	return func(o *fetcherOptions) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *fetcherOptions) {
		o.timeout = d
	}
}

// applyOptions applies option functions on top of production defaults.
func applyOptions(opts []Option) *fetcherOptions {
	options := &fetcherOptions{
		userAgent: "spdash/1.0",
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.httpClient == nil {
		options.httpClient = DefaultHTTPClient(options.timeout)
	}
	return options
}
