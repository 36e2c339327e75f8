package lob

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	apiVersion string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:    DefaultBaseURL,
		apiVersion: APIVersion,
		userAgent:  "lobster",
	}
}

// WithBaseURL points the client at another API root, such as a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithAPIVersion overrides the Lob-Version header sent with every request.
func WithAPIVersion(version string) Option {
	return func(o *clientOptions) {
		if version != "" {
			o.apiVersion = version
		}
	}
}

// WithHTTPClient sets the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets a timeout on the default HTTP client. It has no effect
// when WithHTTPClient is also given.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// RequestOption adjusts a single outgoing request.
type RequestOption func(*http.Request)

// WithIdempotencyKey makes a create request safe to repeat: the API returns
// the original resource for a key it has already seen.
func WithIdempotencyKey(key string) RequestOption {
	return func(r *http.Request) {
		if key != "" {
			r.Header.Set("Idempotency-Key", key)
		}
	}
}

// WithHeader sets an arbitrary header on a single request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// NewIdempotencyKey returns a fresh random key for WithIdempotencyKey.
func NewIdempotencyKey() string {
	return uuid.NewString()
}
