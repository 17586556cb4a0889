package scrapbox

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL     string
	gyazoURL    string
	gyazoAPIURL string
	timeout     time.Duration
	userAgent   string
	httpClient  *http.Client
	transport   Transport
}

// WithBaseURL sets the Scrapbox origin, e.g. https://scrapbox.io.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithGyazoURL sets the Gyazo origin used to recognize Gyazo references.
func WithGyazoURL(gyazoURL string) Option {
	return func(o *clientOptions) {
		o.gyazoURL = gyazoURL
	}
}

// WithGyazoAPIURL sets the origin of the Gyazo oEmbed API.
func WithGyazoAPIURL(apiURL string) Option {
	return func(o *clientOptions) {
		o.gyazoAPIURL = apiURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
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

// WithHTTPClient sets the HTTP client used by the default transport.
// WithTimeout is ignored when a client is supplied.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// WithTransport replaces the default transport entirely.
func WithTransport(transport Transport) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}
