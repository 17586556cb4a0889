package scrapbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// connectSIDCookie is the Scrapbox session cookie name
const connectSIDCookie = "connect.sid"

// Response is the raw outcome of a GET request. URL is the final URL after
// redirects. Location is the absolute redirect target when the request
// stopped at a redirect.
type Response struct {
	StatusCode int
	Body       []byte
	URL        string
	Location   string
}

// Transport issues GET requests on behalf of the Client. Implementations
// report every HTTP status as a Response; only connection-level failures are
// returned as errors. When RedirectsDisabled reports true for the request
// context, implementations should return the first redirect response with
// Location set instead of following it.
type Transport interface {
	Get(ctx context.Context, rawURL string, params url.Values) (*Response, error)
	Close()
}

type noRedirectsKey struct{}

// withoutRedirects marks ctx so the transport stops at the first redirect
func withoutRedirects(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRedirectsKey{}, true)
}

// RedirectsDisabled reports whether the Client asked for the first redirect
// response rather than the page it points to.
func RedirectsDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(noRedirectsKey{}).(bool)
	return disabled
}

// httpTransport is the default Transport backed by net/http. The session
// cookie is only attached to requests for the Scrapbox host.
type httpTransport struct {
	httpClient *http.Client
	connectSID string
	cookieHost string
	userAgent  string
	logger     zerolog.Logger
}

func newHTTPTransport(httpClient *http.Client, connectSID, cookieHost, userAgent string, logger zerolog.Logger) *httpTransport {
	return &httpTransport{
		httpClient: httpClient,
		connectSID: connectSID,
		cookieHost: cookieHost,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Get performs the request and reads the whole body
func (t *httpTransport) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if len(params) > 0 {
		query := u.Query()
		for key, values := range params {
			query[key] = values
		}
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.connectSID != "" && strings.EqualFold(u.Host, t.cookieHost) {
		req.AddCookie(&http.Cookie{Name: connectSIDCookie, Value: t.connectSID})
	}

	httpClient := t.httpClient
	if RedirectsDisabled(ctx) {
		noFollow := *t.httpClient
		noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		httpClient = &noFollow
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		t.logger.Debug().Err(err).Str("url", u.String()).Msg("Request failed")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.logger.Debug().
		Str("url", u.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("GET")

	finalURL := u.String()
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	var location string
	if loc, err := resp.Location(); err == nil {
		location = loc.String()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		URL:        finalURL,
		Location:   location,
	}, nil
}

// Close releases idle keep-alive connections
func (t *httpTransport) Close() {
	t.httpClient.CloseIdleConnections()
}
