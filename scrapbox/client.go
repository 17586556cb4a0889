package scrapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/sbc/gyazo"
)

const (
	// DefaultBaseURL is the public Scrapbox origin
	DefaultBaseURL = "https://scrapbox.io"
	// DefaultTimeout for a single request
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the client to Scrapbox and Gyazo
	DefaultUserAgent = "sbc/1.0"
)

// Client represents a Scrapbox API client
type Client struct {
	baseURL     string
	gyazoURL    string
	gyazoAPIURL string
	transport   Transport
	closeOnce   sync.Once
}

// NewClient creates a new Scrapbox client. connectSID is the value of the
// connect.sid session cookie; pass "" for anonymous access to public projects.
func NewClient(connectSID string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	options := clientOptions{
		baseURL:     DefaultBaseURL,
		gyazoURL:    gyazo.DefaultBaseURL,
		gyazoAPIURL: gyazo.DefaultAPIURL,
		timeout:     DefaultTimeout,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&options)
	}

	baseURL, err := normalizeOrigin("base URL", options.baseURL)
	if err != nil {
		return nil, err
	}
	gyazoURL, err := normalizeOrigin("gyazo URL", options.gyazoURL)
	if err != nil {
		return nil, err
	}
	gyazoAPIURL, err := normalizeOrigin("gyazo API URL", options.gyazoAPIURL)
	if err != nil {
		return nil, err
	}

	transport := options.transport
	if transport == nil {
		httpClient := options.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: options.timeout}
		}
		u, _ := url.Parse(baseURL)
		transport = newHTTPTransport(httpClient, strings.TrimSpace(connectSID), u.Host, options.userAgent, logger)
	}

	return &Client{
		baseURL:     baseURL,
		gyazoURL:    gyazoURL,
		gyazoAPIURL: gyazoAPIURL,
		transport:   transport,
	}, nil
}

// Close releases the transport's connections. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.transport.Close)
}

// GetPages retrieves a single page of the project's page listing
func (c *Client) GetPages(ctx context.Context, project string, skip, limit int) (*PageList, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}
	if skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative, got %d", ErrInvalidArgument, skip)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidArgument, limit)
	}

	params := url.Values{}
	params.Set("skip", strconv.Itoa(skip))
	params.Set("limit", strconv.Itoa(limit))

	var list PageList
	if err := c.getJSON(ctx, c.pagesURL(project), params, &list); err != nil {
		return nil, fmt.Errorf("failed to get pages of %s: %w", project, err)
	}
	return &list, nil
}

// GetPage retrieves the structured content of one page
func (c *Client) GetPage(ctx context.Context, project, title string) (*Page, error) {
	if err := validatePage(project, title); err != nil {
		return nil, err
	}

	var page Page
	if err := c.getJSON(ctx, c.pageURL(project, title, ""), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get page %s/%s: %w", project, title, err)
	}
	return &page, nil
}

// GetPageText retrieves the plain-text rendering of a page
func (c *Client) GetPageText(ctx context.Context, project, title string) (string, error) {
	if err := validatePage(project, title); err != nil {
		return "", err
	}

	resp, err := c.get(ctx, c.pageURL(project, title, "text"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get text of %s/%s: %w", project, title, err)
	}
	return string(resp.Body), nil
}

// GetPageIconURL resolves the image URL the page icon endpoint redirects to.
// The image itself is not downloaded.
func (c *Client) GetPageIconURL(ctx context.Context, project, title string) (string, error) {
	if err := validatePage(project, title); err != nil {
		return "", err
	}

	resp, err := c.get(withoutRedirects(ctx), c.pageURL(project, title, "icon"), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get icon of %s/%s: %w", project, title, err)
	}
	if resp.Location != "" {
		return resp.Location, nil
	}
	// Transports that always follow redirects end on the image itself
	return resp.URL, nil
}

// get issues a GET request and maps non-200 statuses onto *APIError. A
// redirect with a target is accepted when ctx disables redirects.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	resp, err := c.transport.Get(ctx, rawURL, params)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, rawURL, err)
	}

	if RedirectsDisabled(ctx) && isRedirect(resp.StatusCode) && resp.Location != "" {
		return resp, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        rawURL,
			Body:       truncate(string(resp.Body), 200),
		}
	}
	return resp, nil
}

// getJSON issues a GET request and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	resp, err := c.get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &MalformedResponseError{URL: rawURL, Err: err}
	}
	return nil
}

func isRedirect(code int) bool {
	return code >= http.StatusMultipleChoices && code < http.StatusBadRequest
}

func (c *Client) pagesURL(project string) string {
	return c.baseURL + "/api/pages/" + url.PathEscape(project)
}

func (c *Client) pageURL(project, title, suffix string) string {
	u := c.pagesURL(project) + "/" + url.PathEscape(title)
	if suffix != "" {
		u += "/" + suffix
	}
	return u
}

func (c *Client) fileURL(fileID string) string {
	return c.baseURL + "/files/" + url.PathEscape(fileID)
}

func validateProject(project string) error {
	if strings.TrimSpace(project) == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidArgument)
	}
	return nil
}

func validatePage(project, title string) error {
	if err := validateProject(project); err != nil {
		return err
	}
	if title == "" {
		return fmt.Errorf("%w: page title is required", ErrInvalidArgument)
	}
	return nil
}

// normalizeOrigin checks that raw is an absolute http(s) URL and trims any
// trailing slash.
func normalizeOrigin(name, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidArgument, name, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
