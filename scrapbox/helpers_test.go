package scrapbox

import (
	"context"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// recordedCall is one request seen by fakeTransport
type recordedCall struct {
	URL         string
	Params      url.Values
	NoRedirects bool
}

// fakeTransport implements Transport for testing
type fakeTransport struct {
	handler func(rawURL string, params url.Values) (*Response, error)

	// Track calls for verification
	calls      []recordedCall
	closeCalls int
}

func (f *fakeTransport) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	f.calls = append(f.calls, recordedCall{URL: rawURL, Params: params, NoRedirects: RedirectsDisabled(ctx)})
	return f.handler(rawURL, params)
}

func (f *fakeTransport) Close() {
	f.closeCalls++
}

func ok(body string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body)}
}

func status(code int) *Response {
	return &Response{StatusCode: code, Body: []byte(`{"message":"nope"}`)}
}

func newFakeClient(t *testing.T, transport *fakeTransport) *Client {
	t.Helper()
	client, err := NewClient("", zerolog.Nop(), WithTransport(transport))
	require.NoError(t, err)
	return client
}
