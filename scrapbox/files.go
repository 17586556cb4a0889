package scrapbox

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/s0up4200/sbc/gyazo"
)

// Strategy is how a file reference is turned into bytes
type Strategy int

const (
	// StrategyDirectID downloads <base>/files/<id>
	StrategyDirectID Strategy = iota
	// StrategyGyazoEmbed resolves the reference through Gyazo's oEmbed API
	StrategyGyazoEmbed
)

// String returns the string representation of a Strategy
func (s Strategy) String() string {
	switch s {
	case StrategyDirectID:
		return "direct-id"
	case StrategyGyazoEmbed:
		return "gyazo-embed"
	default:
		return "unknown"
	}
}

// Reference is a classified file reference. FileID is set for
// StrategyDirectID, URL for StrategyGyazoEmbed.
type Reference struct {
	Strategy Strategy
	FileID   string
	URL      string
}

// ClassifyReference determines the retrieval strategy for a file reference.
// Gyazo URLs are checked first, then Scrapbox file URLs; anything else is a
// bare file ID, extension included.
func (c *Client) ClassifyReference(reference string) (Reference, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Reference{}, fmt.Errorf("%w: file reference is required", ErrInvalidArgument)
	}

	if gyazo.MatchURL(reference, c.gyazoURL) {
		return Reference{Strategy: StrategyGyazoEmbed, URL: reference}, nil
	}

	if fileID, ok := c.fileIDFromURL(reference); ok {
		return Reference{Strategy: StrategyDirectID, FileID: fileID}, nil
	}

	return Reference{Strategy: StrategyDirectID, FileID: reference}, nil
}

// fileIDFromURL extracts <id> from <base>/files/<id>[?query].
func (c *Client) fileIDFromURL(reference string) (string, bool) {
	u, err := url.Parse(reference)
	if err != nil || u.Host == "" {
		return "", false
	}
	base, err := url.Parse(c.baseURL)
	if err != nil || !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}

	rest, ok := strings.CutPrefix(u.Path, strings.TrimRight(base.Path, "/")+"/files/")
	if !ok {
		return "", false
	}
	fileID, _, _ := strings.Cut(rest, "/")
	if fileID == "" {
		return "", false
	}
	return fileID, true
}

// GetFile downloads the file behind reference, which may be a bare file ID
// (optionally with extension), a Scrapbox file URL or a Gyazo URL.
func (c *Client) GetFile(ctx context.Context, reference string) ([]byte, error) {
	ref, err := c.ClassifyReference(reference)
	if err != nil {
		return nil, err
	}

	switch ref.Strategy {
	case StrategyGyazoEmbed:
		return c.getGyazoFile(ctx, ref.URL)
	case StrategyDirectID:
		return c.getFileByID(ctx, ref.FileID)
	default:
		return nil, fmt.Errorf("%w: unknown reference strategy %s", ErrInvalidArgument, ref.Strategy)
	}
}

func (c *Client) getFileByID(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := c.get(ctx, c.fileURL(fileID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	return resp.Body, nil
}

func (c *Client) getGyazoFile(ctx context.Context, reference string) ([]byte, error) {
	endpoint := gyazo.OEmbedEndpoint(c.gyazoAPIURL)

	resp, err := c.get(ctx, endpoint, url.Values{"url": {reference}})
	if err != nil {
		return nil, fmt.Errorf("failed to get Gyazo oEmbed for %s: %w", reference, err)
	}

	embed, err := gyazo.Decode(resp.Body)
	if err != nil {
		return nil, &MalformedResponseError{URL: endpoint, Err: err}
	}

	switch e := embed.(type) {
	case *gyazo.Photo:
		if e.URL == "" {
			return nil, &MalformedResponseError{URL: endpoint, Err: errors.New("photo url is empty")}
		}
		image, err := c.get(ctx, e.URL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get Gyazo image %s: %w", e.URL, err)
		}
		return image.Body, nil
	case *gyazo.Video:
		return nil, &UnsupportedEmbedTypeError{Type: e.Type(), Reference: reference}
	default:
		return nil, &UnsupportedEmbedTypeError{Type: embed.Type(), Reference: reference}
	}
}
