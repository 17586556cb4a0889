package scrapbox

import (
	"context"
)

// API defines the interface for Scrapbox operations
type API interface {
	// GetPages retrieves a single page of the project listing
	GetPages(ctx context.Context, project string, skip, limit int) (*PageList, error)

	// GetAllPages retrieves the whole project listing in batches
	GetAllPages(ctx context.Context, project string, batchSize int, progress ProgressFunc) (*PageList, error)

	// GetPage retrieves a page's structured content
	GetPage(ctx context.Context, project, title string) (*Page, error)

	// GetPageText retrieves a page's plain-text rendering
	GetPageText(ctx context.Context, project, title string) (string, error)

	// GetPageIconURL resolves a page's icon image URL
	GetPageIconURL(ctx context.Context, project, title string) (string, error)

	// GetFile downloads an attachment by ID, Scrapbox URL or Gyazo URL
	GetFile(ctx context.Context, reference string) ([]byte, error)

	// Close releases held connections
	Close()
}

var _ API = (*Client)(nil)
