package scrapbox

import (
	"context"
	"fmt"
)

// DefaultBatchSize is the largest limit the page listing endpoint accepts
const DefaultBatchSize = 1000

// ProgressFunc is called once per fetched batch with the number of pages
// accumulated so far and the total reported by the server.
type ProgressFunc func(fetched, total int)

// GetAllPages retrieves every page of a project by walking the listing with
// skip = 0, batchSize, 2*batchSize, ... Batches are fetched one at a time and
// concatenated in order. The walk stops once skip reaches the reported total
// or a batch comes back empty; an under-full batch alone does not stop it.
//
// Any failed batch aborts the walk and its error is returned as is.
func (c *Client) GetAllPages(ctx context.Context, project string, batchSize int, progress ProgressFunc) (*PageList, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidArgument, batchSize)
	}

	projectName := project
	pages := make([]PageSummary, 0)

	for skip := 0; ; skip += batchSize {
		batch, err := c.GetPages(ctx, project, skip, batchSize)
		if err != nil {
			return nil, err
		}

		if batch.ProjectName != "" {
			projectName = batch.ProjectName
		}
		pages = append(pages, batch.Pages...)

		if progress != nil {
			progress(len(pages), batch.Count)
		}

		if skip+batchSize >= batch.Count || len(batch.Pages) == 0 {
			break
		}
	}

	return &PageList{
		ProjectName: projectName,
		Skip:        0,
		Limit:       batchSize,
		Count:       len(pages),
		Pages:       pages,
	}, nil
}
