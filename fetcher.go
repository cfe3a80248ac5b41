package webnovel

import (
	"context"
	"io"
)

// Fetcher retrieves the raw bytes of a page.
type Fetcher interface {
	// Fetch issues a GET for url and returns the response body.
	// The caller must close the returned reader.
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
