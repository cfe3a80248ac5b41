package mock

import (
	"context"
	"io"

	"github.com/fwojciec/webnovel"
)

var _ webnovel.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of webnovel.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (io.ReadCloser, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	return f.FetchFn(ctx, url)
}
