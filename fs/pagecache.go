package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webnovel"
)

// Ensure PageCache implements webnovel.Fetcher at compile time.
var _ webnovel.Fetcher = (*PageCache)(nil)

// PageCache wraps a Fetcher and keeps every fetched body on disk, keyed by
// a hash of its URL. A cached page is served without touching the network,
// so a rerun after a failure only fetches what it has not seen yet.
type PageCache struct {
	next webnovel.Fetcher
	dir  string
}

// NewPageCache creates a PageCache storing pages in dir.
func NewPageCache(next webnovel.Fetcher, dir string) *PageCache {
	return &PageCache{next: next, dir: dir}
}

// CachePath returns the file that holds the page for url.
func (c *PageCache) CachePath(url string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.html", xxhash.Sum64String(url)))
}

// Fetch returns the cached page for url or fetches and stores it.
func (c *PageCache) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	path := c.CachePath(url)
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	body, err := c.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, webnovel.Errorf(webnovel.ETRANSPORT, "read %s: %v", url, err)
	}

	out, err := CreateAtomic(c.dir, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Abort()
		return nil, err
	}
	if _, err := out.Commit(); err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}
