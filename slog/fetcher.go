// Package slog provides logging decorators for webnovel services.
package slog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/webnovel"
)

// Ensure LoggingFetcher implements webnovel.Fetcher.
var _ webnovel.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   webnovel.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webnovel.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the URL, body size,
// duration and error. The body is buffered so its size is known.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body io.ReadCloser, err error) {
	var n int
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	rc, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	n = len(data)
	return io.NopCloser(bytes.NewReader(data)), nil
}
