package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webnovel"
)

// Ensure LoggingAssembler implements webnovel.Assembler.
var _ webnovel.Assembler = (*LoggingAssembler)(nil)

// LoggingAssembler wraps an Assembler with logging.
type LoggingAssembler struct {
	next   webnovel.Assembler
	logger *slog.Logger
}

// NewLoggingAssembler creates a new LoggingAssembler.
func NewLoggingAssembler(next webnovel.Assembler, logger *slog.Logger) *LoggingAssembler {
	return &LoggingAssembler{next: next, logger: logger}
}

// Start logs the work metadata and delegates to the wrapped assembler.
func (a *LoggingAssembler) Start(listing *webnovel.Listing) (err error) {
	defer func() {
		a.logger.Info("start document",
			"title", listing.Title,
			"author", listing.Author,
			"chapters", len(listing.Links),
			"err", err,
		)
	}()
	return a.next.Start(listing)
}

// AddChapter logs the chapter and delegates to the wrapped assembler.
func (a *LoggingAssembler) AddChapter(ctx context.Context, ch *webnovel.Chapter) (err error) {
	defer func(begin time.Time) {
		a.logger.Info("add chapter",
			"index", ch.Index,
			"title", ch.Title,
			"bytes", len(ch.Body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.AddChapter(ctx, ch)
}

// Finish logs the written path and delegates to the wrapped assembler.
func (a *LoggingAssembler) Finish(ctx context.Context) (path string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("finish document",
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Finish(ctx)
}

// Abort logs and delegates to the wrapped assembler.
func (a *LoggingAssembler) Abort() (err error) {
	defer func() {
		a.logger.Warn("abort document", "err", err)
	}()
	return a.next.Abort()
}
