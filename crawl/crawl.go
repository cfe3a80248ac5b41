// Package crawl provides the pipeline that turns a listing URL into a
// packaged document. It sequences fetching, token extraction and assembly.
package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/webnovel"
	"github.com/fwojciec/webnovel/extract"
)

// Crawler orchestrates a single strictly sequential run: the listing page
// is fetched and extracted, then every chapter is fetched, extracted and
// handed to the Assembler before the next fetch begins.
type Crawler struct {
	Fetcher   webnovel.Fetcher
	Tokenizer webnovel.Tokenizer
	Assembler webnovel.Assembler
}

// Result holds the outcome of a crawl.
type Result struct {
	Title    string
	Author   string
	Chapters int
	Bytes    int
	Path     string
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Title     string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Listing fetches and extracts the listing page only.
func (c *Crawler) Listing(ctx context.Context, listingURL string) (*webnovel.Listing, error) {
	src, err := c.tokens(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingURL, err)
	}
	listing, err := extract.ExtractListing(src)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingURL, err)
	}
	listing.URL = listingURL
	return listing, nil
}

// Chapter fetches and extracts a single chapter page.
func (c *Crawler) Chapter(ctx context.Context, index int, chapterURL string) (*webnovel.Chapter, error) {
	src, err := c.tokens(ctx, chapterURL)
	if err != nil {
		return nil, err
	}
	ch, err := extract.ExtractChapter(src)
	if err != nil {
		return nil, err
	}
	ch.Index = index
	ch.URL = chapterURL
	return ch, nil
}

// Run builds the document for the work at listingURL.
//
// There is no partial success: the first failure aborts the assembler and
// is returned, and no artifact is left behind.
func (c *Crawler) Run(ctx context.Context, listingURL string, progress ProgressFunc) (_ *Result, err error) {
	defer func() {
		if err != nil {
			_ = c.Assembler.Abort()
		}
	}()

	listing, err := c.Listing(ctx, listingURL)
	if err != nil {
		return nil, err
	}
	if err := c.Assembler.Start(listing); err != nil {
		return nil, fmt.Errorf("start document: %w", err)
	}

	total := len(listing.Links)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total, URL: listingURL, Title: listing.Title})
	}

	result := &Result{Title: listing.Title, Author: listing.Author}
	for i, u := range listing.Links {
		ch, err := c.Chapter(ctx, i, u)
		if err == nil {
			err = c.Assembler.AddChapter(ctx, ch)
		}
		if err != nil {
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: i, Total: total, URL: u, Error: err})
			}
			return nil, fmt.Errorf("chapter %d (%s): %w", i, u, err)
		}

		result.Chapters++
		result.Bytes += len(ch.Body)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, URL: u, Title: ch.Title})
		}
	}

	path, err := c.Assembler.Finish(ctx)
	if err != nil {
		return nil, fmt.Errorf("finish document: %w", err)
	}
	result.Path = path

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return result, nil
}

// tokens fetches url and tokenizes the whole body.
func (c *Crawler) tokens(ctx context.Context, url string) (webnovel.TokenSource, error) {
	body, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return c.Tokenizer.Tokenize(body)
}
