package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/webnovel"
	"github.com/fwojciec/webnovel/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Crawler *crawl.Crawler
}

// FetchCmd downloads a work or prints its listing.
type FetchCmd struct {
	URL  string
	List bool
}

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	if c.List {
		return c.runList(deps)
	}
	return c.runFetch(deps)
}

func (c *FetchCmd) runList(deps *Dependencies) error {
	listing, err := deps.Crawler.Listing(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webnovel.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Title: %s\n", listing.Title)
	fmt.Fprintf(deps.Stdout, "Author: %s\n", listing.Author)
	fmt.Fprintf(deps.Stdout, "Chapters: %d\n", len(listing.Links))
	for _, u := range listing.Links {
		fmt.Fprintln(deps.Stdout, u)
	}
	return nil
}

func (c *FetchCmd) runFetch(deps *Dependencies) error {
	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "%s: %d chapters\n", orUnknown(e.Title), e.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s\n", e.Completed, e.Total, e.URL)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "failed %s: %v\n", e.URL, e.Error)
		}
	}

	result, err := deps.Crawler.Run(deps.Ctx, c.URL, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webnovel.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s\n", result.Path)
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
