package crawl_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/webnovel"
	"github.com/fwojciec/webnovel/crawl"
	"github.com/fwojciec/webnovel/html"
	"github.com/fwojciec/webnovel/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<span class="title">The Long Road</span>
<span class="author"><a href="/u/1">Jane Roe</a></span>
<ul id="chapter-list">
<li><a href="//example.com/c/1">One</a></li>
<li><a href="//example.com/c/2">Two</a></li>
</ul>
</body></html>`

func chapterPage(title, body string) string {
	return `<html><body><h1 class="name">` + title + `</h1><div class="content">` + body + `</div></body></html>`
}

// pages returns a Fetcher serving fixed bodies and recording request order.
func pages(m map[string]string, requested *[]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (io.ReadCloser, error) {
			*requested = append(*requested, url)
			body, ok := m[url]
			if !ok {
				return nil, webnovel.Errorf(webnovel.ETRANSPORT, "HTTP 404 for %s", url)
			}
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

// recordingAssembler collects chapters in memory.
type recordingAssembler struct {
	listing  *webnovel.Listing
	chapters []*webnovel.Chapter
	finished bool
	aborted  bool
	addErr   error
}

func (a *recordingAssembler) mock() *mock.Assembler {
	return &mock.Assembler{
		StartFn: func(listing *webnovel.Listing) error {
			a.listing = listing
			return nil
		},
		AddChapterFn: func(ctx context.Context, ch *webnovel.Chapter) error {
			if a.addErr != nil {
				return a.addErr
			}
			a.chapters = append(a.chapters, ch)
			return nil
		},
		FinishFn: func(ctx context.Context) (string, error) {
			a.finished = true
			return "/out/" + webnovel.OutputFilename(a.listing.Title, ".epub"), nil
		},
		AbortFn: func() error {
			a.aborted = true
			return nil
		},
	}
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("assembles chapters in listing order", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://example.com/book": listingPage,
				"https://example.com/c/1":  chapterPage("Chapter 1", "First\nline"),
				"https://example.com/c/2":  chapterPage("Chapter 2", "Second"),
			}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		result, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/book",
			"https://example.com/c/1",
			"https://example.com/c/2",
		}, requested)
		assert.Equal(t, "The Long Road", asm.listing.Title)
		assert.Equal(t, "Jane Roe", asm.listing.Author)
		assert.Equal(t, "https://example.com/book", asm.listing.URL)
		require.Len(t, asm.chapters, 2)
		assert.Equal(t, 0, asm.chapters[0].Index)
		assert.Equal(t, "Chapter 1", asm.chapters[0].Title)
		assert.Equal(t, "First<br />line", asm.chapters[0].Body)
		assert.Equal(t, "https://example.com/c/1", asm.chapters[0].URL)
		assert.Equal(t, 1, asm.chapters[1].Index)
		assert.True(t, asm.finished)
		assert.False(t, asm.aborted)
		assert.Equal(t, 2, result.Chapters)
		assert.Equal(t, "/out/The Long Road.epub", result.Path)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://example.com/book": listingPage,
				"https://example.com/c/1":  chapterPage("Chapter 1", "a"),
				"https://example.com/c/2":  chapterPage("Chapter 2", "b"),
			}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		var events []crawl.ProgressEvent
		_, err := c.Run(context.Background(), "https://example.com/book", func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressCompleted, events[1].Type)
		assert.Equal(t, 1, events[1].Completed)
		assert.Equal(t, "Chapter 1", events[1].Title)
		assert.Equal(t, crawl.ProgressCompleted, events[2].Type)
		assert.Equal(t, 2, events[2].Completed)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
	})

	t.Run("writes a document without chapters for an empty listing", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://example.com/book": "<html></html>"}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		result, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Chapters)
		assert.True(t, asm.finished)
		assert.Equal(t, "/out/untitled.epub", result.Path)
	})

	t.Run("aborts when the listing fetch fails", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Equal(t, webnovel.ETRANSPORT, webnovel.ErrorCode(err))
		assert.True(t, asm.aborted)
		assert.False(t, asm.finished)
	})

	t.Run("aborts on the first failing chapter", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://example.com/book": listingPage,
				"https://example.com/c/2":  chapterPage("Chapter 2", "b"),
			}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		var failed []crawl.ProgressEvent
		_, err := c.Run(context.Background(), "https://example.com/book", func(e crawl.ProgressEvent) {
			if e.Type == crawl.ProgressFailed {
				failed = append(failed, e)
			}
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chapter 0")
		assert.Equal(t, []string{"https://example.com/book", "https://example.com/c/1"}, requested)
		assert.True(t, asm.aborted)
		assert.False(t, asm.finished)
		require.Len(t, failed, 1)
		assert.Equal(t, "https://example.com/c/1", failed[0].URL)
	})

	t.Run("aborts when a chapter is rejected", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{addErr: webnovel.Errorf(webnovel.EASSEMBLY, "malformed chapter")}
		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://example.com/book": listingPage,
				"https://example.com/c/1":  chapterPage("Chapter 1", "a"),
				"https://example.com/c/2":  chapterPage("Chapter 2", "b"),
			}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Equal(t, webnovel.EASSEMBLY, webnovel.ErrorCode(err))
		assert.Len(t, requested, 2)
		assert.True(t, asm.aborted)
	})

	t.Run("aborts on undecodable chapter", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		c := &crawl.Crawler{
			Fetcher: pages(map[string]string{
				"https://example.com/book": listingPage,
				"https://example.com/c/1":  "<p>\xff</p>",
			}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: asm.mock(),
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Equal(t, webnovel.EDECODE, webnovel.ErrorCode(err))
		assert.True(t, asm.aborted)
	})

	t.Run("aborts when the tokenizer fails on a chapter", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		calls := 0
		tok := &mock.Tokenizer{
			TokenizeFn: func(r io.Reader) (webnovel.TokenSource, error) {
				calls++
				if calls == 1 {
					return html.NewTokenizer().Tokenize(r)
				}
				return nil, webnovel.Errorf(webnovel.EDECODE, "bad encoding")
			},
		}
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://example.com/book": listingPage, "https://example.com/c/1": chapterPage("1", "a"), "https://example.com/c/2": chapterPage("2", "b")}, &requested),
			Tokenizer: tok,
			Assembler: asm.mock(),
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Equal(t, webnovel.EDECODE, webnovel.ErrorCode(err))
		assert.Contains(t, err.Error(), "chapter 0 (https://example.com/c/1)")
		assert.Equal(t, 2, calls)
		assert.Empty(t, asm.chapters)
		assert.False(t, asm.finished)
		assert.True(t, asm.aborted)
	})

	t.Run("aborts when a token source fails mid-page", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		tok := &mock.Tokenizer{
			TokenizeFn: func(r io.Reader) (webnovel.TokenSource, error) {
				return &mock.TokenSource{
					NextFn: func() (webnovel.Token, error) {
						return webnovel.Token{}, errors.New("stream broke")
					},
				}, nil
			},
		}
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://example.com/book": listingPage}, &requested),
			Tokenizer: tok,
			Assembler: asm.mock(),
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "stream broke")
		assert.Nil(t, asm.listing)
		assert.True(t, asm.aborted)
	})

	t.Run("aborts when finish fails", func(t *testing.T) {
		t.Parallel()

		var requested []string
		asm := &recordingAssembler{}
		m := asm.mock()
		m.FinishFn = func(ctx context.Context) (string, error) {
			return "", errors.New("disk full")
		}
		c := &crawl.Crawler{
			Fetcher:   pages(map[string]string{"https://example.com/book": listingPage, "https://example.com/c/1": chapterPage("1", "a"), "https://example.com/c/2": chapterPage("2", "b")}, &requested),
			Tokenizer: html.NewTokenizer(),
			Assembler: m,
		}

		_, err := c.Run(context.Background(), "https://example.com/book", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.True(t, asm.aborted)
	})
}

func TestCrawler_Listing(t *testing.T) {
	t.Parallel()

	var requested []string
	c := &crawl.Crawler{
		Fetcher:   pages(map[string]string{"https://example.com/book": listingPage}, &requested),
		Tokenizer: html.NewTokenizer(),
	}

	listing, err := c.Listing(context.Background(), "https://example.com/book")

	require.NoError(t, err)
	assert.Equal(t, "The Long Road", listing.Title)
	assert.Equal(t, []string{"https://example.com/c/1", "https://example.com/c/2"}, listing.Links)
	assert.Equal(t, []string{"https://example.com/book"}, requested)
}
