// Package http provides a rate-limit aware implementation of webnovel.Fetcher.
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/webnovel"
)

// Defaults for Fetcher options.
const (
	DefaultFetchTimeout  = 10 * time.Second
	DefaultCourtesyDelay = 900 * time.Millisecond
	DefaultBackoff       = 3 * time.Second
	DefaultRetries       = 3
)

// Ensure Fetcher implements webnovel.Fetcher at compile time.
var _ webnovel.Fetcher = (*Fetcher)(nil)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Fetcher issues GET requests and retries when the server answers
// 429 Too Many Requests. Every successful response is read in full and
// followed by a fixed courtesy delay before the body is handed back.
//
// A Fetcher holds no state across calls; the retry budget and backoff
// delay are reset for every Fetch.
type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	courtesyDelay time.Duration
	backoff       time.Duration
	retries       int
	userAgent     string
	httpsOnly     bool
	transport     http.RoundTripper
	sleep         SleepFunc
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithCourtesyDelay sets the pause applied after every successful request.
func WithCourtesyDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.courtesyDelay = d
	}
}

// WithBackoff sets the first wait after a 429 response. Each further
// 429 doubles it.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoff = d
	}
}

// WithRetries sets how many times a rate-limited request is repeated.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithHTTPSOnly rejects plain http URLs and redirects to them.
func WithHTTPSOnly(on bool) Option {
	return func(f *Fetcher) {
		f.httpsOnly = on
	}
}

// WithSleep replaces the function used for courtesy and backoff waits.
func WithSleep(fn SleepFunc) Option {
	return func(f *Fetcher) {
		f.sleep = fn
	}
}

// WithTransport sets the round tripper used for requests.
// Defaults to http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:       DefaultFetchTimeout,
		courtesyDelay: DefaultCourtesyDelay,
		backoff:       DefaultBackoff,
		retries:       DefaultRetries,
		sleep:         Sleep,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:       f.timeout,
		Transport:     f.transport,
		CheckRedirect: f.checkRedirect,
	}

	return f
}

// Fetch retrieves the body of the given URL.
//
// Returns ETRANSPORT for network failures and error statuses other than 429,
// and ERATELIMIT once the retry budget is spent on 429 responses.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := f.checkScheme(rawURL); err != nil {
		return nil, err
	}

	retries := f.retries
	delay := f.backoff
	for {
		resp, err := f.get(ctx, rawURL)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			if resp.StatusCode >= http.StatusBadRequest {
				resp.Body.Close()
				return nil, webnovel.Errorf(webnovel.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, rawURL)
			}
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, webnovel.Errorf(webnovel.ETRANSPORT, "read %s: %v", rawURL, err)
			}
			if err := f.sleep(ctx, f.courtesyDelay); err != nil {
				return nil, err
			}
			return io.NopCloser(bytes.NewReader(body)), nil
		}

		drain(resp.Body)
		if retries <= 0 {
			return nil, webnovel.Errorf(webnovel.ERATELIMIT, "rate limited on %s after %d retries", rawURL, f.retries)
		}

		if err := f.sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
		retries--
	}
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, webnovel.Errorf(webnovel.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, webnovel.Errorf(webnovel.ETRANSPORT, "GET %s: %v", rawURL, err)
	}
	return resp, nil
}

func (f *Fetcher) checkScheme(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return webnovel.Errorf(webnovel.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if !f.httpsOnly {
			return nil
		}
	}
	return webnovel.Errorf(webnovel.EINVALID, "unsupported URL scheme %q", u.Scheme)
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return webnovel.Errorf(webnovel.ETRANSPORT, "stopped after %d redirects", len(via))
	}
	return f.checkScheme(req.URL.String())
}

// drain discards the rest of body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}

// Sleep waits for d on a timer, returning early with the context error if
// ctx is canceled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
