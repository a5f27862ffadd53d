// Package http provides the net/http implementation of olxscrape.Fetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/olxscrape"
	"golang.org/x/net/html/charset"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 16 << 20

// Ensure Fetcher implements olxscrape.Fetcher at compile time.
var _ olxscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over plain HTTP GET with a fixed identity profile.
// It does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	headers map[string]string
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient builds the fetcher's HTTP client from a copy of c, so fetchers
// with different timeouts can share c's transport and connection pool.
// c itself is not modified.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a Fetcher sending cfg.Headers on every request.
// The timeout defaults to cfg.ListTimeout; use WithTimeout(cfg.DetailTimeout)
// for the detail-page fetcher.
func NewFetcher(cfg olxscrape.TransportConfig, opts ...Option) *Fetcher {
	f := &Fetcher{
		headers: make(map[string]string, len(cfg.Headers)),
		timeout: cfg.ListTimeout,
	}
	for k, v := range cfg.Headers {
		f.headers[k] = v
	}
	if f.timeout <= 0 {
		f.timeout = olxscrape.DefaultListTimeout
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{}
	} else {
		c := *f.client
		f.client = &c
	}
	f.client.Timeout = f.timeout

	return f
}

// Fetch retrieves the page at url and returns its body decoded to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", olxscrape.Errorf(olxscrape.EINVALID, "invalid request URL %q: %v", url, err)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", olxscrape.Errorf(olxscrape.EUNAVAILABLE, "GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", olxscrape.Errorf(olxscrape.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	// Pages served in legacy encodings (ISO-8859-2 is common for Polish
	// sites) are transcoded; UTF-8 passes through unchanged.
	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", olxscrape.Errorf(olxscrape.EUNAVAILABLE, "decode %s: %v", url, err)
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return "", olxscrape.Errorf(olxscrape.EUNAVAILABLE, "read %s: %v", url, err)
	}

	return string(b), nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
