package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/olxscrape"
)

// Ensure Fetcher implements olxscrape.Fetcher.
var _ olxscrape.Fetcher = (*Fetcher)(nil)

// Fetcher counts and times the requests of a wrapped Fetcher.
type Fetcher struct {
	next    olxscrape.Fetcher
	kind    string
	metrics *Metrics
}

// WrapFetcher returns next instrumented under the given kind label.
func (m *Metrics) WrapFetcher(next olxscrape.Fetcher, kind string) *Fetcher {
	return &Fetcher{next: next, kind: kind, metrics: m}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	f.metrics.fetchDuration.WithLabelValues(f.kind).Observe(time.Since(begin).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	f.metrics.fetchTotal.WithLabelValues(f.kind, outcome).Inc()
	f.metrics.fetchBytes.WithLabelValues(f.kind).Add(float64(len(html)))
	return html, err
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
