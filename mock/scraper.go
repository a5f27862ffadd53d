package mock

import (
	"context"

	"github.com/fwojciec/olxscrape"
)

// Compile-time interface verification.
var (
	_ olxscrape.PageScraper    = (*PageScraper)(nil)
	_ olxscrape.DetailEnricher = (*DetailEnricher)(nil)
	_ olxscrape.Pacer          = (*Pacer)(nil)
	_ olxscrape.ListingWriter  = (*ListingWriter)(nil)
)

// PageScraper is a mock implementation of olxscrape.PageScraper.
type PageScraper struct {
	ScrapeFn func(ctx context.Context, pageURL string) ([]olxscrape.ListingSummary, error)
}

func (s *PageScraper) Scrape(ctx context.Context, pageURL string) ([]olxscrape.ListingSummary, error) {
	return s.ScrapeFn(ctx, pageURL)
}

// DetailEnricher is a mock implementation of olxscrape.DetailEnricher.
type DetailEnricher struct {
	EnrichFn func(ctx context.Context, listingURL string) (olxscrape.ListingDetail, error)
}

func (e *DetailEnricher) Enrich(ctx context.Context, listingURL string) (olxscrape.ListingDetail, error) {
	return e.EnrichFn(ctx, listingURL)
}

// Pacer is a mock implementation of olxscrape.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}

// ListingWriter is a mock implementation of olxscrape.ListingWriter.
type ListingWriter struct {
	WriteSummariesFn func(ctx context.Context, listings []olxscrape.ListingSummary) (string, error)
	WriteEnrichedFn  func(ctx context.Context, listings []olxscrape.MergedListing) (string, error)
}

func (w *ListingWriter) WriteSummaries(ctx context.Context, listings []olxscrape.ListingSummary) (string, error) {
	return w.WriteSummariesFn(ctx, listings)
}

func (w *ListingWriter) WriteEnriched(ctx context.Context, listings []olxscrape.MergedListing) (string, error) {
	return w.WriteEnrichedFn(ctx, listings)
}
