package olxscrape

import "context"

// PageScraper extracts every listing card from one search-results page.
type PageScraper interface {
	// Scrape fetches pageURL and returns the cards in document order.
	// A transport failure returns EUNAVAILABLE and no listings.
	Scrape(ctx context.Context, pageURL string) ([]ListingSummary, error)
}

// DetailEnricher extracts the detail record of a single listing.
type DetailEnricher interface {
	// Enrich fetches the listing page. A page that cannot be fetched yields
	// an empty ListingDetail rather than an error.
	Enrich(ctx context.Context, listingURL string) (ListingDetail, error)
}

// Pacer enforces the fixed delay between consecutive requests.
type Pacer interface {
	// Wait blocks until the next request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// ListingWriter serializes scraping results to flat files.
type ListingWriter interface {
	// WriteSummaries stores summary records and returns where they went.
	WriteSummaries(ctx context.Context, listings []ListingSummary) (string, error)

	// WriteEnriched stores merged records and returns where they went.
	WriteEnriched(ctx context.Context, listings []MergedListing) (string, error)
}
