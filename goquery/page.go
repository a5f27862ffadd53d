package goquery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxscrape"
)

// cardContainerSelectors locate result cards, most specific first. The
// first selector matching at least one node wins.
var cardContainerSelectors = []string{
	`[data-cy="l-card"]`,
	`[data-testid="l-card"]`,
	`div[data-cy="l-card"]`,
	`.css-1sw7q4x`,
	`[data-cy="listing-ad-title"]`,
	`.offer-wrapper`,
	`article`,
	`div[class*="listing"]`,
}

// maxHeuristicCards bounds the fallback scan on pages where no container
// selector matched.
const maxHeuristicCards = 50

// HeuristicSelector is the selector name reported when cards were found by
// the fallback scan.
const HeuristicSelector = "(heuristic)"

// Ensure PageScraper implements olxscrape.PageScraper at compile time.
var _ olxscrape.PageScraper = (*PageScraper)(nil)

// CardExtractor builds a summary from one result-card subtree. It returns
// false when the card holds nothing worth keeping.
type CardExtractor interface {
	Extract(card *goquery.Selection) (olxscrape.ListingSummary, bool)
}

var _ CardExtractor = (*ListingExtractor)(nil)

// PageScraper fetches one search-results page and extracts its cards.
type PageScraper struct {
	fetcher  olxscrape.Fetcher
	listings CardExtractor
	logger   *slog.Logger
}

// NewPageScraper creates a PageScraper. A nil logger discards output.
func NewPageScraper(fetcher olxscrape.Fetcher, listings CardExtractor, logger *slog.Logger) *PageScraper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PageScraper{
		fetcher:  fetcher,
		listings: listings,
		logger:   logger,
	}
}

// Scrape fetches pageURL and returns the extracted listings in document
// order. A card that fails to extract is logged and skipped.
func (s *PageScraper) Scrape(ctx context.Context, pageURL string) ([]olxscrape.ListingSummary, error) {
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	root, err := Parse(html)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", pageURL, err)
	}

	cards, selector := FindCards(root)
	s.logger.Debug("cards located",
		"url", pageURL,
		"selector", selector,
		"count", cards.Length(),
	)

	var listings []olxscrape.ListingSummary
	cards.Each(func(i int, card *goquery.Selection) {
		listing, ok, err := s.extractCard(card)
		if err != nil {
			s.logger.Warn("skipping card", "url", pageURL, "index", i, "err", err)
			return
		}
		if ok {
			listings = append(listings, listing)
		}
	})

	return listings, nil
}

// extractCard isolates a single card so a failure cannot abort its siblings.
func (s *PageScraper) extractCard(card *goquery.Selection) (listing olxscrape.ListingSummary, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("card extraction panicked: %v", r)
		}
	}()
	listing, ok = s.listings.Extract(card)
	return listing, ok, nil
}

// FindCards returns the result-card subtrees of a page and the selector
// that located them. When no container selector matches, every div holding
// both a link and a heading is taken, up to a fixed cap.
func FindCards(root *goquery.Selection) (*goquery.Selection, string) {
	for _, selector := range cardContainerSelectors {
		if cards := root.Find(selector); cards.Length() > 0 {
			return cards, selector
		}
	}

	cards := root.Find("div").FilterFunction(func(_ int, div *goquery.Selection) bool {
		return div.Find("a").Length() > 0 && div.Find("h3, h4, h6").Length() > 0
	})
	if cards.Length() > maxHeuristicCards {
		cards = cards.Slice(0, maxHeuristicCards)
	}
	return cards, HeuristicSelector
}
