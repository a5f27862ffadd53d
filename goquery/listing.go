package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxscrape"
)

// Result-card field priority tables.
var (
	cardTitleField = Field{
		{Selector: `[data-cy="ad-card-title"] h4`},
		{Selector: `[data-cy="listing-ad-title"]`},
		{Selector: `[data-testid="listing-ad-title"]`},
		{Selector: `.css-16v5mdi h6`},
		{Selector: `.offer-item-title`},
		{Selector: `.title`},
		{Selector: `a h6`},
		{Selector: `a h4`},
		{Selector: `a h3`},
		{Selector: `h3`},
		{Selector: `h4`},
		{Selector: `h6`},
	}

	cardPriceField = Field{
		{Selector: `p[data-testid="ad-price"]`, Accept: IsPrice},
		{Selector: `span[data-testid="ad-price"]`, Accept: IsPrice},
		{Selector: `[data-testid="ad-price"]`, Accept: IsPrice},
		{Selector: `.css-10b0gli`, Accept: IsPrice},
		{Selector: `.css-1uwck7i`, Accept: IsPrice},
		{Selector: `.price`, Accept: IsPrice},
		{Selector: `strong`, Accept: IsPrice},
		{Selector: `b`, Accept: IsPrice},
	}

	cardLocationDateField = Field{
		{Selector: `[data-testid="location-date"]`},
		{Selector: `.css-veheph`},
		{Selector: `.css-1a4brun`},
		{Selector: `.location`},
	}

	cardImageField = Field{
		{Selector: `img[src]`, Attr: "src"},
		{Selector: `img[data-src]`, Attr: "data-src"},
	}

	cardLinkField = Field{
		{Selector: `a[href]`, Attr: "href", Accept: isWebLink},
	}
)

// ListingExtractor builds summary records from result-card subtrees.
type ListingExtractor struct {
	base *url.URL
}

// NewListingExtractor returns an extractor resolving relative links
// against baseURL.
func NewListingExtractor(baseURL string) (*ListingExtractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, olxscrape.Errorf(olxscrape.EINVALID, "invalid base URL %q", baseURL)
	}
	return &ListingExtractor{base: base}, nil
}

// Extract assembles one summary from card. It returns false only when
// neither a title nor a link could be found; a card with one of the two is
// returned so the caller can decide what to keep.
func (e *ListingExtractor) Extract(card *goquery.Selection) (olxscrape.ListingSummary, bool) {
	title := Extract(card, cardTitleField, olxscrape.Missing)
	link := resolveURL(e.base, Extract(card, cardLinkField, ""))
	if title == olxscrape.Missing && link == "" {
		return olxscrape.ListingSummary{}, false
	}

	location, date := SplitLocationDate(Extract(card, cardLocationDateField, ""))

	return olxscrape.ListingSummary{
		ID:       olxscrape.ListingID(link),
		Title:    title,
		Price:    Extract(card, cardPriceField, olxscrape.Missing),
		Location: location,
		Date:     date,
		URL:      link,
		ImageURL: Extract(card, cardImageField, ""),
	}, true
}

// SplitLocationDate separates a combined "location - date" caption. Without
// the separator the whole caption is the location and the date is missing.
func SplitLocationDate(s string) (location, date string) {
	if s == "" {
		return olxscrape.Missing, olxscrape.Missing
	}
	parts := strings.Split(s, " - ")
	if len(parts) < 2 {
		return s, olxscrape.Missing
	}
	return parts[0], parts[len(parts)-1]
}
