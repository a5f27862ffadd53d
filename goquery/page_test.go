package goquery_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/goquery"
	"github.com/fwojciec/olxscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPageScraper(t *testing.T, html string) *goquery.PageScraper {
	t.Helper()
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, nil
		},
	}
	return goquery.NewPageScraper(fetcher, newListingExtractor(t), nil)
}

// cardFunc adapts a function to goquery.CardExtractor.
type cardFunc func(card *gq.Selection) (olxscrape.ListingSummary, bool)

func (f cardFunc) Extract(card *gq.Selection) (olxscrape.ListingSummary, bool) {
	return f(card)
}

func TestPageScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("returns listings in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div data-cy="l-card"><a href="/d/oferta/a-IDa1.html"><h6>Pierwszy</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/b-IDb2.html"><h6>Drugi</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/c-IDc3.html"><h6>Trzeci</h6></a></div>
</body></html>`

		listings, err := newPageScraper(t, html).Scrape(context.Background(), "https://www.olx.pl/oferty/")

		require.NoError(t, err)
		require.Len(t, listings, 3)
		assert.Equal(t, "Pierwszy", listings[0].Title)
		assert.Equal(t, "Drugi", listings[1].Title)
		assert.Equal(t, "Trzeci", listings[2].Title)
		assert.Equal(t, "c3", listings[2].ID)
	})

	t.Run("keeps partial cards and drops empty ones", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div data-cy="l-card"><a href="/d/oferta/a-IDa1.html"><h6>Pełna</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/b-IDb2.html"><img src="b.jpg"></a></div>
<div data-cy="l-card"><span>Reklama</span></div>
</body></html>`

		listings, err := newPageScraper(t, html).Scrape(context.Background(), "https://www.olx.pl/oferty/")

		require.NoError(t, err)
		require.Len(t, listings, 2)
		assert.True(t, listings[0].Valid())
		assert.False(t, listings[1].Valid())
	})

	t.Run("skips a failing card and keeps its siblings", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div data-cy="l-card"><a href="/d/oferta/a-IDa1.html"><h6>Pierwszy</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/b-IDb2.html"><h6>Zepsuty</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/c-IDc3.html"><h6>Trzeci</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/d-IDd4.html"><h6>Zepsuty</h6></a></div>
<div data-cy="l-card"><a href="/d/oferta/e-IDe5.html"><h6>Piąty</h6></a></div>
</body></html>`
		extractor := newListingExtractor(t)
		cards := cardFunc(func(card *gq.Selection) (olxscrape.ListingSummary, bool) {
			if strings.Contains(card.Text(), "Zepsuty") {
				panic("malformed card")
			}
			return extractor.Extract(card)
		})
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return html, nil
			},
		}

		listings, err := goquery.NewPageScraper(fetcher, cards, nil).Scrape(context.Background(), "https://www.olx.pl/oferty/")

		require.NoError(t, err)
		require.Len(t, listings, 3)
		assert.Equal(t, "Pierwszy", listings[0].Title)
		assert.Equal(t, "Trzeci", listings[1].Title)
		assert.Equal(t, "Piąty", listings[2].Title)
	})

	t.Run("returns empty result for page without cards", func(t *testing.T) {
		t.Parallel()

		listings, err := newPageScraper(t, `<html><body><p>Brak wyników</p></body></html>`).
			Scrape(context.Background(), "https://www.olx.pl/oferty/?page=9")

		require.NoError(t, err)
		assert.Empty(t, listings)
	})

	t.Run("propagates fetch error", func(t *testing.T) {
		t.Parallel()

		fetchErr := olxscrape.Errorf(olxscrape.EUNAVAILABLE, "HTTP 503")
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", fetchErr
			},
		}
		scraper := goquery.NewPageScraper(fetcher, newListingExtractor(t), nil)

		listings, err := scraper.Scrape(context.Background(), "https://www.olx.pl/oferty/")

		require.ErrorIs(t, err, fetchErr)
		assert.Nil(t, listings)
	})

	t.Run("passes page URL to fetcher", func(t *testing.T) {
		t.Parallel()

		var got string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				got = url
				return "<html></html>", nil
			},
		}
		scraper := goquery.NewPageScraper(fetcher, newListingExtractor(t), nil)

		_, err := scraper.Scrape(context.Background(), "https://www.olx.pl/oferty/q-garaz/?page=2")

		require.NoError(t, err)
		assert.Equal(t, "https://www.olx.pl/oferty/q-garaz/?page=2", got)
	})
}

func TestFindCards(t *testing.T) {
	t.Parallel()

	t.Run("prefers the most specific container selector", func(t *testing.T) {
		t.Parallel()

		root, err := goquery.Parse(`<div data-cy="l-card"><a href="/a"><h6>A</h6></a></div>
<article><a href="/b"><h6>B</h6></a></article>
<article><a href="/c"><h6>C</h6></a></article>`)
		require.NoError(t, err)

		cards, selector := goquery.FindCards(root)

		assert.Equal(t, `[data-cy="l-card"]`, selector)
		assert.Equal(t, 1, cards.Length())
	})

	t.Run("falls back to later selectors", func(t *testing.T) {
		t.Parallel()

		root, err := goquery.Parse(`<div class="offer-wrapper"><a href="/a"><h3>A</h3></a></div>
<div class="offer-wrapper"><a href="/b"><h3>B</h3></a></div>`)
		require.NoError(t, err)

		cards, selector := goquery.FindCards(root)

		assert.Equal(t, ".offer-wrapper", selector)
		assert.Equal(t, 2, cards.Length())
	})

	t.Run("scans divs with link and heading when no selector matches", func(t *testing.T) {
		t.Parallel()

		root, err := goquery.Parse(`<section>
<div class="x"><a href="/a">A</a><h4>Tytuł</h4></div>
<div class="y"><a href="/b">B</a></div>
<div class="z"><h4>Bez linku</h4></div>
</section>`)
		require.NoError(t, err)

		cards, selector := goquery.FindCards(root)

		assert.Equal(t, goquery.HeuristicSelector, selector)
		require.Equal(t, 1, cards.Length())
		assert.True(t, cards.HasClass("x"))
	})

	t.Run("caps heuristic scan", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		b.WriteString("<section>")
		for i := range 60 {
			fmt.Fprintf(&b, `<div><a href="/o/%d">link</a><h4>Oferta %d</h4></div>`, i, i)
		}
		b.WriteString("</section>")

		root, err := goquery.Parse(b.String())
		require.NoError(t, err)

		cards, selector := goquery.FindCards(root)

		assert.Equal(t, goquery.HeuristicSelector, selector)
		assert.Equal(t, 50, cards.Length())
	})
}
