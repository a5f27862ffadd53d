package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/mock"
	"github.com/fwojciec/olxscrape/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listings returns n valid summaries tagged with page.
func listings(page, n int) []olxscrape.ListingSummary {
	out := make([]olxscrape.ListingSummary, 0, n)
	for i := range n {
		out = append(out, olxscrape.ListingSummary{
			Title: fmt.Sprintf("Oferta %d.%d", page, i),
			URL:   fmt.Sprintf("https://www.olx.pl/d/oferta/o-ID%dx%d.html", page, i),
		})
	}
	return out
}

// pagedScraper serves counts[i] listings for page i+1 and records requested URLs.
func pagedScraper(counts []int, requested *[]string) *mock.PageScraper {
	page := 0
	return &mock.PageScraper{
		ScrapeFn: func(_ context.Context, pageURL string) ([]olxscrape.ListingSummary, error) {
			*requested = append(*requested, pageURL)
			page++
			if page > len(counts) {
				return nil, nil
			}
			return listings(page, counts[page-1]), nil
		},
	}
}

func noDelay() olxscrape.Pacer {
	return scrape.NewThrottle(0)
}

func TestPaginator_Paginate(t *testing.T) {
	t.Parallel()

	t.Run("stops at the first empty page", func(t *testing.T) {
		t.Parallel()

		var requested []string
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{3, 2, 0, 5}, &requested),
			Pacer:   noDelay(),
		}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 10)

		require.NoError(t, err)
		assert.Len(t, got, 5)
		assert.Equal(t, []string{
			"https://www.olx.pl/oferty/?page=1",
			"https://www.olx.pl/oferty/?page=2",
			"https://www.olx.pl/oferty/?page=3",
		}, requested)
	})

	t.Run("respects max pages", func(t *testing.T) {
		t.Parallel()

		var requested []string
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{1, 1, 1, 1}, &requested),
			Pacer:   noDelay(),
		}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 2)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Len(t, requested, 2)
	})

	t.Run("never returns invalid listings", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.PageScraper{
			ScrapeFn: func(_ context.Context, pageURL string) ([]olxscrape.ListingSummary, error) {
				if pageURL != "https://www.olx.pl/oferty/?page=1" {
					return nil, nil
				}
				return []olxscrape.ListingSummary{
					{Title: "Dobra", URL: "https://www.olx.pl/d/oferta/a.html"},
					{Title: olxscrape.Missing, URL: "https://www.olx.pl/d/oferta/b.html"},
					{Title: "Bez linku"},
					{Title: "", URL: "https://www.olx.pl/d/oferta/c.html"},
				}, nil
			},
		}
		var events []olxscrape.PageProgress
		p := &scrape.Paginator{
			Scraper: scraper,
			Pacer:   noDelay(),
			Progress: &mock.Progress{
				OnPageCompleteFn: func(e olxscrape.PageProgress) { events = append(events, e) },
			},
		}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 3)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dobra", got[0].Title)
		for _, l := range got {
			assert.True(t, l.Valid())
		}
		require.Len(t, events, 2)
		assert.Equal(t, 4, events[0].Found)
		assert.Equal(t, 1, events[0].Valid)
		assert.Equal(t, 1, events[0].Total)
	})

	t.Run("appends page parameter to existing query", func(t *testing.T) {
		t.Parallel()

		var requested []string
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{1}, &requested),
			Pacer:   noDelay(),
		}

		_, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/?search[order]=created_at:desc", 5)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://www.olx.pl/oferty/?search[order]=created_at:desc&page=1",
			"https://www.olx.pl/oferty/?search[order]=created_at:desc&page=2",
		}, requested)
	})

	t.Run("reports progress for every page including the terminal one", func(t *testing.T) {
		t.Parallel()

		var requested []string
		var events []olxscrape.PageProgress
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{3, 2, 0}, &requested),
			Pacer:   noDelay(),
			Progress: &mock.Progress{
				OnPageCompleteFn: func(e olxscrape.PageProgress) { events = append(events, e) },
			},
		}

		_, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 5)

		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, 1, events[0].Page)
		assert.Equal(t, 3, events[0].Total)
		assert.Equal(t, 2, events[1].Page)
		assert.Equal(t, 5, events[1].Total)
		assert.Equal(t, 3, events[2].Page)
		assert.Equal(t, 0, events[2].Found)
		assert.Equal(t, 5, events[2].Total)
		assert.NotEmpty(t, events[2].Status)
	})

	t.Run("stops when scraper fails", func(t *testing.T) {
		t.Parallel()

		calls := 0
		scraper := &mock.PageScraper{
			ScrapeFn: func(_ context.Context, _ string) ([]olxscrape.ListingSummary, error) {
				calls++
				if calls == 2 {
					return nil, olxscrape.Errorf(olxscrape.EUNAVAILABLE, "HTTP 503")
				}
				return listings(calls, 2), nil
			},
		}
		p := &scrape.Paginator{Scraper: scraper, Pacer: noDelay()}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 5)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops when progress asks to", func(t *testing.T) {
		t.Parallel()

		var requested []string
		checks := 0
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{2, 2, 2}, &requested),
			Pacer:   noDelay(),
			Progress: &mock.Progress{
				ShouldContinueFn: func() bool {
					checks++
					return checks <= 1
				},
			},
		}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 3)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Len(t, requested, 1)
	})

	t.Run("waits on the pacer before every page", func(t *testing.T) {
		t.Parallel()

		var requested []string
		waits := 0
		p := &scrape.Paginator{
			Scraper: pagedScraper([]int{1, 1, 0}, &requested),
			Pacer: &mock.Pacer{
				WaitFn: func(_ context.Context) error {
					waits++
					return nil
				},
			},
		}

		_, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 5)

		require.NoError(t, err)
		assert.Equal(t, 3, waits)
	})

	t.Run("returns collected listings on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		calls := 0
		scraper := &mock.PageScraper{
			ScrapeFn: func(_ context.Context, _ string) ([]olxscrape.ListingSummary, error) {
				calls++
				cancel()
				return listings(calls, 2), nil
			},
		}
		p := &scrape.Paginator{Scraper: scraper, Pacer: noDelay()}

		got, err := p.Paginate(ctx, "https://www.olx.pl/oferty/", 5)

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, got, 2)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns pacer error", func(t *testing.T) {
		t.Parallel()

		waitErr := errors.New("wait aborted")
		p := &scrape.Paginator{
			Scraper: &mock.PageScraper{},
			Pacer: &mock.Pacer{
				WaitFn: func(_ context.Context) error { return waitErr },
			},
		}

		got, err := p.Paginate(context.Background(), "https://www.olx.pl/oferty/", 5)

		require.ErrorIs(t, err, waitErr)
		assert.Empty(t, got)
	})
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://www.olx.pl/oferty/?page=3", scrape.PageURL("https://www.olx.pl/oferty/", 3))
	assert.Equal(t, "https://www.olx.pl/oferty/?q=garaz&page=1", scrape.PageURL("https://www.olx.pl/oferty/?q=garaz", 1))
}
