package prometheus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/mock"
	olxprom "github.com/fwojciec/olxscrape/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterTotal sums every series of the named counter.
func counterTotal(t *testing.T, m *olxprom.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("counts fetches by kind and outcome", func(t *testing.T) {
		t.Parallel()

		m := olxprom.NewMetrics()
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if url == "https://www.olx.pl/bad" {
					return "", errors.New("HTTP 503")
				}
				return "<html></html>", nil
			},
		}

		list := m.WrapFetcher(inner, olxprom.KindList)
		detail := m.WrapFetcher(inner, olxprom.KindDetail)

		_, err := list.Fetch(context.Background(), "https://www.olx.pl/oferty/")
		require.NoError(t, err)
		_, err = list.Fetch(context.Background(), "https://www.olx.pl/bad")
		require.Error(t, err)
		_, err = detail.Fetch(context.Background(), "https://www.olx.pl/d/oferta/a.html")
		require.NoError(t, err)

		got, err := m.Registry().Gather()
		require.NoError(t, err)

		counts := map[string]float64{}
		for _, mf := range got {
			if mf.GetName() != "olxscrape_fetch_requests_total" {
				continue
			}
			for _, metric := range mf.GetMetric() {
				key := ""
				for _, l := range metric.GetLabel() {
					key += l.GetName() + "=" + l.GetValue() + ","
				}
				counts[key] = metric.GetCounter().GetValue()
			}
		}

		assert.Equal(t, map[string]float64{
			"kind=list,outcome=ok,":    1,
			"kind=list,outcome=error,": 1,
			"kind=detail,outcome=ok,":  1,
		}, counts)
	})

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Fetcher{CloseFn: func() error { closed = true; return nil }}

		err := olxprom.NewMetrics().WrapFetcher(inner, olxprom.KindList).Close()

		require.NoError(t, err)
		assert.True(t, closed)
	})
}

func TestProgress(t *testing.T) {
	t.Parallel()

	t.Run("records page and detail events", func(t *testing.T) {
		t.Parallel()

		m := olxprom.NewMetrics()
		forwarded := 0
		inner := &mock.Progress{
			OnPageCompleteFn:   func(olxscrape.PageProgress) { forwarded++ },
			OnDetailProgressFn: func(olxscrape.DetailProgress) { forwarded++ },
		}

		p := m.WrapProgress(inner)
		p.OnPageComplete(olxscrape.PageProgress{Page: 1, Found: 8, Valid: 6, Total: 6})
		p.OnPageComplete(olxscrape.PageProgress{Page: 2})
		p.OnDetailProgress(olxscrape.DetailProgress{Index: 1})
		p.OnDetailProgress(olxscrape.DetailProgress{Index: 2, Error: errors.New("boom")})

		assert.Equal(t, 4, forwarded)

		pages, err := testutil.GatherAndCount(m.Registry(), "olxscrape_pages_total")
		require.NoError(t, err)
		assert.Equal(t, 2, pages)

		details, err := testutil.GatherAndCount(m.Registry(), "olxscrape_details_total")
		require.NoError(t, err)
		assert.Equal(t, 2, details)

		assert.Equal(t, 8.0, counterTotal(t, m, "olxscrape_listings_found_total"))
		assert.Equal(t, 6.0, counterTotal(t, m, "olxscrape_listings_valid_total"))
	})

	t.Run("separates empty detail pages from enriched ones", func(t *testing.T) {
		t.Parallel()

		m := olxprom.NewMetrics()
		p := m.WrapProgress(nil)
		p.OnDetailProgress(olxscrape.DetailProgress{Index: 1})
		p.OnDetailProgress(olxscrape.DetailProgress{Index: 2, Empty: true})
		p.OnDetailProgress(olxscrape.DetailProgress{Index: 3, Error: errors.New("boom")})

		expected := `
# HELP olxscrape_details_total Total number of detail enrichments
# TYPE olxscrape_details_total counter
olxscrape_details_total{outcome="empty"} 1
olxscrape_details_total{outcome="enriched"} 1
olxscrape_details_total{outcome="failed"} 1
`
		err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "olxscrape_details_total")
		assert.NoError(t, err)
	})

	t.Run("counts stop requests", func(t *testing.T) {
		t.Parallel()

		m := olxprom.NewMetrics()
		p := m.WrapProgress(&mock.Progress{ShouldContinueFn: func() bool { return false }})

		assert.False(t, p.ShouldContinue())

		assert.Equal(t, 1.0, counterTotal(t, m, "olxscrape_stops_requested_total"))
	})

	t.Run("nil next never stops", func(t *testing.T) {
		t.Parallel()

		p := olxprom.NewMetrics().WrapProgress(nil)

		assert.True(t, p.ShouldContinue())
	})
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()

	m := olxprom.NewMetrics()
	m.WrapProgress(nil).OnPageComplete(olxscrape.PageProgress{Page: 1, Found: 3, Valid: 2})

	path := filepath.Join(t.TempDir(), "olxscrape.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "olxscrape_listings_found_total 3")
	assert.Contains(t, string(data), "olxscrape_listings_valid_total 2")
	assert.Contains(t, string(data), `olxscrape_pages_total{outcome="listings"} 1`)
}
