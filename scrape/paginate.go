// Package scrape drives the extraction pipeline: it walks result pages,
// paces requests and enriches summaries with detail records.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/olxscrape"
)

// Paginator walks the result pages of one search until a page comes back
// empty or the page budget runs out.
type Paginator struct {
	Scraper  olxscrape.PageScraper
	Pacer    olxscrape.Pacer
	Progress olxscrape.Progress
	Logger   *slog.Logger
}

// Paginate scrapes pages 1..maxPages of baseURL and returns the valid
// listings in page order. A page that fails to load or yields no cards ends
// the walk. The only error returned is context cancellation, together with
// the listings collected so far.
func (p *Paginator) Paginate(ctx context.Context, baseURL string, maxPages int) ([]olxscrape.ListingSummary, error) {
	progress := p.Progress
	if progress == nil {
		progress = olxscrape.NopProgress{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var all []olxscrape.ListingSummary
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		if !progress.ShouldContinue() {
			logger.Info("pagination stopped", "page", page, "total", len(all))
			break
		}
		if p.Pacer != nil {
			if err := p.Pacer.Wait(ctx); err != nil {
				return all, err
			}
		}

		pageURL := PageURL(baseURL, page)
		listings, err := p.Scraper.Scrape(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return all, ctx.Err()
			}
			logger.Warn("page failed", "page", page, "url", pageURL, "err", err)
			progress.OnPageComplete(olxscrape.PageProgress{
				Page:   page,
				URL:    pageURL,
				Total:  len(all),
				Status: fmt.Sprintf("Page %d failed: %s", page, olxscrape.ErrorMessage(err)),
			})
			break
		}

		if len(listings) == 0 {
			logger.Info("no listings on page", "page", page, "url", pageURL)
			progress.OnPageComplete(olxscrape.PageProgress{
				Page:   page,
				URL:    pageURL,
				Total:  len(all),
				Status: fmt.Sprintf("Page %d: no listings, stopping", page),
			})
			break
		}

		valid := 0
		for _, l := range listings {
			if l.Valid() {
				all = append(all, l)
				valid++
			}
		}

		logger.Debug("page scraped", "page", page, "found", len(listings), "valid", valid)
		progress.OnPageComplete(olxscrape.PageProgress{
			Page:   page,
			URL:    pageURL,
			Found:  len(listings),
			Valid:  valid,
			Total:  len(all),
			Status: fmt.Sprintf("Page %d: %d valid listings (total %d)", page, valid, len(all)),
		})
	}

	return all, nil
}

// PageURL appends the page parameter to baseURL, joining with "&" when
// baseURL already carries a query.
func PageURL(baseURL string, page int) string {
	if strings.Contains(baseURL, "?") {
		return fmt.Sprintf("%s&page=%d", baseURL, page)
	}
	return fmt.Sprintf("%s?page=%d", baseURL, page)
}
