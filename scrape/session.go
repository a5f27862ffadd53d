package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/olxscrape"
)

// Session composes the paginator and the detail enricher into the scraping
// workflows. Nil pacers fall back to throttles with the default delays.
type Session struct {
	Scraper  olxscrape.PageScraper
	Details  olxscrape.DetailEnricher
	Progress olxscrape.Progress
	Logger   *slog.Logger

	PagePacer   olxscrape.Pacer
	SearchPacer olxscrape.Pacer
	DetailPacer olxscrape.Pacer

	// BaseURL overrides olxscrape.DefaultBaseURL for Search.
	BaseURL string
}

// FetchSummaries returns the valid listings found on up to maxPages result
// pages of pageURL.
func (s *Session) FetchSummaries(ctx context.Context, pageURL string, maxPages int) ([]olxscrape.ListingSummary, error) {
	if err := validateURL(pageURL); err != nil {
		return nil, err
	}
	if err := validatePages(maxPages); err != nil {
		return nil, err
	}
	return s.paginator(pacerOr(s.PagePacer, DefaultPageDelay)).Paginate(ctx, pageURL, maxPages)
}

// FetchEnriched fetches summaries and then enriches the first maxDetailed
// of them.
func (s *Session) FetchEnriched(ctx context.Context, pageURL string, maxPages, maxDetailed int) ([]olxscrape.MergedListing, error) {
	if err := validateDetailed(maxDetailed); err != nil {
		return nil, err
	}
	summaries, err := s.FetchSummaries(ctx, pageURL, maxPages)
	if err != nil {
		return nil, err
	}
	return s.Enrich(ctx, summaries, maxDetailed)
}

// Enrich fetches the detail page of each of the first maxDetailed summaries
// and merges it over the summary. Summaries without a URL are skipped. A
// failed enrichment keeps the summary unmerged. On cancellation the records
// merged so far are returned with the context error.
func (s *Session) Enrich(ctx context.Context, summaries []olxscrape.ListingSummary, maxDetailed int) ([]olxscrape.MergedListing, error) {
	if err := validateDetailed(maxDetailed); err != nil {
		return nil, err
	}

	progress := s.progress()
	logger := s.logger()
	pacer := pacerOr(s.DetailPacer, DefaultDetailDelay)

	n := min(maxDetailed, len(summaries))
	merged := make([]olxscrape.MergedListing, 0, n)
	for i, summary := range summaries[:n] {
		if summary.URL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return merged, err
		}
		if !progress.ShouldContinue() {
			logger.Info("enrichment stopped", "index", i+1, "enriched", len(merged))
			break
		}
		if err := pacer.Wait(ctx); err != nil {
			return merged, err
		}

		event := olxscrape.DetailProgress{
			Index: i + 1,
			Total: n,
			URL:   summary.URL,
			Title: summary.Title,
		}

		detail, err := s.Details.Enrich(ctx, summary.URL)
		if err != nil {
			if ctx.Err() != nil {
				return merged, ctx.Err()
			}
			logger.Warn("enrichment failed", "url", summary.URL, "err", err)
			merged = append(merged, olxscrape.MergedListing{ListingSummary: summary})
			event.Error = err
			event.Status = fmt.Sprintf("Listing %d/%d: enrichment failed, keeping summary", i+1, n)
		} else if detail.IsEmpty() {
			merged = append(merged, olxscrape.MergedListing{ListingSummary: summary})
			event.Empty = true
			event.Status = fmt.Sprintf("Listing %d/%d: no details available, keeping summary", i+1, n)
		} else {
			merged = append(merged, olxscrape.Merge(summary, detail))
			event.Status = fmt.Sprintf("Listing %d/%d: %s", i+1, n, summary.Title)
		}

		event.Enriched = len(merged)
		progress.OnDetailProgress(event)
	}

	return merged, nil
}

// Search builds the keyword search URL for query, optionally narrowed to
// location, and returns the valid listings from up to maxPages pages.
func (s *Session) Search(ctx context.Context, query, location string, maxPages int) ([]olxscrape.ListingSummary, error) {
	if err := validatePages(maxPages); err != nil {
		return nil, err
	}
	searchURL, err := SearchURL(s.baseURL(), query, location)
	if err != nil {
		return nil, err
	}
	return s.paginator(pacerOr(s.SearchPacer, DefaultSearchDelay)).Paginate(ctx, searchURL, maxPages)
}

// Collect fetches summaries from primaryURL and, when fewer than target were
// found, tops them up from backupURL. Primary listings are kept as found;
// backup listings whose canonical URL was already seen are skipped. The result holds at most target listings;
// a target of zero means no limit and skips the backup.
func (s *Session) Collect(ctx context.Context, primaryURL, backupURL string, maxPages, target int) ([]olxscrape.ListingSummary, error) {
	if target < 0 {
		return nil, olxscrape.Errorf(olxscrape.EINVALID, "target must not be negative, got %d", target)
	}
	if backupURL != "" {
		if err := validateURL(backupURL); err != nil {
			return nil, err
		}
	}

	primary, err := s.FetchSummaries(ctx, primaryURL, maxPages)
	if err != nil {
		return Combine(target, primary), err
	}
	if target == 0 || len(primary) >= target || backupURL == "" {
		return Combine(target, primary), nil
	}

	s.logger().Info("topping up from backup URL",
		"have", len(primary),
		"target", target,
		"url", backupURL,
	)
	backup, err := s.FetchSummaries(ctx, backupURL, maxPages)
	return Combine(target, primary, backup), err
}

// SearchURL builds "{base}/oferty/q-{query}/[{location}/]". Query words are
// joined with "-" and each path segment is escaped.
func SearchURL(baseURL, query, location string) (string, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return "", olxscrape.Errorf(olxscrape.EINVALID, "search query is empty")
	}
	if err := validateURL(baseURL); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString("/oferty/q-")
	b.WriteString(url.PathEscape(strings.Join(words, "-")))
	b.WriteString("/")
	if loc := strings.TrimSpace(location); loc != "" {
		b.WriteString(url.PathEscape(loc))
		b.WriteString("/")
	}
	return b.String(), nil
}

func (s *Session) paginator(pacer olxscrape.Pacer) *Paginator {
	return &Paginator{
		Scraper:  s.Scraper,
		Pacer:    pacer,
		Progress: s.progress(),
		Logger:   s.logger(),
	}
}

func (s *Session) progress() olxscrape.Progress {
	if s.Progress == nil {
		return olxscrape.NopProgress{}
	}
	return s.Progress
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Session) baseURL() string {
	if s.BaseURL == "" {
		return olxscrape.DefaultBaseURL
	}
	return s.BaseURL
}

func pacerOr(p olxscrape.Pacer, delay time.Duration) olxscrape.Pacer {
	if p == nil {
		return NewThrottle(delay)
	}
	return p
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return olxscrape.Errorf(olxscrape.EINVALID, "URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return olxscrape.Errorf(olxscrape.EINVALID, "URL must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

func validatePages(maxPages int) error {
	if maxPages <= 0 {
		return olxscrape.Errorf(olxscrape.EINVALID, "max pages must be positive, got %d", maxPages)
	}
	return nil
}

func validateDetailed(maxDetailed int) error {
	if maxDetailed <= 0 {
		return olxscrape.Errorf(olxscrape.EINVALID, "max detailed must be positive, got %d", maxDetailed)
	}
	return nil
}
