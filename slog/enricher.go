package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/olxscrape"
)

// Ensure LoggingDetailEnricher implements olxscrape.DetailEnricher.
var _ olxscrape.DetailEnricher = (*LoggingDetailEnricher)(nil)

// LoggingDetailEnricher wraps a DetailEnricher with logging.
type LoggingDetailEnricher struct {
	next   olxscrape.DetailEnricher
	logger *slog.Logger
}

// NewLoggingDetailEnricher creates a new LoggingDetailEnricher.
func NewLoggingDetailEnricher(next olxscrape.DetailEnricher, logger *slog.Logger) *LoggingDetailEnricher {
	return &LoggingDetailEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs how much it found.
func (e *LoggingDetailEnricher) Enrich(ctx context.Context, listingURL string) (detail olxscrape.ListingDetail, err error) {
	defer func(begin time.Time) {
		e.logger.Info("detail enrichment",
			"url", listingURL,
			"images", len(detail.Images),
			"attributes", len(detail.Attributes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Enrich(ctx, listingURL)
}
