package slog

import (
	"log/slog"

	"github.com/fwojciec/olxscrape"
)

// Ensure LoggingProgress implements olxscrape.Progress.
var _ olxscrape.Progress = (*LoggingProgress)(nil)

// LoggingProgress logs pipeline progress events before forwarding them.
type LoggingProgress struct {
	next   olxscrape.Progress
	logger *slog.Logger
}

// NewLoggingProgress creates a new LoggingProgress. A nil next discards
// events after logging them.
func NewLoggingProgress(next olxscrape.Progress, logger *slog.Logger) *LoggingProgress {
	if next == nil {
		next = olxscrape.NopProgress{}
	}
	return &LoggingProgress{next: next, logger: logger}
}

// OnPageComplete logs the page outcome and forwards it.
func (p *LoggingProgress) OnPageComplete(e olxscrape.PageProgress) {
	p.logger.Info("page complete",
		"page", e.Page,
		"found", e.Found,
		"valid", e.Valid,
		"total", e.Total,
	)
	p.next.OnPageComplete(e)
}

// OnDetailProgress logs the enrichment outcome and forwards it.
func (p *LoggingProgress) OnDetailProgress(e olxscrape.DetailProgress) {
	attrs := []any{
		"index", e.Index,
		"of", e.Total,
		"enriched", e.Enriched,
		"url", e.URL,
	}
	switch {
	case e.Error != nil:
		p.logger.Warn("detail progress", append(attrs, "err", e.Error)...)
	case e.Empty:
		p.logger.Warn("detail progress", append(attrs, "empty", true)...)
	default:
		p.logger.Info("detail progress", attrs...)
	}
	p.next.OnDetailProgress(e)
}

// ShouldContinue delegates to the wrapped progress and logs a stop request.
func (p *LoggingProgress) ShouldContinue() bool {
	ok := p.next.ShouldContinue()
	if !ok {
		p.logger.Info("stop requested")
	}
	return ok
}
