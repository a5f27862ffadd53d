package prometheus

import "github.com/fwojciec/olxscrape"

// Ensure Progress implements olxscrape.Progress.
var _ olxscrape.Progress = (*Progress)(nil)

// Progress records pipeline events before forwarding them.
type Progress struct {
	next    olxscrape.Progress
	metrics *Metrics
}

// WrapProgress returns next instrumented with the run's counters. A nil
// next discards events after recording them.
func (m *Metrics) WrapProgress(next olxscrape.Progress) *Progress {
	if next == nil {
		next = olxscrape.NopProgress{}
	}
	return &Progress{next: next, metrics: m}
}

func (p *Progress) OnPageComplete(e olxscrape.PageProgress) {
	outcome := "listings"
	if e.Found == 0 {
		outcome = "empty"
	}
	p.metrics.pagesTotal.WithLabelValues(outcome).Inc()
	p.metrics.listingsFound.Add(float64(e.Found))
	p.metrics.listingsValid.Add(float64(e.Valid))
	p.next.OnPageComplete(e)
}

func (p *Progress) OnDetailProgress(e olxscrape.DetailProgress) {
	outcome := "enriched"
	switch {
	case e.Error != nil:
		outcome = "failed"
	case e.Empty:
		outcome = "empty"
	}
	p.metrics.detailsTotal.WithLabelValues(outcome).Inc()
	p.next.OnDetailProgress(e)
}

func (p *Progress) ShouldContinue() bool {
	ok := p.next.ShouldContinue()
	if !ok {
		p.metrics.stopsRequested.Inc()
	}
	return ok
}
