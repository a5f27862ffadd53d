package mock

import "github.com/fwojciec/olxscrape"

var _ olxscrape.Progress = (*Progress)(nil)

// Progress is a mock implementation of olxscrape.Progress.
// Nil function fields are treated as no-ops; a nil ShouldContinueFn
// always continues.
type Progress struct {
	OnPageCompleteFn   func(p olxscrape.PageProgress)
	OnDetailProgressFn func(p olxscrape.DetailProgress)
	ShouldContinueFn   func() bool
}

func (p *Progress) OnPageComplete(e olxscrape.PageProgress) {
	if p.OnPageCompleteFn != nil {
		p.OnPageCompleteFn(e)
	}
}

func (p *Progress) OnDetailProgress(e olxscrape.DetailProgress) {
	if p.OnDetailProgressFn != nil {
		p.OnDetailProgressFn(e)
	}
}

func (p *Progress) ShouldContinue() bool {
	if p.ShouldContinueFn == nil {
		return true
	}
	return p.ShouldContinueFn()
}
