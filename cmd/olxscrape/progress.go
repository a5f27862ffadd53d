package main

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/fwojciec/olxscrape"
)

// StopFlag is the externally owned cancellation flag sampled by the pipeline.
type StopFlag struct {
	stopped atomic.Bool
}

// Stop asks the pipeline to finish at the next safe boundary.
func (f *StopFlag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether Stop was called.
func (f *StopFlag) Stopped() bool {
	return f.stopped.Load()
}

// Ensure ConsoleProgress implements olxscrape.Progress at compile time.
var _ olxscrape.Progress = (*ConsoleProgress)(nil)

// ConsoleProgress prints one status line per page and per listing.
type ConsoleProgress struct {
	w    io.Writer
	stop *StopFlag
}

// NewConsoleProgress creates a ConsoleProgress writing to w. A nil stop
// flag never stops.
func NewConsoleProgress(w io.Writer, stop *StopFlag) *ConsoleProgress {
	if stop == nil {
		stop = &StopFlag{}
	}
	return &ConsoleProgress{w: w, stop: stop}
}

func (p *ConsoleProgress) OnPageComplete(e olxscrape.PageProgress) {
	fmt.Fprintln(p.w, e.Status)
}

func (p *ConsoleProgress) OnDetailProgress(e olxscrape.DetailProgress) {
	if e.Error != nil {
		fmt.Fprintf(p.w, "[%d/%d] %s: %s\n", e.Index, e.Total, e.Status, olxscrape.ErrorMessage(e.Error))
		return
	}
	fmt.Fprintf(p.w, "[%d/%d] %s\n", e.Index, e.Total, e.Status)
}

func (p *ConsoleProgress) ShouldContinue() bool {
	return !p.stop.Stopped()
}
