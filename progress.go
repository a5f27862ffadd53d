package olxscrape

// PageProgress reports the outcome of one result page.
type PageProgress struct {
	Page   int    // 1-based page index
	URL    string // page URL that was requested
	Found  int    // cards extracted from the page
	Valid  int    // cards kept after filtering
	Total  int    // running total of kept cards
	Status string
}

// DetailProgress reports the outcome of one detail enrichment.
type DetailProgress struct {
	Index    int // 1-based position among the listings selected for enrichment
	Total    int
	Enriched int // running count of merged records
	URL      string
	Title    string
	Error    error
	Empty    bool // the detail page yielded no fields
	Status   string
}

// Progress receives notifications from the pipeline and supplies its
// cancellation flag. Implementations must not block for long: they are
// called inline between network requests.
type Progress interface {
	OnPageComplete(p PageProgress)
	OnDetailProgress(p DetailProgress)

	// ShouldContinue is sampled between pages and between detail fetches.
	// Returning false stops the pipeline at the next safe boundary.
	ShouldContinue() bool
}

// NopProgress ignores all events and never asks the pipeline to stop.
type NopProgress struct{}

func (NopProgress) OnPageComplete(PageProgress)     {}
func (NopProgress) OnDetailProgress(DetailProgress) {}
func (NopProgress) ShouldContinue() bool            { return true }
