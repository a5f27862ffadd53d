package scrape

import (
	"github.com/fwojciec/olxscrape"
	"github.com/fwojciec/olxscrape/bloom"
)

// falsePositiveRate sizes the filter in front of the exact URL set.
const falsePositiveRate = 0.001

// Combine takes the first batch as it is and appends listings from the
// remaining batches whose canonical URL was not seen yet, stopping after
// limit listings. A limit of zero means no limit. Listings without a URL
// are kept as they are.
func Combine(limit int, batches ...[]olxscrape.ListingSummary) []olxscrape.ListingSummary {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := bloom.NewURLSet(uint(total), falsePositiveRate)
	out := make([]olxscrape.ListingSummary, 0, total)
	for i, batch := range batches {
		for _, l := range batch {
			if limit > 0 && len(out) >= limit {
				return out
			}
			if l.URL != "" {
				if i == 0 {
					seen.Add(l.URL)
				} else if !seen.AddNew(l.URL) {
					continue
				}
			}
			out = append(out, l)
		}
	}
	return out
}
