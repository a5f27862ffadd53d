package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/olxscrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	if c.Details && c.MaxDetailed <= 0 {
		err := olxscrape.Errorf(olxscrape.EINVALID, "max detailed must be positive, got %d", c.MaxDetailed)
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxscrape.ErrorMessage(err))
		return err
	}

	summaries, err := deps.Session.FetchSummaries(deps.Ctx, c.URL, c.MaxPages)
	if saveErr := saveSummaries(deps, summaries, err); saveErr != nil {
		return saveErr
	}
	if err != nil || !c.Details || len(summaries) == 0 {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Fetching details for up to %d listings\n", min(c.MaxDetailed, len(summaries)))

	merged, err := deps.Session.Enrich(deps.Ctx, summaries, c.MaxDetailed)
	if len(merged) > 0 {
		path, writeErr := deps.Writer.WriteEnriched(context.WithoutCancel(deps.Ctx), merged)
		if writeErr != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", olxscrape.ErrorMessage(writeErr))
			return writeErr
		}
		fmt.Fprintf(deps.Stdout, "Saved %d detailed listings to %s\n", len(merged), path)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxscrape.ErrorMessage(err))
	}
	return err
}

// saveSummaries writes whatever listings were collected, including a
// partial result from an interrupted run, and reports fetchErr.
func saveSummaries(deps *Dependencies, summaries []olxscrape.ListingSummary, fetchErr error) error {
	if fetchErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxscrape.ErrorMessage(fetchErr))
	}
	if len(summaries) == 0 {
		if fetchErr == nil {
			fmt.Fprintln(deps.Stdout, "No listings found")
		}
		return nil
	}

	// An interrupted run still leaves its partial result on disk.
	path, err := deps.Writer.WriteSummaries(context.WithoutCancel(deps.Ctx), summaries)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", olxscrape.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Saved %d listings to %s\n", len(summaries), path)
	return nil
}
