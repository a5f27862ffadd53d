package main

import "fmt"

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	summaries, err := deps.Session.Collect(deps.Ctx, c.URL, c.Backup, c.MaxPages, c.Target)
	if err == nil && c.Target > 0 && len(summaries) < c.Target {
		fmt.Fprintf(deps.Stdout, "Collected %d of %d listings\n", len(summaries), c.Target)
	}
	if saveErr := saveSummaries(deps, summaries, err); saveErr != nil {
		return saveErr
	}
	return err
}
