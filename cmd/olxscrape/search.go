package main

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	summaries, err := deps.Session.Search(deps.Ctx, c.Query, c.Location, c.MaxPages)
	if saveErr := saveSummaries(deps, summaries, err); saveErr != nil {
		return saveErr
	}
	return err
}
