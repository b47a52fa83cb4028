package main

import (
	"fmt"

	"github.com/franco-sebastiani/servir/normalize"
)

// CleanCmd normalizes every stored posting that has not been processed yet.
type CleanCmd struct{}

func (c *CleanCmd) Run(deps *Dependencies) error {
	runner := &normalize.Runner{
		Source: deps.Postings,
		Dest:   deps.Normalized,
	}

	result, err := runner.Run(deps.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Processed:  %d\n", result.Processed)
	fmt.Fprintf(deps.Stdout, "Complete:   %d\n", result.Complete)
	fmt.Fprintf(deps.Stdout, "Incomplete: %d\n", result.Incomplete)
	fmt.Fprintf(deps.Stdout, "Rejected:   %d\n", result.Rejected)
	for _, e := range result.Errors {
		fmt.Fprintf(deps.Stderr, "error: %s\n", e)
	}
	return nil
}
