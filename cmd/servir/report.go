package main

import "fmt"

// ReportCmd prints record counts for each pipeline stage.
type ReportCmd struct{}

func (c *ReportCmd) Run(deps *Dependencies) error {
	rawComplete, rawIncomplete, err := deps.Postings.Counts(deps.Ctx)
	if err != nil {
		return err
	}
	normComplete, normIncomplete, err := deps.Normalized.Counts(deps.Ctx)
	if err != nil {
		return err
	}
	categories, err := deps.Taxonomy.Categories(deps.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Raw postings:        %d complete, %d incomplete\n", rawComplete, rawIncomplete)
	fmt.Fprintf(deps.Stdout, "Normalized postings: %d complete, %d incomplete\n", normComplete, normIncomplete)
	fmt.Fprintf(deps.Stdout, "Taxonomy categories: %d\n", len(categories))
	return nil
}
