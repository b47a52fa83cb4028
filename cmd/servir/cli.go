package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/sqlite"
)

// Dependencies holds the services commands need. Kong binds a single
// instance into every command's Run method.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB         *sqlite.DB
	Postings   *sqlite.PostingService
	Normalized *sqlite.NormalizedService
	Taxonomy   *sqlite.TaxonomyService

	// Source is set only for the collect command.
	Source servir.ListingSource

	// Embedder is set only for the classify command.
	Embedder servir.Embedder
}

// CLI defines the command-line interface structure.
type CLI struct {
	Collect  CollectCmd  `cmd:"" help:"Collect job postings from the SERVIR portal."`
	Clean    CleanCmd    `cmd:"" help:"Normalize raw postings into structured records."`
	Classify ClassifyCmd `cmd:"" help:"Classify normalized job titles against the ISCO-08 taxonomy."`
	Report   ReportCmd   `cmd:"" help:"Show record counts for each pipeline stage."`
}
