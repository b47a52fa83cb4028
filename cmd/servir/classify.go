package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/franco-sebastiani/servir"
	"github.com/franco-sebastiani/servir/classify"
)

// ClassifyCmd matches normalized job titles against the occupational
// taxonomy and prints the top candidates for each title.
type ClassifyCmd struct {
	TopK        int    `help:"Candidates each signal contributes before fusion." default:"5"`
	Concurrency int    `help:"Concurrent embedding requests." default:"4"`
	Taxonomy    string `help:"CSV file of code,label pairs to load before classifying." type:"existingfile" optional:""`
}

func (c *ClassifyCmd) Run(deps *Dependencies) error {
	if c.Taxonomy != "" {
		categories, err := readTaxonomyCSV(c.Taxonomy)
		if err != nil {
			return err
		}
		if err := deps.Taxonomy.LoadCategories(deps.Ctx, categories); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stdout, "Loaded %d taxonomy categories\n", len(categories))
	}

	classifier := &classify.Classifier{
		Taxonomy: deps.Taxonomy,
		Embedder: deps.Embedder,
		TopK:     c.TopK,
	}

	computed, err := classifier.EnsureEmbeddings(deps.Ctx, c.Concurrency)
	if err != nil {
		return err
	}
	if computed > 0 {
		fmt.Fprintf(deps.Stdout, "Computed %d category embeddings\n", computed)
	}

	titles, err := deps.Normalized.CompleteTitles(deps.Ctx)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Fprintln(deps.Stdout, "No normalized titles to classify. Run 'servir clean' first.")
		return nil
	}

	results, err := classifier.ClassifyAll(deps.Ctx, titles, c.Concurrency)
	if err != nil {
		return err
	}

	for _, title := range titles {
		fmt.Fprintf(deps.Stdout, "%s\n", title)
		for _, cand := range results[title] {
			fmt.Fprintf(deps.Stdout, "  %d. %s %s (lexical %.0f, semantic %.0f)\n",
				cand.Rank, cand.Code, cand.Label, cand.LexicalScore, cand.SemanticScore)
		}
	}
	return nil
}

func readTaxonomyCSV(path string) ([]servir.Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file %q: %w", path, err)
	}

	categories := make([]servir.Category, 0, len(records))
	for _, rec := range records {
		code := strings.TrimSpace(rec[0])
		label := strings.TrimSpace(rec[1])
		if strings.EqualFold(code, "code") {
			continue // header row
		}
		categories = append(categories, servir.Category{Code: code, Label: label})
	}
	return categories, nil
}
