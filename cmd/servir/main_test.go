package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/franco-sebastiani/servir"
	main "github.com/franco-sebastiani/servir/cmd/servir"
	"github.com/franco-sebastiani/servir/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"listing_url": "https://example.com"},
	)
	require.NoError(t, err)

	// Kong prints help even if Parse returns an error
	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"collect", "clean", "classify", "report"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range []string{"collect", "clean", "classify", "report"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
}

func TestMain_Run_NoCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{}, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestCmdReport(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedPosting(t, dbPath, "738213")

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"report"}, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Raw postings:        1 complete, 0 incomplete")
	assert.Contains(t, stdout.String(), "Normalized postings: 0 complete, 0 incomplete")
	assert.Contains(t, stdout.String(), "Taxonomy categories: 0")
	assert.Empty(t, stderr.String())
}

func TestCmdClean(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedPosting(t, dbPath, "738213")

	m := main.NewMain()
	m.DBPath = dbPath

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"clean"}, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Processed:  1")
	assert.Contains(t, stdout.String(), "Complete:   1")
	assert.Empty(t, stderr.String())

	// A second run has nothing left to process.
	stdout.Reset()
	m2 := main.NewMain()
	m2.DBPath = dbPath
	err = m2.Run(context.Background(), []string{"clean"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Processed:  0")
}

// seedPosting inserts one complete raw posting directly into the database
// so pipeline commands have data to work with.
func seedPosting(t *testing.T, dbPath, id string) {
	t.Helper()

	db := sqlite.NewDB(dbPath)
	require.NoError(t, db.Open())
	defer db.Close()

	svc, err := sqlite.NewPostingService(db)
	require.NoError(t, err)

	posting := &servir.RawPosting{
		PostingID:       id,
		Institution:     "MINISTERIO DE SALUD",
		JobTitle:        "ASISTENTE ADMINISTRATIVO",
		StartDate:       "01/12/2025",
		EndDate:         "19/12/2025",
		Salary:          "S/. 3,000.00",
		Vacancies:       "2",
		ContractType:    "D.LEG 1057 - INDETERMINADO",
		Experience:      "Dos años en el sector público",
		AcademicProfile: "Bachiller en administración",
		Specialization:  "Gestión pública",
		Knowledge:       "Ofimática",
		Competencies:    "Orden, proactividad",
		ScrapedAt:       time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.InsertComplete(context.Background(), posting))
}
