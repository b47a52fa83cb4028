package collect

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxErrors bounds the run's error log.
const DefaultMaxErrors = 100

// Termination says how a collection run ended.
type Termination string

// Run termination states.
const (
	// TerminationDone means every page was processed.
	TerminationDone Termination = "done"

	// TerminationStoppedEarly means the consecutive-duplicate threshold
	// was reached and the run stopped inside already-collected territory.
	TerminationStoppedEarly Termination = "stopped_early"

	// TerminationAborted means navigation failed or the run was canceled
	// before the last page. Everything committed before the abort is kept.
	TerminationAborted Termination = "aborted"
)

// Stats accumulates counters for one collection run. A Stats value is owned
// exclusively by one Collector.Run invocation and returned when the run
// ends; it is never shared between runs.
type Stats struct {
	RunID     string
	StartedAt time.Time
	EndedAt   time.Time

	PagesProcessed   int
	ItemsEncountered int

	SavedComplete   int
	SavedIncomplete int
	Duplicates      int
	Failed          int

	// ConsecutiveDuplicates counts duplicates since the last successful
	// save. It drives the early-stop heuristic.
	ConsecutiveDuplicates int

	Termination Termination

	// Errors holds non-fatal error messages, capped at maxErrors.
	Errors        []string
	ErrorsDropped int

	maxErrors int
}

// NewStats returns a Stats for a new run, capping the error log at
// maxErrors (DefaultMaxErrors if <= 0).
func NewStats(maxErrors int) *Stats {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Stats{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		maxErrors: maxErrors,
	}
}

func (s *Stats) recordEncountered() {
	s.ItemsEncountered++
}

func (s *Stats) recordSavedComplete() {
	s.SavedComplete++
	s.ConsecutiveDuplicates = 0
}

func (s *Stats) recordSavedIncomplete() {
	s.SavedIncomplete++
	s.ConsecutiveDuplicates = 0
}

func (s *Stats) recordDuplicate() {
	s.Duplicates++
	s.ConsecutiveDuplicates++
}

func (s *Stats) recordFailed() {
	s.Failed++
}

func (s *Stats) recordPageProcessed() {
	s.PagesProcessed++
}

func (s *Stats) recordError(format string, args ...any) {
	if len(s.Errors) >= s.maxErrors {
		s.ErrorsDropped++
		return
	}
	s.Errors = append(s.Errors, fmt.Sprintf(format, args...))
}

func (s *Stats) finish(t Termination) {
	s.EndedAt = time.Now().UTC()
	s.Termination = t
}

// Duration returns how long the run took (so far, if still running).
func (s *Stats) Duration() time.Duration {
	end := s.EndedAt
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return end.Sub(s.StartedAt)
}

// WriteSummary writes a human-readable run report. The report is intended
// for an operator, not for machine consumption.
func (s *Stats) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Run %s (%s)\n", s.RunID, s.Termination)
	fmt.Fprintf(w, "Duration: %.1fs\n", s.Duration().Seconds())
	fmt.Fprintf(w, "Pages processed: %d\n", s.PagesProcessed)
	fmt.Fprintf(w, "Items encountered: %d\n", s.ItemsEncountered)
	fmt.Fprintf(w, "  Saved (complete):   %d\n", s.SavedComplete)
	fmt.Fprintf(w, "  Saved (incomplete): %d\n", s.SavedIncomplete)
	fmt.Fprintf(w, "  Skipped (duplicate): %d\n", s.Duplicates)
	fmt.Fprintf(w, "  Failed: %d\n", s.Failed)
	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "Errors (%d):\n", len(s.Errors)+s.ErrorsDropped)
		for _, msg := range s.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		if s.ErrorsDropped > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", s.ErrorsDropped)
		}
	}
}
