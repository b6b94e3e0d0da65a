package domain

import "fmt"

// BackfillResult reports the outcome of an embedding backfill run.
type BackfillResult struct {
	// Processed counts lines whose embedding was successfully written.
	Processed int

	// Candidates is the number of unembedded lines found at the start of the run.
	Candidates int

	// Failed counts candidates whose embedding or write failed.
	Failed int

	// Skipped counts candidates embedded by a concurrent run before this
	// run could write them.
	Skipped int

	// CorpusSize is the total number of lines in the corpus at the start of the run.
	CorpusSize int

	// Message is a human-readable summary.
	Message string
}

// NothingToDo reports whether the run found no candidates.
func (r BackfillResult) NothingToDo() bool {
	return r.Candidates == 0
}

// Complete reports whether every candidate was embedded.
func (r BackfillResult) Complete() bool {
	return r.Processed == r.Candidates
}

// Backfill summary messages.
const (
	BackfillMessageEmptyCorpus = "no script lines in corpus"
	BackfillMessageUpToDate    = "all script lines already embedded"
)

// Summary builds the message for a run that attempted work.
func (r BackfillResult) Summary() string {
	if r.Failed > 0 {
		return fmt.Sprintf("embedded %d of %d lines (%d failed)", r.Processed, r.Candidates, r.Failed)
	}
	return fmt.Sprintf("embedded %d of %d lines", r.Processed, r.Candidates)
}
