package timeline

import (
	"time"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/normalize"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

// Collections holds the already-fetched raw records of one case.
// A source that failed to fetch is simply an empty slice.
type Collections struct {
	Notes        []record.Note
	Documents    []record.Document
	Agenda       []record.AgendaEntry
	Publications []record.ExternalPublication
}

// Len returns the total number of raw records.
func (c Collections) Len() int {
	return len(c.Notes) + len(c.Documents) + len(c.Agenda) + len(c.Publications)
}

// Output is an ordered feed plus the records skipped on the way.
type Output struct {
	Events      []event.Event          `json:"events"`
	Diagnostics []normalize.Diagnostic `json:"diagnostics,omitempty"`
}

// Run executes normalize, merge, author reconciliation, text filter,
// window filter, sort and category selection. It is pure: now is injected
// and no input slice is modified.
func Run(src Collections, viewer *Viewer, crit Criteria, now time.Time) Output {
	notes, d1 := normalize.All(src.Notes)
	docs, d2 := normalize.All(src.Documents)
	agenda, d3 := normalize.All(src.Agenda)
	pubs, d4 := normalize.All(src.Publications)

	var diags []normalize.Diagnostic
	for _, d := range [][]normalize.Diagnostic{d1, d2, d3, d4} {
		diags = append(diags, d...)
	}

	events := Merge(notes, docs, agenda, pubs)
	events = ReconcileAuthor(events, viewer)
	events = FilterText(events, crit.Query)
	events = FilterWindow(events, crit.Window, now)
	events = Sort(events, crit.Order)
	events = SelectCategory(events, crit.Tab)

	return Output{Events: events, Diagnostics: diags}
}
