package engine

import (
	"context"

	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
	"github.com/gyaneshwarpardhi/casetimeline/internal/timeline"
)

// NoteFetcher loads the notes of a case.
type NoteFetcher interface {
	FetchNotes(ctx context.Context, caseID string) ([]record.Note, error)
}

// DocumentFetcher loads the documents of a case.
type DocumentFetcher interface {
	FetchDocuments(ctx context.Context, caseID string) ([]record.Document, error)
}

// AgendaFetcher loads the agenda entries of a case.
type AgendaFetcher interface {
	FetchAgenda(ctx context.Context, caseID string) ([]record.AgendaEntry, error)
}

// PublicationFetcher loads the external publications of a case.
type PublicationFetcher interface {
	FetchPublications(ctx context.Context, caseID string) ([]record.ExternalPublication, error)
}

// Sources groups the fetch collaborators. Nil entries are skipped.
type Sources struct {
	Notes        NoteFetcher
	Documents    DocumentFetcher
	Agenda       AgendaFetcher
	Publications PublicationFetcher
}

// FromStore wires a single value implementing all four fetchers.
func FromStore(s interface {
	NoteFetcher
	DocumentFetcher
	AgendaFetcher
	PublicationFetcher
}) Sources {
	return Sources{Notes: s, Documents: s, Agenda: s, Publications: s}
}

// fetchFunc fetches one source and returns a closure that stores the result.
// The closure only runs on the aggregating goroutine.
type fetchFunc func(ctx context.Context, caseID string) (func(*timeline.Collections), error)

type sourceJob struct {
	kind  record.Kind
	fetch fetchFunc
}

func typedFetch[R any](fn func(context.Context, string) ([]R, error), assign func(*timeline.Collections, []R)) fetchFunc {
	return func(ctx context.Context, caseID string) (func(*timeline.Collections), error) {
		recs, err := fn(ctx, caseID)
		if err != nil {
			return nil, err
		}
		return func(c *timeline.Collections) { assign(c, recs) }, nil
	}
}

func (s Sources) jobs() []sourceJob {
	var out []sourceJob
	if s.Notes != nil {
		out = append(out, sourceJob{record.KindNote, typedFetch(s.Notes.FetchNotes,
			func(c *timeline.Collections, r []record.Note) { c.Notes = r })})
	}
	if s.Documents != nil {
		out = append(out, sourceJob{record.KindDocument, typedFetch(s.Documents.FetchDocuments,
			func(c *timeline.Collections, r []record.Document) { c.Documents = r })})
	}
	if s.Agenda != nil {
		out = append(out, sourceJob{record.KindAgenda, typedFetch(s.Agenda.FetchAgenda,
			func(c *timeline.Collections, r []record.AgendaEntry) { c.Agenda = r })})
	}
	if s.Publications != nil {
		out = append(out, sourceJob{record.KindPublication, typedFetch(s.Publications.FetchPublications,
			func(c *timeline.Collections, r []record.ExternalPublication) { c.Publications = r })})
	}
	return out
}
