package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

const (
	DefaultNoteCategory = event.CategoryHumano
	NoteChannel         = "Nota interna"
	DocumentChannel     = "Documentos"
	AgendaChannel       = "Agenda"
	PublicationChannel  = "Publicação externa"
	SystemAuthor        = "Sistema"
)

var (
	ErrMissingField     = errors.New("required field missing")
	ErrUnmappedCategory = errors.New("category cannot be mapped")
	ErrUnknownKind      = errors.New("unknown record kind")
	ErrDuplicateID      = errors.New("duplicate record id")
)

// NormalizationError reports why a raw record could not become an Event.
type NormalizationError struct {
	Kind  record.Kind
	ID    string
	Field string
	Err   error
}

func (e *NormalizationError) Error() string {
	id := e.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("normalize %s %s: %s: %v", e.Kind, id, e.Field, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

func missing(kind record.Kind, id, field string) error {
	return &NormalizationError{Kind: kind, ID: id, Field: field, Err: ErrMissingField}
}

// Normalize converts one raw record into exactly one Event.
// Only absent required fields are rejected; malformed values pass through.
func Normalize(r record.Record) (event.Event, error) {
	switch rec := r.(type) {
	case record.Note:
		return Note(rec)
	case record.Document:
		return Document(rec)
	case record.AgendaEntry:
		return Agenda(rec)
	case record.ExternalPublication:
		return Publication(rec)
	default:
		return event.Event{}, fmt.Errorf("%w: %T", ErrUnknownKind, r)
	}
}

// Note maps a case note. Its category comes from the first tag.
func Note(n record.Note) (event.Event, error) {
	if err := require(record.KindNote, n.ID, n.CaseID, "created_at", n.CreatedAt); err != nil {
		return event.Event{}, err
	}
	category := DefaultNoteCategory
	if len(n.Tags) > 0 {
		c, err := event.ParseCategory(n.Tags[0])
		if err != nil {
			return event.Event{}, &NormalizationError{Kind: record.KindNote, ID: n.ID, Field: "tags[0]", Err: fmt.Errorf("%w: %v", ErrUnmappedCategory, err)}
		}
		category = c
	}
	return event.Event{
		ID:          namespaced(record.KindNote, n.ID),
		CaseID:      n.CaseID,
		Title:       n.Title,
		Category:    category,
		Channel:     firstNonEmpty(n.Channel, NoteChannel),
		Date:        n.CreatedAt,
		Description: n.Content,
		Tags:        cloneTags(n.Tags),
		Author:      n.CreatedBy,
	}, nil
}

// Document maps an uploaded document. The most recent activity date wins.
func Document(d record.Document) (event.Event, error) {
	date := firstNonEmpty(d.UpdatedAt, d.CreatedAt)
	if err := require(record.KindDocument, d.ID, d.CaseID, "updated_at|created_at", date); err != nil {
		return event.Event{}, err
	}
	return event.Event{
		ID:          namespaced(record.KindDocument, d.ID),
		CaseID:      d.CaseID,
		Title:       d.Name,
		Category:    event.CategoryDocs,
		Channel:     DocumentChannel,
		Date:        date,
		Description: fmt.Sprintf("%s - %s", d.Type, d.Status),
		Tags:        cloneTags(d.Tags),
		Author:      d.UploadedBy,
	}, nil
}

// Agenda maps a scheduled entry, joining its date and time fields.
func Agenda(a record.AgendaEntry) (event.Event, error) {
	if err := require(record.KindAgenda, a.ID, a.CaseID, "date", a.Date); err != nil {
		return event.Event{}, err
	}
	description := a.Description
	if a.Location != "" {
		description = strings.TrimSpace(description + " " + a.Location)
	}
	return event.Event{
		ID:          namespaced(record.KindAgenda, a.ID),
		CaseID:      a.CaseID,
		Title:       a.Title,
		Category:    event.CategoryAgenda,
		Channel:     firstNonEmpty(a.EntryType, AgendaChannel),
		Date:        combineDateTime(a.Date, a.Time),
		Description: description,
		Tags:        cloneTags(a.Tags),
		Author:      a.Owner,
	}, nil
}

// Publication maps an external publication. Without a human author the
// SystemAuthor sentinel is used.
func Publication(p record.ExternalPublication) (event.Event, error) {
	if err := require(record.KindPublication, p.ID, p.CaseID, "published_at", p.PublishedAt); err != nil {
		return event.Event{}, err
	}
	category := event.CategoryJuridico
	if strings.TrimSpace(p.Classification) != "" {
		c, err := event.ParseCategory(p.Classification)
		if err != nil {
			return event.Event{}, &NormalizationError{Kind: record.KindPublication, ID: p.ID, Field: "classification", Err: fmt.Errorf("%w: %v", ErrUnmappedCategory, err)}
		}
		category = c
	}
	title := p.Title
	if title == "" {
		title = strings.TrimSpace("Publicação " + p.Court)
	}
	var tags []string
	if p.Court != "" {
		tags = append(tags, p.Court)
	}
	if p.ProcessNumber != "" {
		tags = append(tags, p.ProcessNumber)
	}
	return event.Event{
		ID:          namespaced(record.KindPublication, p.ID),
		CaseID:      p.CaseID,
		Title:       title,
		Category:    category,
		Channel:     firstNonEmpty(p.Source, PublicationChannel),
		Date:        p.PublishedAt,
		Description: p.Content,
		Tags:        tags,
		Author:      firstNonEmpty(p.Author, SystemAuthor),
	}, nil
}

// combineDateTime builds "2006-01-02T15:04:05" from the agenda's split fields.
// Garbage in yields garbage out; the result is not validated here.
func combineDateTime(date, clock string) string {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return date
	}
	if strings.Count(clock, ":") == 1 {
		clock += ":00"
	}
	return date + "T" + clock
}

func require(kind record.Kind, id, caseID, dateField, date string) error {
	if strings.TrimSpace(id) == "" {
		return missing(kind, id, "id")
	}
	if strings.TrimSpace(caseID) == "" {
		return missing(kind, id, "case_id")
	}
	if strings.TrimSpace(date) == "" {
		return missing(kind, id, dateField)
	}
	return nil
}

func namespaced(kind record.Kind, id string) string {
	return kind.Prefix() + ":" + id
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
