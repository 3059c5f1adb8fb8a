package normalize

import (
	"errors"
	"strings"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

// Diagnostic records a raw record that was skipped during normalization.
type Diagnostic struct {
	Kind     record.Kind `json:"kind"`
	RecordID string      `json:"record_id"`
	Field    string      `json:"field"`
	Message  string      `json:"message"`
}

// All normalizes every record of one source. Records that fail are skipped
// and reported as diagnostics; the rest keep their input order. Only the
// first record carrying a given id is kept.
func All[R record.Record](recs []R) ([]event.Event, []Diagnostic) {
	events := make([]event.Event, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	var diags []Diagnostic
	for _, r := range recs {
		ev, err := Normalize(r)
		if err != nil {
			diags = append(diags, diagnosticFor(err))
			continue
		}
		if _, dup := seen[ev.ID]; dup {
			err := &NormalizationError{Kind: r.Kind(), ID: strings.TrimPrefix(ev.ID, r.Kind().Prefix()+":"), Field: "id", Err: ErrDuplicateID}
			diags = append(diags, diagnosticFor(err))
			continue
		}
		seen[ev.ID] = struct{}{}
		events = append(events, ev)
	}
	return events, diags
}

func diagnosticFor(err error) Diagnostic {
	var ne *NormalizationError
	if errors.As(err, &ne) {
		return Diagnostic{Kind: ne.Kind, RecordID: ne.ID, Field: ne.Field, Message: err.Error()}
	}
	return Diagnostic{Message: err.Error()}
}
