package timeline

import "github.com/gyaneshwarpardhi/casetimeline/internal/event"

// Merge concatenates normalized sequences into a fresh slice.
// No deduplication: IDs are namespaced per source kind.
func Merge(seqs ...[]event.Event) []event.Event {
	n := 0
	for _, s := range seqs {
		n += len(s)
	}
	out := make([]event.Event, 0, n)
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}

// Viewer identifies the user looking at the timeline.
type Viewer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ReconcileAuthor replaces the viewer's raw id with their display name.
// A nil viewer, or one missing either field, returns events unchanged.
func ReconcileAuthor(events []event.Event, viewer *Viewer) []event.Event {
	if viewer == nil || viewer.ID == "" || viewer.DisplayName == "" {
		return events
	}
	out := make([]event.Event, len(events))
	for i, ev := range events {
		if ev.Author == viewer.ID {
			ev.Author = viewer.DisplayName
		}
		out[i] = ev
	}
	return out
}
