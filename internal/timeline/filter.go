package timeline

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
)

// FilterText keeps events whose haystack contains query.
// query must already be normalized (see NormalizeQuery); empty is a no-op.
func FilterText(events []event.Event, query string) []event.Event {
	if query == "" {
		return events
	}
	caser := cases.Lower(language.Und)
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if strings.Contains(haystack(caser, ev), query) {
			out = append(out, ev)
		}
	}
	return out
}

// haystack joins the searchable fields of ev, lower-cased, NFC-composed and
// space separated.
func haystack(caser cases.Caser, ev event.Event) string {
	parts := make([]string, 0, 5+len(ev.Tags))
	for _, f := range []string{ev.Title, ev.Description, ev.Author, ev.Channel, string(ev.Category)} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	for _, tag := range ev.Tags {
		if tag != "" {
			parts = append(parts, tag)
		}
	}
	return norm.NFC.String(caser.String(strings.Join(parts, " ")))
}

// FilterWindow keeps events dated at or after now-window.
// WindowAll is a no-op and lets unparsable dates through; any other window
// drops them.
func FilterWindow(events []event.Event, w Window, now time.Time) []event.Event {
	span, ok := w.Span()
	if !ok {
		return events
	}
	cutoff := now.Add(-span)
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		at, ok := event.ParseDate(ev.Date)
		if !ok || at.Before(cutoff) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
