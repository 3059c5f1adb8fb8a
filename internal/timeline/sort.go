package timeline

import (
	"slices"
	"time"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
)

type datedEvent struct {
	ev    event.Event
	at    time.Time
	valid bool
}

// Sort returns a new slice ordered by date.
//
//   - both dates invalid: equal, input order kept
//   - one invalid: it goes after the valid one, in either direction
//   - both valid: ascending for OrderOldest, descending otherwise
func Sort(events []event.Event, order Order) []event.Event {
	keyed := make([]datedEvent, len(events))
	for i, ev := range events {
		at, ok := event.ParseDate(ev.Date)
		keyed[i] = datedEvent{ev: ev, at: at, valid: ok}
	}
	slices.SortStableFunc(keyed, func(a, b datedEvent) int {
		switch {
		case !a.valid && !b.valid:
			return 0
		case !a.valid:
			return 1
		case !b.valid:
			return -1
		}
		c := a.at.Compare(b.at)
		if order != OrderOldest {
			c = -c
		}
		return c
	})
	out := make([]event.Event, len(keyed))
	for i, k := range keyed {
		out[i] = k.ev
	}
	return out
}
