package timeline

import "github.com/gyaneshwarpardhi/casetimeline/internal/event"

// SelectCategory narrows events to the tab's category. TabAll (or the zero
// Tab) returns the input unchanged. Tabs must come from ParseTab; anything
// else panics.
func SelectCategory(events []event.Event, tab Tab) []event.Event {
	if tab == TabAll || tab == "" {
		return events
	}
	category, ok := tabCategories[tab]
	if !ok {
		panic("timeline: unmapped tab " + string(tab))
	}
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if ev.Category == category {
			out = append(out, ev)
		}
	}
	return out
}
