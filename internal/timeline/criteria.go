package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
)

var (
	ErrUnknownWindow = errors.New("unknown time window")
	ErrUnknownOrder  = errors.New("unknown sort order")
	ErrUnknownTab    = errors.New("unknown tab")
)

// Window is a trailing time range measured back from "now".
type Window string

const (
	WindowAll Window = "all"
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

var windowSpans = map[Window]time.Duration{
	Window7d:  7 * 24 * time.Hour,
	Window30d: 30 * 24 * time.Hour,
	Window90d: 90 * 24 * time.Hour,
}

// Span returns the window length; ok is false for WindowAll.
func (w Window) Span() (time.Duration, bool) {
	d, ok := windowSpans[w]
	return d, ok
}

// ParseWindow accepts "", "all", "7d", "30d" and "90d".
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if w == "" || w == WindowAll {
		return WindowAll, nil
	}
	if _, ok := windowSpans[w]; ok {
		return w, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownWindow, s)
}

// Order is the requested chronological direction.
type Order string

const (
	OrderRecent Order = "recent"
	OrderOldest Order = "oldest"
)

// ParseOrder accepts "", "recent" and "oldest". Empty means recent.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "", OrderRecent:
		return OrderRecent, nil
	case OrderOldest:
		return OrderOldest, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownOrder, s)
	}
}

// Tab is a UI tab of the case timeline.
type Tab string

const (
	TabAll        Tab = "todos"
	TabDocumentos Tab = "documentos"
	TabAgenda     Tab = "agenda"
	TabComercial  Tab = "comercial"
	TabJuridico   Tab = "juridico"
	TabAutomacao  Tab = "automacao"
	TabHumano     Tab = "humano"
)

var tabCategories = map[Tab]event.Category{
	TabDocumentos: event.CategoryDocs,
	TabAgenda:     event.CategoryAgenda,
	TabComercial:  event.CategoryComercial,
	TabJuridico:   event.CategoryJuridico,
	TabAutomacao:  event.CategoryAutomacao,
	TabHumano:     event.CategoryHumano,
}

// Tabs lists every tab in display order.
var Tabs = []Tab{TabAll, TabDocumentos, TabAgenda, TabComercial, TabJuridico, TabAutomacao, TabHumano}

// ParseTab resolves a tab name, ignoring case and accents. Empty means TabAll.
func ParseTab(s string) (Tab, error) {
	t := Tab(event.Fold(s))
	if t == "" || t == TabAll {
		return TabAll, nil
	}
	if _, ok := tabCategories[t]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTab, s)
}

// Criteria is the per-request filter tuple.
type Criteria struct {
	Query  string // trimmed and lower-cased
	Window Window
	Order  Order
	Tab    Tab
}

// DefaultCriteria shows everything, most recent first.
func DefaultCriteria() Criteria {
	return Criteria{Window: WindowAll, Order: OrderRecent, Tab: TabAll}
}

// ParseCriteria validates raw request parameters and normalizes the query.
func ParseCriteria(query, window, order, tab string) (Criteria, error) {
	w, err := ParseWindow(window)
	if err != nil {
		return Criteria{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Criteria{}, err
	}
	t, err := ParseTab(tab)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Query: NormalizeQuery(query), Window: w, Order: o, Tab: t}, nil
}

// NormalizeQuery trims, lower-cases and NFC-composes a free-text query.
func NormalizeQuery(q string) string {
	return lower(strings.TrimSpace(q))
}

func lower(s string) string {
	return norm.NFC.String(cases.Lower(language.Und).String(s))
}
