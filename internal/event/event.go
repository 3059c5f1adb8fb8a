package event

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Event is the canonical, source-agnostic timeline entry.
// Date is kept as the raw string produced by normalization; it may not parse.
type Event struct {
	ID          string   `json:"id"` // namespaced by source kind, e.g. "doc:42"
	CaseID      string   `json:"case_id"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Channel     string   `json:"channel"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
}

// Category is one of the six timeline categories.
type Category string

const (
	CategoryDocs      Category = "docs"
	CategoryAgenda    Category = "agenda"
	CategoryComercial Category = "comercial"
	CategoryJuridico  Category = "juridico"
	CategoryAutomacao Category = "automacao"
	CategoryHumano    Category = "humano"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryDocs,
	CategoryAgenda,
	CategoryComercial,
	CategoryJuridico,
	CategoryAutomacao,
	CategoryHumano,
}

// aliases maps folded labels seen in source data onto categories.
var aliases = map[string]Category{
	"docs":       CategoryDocs,
	"doc":        CategoryDocs,
	"documento":  CategoryDocs,
	"documentos": CategoryDocs,
	"agenda":     CategoryAgenda,
	"comercial":  CategoryComercial,
	"juridico":   CategoryJuridico,
	"automacao":  CategoryAutomacao,
	"humano":     CategoryHumano,
}

// Valid reports whether c is one of the six categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCategory maps a free-form label ("Jurídico", "AUTOMAÇÃO", "documentos")
// onto a Category. Case and diacritics are ignored.
func ParseCategory(label string) (Category, error) {
	key := Fold(label)
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", label)
}

// Fold trims, lower-cases and strips combining marks from s.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats emitted by normalization.
// Zone-less values are read as UTC. It never panics; ok is false when s does not parse.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
