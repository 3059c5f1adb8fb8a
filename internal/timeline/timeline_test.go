package timeline

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
)

var anchor = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func ev(id, date string) event.Event {
	return event.Event{ID: id, CaseID: "c1", Date: date, Category: event.CategoryHumano}
}

func ids(events []event.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

// randomEvents mixes valid, duplicated and unparsable dates.
func randomEvents(r *rand.Rand, n int) []event.Event {
	out := make([]event.Event, n)
	for i := range out {
		var date string
		switch r.IntN(5) {
		case 0:
			date = "garbage"
		case 1:
			date = ""
		default:
			date = anchor.Add(-time.Duration(r.IntN(2000)) * time.Hour).Format(time.RFC3339)
		}
		out[i] = ev(fmt.Sprintf("e%d", i), date)
		out[i].Category = event.Categories[r.IntN(len(event.Categories))]
	}
	return out
}

func TestSort_ScenarioA(t *testing.T) {
	out := Run(Collections{Documents: []record.Document{
		{ID: "1", CaseID: "c1", CreatedAt: "2026-01-05"},
		{ID: "2", CaseID: "c1", CreatedAt: "2026-01-10"},
	}}, nil, Criteria{Order: OrderRecent}, anchor)

	got := []string{out.Events[0].Date, out.Events[1].Date}
	want := []string{"2026-01-10", "2026-01-05"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSort_TieBreakPolicy(t *testing.T) {
	in := []event.Event{
		ev("bad1", "nope"),
		ev("mid", "2026-01-05"),
		ev("bad2", ""),
		ev("new", "2026-01-10T08:00:00Z"),
		ev("old", "2025-12-31"),
	}
	cases := []struct {
		order Order
		want  []string
	}{
		{order: OrderRecent, want: []string{"new", "mid", "old", "bad1", "bad2"}},
		{order: OrderOldest, want: []string{"old", "mid", "new", "bad1", "bad2"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.order), func(t *testing.T) {
			got := ids(Sort(in, tc.order))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Sort = %v, want %v", got, tc.want)
			}
		})
	}
	if in[0].ID != "bad1" || in[3].ID != "new" {
		t.Error("Sort mutated its input")
	}
}

func TestSort_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		in := randomEvents(r, r.IntN(40))
		for _, order := range []Order{OrderRecent, OrderOldest} {
			once := Sort(in, order)
			twice := Sort(once, order)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("round %d %s: sort not idempotent", round, order)
			}

			seenInvalid := false
			var prev time.Time
			for i, e := range once {
				at, ok := event.ParseDate(e.Date)
				if !ok {
					seenInvalid = true
					continue
				}
				if seenInvalid {
					t.Fatalf("round %d %s: valid date after invalid at %d", round, order, i)
				}
				if i > 0 {
					if order == OrderRecent && at.After(prev) {
						t.Fatalf("round %d: recent order broken at %d", round, i)
					}
					if order == OrderOldest && at.Before(prev) {
						t.Fatalf("round %d: oldest order broken at %d", round, i)
					}
				}
				prev = at
			}

			// invalid dates keep their relative input order
			var wantInvalid, gotInvalid []string
			for _, e := range in {
				if _, ok := event.ParseDate(e.Date); !ok {
					wantInvalid = append(wantInvalid, e.ID)
				}
			}
			for _, e := range once {
				if _, ok := event.ParseDate(e.Date); !ok {
					gotInvalid = append(gotInvalid, e.ID)
				}
			}
			if !reflect.DeepEqual(wantInvalid, gotInvalid) {
				t.Fatalf("round %d: invalid order %v, want %v", round, gotInvalid, wantInvalid)
			}
		}
	}
}

func TestFilterWindow_ScenarioB(t *testing.T) {
	out := Run(Collections{
		Agenda: []record.AgendaEntry{{ID: "a1", CaseID: "c1", Date: "2026-02-30", Time: "99:99"}},
		Notes:  []record.Note{{ID: "n1", CaseID: "c1", CreatedAt: "2026-01-01"}},
	}, nil, Criteria{Window: Window7d}, anchor)

	if len(out.Events) != 0 {
		t.Errorf("expected both excluded, got %v", ids(out.Events))
	}
	if len(out.Diagnostics) != 0 {
		t.Errorf("malformed dates are not normalization errors: %+v", out.Diagnostics)
	}
}

func TestFilterWindow(t *testing.T) {
	in := []event.Event{
		ev("today", "2026-02-01"),
		ev("edge", anchor.Add(-7*24*time.Hour).Format(time.RFC3339)),
		ev("old", "2026-01-20"),
		ev("future", "2026-03-01"),
		ev("bad", "31/01/2026"),
	}
	cases := []struct {
		window Window
		want   []string
	}{
		{window: WindowAll, want: []string{"today", "edge", "old", "future", "bad"}},
		{window: Window7d, want: []string{"today", "edge", "future"}},
		{window: Window30d, want: []string{"today", "edge", "old", "future"}},
		{window: Window90d, want: []string{"today", "edge", "old", "future"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.window), func(t *testing.T) {
			got := ids(FilterWindow(in, tc.window, anchor))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FilterWindow = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterText_ScenarioC(t *testing.T) {
	in := []event.Event{
		{ID: "hit", Title: "Prazo", Channel: "Audiência Trabalhista", Category: event.CategoryAgenda},
		{ID: "miss", Title: "Contrato", Channel: "Documentos", Category: event.CategoryDocs},
	}
	got := ids(FilterText(in, NormalizeQuery("  Audiência ")))
	if !reflect.DeepEqual(got, []string{"hit"}) {
		t.Errorf("FilterText = %v", got)
	}
}

func TestFilterText_DecomposedAccents(t *testing.T) {
	in := []event.Event{
		{ID: "nfd", Channel: "Audie\u0302ncia Trabalhista", Category: event.CategoryAgenda},
		{ID: "nfc", Channel: "Audiência Trabalhista", Category: event.CategoryAgenda},
		{ID: "miss", Channel: "Documentos", Category: event.CategoryDocs},
	}
	cases := []struct {
		name  string
		query string
	}{
		{name: "precomposed query", query: "audiência"},
		{name: "decomposed query", query: "AUDIE\u0302NCIA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(FilterText(in, NormalizeQuery(tc.query)))
			if !reflect.DeepEqual(got, []string{"nfd", "nfc"}) {
				t.Errorf("FilterText(%q) = %v", tc.query, got)
			}
		})
	}
}

func TestFilterText_Fields(t *testing.T) {
	base := event.Event{ID: "x", Title: "Reunião", Description: "Proposta enviada", Author: "Carla", Channel: "Email", Category: event.CategoryComercial, Tags: []string{"Urgente", ""}}
	cases := []struct {
		query string
		want  bool
	}{
		{query: "reunião", want: true},
		{query: "proposta", want: true},
		{query: "carla", want: true},
		{query: "email", want: true},
		{query: "comercial", want: true},
		{query: "urgente", want: true},
		{query: "reunião proposta", want: true},
		{query: "juridico", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := len(FilterText([]event.Event{base}, tc.query)) == 1
			if got != tc.want {
				t.Errorf("match(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}

func TestFilterText_EmptyQueryIsIdentity(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		in := randomEvents(r, r.IntN(30))
		if got := FilterText(in, ""); !reflect.DeepEqual(got, in) {
			t.Fatalf("empty query changed input")
		}
	}
}

func TestReconcileAuthor_ScenarioD(t *testing.T) {
	in := []event.Event{
		{ID: "1", Author: "u1"},
		{ID: "2", Author: "u2"},
		{ID: "3", Author: "Sistema"},
	}
	out := ReconcileAuthor(in, &Viewer{ID: "u1", DisplayName: "Dra. Ana"})
	got := []string{out[0].Author, out[1].Author, out[2].Author}
	if !reflect.DeepEqual(got, []string{"Dra. Ana", "u2", "Sistema"}) {
		t.Errorf("authors = %v", got)
	}
	if in[0].Author != "u1" {
		t.Error("ReconcileAuthor mutated its input")
	}
}

func TestReconcileAuthor_UnknownViewer(t *testing.T) {
	in := []event.Event{{ID: "1", Author: "u1"}}
	for _, v := range []*Viewer{nil, {ID: "u1"}, {DisplayName: "Dra. Ana"}} {
		if got := ReconcileAuthor(in, v); !reflect.DeepEqual(got, in) {
			t.Errorf("viewer %+v: expected unchanged input, got %+v", v, got)
		}
	}
}

func TestSelectCategory(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	in := randomEvents(r, 60)

	if got := SelectCategory(in, TabAll); !reflect.DeepEqual(got, in) {
		t.Error("TabAll must preserve content and order")
	}
	for _, tab := range Tabs[1:] {
		for _, e := range SelectCategory(in, tab) {
			if e.Category != tabCategories[tab] {
				t.Errorf("tab %s leaked category %s", tab, e.Category)
			}
		}
	}
}

func TestSelectCategory_UnmappedTabPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unmapped tab")
		}
	}()
	SelectCategory(nil, Tab("financeiro"))
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria("  AUDIÊNCIA ", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Criteria{Query: "audiência", Window: WindowAll, Order: OrderRecent, Tab: TabAll}
	if c != want {
		t.Errorf("criteria = %+v, want %+v", c, want)
	}

	c, err = ParseCriteria("", "30D", "oldest", "Jurídico")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Window != Window30d || c.Order != OrderOldest || c.Tab != TabJuridico {
		t.Errorf("criteria = %+v", c)
	}

	bad := []struct{ window, order, tab string }{
		{window: "1y"},
		{order: "random"},
		{tab: "financeiro"},
	}
	for _, b := range bad {
		if _, err := ParseCriteria("", b.window, b.order, b.tab); err == nil {
			t.Errorf("expected error for %+v", b)
		}
	}
}

func TestRun_DuplicateIDsWithinSource(t *testing.T) {
	out := Run(Collections{
		Notes: []record.Note{
			{ID: "1", CaseID: "c1", CreatedAt: "2026-01-10"},
			{ID: "1", CaseID: "c1", CreatedAt: "2026-01-20"},
		},
		Documents: []record.Document{{ID: "1", CaseID: "c1", CreatedAt: "2026-01-15"}},
	}, nil, DefaultCriteria(), anchor)

	if got := ids(out.Events); !reflect.DeepEqual(got, []string{"doc:1", "note:1"}) {
		t.Errorf("events = %v", got)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Field != "id" {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}
}

func TestRun_EndToEnd(t *testing.T) {
	src := Collections{
		Notes: []record.Note{
			{ID: "n1", CaseID: "c1", Title: "Ligação com cliente", CreatedBy: "u1", CreatedAt: "2026-01-30T10:00:00Z"},
			{ID: "n2", CaseID: "c1", CreatedAt: ""},
		},
		Documents: []record.Document{
			{ID: "d1", CaseID: "c1", Name: "Contrato", Type: "contrato", Status: "rascunho", UploadedBy: "u2", UpdatedAt: "2026-01-31"},
		},
		Agenda: []record.AgendaEntry{
			{ID: "a1", CaseID: "c1", Title: "Audiência inicial", EntryType: "Audiência Trabalhista", Date: "2026-02-10", Time: "14:00"},
		},
		Publications: []record.ExternalPublication{
			{ID: "p1", CaseID: "c1", Court: "TRT-2", PublishedAt: "2025-06-01"},
		},
	}
	viewer := &Viewer{ID: "u1", DisplayName: "Dra. Ana"}

	out := Run(src, viewer, DefaultCriteria(), anchor)
	if got := ids(out.Events); !reflect.DeepEqual(got, []string{"agenda:a1", "doc:d1", "note:n1", "pub:p1"}) {
		t.Errorf("events = %v", got)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].RecordID != "n2" {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}
	if out.Events[2].Author != "Dra. Ana" {
		t.Errorf("author not reconciled: %q", out.Events[2].Author)
	}

	out = Run(src, viewer, Criteria{Query: "dra. ana", Window: Window30d, Order: OrderOldest, Tab: TabHumano}, anchor)
	if got := ids(out.Events); !reflect.DeepEqual(got, []string{"note:n1"}) {
		t.Errorf("filtered events = %v", got)
	}
	if src.Notes[0].CreatedBy != "u1" {
		t.Error("Run mutated a raw record")
	}
}
