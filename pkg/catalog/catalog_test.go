package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/client"
)

func sample() []client.TemplateSummary {
	return []client.TemplateSummary{
		{TemplateKey: "nda-ro", Title: "Acord", Locale: "ro", Status: client.StatusPublished},
		{TemplateKey: "lease", Title: "Оренда", Locale: "uk", Status: client.StatusPublished},
		{TemplateKey: "invoice-de", Title: "Rechnung", Locale: "de", Status: client.StatusDraft},
		{TemplateKey: "act", Title: "Акт", Locale: "uk", Status: client.StatusDraft},
		{TemplateKey: "invoice", Title: "Invoice", Locale: "en", Status: client.StatusPublished},
		{TemplateKey: "yard", Title: "Їжак", Locale: "uk", Status: client.StatusArchived},
		{TemplateKey: "gift", Title: "Ґанок", Locale: "uk", Status: client.StatusPublished},
	}
}

func keys(items []client.TemplateSummary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.TemplateKey)
	}
	return out
}

func TestApply_OrdersByLocaleThenUkrainianTitle(t *testing.T) {
	got := keys(Apply(sample(), Filter{Locale: All, Status: All}))
	// Ukrainian alphabet order: А, Ґ, Ї, О
	want := []string{"act", "gift", "yard", "lease", "invoice", "nda-ro", "invoice-de"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_Filters(t *testing.T) {
	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"locale", Filter{Locale: "uk", Status: All}, []string{"act", "gift", "yard", "lease"}},
		{"status", Filter{Status: client.StatusDraft}, []string{"act", "invoice-de"}},
		{"query title", Filter{Query: "  INVO "}, []string{"invoice", "invoice-de"}},
		{"query locale", Filter{Query: "ro"}, []string{"nda-ro"}},
		{"combined", Filter{Query: "a", Locale: "uk", Status: client.StatusPublished}, []string{"lease"}},
		{"nothing", Filter{Locale: "pl"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, keys(Apply(sample(), tc.filter))); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := sample()
	before := keys(items)
	_ = Apply(items, Filter{})
	if diff := cmp.Diff(before, keys(items)); diff != "" {
		t.Fatalf("input reordered (-want +got):\n%s", diff)
	}
}

func TestLocales(t *testing.T) {
	items := append(sample(), client.TemplateSummary{TemplateKey: "x", Locale: "cs"})
	want := []string{"uk", "en", "ro", "cs", "de"}
	if diff := cmp.Diff(want, Locales(items)); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
}
