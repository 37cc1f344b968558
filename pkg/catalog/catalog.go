// Package catalog filters and orders the public template catalog.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/goliatone/go-docforge/pkg/client"
)

// All disables the locale or status filter.
const All = "all"

// LocaleOrder is the display order of known locales. Other locales follow.
var LocaleOrder = []string{"uk", "en", "pl", "ro"}

// Filter narrows the catalog. Empty Locale or Status behave like All.
type Filter struct {
	Query  string
	Locale string
	Status string
}

// Matches reports whether item passes f. The query is matched
// case-insensitively against title, key and locale.
func (f Filter) Matches(item client.TemplateSummary) bool {
	if f.Locale != "" && f.Locale != All && item.Locale != f.Locale {
		return false
	}
	if f.Status != "" && f.Status != All && item.Status != f.Status {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(f.Query))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), text) ||
		strings.Contains(strings.ToLower(item.TemplateKey), text) ||
		strings.Contains(strings.ToLower(item.Locale), text)
}

// Apply returns the matching items sorted by locale order and then by title
// under Ukrainian collation. items is not modified.
func Apply(items []client.TemplateSummary, f Filter) []client.TemplateSummary {
	out := make([]client.TemplateSummary, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	Sort(out)
	return out
}

// Sort orders items in place by locale rank, then title.
func Sort(items []client.TemplateSummary) {
	col := collate.New(language.Ukrainian)
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := localeRank(items[i].Locale), localeRank(items[j].Locale)
		if ri != rj {
			return ri < rj
		}
		return col.CompareString(items[i].Title, items[j].Title) < 0
	})
}

// Locales lists the distinct locales of items. Known locales come first in
// LocaleOrder; the rest follow alphabetically.
func Locales(items []client.TemplateSummary) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		if !seen[item.Locale] {
			seen[item.Locale] = true
			out = append(out, item.Locale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := localeRank(out[i]), localeRank(out[j])
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func localeRank(locale string) int {
	for i, known := range LocaleOrder {
		if known == locale {
			return i
		}
	}
	return len(LocaleOrder)
}
