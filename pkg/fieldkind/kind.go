package fieldkind

import (
	"strings"
	"time"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

// Widget identifies the input control a kind is rendered with.
type Widget string

const (
	WidgetText     Widget = "text"
	WidgetNumber   Widget = "number"
	WidgetCheckbox Widget = "checkbox"
	WidgetDate     Widget = "date"
	WidgetCSV      Widget = "csv"
	WidgetSelect   Widget = "select"
)

// Kind bundles the per-type behaviour of a form field: how it is rendered,
// its initial value, how raw input is parsed into form state, when a value
// counts as empty and how state is coerced into the generation payload.
type Kind interface {
	Name() string
	Widget() Widget
	Default() any
	Parse(field fielddef.FieldDef, raw string) (any, error)
	Format(v any) string
	Empty(v any) bool
	Coerce(v any) any
}

// IsBlank reports whether v is absent or only whitespace once rendered as
// text.
func IsBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case *time.Time:
		return val == nil
	case time.Time:
		return false
	default:
		return strings.TrimSpace(fielddef.Stringify(val)) == ""
	}
}
