package fieldkind

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

// DateLayout is the canonical calendar date representation.
const DateLayout = "2006-01-02"

var (
	// ErrNotNumber is returned when numeric input cannot be parsed.
	ErrNotNumber = errors.New("fieldkind: not a number")
	// ErrNotDate is returned when date input is not a calendar date.
	ErrNotDate = errors.New("fieldkind: not a date")
	// ErrNotOption is returned when select input is not one of the options.
	ErrNotOption = errors.New("fieldkind: not an allowed option")
)

var calendarDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// fallback layouts tried for date values that are not canonical.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

type stringKind struct{}

func (stringKind) Name() string   { return string(fielddef.TypeString) }
func (stringKind) Widget() Widget { return WidgetText }
func (stringKind) Default() any   { return "" }

func (stringKind) Parse(_ fielddef.FieldDef, raw string) (any, error) { return raw, nil }

func (stringKind) Format(v any) string {
	if v == nil {
		return ""
	}
	return fielddef.Stringify(v)
}

func (stringKind) Empty(v any) bool { return IsBlank(v) }
func (stringKind) Coerce(v any) any { return v }

type numberKind struct{}

func (numberKind) Name() string   { return string(fielddef.TypeNumber) }
func (numberKind) Widget() Widget { return WidgetNumber }
func (numberKind) Default() any   { return "" }

func (numberKind) Parse(_ fielddef.FieldDef, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotNumber, raw)
	}
	return trimmed, nil
}

func (numberKind) Format(v any) string {
	if v == nil {
		return ""
	}
	return fielddef.Stringify(v)
}

func (numberKind) Empty(v any) bool { return IsBlank(v) }

// Coerce casts to a number unless the value is blank. Text that does not
// parse becomes nil so it serializes as JSON null.
func (numberKind) Coerce(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64, float32, int, int64, int32:
		return val
	case bool:
		if val {
			return float64(1)
		}
		return float64(0)
	case string:
		if strings.TrimSpace(val) == "" {
			return val
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		return n
	default:
		n, err := strconv.ParseFloat(strings.TrimSpace(fielddef.Stringify(val)), 64)
		if err != nil {
			return nil
		}
		return n
	}
}

type booleanKind struct{}

func (booleanKind) Name() string   { return string(fielddef.TypeBoolean) }
func (booleanKind) Widget() Widget { return WidgetCheckbox }
func (booleanKind) Default() any   { return false }

// Parse follows checkbox semantics: a present value other than a negative
// literal is true.
func (booleanKind) Parse(_ fielddef.FieldDef, raw string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "off", "no", "n":
		return false, nil
	default:
		return true, nil
	}
}

func (booleanKind) Format(v any) string {
	if b, ok := v.(bool); ok && b {
		return "true"
	}
	return "false"
}

func (booleanKind) Empty(any) bool   { return false }
func (booleanKind) Coerce(v any) any { return v }

type enumKind struct{}

func (enumKind) Name() string   { return string(fielddef.TypeEnum) }
func (enumKind) Widget() Widget { return WidgetSelect }
func (enumKind) Default() any   { return "" }

func (enumKind) Parse(field fielddef.FieldDef, raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	if !slices.Contains(fielddef.ParseEnumValues(field.EnumValues), raw) {
		return nil, fmt.Errorf("%w: %q", ErrNotOption, raw)
	}
	return raw, nil
}

func (enumKind) Format(v any) string {
	if v == nil {
		return ""
	}
	return fielddef.Stringify(v)
}

func (enumKind) Empty(v any) bool { return IsBlank(v) }
func (enumKind) Coerce(v any) any { return v }

type arrayKind struct{}

func (arrayKind) Name() string   { return string(fielddef.TypeArray) }
func (arrayKind) Widget() Widget { return WidgetCSV }
func (arrayKind) Default() any   { return []string{} }

func (arrayKind) Parse(_ fielddef.FieldDef, raw string) (any, error) {
	return SplitCSV(raw), nil
}

func (arrayKind) Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fielddef.Stringify(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fielddef.Stringify(val)
	}
}

func (arrayKind) Empty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case []string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case string:
		return len(val) == 0
	case bool:
		return !val
	default:
		return false
	}
}

// Coerce always yields a list of strings. Strings are split on commas with
// blanks dropped; duplicates are kept.
func (arrayKind) Coerce(v any) any {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = fielddef.Stringify(item)
		}
		return out
	case string:
		return SplitCSV(val)
	default:
		return []string{fielddef.Stringify(val)}
	}
}

// SplitCSV splits comma separated input into trimmed, non-empty items.
func SplitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type dateKind struct {
	loc *time.Location
}

func (dateKind) Name() string   { return string(fielddef.TypeDate) }
func (dateKind) Widget() Widget { return WidgetDate }
func (dateKind) Default() any   { return nil }

func (k dateKind) Parse(_ fielddef.FieldDef, raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, ok := k.ParseDate(strings.TrimSpace(raw))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDate, raw)
	}
	return t, nil
}

// Format renders the calendar date. Text that is not a date is shown as is
// so a rejected input can be corrected.
func (k dateKind) Format(v any) string {
	t, ok := k.ParseDate(v)
	if !ok {
		if s, isString := v.(string); isString {
			return s
		}
		return ""
	}
	return t.Format(DateLayout)
}

func (dateKind) Empty(v any) bool { return IsBlank(v) }

// Coerce reduces the value to its local calendar date or "".
func (k dateKind) Coerce(v any) any {
	t, ok := k.ParseDate(v)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate resolves v into a time in the kind's location. Canonical
// YYYY-MM-DD strings are read as local calendar dates; other timestamps are
// converted into the location before their date is taken.
func (k dateKind) ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return val.In(k.loc), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return val.In(k.loc), true
	case string:
		if val == "" {
			return time.Time{}, false
		}
		if m := calendarDate.FindStringSubmatch(val); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, k.loc), true
		}
		for _, layout := range dateLayouts {
			parsed, err := time.ParseInLocation(layout, val, k.loc)
			if err == nil {
				return parsed.In(k.loc), true
			}
		}
		return time.Time{}, false
	case float64:
		if val == 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(val)).In(k.loc), true
	case int64:
		if val == 0 {
			return time.Time{}, false
		}
		return time.UnixMilli(val).In(k.loc), true
	default:
		return time.Time{}, false
	}
}
