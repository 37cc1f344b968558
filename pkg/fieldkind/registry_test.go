package fieldkind

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  fielddef.FieldDef
		expect string
	}{
		{name: "explicit boolean", field: fielddef.FieldDef{Name: "agree", Type: fielddef.TypeBoolean}, expect: "boolean"},
		{name: "explicit enum", field: fielddef.FieldDef{Name: "status", Type: fielddef.TypeEnum}, expect: "enum"},
		{name: "explicit number", field: fielddef.FieldDef{Name: "amount", Type: fielddef.TypeNumber}, expect: "number"},
		{name: "explicit date", field: fielddef.FieldDef{Name: "signed", Type: fielddef.TypeDate}, expect: "date"},
		{name: "explicit array", field: fielddef.FieldDef{Name: "tags", Type: fielddef.TypeArray}, expect: "array"},
		{name: "plain string", field: fielddef.FieldDef{Name: "clientName", Type: fielddef.TypeString}, expect: "string"},
		{name: "untyped", field: fielddef.FieldDef{Name: "notes"}, expect: "string"},
		{name: "attachments name", field: fielddef.FieldDef{Name: "attachments"}, expect: "array"},
		{name: "suffix attachments", field: fielddef.FieldDef{Name: "contractAttachments", Type: fielddef.TypeString}, expect: "array"},
		{name: "date in name", field: fielddef.FieldDef{Name: "dueDate", Type: fielddef.TypeString}, expect: "date"},
		{name: "explicit type beats inference", field: fielddef.FieldDef{Name: "dueDate", Type: fielddef.TypeEnum}, expect: "enum"},
		{name: "attachments beat date", field: fielddef.FieldDef{Name: "updateAttachments"}, expect: "array"},
		{name: "number named like a date", field: fielddef.FieldDef{Name: "startDate", Type: fielddef.TypeNumber}, expect: "date"},
		{name: "number named attachments", field: fielddef.FieldDef{Name: "attachments", Type: fielddef.TypeNumber}, expect: "array"},
		{name: "boolean named like a date", field: fielddef.FieldDef{Name: "dateConfirmed", Type: fielddef.TypeBoolean}, expect: "boolean"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := reg.Resolve(tc.field).Name(); got != tc.expect {
				t.Fatalf("expected %q, got %q", tc.expect, got)
			}
		})
	}
}

func TestRegister_CustomKindOverridesByPriority(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterKind(upperKind{})
	reg.Register("upper", 200, func(field fielddef.FieldDef) bool {
		return field.Name == "code"
	})

	if got := reg.Resolve(fielddef.FieldDef{Name: "code", Type: fielddef.TypeNumber}).Name(); got != "upper" {
		t.Fatalf("expected custom kind, got %q", got)
	}
	if got := reg.Resolve(fielddef.FieldDef{Name: "other", Type: fielddef.TypeNumber}).Name(); got != "number" {
		t.Fatalf("expected number kind, got %q", got)
	}
}

func TestDefaults(t *testing.T) {
	reg := NewRegistry()
	cases := []struct {
		field fielddef.FieldDef
		want  any
	}{
		{field: fielddef.FieldDef{Name: "flag", Type: fielddef.TypeBoolean}, want: false},
		{field: fielddef.FieldDef{Name: "files", Type: fielddef.TypeArray}, want: []string{}},
		{field: fielddef.FieldDef{Name: "when", Type: fielddef.TypeDate}, want: nil},
		{field: fielddef.FieldDef{Name: "status", Type: fielddef.TypeEnum}, want: ""},
		{field: fielddef.FieldDef{Name: "amount", Type: fielddef.TypeNumber}, want: ""},
		{field: fielddef.FieldDef{Name: "title", Type: fielddef.TypeString}, want: ""},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, reg.Resolve(tc.field).Default()); diff != "" {
			t.Fatalf("%s default mismatch (-want +got):\n%s", tc.field.Name, diff)
		}
	}
}

func TestArrayCoerce(t *testing.T) {
	kind, _ := NewRegistry().Kind("array")
	cases := []struct {
		name string
		in   any
		want []string
	}{
		{name: "csv keeps duplicates", in: "a, b, b", want: []string{"a", "b", "b"}},
		{name: "csv drops blanks", in: " , x,, y ,", want: []string{"x", "y"}},
		{name: "empty string", in: "", want: []string{}},
		{name: "nil", in: nil, want: []string{}},
		{name: "string list", in: []string{"a", "a"}, want: []string{"a", "a"}},
		{name: "any list", in: []any{"a", 2.0, true}, want: []string{"a", "2", "true"}},
		{name: "scalar", in: 7.0, want: []string{"7"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, kind.Coerce(tc.in)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNumberCoerce(t *testing.T) {
	kind, _ := NewRegistry().Kind("number")
	cases := []struct {
		in   any
		want any
	}{
		{in: "", want: ""},
		{in: "  ", want: "  "},
		{in: "12.5", want: 12.5},
		{in: "abc", want: nil},
		{in: 3.0, want: 3.0},
		{in: nil, want: nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, kind.Coerce(tc.in)); diff != "" {
			t.Fatalf("Coerce(%#v) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}

	if _, err := kind.Parse(fielddef.FieldDef{}, "12x"); !errors.Is(err, ErrNotNumber) {
		t.Fatalf("expected ErrNotNumber, got %v", err)
	}
}

func TestDateCoerce(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	kind, _ := NewRegistry(WithLocation(loc)).Kind("date")

	cases := []struct {
		name string
		in   any
		want string
	}{
		{name: "canonical idempotent", in: "2024-03-07", want: "2024-03-07"},
		{name: "nil", in: nil, want: ""},
		{name: "empty", in: "", want: ""},
		{name: "garbage", in: "next tuesday", want: ""},
		{name: "local time value", in: time.Date(2024, 1, 5, 0, 30, 0, 0, loc), want: "2024-01-05"},
		{name: "utc timestamp shifts to local calendar", in: "2024-01-04T22:30:00Z", want: "2024-01-05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := kind.Coerce(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %#v", tc.want, got)
			}
		})
	}

	once := kind.Coerce("2024-03-07")
	if twice := kind.Coerce(once); twice != once {
		t.Fatalf("coerce not idempotent: %v then %v", once, twice)
	}
}

func TestDateFormat_KeepsRejectedText(t *testing.T) {
	kind, _ := NewRegistry(WithLocation(time.UTC)).Kind("date")
	if got := kind.Format("next tuesday"); got != "next tuesday" {
		t.Fatalf("expected raw text, got %q", got)
	}
	if got := kind.Format(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)); got != "2024-01-05" {
		t.Fatalf("expected calendar date, got %q", got)
	}
	if got := kind.Coerce("next tuesday"); got != "" {
		t.Fatalf("payload must drop rejected text, got %#v", got)
	}
}

func TestEmpty(t *testing.T) {
	reg := NewRegistry()
	str, _ := reg.Kind("string")
	arr, _ := reg.Kind("array")
	boolean, _ := reg.Kind("boolean")
	date, _ := reg.Kind("date")

	if !str.Empty("   ") || !str.Empty(nil) || str.Empty("x") {
		t.Fatalf("string emptiness wrong")
	}
	if !arr.Empty([]string{}) || !arr.Empty(nil) || arr.Empty([]string{"a"}) {
		t.Fatalf("array emptiness wrong")
	}
	if boolean.Empty(false) || boolean.Empty(nil) {
		t.Fatalf("boolean must never be empty")
	}
	if !date.Empty(nil) || date.Empty(time.Now()) {
		t.Fatalf("date emptiness wrong")
	}
}

func TestEnumParse(t *testing.T) {
	kind, _ := NewRegistry().Kind("enum")
	field := fielddef.FieldDef{Name: "status", Type: fielddef.TypeEnum, EnumValues: `["new","done"]`}

	if v, err := kind.Parse(field, "done"); err != nil || v != "done" {
		t.Fatalf("expected done, got %v (%v)", v, err)
	}
	if v, err := kind.Parse(field, ""); err != nil || v != "" {
		t.Fatalf("expected unselected, got %v (%v)", v, err)
	}
	if _, err := kind.Parse(field, "other"); !errors.Is(err, ErrNotOption) {
		t.Fatalf("expected ErrNotOption, got %v", err)
	}
}

type upperKind struct{ stringKind }

func (upperKind) Name() string { return "upper" }
