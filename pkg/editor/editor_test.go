package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

func names(e *Editor) []string {
	var out []string
	for _, f := range e.Fields() {
		out = append(out, f.Name)
	}
	return out
}

func threeFields() *Editor {
	return New([]fielddef.FieldDef{
		{Name: "a", Type: fielddef.TypeString},
		{Name: "b", Type: fielddef.TypeString},
		{Name: "c", Type: fielddef.TypeString},
	})
}

func TestAdd_Defaults(t *testing.T) {
	e := New(nil)
	idx := e.Add()
	got, err := e.Field(idx)
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	want := fielddef.FieldDef{Type: fielddef.TypeString, EnumValues: "[]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if !e.HasErrors() {
		t.Fatalf("blank name should be invalid")
	}
}

func TestMove_Boundaries(t *testing.T) {
	e := threeFields()

	if e.MoveUp(0) {
		t.Fatalf("moving first field up must be a no-op")
	}
	if e.MoveDown(2) {
		t.Fatalf("moving last field down must be a no-op")
	}
	if e.MoveUp(5) || e.MoveDown(-1) {
		t.Fatalf("out of range moves must be no-ops")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(e)); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}

	if !e.MoveUp(1) {
		t.Fatalf("expected move up")
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, names(e)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if !e.MoveDown(0) {
		t.Fatalf("expected move down")
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, names(e)); diff != "" {
		t.Fatalf("up then down must restore order (-want +got):\n%s", diff)
	}
}

func TestRemove_KeepsOrder(t *testing.T) {
	e := threeFields()
	if err := e.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, names(e)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if err := e.Remove(9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSetName_AutoLabel(t *testing.T) {
	e := New(nil)
	idx := e.Add()

	_ = e.SetName(idx, "due_date")
	f, _ := e.Field(idx)
	if f.Label != "Due Date" {
		t.Fatalf("expected derived label, got %q", f.Label)
	}

	// label derived once is no longer blank and stays put
	_ = e.SetName(idx, "payment-date")
	f, _ = e.Field(idx)
	if f.Name != "payment-date" || f.Label != "Due Date" {
		t.Fatalf("unexpected field %+v", f)
	}

	_ = e.SetLabel(idx, "")
	_ = e.SetName(idx, "client_name")
	f, _ = e.Field(idx)
	if f.Label != "Client Name" {
		t.Fatalf("expected label re-derived after clearing, got %q", f.Label)
	}

	_ = e.SetLabel(idx, "Customer")
	_ = e.SetName(idx, "customer_name")
	f, _ = e.Field(idx)
	if f.Label != "Customer" {
		t.Fatalf("explicit label overwritten: %q", f.Label)
	}
}

func TestSetType_ResetsConfiguration(t *testing.T) {
	e := New([]fielddef.FieldDef{{
		Name:       "status",
		Type:       fielddef.TypeEnum,
		Pattern:    `^[a-z]+$`,
		EnumValues: `["a","b"]`,
	}})

	if err := e.SetType(0, fielddef.TypeString); err != nil {
		t.Fatalf("set type: %v", err)
	}
	f, _ := e.Field(0)
	if f.EnumValues != "" || f.Pattern != "" {
		t.Fatalf("expected cleared config, got %+v", f)
	}

	_ = e.SetPattern(0, `^\d+$`)
	_ = e.SetType(0, fielddef.TypeEnum)
	f, _ = e.Field(0)
	if f.EnumValues != "[]" || f.Pattern != "" {
		t.Fatalf("expected enum reset, got %+v", f)
	}

	// same type is a no-op
	_ = e.AddEnumValue(0, "x")
	_ = e.SetType(0, fielddef.TypeEnum)
	f, _ = e.Field(0)
	if f.EnumValues != `["x"]` {
		t.Fatalf("re-selecting the same type changed values: %s", f.EnumValues)
	}

	if err := e.SetType(0, "json"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestEnumChips_SetSemantics(t *testing.T) {
	e := New([]fielddef.FieldDef{{Name: "status", Type: fielddef.TypeEnum, EnumValues: "[]"}})
	_ = e.AddEnumValue(0, "open")
	_ = e.AddEnumValue(0, "open")
	_ = e.AddEnumValue(0, "closed")
	_ = e.RemoveEnumValue(0, 0)

	f, _ := e.Field(0)
	if f.EnumValues != `["closed"]` {
		t.Fatalf("unexpected enum values %s", f.EnumValues)
	}
	if e.HasErrors() {
		t.Fatalf("unexpected errors %v", e.Errors())
	}
}

func TestErrors_RecomputedOnEdit(t *testing.T) {
	e := New([]fielddef.FieldDef{{Name: "code", Type: fielddef.TypeString}})
	_ = e.SetPattern(0, "(")
	if _, ok := e.Errors()[0][fielddef.AttrPattern]; !ok {
		t.Fatalf("expected pattern error")
	}
	_ = e.SetPattern(0, "()")
	if e.HasErrors() {
		t.Fatalf("expected no errors after fix, got %v", e.Errors())
	}
}

func TestFields_ReturnsCopy(t *testing.T) {
	e := threeFields()
	fields := e.Fields()
	fields[0].Name = "mutated"
	if names(e)[0] != "a" {
		t.Fatalf("editor state leaked through Fields")
	}
}

func TestReplace_CopiesInput(t *testing.T) {
	e := threeFields()
	next := []fielddef.FieldDef{{Name: "x"}, {Name: "y"}}
	e.Replace(next)
	next[0].Name = "mutated"
	if diff := cmp.Diff([]string{"x", "y"}, names(e)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	e.Replace(nil)
	if e.Len() != 0 || e.Fields() == nil {
		t.Fatalf("replacing with nil must leave an empty set")
	}
}
