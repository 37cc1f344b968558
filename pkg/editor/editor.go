package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

var (
	// ErrIndexOutOfRange is returned for positions outside the field set.
	ErrIndexOutOfRange = errors.New("editor: field index out of range")
	// ErrUnknownType is returned when a type name is not recognised.
	ErrUnknownType = errors.New("editor: unknown field type")
)

// Editor holds an editable, ordered copy of a field set. It is not safe for
// concurrent use; Session serializes access through Edit.
type Editor struct {
	fields []fielddef.FieldDef
}

// New returns an editor over a copy of fields.
func New(fields []fielddef.FieldDef) *Editor {
	cloned := fielddef.Clone(fields)
	if cloned == nil {
		cloned = []fielddef.FieldDef{}
	}
	return &Editor{fields: cloned}
}

// Fields returns a copy of the current field set.
func (e *Editor) Fields() []fielddef.FieldDef {
	return fielddef.Clone(e.fields)
}

// Replace swaps the whole field set for a copy of fields.
func (e *Editor) Replace(fields []fielddef.FieldDef) {
	e.fields = New(fields).fields
}

// Len reports the number of fields.
func (e *Editor) Len() int {
	return len(e.fields)
}

// Field returns the field at i.
func (e *Editor) Field(i int) (fielddef.FieldDef, error) {
	if err := e.check(i); err != nil {
		return fielddef.FieldDef{}, err
	}
	return e.fields[i], nil
}

// Add appends a blank string field and returns its position.
func (e *Editor) Add() int {
	e.fields = append(e.fields, fielddef.New(""))
	return len(e.fields) - 1
}

// Remove deletes the field at i keeping the order of the rest.
func (e *Editor) Remove(i int) error {
	if err := e.check(i); err != nil {
		return err
	}
	e.fields = append(e.fields[:i:i], e.fields[i+1:]...)
	return nil
}

// MoveUp swaps the field at i with its predecessor. It reports false and
// changes nothing for the first field or an invalid position.
func (e *Editor) MoveUp(i int) bool {
	if i <= 0 || i >= len(e.fields) {
		return false
	}
	e.fields[i-1], e.fields[i] = e.fields[i], e.fields[i-1]
	return true
}

// MoveDown swaps the field at i with its successor. It reports false and
// changes nothing for the last field or an invalid position.
func (e *Editor) MoveDown(i int) bool {
	if i < 0 || i >= len(e.fields)-1 {
		return false
	}
	e.fields[i+1], e.fields[i] = e.fields[i], e.fields[i+1]
	return true
}

// SetName renames a field. A blank label is derived from the new name; a
// label already set is kept.
func (e *Editor) SetName(i int, name string) error {
	return e.update(i, func(f *fielddef.FieldDef) {
		if strings.TrimSpace(f.Label) == "" {
			f.Label = fielddef.DeriveLabel(name)
		}
		f.Name = name
	})
}

// SetLabel replaces the display label.
func (e *Editor) SetLabel(i int, label string) error {
	return e.update(i, func(f *fielddef.FieldDef) { f.Label = label })
}

// SetType switches the field type. The pattern is cleared and enumValues is
// reset to "[]" for enum and cleared otherwise. Selecting the current type
// changes nothing.
func (e *Editor) SetType(i int, t fielddef.Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	return e.update(i, func(f *fielddef.FieldDef) {
		if f.EffectiveType() == t {
			return
		}
		f.Type = t
		f.Pattern = ""
		if t == fielddef.TypeEnum {
			f.EnumValues = "[]"
		} else {
			f.EnumValues = ""
		}
	})
}

// SetRequired toggles the required flag.
func (e *Editor) SetRequired(i int, required bool) error {
	return e.update(i, func(f *fielddef.FieldDef) { f.Required = required })
}

// SetPattern replaces the validation pattern.
func (e *Editor) SetPattern(i int, pattern string) error {
	return e.update(i, func(f *fielddef.FieldDef) { f.Pattern = pattern })
}

// SetEnumValues replaces the raw JSON option list.
func (e *Editor) SetEnumValues(i int, raw string) error {
	return e.update(i, func(f *fielddef.FieldDef) { f.EnumValues = raw })
}

// AddEnumValue adds an option chip. Duplicates collapse and blank input is
// ignored.
func (e *Editor) AddEnumValue(i int, value string) error {
	return e.update(i, func(f *fielddef.FieldDef) {
		f.EnumValues = fielddef.AddEnumValue(f.EnumValues, value)
	})
}

// RemoveEnumValue removes the option chip at idx.
func (e *Editor) RemoveEnumValue(i, idx int) error {
	return e.update(i, func(f *fielddef.FieldDef) {
		f.EnumValues = fielddef.RemoveEnumValue(f.EnumValues, idx)
	})
}

// Errors validates every field from scratch.
func (e *Editor) Errors() fielddef.SetErrors {
	return fielddef.ValidateSet(e.fields)
}

// HasErrors reports whether any field is invalid.
func (e *Editor) HasErrors() bool {
	return len(e.Errors()) > 0
}

func (e *Editor) update(i int, fn func(*fielddef.FieldDef)) error {
	if err := e.check(i); err != nil {
		return err
	}
	next := e.fields[i]
	fn(&next)
	e.fields[i] = next
	return nil
}

func (e *Editor) check(i int) error {
	if i < 0 || i >= len(e.fields) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}
