package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/fieldkind"
)

// ReasonRequired is reported for required fields left empty.
const ReasonRequired = "required field"

// ErrUnknownField is returned when a value targets a field the schema does
// not define.
var ErrUnknownField = errors.New("form: unknown field")

// ValidationError lists every required field that is empty, in schema order.
type ValidationError struct {
	Names  []string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "form: required fields missing: " + strings.Join(e.Names, ", ")
}

// Option configures a Form.
type Option func(*Form)

// WithRegistry supplies the kind registry used to interpret fields.
func WithRegistry(reg *fieldkind.Registry) Option {
	return func(f *Form) {
		if reg != nil {
			f.kinds = reg
		}
	}
}

// Form holds the in-memory values of one rendered field schema.
type Form struct {
	fields []fielddef.FieldDef
	kinds  *fieldkind.Registry
	values map[string]any
}

// New builds a form over fields with every value at its kind's default.
func New(fields []fielddef.FieldDef, opts ...Option) *Form {
	f := &Form{fields: fielddef.Clone(fields)}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	if f.kinds == nil {
		f.kinds = fieldkind.NewRegistry()
	}
	f.values = InitialValues(f.kinds, f.fields)
	return f
}

// Fields returns the schema in render order.
func (f *Form) Fields() []fielddef.FieldDef {
	return fielddef.Clone(f.fields)
}

// Kind resolves the kind of a field.
func (f *Form) Kind(field fielddef.FieldDef) fieldkind.Kind {
	return f.kinds.Resolve(field)
}

// Registry exposes the kind registry backing the form.
func (f *Form) Registry() *fieldkind.Registry {
	return f.kinds
}

// Field looks up a definition by name.
func (f *Form) Field(name string) (fielddef.FieldDef, bool) {
	for _, field := range f.fields {
		if field.Name == name {
			return field, true
		}
	}
	return fielddef.FieldDef{}, false
}

// Value returns the current value of a field.
func (f *Form) Value(name string) any {
	return f.values[name]
}

// Values returns a copy of the current state.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Set stores an already typed value.
func (f *Form) Set(name string, value any) error {
	if _, ok := f.Field(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f.values[name] = value
	return nil
}

// SetInput parses raw control input through the field's kind and stores
// the result.
func (f *Form) SetInput(name, raw string) error {
	field, ok := f.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	value, err := f.kinds.Resolve(field).Parse(field, raw)
	if err != nil {
		return fmt.Errorf("form: field %s: %w", name, err)
	}
	f.values[name] = value
	return nil
}

// Reset restores every value to its default.
func (f *Form) Reset() {
	f.values = InitialValues(f.kinds, f.fields)
}

// Validate reports every required field that is empty.
func (f *Form) Validate() map[string]string {
	return Validate(f.kinds, f.fields, f.values)
}

// Payload normalizes the current state.
func (f *Form) Payload() Payload {
	return ToPayload(f.kinds, f.fields, f.values)
}

// Submit validates and, when nothing is missing, returns the payload. The
// error is a *ValidationError naming all offending fields.
func (f *Form) Submit() (Payload, error) {
	if err := validationError(f.fields, f.Validate()); err != nil {
		return nil, err
	}
	return f.Payload(), nil
}

// InitialValues builds the starting state for fields.
func InitialValues(reg *fieldkind.Registry, fields []fielddef.FieldDef) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		values[field.Name] = reg.Resolve(field).Default()
	}
	return values
}

// Validate maps each required but empty field to ReasonRequired.
func Validate(reg *fieldkind.Registry, fields []fielddef.FieldDef, values map[string]any) map[string]string {
	errs := make(map[string]string)
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if reg.Resolve(field).Empty(values[field.Name]) {
			errs[field.Name] = ReasonRequired
		}
	}
	return errs
}

// ToPayload converts state into the generation payload, one entry per
// field in schema order.
func ToPayload(reg *fieldkind.Registry, fields []fielddef.FieldDef, values map[string]any) Payload {
	out := make(Payload, 0, len(fields))
	for _, field := range fields {
		out = out.set(field.Name, reg.Resolve(field).Coerce(values[field.Name]))
	}
	return out
}

func validationError(fields []fielddef.FieldDef, errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	names := make([]string, 0, len(errs))
	seen := make(map[string]struct{}, len(errs))
	for _, field := range fields {
		if _, ok := errs[field.Name]; !ok {
			continue
		}
		if _, dup := seen[field.Name]; dup {
			continue
		}
		seen[field.Name] = struct{}{}
		names = append(names, field.Name)
	}
	return &ValidationError{Names: names, Fields: errs}
}
