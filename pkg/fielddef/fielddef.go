package fielddef

// Type names the value kind a field definition collects.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeDate    Type = "date"
	TypeArray   Type = "array"
	TypeEnum    Type = "enum"
)

// Types lists the selectable field types in editor order.
var Types = []Type{TypeString, TypeNumber, TypeBoolean, TypeDate, TypeArray, TypeEnum}

// Valid reports whether t is one of the known field types.
func (t Type) Valid() bool {
	for _, candidate := range Types {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseType resolves a user supplied type name. Empty input maps to
// TypeString.
func ParseType(raw string) (Type, bool) {
	if raw == "" {
		return TypeString, true
	}
	t := Type(raw)
	return t, t.Valid()
}

// FieldDef is one entry of a template version's field schema. EnumValues
// holds a JSON encoded array of strings and travels double encoded on the
// wire.
type FieldDef struct {
	Name       string `json:"name" yaml:"name"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Type       Type   `json:"type,omitempty" yaml:"type,omitempty"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Pattern    string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	EnumValues string `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
}

// EffectiveType returns the declared type, treating an unset type as string.
func (f FieldDef) EffectiveType() Type {
	if f.Type == "" {
		return TypeString
	}
	return f.Type
}

// DisplayLabel returns the label when set and falls back to the name.
func (f FieldDef) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// New returns a field with editor defaults applied.
func New(name string) FieldDef {
	return FieldDef{
		Name:       name,
		Label:      DeriveLabel(name),
		Type:       TypeString,
		EnumValues: "[]",
	}
}

// Clone copies a field set so callers can mutate the result freely.
func Clone(fields []FieldDef) []FieldDef {
	if fields == nil {
		return nil
	}
	out := make([]FieldDef, len(fields))
	copy(out, fields)
	return out
}
