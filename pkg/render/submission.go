package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Hidden input names the console uses to round-trip the schema identity.
const (
	HiddenTemplateKey = "_templateKey"
	HiddenVersion     = "_version"
)

// HiddenField is a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary value.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// SchemaFields returns the hidden inputs identifying a published schema.
// A zero version is omitted.
func SchemaFields(templateKey string, version int) []HiddenField {
	out := []HiddenField{Hidden(HiddenTemplateKey, templateKey)}
	if version > 0 {
		out = append(out, Hidden(HiddenVersion, strconv.Itoa(version)))
	}
	return out
}

// MergeHiddenFields combines field lists. Blank names are dropped and later
// fields replace earlier ones with the same name while keeping the first
// position.
func MergeHiddenFields(lists ...[]HiddenField) []HiddenField {
	var out []HiddenField
	index := make(map[string]int)
	for _, list := range lists {
		for _, field := range list {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			field.Name = name
			if pos, ok := index[name]; ok {
				out[pos] = field
				continue
			}
			index[name] = len(out)
			out = append(out, field)
		}
	}
	return out
}

// IsHiddenName reports whether name is one of the reserved hidden inputs.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, "_")
}
