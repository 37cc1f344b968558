package fielddef

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

// Attribute keys used in validation results.
const (
	AttrName       = "name"
	AttrPattern    = "pattern"
	AttrEnumValues = "enumValues"
)

// Reasons reported by Validate.
const (
	ReasonRequired       = "required"
	ReasonEnumNotArray   = "must be a JSON array of strings"
	ReasonInvalidPattern = "invalid regular expression"
	ReasonDuplicateName  = "duplicate name"
)

// Errors maps an attribute name to a human readable reason. An empty map
// means the definition is valid.
type Errors map[string]string

// Keys returns the failing attributes in a stable order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks one field definition. It has no side effects and must be
// re-run after every mutation.
func Validate(f FieldDef) Errors {
	errs := Errors{}
	if strings.TrimSpace(f.Name) == "" {
		errs[AttrName] = ReasonRequired
	}
	if f.Type == TypeEnum && !IsEnumArray(f.EnumValues) {
		errs[AttrEnumValues] = ReasonEnumNotArray
	}
	if f.Pattern != "" {
		if _, err := CompilePattern(f.Pattern); err != nil {
			errs[AttrPattern] = ReasonInvalidPattern
		}
	}
	return errs
}

// SetErrors holds per-position validation failures for a field set.
type SetErrors map[int]Errors

// ValidateSet validates every field of a set and additionally flags repeated
// names. Only failing positions are present in the result.
func ValidateSet(fields []FieldDef) SetErrors {
	out := SetErrors{}
	seen := make(map[string]int, len(fields))
	for idx, field := range fields {
		errs := Validate(field)
		name := strings.TrimSpace(field.Name)
		if name != "" {
			if _, dup := seen[name]; dup {
				if _, exists := errs[AttrName]; !exists {
					errs[AttrName] = ReasonDuplicateName
				}
			} else {
				seen[name] = idx
			}
		}
		if len(errs) > 0 {
			out[idx] = errs
		}
	}
	return out
}

// Error renders the failures as a single line, ordered by position.
func (s SetErrors) Error() string {
	positions := make([]int, 0, len(s))
	for idx := range s {
		positions = append(positions, idx)
	}
	sort.Ints(positions)

	var b strings.Builder
	for i, idx := range positions {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString("field ")
		b.WriteString(strconv.Itoa(idx + 1))
		b.WriteString(":")
		for _, key := range s[idx].Keys() {
			b.WriteString(" ")
			b.WriteString(key)
			b.WriteString(" ")
			b.WriteString(s[idx][key])
		}
	}
	return b.String()
}

// CompilePattern compiles a pattern using ECMAScript regular expression
// semantics, the dialect the backend and browsers evaluate patterns with.
// Group constructs browsers do not know, such as inline flags, are rejected
// even though regexp2 accepts them.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	if err := checkGroups(pattern); err != nil {
		return nil, err
	}
	return regexp2.Compile(pattern, regexp2.ECMAScript)
}

// checkGroups allows only (?: (?= (?! and (?< groups outside character
// classes.
func checkGroups(pattern string) error {
	inClass := false
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(' && i+1 < len(pattern) && pattern[i+1] == '?':
			if i+2 >= len(pattern) || !strings.ContainsRune(":=!<", rune(pattern[i+2])) {
				return fmt.Errorf("fielddef: unsupported group at offset %d in %q", i, pattern)
			}
		}
	}
	return nil
}

// IsEnumArray reports whether raw decodes to a JSON array.
func IsEnumArray(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return false
	}
	_, ok := decoded.([]any)
	return ok
}
