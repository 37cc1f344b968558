package fielddef

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseEnumValues decodes an enumValues string into its options. Anything
// that is not a JSON array yields an empty list; non-string items are
// stringified.
func ParseEnumValues(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return []string{}
	}
	items, ok := decoded.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Stringify(item))
	}
	return out
}

// EncodeEnumValues produces the wire form of an option list.
func EncodeEnumValues(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// AddEnumValue appends value (trimmed) to the encoded list with set
// semantics: the result holds each option once, in first-seen order.
// Blank input leaves raw untouched.
func AddEnumValue(raw, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return raw
	}
	return EncodeEnumValues(uniqueStrings(append(ParseEnumValues(raw), value)))
}

// RemoveEnumValue drops the option at idx. Out of range indexes re-encode
// the list unchanged.
func RemoveEnumValue(raw string, idx int) string {
	items := ParseEnumValues(raw)
	out := make([]string, 0, len(items))
	for i, item := range items {
		if i == idx {
			continue
		}
		out = append(out, item)
	}
	return EncodeEnumValues(out)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Stringify renders a decoded JSON value as display text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			if item == nil {
				continue
			}
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	case map[string]any:
		return "[object Object]"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), `"`)
	}
}
