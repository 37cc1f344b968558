package fielddef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("fielddef: unsupported file format")

// Document is the persisted shape of a field set.
type Document struct {
	Fields []FieldDef `json:"fields" yaml:"fields"`
}

// LoadFile reads a field set from a .json, .yaml or .yml file. Both the
// {"fields": [...]} document and a bare list are accepted.
func LoadFile(path string) ([]FieldDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fielddef: read %s: %w", path, err)
	}
	fields, err := Decode(data, formatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("fielddef: parse %s: %w", path, err)
	}
	return fields, nil
}

// SaveFile writes fields to path using the format implied by its extension.
func SaveFile(path string, fields []FieldDef) error {
	data, err := Encode(fields, formatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fielddef: write %s: %w", path, err)
	}
	return nil
}

// Decode parses a field set encoded as "json" or "yaml".
func Decode(data []byte, format string) ([]FieldDef, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []FieldDef{}, nil
	}
	switch format {
	case "json":
		if trimmed[0] == '[' {
			var fields []FieldDef
			if err := json.Unmarshal(trimmed, &fields); err != nil {
				return nil, err
			}
			return fields, nil
		}
		var doc Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, err
		}
		return nonNil(doc.Fields), nil
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var fields []FieldDef
			if err := node.Decode(&fields); err != nil {
				return nil, err
			}
			return fields, nil
		}
		var doc Document
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		return nonNil(doc.Fields), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode renders fields as a Document in the requested format.
func Encode(fields []FieldDef, format string) ([]byte, error) {
	doc := Document{Fields: nonNil(fields)}
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("fielddef: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("fielddef: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

func nonNil(fields []FieldDef) []FieldDef {
	if fields == nil {
		return []FieldDef{}
	}
	return fields
}
