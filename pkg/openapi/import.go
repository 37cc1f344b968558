package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

var (
	// ErrOperationNotFound is returned when no operation matches.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestSchema is returned when the operation has no JSON body.
	ErrNoRequestSchema = errors.New("openapi: operation has no JSON request schema")
)

// Import reads a field set from the JSON request body of an operation.
// operationID may be empty when the document declares exactly one operation.
// Bodies shaped like the generation payload contribute their data property.
func Import(ctx context.Context, raw []byte, operationID string) ([]fielddef.FieldDef, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return importDoc(doc, operationID)
}

// ImportFile is Import for a document on disk or at a URL.
func ImportFile(ctx context.Context, location, operationID string) ([]fielddef.FieldDef, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)
	if u, perr := url.Parse(location); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", location, err)
	}
	return importDoc(doc, operationID)
}

func importDoc(doc *openapi3.T, operationID string) ([]fielddef.FieldDef, error) {
	op, err := findOperation(doc, operationID)
	if err != nil {
		return nil, err
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, ErrNoRequestSchema
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, ErrNoRequestSchema
	}

	schema := media.Schema.Value
	if data := schema.Properties["data"]; data != nil && data.Value != nil && schema.Properties["templateKey"] != nil {
		schema = data.Value
	}
	return FieldsFromSchema(schema), nil
}

func findOperation(doc *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if doc.Paths == nil {
		return nil, ErrOperationNotFound
	}
	var found []*openapi3.Operation
	paths := doc.Paths.InMatchingOrder()
	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil {
				continue
			}
			if operationID == "" || op.OperationID == operationID {
				found = append(found, op)
			}
		}
	}
	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	case len(found) > 1 && operationID == "":
		return nil, fmt.Errorf("openapi: %d operations found, pick one by operationId", len(found))
	}
	return found[0], nil
}

// FieldsFromSchema maps the properties of an object schema onto field
// definitions. Property order follows the order extension when present and
// falls back to name order.
func FieldsFromSchema(schema *openapi3.Schema) []fielddef.FieldDef {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	fields := make([]fielddef.FieldDef, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := fieldFromProperty(name, ref.Value)
		field.Required = required[name]
		fields = append(fields, field)
	}
	return fields
}

func fieldFromProperty(name string, prop *openapi3.Schema) fielddef.FieldDef {
	field := fielddef.FieldDef{Name: name, Label: prop.Title, Type: fielddef.TypeString}
	if field.Label == "" {
		field.Label = fielddef.DeriveLabel(name)
	}

	switch {
	case typeIs(prop, openapi3.TypeBoolean):
		field.Type = fielddef.TypeBoolean
	case typeIs(prop, openapi3.TypeNumber), typeIs(prop, openapi3.TypeInteger), anyOfIs(prop, openapi3.TypeNumber):
		field.Type = fielddef.TypeNumber
	case typeIs(prop, openapi3.TypeArray):
		field.Type = fielddef.TypeArray
	case typeIs(prop, openapi3.TypeString) && (prop.Format == "date" || prop.Format == "date-time"):
		field.Type = fielddef.TypeDate
	case len(prop.Enum) > 0:
		field.Type = fielddef.TypeEnum
		var values []string
		for _, v := range prop.Enum {
			if s := fielddef.Stringify(v); s != "" {
				values = append(values, s)
			}
		}
		field.EnumValues = fielddef.EncodeEnumValues(values)
	default:
		field.Pattern = prop.Pattern
	}
	return field
}

func propertyOrder(schema *openapi3.Schema) []string {
	var order []string
	seen := make(map[string]bool)
	var listed []string
	switch raw := schema.Extensions[OrderExtension].(type) {
	case []string:
		listed = raw
	case []any:
		for _, item := range raw {
			if name, ok := item.(string); ok {
				listed = append(listed, name)
			}
		}
	}
	for _, name := range listed {
		if seen[name] || schema.Properties[name] == nil {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	var rest []string
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func typeIs(schema *openapi3.Schema, typ string) bool {
	return schema.Type != nil && schema.Type.Is(typ)
}

func anyOfIs(schema *openapi3.Schema, typ string) bool {
	for _, ref := range schema.AnyOf {
		if ref != nil && ref.Value != nil && typeIs(ref.Value, typ) {
			return true
		}
	}
	return false
}
