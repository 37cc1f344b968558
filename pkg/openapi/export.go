package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/fieldkind"
)

const (
	// GeneratePath is the document generation endpoint.
	GeneratePath = "/api/documents/generate"
	// OrderExtension lists data property names in field order.
	OrderExtension = "x-docforge-order"
	// VersionExtension carries the published version a document describes.
	VersionExtension = "x-docforge-version"

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Options tune the exported document.
type Options struct {
	Title    string
	Version  int
	Registry *fieldkind.Registry
}

// Export builds an OpenAPI document whose single operation posts
// {templateKey, data} to GeneratePath. data mirrors fields in order.
func Export(templateKey string, fields []fielddef.FieldDef, opts Options) (*openapi3.T, error) {
	templateKey = strings.TrimSpace(templateKey)
	if templateKey == "" {
		return nil, fmt.Errorf("openapi: template key is required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = fieldkind.NewRegistry()
	}
	title := opts.Title
	if title == "" {
		title = templateKey
	}

	data := DataSchema(reg, fields)
	body := openapi3.NewObjectSchema().
		WithProperty("templateKey", openapi3.NewStringSchema().WithEnum(templateKey)).
		WithProperty("data", data)
	body.Required = []string{"templateKey", "data"}

	responses := openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Generated document").
			WithContent(openapi3.Content{
				docxContentType: openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema().WithFormat("binary")),
			})}),
		openapi3.WithStatus(400, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Invalid payload")}),
	)

	operation := &openapi3.Operation{
		OperationID: "generate_" + sanitizeID(templateKey),
		Summary:     "Generate " + title,
		RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(body)},
		Responses: responses,
	}

	version := "draft"
	if opts.Version > 0 {
		version = fmt.Sprintf("v%d", opts.Version)
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(openapi3.WithPath(GeneratePath, &openapi3.PathItem{Post: operation})),
	}
	if opts.Version > 0 {
		doc.Info.Extensions = map[string]any{VersionExtension: opts.Version}
	}
	return doc, nil
}

// DataSchema describes the payload produced for fields.
func DataSchema(reg *fieldkind.Registry, fields []fielddef.FieldDef) *openapi3.Schema {
	data := openapi3.NewObjectSchema()
	order := make([]string, 0, len(fields))
	var required []string
	for _, field := range fields {
		data.WithProperty(field.Name, fieldSchema(reg.Resolve(field), field))
		order = append(order, field.Name)
		if field.Required {
			required = append(required, field.Name)
		}
	}
	data.Required = required
	data.Extensions = map[string]any{OrderExtension: order}
	return data
}

func fieldSchema(kind fieldkind.Kind, field fielddef.FieldDef) *openapi3.Schema {
	var schema *openapi3.Schema
	switch kind.Name() {
	case string(fielddef.TypeBoolean):
		schema = openapi3.NewBoolSchema()
	case string(fielddef.TypeNumber):
		// blank input is sent as "" and unparseable input as null
		schema = openapi3.NewSchema()
		schema.AnyOf = openapi3.SchemaRefs{
			openapi3.NewFloat64Schema().NewRef(),
			openapi3.NewStringSchema().WithMaxLength(0).NewRef(),
		}
		schema.Nullable = true
	case string(fielddef.TypeArray):
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	case string(fielddef.TypeDate):
		schema = openapi3.NewStringSchema().WithFormat("date")
	case string(fielddef.TypeEnum):
		values := fielddef.ParseEnumValues(field.EnumValues)
		enum := make([]any, 0, len(values)+1)
		enum = append(enum, "")
		for _, v := range values {
			enum = append(enum, v)
		}
		schema = openapi3.NewStringSchema().WithEnum(enum...)
	default:
		schema = openapi3.NewStringSchema()
	}
	if field.Label != "" {
		schema.Title = field.Label
	}
	if field.Pattern != "" && kind.Name() == string(fielddef.TypeString) {
		schema.WithPattern(field.Pattern)
	}
	return schema
}

// Marshal encodes doc as "json" (indented) or "yaml".
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "json":
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("openapi: indent: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case "yaml", "yml":
		// JSON is valid YAML; decoding into a node keeps key order.
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return nil, fmt.Errorf("openapi: convert to yaml: %w", err)
		}
		blockStyle(&node)
		return yaml.Marshal(&node)
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

// Validate runs the kin-openapi document validation.
func Validate(ctx context.Context, doc *openapi3.T) error {
	return doc.Validate(ctx)
}

func blockStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = 0
	}
	// plain strings that would read back as another type are re-quoted by
	// the encoder
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		node.Style = 0
	}
	for _, child := range node.Content {
		blockStyle(child)
	}
}

func sanitizeID(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
