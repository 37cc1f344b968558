package openapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/openapi"
)

func invoiceFields() []fielddef.FieldDef {
	return []fielddef.FieldDef{
		{Name: "clientName", Label: "Client", Type: fielddef.TypeString, Required: true, Pattern: `^.{1,100}$`},
		{Name: "amount", Type: fielddef.TypeNumber},
		{Name: "due_date"},
		{Name: "attachments"},
		{Name: "status", Type: fielddef.TypeEnum, Required: true, EnumValues: `["open","closed"]`},
		{Name: "paid", Type: fielddef.TypeBoolean},
	}
}

func TestExport_DescribesPayload(t *testing.T) {
	doc, err := openapi.Export("invoice", invoiceFields(), openapi.Options{Title: "Invoice", Version: 3})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := openapi.Validate(context.Background(), doc); err != nil {
		t.Fatalf("validate: %v", err)
	}

	op := doc.Paths.Value(openapi.GeneratePath).Post
	if op == nil || op.OperationID != "generate_invoice" {
		t.Fatalf("unexpected operation %+v", op)
	}
	body := op.RequestBody.Value.Content.Get("application/json").Schema.Value
	if diff := cmp.Diff([]any{"invoice"}, body.Properties["templateKey"].Value.Enum); diff != "" {
		t.Fatalf("templateKey enum mismatch (-want +got):\n%s", diff)
	}

	data := body.Properties["data"].Value
	if diff := cmp.Diff([]string{"clientName", "status"}, data.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if got := data.Properties["due_date"].Value.Format; got != "date" {
		t.Fatalf("expected inferred date format, got %q", got)
	}
	if !data.Properties["attachments"].Value.Type.Is("array") {
		t.Fatalf("expected inferred array type")
	}
	if got := data.Properties["clientName"].Value.Pattern; got != `^.{1,100}$` {
		t.Fatalf("pattern not exported: %q", got)
	}
	if diff := cmp.Diff([]any{"", "open", "closed"}, data.Properties["status"].Value.Enum); diff != "" {
		t.Fatalf("status enum mismatch (-want +got):\n%s", diff)
	}
	if doc.Info.Version != "v3" {
		t.Fatalf("unexpected info version %q", doc.Info.Version)
	}
}

func TestExport_RequiresKey(t *testing.T) {
	if _, err := openapi.Export(" ", nil, openapi.Options{}); err == nil {
		t.Fatalf("expected error for blank key")
	}
}

func TestMarshal_Formats(t *testing.T) {
	doc, err := openapi.Export("invoice", invoiceFields(), openapi.Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	raw, err := openapi.Marshal(doc, "json")
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", decoded["openapi"])
	}

	yml, err := openapi.Marshal(doc, "yaml")
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if !strings.Contains(string(yml), "/api/documents/generate:") {
		t.Fatalf("expected block style yaml, got:\n%s", yml)
	}

	if _, err := openapi.Marshal(doc, "toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestImport_RoundTrip(t *testing.T) {
	doc, err := openapi.Export("invoice", invoiceFields(), openapi.Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := openapi.Marshal(doc, "yaml")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := openapi.Import(context.Background(), raw, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []fielddef.FieldDef{
		{Name: "clientName", Label: "Client", Type: fielddef.TypeString, Required: true, Pattern: `^.{1,100}$`},
		{Name: "amount", Label: "Amount", Type: fielddef.TypeNumber},
		{Name: "due_date", Label: "Due Date", Type: fielddef.TypeDate},
		{Name: "attachments", Label: "Attachments", Type: fielddef.TypeArray},
		{Name: "status", Label: "Status", Type: fielddef.TypeEnum, Required: true, EnumValues: `["open","closed"]`},
		{Name: "paid", Label: "Paid", Type: fielddef.TypeBoolean},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

const petstore = `
openapi: 3.0.3
info: {title: Pets, version: "1"}
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name: {type: string, title: Pet name}
                born: {type: string, format: date-time}
                age: {type: integer}
      responses:
        "201": {description: created}
    get:
      operationId: listPets
      responses:
        "200": {description: ok}
`

func TestImport_PlainRequestSchema(t *testing.T) {
	got, err := openapi.Import(context.Background(), []byte(petstore), "createPet")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	want := []fielddef.FieldDef{
		{Name: "age", Label: "Age", Type: fielddef.TypeNumber},
		{Name: "born", Label: "Born", Type: fielddef.TypeDate},
		{Name: "name", Label: "Pet name", Type: fielddef.TypeString, Required: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if _, err := openapi.Import(context.Background(), []byte(petstore), "listPets"); !errors.Is(err, openapi.ErrNoRequestSchema) {
		t.Fatalf("expected ErrNoRequestSchema, got %v", err)
	}
	if _, err := openapi.Import(context.Background(), []byte(petstore), "deletePet"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := openapi.Import(context.Background(), []byte(petstore), ""); err == nil {
		t.Fatalf("expected ambiguity error")
	}
}
