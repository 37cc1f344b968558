package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/form"
)

type recorded struct {
	method string
	path   string
	query  string
	accept string
	body   string
}

func newBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			accept: r.Header.Get("Accept"),
			body:   strings.TrimSpace(string(body)),
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL), &calls
}

func TestError_Message(t *testing.T) {
	if got := (&Error{Status: 500}).Error(); got != "HTTP 500" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&Error{Status: 409, Body: "version archived"}).Error(); got != "version archived" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&Error{Status: 402, Body: `{"error":"card declined"}`, Detail: "card declined"}).Error(); got != "card declined" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestListVersions_NonArrayIsEmpty(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[]}`)
	})

	rows, err := c.ListVersions(context.Background(), 7)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty list, got %v", rows)
	}
	if (*calls)[0].path != "/api/admin/templates/7/versions" {
		t.Fatalf("unexpected path %s", (*calls)[0].path)
	}
}

func TestListVersions_ErrorBody(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "template not found")
	})

	_, err := c.ListVersions(context.Background(), 1)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Error() != "template not found" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestVersionFields_AndSave(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"fieldDefs":{"fields":[{"name":"status","type":"enum","enumValues":"[\"a\",\"b\"]"}]}}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	fields, err := c.VersionFields(context.Background(), 3, 2)
	if err != nil {
		t.Fatalf("version fields: %v", err)
	}
	want := []fielddef.FieldDef{{Name: "status", Type: fielddef.TypeEnum, EnumValues: `["a","b"]`}}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	if err := c.SaveFields(context.Background(), 3, 2, fields); err != nil {
		t.Fatalf("save fields: %v", err)
	}
	put := (*calls)[1]
	if put.method != http.MethodPut || put.path != "/api/admin/templates/3/versions/2/fields" {
		t.Fatalf("unexpected request %s %s", put.method, put.path)
	}
	// enumValues must stay a JSON encoded string inside the body
	if put.body != `{"fields":[{"name":"status","type":"enum","enumValues":"[\"a\",\"b\"]"}]}` {
		t.Fatalf("unexpected body %s", put.body)
	}
}

func TestLifecyclePaths(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	steps := []func() error{
		func() error { return c.PublishVersion(ctx, 5, 1) },
		func() error { return c.ArchiveVersion(ctx, 5, 1) },
		func() error { return c.UnarchiveVersion(ctx, 5, 1) },
		func() error { return c.ArchiveTemplate(ctx, 5) },
		func() error { return c.UnarchiveTemplate(ctx, 5) },
		func() error { return c.ArchiveVersionByID(ctx, 99) },
		func() error { return c.UnarchiveVersionByID(ctx, 99) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("lifecycle call: %v", err)
		}
	}

	var got []string
	for _, call := range *calls {
		got = append(got, call.method+" "+call.path)
	}
	want := []string{
		"POST /api/admin/templates/5/versions/1/publish",
		"POST /api/admin/templates/5/versions/1/archive",
		"POST /api/admin/templates/5/versions/1/unarchive",
		"POST /api/admin/templates/5/archive",
		"POST /api/admin/templates/5/unarchive",
		"POST /api/admin/templates/versions/99/archive",
		"POST /api/admin/templates/versions/99/unarchive",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishedSchema(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"templateKey":"invoice","version":4,"fieldDefs":{"fields":[{"name":"clientName","required":true}]}}`)
	})

	schema, err := c.PublishedSchema(context.Background(), "invoice")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	want := form.Schema{
		TemplateKey: "invoice",
		Version:     4,
		Fields:      []fielddef.FieldDef{{Name: "clientName", Required: true}},
	}
	if diff := cmp.Diff(want, schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	if (*calls)[0].path != "/api/templates/invoice/field-defs" {
		t.Fatalf("unexpected path %s", (*calls)[0].path)
	}
}

func TestGenerate(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", DocxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="invoice-7.docx"`)
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	payload := form.Payload{{Name: "clientName", Value: "Acme"}, {Name: "dueDate", Value: ""}}
	doc, err := c.Generate(context.Background(), "invoice", payload)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc.Filename != "invoice-7.docx" || string(doc.Body) != "PK\x03\x04" {
		t.Fatalf("unexpected document %+v", doc)
	}

	call := (*calls)[0]
	if call.accept != DocxContentType {
		t.Fatalf("unexpected accept header %q", call.accept)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(call.body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body["templateKey"]) != `"invoice"` || string(body["data"]) != `{"clientName":"Acme","dueDate":""}` {
		t.Fatalf("unexpected body %s", call.body)
	}
}

func TestFilenameFromDisposition(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{header: "", want: "fallback.docx"},
		{header: `attachment; filename="report.docx"`, want: "report.docx"},
		{header: `attachment; filename=report.docx`, want: "report.docx"},
		{header: `attachment; filename*=UTF-8''%D0%B7%D0%B2%D1%96%D1%82.docx`, want: "звіт.docx"},
		{header: `attachment; filename="plain.docx"; filename*=UTF-8''fancy%20name.docx`, want: "fancy name.docx"},
		{header: `attachment`, want: "fallback.docx"},
	}
	for _, tc := range cases {
		if got := FilenameFromDisposition(tc.header, "fallback.docx"); got != tc.want {
			t.Fatalf("header %q: expected %q, got %q", tc.header, tc.want, got)
		}
	}
}

func TestCheckout_ErrorDetail(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = io.WriteString(w, `{"error":"card declined"}`)
	})

	_, err := c.Checkout(context.Background(), "d-1")
	if err == nil || err.Error() != "card declined" {
		t.Fatalf("expected card declined, got %v", err)
	}
}

func TestCheckout_MissingURL(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	if _, err := c.Checkout(context.Background(), "d-1"); !errors.Is(err, ErrNoCheckoutURL) {
		t.Fatalf("expected ErrNoCheckoutURL, got %v", err)
	}
}

func TestVerifyPayment_ResolvesRelativeDownload(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"draftId":"d-1","title":"Cafe","downloadUrl":"/api/projects/d-1/download"}`)
	})

	got, err := c.VerifyPayment(context.Background(), "cs_test 1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.DownloadURL != c.BaseURL()+"/api/projects/d-1/download" {
		t.Fatalf("unexpected download url %s", got.DownloadURL)
	}
	if (*calls)[0].query != "sessionId=cs_test+1" {
		t.Fatalf("unexpected query %s", (*calls)[0].query)
	}
}

func TestCreateDraftAndProject(t *testing.T) {
	c, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = io.WriteString(w, `{"draftId":"d-9"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":"d-9","title":"Bakery","resultJson":"{\"summary\":\"s\"}","previewUrl":"/p.pdf"}`)
	})
	ctx := context.Background()

	id, err := c.CreateDraft(ctx, DraftRequest{Industry: "food", Country: "UA", Answers: map[string]any{"team": "solo"}})
	if err != nil || id != "d-9" {
		t.Fatalf("create draft: %q %v", id, err)
	}
	if (*calls)[0].body != `{"industry":"food","country":"UA","answers":{"team":"solo"}}` {
		t.Fatalf("unexpected body %s", (*calls)[0].body)
	}

	project, err := c.Project(ctx, id)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if project.Title != "Bakery" || project.PreviewURL != "/p.pdf" {
		t.Fatalf("unexpected project %+v", project)
	}
	if got := c.DraftDownloadURL(id); got != c.BaseURL()+"/api/projects/d-9/draft-download" {
		t.Fatalf("unexpected download url %s", got)
	}
}
