package console

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/renderers/html"
	"github.com/goliatone/go-docforge/pkg/testsupport"
)

func invoiceFields() []fielddef.FieldDef {
	return []fielddef.FieldDef{
		{Name: "clientName", Label: "Client", Type: fielddef.TypeString, Required: true},
		{Name: "amount", Type: fielddef.TypeNumber},
		{Name: "paid", Type: fielddef.TypeBoolean},
		{Name: "status", Type: fielddef.TypeEnum, EnumValues: `["open","closed"]`},
	}
}

func newConsole(t *testing.T) (*httptest.Server, *testsupport.Backend) {
	t.Helper()
	backend := testsupport.NewBackend(t)
	backend.Publish("invoice", 3, invoiceFields())

	renderer, err := html.New()
	if err != nil {
		t.Fatalf("html renderer: %v", err)
	}
	srv, err := New(client.New(backend.URL()), renderer)
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, backend
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

func post(t *testing.T, ts *httptest.Server, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, values)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestShowForm(t *testing.T) {
	ts, _ := newConsole(t)
	resp, err := http.Get(ts.URL + "/documents/invoice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	for _, snippet := range []string{
		"<title>invoice · docforge</title>",
		`action="/documents/invoice"`,
		`name="_templateKey" value="invoice"`,
		`name="_version" value="3"`,
		`name="clientName"`,
		`<option value="closed"`,
	} {
		if !strings.Contains(body, snippet) {
			t.Fatalf("missing %q in:\n%s", snippet, body)
		}
	}
}

func TestShowForm_UnknownTemplate(t *testing.T) {
	ts, _ := newConsole(t)
	resp, err := http.Get(ts.URL + "/documents/lease")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusNotFound || !strings.Contains(body, "Template not found") {
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, body)
	}
}

func TestSubmit_GeneratesDocument(t *testing.T) {
	ts, backend := newConsole(t)
	resp := post(t, ts, "/documents/invoice", url.Values{
		"_templateKey": {"invoice"},
		"_version":     {"3"},
		"clientName":   {"ACME"},
		"amount":       {"12.5"},
		"paid":         {"true"},
		"status":       {"open"},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	if body != "DOCX:invoice" {
		t.Fatalf("unexpected document %q", body)
	}
	if got := client.FilenameFromDisposition(resp.Header.Get("Content-Disposition"), ""); got != "invoice-filled.docx" {
		t.Fatalf("unexpected filename %q", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != client.DocxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}

	generated := backend.Generated()
	if len(generated) != 1 {
		t.Fatalf("expected one generate call, got %d", len(generated))
	}
	want := map[string]any{"clientName": "ACME", "amount": 12.5, "paid": true, "status": "open"}
	if diff := cmp.Diff(want, generated[0].Data); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(generated[0].Raw, `{"templateKey":"invoice","data":{"clientName":"ACME","amount":12.5`) {
		t.Fatalf("payload must keep schema order: %s", generated[0].Raw)
	}
}

func TestSubmit_ValidationRerenders(t *testing.T) {
	ts, backend := newConsole(t)
	resp := post(t, ts, "/documents/invoice", url.Values{
		"clientName": {""},
		"amount":     {"lots"},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	for _, snippet := range []string{"required field", "must be a number", `value="lots"`} {
		if !strings.Contains(body, snippet) {
			t.Fatalf("missing %q in:\n%s", snippet, body)
		}
	}
	if len(backend.Generated()) != 0 {
		t.Fatalf("invalid submissions must not reach the backend")
	}
}

func TestSubmit_RejectedDateKeepsText(t *testing.T) {
	ts, backend := newConsole(t)
	backend.Publish("lease", 1, []fielddef.FieldDef{{Name: "signed", Type: fielddef.TypeDate}})

	resp := post(t, ts, "/documents/lease", url.Values{"signed": {"next week"}})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	for _, snippet := range []string{"must be a date (YYYY-MM-DD)", `value="next week"`} {
		if !strings.Contains(body, snippet) {
			t.Fatalf("missing %q in:\n%s", snippet, body)
		}
	}
}

func TestSubmit_StaleVersion(t *testing.T) {
	ts, backend := newConsole(t)
	resp := post(t, ts, "/documents/invoice", url.Values{
		"_version":   {"2"},
		"clientName": {"ACME"},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusConflict || !strings.Contains(body, "updated to version 3") {
		t.Fatalf("unexpected response %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, `value="ACME"`) {
		t.Fatalf("submitted values must be kept:\n%s", body)
	}
	if len(backend.Generated()) != 0 {
		t.Fatalf("stale submissions must not reach the backend")
	}
}

func TestSubmit_BackendFailure(t *testing.T) {
	ts, backend := newConsole(t)
	backend.GenerateStatus = http.StatusInternalServerError
	backend.GenerateBody = "template is broken"

	resp := post(t, ts, "/documents/invoice", url.Values{"clientName": {"ACME"}})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "template is broken") {
		t.Fatalf("backend message missing:\n%s", body)
	}
}

func TestHealthz(t *testing.T) {
	ts, _ := newConsole(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}
