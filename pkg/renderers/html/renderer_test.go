package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
	"github.com/goliatone/go-docforge/pkg/renderers/html"
)

func newRenderer(t *testing.T) *html.Renderer {
	t.Helper()
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func invoiceForm() *form.Form {
	return form.New([]fielddef.FieldDef{
		{Name: "clientName", Label: "Client <b>name</b><script>alert(1)</script>", Required: true},
		{Name: "amount", Type: fielddef.TypeNumber},
		{Name: "due_date"},
		{Name: "attachments"},
		{Name: "status", Type: fielddef.TypeEnum, EnumValues: `["open","closed"]`},
		{Name: "paid", Type: fielddef.TypeBoolean},
	})
}

func TestRender_Widgets(t *testing.T) {
	r := newRenderer(t)
	f := invoiceForm()
	_ = f.Set("status", "closed")
	_ = f.Set("paid", true)
	_ = f.Set("attachments", []string{"a.pdf", "b.pdf"})

	out, err := r.Render(context.Background(), f, render.RenderOptions{
		TemplateKey: "invoice",
		Version:     3,
		Action:      "/documents/invoice",
		Hidden:      render.SchemaFields("invoice", 3),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`<form class="docforge-form" method="post" action="/documents/invoice" data-template="invoice" data-version="3">`,
		`<h1 class="docforge-title">invoice</h1>`,
		`<input type="hidden" name="_templateKey" value="invoice">`,
		`<input type="hidden" name="_version" value="3">`,
		`Client <b>name</b> <span class="required">*</span>`,
		`<input id="f-amount" type="number" name="amount" value="" step="any">`,
		`<input id="f-due_date" type="date" name="due_date" value="">`,
		`name="attachments" value="a.pdf, b.pdf" placeholder="value 1, value 2"`,
		`<option value="">—</option>`,
		`<option value="closed" selected>closed</option>`,
		`<input type="checkbox" name="paid" value="true" checked>`,
		`<button type="submit">Generate document</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("label markup was not sanitized:\n%s", html)
	}
}

func TestRender_Errors(t *testing.T) {
	r := newRenderer(t)
	f := invoiceForm()
	_ = f.Set("clientName", `"><x`)

	opts := render.MapError(&form.ValidationError{
		Names:  []string{"status"},
		Fields: map[string]string{"status": form.ReasonRequired},
	}).Apply(render.RenderOptions{Title: "Invoice", FormErrors: []string{"HTTP 502"}})

	out, err := r.Render(context.Background(), f, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`<h1 class="docforge-title">Invoice</h1>`,
		`<p class="docforge-error" role="alert">HTTP 502</p>`,
		`docforge-field--select has-error`,
		`<p class="docforge-field-error">required field</p>`,
		`value="&quot;&gt;&lt;x"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestRender_TrimsOptionLabels(t *testing.T) {
	r := newRenderer(t)
	f := form.New([]fielddef.FieldDef{
		{Name: "status", Type: fielddef.TypeEnum, EnumValues: `[" open ","closed  "]`},
	})
	_ = f.Set("status", " open ")

	out, err := r.Render(context.Background(), f, render.RenderOptions{Title: "Invoice"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		`<option value=" open " selected>open</option>`,
		`<option value="closed  ">closed</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"":                           "",
		"  Due date ":                "Due date",
		"<em>Amount</em> &amp; tax":  "<em>Amount</em> &amp; tax",
		`<a href="x">Link</a>`:       "Link",
		"<img src=x onerror=alert>A": "A",
	}
	for in, want := range cases {
		if got := html.SanitizeLabel(in); got != want {
			t.Fatalf("SanitizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "html" || r.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected metadata %q %q", r.Name(), r.ContentType())
	}
}
