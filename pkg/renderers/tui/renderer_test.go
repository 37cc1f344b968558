package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputConfigs []InputConfig
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func invoiceFields() []fielddef.FieldDef {
	return []fielddef.FieldDef{
		{Name: "clientName", Label: "Client", Type: fielddef.TypeString, Required: true},
		{Name: "amount", Type: fielddef.TypeNumber},
		{Name: "due_date", Type: fielddef.TypeString},
		{Name: "attachments"},
		{Name: "status", Type: fielddef.TypeEnum, Required: true, EnumValues: `["open","closed"]`},
		{Name: "paid", Type: fielddef.TypeBoolean},
	}
}

func TestRender_AllWidgets(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "ACME", "abc", "12.5", "2024-03-05", "a.pdf, , b.pdf"},
		selectIdx: []int{0, 2},
		confirm:   []bool{true},
	}
	r := New(WithPromptDriver(driver))
	f := form.New(invoiceFields())

	out, err := r.Render(context.Background(), f, render.RenderOptions{Title: "Invoice"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"clientName":"ACME","amount":12.5,"due_date":"2024-03-05","attachments":["a.pdf","b.pdf"],"status":"closed","paid":true}`
	if string(out) != want {
		t.Fatalf("unexpected payload\nwant: %s\n got: %s", want, out)
	}

	wantInfo := []string{
		"Invoice",
		"! Client: required field",
		`! Invalid amount: form: field amount: fieldkind: not a number: "abc"`,
		"! status: required field",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"—", "open", "closed"}, driver.selectCfgs[0].Options); diff != "" {
		t.Fatalf("select options mismatch (-want +got):\n%s", diff)
	}
	if driver.inputConfigs[0].Message != "Client *" {
		t.Fatalf("required marker missing: %q", driver.inputConfigs[0].Message)
	}
	if driver.inputConfigs[4].Help != "Date as YYYY-MM-DD" {
		t.Fatalf("date help missing: %q", driver.inputConfigs[4].Help)
	}
}

func TestRender_PrefillsCurrentValues(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ACME", "", "", ""},
		selectIdx: []int{1},
		confirm:   []bool{false},
	}
	f := form.New(invoiceFields())
	_ = f.Set("clientName", "ACME")
	_ = f.Set("attachments", []string{"x.pdf", "y.pdf"})
	_ = f.Set("status", "closed")

	r := New(WithPromptDriver(driver))
	if _, err := r.Render(context.Background(), f, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.inputConfigs[0].Default != "ACME" {
		t.Fatalf("expected text default, got %q", driver.inputConfigs[0].Default)
	}
	if driver.inputConfigs[3].Default != "x.pdf, y.pdf" {
		t.Fatalf("expected csv default, got %q", driver.inputConfigs[3].Default)
	}
	if driver.selectCfgs[0].DefaultIndex != 2 {
		t.Fatalf("expected current option preselected, got %d", driver.selectCfgs[0].DefaultIndex)
	}
}

func TestRender_OutputFormats(t *testing.T) {
	fields := []fielddef.FieldDef{
		{Name: "title"},
		{Name: "tags", Type: fielddef.TypeArray},
	}
	cases := []struct {
		format      OutputFormat
		contentType string
		want        string
	}{
		{OutputFormatFormURLEncoded, "application/x-www-form-urlencoded", "tags=a&tags=b&title=Q%26A"},
		{OutputFormatPrettyText, "text/plain", "title: Q&A\ntags: a, b\n"},
	}
	for _, tc := range cases {
		t.Run(string(tc.format), func(t *testing.T) {
			driver := &stubDriver{inputs: []string{"Q&A", "a,b"}}
			r := New(WithPromptDriver(driver), WithOutputFormat(tc.format))
			out, err := r.Render(context.Background(), form.New(fields), render.RenderOptions{})
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if r.ContentType() != tc.contentType {
				t.Fatalf("unexpected content type %q", r.ContentType())
			}
			if string(out) != tc.want {
				t.Fatalf("unexpected output\nwant: %q\n got: %q", tc.want, out)
			}
		})
	}
}

func TestRender_ShowsServerErrors(t *testing.T) {
	driver := &stubDriver{inputs: []string{"ACME"}}
	fields := []fielddef.FieldDef{{Name: "clientName", Required: true}}
	opts := render.RenderOptions{
		FormErrors: []string{"HTTP 502"},
		Errors:     map[string][]string{"clientName": {"required field"}},
	}
	if _, err := New(WithPromptDriver(driver)).Render(context.Background(), form.New(fields), opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"! HTTP 502", "! clientName: required field"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EnumWithoutOptionsIsNotPrompted(t *testing.T) {
	fields := []fielddef.FieldDef{
		{Name: "status", Type: fielddef.TypeEnum, Required: true, EnumValues: "{broken"},
		{Name: "stage", Type: fielddef.TypeEnum, EnumValues: "[]"},
	}
	driver := &stubDriver{selectIdx: []int{0, 0, 0}}

	_, err := New(WithPromptDriver(driver)).Render(context.Background(), form.New(fields), render.RenderOptions{})
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"status"}, verr.Names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if len(driver.selectCfgs) != 0 {
		t.Fatalf("expected no select prompts, got %d", len(driver.selectCfgs))
	}
	wantInfo := []string{"! status: no options available", "! stage: no options available"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_DriverErrorsPropagate(t *testing.T) {
	driver := &stubDriver{}
	_, err := New(WithPromptDriver(driver)).Render(context.Background(), form.New(invoiceFields()), render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), "no input scripted") {
		t.Fatalf("expected driver error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(WithPromptDriver(driver)).Render(ctx, form.New(nil), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
