package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/fieldkind"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
)

// Renderer fills a form through terminal prompts and returns the submission
// payload.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	logger       *zap.SugaredLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer with the survey driver and JSON output.
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		logger:       zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field in schema order. Current form values are
// offered as defaults; required fields are asked again until filled. The
// form holds the answers afterwards.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	if title := firstNonEmpty(opts.Title, opts.TemplateKey); title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+title); err != nil {
			return nil, err
		}
	}
	for _, msg := range opts.FormErrors {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
	}

	for _, field := range f.Fields() {
		for _, msg := range opts.FieldErrors(field.Name) {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.DisplayLabel(), msg))
		}
		if err := r.promptField(ctx, f, field); err != nil {
			return nil, err
		}
	}

	payload, err := f.Submit()
	if err != nil {
		return nil, err
	}
	r.logger.Debugw("form collected", "template", opts.TemplateKey, "fields", len(payload))
	return r.serialize(payload)
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field fielddef.FieldDef) error {
	kind := f.Kind(field)
	switch kind.Widget() {
	case fieldkind.WidgetCheckbox:
		return r.promptBoolean(ctx, f, field)
	case fieldkind.WidgetSelect:
		return r.promptEnum(ctx, f, field, kind)
	default:
		return r.promptInput(ctx, f, field, kind)
	}
}

func (r *Renderer) promptInput(ctx context.Context, f *form.Form, field fielddef.FieldDef, kind fieldkind.Kind) error {
	label := promptLabel(field)
	help := widgetHelp(kind.Widget())

	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: kind.Format(f.Value(field.Name)),
			Help:    help,
		})
		if err != nil {
			return err
		}
		if err := f.SetInput(field.Name, response); err != nil {
			_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %v", r.theme.ErrorPrefix, field.DisplayLabel(), err))
			continue
		}
		if field.Required && kind.Empty(f.Value(field.Name)) {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.DisplayLabel(), form.ReasonRequired))
			continue
		}
		return nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, f *form.Form, field fielddef.FieldDef) error {
	current, _ := f.Value(field.Name).(bool)
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: promptLabel(field),
		Default: current,
	})
	if err != nil {
		return err
	}
	return f.Set(field.Name, resp)
}

func (r *Renderer) promptEnum(ctx context.Context, f *form.Form, field fielddef.FieldDef, kind fieldkind.Kind) error {
	values := fielddef.ParseEnumValues(field.EnumValues)
	if len(values) == 0 {
		// nothing to pick; a required field fails on submit instead
		_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: no options available", r.theme.ErrorPrefix, field.DisplayLabel()))
		return f.Set(field.Name, "")
	}
	options := append([]string{r.theme.Unselected}, values...)

	defaultIdx := 0
	if current := kind.Format(f.Value(field.Name)); current != "" {
		if idx := indexOf(values, current); idx >= 0 {
			defaultIdx = idx + 1
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, field.DisplayLabel()))
			continue
		}
		selected := ""
		if idx > 0 {
			selected = values[idx-1]
		}
		if field.Required && selected == "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, field.DisplayLabel(), form.ReasonRequired))
			continue
		}
		return f.Set(field.Name, selected)
	}
}

func (r *Renderer) serialize(payload form.Payload) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(payload)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(payload)), nil
	default:
		return payload.MarshalJSON()
	}
}

func promptLabel(field fielddef.FieldDef) string {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	return label
}

func widgetHelp(widget fieldkind.Widget) string {
	switch widget {
	case fieldkind.WidgetDate:
		return "Date as YYYY-MM-DD"
	case fieldkind.WidgetCSV:
		return "Comma separated values"
	case fieldkind.WidgetNumber:
		return "Number, for example 12.5"
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func encodeForm(payload form.Payload) string {
	values := url.Values{}
	for _, entry := range payload {
		switch v := entry.Value.(type) {
		case []string:
			for _, item := range v {
				values.Add(entry.Name, item)
			}
		case nil:
			values.Add(entry.Name, "")
		default:
			values.Add(entry.Name, fielddef.Stringify(v))
		}
	}
	return values.Encode()
}

func prettyPrint(payload form.Payload) string {
	var b strings.Builder
	for _, entry := range payload {
		var value string
		switch v := entry.Value.(type) {
		case []string:
			value = strings.Join(v, ", ")
		case nil:
			value = ""
		default:
			value = fielddef.Stringify(v)
		}
		fmt.Fprintf(&b, "%s: %s\n", entry.Name, value)
	}
	return b.String()
}
