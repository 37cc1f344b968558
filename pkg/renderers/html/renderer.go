package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/fieldkind"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
	rendertemplate "github.com/goliatone/go-docforge/pkg/render/template"
	"github.com/goliatone/go-docforge/pkg/render/template/pongo"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	submitLabel      string
	unselected       string
	logger           *zap.SugaredLogger
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// form.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSubmitLabel changes the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer renders a form as an HTML fragment.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	submitLabel string
	unselected  string
	logger      *zap.SugaredLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer over the embedded templates unless options
// say otherwise.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		submitLabel: "Generate document",
		unselected:  "—",
		logger:      zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS), pongo.WithSetName("docforge-html"))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure templates: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		submitLabel: cfg.submitLabel,
		unselected:  cfg.unselected,
		logger:      cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the form with current values and any errors in opts.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	fields := f.Fields()
	views := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		views = append(views, r.fieldView(f, field, opts.FieldErrors(field.Name)))
	}

	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "post"
	}
	title := opts.Title
	if title == "" {
		title = opts.TemplateKey
	}

	out, err := r.templates.RenderTemplate("form", map[string]any{
		"form": map[string]any{
			"title":       title,
			"templateKey": opts.TemplateKey,
			"version":     opts.Version,
			"action":      opts.Action,
			"method":      method,
			"hidden":      opts.Hidden,
			"errors":      opts.FormErrors,
			"notice":      opts.Notice,
			"submitLabel": r.submitLabel,
		},
		"fields": views,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.logger.Debugw("form rendered", "template", opts.TemplateKey, "fields", len(fields))
	return []byte(out), nil
}

func (r *Renderer) fieldView(f *form.Form, field fielddef.FieldDef, errs []string) map[string]any {
	kind := f.Kind(field)
	value := f.Value(field.Name)
	widget := kind.Widget()

	view := map[string]any{
		"name":     field.Name,
		"label":    SanitizeLabel(field.DisplayLabel()),
		"widget":   string(widget),
		"required": field.Required,
		"errors":   errs,
		"value":    kind.Format(value),
	}

	switch widget {
	case fieldkind.WidgetCheckbox:
		checked, _ := value.(bool)
		view["checked"] = checked
	case fieldkind.WidgetSelect:
		current := kind.Format(value)
		options := []map[string]any{{"value": "", "label": r.unselected, "selected": current == ""}}
		for _, option := range fielddef.ParseEnumValues(field.EnumValues) {
			options = append(options, map[string]any{"value": option, "label": option, "selected": option == current})
		}
		view["options"] = options
	case fieldkind.WidgetNumber:
		view["inputType"] = "number"
		view["step"] = "any"
	case fieldkind.WidgetDate:
		view["inputType"] = "date"
	case fieldkind.WidgetCSV:
		view["inputType"] = "text"
		view["placeholder"] = "value 1, value 2"
	default:
		view["inputType"] = "text"
	}
	return view
}
