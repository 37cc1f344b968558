package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/fieldkind"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithKinds sets the kind registry forms are built with.
func WithKinds(reg *fieldkind.Registry) Option {
	return func(o *Orchestrator) {
		o.kinds = reg
	}
}

// WithLogger routes pipeline logs to logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates schema loading, prefill and rendering.
type Orchestrator struct {
	loader          *form.Loader
	registry        *render.Registry
	kinds           *fieldkind.Registry
	defaultRenderer string
	logger          *zap.SugaredLogger
}

// New builds an orchestrator over fetcher. Without WithRegistry the
// registry is empty and every Generate call fails.
func New(fetcher form.SchemaFetcher, options ...Option) *Orchestrator {
	o := &Orchestrator{logger: zap.NewNop().Sugar()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
	}
	if o.kinds == nil {
		o.kinds = fieldkind.NewRegistry()
	}
	o.loader = form.NewLoader(fetcher, form.WithRegistry(o.kinds))
	return o
}

// Request describes one rendering.
type Request struct {
	// TemplateKey selects the published schema.
	TemplateKey string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// Prefill holds raw inputs parsed with the field kinds before rendering.
	// Unknown names are rejected.
	Prefill map[string]string

	// RenderOptions is merged with the schema identity (title, key, version
	// and hidden inputs) before it reaches the renderer.
	RenderOptions render.RenderOptions
}

// Result is the outcome of Generate.
type Result struct {
	Schema      form.Schema
	Form        *form.Form
	ContentType string
	Output      []byte
}

// Generate fetches the schema, applies the prefill and renders the form.
// The returned form keeps the values a renderer collected.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	f, schema, err := o.loader.Load(ctx, req.TemplateKey)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	for name, raw := range req.Prefill {
		if err := f.SetInput(name, raw); err != nil {
			return nil, fmt.Errorf("orchestrator: prefill: %w", err)
		}
	}

	opts := o.renderOptions(schema, req.RenderOptions)
	output, err := renderer.Render(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debugw("form rendered", "template", schema.TemplateKey, "version", schema.Version, "renderer", renderer.Name(), "bytes", len(output))

	return &Result{
		Schema:      schema,
		Form:        f,
		ContentType: renderer.ContentType(),
		Output:      output,
	}, nil
}

func (o *Orchestrator) renderOptions(schema form.Schema, opts render.RenderOptions) render.RenderOptions {
	if opts.TemplateKey == "" {
		opts.TemplateKey = schema.TemplateKey
	}
	if opts.Version == 0 {
		opts.Version = schema.Version
	}
	if opts.Method == "" {
		opts.Method = http.MethodPost
	}
	opts.Hidden = render.MergeHiddenFields(render.SchemaFields(opts.TemplateKey, opts.Version), opts.Hidden)
	return opts
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	// the registry default wins over alphabetical order
	renderer, err := o.registry.Get("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}
