package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

var (
	// ErrMissingKey is returned when no template key is supplied.
	ErrMissingKey = errors.New("form: template key is required")
	// ErrStale is returned when a newer load superseded the request.
	ErrStale = errors.New("form: schema response superseded")
)

// Schema is the published field schema of a template.
type Schema struct {
	TemplateKey string              `json:"templateKey"`
	Version     int                 `json:"version"`
	Fields      []fielddef.FieldDef `json:"fields"`
	UIHints     map[string]any      `json:"uiHints,omitempty"`
}

// SchemaFetcher retrieves the published schema for a template key.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context, templateKey string) (Schema, error)
}

// FetcherFunc adapts a function to SchemaFetcher.
type FetcherFunc func(ctx context.Context, templateKey string) (Schema, error)

// FetchSchema implements SchemaFetcher.
func (fn FetcherFunc) FetchSchema(ctx context.Context, templateKey string) (Schema, error) {
	return fn(ctx, templateKey)
}

// Loader fetches schemas and builds forms from them. Every Load bumps a
// generation counter; a response arriving after a newer Load started is
// dropped with ErrStale and never replaces the current form.
type Loader struct {
	fetcher SchemaFetcher
	opts    []Option

	mu      sync.Mutex
	gen     uint64
	current *Form
	schema  Schema
}

// NewLoader wraps fetcher. Options are applied to every form built.
func NewLoader(fetcher SchemaFetcher, opts ...Option) *Loader {
	return &Loader{fetcher: fetcher, opts: opts}
}

// Load fetches the schema for templateKey and replaces the current form.
func (l *Loader) Load(ctx context.Context, templateKey string) (*Form, Schema, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.current = nil
	l.schema = Schema{}
	l.mu.Unlock()

	key := strings.TrimSpace(templateKey)
	if key == "" {
		return nil, Schema{}, ErrMissingKey
	}

	schema, err := l.fetcher.FetchSchema(ctx, key)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, Schema{}, ErrStale
	}
	if err != nil {
		return nil, Schema{}, fmt.Errorf("form: load schema %s: %w", key, err)
	}

	built := New(schema.Fields, l.opts...)
	l.current = built
	l.schema = schema
	return built, schema, nil
}

// Current returns the most recently loaded form.
func (l *Loader) Current() (*Form, Schema, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current, l.schema, l.current != nil
}
