package render

import (
	"context"

	"github.com/goliatone/go-docforge/pkg/form"
)

// Renderer turns a form and its current values into a byte representation
// (HTML markup, a JSON payload collected from a terminal, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form, options RenderOptions) ([]byte, error)
}
