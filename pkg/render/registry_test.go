package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, *form.Form, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("tui"))
	reg.MustRegister(namedRenderer("html"))

	if err := reg.Register(namedRenderer("tui")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(namedRenderer(" ")); err == nil {
		t.Fatalf("expected blank name error")
	}

	def, err := reg.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if def.Name() != "tui" {
		t.Fatalf("expected first registration as default, got %q", def.Name())
	}
	if err := reg.SetDefault("html"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if def, _ := reg.Get(""); def.Name() != "html" {
		t.Fatalf("default not switched, got %q", def.Name())
	}
	if err := reg.SetDefault("pdf"); err == nil {
		t.Fatalf("expected unknown default error")
	}
	if _, err := reg.Get("pdf"); err == nil {
		t.Fatalf("expected missing renderer error")
	}

	if diff := cmp.Diff([]string{"html", "tui"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("html") || reg.Has("pdf") {
		t.Fatalf("unexpected Has results")
	}
}
