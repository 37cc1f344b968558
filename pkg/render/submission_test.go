package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-docforge/pkg/render"
)

func TestMergeHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(
		render.SchemaFields("invoice", 3),
		[]render.HiddenField{
			render.Hidden(" _csrf ", "token123"),
			render.Hidden("  ", "skip"),
			render.Hidden(render.HiddenVersion, 4),
		},
	)

	want := []render.HiddenField{
		{Name: render.HiddenTemplateKey, Value: "invoice"},
		{Name: render.HiddenVersion, Value: "4"},
		{Name: "_csrf", Value: "token123"},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaFields_OmitsZeroVersion(t *testing.T) {
	got := render.SchemaFields("invoice", 0)
	want := []render.HiddenField{{Name: render.HiddenTemplateKey, Value: "invoice"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema fields mismatch (-want +got):\n%s", diff)
	}
}
