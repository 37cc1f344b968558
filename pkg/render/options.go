package render

// RenderOptions carry per-request data that renderers use without touching
// the form state.
type RenderOptions struct {
	// Title is shown above the fields. Renderers fall back to the template
	// key when empty.
	Title string
	// TemplateKey and Version identify the published schema the form was
	// built from.
	TemplateKey string
	Version     int
	// Action and Method configure HTML submission targets.
	Action string
	Method string
	// Hidden inputs emitted before the visible fields.
	Hidden []HiddenField
	// Errors holds field level messages keyed by field name.
	Errors map[string][]string
	// FormErrors holds messages that do not belong to a single field.
	FormErrors []string
	// Notice is an informational line (for example "Document generated").
	Notice string
}

// FieldErrors returns the messages recorded for name.
func (o RenderOptions) FieldErrors(name string) []string {
	if o.Errors == nil {
		return nil
	}
	return o.Errors[name]
}
