package tui

import "go.uber.org/zap"

// OutputFormat controls how the collected payload is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the ordered JSON payload.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "name: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme holds the message prefixes the renderer prints through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
	// Unselected labels the empty choice of select prompts.
	Unselected string
}

// DefaultTheme matches the document form.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "! ", Unselected: "—"}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes. Empty Unselected keeps the default.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		if theme.Unselected == "" {
			theme.Unselected = DefaultTheme.Unselected
		}
		r.theme = theme
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
