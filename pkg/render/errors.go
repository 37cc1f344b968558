package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/form"
)

// ErrorMapping splits failures into field level and form level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Apply copies the mapping into opts.
func (m ErrorMapping) Apply(opts RenderOptions) RenderOptions {
	if len(m.Fields) > 0 {
		merged := make(map[string][]string, len(opts.Errors)+len(m.Fields))
		for name, messages := range opts.Errors {
			merged[name] = append([]string(nil), messages...)
		}
		for name, messages := range m.Fields {
			merged[name] = normalizeMessages(append(merged[name], messages...))
		}
		opts.Errors = merged
	}
	opts.FormErrors = MergeFormErrors(opts.FormErrors, m.Form...)
	return opts
}

// MapError converts err into render feedback. Form validation failures map
// onto their fields; backend errors and anything else become form level
// messages.
func MapError(err error) ErrorMapping {
	var mapping ErrorMapping
	if err == nil {
		return mapping
	}

	var validation *form.ValidationError
	if errors.As(err, &validation) {
		mapping.Fields = make(map[string][]string, len(validation.Fields))
		for name, reason := range validation.Fields {
			if messages := normalizeMessages([]string{reason}); messages != nil {
				mapping.Fields[name] = messages
			}
		}
		if len(mapping.Fields) == 0 {
			mapping.Fields = nil
		}
		return mapping
	}

	var backend *client.Error
	if errors.As(err, &backend) {
		mapping.Form = normalizeMessages([]string{backend.Error()})
		return mapping
	}
	mapping.Form = normalizeMessages([]string{err.Error()})
	return mapping
}

// MergeFormErrors concatenates message lists, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
