package fieldkind

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

// Matcher decides whether a kind should handle the supplied field.
type Matcher func(field fielddef.FieldDef) bool

type rule struct {
	kind     string
	priority int
	match    Matcher
	order    int
}

// Registry maps field definitions to kinds. Explicit boolean, enum, array
// and date types are resolved first; name based inference applies to
// string, number or untyped fields.
// Higher priority wins; ties fall back to registration order. Fields no
// rule claims resolve to the string kind.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
	rules []rule
	loc   *time.Location
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocation sets the time zone calendar dates are resolved in. Defaults
// to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// NewRegistry constructs a registry with the built-in kinds and rules.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{
		kinds: make(map[string]Kind),
		loc:   time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	reg.registerBuiltins()
	return reg
}

// Location reports the zone used for calendar dates.
func (r *Registry) Location() *time.Location {
	return r.loc
}

// RegisterKind adds or replaces a kind under its Name().
func (r *Registry) RegisterKind(kind Kind) {
	if r == nil || kind == nil {
		return
	}
	name := strings.TrimSpace(kind.Name())
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[name] = kind
}

// Register adds a matcher that routes fields to the named kind.
func (r *Registry) Register(kind string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Kind returns a registered kind by name.
func (r *Registry) Kind(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[name]
	return kind, ok
}

// Resolve returns the kind handling field.
func (r *Registry) Resolve(field fielddef.FieldDef) Kind {
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if !entry.match(field) {
			continue
		}
		if kind, ok := r.Kind(entry.kind); ok {
			return kind
		}
	}
	kind, _ := r.Kind(string(fielddef.TypeString))
	return kind
}

// IsArrayName reports whether a field name marks an attachment list.
func IsArrayName(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, "attachments")
}

// IsDateName reports whether a field name marks a calendar date.
func IsDateName(name string) bool {
	return strings.Contains(strings.ToLower(name), "date")
}

func inferable(field fielddef.FieldDef) bool {
	switch field.Type {
	case "", fielddef.TypeString, fielddef.TypeNumber:
		return true
	}
	return false
}

func (r *Registry) registerBuiltins() {
	r.RegisterKind(stringKind{})
	r.RegisterKind(numberKind{})
	r.RegisterKind(booleanKind{})
	r.RegisterKind(enumKind{})
	r.RegisterKind(arrayKind{})
	r.RegisterKind(dateKind{loc: r.loc})

	for _, t := range []fielddef.Type{
		fielddef.TypeBoolean,
		fielddef.TypeEnum,
		fielddef.TypeArray,
		fielddef.TypeDate,
	} {
		r.Register(string(t), 100, func(field fielddef.FieldDef) bool {
			return field.Type == t
		})
	}
	// below the name rules: an attachments or date name turns a number field
	// into a list or a date
	r.Register(string(fielddef.TypeNumber), 30, func(field fielddef.FieldDef) bool {
		return field.Type == fielddef.TypeNumber
	})

	r.Register(string(fielddef.TypeArray), 50, func(field fielddef.FieldDef) bool {
		return inferable(field) && IsArrayName(field.Name)
	})

	r.Register(string(fielddef.TypeDate), 40, func(field fielddef.FieldDef) bool {
		return inferable(field) && IsDateName(field.Name)
	})
}
