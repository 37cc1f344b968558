package wizard

import (
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 24 * time.Hour

type options struct {
	steps  []Step
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger *zap.SugaredLogger
}

// Option configures a Wizard.
type Option func(*options)

// WithSteps replaces the built-in questionnaire.
func WithSteps(steps []Step) Option {
	return func(o *options) {
		if len(steps) > 0 {
			o.steps = steps
		}
	}
}

// WithTTL sets the session lifetime, extended on every save.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the session id source.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
