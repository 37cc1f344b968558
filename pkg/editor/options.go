package editor

import (
	"context"

	"go.uber.org/zap"
)

// Confirmer asks the operator to approve an archive toggle.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Confirmer.
func (fn ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return fn(ctx, message)
}

type options struct {
	confirm Confirmer
	logger  *zap.SugaredLogger
}

// Option configures a Session or Templates.
type Option func(*options)

// WithConfirmer sets the prompt used before archive and unarchive calls.
func WithConfirmer(c Confirmer) Option {
	return func(o *options) {
		if c != nil {
			o.confirm = c
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

func buildOptions(opts []Option) options {
	cfg := options{
		logger: zap.NewNop().Sugar(),
		confirm: ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, nil
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
