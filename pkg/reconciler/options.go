package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
)

// options configures a reconciler.
type options struct {
	logger *zerolog.Logger
	dryRun bool
}

func defaultOptions() *options {
	return &options{
		logger: logging.Default(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}

// WithDryRun performs the join and statistics without writing output.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
