package appcontext

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/samples"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	SamplesFunc      func() (*samples.Config, error)
	ReconcilerFunc   func(...reconciler.Option) (reconciler.Reconciler, error)
	SettingsFunc     func() Settings
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	// Out receives command output; io.Discard when nil.
	Out io.Writer
}

// Samples returns the sample configuration using the mock function or the
// built-in mapping.
func (m *Mock) Samples() (*samples.Config, error) {
	if m.SamplesFunc != nil {
		return m.SamplesFunc()
	}
	return samples.Default(), nil
}

// Reconciler returns a reconciler using the mock function or a real one
// logging through Logger.
func (m *Mock) Reconciler(opts ...reconciler.Option) (reconciler.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc(opts...)
	}
	return reconciler.New(append([]reconciler.Option{reconciler.WithLogger(m.Logger())}, opts...)...)
}

// Settings returns settings using the mock function or package defaults.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return Settings{
		CSVDir:    constants.DefaultCSVDir,
		SiteDir:   ".",
		ServeAddr: constants.DefaultServeAddr,
		Seed:      constants.DefaultSeed,
	}
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Stdout returns Out or io.Discard.
func (m *Mock) Stdout() io.Writer {
	if m.Out != nil {
		return m.Out
	}
	return io.Discard
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
