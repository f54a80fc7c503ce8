package alerts

import (
	"fmt"
	"io"
	"time"

	"github.com/agentstation/exseq/internal/cmd/output"
)

// FormatWriter writes alerts in different output formats.
type FormatWriter struct {
	writer        io.Writer
	format        output.Format
	showTimestamp bool
}

// NewFormatWriter creates a new FormatWriter for the specified format.
func NewFormatWriter(w io.Writer, format output.Format) *FormatWriter {
	return &FormatWriter{writer: w, format: format}
}

// WithTimestamp includes the alert time in structured output.
func (fw *FormatWriter) WithTimestamp() *FormatWriter {
	fw.showTimestamp = true
	return fw
}

// alertData represents alert data for structured output.
type alertData struct {
	Level     string   `json:"level" yaml:"level"`
	Message   string   `json:"message" yaml:"message"`
	Details   []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	Timestamp string   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// WriteAlert writes an alert in the configured format.
func (fw *FormatWriter) WriteAlert(alert *Alert) error {
	switch fw.format {
	case output.FormatJSON, output.FormatYAML:
		data := alertData{
			Level:   alert.Level.String(),
			Message: alert.Message,
			Details: alert.Details,
		}
		if alert.Err != nil {
			data.Error = alert.Err.Error()
		}
		if fw.showTimestamp {
			data.Timestamp = alert.Timestamp.Format(time.RFC3339)
		}
		return output.NewFormatter(fw.format).Format(fw.writer, data)
	default:
		return fw.writePlain(alert)
	}
}

// writePlain prints the message with indented details, like most CLIs.
func (fw *FormatWriter) writePlain(alert *Alert) error {
	if _, err := fmt.Fprintln(fw.writer, alert.String()); err != nil {
		return err
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(fw.writer, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}
