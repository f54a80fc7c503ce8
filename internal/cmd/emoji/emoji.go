// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

const (
	// Success marks a sample or file that was processed.
	Success = "✓"

	// Error marks a failed sample or a fatal condition.
	Error = "✗"

	// Warning represents warnings or non-critical issues.
	// Used for: duplicate cell indexes, empty directories.
	Warning = "!"

	// Optional represents work that was skipped on purpose, such as a dry run.
	Optional = "-"

	// Info represents informational messages.
	Info = "i"
)
