package reconciler

import (
	"path/filepath"

	"github.com/agentstation/exseq/pkg/errors"
)

// Pair is one unit of work: a primary regions/genes table, the cell-type
// table it is joined with, and where the augmented table goes.
type Pair struct {
	Sample    string `json:"sample" yaml:"sample"`
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Output    string `json:"output" yaml:"output"`
}

// Validate checks that all paths are set and that the output would not
// overwrite either input.
func (p Pair) Validate() error {
	switch {
	case p.Primary == "":
		return errors.NewValidationError("primary", p.Primary, "path is required")
	case p.Secondary == "":
		return errors.NewValidationError("secondary", p.Secondary, "path is required")
	case p.Output == "":
		return errors.NewValidationError("output", p.Output, "path is required")
	}

	out := filepath.Clean(p.Output)
	if out == filepath.Clean(p.Primary) || out == filepath.Clean(p.Secondary) {
		return errors.NewValidationError("output", p.Output, "must differ from both input tables")
	}
	return nil
}

// Name returns the sample name, falling back to the primary file name.
func (p Pair) Name() string {
	if p.Sample != "" {
		return p.Sample
	}
	return filepath.Base(p.Primary)
}
