// Package samples describes which regions/genes tables are joined with which
// cell-type tables, and where the results go. A Config replaces hard-coded
// directories and name mappings with a file that can be versioned next to
// the data.
package samples

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/reconciler"
)

// Config is the sample-pair configuration.
type Config struct {
	CellTypingDir   string   `yaml:"cell_typing_dir,omitempty" json:"cell_typing_dir,omitempty"`
	RegionsGenesDir string   `yaml:"regions_genes_dir,omitempty" json:"regions_genes_dir,omitempty"`
	OutputDir       string   `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	Samples         []Sample `yaml:"samples" json:"samples"`
}

// Sample maps a regions/genes sample name to the name its cell-type table
// was exported under. Primary, Secondary and Output override the paths
// derived from the directories.
type Sample struct {
	Name      string `yaml:"name" json:"name"`
	CellType  string `yaml:"cell_type,omitempty" json:"cell_type,omitempty"`
	Primary   string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Output    string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Default returns the mapping used for the published brain AD samples.
func Default() *Config {
	return &Config{
		CellTypingDir:   "cell_typing_all_samples",
		RegionsGenesDir: "output_correct",
		OutputDir:       constants.DefaultCSVDir,
		Samples: []Sample{
			{Name: "fem3_5x_E7_A_left", CellType: "5x_E7_A_left"},
			{Name: "fem2_5x_F5_B_left", CellType: "5x_F5_B_left"},
			{Name: "fem2_5x_F5_B_right", CellType: "5x_F5_B_right_cut"},
			{Name: "fem2_WT_F3_B_left", CellType: "WT_F3_B_left_updated"},
			{Name: "fem3_WTE1_B_L", CellType: "WTE1_B_L_UPDATED"},
			{Name: "fem3_WTE1_B_R", CellType: "WTE1_B_R"},
			{Name: "fem4_5x_F8_A_R", CellType: "5x_F8_A_R"},
			{Name: "fem4_WT_F11", CellType: "WT_F11"},
		},
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("samples file", path, err)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse validates data against the samples schema and decodes it. name is
// used in error messages only.
func Parse(data []byte, name string) (*Config, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if !result.Valid {
		return nil, errors.NewConfigError("samples", result.String(), nil)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(c, yaml.Indent(2), yaml.IndentSequence(true))
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}

// Validate checks the rules the schema cannot express: sample names are
// unique and every derived path has a directory to live in.
func (c *Config) Validate() error {
	if len(c.Samples) == 0 {
		return errors.NewValidationError("samples", nil, "at least one sample is required")
	}

	seen := make(map[string]bool, len(c.Samples))
	for _, s := range c.Samples {
		if s.Name == "" {
			return errors.NewValidationError("samples.name", s.Name, "cannot be empty")
		}
		if seen[s.Name] {
			return errors.NewValidationError("samples.name", s.Name, "duplicate sample "+s.Name)
		}
		seen[s.Name] = true

		if s.CellType == "" && s.Secondary == "" {
			return errors.NewValidationError("samples.cell_type", s.Name, "cell_type or secondary is required")
		}
		if s.Primary == "" && c.RegionsGenesDir == "" {
			return errors.NewValidationError("regions_genes_dir", s.Name, "required when a sample has no primary path")
		}
		if s.Secondary == "" && c.CellTypingDir == "" {
			return errors.NewValidationError("cell_typing_dir", s.Name, "required when a sample has no secondary path")
		}
		if s.Output == "" && c.OutputDir == "" {
			return errors.NewValidationError("output_dir", s.Name, "required when a sample has no output path")
		}
	}
	return nil
}

// Pairs enumerates the reconciliation units in file order:
//
//	{regions_genes_dir}/{name}/{name}_regions_genes.csv
//	{cell_typing_dir}/cell_type_{cell_type}.csv
//	{output_dir}/{name}_regions_genes_with_cell_types.csv
func (c *Config) Pairs() []reconciler.Pair {
	pairs := make([]reconciler.Pair, 0, len(c.Samples))
	for _, s := range c.Samples {
		p := reconciler.Pair{
			Sample:    s.Name,
			Primary:   s.Primary,
			Secondary: s.Secondary,
			Output:    s.Output,
		}
		if p.Primary == "" {
			p.Primary = filepath.Join(c.RegionsGenesDir, s.Name, s.Name+constants.RegionsGenesSuffix+constants.CSVExt)
		}
		if p.Secondary == "" {
			p.Secondary = filepath.Join(c.CellTypingDir, constants.CellTypePrefix+s.CellType+constants.CSVExt)
		}
		if p.Output == "" {
			p.Output = filepath.Join(c.OutputDir, s.Name+constants.WithCellTypesSuffix+constants.CSVExt)
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// Select returns a copy of the configuration restricted to the named samples,
// in the order given. Unknown names are a ValidationError.
func (c *Config) Select(names ...string) (*Config, error) {
	if len(names) == 0 {
		return c, nil
	}
	byName := make(map[string]Sample, len(c.Samples))
	for _, s := range c.Samples {
		byName[s.Name] = s
	}

	out := *c
	out.Samples = make([]Sample, 0, len(names))
	for _, n := range names {
		s, ok := byName[n]
		if !ok {
			return nil, errors.NewValidationError("sample", n, "unknown sample "+n)
		}
		out.Samples = append(out.Samples, s)
	}
	return &out, nil
}
