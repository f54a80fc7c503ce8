// Package constants provides shared constants used throughout the exseq codebase.
// This includes file permissions, well-known file names and the defaults the
// visualization pipeline samples with.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Column names shared by the reconciler and the visualization loader.
const (
	ColumnCell      = "cell"
	ColumnCellID    = "cell_id"
	ColumnCellIndex = "cell_index"
	ColumnCellType  = "cell_type"
)

// File naming conventions for the sample layout.
const (
	// RegionsGenesSuffix is appended to a sample name to form the primary table name
	RegionsGenesSuffix = "_regions_genes"

	// WithCellTypesSuffix is appended to the primary table name for reconciled output
	WithCellTypesSuffix = "_regions_genes_with_cell_types"

	// CellTypePrefix prefixes the assignment table name
	CellTypePrefix = "cell_type_"

	// CSVExt is the extension of every table the tool reads or writes
	CSVExt = ".csv"

	// ManifestFile is written next to the listed CSV files
	ManifestFile = "manifest.json"

	// DefaultCSVDir is where the web page expects its tables
	DefaultCSVDir = "data/csvs"
)

// Visualization defaults
const (
	// DownsampleFactor keeps every n-th row for the overview dataset
	DownsampleFactor = 10

	// Sample sizes for the individual pages
	Sample2D        = 10000
	Sample3D        = 8000
	SampleDashboard = 6000

	// DefaultSeed makes sampled pages reproducible between runs
	DefaultSeed = 42

	// PlotlyVersion is the Plotly build rendered pages load by default
	PlotlyVersion = "2.35.2"

	// PlotlyCDN is the script tag source used by rendered pages
	PlotlyCDN = "https://cdn.plot.ly/plotly-" + PlotlyVersion + ".min.js"
)

// Server defaults
const (
	// DefaultServeAddr is the listen address for the preview server
	DefaultServeAddr = ":8080"

	// ShutdownTimeout bounds graceful shutdown of the preview server
	ShutdownTimeout = 5 * time.Second

	// ReadHeaderTimeout guards the preview server against slow clients
	ReadHeaderTimeout = 10 * time.Second
)
