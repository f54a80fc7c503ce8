// Package table reads and writes the delimited text tables the pipeline
// exchanges. Every cell is kept as text so measurement columns the tool does
// not interpret round-trip byte for byte.
package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
)

// utf8BOM is stripped from the first header cell when present.
const utf8BOM = "\ufeff"

// Table is an in-memory delimited table: a header row plus data rows.
type Table struct {
	// Name identifies the table in errors and logs, usually its path.
	Name   string
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given header.
func New(name string, header ...string) *Table {
	return &Table{Name: name, Header: slices.Clone(header), Rows: [][]string{}}
}

// Read loads the table at path. A missing file is reported as a NotFoundError
// under the given resource name so callers can tell which input was absent.
func Read(resource, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError(resource, path, err)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return ReadFrom(f, path)
}

// ReadFrom parses a table from r. An entirely empty input yields a table
// with no header and no rows.
//
// Quotes inside unquoted fields are kept as literal text, so ` "C1"` is read
// as ` "C1"` and left for the caller to normalize.
func ReadFrom(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false
	reader.LazyQuotes = true

	t := &Table{Name: name, Rows: [][]string{}}

	header, err := reader.Read()
	if err == io.EOF {
		return t, nil
	}
	if err != nil {
		return nil, parseError(name, err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	t.Header = header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column name in the header, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Header, name)
}

// Has reports whether the header contains column name.
func (t *Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Require checks that every named column is present. The first missing column
// is reported as a SchemaError naming this table.
func (t *Table) Require(columns ...string) error {
	for _, col := range columns {
		if !t.Has(col) {
			return errors.NewSchemaError(t.Name, col, t.Header)
		}
	}
	return nil
}

// Column returns a copy of the values in the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, errors.NewSchemaError(t.Name, name, t.Header)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = cell(row, idx)
	}
	return values, nil
}

// Value returns the cell at row i in column idx; short rows and negative
// indexes read as "".
func (t *Table) Value(i, idx int) string {
	return cell(t.Rows[i], idx)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = slices.Clone(row)
	}
	return &Table{Name: t.Name, Header: slices.Clone(t.Header), Rows: rows}
}

// WithColumn returns a new table with column name appended after every
// existing column. values must have exactly one entry per row. The receiver
// is not modified.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, errors.NewValidationError("values", len(values),
			"column length does not match row count")
	}

	out := &Table{
		Name:   t.Name,
		Header: append(slices.Clone(t.Header), name),
		Rows:   make([][]string, len(t.Rows)),
	}
	width := len(t.Header)
	for i, row := range t.Rows {
		r := make([]string, width+1)
		copy(r, row)
		r[width] = values[i]
		out.Rows[i] = r
	}
	return out, nil
}

// WriteTo writes the table as CSV to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	writer := csv.NewWriter(cw)
	if err := writer.Write(t.Header); err != nil {
		return cw.n, err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return cw.n, err
	}
	return cw.n, writer.Error()
}

// WriteFile writes the table to path. The content is rendered in memory and
// moved into place with a rename, so a failure never leaves a truncated file
// at path.
func (t *Table) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := t.WriteTo(&buf); err != nil {
		return errors.WrapIO("encode", path, err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// WriteAtomic writes data to a temp file next to path and renames it over path.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapIO("close", path, err)
	}
	if err := os.Chmod(tmpName, constants.FilePermissions); err != nil {
		cleanup()
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}

func trimBOM(s string) string {
	if len(s) >= len(utf8BOM) && s[:len(utf8BOM)] == utf8BOM {
		return s[len(utf8BOM):]
	}
	return s
}

func parseError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &errors.ParseError{
			Format:  "csv",
			File:    name,
			Line:    pe.Line,
			Message: pe.Err.Error(),
			Err:     err,
		}
	}
	return errors.WrapParse("csv", name, err)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
