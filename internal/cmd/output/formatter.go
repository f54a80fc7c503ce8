// Package output provides formatters for command output.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/exseq/internal/cmd/table"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
	// FormatMarkdown renders tables as GitHub-flavored markdown.
	FormatMarkdown Format = "markdown"
)

// Data is the table shape every formatter understands.
type Data = table.Data

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// IsTabular reports whether format renders Data rather than raw values.
func (f Format) IsTabular() bool {
	switch f {
	case FormatTable, FormatWide, FormatMarkdown, "":
		return true
	}
	return false
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	tableData, ok := toTableData(data)
	if !ok {
		// Fall back to JSON for non-table data
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
	return f.formatTable(w, tableData)
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}

	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case table.AlignLeft:
				twAlign[i] = tw.AlignLeft
			case table.AlignCenter:
				twAlign[i] = tw.AlignCenter
			case table.AlignRight:
				twAlign[i] = tw.AlignRight
			default: // table.AlignDefault
				twAlign[i] = tw.Skip
			}
		}

		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		tbl.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := tbl.Append(rowData...); err != nil {
			return err
		}
	}

	return tbl.Render()
}

// MarkdownFormatter outputs a markdown table, suitable for pasting into
// READMEs and pull requests.
type MarkdownFormatter struct {
	// Title, when set, is emitted as a level-two heading above the table.
	Title string
}

// Format implements the Formatter interface for markdown output.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	tableData, ok := toTableData(data)
	if !ok {
		var buf bytes.Buffer
		if err := (&JSONFormatter{Indent: "  "}).Format(&buf, data); err != nil {
			return err
		}
		return md.NewMarkdown(w).CodeBlocks(md.SyntaxHighlight("json"), strings.TrimSuffix(buf.String(), "\n")).Build()
	}

	doc := md.NewMarkdown(w)
	if f.Title != "" {
		doc.H2(f.Title)
	}
	rows := make([][]string, len(tableData.Rows))
	for i, row := range tableData.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			// Pipes and newlines would break the row.
			cell = strings.ReplaceAll(cell, "|", `\|`)
			cells[j] = strings.ReplaceAll(cell, "\n", "<br>")
		}
		rows[i] = cells
	}
	doc.Table(md.TableSet{Header: tableData.Headers, Rows: rows})
	return doc.Build()
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		format := Format(strings.ToLower(explicitFormat))
		if format == "md" {
			return FormatMarkdown
		}
		return format
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide, markdown", s)
	}
}

// toTableData accepts Data, *Data, or anything convertToTableData understands.
func toTableData(data any) (Data, bool) {
	switch v := data.(type) {
	case Data:
		return v, true
	case *Data:
		if v == nil {
			return Data{}, false
		}
		return *v, true
	}
	if tableData := convertToTableData(data); tableData != nil {
		return *tableData, true
	}
	return Data{}, false
}

// convertToTableData attempts to convert struct slices to Data using reflection.
func convertToTableData(data any) *Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice && v.Len() > 0 {
		if v.Index(0).Kind() == reflect.Struct {
			return structSliceToTableData(v)
		}
	}

	if v.Kind() == reflect.Struct {
		return singleStructToTableData(v)
	}

	return nil
}

// columnName uses the json tag if available, otherwise the field name.
func columnName(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false
	}
	if idx := strings.Index(jsonTag, ","); idx >= 0 {
		jsonTag = jsonTag[:idx]
	}
	if jsonTag == "" {
		return field.Name, true
	}
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(jsonTag, "_", " ")), true
}

// structSliceToTableData converts a slice of structs to Data.
func structSliceToTableData(v reflect.Value) *Data {
	elemType := v.Index(0).Type()

	var headers []string
	var fields []int
	for i := 0; i < elemType.NumField(); i++ {
		if name, ok := columnName(elemType.Field(i)); ok {
			headers = append(headers, name)
			fields = append(fields, i)
		}
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		row := make([]string, 0, len(fields))
		for _, j := range fields {
			row = append(row, fmt.Sprintf("%v", elem.Field(j).Interface()))
		}
		rows = append(rows, row)
	}

	return &Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func singleStructToTableData(v reflect.Value) *Data {
	elemType := v.Type()

	var rows [][]string
	for i := 0; i < elemType.NumField(); i++ {
		name, ok := columnName(elemType.Field(i))
		if !ok {
			continue
		}
		rows = append(rows, []string{name, fmt.Sprintf("%v", v.Field(i).Interface())})
	}

	return &Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}
