package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/render"
)

// Format defines the available export formats
type Format int

const (
	// FormatJSONL exports as JSON Lines (one JSON object per line)
	FormatJSONL Format = iota
	// FormatJSON exports as a JSON array
	FormatJSON
	// FormatCSV exports as comma-separated values
	FormatCSV
	// FormatTSV exports as tab-separated values
	FormatTSV
)

// String returns a human-readable representation of the export format
func (f Format) String() string {
	switch f {
	case FormatJSONL:
		return "jsonl"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FileExtension returns the typical file extension for this format
func (f Format) FileExtension() string {
	switch f {
	case FormatJSONL:
		return ".jsonl"
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatTSV:
		return ".tsv"
	default:
		return ".txt"
	}
}

// Config holds configuration options for export
type Config struct {
	// Format specifies the export format
	Format Format

	// IncludeMarkdown includes the rendered markdown block in each record
	IncludeMarkdown bool

	// CSVDelimiter specifies the delimiter for CSV export (default: comma)
	CSVDelimiter rune

	// IncludeHeader includes a header row in CSV/TSV exports
	IncludeHeader bool

	// PrettyPrint enables pretty printing for the JSON array format
	PrettyPrint bool
}

// DefaultConfig returns sensible defaults for export configuration
func DefaultConfig() Config {
	return Config{
		Format:          FormatJSONL,
		IncludeMarkdown: true,
		CSVDelimiter:    ',',
		IncludeHeader:   true,
		PrettyPrint:     false,
	}
}

// JSONConfig returns config optimized for a pretty-printed JSON array
func JSONConfig() Config {
	config := DefaultConfig()
	config.Format = FormatJSON
	config.PrettyPrint = true
	return config
}

// CSVConfig returns config optimized for CSV export
func CSVConfig() Config {
	config := DefaultConfig()
	config.Format = FormatCSV
	return config
}

// TSVConfig returns config optimized for TSV export
func TSVConfig() Config {
	config := DefaultConfig()
	config.Format = FormatTSV
	config.CSVDelimiter = '\t'
	return config
}

// ExportedTable represents a table prepared for export
type ExportedTable struct {
	// ID is the deterministic identifier, derived from page and index
	ID string `json:"id"`

	// Page is the 1-indexed source page
	Page int `json:"page"`

	// Index is the document-wide table number
	Index int `json:"index"`

	// Title is the detected caption, if any
	Title string `json:"title,omitempty"`

	// Description is the caption text after the table number
	Description string `json:"description,omitempty"`

	// Confidence is the validation confidence in [0,1]
	Confidence float64 `json:"confidence"`

	// Kind names the detection strategy that produced the table
	Kind string `json:"kind"`

	// Header holds the column headers
	Header []string `json:"header"`

	// HeaderGenerated reports whether the header was synthesized
	HeaderGenerated bool `json:"header_generated,omitempty"`

	// Rows holds the data rows, header excluded
	Rows [][]string `json:"rows"`

	// Markdown is the canonical rendered block
	Markdown string `json:"markdown,omitempty"`
}

// Exporter handles exporting tables to various formats
type Exporter struct {
	config   Config
	renderer *render.Renderer
}

// NewExporter creates a new exporter with default configuration
func NewExporter() *Exporter {
	return NewExporterWithConfig(DefaultConfig())
}

// NewExporterWithConfig creates an exporter with custom configuration
func NewExporterWithConfig(config Config) *Exporter {
	return &Exporter{
		config:   config,
		renderer: render.NewRenderer(),
	}
}

// Export writes tables to the specified writer
func (e *Exporter) Export(tables []model.Table, w io.Writer) error {
	switch e.config.Format {
	case FormatJSONL:
		return e.exportJSONL(tables, w)
	case FormatJSON:
		return e.exportJSON(tables, w)
	case FormatCSV, FormatTSV:
		return e.exportCSV(tables, w)
	default:
		return fmt.Errorf("unsupported export format: %v", e.config.Format)
	}
}

// ExportToFile writes tables to a file
func (e *Exporter) ExportToFile(tables []model.Table, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	return e.Export(tables, f)
}

// ExportToString writes tables to a string
func (e *Exporter) ExportToString(tables []model.Table) (string, error) {
	var buf bytes.Buffer
	if err := e.Export(tables, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// prepareTable converts a Table to an ExportedTable
func (e *Exporter) prepareTable(t model.Table) ExportedTable {
	exported := ExportedTable{
		ID:              fmt.Sprintf("table_%d_%d", t.Page, t.Index),
		Page:            t.Page,
		Index:           t.Index,
		Title:           t.Title,
		Description:     t.Description,
		Confidence:      t.Confidence,
		Kind:            t.Kind.String(),
		Header:          t.Header,
		HeaderGenerated: t.HeaderGenerated,
		Rows:            t.Rows,
	}

	if e.config.IncludeMarkdown {
		exported.Markdown = e.renderer.Render(t)
	}

	return exported
}

// exportJSONL writes one JSON object per line.
func (e *Exporter) exportJSONL(tables []model.Table, w io.Writer) error {
	encoder := json.NewEncoder(w)

	for i, t := range tables {
		if err := encoder.Encode(e.prepareTable(t)); err != nil {
			return fmt.Errorf("encoding table %d: %w", i, err)
		}
	}

	return nil
}

// exportJSON writes a single JSON array.
func (e *Exporter) exportJSON(tables []model.Table, w io.Writer) error {
	exported := make([]ExportedTable, len(tables))
	for i, t := range tables {
		exported[i] = e.prepareTable(t)
	}

	encoder := json.NewEncoder(w)
	if e.config.PrettyPrint {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(exported)
}

// exportCSV writes one record per table.
func (e *Exporter) exportCSV(tables []model.Table, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.config.CSVDelimiter

	columns := e.csvColumns()
	if e.config.IncludeHeader {
		if err := csvWriter.Write(columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
	}

	for i, t := range tables {
		exported := e.prepareTable(t)
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = columnValue(exported, col)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// csvColumns lists the CSV/TSV columns in output order.
func (e *Exporter) csvColumns() []string {
	columns := []string{
		"id", "page", "index", "title", "description",
		"confidence", "kind", "header", "rows",
	}
	if e.config.IncludeMarkdown {
		columns = append(columns, "markdown")
	}
	return columns
}

// columnValue gets the value for a specific column
func columnValue(t ExportedTable, column string) string {
	switch column {
	case "id":
		return t.ID
	case "page":
		return fmt.Sprintf("%d", t.Page)
	case "index":
		return fmt.Sprintf("%d", t.Index)
	case "title":
		return t.Title
	case "description":
		return t.Description
	case "confidence":
		return fmt.Sprintf("%.6f", t.Confidence)
	case "kind":
		return t.Kind
	case "header":
		return "[" + strings.Join(t.Header, ",") + "]"
	case "rows":
		// Nested rows are serialized as JSON inside the record
		b, _ := json.Marshal(t.Rows)
		return string(b)
	case "markdown":
		return t.Markdown
	default:
		return ""
	}
}
