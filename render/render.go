package render

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/tsawler/trellis/model"
)

// Format defines how tables are rendered
type Format int

const (
	// FormatMarkdown renders a pipe table with an alignment row
	FormatMarkdown Format = iota
	// FormatCSV renders RFC 4180 comma-separated records
	FormatCSV
	// FormatHTML renders a <table> element
	FormatHTML
	// FormatPlainText renders columns padded to equal display width
	FormatPlainText
)

// String returns a human-readable representation of the format
func (f Format) String() string {
	switch f {
	case FormatMarkdown:
		return "markdown"
	case FormatCSV:
		return "csv"
	case FormatHTML:
		return "html"
	case FormatPlainText:
		return "plaintext"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name (as used in configuration files) back to
// its Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	case "plaintext":
		return FormatPlainText, nil
	default:
		return FormatMarkdown, fmt.Errorf("unknown render format %q", name)
	}
}

// Config holds configuration for table rendering
type Config struct {
	// Format determines the output syntax
	Format Format

	// IncludeCaption prepends a bold caption line with confidence and kind
	// to markdown output
	IncludeCaption bool

	// ReformatNumbers rewrites plain decimal cells to a fixed precision
	ReformatNumbers bool

	// MaxColumnWidth caps the display width of plain text columns (0 = no cap)
	MaxColumnWidth int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Format:          FormatMarkdown,
		IncludeCaption:  true,
		ReformatNumbers: true,
		MaxColumnWidth:  0,
	}
}

// Renderer renders validated tables in a configured format
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with default config
func NewRenderer() *Renderer {
	return &Renderer{
		config: DefaultConfig(),
	}
}

// NewRendererWithConfig creates a renderer with custom config
func NewRendererWithConfig(config Config) *Renderer {
	return &Renderer{
		config: config,
	}
}

// Render writes the table in the configured format. An empty table renders
// to an empty string.
func (r *Renderer) Render(t model.Table) string {
	switch r.config.Format {
	case FormatCSV:
		return r.renderCSV(t)
	case FormatHTML:
		return r.renderHTML(t)
	case FormatPlainText:
		return r.renderPlainText(t)
	default:
		return r.renderMarkdown(t)
	}
}

// renderMarkdown emits a pipe table. Numeric columns are right-aligned via
// the separator row.
func (r *Renderer) renderMarkdown(t model.Table) string {
	if t.IsEmpty() {
		return ""
	}
	header, data, _ := Headers(t)
	if len(header) == 0 {
		return ""
	}

	var sb strings.Builder

	if r.config.IncludeCaption {
		fmt.Fprintf(&sb, "**%s** *(confidence: %.2f, type: %s)*\n\n", t.Caption(), t.Confidence, t.Kind)
	}

	clean := cleanHeader(header)
	sb.WriteString("| " + strings.Join(clean, " | ") + " |\n")

	separators := make([]string, len(clean))
	for i := range clean {
		if numericContent(columnText(data, i)) {
			separators[i] = "---:"
		} else {
			separators[i] = "---"
		}
	}
	sb.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, row := range data {
		cells := make([]string, len(clean))
		for i := range clean {
			cell := r.normalizeCell(cellAt(row, i))
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return sb.String()
}

// renderCSV emits one record per row, header first.
func (r *Renderer) renderCSV(t model.Table) string {
	if t.IsEmpty() {
		return ""
	}
	header, data, _ := Headers(t)
	if len(header) == 0 {
		return ""
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Writing to a strings.Builder cannot fail.
	_ = w.Write(cleanHeader(header))
	for _, row := range data {
		record := make([]string, len(header))
		for i := range header {
			record[i] = r.normalizeCell(cellAt(row, i))
		}
		_ = w.Write(record)
	}
	w.Flush()

	return sb.String()
}

// renderHTML emits a plain <table> element with escaped cell text.
func (r *Renderer) renderHTML(t model.Table) string {
	if t.IsEmpty() {
		return ""
	}
	header, data, _ := Headers(t)
	if len(header) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("<table>\n")
	sb.WriteString("  <tr>\n")
	for _, cell := range cleanHeader(header) {
		fmt.Fprintf(&sb, "    <th>%s</th>\n", escapeHTML(cell))
	}
	sb.WriteString("  </tr>\n")

	for _, row := range data {
		sb.WriteString("  <tr>\n")
		for i := range header {
			fmt.Fprintf(&sb, "    <td>%s</td>\n", escapeHTML(r.normalizeCell(cellAt(row, i))))
		}
		sb.WriteString("  </tr>\n")
	}
	sb.WriteString("</table>\n")

	return sb.String()
}

// renderPlainText pads every column except the last to its widest cell.
func (r *Renderer) renderPlainText(t model.Table) string {
	if t.IsEmpty() {
		return ""
	}
	header, data, _ := Headers(t)
	if len(header) == 0 {
		return ""
	}

	clean := cleanHeader(header)
	rows := make([][]string, 0, len(data)+1)
	rows = append(rows, clean)
	for _, row := range data {
		cells := make([]string, len(clean))
		for i := range clean {
			cells[i] = r.normalizeCell(cellAt(row, i))
		}
		rows = append(rows, cells)
	}

	if r.config.MaxColumnWidth > 0 {
		for _, row := range rows {
			for i, cell := range row {
				row[i] = truncateWidth(cell, r.config.MaxColumnWidth)
			}
		}
	}

	widths := make([]int, len(clean))
	for _, row := range rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			if i < len(row)-1 {
				sb.WriteString(padWidth(cell, widths[i]))
			} else {
				sb.WriteString(cell)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ============================================================================
// Cell cleaning
// ============================================================================

var (
	headerBreakRe  = regexp.MustCompile(`[|\n\r]`)
	cellBreakRe    = regexp.MustCompile(`[\n\r]+`)
	plainDecimalRe = regexp.MustCompile(`^\d+\.\d+$`)
)

// cleanHeader neutralizes pipes and line breaks in header cells, fills
// blanks with "Column N" and capitalizes the first letter.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		cleaned := strings.TrimSpace(headerBreakRe.ReplaceAllString(cell, " "))
		if cleaned == "" {
			out[i] = fmt.Sprintf("Column %d", i+1)
			continue
		}
		first, size := utf8.DecodeRuneInString(cleaned)
		out[i] = string(unicode.ToUpper(first)) + cleaned[size:]
	}
	return out
}

// normalizeCell replaces internal line breaks with spaces and optionally
// reformats plain decimals: below 1 to three decimal places, otherwise two.
func (r *Renderer) normalizeCell(cell string) string {
	cleaned := strings.TrimSpace(cellBreakRe.ReplaceAllString(cell, " "))

	if r.config.ReformatNumbers && plainDecimalRe.MatchString(cleaned) {
		if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
			if v < 1 {
				cleaned = fmt.Sprintf("%.3f", v)
			} else {
				cleaned = fmt.Sprintf("%.2f", v)
			}
		}
	}
	return cleaned
}

// cellAt returns the i-th cell of a possibly short row.
func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// columnText joins one column's values across all data rows.
func columnText(data [][]string, i int) string {
	values := make([]string, 0, len(data))
	for _, row := range data {
		values = append(values, cellAt(row, i))
	}
	return strings.Join(values, " ")
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}

// ============================================================================
// Display width
// ============================================================================

// displayWidth counts terminal cells, treating East Asian wide runes as two.
func displayWidth(s string) int {
	total := 0
	for _, r := range s {
		total += runeWidth(r)
	}
	return total
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// truncateWidth cuts s so its display width does not exceed max.
func truncateWidth(s string, max int) string {
	total := 0
	for i, r := range s {
		w := runeWidth(r)
		if total+w > max {
			return s[:i]
		}
		total += w
	}
	return s
}

func padWidth(s string, w int) string {
	gap := w - displayWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
