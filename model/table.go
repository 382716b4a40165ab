package model

import "fmt"

// DetectorKind identifies which detection strategy produced a candidate.
type DetectorKind int

const (
	KindUnknown DetectorKind = iota
	KindBBoxGrid
	KindTextAlignment
	KindMarkedLines
	KindAcademicText
)

func (k DetectorKind) String() string {
	switch k {
	case KindBBoxGrid:
		return "bbox_grid"
	case KindTextAlignment:
		return "text_alignment"
	case KindMarkedLines:
		return "marked_lines"
	case KindAcademicText:
		return "academic_text"
	default:
		return "unknown"
	}
}

// ParseDetectorKind maps a strategy name (as used in configuration files)
// back to its DetectorKind.
func ParseDetectorKind(name string) (DetectorKind, error) {
	switch name {
	case "bbox_grid":
		return KindBBoxGrid, nil
	case "text_alignment":
		return KindTextAlignment, nil
	case "marked_lines":
		return KindMarkedLines, nil
	case "academic_text":
		return KindAcademicText, nil
	default:
		return KindUnknown, fmt.Errorf("unknown detector kind %q", name)
	}
}

// AllDetectorKinds lists every detection strategy in priority order.
func AllDetectorKinds() []DetectorKind {
	return []DetectorKind{KindBBoxGrid, KindTextAlignment, KindMarkedLines, KindAcademicText}
}

// Candidate is an unvalidated hypothesis that a set of rows forms a table.
// Exactly one detector creates each candidate; consolidation and validation
// consume candidates and never mutate them in place.
type Candidate struct {
	Kind        DetectorKind
	Page        int // 1-indexed page number
	Region      int // 0-indexed region on the page, in detection order
	Rows        [][]string
	BBox        BBox // zero for text-derived candidates
	Confidence  float64
	Title       string // e.g. "Table 2"
	Description string // e.g. "Results on ISIC 2017"
}

// RowCount returns the number of rows.
func (c Candidate) RowCount() int {
	return len(c.Rows)
}

// MaxColumns returns the widest row length.
func (c Candidate) MaxColumns() int {
	max := 0
	for _, row := range c.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// CloneRows returns a deep copy of the candidate's row matrix.
func (c Candidate) CloneRows() [][]string {
	rows := make([][]string, len(c.Rows))
	for i, row := range c.Rows {
		rows[i] = make([]string, len(row))
		copy(rows[i], row)
	}
	return rows
}

// Table is a validated candidate: rows are rectangular (padded with empty
// cells to the header length) and a header row has been designated, either
// taken from the data or generated. Index is the 1-based document-wide table
// number, assigned after per-page results are aggregated in page order.
type Table struct {
	Kind            DetectorKind
	Page            int
	Index           int
	Header          []string
	HeaderGenerated bool
	Rows            [][]string // data rows, header excluded
	BBox            BBox
	Confidence      float64
	Title           string
	Description     string
}

// RowCount returns the number of data rows (header excluded).
func (t Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the column count, which equals the header length.
func (t Table) ColCount() int {
	return len(t.Header)
}

// Column returns the values of one column across all data rows.
func (t Table) Column(i int) []string {
	if i < 0 || i >= t.ColCount() {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// Caption returns the display title for the table: its detected title if one
// exists, otherwise "Table N" from the document-wide index.
func (t Table) Caption() string {
	if t.Title != "" {
		return t.Title
	}
	return fmt.Sprintf("Table %d", t.Index)
}

// IsEmpty reports whether the table carries no content at all.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0 && len(t.Header) == 0
}
