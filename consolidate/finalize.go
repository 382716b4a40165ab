package consolidate

import (
	"github.com/tsawler/trellis/model"
)

// Finalize normalizes a validated candidate into a rectangular Table.
// Leading rows narrower than 70% of the widest row (stray caption or note
// fragments picked up above the real table) are skipped, the remaining rows
// are padded or truncated to a uniform width of at least two columns, and
// the candidate's metadata is carried over. Header designation happens at
// render time; the Table records the normalized rows only.
func Finalize(c model.Candidate) (model.Table, error) {
	rows := c.CloneRows()
	if len(rows) < 2 {
		return model.Table{}, ErrTooFewRows
	}

	maxCols := c.MaxColumns()
	start := 0
	for i, row := range rows {
		if float64(len(row)) >= float64(maxCols)*0.7 {
			start = i
			break
		}
	}
	rows = rows[start:]
	if len(rows) < 2 {
		return model.Table{}, ErrTooFewRows
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		width = 2
	}

	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row[:width]
	}

	return model.Table{
		Kind:        c.Kind,
		Page:        c.Page,
		Rows:        rows,
		BBox:        c.BBox,
		Confidence:  c.Confidence,
		Title:       c.Title,
		Description: c.Description,
	}, nil
}
