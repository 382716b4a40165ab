package consolidate

import (
	"errors"
	"strings"

	"github.com/tsawler/trellis/model"
)

var (
	// ErrTooFewRows rejects candidates with fewer than two rows.
	ErrTooFewRows = errors.New("consolidate: fewer than two rows")

	// ErrTooFewColumns rejects candidates averaging fewer than two columns.
	ErrTooFewColumns = errors.New("consolidate: average column count below two")

	// ErrSparseCells rejects candidates where under 60% of cells hold text.
	ErrSparseCells = errors.New("consolidate: too many empty cells")
)

// Validate checks that a candidate holds up as a table. It returns nil for
// a valid candidate or one of the sentinel errors above.
func Validate(c model.Candidate) error {
	if c.RowCount() < 2 {
		return ErrTooFewRows
	}

	totalCells := 0
	nonEmpty := 0
	for _, row := range c.Rows {
		totalCells += len(row)
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
		}
	}

	avgCols := float64(totalCells) / float64(c.RowCount())
	if avgCols < 2 {
		return ErrTooFewColumns
	}

	if float64(nonEmpty) < float64(totalCells)*0.6 {
		return ErrSparseCells
	}
	return nil
}
