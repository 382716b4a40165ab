package detect

import (
	"sort"
	"strings"

	"github.com/tsawler/trellis/model"
)

// MarkedLineDetector detects tables drawn with explicit ruling lines. The
// horizontal and vertical rulings define a cell grid, and fragments fall into
// cells by box overlap.
type MarkedLineDetector struct {
	config Config
}

// NewMarkedLineDetector creates a new ruled line detector with default configuration.
func NewMarkedLineDetector() *MarkedLineDetector {
	return &MarkedLineDetector{
		config: DefaultConfig(),
	}
}

// Kind returns the detector's strategy (marked_lines).
func (d *MarkedLineDetector) Kind() model.DetectorKind {
	return model.KindMarkedLines
}

// Configure sets the detector configuration.
func (d *MarkedLineDetector) Configure(config Config) error {
	if err := config.validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect finds tables on a page from drawn rulings. It needs at least two
// horizontal and two vertical rulings after clustering; a grid whose cells
// hold no text at all is discarded.
func (d *MarkedLineDetector) Detect(page *model.Page) ([]model.Candidate, error) {
	if page == nil || len(page.Rulings) == 0 {
		return nil, nil
	}

	// Step 1: Split rulings by orientation
	var hPositions, vPositions []float64
	for _, ruling := range page.Rulings {
		switch {
		case ruling.IsHorizontal(d.config.SlopeTolerance):
			hPositions = append(hPositions, ruling.Position(d.config.SlopeTolerance))
		case ruling.IsVertical(d.config.SlopeTolerance):
			vPositions = append(vPositions, ruling.Position(d.config.SlopeTolerance))
		}
	}

	// Step 2: Merge near-duplicate rulings into grid boundaries
	sort.Float64s(hPositions)
	sort.Float64s(vPositions)
	hs := clusterValues(hPositions, d.config.AlignmentTolerance)
	vs := clusterValues(vPositions, d.config.AlignmentTolerance)
	if len(hs) < 2 || len(vs) < 2 {
		return nil, nil
	}

	// Step 3: Assign fragments to grid cells
	rows := d.buildGridRows(page.Fragments, hs, vs)
	if rows == nil {
		return nil, nil
	}

	bbox := model.NewBBoxFromPoints(
		model.Point{X: vs[0], Y: hs[0]},
		model.Point{X: vs[len(vs)-1], Y: hs[len(hs)-1]},
	)
	candidate := model.Candidate{
		Kind:       model.KindMarkedLines,
		Page:       page.Number,
		Rows:       rows,
		BBox:       bbox,
		Confidence: 0.9,
	}
	return []model.Candidate{candidate}, nil
}

// buildGridRows places each fragment into the grid cell it overlaps most and
// joins each cell's fragments left to right. Rows order top to bottom. If no
// fragment lands in any cell the grid is empty and the result is nil.
func (d *MarkedLineDetector) buildGridRows(fragments []model.TextFragment, hs, vs []float64) [][]string {
	rowCount := len(hs) - 1
	colCount := len(vs) - 1

	cells := make([][][]model.TextFragment, rowCount)
	for r := range cells {
		cells[r] = make([][]model.TextFragment, colCount)
	}

	// hs is ascending, so visual row r spans hs[len-1-r] down to hs[len-2-r]
	cellBox := func(r, c int) model.BBox {
		top := hs[len(hs)-1-r]
		bottom := hs[len(hs)-2-r]
		return model.NewBBoxFromPoints(
			model.Point{X: vs[c], Y: bottom},
			model.Point{X: vs[c+1], Y: top},
		)
	}

	assigned := false
	for _, frag := range fragments {
		if !frag.HasGeometry() || strings.TrimSpace(frag.Text) == "" {
			continue
		}
		bestRow, bestCol, bestArea := -1, -1, 0.0
		for r := 0; r < rowCount; r++ {
			for c := 0; c < colCount; c++ {
				area := cellBox(r, c).Intersection(frag.BBox).Area()
				if area > bestArea {
					bestArea = area
					bestRow, bestCol = r, c
				}
			}
		}
		if bestRow >= 0 {
			cells[bestRow][bestCol] = append(cells[bestRow][bestCol], frag)
			assigned = true
		}
	}
	if !assigned {
		return nil
	}

	rows := make([][]string, rowCount)
	for r := range rows {
		row := make([]string, colCount)
		for c := 0; c < colCount; c++ {
			frags := cells[r][c]
			sort.SliceStable(frags, func(i, j int) bool {
				return frags[i].BBox.Left() < frags[j].BBox.Left()
			})
			var parts []string
			for _, frag := range frags {
				if text := strings.TrimSpace(frag.Text); text != "" {
					parts = append(parts, text)
				}
			}
			row[c] = strings.Join(parts, " ")
		}
		rows[r] = row
	}
	return rows
}
