package detect

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/trellis/model"
)

// BBoxGridDetector detects tables from text fragment coordinates. It clusters
// fragments into visual rows by vertical proximity, orders each row left to
// right, and accepts the grid when the rows have consistent column counts and
// enough numeric content.
type BBoxGridDetector struct {
	config Config
}

// NewBBoxGridDetector creates a new coordinate grid detector with default configuration.
func NewBBoxGridDetector() *BBoxGridDetector {
	return &BBoxGridDetector{
		config: DefaultConfig(),
	}
}

// Kind returns the detector's strategy (bbox_grid).
func (d *BBoxGridDetector) Kind() model.DetectorKind {
	return model.KindBBoxGrid
}

// Configure sets the detector configuration.
func (d *BBoxGridDetector) Configure(config Config) error {
	if err := config.validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect finds tables on a page from fragment bounding boxes. Pages without
// positioned fragments produce no candidates.
func (d *BBoxGridDetector) Detect(page *model.Page) ([]model.Candidate, error) {
	if page == nil || !page.HasGeometry() {
		return nil, nil
	}

	// Step 1: Cluster fragments into rows by vertical proximity
	rows := clusterFragmentRows(page.Fragments, d.config.RowTolerance)

	// Step 2: Keep rows with enough fragments to form columns
	var dense [][]model.TextFragment
	for _, row := range rows {
		if len(row) >= d.config.MinCols {
			dense = append(dense, row)
		}
	}
	if len(dense) < d.config.MinRows {
		return nil, nil
	}

	// Step 3: Build cell texts left to right
	cells := make([][]string, 0, len(dense))
	var boxes []model.BBox
	for _, row := range dense {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].BBox.Left() < row[j].BBox.Left()
		})
		var texts []string
		for _, frag := range row {
			if text := strings.TrimSpace(frag.Text); text != "" {
				texts = append(texts, text)
				boxes = append(boxes, frag.BBox)
			}
		}
		if len(texts) > 0 {
			cells = append(cells, texts)
		}
	}
	if len(cells) < d.config.MinRows {
		return nil, nil
	}

	// Step 4: Validate column consistency and content density
	if !gridConsistent(cells) {
		return nil, nil
	}

	candidate := model.Candidate{
		Kind:       model.KindBBoxGrid,
		Page:       page.Number,
		Rows:       cells,
		BBox:       model.UnionAll(boxes),
		Confidence: gridConfidence(cells),
	}
	return []model.Candidate{candidate}, nil
}

// gridConsistent checks that row widths spread by at most two columns, at
// least half of the cells hold text, and at least two cells carry a digit.
func gridConsistent(rows [][]string) bool {
	minCols, maxCols := len(rows[0]), len(rows[0])
	total, nonEmpty, numeric := 0, 0, 0
	for _, row := range rows {
		if len(row) < minCols {
			minCols = len(row)
		}
		if len(row) > maxCols {
			maxCols = len(row)
		}
		for _, cell := range row {
			total++
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
			if strings.ContainsAny(cell, "0123456789") {
				numeric++
			}
		}
	}

	if maxCols-minCols > 2 {
		return false
	}
	if total == 0 || float64(nonEmpty) < float64(total)*0.5 {
		return false
	}
	return numeric >= 2
}

// gridConfidence scores a coordinate grid: bonuses for cell count, row depth,
// regular row widths, and numeric density, capped at 1.
func gridConfidence(rows [][]string) float64 {
	total, numeric := 0, 0
	widths := make([]float64, len(rows))
	for i, row := range rows {
		widths[i] = float64(len(row))
		for _, cell := range row {
			total++
			if strings.ContainsAny(cell, "0123456789") {
				numeric++
			}
		}
	}

	score := 0.0
	if total >= 6 {
		score += 0.2
	}
	if len(rows) >= 3 {
		score += 0.2
	}
	if variance(widths) <= 1 {
		score += 0.3
	}
	if total > 0 && float64(numeric)/float64(total) > 0.3 {
		score += 0.3
	}
	if score > 1 {
		score = 1
	}
	return score
}

// Utility functions

// clusterFragmentRows groups positioned fragments into visual rows. Fragments
// sort top to bottom; a fragment joins the current row while its top edge is
// within the tolerance of the row's first fragment.
func clusterFragmentRows(fragments []model.TextFragment, tolerance float64) [][]model.TextFragment {
	var positioned []model.TextFragment
	for _, frag := range fragments {
		if frag.HasGeometry() && strings.TrimSpace(frag.Text) != "" {
			positioned = append(positioned, frag)
		}
	}
	if len(positioned) == 0 {
		return nil
	}

	// Sort by Y position (top to bottom)
	sort.SliceStable(positioned, func(i, j int) bool {
		return positioned[i].BBox.Top() > positioned[j].BBox.Top()
	})

	var rows [][]model.TextFragment
	current := []model.TextFragment{positioned[0]}
	rowTop := positioned[0].BBox.Top()

	for _, frag := range positioned[1:] {
		if math.Abs(frag.BBox.Top()-rowTop) <= tolerance {
			current = append(current, frag)
		} else {
			rows = append(rows, current)
			current = []model.TextFragment{frag}
			rowTop = frag.BBox.Top()
		}
	}
	rows = append(rows, current)

	return rows
}

// clusterValues groups sorted values within a tolerance into representative
// centers.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}

	for i := 1; i < len(values); i++ {
		diff := values[i] - clustered[len(clustered)-1]
		if diff > tolerance {
			clustered = append(clustered, values[i])
		} else {
			// Update cluster center with average
			clustered[len(clustered)-1] = (clustered[len(clustered)-1] + values[i]) / 2
		}
	}

	return clustered
}

// mean computes the arithmetic mean of a slice of float64 values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance computes the population variance of a slice of float64 values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}
