package detect

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/trellis/classify"
	"github.com/tsawler/trellis/model"
)

var alignmentGapRe = regexp.MustCompile(`\s{2,}`)

// AlignmentDetector detects tables from runs of visually aligned table-like
// text lines. It needs positioned fragments but no ruling lines, so it covers
// borderless tables that the marked line detector misses.
type AlignmentDetector struct {
	config Config
}

// NewAlignmentDetector creates a new text alignment detector with default configuration.
func NewAlignmentDetector() *AlignmentDetector {
	return &AlignmentDetector{
		config: DefaultConfig(),
	}
}

// Kind returns the detector's strategy (text_alignment).
func (d *AlignmentDetector) Kind() model.DetectorKind {
	return model.KindTextAlignment
}

// Configure sets the detector configuration.
func (d *AlignmentDetector) Configure(config Config) error {
	if err := config.validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect finds tables on a page from text alignment. Lines assemble from
// fragment rows, consecutive table-like lines group into regions, and each
// region that splits into enough rows becomes a candidate.
func (d *AlignmentDetector) Detect(page *model.Page) ([]model.Candidate, error) {
	if page == nil || !page.HasGeometry() {
		return nil, nil
	}

	lines := d.assembleLines(page)
	regions := d.findRuns(lines)

	var candidates []model.Candidate
	for _, region := range regions {
		rows := parseAlignedRows(region)
		if len(rows) < d.config.MinRows {
			continue
		}
		candidates = append(candidates, model.Candidate{
			Kind:       model.KindTextAlignment,
			Page:       page.Number,
			Region:     len(candidates),
			Rows:       rows,
			BBox:       regionBBox(region),
			Confidence: d.alignmentConfidence(region),
		})
	}
	return candidates, nil
}

// alignedLine is one visual text row with the layout detail the alignment
// analysis needs.
type alignedLine struct {
	text      string
	top       float64
	box       model.BBox
	fragments []model.TextFragment
}

// assembleLines builds visual lines from fragment rows. Fragments in a row
// order left to right and join with double spaces so column gaps survive into
// the line text.
func (d *AlignmentDetector) assembleLines(page *model.Page) []alignedLine {
	rows := clusterFragmentRows(page.Fragments, d.config.RowTolerance)

	lines := make([]alignedLine, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].BBox.Left() < row[j].BBox.Left()
		})
		var parts []string
		var boxes []model.BBox
		for _, frag := range row {
			if text := strings.TrimSpace(frag.Text); text != "" {
				parts = append(parts, text)
				boxes = append(boxes, frag.BBox)
			}
		}
		if len(parts) == 0 {
			continue
		}
		box := model.UnionAll(boxes)
		lines = append(lines, alignedLine{
			text:      strings.Join(parts, "  "),
			top:       box.Top(),
			box:       box,
			fragments: row,
		})
	}
	return lines
}

// findRuns collects consecutive table-like lines into regions. A region
// breaks on a non-table-like line or a vertical jump beyond MaxLineGap, and
// must reach MinRunLength lines to survive.
func (d *AlignmentDetector) findRuns(lines []alignedLine) [][]alignedLine {
	var regions [][]alignedLine
	var current []alignedLine

	flush := func() {
		if len(current) >= d.config.MinRunLength {
			regions = append(regions, current)
		}
		current = nil
	}

	for _, line := range lines {
		if classify.TableLike(line.text, nil) {
			if len(current) > 0 && math.Abs(line.top-current[len(current)-1].top) > d.config.MaxLineGap {
				flush()
			}
			current = append(current, line)
		} else {
			flush()
		}
	}
	flush()

	return regions
}

// parseAlignedRows splits each line in a region into cells on tabs or
// multi-space gaps.
func parseAlignedRows(region []alignedLine) [][]string {
	rows := make([][]string, 0, len(region))
	for _, line := range region {
		var parts []string
		if strings.Contains(line.text, "\t") {
			parts = strings.Split(line.text, "\t")
		} else {
			parts = alignmentGapRe.Split(line.text, -1)
		}
		var cells []string
		for _, part := range parts {
			if cell := strings.TrimSpace(part); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

// alignmentConfidence rates a region by recurring left edge positions.
// Fragment left edges cluster within the alignment tolerance; a cluster
// present on at least half of the lines counts as a consistent column. Each
// consistent column adds 0.2, floored at 0.2 and capped at 0.8.
func (d *AlignmentDetector) alignmentConfidence(region []alignedLine) float64 {
	if len(region) == 0 {
		return 0
	}

	var edges []float64
	for _, line := range region {
		for _, frag := range line.fragments {
			if frag.HasGeometry() {
				edges = append(edges, frag.BBox.Left())
			}
		}
	}
	sort.Float64s(edges)
	centers := clusterValues(edges, d.config.AlignmentTolerance)

	consistent := 0
	for _, center := range centers {
		count := 0
		for _, line := range region {
			for _, frag := range line.fragments {
				if math.Abs(frag.BBox.Left()-center) <= d.config.AlignmentTolerance {
					count++
					break
				}
			}
		}
		if count*2 >= len(region) {
			consistent++
		}
	}

	score := 0.2 * float64(consistent)
	if score < 0.2 {
		score = 0.2
	}
	if score > 0.8 {
		score = 0.8
	}
	return score
}

func regionBBox(region []alignedLine) model.BBox {
	boxes := make([]model.BBox, 0, len(region))
	for _, line := range region {
		boxes = append(boxes, line.box)
	}
	return model.UnionAll(boxes)
}
