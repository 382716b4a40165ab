package consolidate

import (
	"regexp"
	"strings"

	"github.com/tsawler/trellis/model"
)

// academicVocabRes are vocabulary shapes common in academic result tables.
// Each match adds a fixed bonus to the academic factor. These run on the
// lowercased cell text; abbreviations are matched separately on the
// original-case text.
var academicVocabRes = []*regexp.Regexp{
	regexp.MustCompile(`\bet al\.`),
	regexp.MustCompile(`\(\d{4}\)`),
	regexp.MustCompile(`\b\w+(?:ness|ity|ance|ence|acy|ion)\b`),
	regexp.MustCompile(`dat|model|method|approach`),
	regexp.MustCompile(`\d+\.?\d*%`),
}

// abbrevVocabRe matches multi-letter uppercase abbreviations such as metric
// names (DSC, ACC). Case-sensitive on purpose.
var abbrevVocabRe = regexp.MustCompile(`\b[A-Z]{2,}\b`)

// digitRe spots any numeric content in a cell.
var digitRe = regexp.MustCompile(`\d+\.?\d*`)

// Score rates a candidate's table quality in [0,1] as the unweighted mean
// of four factors: cell completeness, row-length consistency, numeric
// content ratio (doubled, capped at 1), and an academic-vocabulary bonus of
// 0.15 per matched shape (capped at 1).
func Score(c model.Candidate) float64 {
	rows := c.Rows
	if len(rows) == 0 {
		return 0
	}

	totalCells := 0
	nonEmpty := 0
	numeric := 0
	minLen, maxLen := -1, 0
	var joined []string

	for _, row := range rows {
		if minLen < 0 || len(row) < minLen {
			minLen = len(row)
		}
		if len(row) > maxLen {
			maxLen = len(row)
		}
		for _, cell := range row {
			totalCells++
			if strings.TrimSpace(cell) != "" {
				nonEmpty++
			}
			if digitRe.MatchString(cell) {
				numeric++
			}
			joined = append(joined, cell)
		}
	}
	if totalCells == 0 {
		return 0
	}

	completeness := float64(nonEmpty) / float64(totalCells)

	consistency := 0.0
	if maxLen > 0 {
		consistency = float64(minLen) / float64(maxLen)
	}

	numericFactor := float64(numeric) / float64(totalCells) * 2
	if numericFactor > 1 {
		numericFactor = 1
	}

	allText := strings.Join(joined, " ")
	lowered := strings.ToLower(allText)
	academic := 0.0
	for _, re := range academicVocabRes {
		if re.MatchString(lowered) {
			academic += 0.15
		}
	}
	if abbrevVocabRe.MatchString(allText) {
		academic += 0.15
	}
	if academic > 1 {
		academic = 1
	}

	return (completeness + consistency + numericFactor + academic) / 4
}
