package ocr

import (
	"regexp"
	"strings"

	"github.com/tsawler/trellis/consolidate"
	"github.com/tsawler/trellis/model"
)

const (
	// Pages with less extractable text than this are OCR candidates.
	scannedTextLimit = 50

	// Fraction of the page that images must cover for the page to
	// count as scanned.
	scannedCoverage = 0.7
)

// cellSplitRe separates a recognized table line into cells: runs of two
// or more spaces, tabs, or pipes read back from ruled column separators.
var cellSplitRe = regexp.MustCompile(`\s{2,}|\t+|\|`)

var (
	blankRunRe = regexp.MustCompile(`\n\s*\n`)
	spaceRunRe = regexp.MustCompile(` +`)

	// A standalone digit in front of a lowercase word is usually a
	// misread letter.
	oneAsIRe  = regexp.MustCompile(`\b1(\s+[a-z])`)
	zeroAsORe = regexp.MustCompile(`\b0(\s+[a-z])`)
)

// Scanned reports whether a page looks scanned rather than born-digital:
// almost no extractable text while images cover most of the page area.
func Scanned(text string, imageCoverage float64) bool {
	return len(strings.TrimSpace(text)) < scannedTextLimit && imageCoverage > scannedCoverage
}

// CleanText tidies recognizer output for prose use. Blank-line runs
// collapse to a single blank line, space runs to a single space, and a
// standalone 1 or 0 before a lowercase word becomes I or O. Do not clean
// text destined for CandidateFromText; conversion needs the original
// multi-space cell separators.
func CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = oneAsIRe.ReplaceAllString(text, "I${1}")
	text = zeroAsORe.ReplaceAllString(text, "O${1}")
	return strings.TrimSpace(text)
}

// CandidateFromText converts raw recognizer output into a table
// candidate. Lines split into cells on runs of two or more spaces, tabs,
// or pipes; lines with fewer than two cells are dropped. Rows pad to a
// uniform width and the candidate is scored with the standard confidence
// scorer. Reports false when fewer than two table lines survive.
func CandidateFromText(text string) (model.Candidate, bool) {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cells := cellSplitRe.Split(line, -1)
		for i, cell := range cells {
			cells[i] = strings.TrimSpace(cell)
		}
		if len(cells) >= 2 {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return model.Candidate{}, false
	}

	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	for i, row := range rows {
		for len(row) < maxCols {
			row = append(row, "")
		}
		rows[i] = row
	}

	cand := model.Candidate{
		Kind: model.KindTextAlignment,
		Rows: rows,
	}
	cand.Confidence = consolidate.Score(cand)
	return cand, true
}
