package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/trellis/model"
)

// Header vocabulary, matched against the lowered first-row text. The
// dataset pattern keeps its case sensitivity and runs on the raw text.
var (
	headerVocabRes = []*regexp.Regexp{
		// Medium-length descriptive words
		regexp.MustCompile(`\b[a-z]{4,12}\b`),
		// Method/data vocabulary
		regexp.MustCompile(`\b\w*dat\w*\b|\b\w*model\w*\b|\b\w*method\w*\b|\b\w*approach\w*\b`),
		// Performance-related suffixes
		regexp.MustCompile(`\b\w+(?:ness|ity|ance|ence|acy|ion)\b`),
		// Hyphenated or underscore terms
		regexp.MustCompile(`\b\w+[-_]\w+\b`),
	}
	datasetHeaderRe = regexp.MustCompile(`\b[A-Z]{2,}\s+\d{4}\b`)

	// Runs of short labels like "DSC SE SP ACC"
	lowerLabelRunRe = regexp.MustCompile(`\b[a-z]{2,4}\b(?:\s+[a-z]{2,4}\b){2,}`)
	upperLabelRunRe = regexp.MustCompile(`\b[A-Z]{2,4}\b(?:\s+[A-Z]{2,4}\b){2,}`)
)

// Column content vocabulary for synthesized headers.
var (
	referenceRe  = regexp.MustCompile(`\(.*\d{4}.*\)`)
	methodNameRe = regexp.MustCompile(`\b[A-Za-z]+(?:[-_][A-Za-z]+)*\b`)

	accuracyVocabRe     = regexp.MustCompile(`\d+\.?\d*%|\b\w*acc\w*\b|\b\w*prec\w*\b`)
	lossVocabRe         = regexp.MustCompile(`\b\w*loss\w*\b|\b\w*err\w*\b`)
	timeVocabRe         = regexp.MustCompile(`\b\w*time\w*\b|\b\w*speed\w*\b|\bms\b|\bs\b`)
	datasetVocabRe      = regexp.MustCompile(`\b\w*dat\w*\b|\b\w*corp\w*\b|\b\w*bench\w*\b`)
	architectureVocabRe = regexp.MustCompile(`\b\w*arch\w*\b|\b\w*net\w*\b|\b\w*model\w*\b`)
	typeVocabRe         = regexp.MustCompile(`\b\w*type\w*\b|\b\w*class\w*\b|\b\w*categ\w*\b`)
)

// Numeric shapes common in results tables.
var numericalPatternRes = []*regexp.Regexp{
	// Percentages
	regexp.MustCompile(`\d+\.\d+%`),
	// Mean ± std
	regexp.MustCompile(`\d+\.\d+±\d+\.\d+`),
	regexp.MustCompile(`\d+\.\d+\s*±\s*\d+\.\d+`),
	// Decimal numbers (accuracy, loss, etc.)
	regexp.MustCompile(`\d+\.\d{2,4}`),
	// Large numbers with commas
	regexp.MustCompile(`\d+,\d+`),
	// Numbers with k/M suffixes
	regexp.MustCompile(`\b\d+[kKmM]\b`),
}

// Headers resolves the header row for a table. A table that already carries
// a header is returned as is. Otherwise the first data row is promoted when
// it reads like a real header line; failing that, headers are synthesized
// from the column contents and every row stays data.
func Headers(t model.Table) (header []string, data [][]string, generated bool) {
	if len(t.Header) > 0 {
		return t.Header, t.Rows, t.HeaderGenerated
	}
	if len(t.Rows) == 0 {
		return nil, nil, false
	}
	if isRealHeader(t.Rows[0]) {
		return t.Rows[0], t.Rows[1:], false
	}
	return synthesizeHeaders(t.Rows), t.Rows, true
}

// isRealHeader reports whether a first row can serve as the header: it must
// match at least one header-vocabulary pattern and must not read like a
// repeated metric-label row.
func isRealHeader(cells []string) bool {
	joined := strings.TrimSpace(strings.Join(cells, " "))
	if joined == "" {
		return false
	}
	lower := strings.ToLower(joined)

	matched := datasetHeaderRe.MatchString(joined)
	for _, re := range headerVocabRes {
		if matched {
			break
		}
		matched = re.MatchString(lower)
	}
	if !matched {
		return false
	}

	return !metricLabelRow(joined)
}

// metricLabelRow reports whether text is a run of short metric labels with
// heavy word repetition, e.g. "acc acc acc prec". Such rows are sub-headers
// under a real header, never the header itself.
func metricLabelRow(text string) bool {
	if !lowerLabelRunRe.MatchString(text) && !upperLabelRunRe.MatchString(text) {
		return false
	}

	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return false
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique))/float64(len(words)) < 0.6
}

// synthesizeHeaders builds one header per column by inspecting the column's
// values across all rows.
func synthesizeHeaders(rows [][]string) []string {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	headers := make([]string, 0, cols)
	for col := 0; col < cols; col++ {
		var values []string
		for _, row := range rows {
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				values = append(values, strings.TrimSpace(row[col]))
			}
		}
		headers = append(headers, columnHeader(col, values))
	}
	return headers
}

// columnHeader names a single column from its non-empty values. The first
// column describes what each row is; later columns are named by their
// dominant vocabulary.
func columnHeader(col int, values []string) string {
	if len(values) == 0 {
		return fmt.Sprintf("Column %d", col+1)
	}
	lower := strings.ToLower(strings.Join(values, " "))

	if col == 0 {
		for _, v := range values {
			if referenceRe.MatchString(v) {
				return "Reference"
			}
		}
		for _, v := range values {
			if methodNameRe.MatchString(v) {
				return "Method"
			}
		}
		return "Approach"
	}

	if numericContent(lower) {
		switch {
		case accuracyVocabRe.MatchString(lower):
			return "Accuracy"
		case lossVocabRe.MatchString(lower):
			return "Loss"
		case timeVocabRe.MatchString(lower):
			return "Time"
		default:
			return "Metric"
		}
	}

	switch {
	case datasetVocabRe.MatchString(lower):
		return "Dataset"
	case architectureVocabRe.MatchString(lower):
		return "Architecture"
	case typeVocabRe.MatchString(lower):
		return "Type"
	default:
		return fmt.Sprintf("Column %d", col+1)
	}
}

// numericContent reports whether text matches any numeric shape from
// results-table data.
func numericContent(text string) bool {
	for _, re := range numericalPatternRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
