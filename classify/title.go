package classify

import (
	"regexp"
	"strings"
)

// TitleInfo describes a detected table title line.
type TitleInfo struct {
	// Number is the table designator as written: "2", "IV", "A". Lines with
	// no designator get "1".
	Number string

	// Description is the text after the designator, original case preserved.
	Description string

	// Raw is the trimmed original line.
	Raw string
}

// titlePattern pairs a title regex with the capture layout it produces.
type titlePattern struct {
	re        *regexp.Regexp
	hasNumber bool
}

// titlePatterns is the ordered ladder of title shapes. Earlier patterns win;
// later ones are only tried after earlier ones fail. All patterns anchor at
// the start of the line so prose references ("see Table 3") do not trigger.
var titlePatterns = []titlePattern{
	// Table 1. Title / Table 1: Title / Table 1 - Title / Table1 Title
	{regexp.MustCompile(`(?i)^\s*table\s*(\d+)\s*[.:\-–—]?\s*(.*)$`), true},
	// Tab. 1. Title / Tbl 1 Title
	{regexp.MustCompile(`(?i)^\s*tab\.\s*(\d+)\.?\s*(.*)$`), true},
	{regexp.MustCompile(`(?i)^\s*tbl\.?\s*(\d+)\.?\s*(.*)$`), true},
	// Table (1) Title / Table [1] Title
	{regexp.MustCompile(`(?i)^\s*table\s*\((\d+)\)\s*(.*)$`), true},
	{regexp.MustCompile(`(?i)^\s*table\s*\[(\d+)\]\s*(.*)$`), true},
	// Table IV. Title (roman numerals)
	{regexp.MustCompile(`(?i)^\s*table\s+([ivxlc]+)\b\s*[.:\-–—]?\s*(.*)$`), true},
	// Table A. Title (letter designator, separator required so ordinary
	// words after "table" are not split)
	{regexp.MustCompile(`(?i)^\s*table\s+([a-z])\s*[.:\-–—]\s*(.*)$`), true},
	// Table - Title / Table: Title (no designator)
	{regexp.MustCompile(`(?i)^\s*table\s*[-:]\s*(.*)$`), false},
	// Table Title (last resort)
	{regexp.MustCompile(`(?i)^\s*table\s+(.*)$`), false},
}

// Structural title indicators, used when no literal "Table" keyword is
// present. Counted independently; two or more mark the line as a title.
var (
	compoundTermRe = regexp.MustCompile(`(?i)\b[A-Za-z]+(?:[-_][A-Za-z]+)+\b`)
	dataTermRe     = regexp.MustCompile(`(?i)\b\w*dat\w*\b|\b\w*corp\w*\b|\b\w*bench\w*\b`)
	resultTermRe   = regexp.MustCompile(`(?i)\b\w*result\w*\b|\b\w*perform\w*\b|\b\w*score\w*\b|\b\w*metric\w*\b`)
	paramTermRe    = regexp.MustCompile(`(?i)\b\w*param\w*\b|\b\w*flop\w*\b`)
	twoAbbrevsRe   = regexp.MustCompile(`\b[A-Z]{2,}\b.*\b[A-Z]{2,}\b`)
	threeIntsRe    = regexp.MustCompile(`\d+\s+\d+\s+\d+`)
)

// Header-row indicators, used to pick the header row out of a candidate's
// leading lines.
var (
	descriptiveWordRe = regexp.MustCompile(`\b[a-z]{4,12}\b`)
	datasetYearRe     = regexp.MustCompile(`\b[A-Z]{2,}\s+\d{4}\b`)
	camelCaseRe       = regexp.MustCompile(`\b[A-Z][a-z]+[A-Z][a-z]*\b`)
	compoundWordRe    = regexp.MustCompile(`\b\w+[-_]\w+\b`)
	capitalizedRe     = regexp.MustCompile(`\b[A-Z][a-z]{2,8}\b`)
	lowerMetricRunRe  = regexp.MustCompile(`\b[a-z]{2,4}\b(?:\s+[a-z]{2,4}\b){2,}`)
	upperMetricRunRe  = regexp.MustCompile(`\b[A-Z]{2,4}\b(?:\s+[A-Z]{2,4}\b){2,}`)
	datasetNumberRe   = regexp.MustCompile(`\b[A-Z]{2,}\s+\d{4}\b|\b[A-Z]{2,}\s+\d+\b`)
)

// Title detects a table title line. It tries the ordered pattern ladder
// first; the first matching shape wins. When no literal "Table" keyword is
// present it falls back to a structural heuristic that counts header-like
// signals. Returns false when the line is not a title.
func Title(line string) (TitleInfo, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return TitleInfo{}, false
	}

	for _, p := range titlePatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		info := TitleInfo{Raw: trimmed}
		if p.hasNumber {
			info.Number = strings.ToUpper(m[1])
			info.Description = strings.TrimSpace(m[2])
		} else {
			info.Number = "1"
			info.Description = strings.TrimSpace(m[1])
		}
		return info, true
	}

	if structuralTitle(trimmed) {
		return TitleInfo{Number: "1", Description: trimmed, Raw: trimmed}, true
	}

	return TitleInfo{}, false
}

// structuralTitle reports whether a line without a "Table" keyword still
// looks like a table header line: at least two independent header signals
// and a length between 10 and 200 characters.
func structuralTitle(line string) bool {
	if len(line) < 10 || len(line) > 200 {
		return false
	}

	lower := strings.ToLower(line)
	count := 0
	if suffixRe.MatchString(lower) {
		count++
	}
	if compoundTermRe.MatchString(line) {
		count++
	}
	if dataTermRe.MatchString(line) {
		count++
	}
	if resultTermRe.MatchString(line) {
		count++
	}
	if paramTermRe.MatchString(line) {
		count++
	}
	if twoAbbrevsRe.MatchString(line) {
		count++
	}
	if threeIntsRe.MatchString(line) {
		count++
	}

	return count >= 2
}

// HeaderLine reports whether a line looks like a table header row rather
// than a data row. Primary headers carry descriptive or dataset-like terms
// without the heavy word repetition of metric sub-headers; a traditional
// fallback accepts lines with multiple header signals or well-known
// benchmark column labels.
func HeaderLine(line string) bool {
	lower := strings.ToLower(line)
	words := strings.Fields(lower)

	primary := 0
	if descriptiveWordRe.MatchString(line) {
		primary++
	}
	if datasetYearRe.MatchString(line) {
		primary++
	}
	if camelCaseRe.MatchString(line) {
		primary++
	}
	if compoundWordRe.MatchString(line) {
		primary++
	}
	if capitalizedRe.MatchString(line) {
		primary++
	}

	metric := 0
	if lowerMetricRunRe.MatchString(line) {
		metric++
	}
	if upperMetricRunRe.MatchString(line) {
		metric++
	}

	hasDataset := datasetNumberRe.MatchString(line)

	repetitive := false
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		repetitive = float64(len(unique))/float64(len(words)) < 0.6
	}

	isPrimary := (primary >= 1 || hasDataset) && !repetitive &&
		(metric <= primary || metric <= 2)

	isTraditional := (primary+metric >= 2 && !repetitive) ||
		strings.Contains(lower, "parameters (m)") ||
		strings.Contains(lower, "flops") ||
		strings.Contains(lower, "fps") ||
		strings.Contains(lower, "throughput")

	return isPrimary || isTraditional
}
