package classify

import (
	"regexp"
	"strings"
)

// Pattern library shared by the classifiers. Each expression captures one
// independent signal; classifiers count matches rather than trusting any
// single pattern.
var (
	// numberRe matches numeric tokens (integers and decimals).
	numberRe = regexp.MustCompile(`\d+\.?\d*`)

	// numberPercentRe matches numeric tokens with an optional percent sign.
	numberPercentRe = regexp.MustCompile(`\d+\.?\d*%?`)

	// citationRe matches bracketed citation markers and parenthesized years.
	citationRe = regexp.MustCompile(`\[.*?\]|\(\d{4}\)`)

	// authorCitationRe matches textual citations ("et al.") and year parens.
	authorCitationRe = regexp.MustCompile(`\bet al\.|\(\d{4}\)`)

	// abbrevRe matches multi-letter uppercase abbreviations (DSC, ACC, BERT).
	abbrevRe = regexp.MustCompile(`\b[A-Z]{2,}\b`)

	// shortAbbrevRe matches short uppercase acronyms typical of metric labels.
	shortAbbrevRe = regexp.MustCompile(`\b[A-Z]{2,4}\b`)

	// structuredRe matches structured data: numbers or parenthesized values
	// containing digits.
	structuredRe = regexp.MustCompile(`\d+\.?\d*%?|\([^)]*\d+[^)]*\)`)

	// hyphenatedRe matches hyphenated technical terms (U-Net, state-of-the-art).
	hyphenatedRe = regexp.MustCompile(`\b[A-Za-z]+-[A-Za-z]+\b`)

	// metricRunRe matches runs of short lowercase words, the shape of metric
	// label rows once lowercased.
	metricRunRe = regexp.MustCompile(`\b[a-z]{2,6}\b(?:\s+[a-z]{2,6}\b){1,4}`)

	// suffixRe matches words with performance-related suffixes (accuracy,
	// robustness, precision).
	suffixRe = regexp.MustCompile(`\b\w+(?:ness|ity|ance|ence|acy|ion)\b`)

	// varNumberRe matches variables with trailing digits (F1, R2, ResNet50).
	varNumberRe = regexp.MustCompile(`\b[a-z]\d+\b|\b\w+[-_]?\d+\b`)

	// segmentRe splits a line on runs of two or more spaces.
	segmentRe = regexp.MustCompile(`\s{2,}`)

	// numericValueRes match cleaned tokens that are purely numeric: integers,
	// decimals, percentages, and scientific notation.
	numericValueRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\d+\.\d+$`),
		regexp.MustCompile(`^\d+\.\d+%$`),
		regexp.MustCompile(`^\d+[eE][+-]?\d+$`),
		regexp.MustCompile(`^\d+\.\d+[eE][+-]?\d+$`),
	}
)

// NumericTokens returns all numeric tokens (integers and decimals) in s.
func NumericTokens(s string) []string {
	return numberRe.FindAllString(s, -1)
}

// IsNumericValue reports whether a single token is numeric after stripping
// surrounding brackets, parentheses, percent signs, and commas. It accepts
// integers, decimals, percentages, and scientific notation.
func IsNumericValue(word string) bool {
	clean := strings.Trim(word, "[]()%,")
	if clean == "" {
		return false
	}
	for _, re := range numericValueRes {
		if re.MatchString(clean) {
			return true
		}
	}
	return false
}

// WordUniqueness returns the ratio of unique words to total words in s.
// An empty line has uniqueness 1.0. Low uniqueness indicates repeated
// labels, the shape of metric header rows like "DSC SE SP ACC DSC SE".
func WordUniqueness(s string) float64 {
	words := strings.Fields(s)
	if len(words) == 0 {
		return 1.0
	}
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// Segments splits a line on tabs or runs of two or more spaces and returns
// the non-empty trimmed segments.
func Segments(line string) []string {
	var parts []string
	if strings.Contains(line, "\t") {
		parts = strings.Split(line, "\t")
	} else {
		parts = segmentRe.Split(line, -1)
	}
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}

// TableLike reports whether a line looks like a table row. It counts six
// independent signals: multiple numeric tokens, citation markers, uppercase
// abbreviations, low word uniqueness, reasonable word count, and multi-space
// or tab segmentation. Two or more signals classify the line as table-like
// on its own; a single signal is accepted only when the line closely matches
// the profile of the context lines (previously accumulated table rows).
func TableLike(line string, context []string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 5 {
		return false
	}

	wordCount := len(strings.Fields(trimmed))

	signals := 0
	if len(NumericTokens(trimmed)) >= 2 {
		signals++
	}
	if citationRe.MatchString(trimmed) {
		signals++
	}
	if abbrevRe.MatchString(trimmed) {
		signals++
	}
	if WordUniqueness(trimmed) < 0.7 {
		signals++
	}
	if wordCount >= 3 && wordCount <= 20 {
		signals++
	}
	if len(Segments(trimmed)) >= 2 {
		signals++
	}

	if signals >= 2 {
		return true
	}
	if signals >= 1 && len(context) > 0 {
		return matchesContext(trimmed, context)
	}
	return false
}

// TableContent reports whether a line continues the table content in
// section. The first line of a section is accepted permissively (at least
// two words). Later lines are accepted when they carry two or more academic
// content indicators, when their word count stays within six words of the
// section average, or when they share a recurring pattern (numbers, parens,
// citations, abbreviations) with an existing section line.
func TableContent(line string, section []string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	wordCount := len(strings.Fields(trimmed))
	if len(section) == 0 {
		return wordCount >= 2
	}

	lower := strings.ToLower(trimmed)
	indicators := 0
	if numberPercentRe.MatchString(trimmed) {
		indicators++
	}
	if abbrevRe.MatchString(trimmed) {
		indicators++
	}
	if authorCitationRe.MatchString(trimmed) {
		indicators++
	}
	if structuredRe.MatchString(trimmed) {
		indicators++
	}
	if WordUniqueness(trimmed) < 0.7 {
		indicators++
	}
	if shortAbbrevRe.MatchString(trimmed) {
		indicators++
	}
	if hyphenatedRe.MatchString(trimmed) {
		indicators++
	}
	if metricRunRe.MatchString(lower) {
		indicators++
	}
	if suffixRe.MatchString(lower) {
		indicators++
	}
	if varNumberRe.MatchString(lower) {
		indicators++
	}

	if indicators >= 2 {
		return true
	}

	return matchesContext(trimmed, section)
}

// matchesContext reports whether a line fits the profile of previously
// accumulated lines, either by word-count proximity or by sharing a
// recurring content pattern with at least one of them.
func matchesContext(line string, context []string) bool {
	total := 0
	for _, l := range context {
		total += len(strings.Fields(l))
	}
	avg := float64(total) / float64(len(context))
	diff := float64(len(strings.Fields(line))) - avg
	if diff < 0 {
		diff = -diff
	}
	if diff <= 6 {
		return true
	}
	return sharesPattern(line, context)
}

// sharesPattern reports whether line and at least one context line both
// match one of the recurring content patterns.
func sharesPattern(line string, context []string) bool {
	checks := []struct {
		lineHas bool
		re      *regexp.Regexp
	}{
		{numberPercentRe.MatchString(line), numberPercentRe},
		{strings.Contains(line, "(") && strings.Contains(line, ")"), nil},
		{authorCitationRe.MatchString(line), authorCitationRe},
		{structuredRe.MatchString(line), structuredRe},
		{abbrevRe.MatchString(line), abbrevRe},
	}

	for _, check := range checks {
		if !check.lineHas {
			continue
		}
		for _, l := range context {
			if check.re == nil {
				if strings.Contains(l, "(") {
					return true
				}
			} else if check.re.MatchString(l) {
				return true
			}
		}
	}
	return false
}
