package structure

import (
	"strings"
)

// Kind identifies the splitting strategy a Structure applies.
type Kind int

const (
	// KindWordBased splits on word boundaries into a target column count.
	// It is the fallback strategy and always succeeds.
	KindWordBased Kind = iota

	// KindAcademicCitationNumerical splits rows of the form
	// "method [citation] n1 n2 n3 n4" at the citation end, chunking the
	// numeric tail into fixed-size groups.
	KindAcademicCitationNumerical

	// KindMultiSpace splits at separator positions derived from runs of
	// two or more spaces.
	KindMultiSpace

	// KindPositional splits at whitespace corridors found by per-character
	// density analysis.
	KindPositional

	// KindTab splits on literal tab characters.
	KindTab

	// KindPattern splits at the boundaries of recurring content patterns.
	KindPattern
)

// String returns the strategy name.
func (k Kind) String() string {
	switch k {
	case KindAcademicCitationNumerical:
		return "academic_citation_numerical"
	case KindMultiSpace:
		return "multi_space"
	case KindPositional:
		return "positional"
	case KindTab:
		return "tab"
	case KindPattern:
		return "pattern"
	default:
		return "word_based"
	}
}

// Structure describes how to split a line of text into cells. A Structure is
// selected once per candidate by Infer and reused for every line; only the
// fields relevant to its Kind are populated.
type Structure struct {
	Kind Kind

	// Positions are character cut offsets (MultiSpace, Positional).
	Positions []int

	// Patterns are pattern names ordered by average match position (Pattern).
	Patterns []string

	// CitationEnds are the citation-end word indices observed per qualifying
	// line (AcademicCitationNumerical).
	CitationEnds []int

	// GroupSize is the numeric group width (AcademicCitationNumerical).
	GroupSize int

	// ColumnCount is the expected number of columns.
	ColumnCount int
}

// scoredStructure pairs a strategy result with its score for selection.
type scoredStructure struct {
	score     int
	structure Structure
}

// Infer selects the best column structure for a set of table lines. Empty
// and very short lines are ignored. Each applicable strategy is scored and
// the highest score wins; the strategies are evaluated in priority order so
// score ties resolve to the higher-priority strategy. When no strategy
// applies, Infer falls back to word-based splitting with an estimated
// column count. Infer never fails.
func Infer(lines []string) Structure {
	clean := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > 5 {
			clean = append(clean, line)
		}
	}

	if len(clean) < 2 {
		return Structure{Kind: KindWordBased, ColumnCount: estimateColumns(clean)}
	}

	var candidates []scoredStructure

	// Citation rows only: header lines rarely carry citations, so the
	// citation strategy sees just the lines containing "]".
	var citationRows []string
	for _, line := range clean {
		if strings.Contains(line, "]") {
			citationRows = append(citationRows, line)
		}
	}
	if len(citationRows) > 0 {
		if s, ok := findAcademic(citationRows); ok {
			candidates = append(candidates, scoredStructure{score: 10, structure: s})
		}
	}

	if s, ok := findMultiSpace(clean); ok {
		score := 2 * len(s.Positions)
		if s.ColumnCount >= 2 && s.ColumnCount <= 15 {
			score += 5
		}
		candidates = append(candidates, scoredStructure{score: score, structure: s})
	}

	if s, ok := findPositional(clean); ok {
		score := len(s.Positions)
		if s.ColumnCount >= 2 && s.ColumnCount <= 15 {
			score += 3
		}
		candidates = append(candidates, scoredStructure{score: score, structure: s})
	}

	if s, ok := findTab(clean); ok {
		score := 4
		if s.ColumnCount >= 2 && s.ColumnCount <= 15 {
			score += 2
		}
		candidates = append(candidates, scoredStructure{score: score, structure: s})
	}

	if s, ok := findPattern(clean); ok {
		score := len(s.Patterns)
		if s.ColumnCount >= 2 && s.ColumnCount <= 15 {
			score += 1
		}
		candidates = append(candidates, scoredStructure{score: score, structure: s})
	}

	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.score > best.score {
				best = c
			}
		}
		return best.structure
	}

	return Structure{Kind: KindWordBased, ColumnCount: estimateColumns(clean)}
}

// estimateColumns estimates a reasonable column count from the average word
// count per line: up to 4 words suggests 2 columns, up to 8 suggests 3, up
// to 12 suggests 4, more suggests one column per 3 words capped at 5.
func estimateColumns(lines []string) int {
	if len(lines) == 0 {
		return 2
	}

	total := 0
	for _, line := range lines {
		total += len(strings.Fields(line))
	}
	avg := float64(total) / float64(len(lines))

	switch {
	case avg <= 4:
		return 2
	case avg <= 8:
		return 3
	case avg <= 12:
		return 4
	default:
		cols := int(avg / 3)
		if cols > 5 {
			cols = 5
		}
		return cols
	}
}
