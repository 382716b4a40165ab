package structure

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// splitPatternRes are the regexes used when cutting a line at pattern
// boundaries. The author and percentage shapes are looser than their
// detection counterparts so a cut still lands when the line's wording
// varies slightly.
var splitPatternRes = map[string]*regexp.Regexp{
	"author_reference":    regexp.MustCompile(`(?i)[A-Za-z][^,\d]*?\bet al\.?[^,]*`),
	"year_parentheses":    regexp.MustCompile(`(?i)\([^)]*\d{4}[^)]*\)`),
	"dataset_parentheses": regexp.MustCompile(`(?i)\([^)]*(?:dataset|data|corpus|benchmark)[^)]*\)`),
	"percentage":          regexp.MustCompile(`(?i)\d+\.?\d*\s*%`),
	"numbers_with_units":  regexp.MustCompile(`(?i)\d+\.?\d*[MKBGTmkμnpf]?[BWHzsFLVA]?\b`),
	"scientific_notation": regexp.MustCompile(`(?i)\d+\.?\d*[eE][+-]?\d+`),
	"technical_terms":     regexp.MustCompile(`(?i)\b[A-Z][a-zA-Z]*(?:[A-Z][a-zA-Z]*){1,3}\b`),
	"acronyms":            regexp.MustCompile(`(?i)\b[A-Z]{2,6}\b(?:-\d+)?`),
	"versioned_terms":     regexp.MustCompile(`(?i)\b[A-Za-z]+[-_]?\d+(?:\.\d+)*\b`),
	"hyphenated_terms":    regexp.MustCompile(`(?i)\b[A-Za-z]+(?:-[A-Za-z]+){1,3}\b`),
}

// wordBoundaryRes detect semantic transitions between adjacent words for
// word-based splitting.
var (
	numericWordRe = regexp.MustCompile(`^\d+\.?\d*%?$`)
	letterStartRe = regexp.MustCompile(`^[A-Za-z]`)
	yearParenRe   = regexp.MustCompile(`\(\d{4}\)`)
	termWordRe    = regexp.MustCompile(`(?i)^(?:[A-Z]{2,6}(?:-\d+)?|[A-Z][a-zA-Z]*(?:[A-Z][a-zA-Z]*){1,3}|[A-Za-z]+[-_]?\d+(?:\.\d+)*)`)
)

// Split cuts a line into cells using this structure. Blank lines return
// nil. The behavior per kind: MultiSpace and Positional cut at boundary
// positions and drop empty cells; Tab splits on literal tabs; Pattern cuts
// at recurring pattern matches; AcademicCitationNumerical cuts after the
// citation-end token and chunks the numeric tail; WordBased always returns
// exactly ColumnCount cells.
func (s Structure) Split(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	switch s.Kind {
	case KindAcademicCitationNumerical:
		return s.splitCitation(line)
	case KindMultiSpace, KindPositional:
		return splitAtPositions(line, s.Positions)
	case KindTab:
		return splitTabs(line)
	case KindPattern:
		return s.splitPatterns(line)
	default:
		return splitWordGroups(line, s.ColumnCount)
	}
}

// splitCitation cuts after the first word ending in "]", joining everything
// up to and including it as the method cell, then chunks the remaining
// words into groups of GroupSize. Lines without a citation fall back to
// word-based splitting.
func (s Structure) splitCitation(line string) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	end := -1
	for i, word := range words {
		if strings.HasSuffix(word, "]") && i < len(words)-1 {
			end = i
			break
		}
	}
	if end < 0 {
		count := s.ColumnCount
		if count <= 0 {
			count = 4
		}
		return splitWordGroups(line, count)
	}

	size := s.GroupSize
	if size <= 0 {
		size = 4
	}

	columns := []string{strings.Join(words[:end+1], " ")}
	tail := words[end+1:]
	for i := 0; i < len(tail); i += size {
		j := i + size
		if j > len(tail) {
			j = len(tail)
		}
		columns = append(columns, strings.Join(tail[i:j], " "))
	}
	return columns
}

// splitAtPositions cuts the line at each boundary position, trimming each
// cell and skipping whitespace after every cut. Empty cells are dropped.
// Cut positions landing inside a multi-byte rune move forward to the next
// rune start.
func splitAtPositions(line string, positions []int) []string {
	trimmed := strings.TrimSpace(line)
	if len(positions) == 0 {
		return []string{trimmed}
	}

	sorted := append([]int(nil), positions...)
	sort.Ints(sorted)

	var columns []string
	start := 0
	for _, pos := range sorted {
		for pos < len(line) && !utf8.RuneStart(line[pos]) {
			pos++
		}
		if pos >= len(line) {
			continue
		}
		if pos > start {
			if cell := strings.TrimSpace(line[start:pos]); cell != "" {
				columns = append(columns, cell)
			}
		}
		start = pos
		for start < len(line) && (line[start] == ' ' || line[start] == '\t') {
			start++
		}
	}
	if start < len(line) {
		if cell := strings.TrimSpace(line[start:]); cell != "" {
			columns = append(columns, cell)
		}
	}

	if len(columns) == 0 {
		return []string{trimmed}
	}
	return columns
}

// splitTabs splits on literal tabs and drops empty cells.
func splitTabs(line string) []string {
	parts := strings.Split(line, "\t")
	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		if cell := strings.TrimSpace(part); cell != "" {
			columns = append(columns, cell)
		}
	}
	return columns
}

// splitPatterns cuts the line at each surviving pattern's first match, in
// pattern order. Content before a match becomes its own cell, the match
// becomes a cell, and the remainder after the last match becomes the final
// cell. When nothing matches, it falls back to tab, multi-space, or word
// splitting.
func (s Structure) splitPatterns(line string) []string {
	remaining := strings.TrimSpace(line)
	if len(s.Patterns) == 0 {
		return []string{remaining}
	}

	var columns []string
	lastEnd := 0
	for _, name := range s.Patterns {
		re := splitPatternRes[name]
		if re == nil || lastEnd >= len(remaining) {
			continue
		}
		loc := re.FindStringIndex(remaining[lastEnd:])
		if loc == nil {
			continue
		}
		matchStart := lastEnd + loc[0]
		matchEnd := lastEnd + loc[1]

		if matchStart > lastEnd {
			if pre := strings.TrimSpace(remaining[lastEnd:matchStart]); pre != "" {
				columns = append(columns, pre)
			}
		}
		if cell := strings.TrimSpace(remaining[matchStart:matchEnd]); cell != "" {
			columns = append(columns, cell)
		}
		lastEnd = matchEnd
	}
	if lastEnd < len(remaining) {
		if tail := strings.TrimSpace(remaining[lastEnd:]); tail != "" {
			columns = append(columns, tail)
		}
	}

	if len(columns) > 0 {
		return columns
	}

	// Nothing matched; fall back to simpler separators.
	if strings.Contains(line, "\t") {
		return splitTabs(line)
	}
	if strings.Contains(line, "  ") {
		parts := multiSpaceRe.Split(line, -1)
		columns = columns[:0]
		for _, part := range parts {
			if cell := strings.TrimSpace(part); cell != "" {
				columns = append(columns, cell)
			}
		}
		return columns
	}
	words := strings.Fields(line)
	if len(words) <= 4 {
		return words
	}
	mid := len(words) / 2
	return []string{strings.Join(words[:mid], " "), strings.Join(words[mid:], " ")}
}

// splitWordGroups splits a line into exactly target cells. Lines with no
// more words than target are padded with empty strings. Longer lines are
// cut at semantic boundaries (number-to-text transitions, citation ends,
// year parentheses, technical-term type changes), topped up with evenly
// spaced cuts when too few boundaries are found, or distributed evenly
// when there are none.
func splitWordGroups(line string, target int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	if target < 1 {
		target = 1
	}

	if len(words) <= target {
		columns := append([]string(nil), words...)
		for len(columns) < target {
			columns = append(columns, "")
		}
		return columns
	}

	var boundaries []int
	for i := 0; i < len(words)-1; i++ {
		word, next := words[i], words[i+1]
		switch {
		case numericWordRe.MatchString(word) && letterStartRe.MatchString(next):
			boundaries = append(boundaries, i+1)
		case strings.Contains(word, "et al.") && !strings.Contains(next, "et al."):
			boundaries = append(boundaries, i+1)
		case yearParenRe.MatchString(word) && !yearParenRe.MatchString(next):
			boundaries = append(boundaries, i+1)
		case termWordRe.MatchString(word) && !termWordRe.MatchString(next):
			boundaries = append(boundaries, i+1)
		}
	}

	var columns []string
	if len(boundaries) > 0 {
		var selected []int
		if len(boundaries) >= target-1 {
			selected = append(selected, boundaries[:target-1]...)
		} else {
			selected = append(selected, boundaries...)
			remainingCuts := target - len(boundaries) - 1
			if remainingCuts > 0 {
				wordsPerCut := len(words) / (remainingCuts + 1)
				for i := 0; i < remainingCuts; i++ {
					pos := (i + 1) * wordsPerCut
					if pos < len(words) && !containsInt(selected, pos) {
						selected = append(selected, pos)
					}
				}
			}
		}
		sort.Ints(selected)

		start := 0
		for _, boundary := range selected {
			if start < len(words) {
				columns = append(columns, strings.Join(words[start:boundary], " "))
				start = boundary
			}
		}
		if start < len(words) {
			columns = append(columns, strings.Join(words[start:], " "))
		}
	} else {
		perColumn := len(words) / target
		remainder := len(words) % target

		start := 0
		for i := 0; i < target; i++ {
			size := perColumn
			if i < remainder {
				size++
			}
			end := start + size
			if start < len(words) {
				if end > len(words) {
					end = len(words)
				}
				columns = append(columns, strings.Join(words[start:end], " "))
				start = end
			} else {
				columns = append(columns, "")
			}
		}
	}

	for len(columns) < target {
		columns = append(columns, "")
	}
	return columns[:target]
}

func containsInt(values []int, n int) bool {
	for _, v := range values {
		if v == n {
			return true
		}
	}
	return false
}
