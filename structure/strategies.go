package structure

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/trellis/classify"
)

const (
	// positionTolerance groups nearby separator positions across lines.
	positionTolerance = 4

	// minSeparatorGap is the minimum character distance between two column
	// separators.
	minSeparatorGap = 8

	// maxPatternDrift bounds how far a content pattern's match position may
	// wander across lines before the pattern is considered inconsistent.
	maxPatternDrift = 20
)

// multiSpaceRe matches runs of two or more whitespace characters.
var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// contentPattern pairs a content-shape regex with its name. The order of
// contentPatterns is fixed; it determines evaluation order and the stable
// tie-break when two patterns share an average position.
type contentPattern struct {
	name string
	re   *regexp.Regexp
}

var contentPatterns = []contentPattern{
	{"author_reference", regexp.MustCompile(`(?i)^[A-Za-z][^0-9]*?\bet al\.`)},
	{"year_parentheses", regexp.MustCompile(`(?i)\([^)]*\d{4}[^)]*\)`)},
	{"dataset_parentheses", regexp.MustCompile(`(?i)\([^)]*(?:dataset|data|corpus|benchmark)[^)]*\)`)},
	{"percentage", regexp.MustCompile(`(?i)\d+\.?\d*%`)},
	{"numbers_with_units", regexp.MustCompile(`(?i)\d+\.?\d*[MKBGTmkμnpf]?[BWHzsFLVA]?\b`)},
	{"scientific_notation", regexp.MustCompile(`(?i)\d+\.?\d*[eE][+-]?\d+`)},
	{"technical_terms", regexp.MustCompile(`(?i)\b[A-Z][a-zA-Z]*(?:[A-Z][a-zA-Z]*){1,3}\b`)},
	{"acronyms", regexp.MustCompile(`(?i)\b[A-Z]{2,6}\b(?:-\d+)?`)},
	{"versioned_terms", regexp.MustCompile(`(?i)\b[A-Za-z]+[-_]?\d+(?:\.\d+)*\b`)},
	{"hyphenated_terms", regexp.MustCompile(`(?i)\b[A-Za-z]+(?:-[A-Za-z]+){1,3}\b`)},
}

// findAcademic detects the recurring citation-plus-numbers row shape:
// a method name ending in a "]" citation marker followed by a mostly
// numeric tail of at least 4 tokens. The citation-end word index must be
// consistent (within one word) across at least 70% of qualifying lines.
// The numeric tail is chunked into groups sized by the smallest even
// divisor among 4, 3, 5.
func findAcademic(lines []string) (Structure, bool) {
	var citationEnds []int
	var groupSizes []int
	var groupCounts []int

	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) < 5 {
			continue
		}

		end := -1
		for i, word := range words {
			if !strings.HasSuffix(word, "]") || i >= len(words)-4 {
				continue
			}
			tail := words[i+1:]
			numeric := 0
			for _, w := range tail {
				if classify.IsNumericValue(w) {
					numeric++
				}
			}
			if float64(numeric) >= float64(len(tail))*0.8 {
				end = i
				break
			}
		}
		if end < 0 {
			continue
		}

		citationEnds = append(citationEnds, end)
		tailLen := len(words) - end - 1
		size := numericGroupSize(tailLen)
		groupSizes = append(groupSizes, size)
		groupCounts = append(groupCounts, tailLen/size)
	}

	if len(citationEnds) < 2 {
		return Structure{}, false
	}

	sum := 0
	for _, e := range citationEnds {
		sum += e
	}
	avg := float64(sum) / float64(len(citationEnds))

	consistent := 0
	for _, e := range citationEnds {
		if math.Abs(float64(e)-avg) <= 1 {
			consistent++
		}
	}
	if float64(consistent) < float64(len(citationEnds))*0.7 {
		return Structure{}, false
	}

	return Structure{
		Kind:         KindAcademicCitationNumerical,
		CitationEnds: citationEnds,
		GroupSize:    mostCommonInt(groupSizes),
		ColumnCount:  mostCommonInt(groupCounts) + 1,
	}, true
}

// numericGroupSize picks the group width for a numeric tail of n tokens,
// preferring even divisors 4, then 3, then 5, else n/3.
func numericGroupSize(n int) int {
	switch {
	case n%4 == 0:
		return 4
	case n%3 == 0:
		return 3
	case n%5 == 0:
		return 5
	default:
		size := n / 3
		if size < 1 {
			size = 1
		}
		return size
	}
}

// findMultiSpace locates column separators from runs of two or more spaces.
// The midpoint of each run is a separator candidate; candidates are
// clustered across lines with a small tolerance, clusters present in at
// least half the lines survive, and the cluster medians become separator
// positions subject to a minimum mutual distance.
func findMultiSpace(lines []string) (Structure, bool) {
	var all [][]int
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var positions []int
		for _, m := range multiSpaceRe.FindAllStringIndex(line, -1) {
			positions = append(positions, (m[0]+m[1])/2)
		}
		all = append(all, positions)
	}
	if len(all) == 0 {
		return Structure{}, false
	}

	var clusters [][]int
	for _, positions := range all {
		for _, pos := range positions {
			added := false
			for i, cluster := range clusters {
				for _, existing := range cluster {
					if abs(pos-existing) <= positionTolerance {
						clusters[i] = append(cluster, pos)
						added = true
						break
					}
				}
				if added {
					break
				}
			}
			if !added {
				clusters = append(clusters, []int{pos})
			}
		}
	}

	minFrequency := float64(len(lines)) * 0.5
	if minFrequency < 1 {
		minFrequency = 1
	}

	var separators []int
	for _, cluster := range clusters {
		if float64(len(cluster)) >= minFrequency {
			sort.Ints(cluster)
			separators = append(separators, cluster[len(cluster)/2])
		}
	}
	if len(separators) == 0 {
		return Structure{}, false
	}

	sort.Ints(separators)
	filtered := filterMinGap(separators, minSeparatorGap)

	return Structure{
		Kind:        KindMultiSpace,
		Positions:   filtered,
		ColumnCount: len(filtered) + 1,
	}, true
}

// findPositional locates column boundaries by per-character whitespace
// density. A position is a boundary candidate when at least 60% of lines
// have a space there, at most 30% have a character, and the surrounding
// 7-character window is predominantly whitespace. Adjacent candidates merge
// into regions whose centers become boundaries, subject to the minimum
// separator distance. The outer 5 characters on each side are ignored.
func findPositional(lines []string) (Structure, bool) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	if maxLen < 10 {
		return Structure{}, false
	}

	charDensity := make([]int, maxLen)
	spaceDensity := make([]int, maxLen)
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			if line[i] == ' ' {
				spaceDensity[i]++
			} else {
				charDensity[i]++
			}
		}
	}

	total := float64(len(lines))
	var candidates []int
	for i := 5; i < maxLen-5; i++ {
		spaceRatio := float64(spaceDensity[i]) / total
		charRatio := float64(charDensity[i]) / total
		if spaceRatio < 0.6 || charRatio > 0.3 {
			continue
		}
		window := 0
		for j := i - 3; j < i+4; j++ {
			window += spaceDensity[j]
		}
		if float64(window)/7 >= total*0.5 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return Structure{}, false
	}

	var regions [][]int
	current := []int{candidates[0]}
	for _, c := range candidates[1:] {
		if c-current[len(current)-1] <= 3 {
			current = append(current, c)
		} else {
			regions = append(regions, current)
			current = []int{c}
		}
	}
	regions = append(regions, current)

	positions := make([]int, 0, len(regions))
	for _, region := range regions {
		positions = append(positions, region[len(region)/2])
	}
	filtered := filterMinGap(positions, minSeparatorGap)
	if len(filtered) == 0 {
		return Structure{}, false
	}

	return Structure{
		Kind:        KindPositional,
		Positions:   filtered,
		ColumnCount: len(filtered) + 1,
	}, true
}

// findTab detects tab-separated columns. The most common tab count must be
// nonzero and shared by at least 70% of lines; ties between equally common
// counts resolve to the smaller count.
func findTab(lines []string) (Structure, bool) {
	counts := make(map[int]int)
	maxTabs := 0
	for _, line := range lines {
		n := strings.Count(line, "\t")
		counts[n]++
		if n > maxTabs {
			maxTabs = n
		}
	}
	if maxTabs == 0 {
		return Structure{}, false
	}

	best, bestFrequency := 0, 0
	for count, frequency := range counts {
		if frequency > bestFrequency || (frequency == bestFrequency && count < best) {
			best = count
			bestFrequency = frequency
		}
	}
	if best == 0 || float64(bestFrequency) < float64(len(lines))*0.7 {
		return Structure{}, false
	}

	return Structure{Kind: KindTab, ColumnCount: best + 1}, true
}

// findPattern detects columns from recurring content patterns. A pattern
// survives when it matches in at least half the lines (minimum 2) and its
// first-match position stays consistent across lines. Survivors are ordered
// by average match position to define column order.
func findPattern(lines []string) (Structure, bool) {
	positions := make(map[string][]int, len(contentPatterns))
	for _, line := range lines {
		for _, p := range contentPatterns {
			if loc := p.re.FindStringIndex(line); loc != nil {
				positions[p.name] = append(positions[p.name], loc[0])
			}
		}
	}

	minCount := float64(len(lines)) * 0.5
	if minCount < 2 {
		minCount = 2
	}

	type survivor struct {
		name string
		avg  float64
	}
	var survivors []survivor
	for _, p := range contentPatterns {
		matched := positions[p.name]
		if float64(len(matched)) < minCount {
			continue
		}
		lo, hi, sum := matched[0], matched[0], 0
		for _, pos := range matched {
			sum += pos
			if pos < lo {
				lo = pos
			}
			if pos > hi {
				hi = pos
			}
		}
		if hi-lo > maxPatternDrift {
			continue
		}
		survivors = append(survivors, survivor{
			name: p.name,
			avg:  float64(sum) / float64(len(matched)),
		})
	}
	if len(survivors) == 0 {
		return Structure{}, false
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].avg < survivors[j].avg
	})

	names := make([]string, len(survivors))
	for i, s := range survivors {
		names[i] = s.name
	}

	return Structure{
		Kind:        KindPattern,
		Patterns:    names,
		ColumnCount: len(names) + 1,
	}, true
}

// filterMinGap keeps positions at least minGap apart, scanning ascending
// and keeping the first position of each crowded run. Input must be sorted.
func filterMinGap(positions []int, minGap int) []int {
	if len(positions) == 0 {
		return nil
	}
	filtered := []int{positions[0]}
	for _, pos := range positions[1:] {
		if pos-filtered[len(filtered)-1] >= minGap {
			filtered = append(filtered, pos)
		}
	}
	return filtered
}

// mostCommonInt returns the most frequent value; ties resolve to the
// smaller value.
func mostCommonInt(values []int) int {
	counts := make(map[int]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best, bestFrequency := 0, 0
	for v, frequency := range counts {
		if frequency > bestFrequency || (frequency == bestFrequency && v < best) {
			best = v
			bestFrequency = frequency
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
