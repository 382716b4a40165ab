package consolidate

import (
	"regexp"
	"strings"
)

// Section is a titled run of text lines hypothesized to hold one table.
// Multi-part tables often arrive as several sections (title, header block,
// continuation rows); MergeSections folds those back together.
type Section struct {
	Title       string   // full title line as it appeared
	Number      string   // table designator, e.g. "2" or "IV"
	Description string   // text after the designator
	Lines       []string // non-blank content lines
	Start       int      // index of the title line in the source text
}

// numberedTitleRe recognizes an explicit fresh table title. Sections whose
// title lacks one are treated as continuations of the previous section.
var numberedTitleRe = regexp.MustCompile(`(?i)\btable\s+\d+`)

// numericTokenRe counts numeric tokens when comparing section structure.
var numericTokenRe = regexp.MustCompile(`\d+\.?\d*`)

// methodNameRe matches a leading method-name-like token.
var methodNameRe = regexp.MustCompile(`^[A-Za-z][\w\-]+`)

// headerVocabRes spot header vocabulary; a continuation row has none.
var headerVocabRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)method|approach`),
	regexp.MustCompile(`(?i)model|dat`),
	regexp.MustCompile(`(?i)param|flop`),
}

// MergeSections folds sections that belong to the same table into their
// predecessor. A section merges backward when its title carries no fresh
// table number, when its first lines structurally resemble the predecessor's
// (word counts within 3 and numeric counts within 2), or when its first line
// reads like a data row rather than a header. Merging appends content lines
// and adopts the description if the predecessor has none.
func MergeSections(sections []Section) []Section {
	if len(sections) <= 1 {
		return sections
	}

	merged := make([]Section, 0, len(sections))
	merged = append(merged, cloneSection(sections[0]))

	for _, next := range sections[1:] {
		cur := &merged[len(merged)-1]
		if shouldMerge(*cur, next) {
			cur.Lines = append(cur.Lines, next.Lines...)
			if cur.Description == "" {
				cur.Description = next.Description
			}
		} else {
			merged = append(merged, cloneSection(next))
		}
	}
	return merged
}

func cloneSection(s Section) Section {
	c := s
	c.Lines = append([]string(nil), s.Lines...)
	return c
}

func shouldMerge(cur, next Section) bool {
	if !numberedTitleRe.MatchString(next.Title) {
		return true
	}
	if similarStructure(cur, next) {
		return true
	}
	return likelyContinuation(next)
}

// similarStructure compares the first three lines of each section pairwise.
// Any pair whose word counts differ by at most 3 and whose numeric-token
// counts differ by at most 2 marks the sections as structurally similar.
func similarStructure(cur, next Section) bool {
	n := len(cur.Lines)
	if len(next.Lines) < n {
		n = len(next.Lines)
	}
	if n > 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		a, b := cur.Lines[i], next.Lines[i]
		wordDiff := len(strings.Fields(a)) - len(strings.Fields(b))
		if wordDiff < 0 {
			wordDiff = -wordDiff
		}
		numDiff := len(numericTokenRe.FindAllString(a, -1)) - len(numericTokenRe.FindAllString(b, -1))
		if numDiff < 0 {
			numDiff = -numDiff
		}
		if wordDiff <= 3 && numDiff <= 2 {
			return true
		}
	}
	return false
}

// likelyContinuation reports whether the section's first line reads like a
// data row: it starts with a method-name-like token or carries at least
// three numeric tokens, and shows no header vocabulary.
func likelyContinuation(next Section) bool {
	if len(next.Lines) == 0 {
		return false
	}
	first := strings.TrimSpace(next.Lines[0])

	dataLike := methodNameRe.MatchString(first) ||
		len(numericTokenRe.FindAllString(first, -1)) >= 3
	if !dataLike {
		return false
	}

	for _, re := range headerVocabRes {
		if re.MatchString(first) {
			return false
		}
	}
	return true
}
