package consolidate

import (
	"sort"

	"github.com/tsawler/trellis/model"
)

// Dedupe removes candidates whose region on the page substantially repeats
// a stronger candidate's. Candidates are ordered by confidence descending
// (ties broken by page, region, then kind, so ordering is deterministic)
// and each is kept unless its bounding box overlaps an already-kept
// same-page candidate by more than half the smaller box's area. Candidates
// without geometry never overlap anything.
func Dedupe(cands []model.Candidate) []model.Candidate {
	if len(cands) <= 1 {
		return cands
	}

	sorted := make([]model.Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Kind < b.Kind
	})

	kept := make([]model.Candidate, 0, len(sorted))
	for _, c := range sorted {
		duplicate := false
		for _, k := range kept {
			if k.Page != c.Page {
				continue
			}
			if c.BBox.OverlapRatio(k.BBox) > 0.5 {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}
