package model

import (
	"math"
	"sort"
	"strings"
)

// TextFragment represents a positioned piece of text. A zero BBox means the
// fragment carries no geometry and only text-based detectors can use it.
type TextFragment struct {
	Text     string
	BBox     BBox
	FontSize float64
	FontName string
}

// HasGeometry reports whether the fragment carries a usable bounding box.
func (f TextFragment) HasGeometry() bool {
	return f.BBox.IsValid()
}

// Ruling represents a drawn line primitive on a page, such as a table border
// or separator stroke.
type Ruling struct {
	Start Point
	End   Point
	Width float64
}

// Length returns the Euclidean length of the ruling.
func (r Ruling) Length() float64 {
	return r.Start.Distance(r.End)
}

// IsHorizontal reports whether the ruling is horizontal within the given
// slope tolerance (absolute Y delta in page units).
func (r Ruling) IsHorizontal(tol float64) bool {
	return math.Abs(r.Start.Y-r.End.Y) <= tol
}

// IsVertical reports whether the ruling is vertical within the given slope
// tolerance (absolute X delta in page units).
func (r Ruling) IsVertical(tol float64) bool {
	return math.Abs(r.Start.X-r.End.X) <= tol
}

// BoundingBox returns the bounding box spanned by the ruling endpoints.
func (r Ruling) BoundingBox() BBox {
	return NewBBoxFromPoints(r.Start, r.End)
}

// Position returns the ruling's fixed coordinate: Y for horizontal rulings,
// X for vertical ones. Diagonal rulings report the midpoint Y.
func (r Ruling) Position(tol float64) float64 {
	if r.IsHorizontal(tol) {
		return (r.Start.Y + r.End.Y) / 2
	}
	if r.IsVertical(tol) {
		return (r.Start.X + r.End.X) / 2
	}
	return (r.Start.Y + r.End.Y) / 2
}

// Line is one visual row of text: an ordered run of fragments sharing a row,
// with their aggregate text and the union of their boxes. Plain-text input
// produces lines with text only.
type Line struct {
	Text      string
	BBox      BBox
	Fragments []TextFragment
}

// LineFromFragments builds a Line from fragments already known to share a
// visual row. Fragments are ordered left to right and joined with single
// spaces; the line box is the union of the fragment boxes.
func LineFromFragments(frags []TextFragment) Line {
	ordered := make([]TextFragment, len(frags))
	copy(ordered, frags)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BBox.Left() < ordered[j].BBox.Left()
	})

	parts := make([]string, 0, len(ordered))
	boxes := make([]BBox, 0, len(ordered))
	for _, f := range ordered {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
		boxes = append(boxes, f.BBox)
	}

	return Line{
		Text:      strings.Join(parts, " "),
		BBox:      UnionAll(boxes),
		Fragments: ordered,
	}
}
