package model

import "strings"

// Page is the immutable per-page (or per-paragraph) snapshot the engine
// consumes. Geometry-driven detectors read Fragments and Rulings; the
// plain-text detector reads Text. All fields are optional: a page built from
// bare paragraph text carries Text only.
type Page struct {
	Number    int     // 1-indexed page number
	Width     float64 // Page width in points, 0 if unknown
	Height    float64 // Page height in points, 0 if unknown
	Fragments []TextFragment
	Rulings   []Ruling
	Text      string
}

// NewTextPage wraps plain paragraph text as a page snapshot with no geometry.
func NewTextPage(text string) Page {
	return Page{Number: 1, Text: text}
}

// PlainText returns the page's text content: the Text field when set,
// otherwise the fragments joined in slice order.
func (p Page) PlainText() string {
	if p.Text != "" {
		return p.Text
	}
	parts := make([]string, 0, len(p.Fragments))
	for _, f := range p.Fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// HasGeometry reports whether any fragment on the page carries a position.
func (p Page) HasGeometry() bool {
	for _, f := range p.Fragments {
		if f.HasGeometry() {
			return true
		}
	}
	return false
}

// FragmentsInRegion returns the fragments whose boxes intersect the region.
func (p Page) FragmentsInRegion(region BBox) []TextFragment {
	var out []TextFragment
	for _, f := range p.Fragments {
		if f.HasGeometry() && region.Intersects(f.BBox) {
			out = append(out, f)
		}
	}
	return out
}
