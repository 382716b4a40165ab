// Package model provides the data types shared by the table reconstruction
// pipeline.
//
// This package defines the input snapshot consumed by detectors and the
// candidate/table values they produce. All detection, consolidation, and
// rendering operations work in terms of these types, making them the primary
// API for feeding and consuming the engine.
//
// # Input
//
// A [Page] is an immutable snapshot of one page or paragraph block:
//
//	page := model.Page{
//		Number:    1,
//		Fragments: frags,   // positioned text runs
//		Rulings:   rules,   // drawn line primitives
//		Text:      text,    // plain text fallback
//	}
//
// Fragments carry optional geometry as a [BBox]; a zero box means "no
// position known". [Ruling] values describe drawn line segments and feed the
// ruled-line detector only.
//
// # Output
//
// Detectors emit [Candidate] values: an unvalidated hypothesis that a set of
// rows forms a table. Validation and confidence scoring turn surviving
// candidates into [Table] values with rectangular rows and a designated
// header.
//
// # Geometry
//
// Geometric primitives support position and layout calculations:
//
//   - [BBox] - bounding box with intersection, union, and overlap calculations
//   - [Point] - 2D point with distance calculation
//
// Boxes use PDF-style coordinates: X grows right, Y grows up, (X, Y) is the
// bottom-left corner.
package model
