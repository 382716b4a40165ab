// Package ingest reads PDF files into positioned page models.
//
// Text is extracted as word-level fragments with page-space bounding
// boxes. Character runs from the PDF content stream are split apart and
// regrouped into words by baseline and horizontal gap, so downstream
// consumers see one fragment per visual word regardless of how the
// producing application chunked its text operators.
//
// Coordinates follow PDF conventions: the origin is the lower-left
// corner of the page and y grows upward.
package ingest
