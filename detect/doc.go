// Package detect implements the table candidate detectors. Each detector
// inspects a single page and proposes zero or more table candidates from a
// different signal: fragment coordinates, visual alignment of text lines,
// drawn ruling lines, or the prose structure of academic papers. Candidates
// carry raw rows and a preliminary confidence; the consolidate package
// validates, scores and deduplicates them afterwards.
package detect
