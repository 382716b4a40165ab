// Package structure infers how to split table lines into columns.
//
// Given the accumulated lines of one table candidate, Infer proposes several
// candidate splitting strategies, scores each, and selects the best. The
// chosen Structure is then applied uniformly to every line in the candidate
// via Split; it is never re-inferred per row.
//
// Five strategies are computed independently: citation-plus-numbers rows
// common in academic comparison tables, multi-space separators, positional
// whitespace corridors, literal tabs, and recurring content patterns. When
// no strategy applies, a word-based fallback estimates a column count from
// word density and always succeeds.
//
// Ties between equally scored strategies resolve by a fixed priority order:
// citation-numerical, multi-space, positional, tab, pattern, word-based.
// Inference is fully deterministic for identical input.
package structure
