// Package classify provides line-level heuristics for table reconstruction.
//
// The classifiers here answer small questions about a single line of text:
// does it look like a table row, does it continue the table content that
// came before it, is it a table title or a header row. No single pattern is
// authoritative; each answer combines several independent signals (numeric
// density, citation markers, abbreviation runs, word-repetition ratio,
// multi-space segmentation) and requires agreement between them.
//
// All classifiers are pure functions over strings. They carry no state and
// are safe for concurrent use.
package classify
