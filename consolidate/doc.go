// Package consolidate turns raw detection output into validated tables.
// It merges related text sections that belong to one table, rejects
// candidates that do not hold up as tables, scores the survivors, removes
// spatial duplicates, and normalizes rows into rectangular form.
//
// All functions are pure: candidates are never mutated in place, and
// identical input always produces identical output.
package consolidate
