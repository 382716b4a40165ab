// Package export serializes reconstructed tables for downstream tooling.
// Tables can be written as a JSON array, JSON Lines or CSV/TSV records;
// every record carries a deterministic id derived from the table's page and
// document-wide index.
package export
