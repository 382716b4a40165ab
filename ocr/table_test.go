package ocr

import (
	"strings"
	"testing"

	"github.com/tsawler/trellis/model"
)

// ============================================================================
// Text to table conversion
// ============================================================================

func TestCandidateFromText(t *testing.T) {
	text := "Method  Accuracy  Time\nUNet  0.89  12 ms\nResNet  0.91  15 ms"

	c, ok := CandidateFromText(text)
	if !ok {
		t.Fatal("Expected a candidate from aligned text")
	}
	if c.Kind != model.KindTextAlignment {
		t.Errorf("Expected text_alignment kind, got %s", c.Kind)
	}
	if len(c.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(c.Rows))
	}
	for i, row := range c.Rows {
		if len(row) != 3 {
			t.Errorf("Row %d: expected 3 cells, got %d", i, len(row))
		}
	}
	if c.Rows[1][0] != "UNet" || c.Rows[1][1] != "0.89" {
		t.Errorf("Unexpected second row: %v", c.Rows[1])
	}
	if c.Confidence <= 0.7 || c.Confidence > 1 {
		t.Errorf("Expected confidence in (0.7, 1], got %f", c.Confidence)
	}
}

func TestCandidateFromTextPipeSeparators(t *testing.T) {
	text := "| Col1 | Col2 |\n| v1 | v2 |"

	c, ok := CandidateFromText(text)
	if !ok {
		t.Fatal("Expected a candidate from pipe-separated text")
	}
	if len(c.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(c.Rows))
	}
	// Framing pipes leave empty edge cells behind.
	if len(c.Rows[0]) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(c.Rows[0]))
	}
	if c.Rows[0][1] != "Col1" || c.Rows[1][2] != "v2" {
		t.Errorf("Unexpected rows: %v", c.Rows)
	}
}

func TestCandidateFromTextTabs(t *testing.T) {
	c, ok := CandidateFromText("x\ty\nz\tw")
	if !ok {
		t.Fatal("Expected a candidate from tab-separated text")
	}
	if c.Rows[0][0] != "x" || c.Rows[1][1] != "w" {
		t.Errorf("Unexpected rows: %v", c.Rows)
	}
}

func TestCandidateFromTextPadsRagged(t *testing.T) {
	text := "alpha  beta  gamma\nd1  d2"

	c, ok := CandidateFromText(text)
	if !ok {
		t.Fatal("Expected a candidate")
	}
	if len(c.Rows[1]) != 3 {
		t.Fatalf("Expected short row padded to 3 cells, got %d", len(c.Rows[1]))
	}
	if c.Rows[1][2] != "" {
		t.Errorf("Expected empty padding cell, got %q", c.Rows[1][2])
	}
}

func TestCandidateFromTextRejectsProse(t *testing.T) {
	text := "This is a sentence with single spaces.\nAnother plain sentence here."

	if _, ok := CandidateFromText(text); ok {
		t.Error("Expected no candidate from prose")
	}
}

func TestCandidateFromTextRejectsSingleLine(t *testing.T) {
	if _, ok := CandidateFromText("a  b  c"); ok {
		t.Error("Expected no candidate from a single table line")
	}
	if _, ok := CandidateFromText(""); ok {
		t.Error("Expected no candidate from empty text")
	}
}

func TestCandidateFromTextSkipsSurroundingProse(t *testing.T) {
	text := "Results follow,\n\nName  Score\nUNet  0.9\n"

	c, ok := CandidateFromText(text)
	if !ok {
		t.Fatal("Expected a candidate")
	}
	if len(c.Rows) != 2 {
		t.Fatalf("Expected 2 rows after dropping prose, got %d", len(c.Rows))
	}
	if c.Rows[0][0] != "Name" {
		t.Errorf("Expected first row to start with Name, got %q", c.Rows[0][0])
	}
}

// ============================================================================
// Recognizer text cleanup
// ============================================================================

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses space runs", "too   many spaces", "too many spaces"},
		{"collapses blank lines", "para1\n\n\n\npara2", "para1\n\npara2"},
		{"fixes misread one", "1 line of text", "I line of text"},
		{"fixes misread zero", "0 rows returned", "O rows returned"},
		{"keeps digits before digits", "1 2 3", "1 2 3"},
		{"keeps embedded digits", "room 101 open", "room 101 open"},
		{"trims", "  x  ", "x"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("CleanText(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

// ============================================================================
// Scanned page heuristic
// ============================================================================

func TestScanned(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		coverage float64
		expected bool
	}{
		{"empty text high coverage", "", 0.9, true},
		{"short text high coverage", "Fig 1", 0.8, true},
		{"long text", strings.Repeat("a", 50), 0.9, false},
		{"low coverage", "", 0.5, false},
		{"boundary coverage", "", 0.7, false},
		{"whitespace counts as empty", "   \n  ", 0.9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scanned(tt.text, tt.coverage); got != tt.expected {
				t.Errorf("Scanned(%q, %v) = %v, expected %v", tt.text, tt.coverage, got, tt.expected)
			}
		})
	}
}
