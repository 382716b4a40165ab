package structure

import (
	"reflect"
	"testing"
)

// ============================================================================
// Strategy Selection Tests
// ============================================================================

func TestInferSelectsCitationNumerical(t *testing.T) {
	lines := []string{
		"BERT [12] 91.2 88.4 90.1 89.7",
		"RoBERTa [15] 92.1 89.0 90.8 90.3",
		"XLNet [18] 91.8 88.9 90.5 90.0",
	}

	s := Infer(lines)
	if s.Kind != KindAcademicCitationNumerical {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindAcademicCitationNumerical)
	}
	if s.GroupSize != 4 {
		t.Errorf("GroupSize = %d, want 4", s.GroupSize)
	}
	if s.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", s.ColumnCount)
	}

	for _, line := range lines {
		cells := s.Split(line)
		if len(cells) != 2 {
			t.Errorf("Split(%q) = %d cells, want 2", line, len(cells))
		}
	}
}

func TestInferSelectsMultiSpace(t *testing.T) {
	lines := []string{
		"Method  DSC  SE  SP  ACC",
		"UNet  0.89  0.91  0.88  0.92",
		"ResNet  0.90  0.93  0.89  0.94",
	}

	s := Infer(lines)
	if s.Kind != KindMultiSpace {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindMultiSpace)
	}
	if want := []int{7, 19}; !reflect.DeepEqual(s.Positions, want) {
		t.Errorf("Positions = %v, want %v", s.Positions, want)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}
}

func TestInferSelectsTab(t *testing.T) {
	lines := []string{
		"Model\tAccuracy\tLoss",
		"UNet\t0.89\t0.12",
		"ResNet\t0.91\t0.10",
	}

	s := Infer(lines)
	if s.Kind != KindTab {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindTab)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}

	cells := s.Split("UNet\t0.89\t0.12")
	if want := []string{"UNet", "0.89", "0.12"}; !reflect.DeepEqual(cells, want) {
		t.Errorf("Split = %v, want %v", cells, want)
	}
}

func TestInferSelectsPattern(t *testing.T) {
	lines := []string{
		"Smith et al. (2019) CIFAR ResNet-50",
		"Jones et al. (2020) MNIST VGG-16",
		"Brown et al. (2021) COCO YOLO-v3",
	}

	s := Infer(lines)
	if s.Kind != KindPattern {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindPattern)
	}
	if len(s.Patterns) == 0 || s.Patterns[0] != "author_reference" {
		t.Errorf("Patterns = %v, want author_reference first", s.Patterns)
	}
	if s.ColumnCount != len(s.Patterns)+1 {
		t.Errorf("ColumnCount = %d, want %d", s.ColumnCount, len(s.Patterns)+1)
	}
}

func TestInferFallsBackToWordBased(t *testing.T) {
	lines := []string{
		"a b c d e f g",
		"h i j k l m n",
	}

	s := Infer(lines)
	if s.Kind != KindWordBased {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindWordBased)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}
}

func TestInferTooFewLines(t *testing.T) {
	s := Infer([]string{"short", ""})
	if s.Kind != KindWordBased {
		t.Fatalf("Kind = %v, want %v", s.Kind, KindWordBased)
	}
	if s.ColumnCount != 2 {
		t.Errorf("ColumnCount = %d, want 2", s.ColumnCount)
	}
}

func TestInferDeterministic(t *testing.T) {
	lines := []string{
		"Method  DSC  SE  SP  ACC",
		"UNet  0.89  0.91  0.88  0.92",
		"ResNet  0.90  0.93  0.89  0.94",
	}

	first := Infer(lines)
	for i := 0; i < 10; i++ {
		if got := Infer(lines); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Infer = %+v, want %+v", i, got, first)
		}
	}
}

// ============================================================================
// Strategy Finder Tests
// ============================================================================

func TestFindMultiSpace(t *testing.T) {
	lines := []string{
		"AAAA      BBBB      CCCC",
		"DDDD      EEEE      FFFF",
		"GGGG      HHHH      IIII",
	}

	s, ok := findMultiSpace(lines)
	if !ok {
		t.Fatal("expected multi-space structure")
	}
	if len(s.Positions) != 2 {
		t.Errorf("positions = %v, want 2 separators", s.Positions)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}
}

func TestFindMultiSpaceRejectsSingleSpaces(t *testing.T) {
	lines := []string{
		"one two three",
		"four five six",
	}
	if _, ok := findMultiSpace(lines); ok {
		t.Error("expected no structure for single-space lines")
	}
}

func TestFindPositional(t *testing.T) {
	lines := []string{
		"AAAA      BBBB      CCCC",
		"DDDD      EEEE      FFFF",
		"GGGG      HHHH      IIII",
	}

	s, ok := findPositional(lines)
	if !ok {
		t.Fatal("expected positional structure")
	}
	if want := []int{7, 16}; !reflect.DeepEqual(s.Positions, want) {
		t.Errorf("Positions = %v, want %v", s.Positions, want)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}
}

func TestFindPositionalRejectsShortLines(t *testing.T) {
	if _, ok := findPositional([]string{"a b", "c d"}); ok {
		t.Error("expected no structure for short lines")
	}
}

func TestFindTabRequiresConsistency(t *testing.T) {
	// Only half the lines share a tab count; 70% consistency fails.
	lines := []string{
		"a\tb\tc",
		"d\te\tf",
		"g h i",
		"j k l",
	}
	if _, ok := findTab(lines); ok {
		t.Error("expected no structure for inconsistent tab counts")
	}
}

func TestFindAcademicRequiresConsistentCitations(t *testing.T) {
	// Citation ends at word 1 and word 3 in alternating lines; with only
	// half the lines within one word of the mean, consistency fails.
	lines := []string{
		"A [1] 1.0 2.0 3.0 4.0",
		"B longer method name [2] 1.0 2.0 3.0 4.0",
		"C [3] 1.0 2.0 3.0 4.0",
		"D longer method name [4] 1.0 2.0 3.0 4.0",
	}

	if _, ok := findAcademic(lines); ok {
		t.Error("expected no structure for drifting citation positions")
	}
}

func TestFindAcademicGroupSizes(t *testing.T) {
	// Six trailing numbers divide by 3, so each line yields two groups.
	lines := []string{
		"UNet [3] 0.89 0.91 0.88 0.92 0.90 0.87",
		"VNet [5] 0.85 0.88 0.84 0.89 0.86 0.83",
	}

	s, ok := findAcademic(lines)
	if !ok {
		t.Fatal("expected academic structure")
	}
	if s.GroupSize != 3 {
		t.Errorf("GroupSize = %d, want 3", s.GroupSize)
	}
	if s.ColumnCount != 3 {
		t.Errorf("ColumnCount = %d, want 3", s.ColumnCount)
	}
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestEstimateColumns(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", nil, 2},
		{"few words", []string{"a b", "c d"}, 2},
		{"medium", []string{"a b c d e f", "g h i j k l"}, 3},
		{"wide", []string{"a b c d e f g h i j", "a b c d e f g h i j"}, 4},
		{"very wide", []string{"a b c d e f g h i j k l m n o p q r"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := estimateColumns(tt.lines); got != tt.want {
				t.Errorf("estimateColumns = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterMinGap(t *testing.T) {
	got := filterMinGap([]int{5, 9, 15, 21, 24}, 8)
	if want := []int{5, 15, 24}; !reflect.DeepEqual(got, want) {
		t.Errorf("filterMinGap = %v, want %v", got, want)
	}
}

func TestMostCommonInt(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"clear winner", []int{4, 4, 3, 4}, 4},
		{"tie prefers smaller", []int{3, 4, 3, 4}, 3},
		{"single", []int{5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mostCommonInt(tt.values); got != tt.want {
				t.Errorf("mostCommonInt(%v) = %d, want %d", tt.values, got, tt.want)
			}
		})
	}
}
