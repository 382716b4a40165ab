package detect

import (
	"math"
	"reflect"
	"testing"

	"github.com/tsawler/trellis/model"
)

func frag(text string, x, y, w, h float64) model.TextFragment {
	return model.TextFragment{Text: text, BBox: model.NewBBox(x, y, w, h)}
}

func ruling(x1, y1, x2, y2 float64) model.Ruling {
	return model.Ruling{Start: model.Point{X: x1, Y: y1}, End: model.Point{X: x2, Y: y2}}
}

// ============================================================================
// Registry Tests
// ============================================================================

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewBBoxGridDetector())

	if registry.Get(model.KindBBoxGrid) == nil {
		t.Error("Get(KindBBoxGrid) = nil after Register")
	}
	if registry.Get(model.KindMarkedLines) != nil {
		t.Error("Get(KindMarkedLines) != nil for unregistered kind")
	}
	if kinds := registry.Kinds(); len(kinds) != 1 || kinds[0] != model.KindBBoxGrid {
		t.Errorf("Kinds() = %v, want [bbox_grid]", kinds)
	}
}

func TestGlobalRegistryHasAllDetectors(t *testing.T) {
	if got, want := RegisteredKinds(), model.AllDetectorKinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("RegisteredKinds() = %v, want %v", got, want)
	}
	for _, kind := range model.AllDetectorKinds() {
		d := GetDetector(kind)
		if d == nil {
			t.Fatalf("GetDetector(%v) = nil", kind)
		}
		if d.Kind() != kind {
			t.Errorf("GetDetector(%v).Kind() = %v", kind, d.Kind())
		}
	}
}

func TestNewCreatesEachKind(t *testing.T) {
	for _, kind := range model.AllDetectorKinds() {
		d := New(kind)
		if d == nil {
			t.Fatalf("New(%v) = nil", kind)
		}
		if d.Kind() != kind {
			t.Errorf("New(%v).Kind() = %v", kind, d.Kind())
		}
	}
	if d := New(model.DetectorKind(99)); d != nil {
		t.Errorf("New(unknown) = %v, want nil", d)
	}
}

func TestConfigureRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero min rows", func(c *Config) { c.MinRows = 0 }, true},
		{"zero min cols", func(c *Config) { c.MinCols = 0 }, true},
		{"negative tolerance", func(c *Config) { c.RowTolerance = -1 }, true},
		{"zero run length", func(c *Config) { c.MinRunLength = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := NewBBoxGridDetector().Configure(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Configure() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ============================================================================
// BBox Grid Detector Tests
// ============================================================================

func TestBBoxGridDetectsSimpleGrid(t *testing.T) {
	page := &model.Page{
		Number: 3,
		Fragments: []model.TextFragment{
			frag("Method", 50, 700, 40, 10), frag("Accuracy", 150, 700, 40, 10), frag("Loss", 250, 700, 40, 10),
			frag("UNet", 50, 680, 40, 10), frag("0.89", 150, 680, 40, 10), frag("0.12", 250, 680, 40, 10),
			frag("ResNet", 50, 660, 40, 10), frag("0.91", 150, 660, 40, 10), frag("0.10", 250, 660, 40, 10),
		},
	}

	candidates, err := NewBBoxGridDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Kind != model.KindBBoxGrid {
		t.Errorf("Kind = %v, want %v", c.Kind, model.KindBBoxGrid)
	}
	if c.Page != 3 {
		t.Errorf("Page = %d, want 3", c.Page)
	}
	want := [][]string{
		{"Method", "Accuracy", "Loss"},
		{"UNet", "0.89", "0.12"},
		{"ResNet", "0.91", "0.10"},
	}
	if !reflect.DeepEqual(c.Rows, want) {
		t.Errorf("Rows = %v, want %v", c.Rows, want)
	}
	if math.Abs(c.Confidence-1.0) > 1e-9 {
		t.Errorf("Confidence = %v, want 1.0", c.Confidence)
	}
	if c.BBox.Left() != 50 || c.BBox.Right() != 290 || c.BBox.Bottom() != 660 || c.BBox.Top() != 710 {
		t.Errorf("BBox = %+v, want 50..290 x 660..710", c.BBox)
	}
}

func TestBBoxGridMergesCloseRows(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Name", 50, 690, 40, 10),
			frag("Score", 150, 686, 40, 9),
			frag("v1", 50, 640, 40, 10),
			frag("2.5", 150, 640, 40, 10),
		},
	}

	candidates, err := NewBBoxGridDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	want := [][]string{{"Name", "Score"}, {"v1", "2.5"}}
	if !reflect.DeepEqual(c.Rows, want) {
		t.Errorf("Rows = %v, want %v", c.Rows, want)
	}
	if math.Abs(c.Confidence-0.6) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.6", c.Confidence)
	}
}

func TestBBoxGridRejectsSparseRows(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Just a sentence", 50, 700, 200, 10),
			frag("another line here", 50, 650, 200, 10),
		},
	}

	candidates, err := NewBBoxGridDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Detect() returned %d candidates, want 0", len(candidates))
	}
}

func TestBBoxGridRejectsRaggedColumns(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Alpha", 50, 700, 30, 10), frag("7", 150, 700, 10, 10),
			frag("a1", 50, 660, 20, 10), frag("b2", 100, 660, 20, 10), frag("c3", 150, 660, 20, 10),
			frag("d4", 200, 660, 20, 10), frag("e5", 250, 660, 20, 10),
			frag("f6", 50, 620, 20, 10), frag("g7", 100, 620, 20, 10), frag("h8", 150, 620, 20, 10),
			frag("i9", 200, 620, 20, 10), frag("j0", 250, 620, 20, 10),
		},
	}

	candidates, err := NewBBoxGridDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Detect() returned %d candidates, want 0", len(candidates))
	}
}

func TestBBoxGridRequiresNumericCells(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("alpha", 50, 700, 40, 10), frag("beta", 150, 700, 40, 10),
			frag("gamma", 50, 660, 40, 10), frag("delta", 150, 660, 40, 10),
		},
	}

	candidates, err := NewBBoxGridDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Detect() returned %d candidates, want 0", len(candidates))
	}
}

func TestBBoxGridIgnoresTextOnlyPages(t *testing.T) {
	page := model.NewTextPage("UNet 0.89 0.91")

	candidates, err := NewBBoxGridDetector().Detect(&page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if candidates != nil {
		t.Errorf("Detect() = %v, want nil", candidates)
	}
}

// ============================================================================
// Alignment Detector Tests
// ============================================================================

func TestAlignmentDetectsAlignedRun(t *testing.T) {
	page := &model.Page{
		Number: 2,
		Fragments: []model.TextFragment{
			frag("Method", 50, 700, 40, 10), frag("DSC", 150, 700, 40, 10), frag("ACC", 250, 700, 40, 10),
			frag("UNet", 50, 680, 40, 10), frag("0.89", 150, 680, 40, 10), frag("0.92", 250, 680, 40, 10),
			frag("ResNet", 50, 660, 40, 10), frag("0.91", 150, 660, 40, 10), frag("0.94", 250, 660, 40, 10),
		},
	}

	candidates, err := NewAlignmentDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Kind != model.KindTextAlignment {
		t.Errorf("Kind = %v, want %v", c.Kind, model.KindTextAlignment)
	}
	if c.Region != 0 {
		t.Errorf("Region = %d, want 0", c.Region)
	}
	want := [][]string{
		{"Method", "DSC", "ACC"},
		{"UNet", "0.89", "0.92"},
		{"ResNet", "0.91", "0.94"},
	}
	if !reflect.DeepEqual(c.Rows, want) {
		t.Errorf("Rows = %v, want %v", c.Rows, want)
	}
	if math.Abs(c.Confidence-0.6) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.6", c.Confidence)
	}
	if c.BBox.Left() != 50 || c.BBox.Top() != 710 {
		t.Errorf("BBox = %+v, want left 50 top 710", c.BBox)
	}
}

func TestAlignmentBreaksOnProse(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Method", 50, 700, 40, 10), frag("DSC", 150, 700, 40, 10), frag("ACC", 250, 700, 40, 10),
			frag("UNet", 50, 680, 40, 10), frag("0.89", 150, 680, 40, 10), frag("0.92", 250, 680, 40, 10),
			frag("ResNet", 50, 660, 40, 10), frag("0.91", 150, 660, 40, 10), frag("0.94", 250, 660, 40, 10),
			frag("A short paragraph about methodology follows here", 50, 630, 300, 10),
			frag("X", 50, 600, 20, 10), frag("1.1", 150, 600, 20, 10), frag("2.2", 250, 600, 20, 10),
			frag("Y", 50, 580, 20, 10), frag("3.3", 150, 580, 20, 10), frag("4.4", 250, 580, 20, 10),
		},
	}

	candidates, err := NewAlignmentDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}
	if got := len(candidates[0].Rows); got != 3 {
		t.Errorf("RowCount = %d, want 3", got)
	}
}

func TestAlignmentSplitsOnVerticalGap(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Method", 50, 700, 40, 10), frag("DSC", 150, 700, 40, 10), frag("ACC", 250, 700, 40, 10),
			frag("UNet", 50, 680, 40, 10), frag("0.89", 150, 680, 40, 10), frag("0.92", 250, 680, 40, 10),
			frag("ResNet", 50, 660, 40, 10), frag("0.91", 150, 660, 40, 10), frag("0.94", 250, 660, 40, 10),
			frag("DeepLab", 50, 490, 40, 10), frag("0.88", 150, 490, 40, 10), frag("0.90", 250, 490, 40, 10),
			frag("FCN", 50, 470, 40, 10), frag("0.77", 150, 470, 40, 10), frag("0.79", 250, 470, 40, 10),
			frag("SegNet", 50, 450, 40, 10), frag("0.80", 150, 450, 40, 10), frag("0.83", 250, 450, 40, 10),
		},
	}

	candidates, err := NewAlignmentDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Detect() returned %d candidates, want 2", len(candidates))
	}
	for i, c := range candidates {
		if c.Region != i {
			t.Errorf("candidates[%d].Region = %d, want %d", i, c.Region, i)
		}
		if len(c.Rows) != 3 {
			t.Errorf("candidates[%d] has %d rows, want 3", i, len(c.Rows))
		}
	}
}

func TestAlignmentTabCells(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Fragments: []model.TextFragment{
			frag("Model\tAcc\tLoss", 50, 700, 120, 10),
			frag("UNet\t0.89\t0.12", 50, 680, 120, 10),
			frag("ResNet\t0.91\t0.10", 50, 660, 120, 10),
		},
	}

	candidates, err := NewAlignmentDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	want := [][]string{
		{"Model", "Acc", "Loss"},
		{"UNet", "0.89", "0.12"},
		{"ResNet", "0.91", "0.10"},
	}
	if !reflect.DeepEqual(c.Rows, want) {
		t.Errorf("Rows = %v, want %v", c.Rows, want)
	}
	if math.Abs(c.Confidence-0.2) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.2", c.Confidence)
	}
}

func TestAlignmentIgnoresTextOnlyPages(t *testing.T) {
	page := model.NewTextPage("Method  DSC  ACC\nUNet  0.89  0.92")

	candidates, err := NewAlignmentDetector().Detect(&page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if candidates != nil {
		t.Errorf("Detect() = %v, want nil", candidates)
	}
}

// ============================================================================
// Marked Line Detector Tests
// ============================================================================

func TestMarkedLinesDetectsRuledGrid(t *testing.T) {
	page := &model.Page{
		Number: 4,
		Rulings: []model.Ruling{
			ruling(50, 700, 250, 700),
			ruling(50, 650, 250, 650),
			ruling(50, 600, 250, 600),
			ruling(50, 600, 50, 700),
			ruling(150, 600, 150, 700),
			ruling(250, 600, 250, 700),
		},
		Fragments: []model.TextFragment{
			frag("Name", 60, 670, 30, 10),
			frag("Value", 160, 670, 30, 10),
			frag("Widget", 60, 620, 30, 10),
			frag("3.14", 160, 620, 30, 10),
		},
	}

	candidates, err := NewMarkedLineDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}

	c := candidates[0]
	if c.Kind != model.KindMarkedLines {
		t.Errorf("Kind = %v, want %v", c.Kind, model.KindMarkedLines)
	}
	want := [][]string{{"Name", "Value"}, {"Widget", "3.14"}}
	if !reflect.DeepEqual(c.Rows, want) {
		t.Errorf("Rows = %v, want %v", c.Rows, want)
	}
	if c.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", c.Confidence)
	}
	if c.BBox.Left() != 50 || c.BBox.Right() != 250 || c.BBox.Bottom() != 600 || c.BBox.Top() != 700 {
		t.Errorf("BBox = %+v, want 50..250 x 600..700", c.BBox)
	}
}

func TestMarkedLinesClustersDuplicateRulings(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Rulings: []model.Ruling{
			ruling(50, 700, 250, 700),
			ruling(50, 700.5, 250, 700.5),
			ruling(50, 650, 250, 650),
			ruling(50, 600, 250, 600),
			ruling(50, 600, 50, 700),
			ruling(150, 600, 150, 700),
			ruling(250, 600, 250, 700),
		},
		Fragments: []model.TextFragment{
			frag("Name", 60, 670, 30, 10),
			frag("Value", 160, 670, 30, 10),
			frag("Widget", 60, 620, 30, 10),
			frag("3.14", 160, 620, 30, 10),
		},
	}

	candidates, err := NewMarkedLineDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}
	want := [][]string{{"Name", "Value"}, {"Widget", "3.14"}}
	if !reflect.DeepEqual(candidates[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", candidates[0].Rows, want)
	}
}

func TestMarkedLinesNeedsTwoRulingsPerAxis(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Rulings: []model.Ruling{
			ruling(50, 700, 250, 700),
			ruling(50, 600, 250, 600),
			ruling(150, 600, 150, 700),
			// Diagonal ruling counts for neither axis
			ruling(50, 600, 250, 700),
		},
		Fragments: []model.TextFragment{
			frag("Name", 60, 670, 30, 10),
		},
	}

	candidates, err := NewMarkedLineDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Detect() returned %d candidates, want 0", len(candidates))
	}
}

func TestMarkedLinesDiscardsEmptyGrid(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Rulings: []model.Ruling{
			ruling(50, 700, 250, 700),
			ruling(50, 600, 250, 600),
			ruling(50, 600, 50, 700),
			ruling(250, 600, 250, 700),
		},
		Fragments: []model.TextFragment{
			frag("Far away", 500, 100, 40, 10),
			{Text: "no geometry"},
		},
	}

	candidates, err := NewMarkedLineDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("Detect() returned %d candidates, want 0", len(candidates))
	}
}

func TestMarkedLinesJoinsCellFragments(t *testing.T) {
	page := &model.Page{
		Number: 1,
		Rulings: []model.Ruling{
			ruling(50, 700, 250, 700),
			ruling(50, 650, 250, 650),
			ruling(50, 600, 250, 600),
			ruling(50, 600, 50, 700),
			ruling(150, 600, 150, 700),
			ruling(250, 600, 250, 700),
		},
		Fragments: []model.TextFragment{
			frag("x", 60, 670, 10, 10),
			frag("hello", 60, 620, 20, 10),
			frag("world", 85, 620, 20, 10),
		},
	}

	candidates, err := NewMarkedLineDetector().Detect(page)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Detect() returned %d candidates, want 1", len(candidates))
	}
	want := [][]string{{"x", ""}, {"hello world", ""}}
	if !reflect.DeepEqual(candidates[0].Rows, want) {
		t.Errorf("Rows = %v, want %v", candidates[0].Rows, want)
	}
}
