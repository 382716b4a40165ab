package detect

import (
	"fmt"
	"sort"

	"github.com/tsawler/trellis/model"
)

// Detector is the interface for table detection strategies
type Detector interface {
	// Detect finds table candidates in a page
	Detect(page *model.Page) ([]model.Candidate, error)

	// Kind returns the detection strategy this detector implements
	Kind() model.DetectorKind

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum rows for a valid candidate
	MinRows int

	// Minimum columns for a valid candidate
	MinCols int

	// Maximum vertical distance between fragments in the same row (points)
	RowTolerance float64

	// Tolerance for column alignment and ruling clustering (points)
	AlignmentTolerance float64

	// Maximum deviation from the axis for a ruling to count as horizontal or vertical (points)
	SlopeTolerance float64

	// Maximum vertical gap between consecutive lines of one region (points)
	MaxLineGap float64

	// Minimum consecutive table-like lines to form a region
	MinRunLength int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		RowTolerance:       10.0,
		AlignmentTolerance: 2.0,
		SlopeTolerance:     2.0,
		MaxLineGap:         50.0,
		MinRunLength:       3,
	}
}

func (c Config) validate() error {
	if c.MinRows < 1 || c.MinCols < 1 {
		return fmt.Errorf("detect: minimum rows and columns must be positive")
	}
	if c.RowTolerance < 0 || c.AlignmentTolerance < 0 || c.SlopeTolerance < 0 || c.MaxLineGap < 0 {
		return fmt.Errorf("detect: tolerances must not be negative")
	}
	if c.MinRunLength < 1 {
		return fmt.Errorf("detect: minimum run length must be positive")
	}
	return nil
}

// DetectorRegistry holds registered detectors
type DetectorRegistry struct {
	detectors map[model.DetectorKind]Detector
}

// NewRegistry creates a new detector registry
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		detectors: make(map[model.DetectorKind]Detector),
	}
}

// Register registers a detector
func (r *DetectorRegistry) Register(detector Detector) {
	r.detectors[detector.Kind()] = detector
}

// Get retrieves a detector by kind
func (r *DetectorRegistry) Get(kind model.DetectorKind) Detector {
	return r.detectors[kind]
}

// Kinds returns all registered detector kinds in stable order
func (r *DetectorRegistry) Kinds() []model.DetectorKind {
	kinds := make([]model.DetectorKind, 0, len(r.detectors))
	for kind := range r.detectors {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// New creates a fresh detector of the given kind, or nil for an unknown kind
func New(kind model.DetectorKind) Detector {
	switch kind {
	case model.KindBBoxGrid:
		return NewBBoxGridDetector()
	case model.KindTextAlignment:
		return NewAlignmentDetector()
	case model.KindMarkedLines:
		return NewMarkedLineDetector()
	case model.KindAcademicText:
		return NewAcademicTextDetector()
	}
	return nil
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector globally
func RegisterDetector(detector Detector) {
	globalRegistry.Register(detector)
}

// GetDetector retrieves a detector by kind
func GetDetector(kind model.DetectorKind) Detector {
	return globalRegistry.Get(kind)
}

// RegisteredKinds returns all registered detector kinds
func RegisteredKinds() []model.DetectorKind {
	return globalRegistry.Kinds()
}

func init() {
	// Register default detectors
	RegisterDetector(NewBBoxGridDetector())
	RegisterDetector(NewAlignmentDetector())
	RegisterDetector(NewMarkedLineDetector())
	RegisterDetector(NewAcademicTextDetector())
}
