package trellis

import (
	"go.uber.org/zap"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/render"
)

// engineOptions holds configuration for table reconstruction.
type engineOptions struct {
	// Tables scoring below this confidence are discarded.
	minConfidence float64

	// Detection strategies to run, in order.
	detectors []model.DetectorKind

	// Renderer settings used by Markdown and TextMarkdown.
	renderConfig render.Config

	// Page-level parallelism for DocumentTables.
	workers int

	// Engine-side logging. Leaf packages stay silent.
	logger *zap.Logger
}

// defaultEngineOptions returns the default reconstruction options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		minConfidence: 0.7,
		detectors:     model.AllDetectorKinds(),
		renderConfig:  render.DefaultConfig(),
		workers:       4,
		logger:        zap.NewNop(),
	}
}

// clone creates a deep copy of engineOptions.
func (o engineOptions) clone() engineOptions {
	newOpts := o
	newOpts.detectors = append([]model.DetectorKind(nil), o.detectors...)
	return newOpts
}
