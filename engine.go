package trellis

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tsawler/trellis/consolidate"
	"github.com/tsawler/trellis/detect"
	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/render"
)

// Engine reconstructs tables from positioned page content or plain text.
// Each configuration method returns a new Engine instance, making it safe
// for concurrent use and allowing method chaining.
//
// Configuration errors accumulate and surface on the first terminal
// operation, so chains stay uncluttered by intermediate error checks.
type Engine struct {
	options engineOptions

	// Accumulated configuration error (fail-fast pattern).
	err error
}

// New creates an Engine with default configuration: minimum confidence
// 0.7, every detection strategy, markdown output with captions, and four
// document workers.
func New() *Engine {
	return &Engine{options: defaultEngineOptions()}
}

// NewWithConfig creates an Engine from a Config, typically one produced
// by LoadConfig. An invalid Config surfaces as an error on the first
// terminal operation.
func NewWithConfig(cfg Config) *Engine {
	e := New()
	if err := cfg.Validate(); err != nil {
		e.err = err
		return e
	}
	e.options.minConfidence = cfg.MinConfidence
	if len(cfg.Detectors) > 0 {
		kinds := make([]model.DetectorKind, 0, len(cfg.Detectors))
		for _, name := range cfg.Detectors {
			kind, _ := model.ParseDetectorKind(name)
			kinds = append(kinds, kind)
		}
		e.options.detectors = kinds
	}
	format, _ := render.ParseFormat(cfg.RenderFormat)
	e.options.renderConfig.Format = format
	e.options.renderConfig.IncludeCaption = cfg.IncludeCaptions
	e.options.workers = cfg.Workers
	return e
}

// clone creates a copy of the Engine with a deep copy of its options.
// This ensures immutability - each chain method returns a new instance.
func (e *Engine) clone() *Engine {
	return &Engine{
		options: e.options.clone(),
		err:     e.err,
	}
}

// fail records the first configuration error.
func (e *Engine) fail(err error) *Engine {
	if e.err == nil {
		e.err = err
	}
	return e
}

// ============================================================================
// Configuration Methods (return new Engine instance)
// ============================================================================

// WithMinConfidence sets the confidence threshold below which
// reconstructed tables are discarded. Must be in [0, 1].
//
// Example:
//
//	tables, _, err := trellis.New().WithMinConfidence(0.5).Tables(page)
func (e *Engine) WithMinConfidence(min float64) *Engine {
	newEngine := e.clone()
	if min < 0 || min > 1 {
		return newEngine.fail(fmt.Errorf("min confidence %v outside [0, 1]", min))
	}
	newEngine.options.minConfidence = min
	return newEngine
}

// WithDetectors restricts detection to the given strategies, run in the
// given order.
//
// Example:
//
//	tables, _, err := trellis.New().
//	    WithDetectors(model.KindMarkedLines, model.KindBBoxGrid).
//	    Tables(page)
func (e *Engine) WithDetectors(kinds ...model.DetectorKind) *Engine {
	newEngine := e.clone()
	if len(kinds) == 0 {
		return newEngine.fail(fmt.Errorf("at least one detector required"))
	}
	for _, kind := range kinds {
		if detect.New(kind) == nil {
			return newEngine.fail(fmt.Errorf("unknown detector kind %q", kind.String()))
		}
	}
	newEngine.options.detectors = append([]model.DetectorKind(nil), kinds...)
	return newEngine
}

// WithRenderFormat sets the output syntax used by Markdown and
// TextMarkdown.
//
// Example:
//
//	csv, _, err := trellis.New().WithRenderFormat(render.FormatCSV).Markdown(page)
func (e *Engine) WithRenderFormat(format render.Format) *Engine {
	newEngine := e.clone()
	if format.String() == "unknown" {
		return newEngine.fail(fmt.Errorf("unknown render format %d", int(format)))
	}
	newEngine.options.renderConfig.Format = format
	return newEngine
}

// WithCaptions toggles the caption line above each rendered table.
func (e *Engine) WithCaptions(include bool) *Engine {
	newEngine := e.clone()
	newEngine.options.renderConfig.IncludeCaption = include
	return newEngine
}

// WithWorkers sets how many pages DocumentTables processes concurrently.
func (e *Engine) WithWorkers(n int) *Engine {
	newEngine := e.clone()
	if n < 1 {
		return newEngine.fail(fmt.Errorf("workers must be at least 1, got %d", n))
	}
	newEngine.options.workers = n
	return newEngine
}

// WithLogger sets the logger used to report detector failures and
// dropped candidates. The default logger discards everything.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	newEngine := e.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	newEngine.options.logger = logger
	return newEngine
}

// ============================================================================
// Terminal Operations (run reconstruction and return results)
// ============================================================================

// Tables reconstructs the tables on a single page. Detection strategies
// run in configured order, overlapping candidates collapse to the
// strongest, and survivors are normalized and filtered against the
// confidence threshold. Tables come back in top-to-bottom page order
// with 1-based indices.
func (e *Engine) Tables(page model.Page) ([]model.Table, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	tables, warnings := e.processPage(page)
	numberTables(tables)
	return tables, warnings, nil
}

// DocumentTables reconstructs tables across a whole document. Pages are
// processed concurrently by a bounded worker pool; tables and warnings
// come back in page order and table indices run document-wide.
func (e *Engine) DocumentTables(pages []model.Page) ([]model.Table, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if len(pages) == 0 {
		return nil, nil, nil
	}

	workers := e.options.workers
	if workers > len(pages) {
		workers = len(pages)
	}

	pageTables := make([][]model.Table, len(pages))
	pageWarnings := make([][]Warning, len(pages))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				pageTables[i], pageWarnings[i] = e.processPage(pages[i])
			}
		}()
	}
	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var tables []model.Table
	var warnings []Warning
	for i := range pages {
		tables = append(tables, pageTables[i]...)
		warnings = append(warnings, pageWarnings[i]...)
	}
	numberTables(tables)
	return tables, warnings, nil
}

// TextTables reconstructs tables from plain paragraph text carrying no
// geometry. Geometry-driven strategies find nothing on a text page, so
// in practice the academic text strategy does the work.
func (e *Engine) TextTables(text string) ([]model.Table, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	tables, warnings := e.processPage(model.NewTextPage(text))
	numberTables(tables)
	return tables, warnings, nil
}

// Markdown reconstructs a page's tables and renders each in the
// configured format. Rendered tables are separated by a blank line.
func (e *Engine) Markdown(page model.Page) (string, []Warning, error) {
	tables, warnings, err := e.Tables(page)
	if err != nil {
		return "", nil, err
	}
	return e.renderTables(tables), warnings, nil
}

// TextMarkdown reconstructs tables from plain paragraph text and renders
// them the way Markdown does.
func (e *Engine) TextMarkdown(text string) (string, []Warning, error) {
	tables, warnings, err := e.TextTables(text)
	if err != nil {
		return "", nil, err
	}
	return e.renderTables(tables), warnings, nil
}

// ============================================================================
// Reconstruction pipeline
// ============================================================================

// processPage runs the full pipeline for one page: detection,
// deduplication, validation, normalization, confidence filtering, header
// designation, and spatial ordering.
func (e *Engine) processPage(page model.Page) ([]model.Table, []Warning) {
	var warnings []Warning
	var candidates []model.Candidate

	for _, kind := range e.options.detectors {
		cands, err := e.runDetector(kind, &page)
		if err != nil {
			e.options.logger.Warn("detector failed",
				zap.String("detector", kind.String()),
				zap.Int("page", page.Number),
				zap.Error(err))
			warnings = append(warnings, Warning{
				Code:    WarnDetectorFailed,
				Message: fmt.Sprintf("%s: %v", kind, err),
				Page:    page.Number,
			})
			continue
		}
		candidates = append(candidates, cands...)
	}

	candidates = consolidate.Dedupe(candidates)

	var tables []model.Table
	for _, cand := range candidates {
		if err := consolidate.Validate(cand); err != nil {
			e.options.logger.Debug("candidate rejected",
				zap.String("detector", cand.Kind.String()),
				zap.Int("page", cand.Page),
				zap.Error(err))
			continue
		}
		table, err := consolidate.Finalize(cand)
		if err != nil {
			e.options.logger.Warn("candidate dropped",
				zap.String("detector", cand.Kind.String()),
				zap.Int("page", cand.Page),
				zap.Error(err))
			warnings = append(warnings, Warning{
				Code:    WarnCandidateDropped,
				Message: fmt.Sprintf("%s candidate: %v", cand.Kind, err),
				Page:    cand.Page,
			})
			continue
		}
		if table.Confidence < e.options.minConfidence {
			e.options.logger.Debug("table below confidence threshold",
				zap.Float64("confidence", table.Confidence),
				zap.Float64("threshold", e.options.minConfidence),
				zap.Int("page", table.Page))
			continue
		}
		designateHeaders(&table)
		tables = append(tables, table)
	}

	sortTables(tables)
	return tables, warnings
}

// runDetector isolates one strategy run. A panicking detector is
// contained and reported as an error so the other strategies still run.
func (e *Engine) runDetector(kind model.DetectorKind, page *model.Page) (cands []model.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			cands = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	d := detect.New(kind)
	if d == nil {
		return nil, fmt.Errorf("no detector registered for kind %q", kind.String())
	}
	return d.Detect(page)
}

// designateHeaders resolves the header row once, so repeated rendering
// of the same table is stable.
func designateHeaders(t *model.Table) {
	header, data, generated := render.Headers(*t)
	t.Header = header
	t.Rows = data
	t.HeaderGenerated = generated
}

// sortTables orders tables top-to-bottom, then left-to-right. Tables
// without geometry keep their relative order.
func sortTables(tables []model.Table) {
	sort.SliceStable(tables, func(i, j int) bool {
		a, b := tables[i].BBox, tables[j].BBox
		if !a.IsValid() || !b.IsValid() {
			return false
		}
		if a.Top() != b.Top() {
			return a.Top() > b.Top()
		}
		return a.Left() < b.Left()
	})
}

// numberTables assigns 1-based indices in result order. Generated
// captions use the index.
func numberTables(tables []model.Table) {
	for i := range tables {
		tables[i].Index = i + 1
	}
}

// renderTables renders each table and joins the results with a blank
// line. Every rendered table already ends with a newline of its own.
func (e *Engine) renderTables(tables []model.Table) string {
	if len(tables) == 0 {
		return ""
	}
	r := render.NewRendererWithConfig(e.options.renderConfig)
	blocks := make([]string, 0, len(tables))
	for _, t := range tables {
		if block := r.Render(t); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n")
}
