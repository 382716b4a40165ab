package ingest

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Preflight verifies that path points to a structurally valid PDF and
// returns its page count. Extraction assumes a well-formed file, so
// callers run Preflight first to reject corrupt documents with a clean
// error instead of a partial result.
func Preflight(path string) (int, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return 0, fmt.Errorf("invalid pdf: %w", err)
	}
	return ctx.PageCount, nil
}
