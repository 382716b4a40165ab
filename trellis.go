// Package trellis reconstructs tables from the positioned text of PDF
// pages and from plain paragraph text.
//
// Basic usage:
//
//	pages, err := ingest.OpenPDF("paper.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tables, warnings, err := trellis.New().Tables(pages[0])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if len(warnings) > 0 {
//	    log.Println(trellis.FormatWarnings(warnings))
//	}
//
// With options:
//
//	md, _, err := trellis.New().
//	    WithMinConfidence(0.5).
//	    WithDetectors(model.KindMarkedLines, model.KindAcademicText).
//	    Markdown(page)
//
// From plain text:
//
//	md, _, err := trellis.New().TextMarkdown(paperText)
//
// The engine itself never reads files. Pages come from the ingest
// package or from any caller that builds model.Page values directly.
package trellis

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in tests
// and short scripts where error handling would be cumbersome.
//
// Example:
//
//	cfg := trellis.Must(trellis.LoadConfig("trellis.yaml"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables wraps a terminal operation, discarding warnings and
// panicking if the error is non-nil.
//
// Example:
//
//	md := trellis.MustTables(trellis.New().TextMarkdown(text))
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
