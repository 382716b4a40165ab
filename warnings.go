package trellis

import (
	"fmt"
	"strings"
)

// WarningCode classifies a soft failure encountered during reconstruction.
type WarningCode string

const (
	// WarnDetectorFailed marks a detection strategy that returned an error
	// or panicked. Its candidates are missing from the result; the other
	// strategies still ran.
	WarnDetectorFailed WarningCode = "detector_failed"

	// WarnCandidateDropped marks a candidate that could not be normalized
	// into a rectangular table and was discarded.
	WarnCandidateDropped WarningCode = "candidate_dropped"
)

// Warning describes a non-fatal issue hit while reconstructing tables.
// Processing continued past it; the affected strategy or candidate simply
// contributed nothing.
type Warning struct {
	Code    WarningCode
	Message string
	Page    int // 1-indexed page number, 0 when no page applies
}

// String renders the warning as "[code] page N: message".
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings formats a list of warnings as a single string, one
// warning per line. It returns "" for an empty list.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	return strings.Join(lines, "\n")
}
