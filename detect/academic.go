package detect

import (
	"fmt"
	"strings"

	"github.com/tsawler/trellis/classify"
	"github.com/tsawler/trellis/consolidate"
	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/structure"
)

// AcademicTextDetector detects tables in the plain text of academic papers.
// It looks for numbered table captions followed by content lines, falls back
// to implicit runs of table-like lines when no caption is present, and parses
// each section with a column structure inferred over its lines. This is the
// only detector that works without geometry.
type AcademicTextDetector struct {
	config Config
}

// NewAcademicTextDetector creates a new academic text detector with default configuration.
func NewAcademicTextDetector() *AcademicTextDetector {
	return &AcademicTextDetector{
		config: DefaultConfig(),
	}
}

// Kind returns the detector's strategy (academic_text).
func (d *AcademicTextDetector) Kind() model.DetectorKind {
	return model.KindAcademicText
}

// Configure sets the detector configuration.
func (d *AcademicTextDetector) Configure(config Config) error {
	if err := config.validate(); err != nil {
		return err
	}
	d.config = config
	return nil
}

// Detect finds tables in the page text. Caption-led sections take priority;
// without any caption the detector falls back to implicit runs of table-like
// lines. Related sections merge before parsing so continuation fragments
// rejoin their table.
func (d *AcademicTextDetector) Detect(page *model.Page) ([]model.Candidate, error) {
	if page == nil {
		return nil, nil
	}
	text := page.PlainText()
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	sections := d.findTitledSections(lines)
	if len(sections) == 0 {
		sections = d.findImplicitSections(lines)
	}
	sections = consolidate.MergeSections(sections)

	var candidates []model.Candidate
	for i, section := range sections {
		rows := parseSection(section)
		if rows == nil {
			continue
		}
		candidate := model.Candidate{
			Kind:        model.KindAcademicText,
			Page:        page.Number,
			Region:      i,
			Rows:        rows,
			Title:       section.Title,
			Description: section.Description,
		}
		if err := consolidate.Validate(candidate); err != nil {
			continue
		}
		candidate.Confidence = consolidate.Score(candidate)
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// findTitledSections scans for caption lines and accumulates the table
// content that follows each one. A new caption closes the current section; so
// does the first line that no longer reads as table content. Sections need at
// least two content lines to survive.
func (d *AcademicTextDetector) findTitledSections(lines []string) []consolidate.Section {
	var sections []consolidate.Section
	var current *consolidate.Section

	for i, line := range lines {
		if info, ok := classify.Title(line); ok {
			if current != nil && len(current.Lines) >= 2 {
				sections = append(sections, *current)
			}
			current = &consolidate.Section{
				Title:       line,
				Number:      info.Number,
				Description: info.Description,
				Start:       i,
			}
			continue
		}
		if current == nil {
			continue
		}
		if classify.TableContent(line, current.Lines) {
			current.Lines = append(current.Lines, line)
		} else {
			if len(current.Lines) >= 2 {
				sections = append(sections, *current)
			}
			current = nil
		}
	}
	if current != nil && len(current.Lines) >= 2 {
		sections = append(sections, *current)
	}

	return sections
}

// findImplicitSections finds runs of consecutive table-like lines in text
// with no table captions at all. Runs of MinRunLength or more lines become
// sections with a synthesized caption naming the line they start at.
func (d *AcademicTextDetector) findImplicitSections(lines []string) []consolidate.Section {
	var sections []consolidate.Section
	var block []string

	flush := func(end int) {
		if len(block) >= d.config.MinRunLength {
			start := end - len(block)
			sections = append(sections, consolidate.Section{
				Title:  fmt.Sprintf("Table (detected at line %d)", start+1),
				Number: "1",
				Lines:  append([]string(nil), block...),
				Start:  start,
			})
		}
		block = block[:0]
	}

	for i, line := range lines {
		if classify.TableLike(line, nil) {
			block = append(block, line)
		} else {
			flush(i)
		}
	}
	flush(len(lines))

	return sections
}

// parseSection turns a section's content lines into table rows. One column
// structure is inferred for the whole section. The header row is the first of
// the first three lines that reads as a header, defaulting to the first line;
// anything before it is dropped. Returns nil when fewer than two rows parse.
func parseSection(section consolidate.Section) [][]string {
	lines := section.Lines
	if len(lines) == 0 {
		return nil
	}

	s := structure.Infer(lines)

	headerIdx := 0
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		if classify.HeaderLine(lines[i]) {
			headerIdx = i
			break
		}
	}

	header := s.Split(lines[headerIdx])
	if len(header) == 0 {
		return nil
	}

	rows := [][]string{header}
	for _, line := range lines[headerIdx+1:] {
		if cells := s.Split(line); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) < 2 {
		return nil
	}
	return rows
}
