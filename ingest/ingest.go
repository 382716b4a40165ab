package ingest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/tsawler/trellis/model"
)

const (
	// US Letter, used when a page carries no MediaBox entry.
	letterWidth  = 612.0
	letterHeight = 792.0

	// Characters within this vertical distance share a baseline.
	yTolerance = 3.0

	// Horizontal gaps wider than this always split words.
	xTolerance = 3.0
)

// Document is an open PDF ready for page extraction. It must be closed
// by the caller when extraction is finished.
type Document struct {
	path   string
	file   io.Closer
	reader *pdf.Reader
}

// Open opens the PDF at path for page extraction.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	return &Document{path: path, file: f, reader: r}, nil
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// Page extracts a single page. Page numbers start at 1.
func (d *Document) Page(number int) (model.Page, error) {
	if number < 1 || number > d.reader.NumPage() {
		return model.Page{}, fmt.Errorf("page %d out of range [1, %d]", number, d.reader.NumPage())
	}
	p := d.reader.Page(number)
	if p.V.IsNull() {
		return model.Page{}, fmt.Errorf("page %d: missing page object", number)
	}
	width, height := pageSize(p)
	return model.Page{
		Number:    number,
		Width:     width,
		Height:    height,
		Fragments: Words(p.Content().Text),
	}, nil
}

// Pages extracts every page of the document in order.
func (d *Document) Pages() ([]model.Page, error) {
	pages := make([]model.Page, 0, d.reader.NumPage())
	for i := 1; i <= d.reader.NumPage(); i++ {
		page, err := d.Page(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// OpenPDF validates the PDF at path and extracts every page in one
// call. It is the common entry point for callers that do not need
// per-page control.
func OpenPDF(path string) ([]model.Page, error) {
	if _, err := Preflight(path); err != nil {
		return nil, err
	}
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return doc.Pages()
}

// pageSize reads the page dimensions from the MediaBox entry, falling
// back to US Letter when the entry is missing or malformed.
func pageSize(p pdf.Page) (width, height float64) {
	width, height = letterWidth, letterHeight
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return width, height
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	if x1 > x0 && y1 > y0 {
		width = x1 - x0
		height = y1 - y0
	}
	return width, height
}

// ============================================================================
// Word assembly
// ============================================================================

// char is a single positioned character split out of a text run.
type char struct {
	s     string
	x     float64
	y     float64
	width float64
	size  float64
	font  string
}

// Words groups raw text runs into word-level fragments. Runs are split
// into characters, assembled into baseline lines, and joined back into
// words wherever neighboring characters nearly touch. Fragments come
// back in reading order: top line first, left to right within a line.
func Words(texts []pdf.Text) []model.TextFragment {
	var chars []char
	for _, t := range texts {
		chars = append(chars, splitChars(t)...)
	}
	if len(chars) == 0 {
		return nil
	}

	var frags []model.TextFragment
	for _, line := range groupLines(chars) {
		frags = append(frags, groupWords(line)...)
	}
	return frags
}

// splitChars breaks a text run into evenly spaced characters. Runs carry
// a single advance width, so each character gets an equal share of it.
// Whitespace characters are dropped; word boundaries are recovered from
// geometry instead.
func splitChars(t pdf.Text) []char {
	runes := []rune(t.S)
	if len(runes) == 0 {
		return nil
	}
	w := t.W / float64(len(runes))

	chars := make([]char, 0, len(runes))
	for i, r := range runes {
		if strings.TrimSpace(string(r)) == "" {
			continue
		}
		chars = append(chars, char{
			s:     string(r),
			x:     t.X + float64(i)*w,
			y:     t.Y,
			width: w,
			size:  t.FontSize,
			font:  t.Font,
		})
	}
	return chars
}

// groupLines sorts characters into reading order and clusters them into
// baseline lines.
func groupLines(chars []char) [][]char {
	sort.SliceStable(chars, func(i, j int) bool {
		if math.Abs(chars[i].y-chars[j].y) > yTolerance {
			return chars[i].y > chars[j].y
		}
		return chars[i].x < chars[j].x
	})

	var lines [][]char
	var current []char
	baseline := 0.0
	for _, c := range chars {
		if len(current) > 0 && math.Abs(c.y-baseline) > yTolerance {
			lines = append(lines, current)
			current = nil
		}
		if len(current) == 0 {
			baseline = c.y
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// groupWords joins a line of characters into word fragments. A new word
// starts when the gap to the previous character exceeds the absolute
// tolerance or 30% of the character's own width, whichever is smaller.
func groupWords(line []char) []model.TextFragment {
	var frags []model.TextFragment
	word := []char{line[0]}
	for _, c := range line[1:] {
		prev := word[len(word)-1]
		gap := c.x - (prev.x + prev.width)
		if gap > xTolerance || gap > prev.width*0.3 {
			frags = append(frags, wordFragment(word))
			word = nil
		}
		word = append(word, c)
	}
	return append(frags, wordFragment(word))
}

// wordFragment builds a fragment spanning a run of characters. The box
// covers the full font height, with the baseline near its lower fifth.
func wordFragment(chars []char) model.TextFragment {
	first := chars[0]
	last := chars[len(chars)-1]

	var sb strings.Builder
	size := first.size
	for _, c := range chars {
		sb.WriteString(c.s)
		if c.size > size {
			size = c.size
		}
	}

	height := size
	if height <= 0 {
		height = 1
	}
	return model.TextFragment{
		Text:     sb.String(),
		BBox:     model.NewBBox(first.x, first.y-0.2*height, last.x+last.width-first.x, height),
		FontSize: first.size,
		FontName: first.font,
	}
}
