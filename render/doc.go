// Package render turns validated tables into canonical text blocks.
//
// The [Renderer] supports four output formats:
//
//	r := render.NewRenderer()
//	md := r.Render(table)
//
//   - Markdown - pipe table with per-column alignment and optional caption
//   - CSV - RFC 4180 records
//   - HTML - a plain <table> element
//   - PlainText - columns padded to equal display width
//
// Header resolution lives here too: [Headers] decides whether the first row
// of a table is a real header or whether headers must be synthesized from
// the column contents. Rendering is pure; the same table always produces
// byte-identical output.
package render
