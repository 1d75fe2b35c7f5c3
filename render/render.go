// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danielhkuo/barcode-trace/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// ResultPage is the data behind result.html. Table takes precedence over
// Message.
type ResultPage struct {
	Barcode  string
	Table    template.HTML
	Message  string
	Summary  string
	Warnings []string
}

type cell struct {
	HTML  template.HTML
	Color string
}

type tableData struct {
	Columns []string
	Rows    [][]cell
}

// Renderer turns row sets into HTML.
type Renderer struct {
	styler *Styler
	policy *bluemonday.Policy
	pages  *template.Template
}

func New(styler *Styler) (*Renderer, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if styler == nil {
		styler = DefaultStyler("")
	}
	return &Renderer{
		styler: styler,
		policy: bluemonday.UGCPolicy(),
		pages:  pages,
	}, nil
}

// Table renders rs as an HTML table. Each cell is sanitized, so inline
// markup from CSV files survives while scripts do not, and colored by the
// styler.
func (r *Renderer) Table(rs models.RowSet) (template.HTML, error) {
	data := tableData{Columns: rs.Columns}
	for _, row := range rs.Rows {
		cells := make([]cell, len(row))
		for i, c := range row {
			column := ""
			if i < len(rs.Columns) {
				column = rs.Columns[i]
			}
			text := c.Text()
			cells[i] = cell{
				HTML:  template.HTML(r.policy.Sanitize(text)),
				Color: r.styler.Color(column, text),
			}
		}
		data.Rows = append(data.Rows, cells)
	}

	var buf bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buf, "table.html", data); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Index writes the landing page.
func (r *Renderer) Index(w io.Writer) error {
	return r.pages.ExecuteTemplate(w, "index.html", nil)
}

// Result writes the result page.
func (r *Renderer) Result(w io.Writer, page ResultPage) error {
	return r.pages.ExecuteTemplate(w, "result.html", page)
}

// NoRowMessage is shown when a lookup matches nothing.
func NoRowMessage(barcode string) string {
	return fmt.Sprintf("No row found for BARCODE %s.", barcode)
}
