// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/danielhkuo/barcode-trace/models"
)

var terminalColors = map[string]*color.Color{
	Green:  color.New(color.BgGreen, color.FgBlack),
	Yellow: color.New(color.BgYellow, color.FgBlack),
	Red:    color.New(color.BgRed, color.FgWhite),
}

// Terminal prints each row as an aligned column/value list, coloring
// values the same way the HTML table does.
func (s *Styler) Terminal(w io.Writer, rs models.RowSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, row := range rs.Rows {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "# row %d\n", i+1)
		for j, c := range row {
			column := ""
			if j < len(rs.Columns) {
				column = rs.Columns[j]
			}
			text := c.Text()
			if col, ok := terminalColors[s.Color(column, text)]; ok {
				text = col.Sprint(text)
			}
			fmt.Fprintf(tw, "%s\t%s\n", column, text)
		}
	}
	return tw.Flush()
}
