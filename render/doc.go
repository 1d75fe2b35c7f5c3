// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package render draws lookup results as HTML pages and terminal output.

# Styling

A Styler maps (column, cell text) to a background color. The default rules
color OK green, None yellow and BB red in any column; DefaultStyler("Judgement")
limits them to one column.

# HTML

	r, _ := render.New(render.DefaultStyler(""))
	fragment, _ := r.Table(rows)
	r.Result(w, render.ResultPage{Barcode: "123", Table: fragment})

A highlighted cell renders as

	<td style="background-color: green;">OK</td>

Cell text goes through a bluemonday UGC policy before it is emitted.

# Terminal

	styler.Terminal(os.Stdout, rows)

prints one block per row with colored values.
*/
package render
