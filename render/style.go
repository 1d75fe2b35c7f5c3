// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

// Highlight colors
const (
	Green  = "green"
	Yellow = "yellow"
	Red    = "red"
)

// Rule colors a cell whose display text equals Value. An empty Column
// matches every column.
type Rule struct {
	Column string
	Value  string
	Color  string
}

// DefaultRules are the judgement markers.
var DefaultRules = []Rule{
	{Value: "OK", Color: Green},
	{Value: "None", Color: Yellow},
	{Value: "BB", Color: Red},
}

// Styler picks a background color per cell.
type Styler struct {
	rules []Rule
}

func NewStyler(rules ...Rule) *Styler {
	return &Styler{rules: rules}
}

// DefaultStyler returns the default rules, limited to column when it is
// not empty.
func DefaultStyler(column string) *Styler {
	rules := make([]Rule, len(DefaultRules))
	for i, r := range DefaultRules {
		r.Column = column
		rules[i] = r
	}
	return NewStyler(rules...)
}

// Color returns the background color for a cell, or "" for none. The first
// matching rule wins.
func (s *Styler) Color(column, text string) string {
	for _, r := range s.rules {
		if r.Column != "" && r.Column != column {
			continue
		}
		if r.Value == text {
			return r.Color
		}
	}
	return ""
}
