package sheet

import (
	"strconv"
	"strings"
)

// Kind classifies a decoded cell.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
)

// Cell is a spreadsheet cell reduced to one of three shapes: absent, text
// or number. Matching code never sees the decoder's own cell types.
type Cell struct {
	Kind Kind
	Text string
	Num  float64
}

// TextCell returns a text cell, or an empty cell for "".
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: Number, Num: v}
}

// Classify turns a raw cell string into a cell: "" is empty, anything that
// parses as a float is a number and the rest is text.
func Classify(raw string) Cell {
	if raw == "" {
		return Cell{}
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return NumberCell(v)
	}
	return TextCell(raw)
}

// String renders the cell as it reads in a sheet. Integral numbers have no
// fractional part.
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

// IsEmpty reports whether the cell is absent or holds only whitespace.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty || (c.Kind == Text && strings.TrimSpace(c.Text) == "")
}

// Row is one sheet row. Rows may be shorter than the widest row of a sheet.
type Row []Cell

// At returns the cell at a 0-based column index. Columns past the end of
// the row are empty.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}
