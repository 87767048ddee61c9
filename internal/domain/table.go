package domain

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ResultTable is a query result prior to text rendering.
type ResultTable struct {
	// Header holds column names; nil when the store could not name the columns.
	Header []string
	Rows   [][]string
}

// AddRow appends one rendered row.
func (t *ResultTable) AddRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out as borderless text: every column padded to its
// widest cell, columns separated by a single space, one line per row.
func (t ResultTable) Render() string {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return ""
	}

	widths := t.columnWidths()

	var b strings.Builder
	if len(t.Header) > 0 {
		writeRow(&b, t.Header, widths)
	}
	for _, row := range t.Rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func (t ResultTable) columnWidths() []int {
	numCols := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)
	for i, h := range t.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == len(widths)-1 {
			b.WriteString(cell)
			continue
		}
		b.WriteString(runewidth.FillRight(cell, widths[i]))
	}
	b.WriteByte('\n')
}
