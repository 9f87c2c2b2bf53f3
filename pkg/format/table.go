package format

import (
	"fmt"
	"strings"
)

// Table renders rows of report data with padded columns. Rows shorter than
// the header are right-filled with empty cells.
type Table struct {
	header []string
	rows   [][]string
}

func (t *Table) WithHeader(columns ...string) *Table {
	t.header = columns
	return t
}

func (t *Table) WithRow(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

func (t *Table) String() string {
	widths := make([]int, len(t.header))
	for i, column := range t.header {
		widths[i] = len(column)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range t.header {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(fmt.Sprintf("%-*s", widths[i], cell))
		}
		sb.WriteString("\n")
	}

	writeRow(t.header)
	total := len(t.header) - 1
	for _, w := range widths {
		total += w + 1
	}
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteString("\n")
	for _, row := range t.rows {
		writeRow(row)
	}
	return sb.String()
}
