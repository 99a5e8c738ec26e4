package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table writes an aligned plain-text table. Numeric-looking cells are
// right-aligned, everything else left.
func Table(w io.Writer, headers []string, rows [][]string) error {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	rightAlign := make([]bool, colCount)
	for i := range rightAlign {
		rightAlign[i] = len(rows) > 0
	}
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
			if !numericCell(cell) {
				rightAlign[i] = false
			}
		}
	}

	if err := writeRow(w, headers, widths, rightAlign); err != nil {
		return err
	}
	separators := make([]string, colCount)
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	if err := writeRow(w, separators, widths, rightAlign); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(w, row, widths, rightAlign); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, row []string, widths []int, rightAlign []bool) error {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, width, rightAlign[i]))
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	return err
}

func padCell(value string, width int, rightAlign bool) string {
	padding := width - runewidth.StringWidth(value)
	if padding <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func numericCell(value string) bool {
	if value == "" {
		return true
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == ',' || r == '-' || r == '%':
		default:
			return false
		}
	}
	return true
}
