// Package table renders the submitted-events list as an aligned text table.
package table

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"eventadmin/internal/model"
)

// EmptyMessage is printed instead of a table when nothing was submitted.
const EmptyMessage = "No events added yet."

// Render writes events to w under the Title ... Admin Approval header.
// Cells wider than maxWidth display columns are truncated with "…";
// maxWidth <= 0 disables truncation. Newlines inside a cell are folded
// to spaces so each event stays on one line.
func Render(w io.Writer, events []model.Event, maxWidth int) error {
	if len(events) == 0 {
		_, err := io.WriteString(w, EmptyMessage+"\n")
		return err
	}

	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, model.Columns)
	for _, ev := range events {
		row := ev.Row()
		for i, cell := range row {
			row[i] = cleanCell(cell, maxWidth)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(model.Columns))
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	writeRow(&b, rows[0], widths)
	writeSeparator(&b, widths)
	for _, row := range rows[1:] {
		writeRow(&b, row, widths)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cleanCell(s string, maxWidth int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxWidth > 0 && runewidth.StringWidth(s) > maxWidth {
		s = runewidth.Truncate(s, maxWidth, "…")
	}
	return s
}

func writeRow(b *strings.Builder, row []string, widths []int) {
	b.WriteString("|")
	for i, cell := range row {
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
}
