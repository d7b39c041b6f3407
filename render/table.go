package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

var tableHeaders = []string{"ID", "TITULO", "ESTADO", "PRIORIDAD", "VENCE"}

// Table renders the board as an aligned table, one row per card, with the
// placeholder or pager info on a trailing line.
func Table(board Board) string {
	rows := make([][]string, 0, len(board.Cards))
	for _, card := range board.Cards {
		due := card.Due
		if due == "" {
			due = "-"
		}
		rows = append(rows, []string{
			strconv.Itoa(card.ID),
			TruncateTableCell(card.Title),
			card.StatusLabel,
			card.PriorityLabel,
			due,
		})
	}

	var builder strings.Builder
	if board.Empty {
		builder.WriteString(board.Placeholder)
		builder.WriteByte('\n')
	} else {
		builder.WriteString(FormatTable(tableHeaders, rows))
	}
	if board.Pager != nil {
		builder.WriteString(board.Pager.Info)
		builder.WriteByte('\n')
	}
	return builder.String()
}

// FormatTable renders headers and rows as an aligned table.
func FormatTable(headers []string, rows [][]string) string {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeTableCell(header)
	}
	normalizedRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		normalizedRow := make([]string, len(row))
		for i, cell := range row {
			normalizedRow[i] = normalizeTableCell(cell)
		}
		normalizedRows = append(normalizedRows, normalizedRow)
	}

	widths := make([]int, len(normalizedHeaders))
	for i, header := range normalizedHeaders {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range normalizedRows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	var builder strings.Builder
	writeRow := func(row []string) {
		for i, cell := range row {
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteByte('\n')
				continue
			}
			padding := 0
			if i < len(widths) {
				padding = widths[i] - runewidth.StringWidth(cell)
			}
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
	}

	writeRow(normalizedHeaders)
	for _, row := range normalizedRows {
		writeRow(row)
	}
	return builder.String()
}

// TruncateTableCell limits cell width to the table maximum.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if runewidth.StringWidth(value) <= tableCellMaxWidth {
		return value
	}
	return runewidth.Truncate(value, tableCellMaxWidth, tableCellEllipsis)
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}
