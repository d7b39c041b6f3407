package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/amonks/tareas/task"
)

func TestTextRendersCardsAndPager(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	page := task.Page{
		Items: []task.Task{{
			ID:          7,
			Title:       "Preparar informe",
			Description: "Cifras del trimestre",
			Status:      task.StatusCompleted,
			Priority:    task.PriorityLow,
		}},
		Pagination: task.Pagination{CurrentPage: 2, TotalPages: 2},
	}
	output := Text(NewBoard(page, Options{Paging: true}), 60)

	for _, want := range []string{"#7", "Preparar informe", "Cifras del trimestre", "Completada", "Baja", PrevLabel, "Página 2 de 2"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, NextLabel) {
		t.Fatalf("expected no next control on last page, got:\n%s", output)
	}
	if strings.Contains(output, DuePrefix) {
		t.Fatalf("expected no due line, got:\n%s", output)
	}
}

func TestTextShowsPlaceholder(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	output := Text(NewBoard(task.Page{}, Options{}), 40)
	if !strings.Contains(output, Placeholder) {
		t.Fatalf("expected placeholder, got %q", output)
	}
}

func TestTableRows(t *testing.T) {
	page := task.Page{
		Items:      []task.Task{{ID: 1, Title: "Línea\nuno", Status: task.StatusPending, Priority: task.PriorityHigh}},
		Pagination: task.Pagination{CurrentPage: 1, TotalPages: 1},
	}
	output := Table(NewBoard(page, Options{Paging: true}))
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, row and pager lines, got %q", output)
	}
	if !strings.HasPrefix(lines[0], "ID  TITULO") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Línea uno") || !strings.HasSuffix(lines[1], "-") {
		t.Fatalf("unexpected row %q", lines[1])
	}
	if lines[2] != "Página 1 de 1" {
		t.Fatalf("unexpected pager line %q", lines[2])
	}
}

func TestTruncateTableCellCountsWidth(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"
	if got := TruncateTableCell(value); got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
	long := strings.Repeat("b", tableCellMaxWidth+5)
	got := TruncateTableCell(long)
	if !strings.HasSuffix(got, tableCellEllipsis) || len(got) != tableCellMaxWidth {
		t.Fatalf("unexpected truncation %q", got)
	}
}
