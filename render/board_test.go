package render

import (
	"testing"
	"time"

	"github.com/amonks/tareas/task"
)

func sampleTasks(n int) []task.Task {
	items := make([]task.Task, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, task.Task{
			ID:          i,
			Title:       "Tarea",
			Description: "Detalle",
			Status:      task.StatusPending,
			Priority:    task.PriorityHigh,
		})
	}
	return items
}

func TestNewBoardCardCountMatchesItems(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		board := NewBoard(task.Page{Items: sampleTasks(n)}, Options{})
		if len(board.Cards) != n {
			t.Fatalf("expected %d cards, got %d", n, len(board.Cards))
		}
		if board.Empty != (n == 0) {
			t.Fatalf("expected empty=%v for %d items", n == 0, n)
		}
		if n == 0 && board.Placeholder != Placeholder {
			t.Fatalf("expected placeholder, got %q", board.Placeholder)
		}
		if n > 0 && board.Placeholder != "" {
			t.Fatalf("expected no placeholder, got %q", board.Placeholder)
		}
	}
}

func TestNewBoardKeepsServerOrder(t *testing.T) {
	items := []task.Task{{ID: 9}, {ID: 3}, {ID: 5}}
	board := NewBoard(task.Page{Items: items}, Options{})
	for i, want := range []int{9, 3, 5} {
		if board.Cards[i].ID != want {
			t.Fatalf("card %d: expected id %d, got %d", i, want, board.Cards[i].ID)
		}
	}
}

func TestNewCardLabelsAndDueDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	due := task.NewTimestamp(time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC))
	card := NewCard(task.Task{
		ID:       4,
		Title:    "Informe",
		Status:   task.StatusInProgress,
		Priority: task.PriorityMedium,
		DueAt:    due,
	}, loc)

	if card.StatusLabel != "En Progreso" {
		t.Fatalf("unexpected status label %q", card.StatusLabel)
	}
	if card.PriorityLabel != "Media" {
		t.Fatalf("unexpected priority label %q", card.PriorityLabel)
	}
	if card.Due != "01/04/2026, 09:30" {
		t.Fatalf("unexpected due %q", card.Due)
	}
}

func TestNewCardWithoutDueDate(t *testing.T) {
	card := NewCard(task.Task{ID: 1, Status: "archivada"}, nil)
	if card.Due != "" {
		t.Fatalf("expected blank due, got %q", card.Due)
	}
	if card.StatusLabel != "archivada" {
		t.Fatalf("expected raw status label, got %q", card.StatusLabel)
	}
}

func TestPagerControls(t *testing.T) {
	cases := []struct {
		name       string
		pagination task.Pagination
		wantPrev   bool
		wantNext   bool
		wantInfo   string
	}{
		{name: "first page", pagination: task.Pagination{CurrentPage: 1, TotalPages: 3, HasNext: true}, wantNext: true, wantInfo: "Página 1 de 3"},
		{name: "middle page", pagination: task.Pagination{CurrentPage: 2, TotalPages: 3, HasNext: true}, wantPrev: true, wantNext: true, wantInfo: "Página 2 de 3"},
		{name: "last page", pagination: task.Pagination{CurrentPage: 3, TotalPages: 3}, wantPrev: true, wantInfo: "Página 3 de 3"},
		{name: "empty collection", pagination: task.Pagination{CurrentPage: 1, TotalPages: 0}, wantInfo: "Página 1 de 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			board := NewBoard(task.Page{Pagination: tc.pagination}, Options{Paging: true})
			if board.Pager == nil {
				t.Fatalf("expected pager")
			}
			pager := board.Pager
			if pager.HasPrev != tc.wantPrev || pager.HasNext != tc.wantNext {
				t.Fatalf("expected prev=%v next=%v, got %+v", tc.wantPrev, tc.wantNext, pager)
			}
			if pager.Info != tc.wantInfo {
				t.Fatalf("expected info %q, got %q", tc.wantInfo, pager.Info)
			}
			if tc.wantPrev && pager.PrevPage != pager.CurrentPage-1 {
				t.Fatalf("unexpected prev page %d", pager.PrevPage)
			}
			if tc.wantNext && pager.NextPage != pager.CurrentPage+1 {
				t.Fatalf("unexpected next page %d", pager.NextPage)
			}
		})
	}
}

func TestNewBoardWithoutPaging(t *testing.T) {
	board := NewBoard(task.Page{Pagination: task.Pagination{CurrentPage: 2, HasNext: true}}, Options{})
	if board.Pager != nil {
		t.Fatalf("expected no pager, got %+v", board.Pager)
	}
}
