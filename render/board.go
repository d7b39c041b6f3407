// Package render turns a page of tasks into display models and text.
package render

import (
	"fmt"
	"time"

	"github.com/amonks/tareas/task"
)

// Placeholder is shown in place of cards when a page has no items.
const Placeholder = "No hay tareas que mostrar"

// DueLayout formats due dates the way es-ES locales display them.
const DueLayout = "02/01/2006, 15:04"

// DuePrefix labels the due date on a card.
const DuePrefix = "Vence: "

// Pager control labels.
const (
	PrevLabel = "« Anterior"
	NextLabel = "Siguiente »"
)

// Options configures NewBoard.
type Options struct {
	// Paging enables the pager.
	Paging bool

	// Location is used to display due dates. Nil means time.Local.
	Location *time.Location
}

// Card is the display model of a single task.
type Card struct {
	ID            int
	Title         string
	Description   string
	Status        task.Status
	StatusLabel   string
	Priority      task.Priority
	PriorityLabel string

	// Due is the formatted due date, blank when the task has none.
	Due string
}

// Pager is the display model of the pagination controls.
type Pager struct {
	Info        string
	CurrentPage int
	TotalPages  int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// Board is everything a front end needs to draw one page.
type Board struct {
	Cards       []Card
	Empty       bool
	Placeholder string

	// Pager is nil when paging is disabled.
	Pager *Pager
}

// NewBoard builds the display model for page. Cards keep the server order.
func NewBoard(page task.Page, opts Options) Board {
	board := Board{Cards: make([]Card, 0, len(page.Items))}
	for _, item := range page.Items {
		board.Cards = append(board.Cards, NewCard(item, opts.Location))
	}
	if len(board.Cards) == 0 {
		board.Empty = true
		board.Placeholder = Placeholder
	}
	if opts.Paging {
		pager := NewPager(page.Pagination)
		board.Pager = &pager
	}
	return board
}

// NewCard builds the display model for one task.
func NewCard(item task.Task, loc *time.Location) Card {
	card := Card{
		ID:            item.ID,
		Title:         item.Title,
		Description:   item.Description,
		Status:        item.Status,
		StatusLabel:   item.Status.Label(),
		Priority:      item.Priority,
		PriorityLabel: item.Priority.Label(),
	}
	if item.DueAt != nil && !item.DueAt.IsZero() {
		card.Due = FormatDue(item.DueAt.In(loc), loc)
	}
	return card
}

// NewPager builds the pagination controls. Previous is offered past the
// first page and Next whenever the server reports more results.
func NewPager(p task.Pagination) Pager {
	current := p.CurrentPage
	if current < 1 {
		current = 1
	}
	total := p.TotalPages
	if total < 1 {
		total = 1
	}
	pager := Pager{
		Info:        fmt.Sprintf("Página %d de %d", current, total),
		CurrentPage: current,
		TotalPages:  total,
		HasPrev:     current > 1,
		HasNext:     p.HasNext,
	}
	if pager.HasPrev {
		pager.PrevPage = current - 1
	}
	if pager.HasNext {
		pager.NextPage = current + 1
	}
	return pager
}

// FormatDue formats t in loc using DueLayout. Nil loc means time.Local.
func FormatDue(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DueLayout)
}
