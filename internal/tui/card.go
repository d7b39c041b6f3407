package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/render"
)

type cardItem struct {
	card render.Card
}

func (item cardItem) FilterValue() string {
	return item.card.Title
}

type cardDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
}

func newCardDelegate() cardDelegate {
	return cardDelegate{
		normalStyle:   cardNormalStyle,
		selectedStyle: cardSelectedStyle,
	}
}

func (d cardDelegate) Height() int                             { return 3 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(cardItem)
	if !ok {
		return
	}
	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	}
	lines := formatCardLines(item.card, m.Width())
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

func formatCardLines(card render.Card, width int) []string {
	title := strings.TrimSpace(card.Title)
	if title == "" {
		title = "(sin título)"
	}
	meta := card.StatusLabel + " · " + card.PriorityLabel
	if card.Due != "" {
		meta += " · " + render.DuePrefix + card.Due
	}
	description := internalstrings.NormalizeWhitespace(card.Description)
	if description == "" {
		description = "-"
	}
	return []string{
		truncateText(fmt.Sprintf("#%d  %s", card.ID, title), width),
		truncateText("    "+meta, width),
		truncateText("    "+description, width),
	}
}

func cardItems(board *render.Board) []list.Item {
	if board == nil {
		return nil
	}
	items := make([]list.Item, 0, len(board.Cards))
	for _, card := range board.Cards {
		items = append(items, cardItem{card: card})
	}
	return items
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return runewidth.Truncate(value, width, "...")
}
