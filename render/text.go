package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	internalstrings "github.com/amonks/tareas/internal/strings"
)

const minTextWidth = 20

var (
	cardBorder = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	cardStyle  = lipgloss.NewStyle().Border(cardBorder).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	statusStyles = map[string]lipgloss.Style{
		"pendiente":   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"en_progreso": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"completada":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}

	priorityStyles = map[string]lipgloss.Style{
		"baja":  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		"media": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"alta":  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// Text renders the board for a terminal of the given width.
func Text(board Board, width int) string {
	if width < minTextWidth {
		width = minTextWidth
	}
	var blocks []string
	if board.Empty {
		blocks = append(blocks, mutedStyle.Render(board.Placeholder))
	}
	for _, card := range board.Cards {
		blocks = append(blocks, CardText(card, width))
	}
	if board.Pager != nil {
		blocks = append(blocks, PagerText(*board.Pager))
	}
	return strings.Join(blocks, "\n")
}

// CardText renders a single bordered card.
func CardText(card Card, width int) string {
	// Border and padding take four columns.
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	lines := []string{
		idStyle.Render("#"+strconv.Itoa(card.ID)) + " " + titleStyle.Render(wordwrap.String(card.Title, inner)),
	}
	if description := strings.TrimSpace(card.Description); description != "" {
		description = internalstrings.NormalizeNewlines(description)
		lines = append(lines, wordwrap.String(description, inner))
	}
	meta := statusStyle(string(card.Status)).Render(card.StatusLabel) + "  " + priorityStyle(string(card.Priority)).Render(card.PriorityLabel)
	if card.Due != "" {
		meta += "  " + mutedStyle.Render(DuePrefix+card.Due)
	}
	lines = append(lines, meta)
	return cardStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// PagerText renders the pagination line. Unavailable controls are left out.
func PagerText(pager Pager) string {
	parts := make([]string, 0, 3)
	if pager.HasPrev {
		parts = append(parts, PrevLabel)
	}
	parts = append(parts, mutedStyle.Render(pager.Info))
	if pager.HasNext {
		parts = append(parts, NextLabel)
	}
	return strings.Join(parts, "  ")
}

func statusStyle(value string) lipgloss.Style {
	if style, ok := statusStyles[value]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

func priorityStyle(value string) lipgloss.Style {
	if style, ok := priorityStyles[value]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
