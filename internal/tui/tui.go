// Package tui is the interactive terminal front end for the task list.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/render"
	"github.com/amonks/tareas/task"
	"github.com/amonks/tareas/tasklist"
)

type screen int

const (
	screenList screen = iota
	screenSearch
	screenForm
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalConfirmDelete
	modalAlert
)

type model struct {
	ctx         context.Context
	controller  *tasklist.Controller
	width       int
	height      int
	screen      screen
	board       *render.Board
	taskList    list.Model
	search      textinput.Model
	form        formModel
	modal       confirmModal
	status      string
	statusLevel statusLevel
	loading     bool
}

type confirmModal struct {
	kind        modalKind
	message     string
	confirmText string
	cancelText  string
	selected    int
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, controller *tasklist.Controller) error {
	if controller == nil {
		return fmt.Errorf("task list controller is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(ctx, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, controller *tasklist.Controller) model {
	taskList := list.New(nil, newCardDelegate(), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetFilteringEnabled(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)

	search := textinput.New()
	search.Prompt = "Buscar: "
	search.Placeholder = "título o descripción"

	return model{
		ctx:        ctx,
		controller: controller,
		taskList:   taskList,
		search:     search,
		modal:      confirmModal{kind: modalNone},
		loading:    true,
	}
}

func (m model) Init() tea.Cmd {
	return m.boardCmd(m.controller.Refresh)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.resize()
		return m, nil
	}

	switch msg := msg.(type) {
	case boardLoadedMsg:
		return m.handleBoardLoaded(msg)
	case formLoadedMsg:
		return m.handleFormLoaded(msg)
	case savedMsg:
		return m.handleSaved(msg)
	case deletePromptMsg:
		return m.handleDeletePrompt(msg)
	}

	if m.modal.kind != modalNone {
		return m.updateModal(msg)
	}

	switch m.screen {
	case screenSearch:
		return m.updateSearch(msg)
	case screenForm:
		return m.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Cargando tareas..."
	}

	var body string
	switch m.screen {
	case screenForm:
		body = paneStyle.Width(m.width - 2).Render(m.form.View())
	default:
		body = m.renderBoard()
	}

	parts := []string{m.renderHeader()}
	if m.screen == screenSearch {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, body)
	if line := m.renderStatusLine(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, helpBarStyle.Render(truncateText(m.helpSummary(), m.width)))

	view := strings.Join(parts, "\n")
	if m.modal.kind != modalNone {
		view = m.renderModalOverlay(view)
	}
	return view
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.modal = confirmModal{kind: modalHelp}
		return m, nil
	case "up", "k":
		m.moveSelection(-1)
		return m, nil
	case "down", "j":
		m.moveSelection(1)
		return m, nil
	case "r":
		return m.load(m.controller.Refresh)
	case "s":
		next := nextStatus(m.controller.State().Status)
		return m.load(func(ctx context.Context) (*render.Board, error) {
			return m.controller.SetStatusFilter(ctx, next)
		})
	case "p":
		next := nextPriority(m.controller.State().Priority)
		return m.load(func(ctx context.Context) (*render.Board, error) {
			return m.controller.SetPriorityFilter(ctx, next)
		})
	case "z":
		if !m.controller.Paging() {
			return m, nil
		}
		next := tasklist.NextPageSize(m.controller.State().PageSize)
		return m.load(func(ctx context.Context) (*render.Board, error) {
			return m.controller.SetPageSize(ctx, next)
		})
	case "c":
		return m.load(m.controller.ClearFilters)
	case "/":
		if !m.controller.Paging() {
			return m, nil
		}
		m.screen = screenSearch
		m.search.SetValue(m.controller.State().Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "left", "h", "[":
		if m.board == nil || m.board.Pager == nil || !m.board.Pager.HasPrev {
			return m, nil
		}
		return m.load(m.controller.PrevPage)
	case "right", "l", "]":
		if m.board == nil || m.board.Pager == nil || !m.board.Pager.HasNext {
			return m, nil
		}
		return m.load(m.controller.NextPage)
	case "n":
		m.openForm(m.controller.NewForm())
		return m, nil
	case "e", "enter":
		card, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		return m, m.editFormCmd(card.ID)
	case "d", "x":
		card, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		return m, m.requestDeleteCmd(card.ID)
	}
	return m, nil
}

func (m model) load(fn func(context.Context) (*render.Board, error)) (tea.Model, tea.Cmd) {
	m.loading = true
	return m, m.boardCmd(fn)
}

func (m *model) moveSelection(delta int) {
	items := m.taskList.Items()
	if len(items) == 0 {
		return
	}
	next := m.taskList.Index() + delta
	if next < 0 {
		next = 0
	}
	if next >= len(items) {
		next = len(items) - 1
	}
	m.taskList.Select(next)
}

func (m model) selectedCard() (render.Card, bool) {
	item := m.taskList.SelectedItem()
	if item == nil {
		return render.Card{}, false
	}
	current, ok := item.(cardItem)
	return current.card, ok
}

func (m model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			value := m.search.Value()
			m.search.Blur()
			m.screen = screenList
			return m.load(func(ctx context.Context) (*render.Board, error) {
				return m.controller.SetSearch(ctx, value)
			})
		case "esc":
			m.search.Blur()
			m.screen = screenList
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *model) openForm(draft task.Draft) {
	m.form = newFormModel(draft)
	m.form.SetWidth(m.width - 6)
	m.screen = screenForm
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, action := m.form.Update(msg)
	m.form = form
	switch action {
	case formSubmit:
		return m, m.submitCmd(m.form.Draft())
	case formCancel:
		m.screen = screenList
		m.setStatus("Edición cancelada", statusInfo)
		return m, nil
	}
	return m, cmd
}

func (m model) handleBoardLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	if tasklist.IsSuperseded(msg.err) {
		// The change already happened; a newer load brings the board.
		if msg.notice != "" {
			m.setStatus(msg.notice, statusInfo)
		}
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		return m.alert(tasklist.UserMessage(msg.err)), nil
	}
	m.setBoard(msg.board)
	if msg.notice != "" {
		m.setStatus(msg.notice, statusInfo)
	}
	return m, nil
}

func (m *model) setBoard(board *render.Board) {
	if board == nil {
		return
	}
	m.board = board
	index := m.taskList.Index()
	m.taskList.SetItems(cardItems(board))
	if index >= len(board.Cards) {
		index = len(board.Cards) - 1
	}
	if index < 0 {
		index = 0
	}
	m.taskList.Select(index)
}

func (m model) handleFormLoaded(msg formLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.alert(tasklist.UserMessage(msg.err)), nil
	}
	m.openForm(msg.draft)
	return m, nil
}

func (m model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.result.Task == nil {
		// The form stays open so the user can correct it.
		return m.alert(tasklist.UserMessage(msg.err)), nil
	}
	m.screen = screenList
	m.setBoard(msg.result.Board)
	if msg.err != nil && !tasklist.IsSuperseded(msg.err) {
		return m.alert(tasklist.UserMessage(msg.err)), nil
	}
	if msg.result.Created {
		m.setStatus("Tarea creada", statusInfo)
	} else {
		m.setStatus("Tarea actualizada", statusInfo)
	}
	return m, nil
}

func (m model) handleDeletePrompt(msg deletePromptMsg) (tea.Model, tea.Cmd) {
	if tasklist.IsSuperseded(msg.err) {
		return m, nil
	}
	if msg.err != nil {
		return m.alert(tasklist.UserMessage(msg.err)), nil
	}
	m.modal = confirmModal{
		kind:        modalConfirmDelete,
		message:     msg.confirmation.Prompt,
		confirmText: "Eliminar",
		cancelText:  "Cancelar",
		selected:    1,
	}
	return m, nil
}

func (m model) alert(message string) model {
	m.modal = confirmModal{kind: modalAlert, message: message, confirmText: "Aceptar"}
	m.setStatus(message, statusError)
	return m
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.modal.kind {
	case modalHelp:
		switch key.String() {
		case "?", "esc", "enter":
			m.modal = confirmModal{kind: modalNone}
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	case modalAlert:
		switch key.String() {
		case "enter", "esc", " ":
			m.modal = confirmModal{kind: modalNone}
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab", "backtab":
		m.modal.selected = 1 - m.modal.selected
		return m, nil
	case "enter":
		return m.resolveModal(m.modal.selected == 0)
	case "y", "s":
		return m.resolveModal(true)
	case "n":
		return m.resolveModal(false)
	case "esc":
		m.modal = confirmModal{kind: modalNone}
		m.controller.DismissConfirm()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	kind := m.modal.kind
	m.modal = confirmModal{kind: modalNone}
	if kind != modalConfirmDelete {
		return m, nil
	}
	if !confirm {
		m.controller.CancelDelete()
		return m, nil
	}
	return m, m.deleteCmd()
}

func (m *model) resize() {
	listHeight := m.height - 5
	if listHeight < 1 {
		listHeight = 1
	}
	m.taskList.SetSize(m.width, listHeight)
	m.search.Width = m.width - len(m.search.Prompt) - 1
	if m.screen == screenForm {
		m.form.SetWidth(m.width - 6)
	}
}

func (m model) renderHeader() string {
	state := m.controller.State()
	filters := []string{
		"Estado: " + statusFilterLabel(state.Status),
		"Prioridad: " + priorityFilterLabel(state.Priority),
	}
	if m.controller.Paging() {
		search := state.Search
		if search == "" {
			search = "-"
		}
		filters = append(filters, "Buscar: "+search, "Por página: "+strconv.Itoa(state.PageSize))
	}
	title := headerStyle.Render("Tareas")
	summary := filterStyle.Render(strings.Join(filters, " | "))
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, summary)
	return truncateText(line, m.width)
}

func (m model) renderBoard() string {
	if m.board == nil {
		return valueMuted.Render("Cargando tareas...")
	}
	var parts []string
	if m.board.Empty {
		parts = append(parts, valueMuted.Render(m.board.Placeholder))
	} else {
		parts = append(parts, m.taskList.View())
	}
	if m.board.Pager != nil {
		parts = append(parts, render.PagerText(*m.board.Pager))
	}
	return strings.Join(parts, "\n")
}

func (m model) renderStatusLine() string {
	text := m.status
	if m.loading {
		text = "Cargando..."
	}
	if internalstrings.IsBlank(text) {
		return ""
	}
	style := valueMuted
	if m.statusLevel == statusError && !m.loading {
		style = statusErrorStyle
	} else if m.statusLevel == statusInfo && !m.loading {
		style = statusSuccessStyle
	}
	return style.Render(text)
}

func (m model) helpSummary() string {
	switch m.screen {
	case screenSearch:
		return "enter buscar | esc cancelar"
	case screenForm:
		return "tab campo | ctrl+s guardar | esc cancelar"
	}
	return "↑/↓ mover | n nueva | e editar | d eliminar | s estado | p prioridad | / buscar | ←/→ página | ? ayuda | q salir"
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) renderModalOverlay(content string) string {
	if m.modal.kind == modalNone {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
}

func (m model) modalView() string {
	switch m.modal.kind {
	case modalHelp:
		return modalStyle.Render(m.helpContent())
	case modalAlert:
		return modalStyle.Render(strings.Join([]string{m.modal.message, "", selectedBorder.Render("[" + m.modal.confirmText + "]")}, "\n"))
	}
	options := []string{m.modal.confirmText, m.modal.cancelText}
	buttons := make([]string, 0, len(options))
	for i, option := range options {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedBorder
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := strings.Join([]string{m.modal.message, "", strings.Join(buttons, " ")}, "\n")
	return modalStyle.Render(content)
}

func (m model) helpContent() string {
	sections := []string{
		labelStyle.Render("General"),
		"q o ctrl+c: salir",
		"?: mostrar u ocultar ayuda",
		"r: recargar",
		"",
		labelStyle.Render("Lista"),
		"↑/↓ o j/k: mover selección",
		"←/→ o [/]: página anterior/siguiente",
		"s: cambiar filtro de estado",
		"p: cambiar filtro de prioridad",
		"/: buscar",
		"z: cambiar tareas por página",
		"c: limpiar filtros",
		"",
		labelStyle.Render("Tareas"),
		"n: nueva tarea",
		"e o enter: editar tarea",
		"d: eliminar tarea",
		"",
		labelStyle.Render("Ayuda"),
		"pulse ? o esc para cerrar",
	}
	return strings.Join(sections, "\n")
}

func nextStatus(current task.Status) task.Status {
	options := append([]task.Status{""}, task.ValidStatuses()...)
	for i, option := range options {
		if option == current {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func nextPriority(current task.Priority) task.Priority {
	options := append([]task.Priority{""}, task.ValidPriorities()...)
	for i, option := range options {
		if option == current {
			return options[(i+1)%len(options)]
		}
	}
	return ""
}

func statusFilterLabel(status task.Status) string {
	if status == "" {
		return "Todos"
	}
	return status.Label()
}

func priorityFilterLabel(priority task.Priority) string {
	if priority == "" {
		return "Todas"
	}
	return priority.Label()
}

func (m model) boardCmd(fn func(context.Context) (*render.Board, error)) tea.Cmd {
	return func() tea.Msg {
		board, err := fn(m.ctx)
		return boardLoadedMsg{board: board, err: err}
	}
}

func (m model) deleteCmd() tea.Cmd {
	return func() tea.Msg {
		board, err := m.controller.ConfirmDelete(m.ctx)
		return boardLoadedMsg{board: board, err: err, notice: "Tarea eliminada"}
	}
}

func (m model) editFormCmd(id int) tea.Cmd {
	return func() tea.Msg {
		draft, err := m.controller.EditForm(m.ctx, id)
		return formLoadedMsg{draft: draft, err: err}
	}
}

func (m model) submitCmd(draft task.Draft) tea.Cmd {
	return func() tea.Msg {
		result, err := m.controller.Submit(m.ctx, draft)
		return savedMsg{result: result, err: err}
	}
}

func (m model) requestDeleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		confirmation, err := m.controller.RequestDelete(m.ctx, id)
		return deletePromptMsg{confirmation: confirmation, err: err}
	}
}

type boardLoadedMsg struct {
	board  *render.Board
	err    error
	notice string
}

type formLoadedMsg struct {
	draft task.Draft
	err   error
}

type savedMsg struct {
	result tasklist.SubmitResult
	err    error
}

type deletePromptMsg struct {
	confirmation tasklist.Confirmation
	err          error
}
