package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/internal/fakeapi"
	"github.com/amonks/tareas/task"
	"github.com/amonks/tareas/tasklist"
)

func useASCIIRenderer(t *testing.T) {
	originalProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(originalProfile)
	})
}

func newTestModel(t *testing.T, seed int) (model, *fakeapi.Server) {
	t.Helper()
	useASCIIRenderer(t)
	backend := fakeapi.New()
	for i := 0; i < seed; i++ {
		backend.Seed(task.Payload{
			Title:       "Tarea " + string(rune('A'+i)),
			Description: "Descripción",
			Status:      task.StatusPending,
			Priority:    task.PriorityLow,
		})
	}
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	controller := tasklist.New(api.NewClient(api.Options{BaseURL: server.URL}), tasklist.WithPaging(true))
	m := newModel(context.Background(), controller)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = run(t, m, m.Init())
	return m, backend
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

// press delivers a key and runs the command it returns, feeding the result
// back into the model.
func press(t *testing.T, m model, key tea.KeyMsg) model {
	t.Helper()
	next, cmd := m.Update(key)
	return run(t, next.(model), cmd)
}

func run(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	return send(t, m, cmd())
}

func runes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func typeText(t *testing.T, m model, value string) model {
	t.Helper()
	for _, r := range value {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestInitialLoadRendersCards(t *testing.T) {
	m, _ := newTestModel(t, 2)

	view := m.View()
	for _, want := range []string{"Tareas", "#1  Tarea A", "#2  Tarea B", "Página 1 de 1", "Estado: Todos"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestEmptyListShowsPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, 0)

	view := m.View()
	if !strings.Contains(view, "No hay tareas que mostrar") {
		t.Fatalf("expected placeholder, got:\n%s", view)
	}
	if !strings.Contains(view, "Página 1 de 1") {
		t.Fatalf("expected pager on empty list, got:\n%s", view)
	}
}

func TestLoadFailureShowsAlert(t *testing.T) {
	useASCIIRenderer(t)
	backend := fakeapi.New()
	backend.FailNext(http.MethodGet, http.StatusInternalServerError, nil)
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	controller := tasklist.New(api.NewClient(api.Options{BaseURL: server.URL}))
	m := newModel(context.Background(), controller)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = run(t, m, m.Init())

	if m.modal.kind != modalAlert {
		t.Fatalf("expected alert, got modal %v", m.modal.kind)
	}
	if !strings.Contains(m.View(), api.MessageListFailed) {
		t.Fatalf("expected list failure message, got:\n%s", m.View())
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.kind != modalNone {
		t.Fatalf("expected alert to close, got %v", m.modal.kind)
	}
}

func TestSupersededLoadIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m = send(t, m, boardLoadedMsg{err: tasklist.ErrSuperseded})
	if m.modal.kind != modalNone {
		t.Fatalf("expected no modal, got %v", m.modal.kind)
	}
	if !strings.Contains(m.View(), "#1  Tarea A") {
		t.Fatalf("expected board to survive, got:\n%s", m.View())
	}
}

func TestSupersededLoadStillShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m = send(t, m, boardLoadedMsg{err: tasklist.ErrSuperseded, notice: "Tarea eliminada"})
	if m.status != "Tarea eliminada" {
		t.Fatalf("expected delete notice, got %q", m.status)
	}
	if m.modal.kind != modalNone {
		t.Fatalf("expected no modal, got %v", m.modal.kind)
	}
}

func TestSupersededDeletePromptIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, 1)

	m = send(t, m, deletePromptMsg{err: tasklist.ErrSuperseded})
	if m.modal.kind != modalNone {
		t.Fatalf("expected no modal, got %v", m.modal.kind)
	}
}

func TestDeleteConfirmRemovesTask(t *testing.T) {
	m, backend := newTestModel(t, 1)

	m = press(t, m, runes("d"))
	if m.modal.kind != modalConfirmDelete {
		t.Fatalf("expected confirm modal, got %v", m.modal.kind)
	}
	if !strings.Contains(m.View(), `¿Desea eliminar la tarea "Tarea A"?`) {
		t.Fatalf("expected prompt, got:\n%s", m.View())
	}
	if m.modal.selected != 1 {
		t.Fatalf("expected cancel to be selected by default")
	}

	m = press(t, m, runes("y"))
	if backend.Len() != 0 {
		t.Fatalf("expected task to be deleted, %d left", backend.Len())
	}
	if m.status != "Tarea eliminada" {
		t.Fatalf("expected delete status, got %q", m.status)
	}
	if !strings.Contains(m.View(), "No hay tareas que mostrar") {
		t.Fatalf("expected empty board, got:\n%s", m.View())
	}
}

func TestDeleteEnterOnDefaultCancels(t *testing.T) {
	m, backend := newTestModel(t, 1)

	m = press(t, m, runes("d"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if backend.Len() != 1 {
		t.Fatalf("expected task to survive")
	}
	if backend.CountRequests(http.MethodDelete, "/api/tasks") != 0 {
		t.Fatalf("expected no DELETE request")
	}
	if m.controller.ConfirmState() != tasklist.ConfirmIdle {
		t.Fatalf("expected idle confirmation, got %v", m.controller.ConfirmState())
	}
}

func TestDeleteEscapeDismisses(t *testing.T) {
	m, backend := newTestModel(t, 1)

	m = press(t, m, runes("d"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal.kind != modalNone {
		t.Fatalf("expected modal to close")
	}
	if backend.CountRequests(http.MethodDelete, "/api/tasks") != 0 {
		t.Fatalf("expected no DELETE request")
	}
	if m.controller.ConfirmState() != tasklist.ConfirmIdle {
		t.Fatalf("expected idle confirmation")
	}
}

func TestCreateFromForm(t *testing.T) {
	m, backend := newTestModel(t, 0)

	m = press(t, m, runes("n"))
	if m.screen != screenForm {
		t.Fatalf("expected form screen")
	}
	if !strings.Contains(m.View(), "Nueva tarea") {
		t.Fatalf("expected form title, got:\n%s", m.View())
	}

	m = typeText(t, m, "Comprar pan")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Integral")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if backend.Len() != 1 {
		t.Fatalf("expected one task, got %d", backend.Len())
	}
	created, ok := backend.Task(1)
	if !ok || created.Title != "Comprar pan" || created.Description != "Integral" {
		t.Fatalf("unexpected task %+v", created)
	}
	if m.screen != screenList {
		t.Fatalf("expected list screen after save")
	}
	if m.status != "Tarea creada" {
		t.Fatalf("expected create status, got %q", m.status)
	}
	if !strings.Contains(m.View(), "#1  Comprar pan") {
		t.Fatalf("expected new card, got:\n%s", m.View())
	}
}

func TestInvalidFormStaysOpen(t *testing.T) {
	m, backend := newTestModel(t, 0)

	m = press(t, m, runes("n"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.screen != screenForm {
		t.Fatalf("expected form to stay open")
	}
	if m.modal.kind != modalAlert {
		t.Fatalf("expected alert, got %v", m.modal.kind)
	}
	if !strings.Contains(m.View(), task.MessageTitleRequired) {
		t.Fatalf("expected validation message, got:\n%s", m.View())
	}
	if backend.CountRequests(http.MethodPost, "/api/tasks") != 0 {
		t.Fatalf("expected no POST request")
	}
}

func TestEditLoadsExistingTask(t *testing.T) {
	m, backend := newTestModel(t, 1)

	m = press(t, m, runes("e"))
	if m.screen != screenForm {
		t.Fatalf("expected form screen")
	}
	if !strings.Contains(m.View(), "Editar tarea #1") {
		t.Fatalf("expected edit title, got:\n%s", m.View())
	}

	m = typeText(t, m, " editada")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	updated, _ := backend.Task(1)
	if updated.Title != "Tarea A editada" {
		t.Fatalf("unexpected title %q", updated.Title)
	}
	if m.status != "Tarea actualizada" {
		t.Fatalf("expected update status, got %q", m.status)
	}
}

func TestFormEscapeCancels(t *testing.T) {
	m, backend := newTestModel(t, 0)

	m = press(t, m, runes("n"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenList {
		t.Fatalf("expected list screen")
	}
	if backend.Len() != 0 {
		t.Fatalf("expected nothing to be created")
	}
}

func TestStatusFilterCycles(t *testing.T) {
	m, backend := newTestModel(t, 1)
	backend.ResetRequests()

	m = press(t, m, runes("s"))
	if got := m.controller.State().Status; got != task.ValidStatuses()[0] {
		t.Fatalf("expected first status filter, got %q", got)
	}
	requests := backend.Requests()
	if len(requests) != 1 || !strings.Contains(requests[0].Query, "estado="+string(task.ValidStatuses()[0])) {
		t.Fatalf("unexpected requests %v", requests)
	}
	if !strings.Contains(m.View(), "Estado: "+task.ValidStatuses()[0].Label()) {
		t.Fatalf("expected filter summary, got:\n%s", m.View())
	}
}

func TestPagingKeys(t *testing.T) {
	m, _ := newTestModel(t, 7)

	if !strings.Contains(m.View(), "Página 1 de 2") {
		t.Fatalf("expected first page, got:\n%s", m.View())
	}
	m = press(t, m, runes("h"))
	if m.controller.State().Page != 1 {
		t.Fatalf("expected prev on first page to be ignored")
	}

	m = press(t, m, runes("l"))
	if m.controller.State().Page != 2 {
		t.Fatalf("expected page 2, got %d", m.controller.State().Page)
	}
	if !strings.Contains(m.View(), "Página 2 de 2") {
		t.Fatalf("expected second page, got:\n%s", m.View())
	}

	m = press(t, m, runes("["))
	if m.controller.State().Page != 1 {
		t.Fatalf("expected page 1, got %d", m.controller.State().Page)
	}
}

func TestSearchSubmitsQuery(t *testing.T) {
	m, backend := newTestModel(t, 2)

	next, _ := m.Update(runes("/"))
	m = next.(model)
	if m.screen != screenSearch {
		t.Fatalf("expected search screen")
	}
	m = typeText(t, m, "tarea b")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.controller.State().Search != "tarea b" {
		t.Fatalf("unexpected search %q", m.controller.State().Search)
	}
	view := m.View()
	if strings.Contains(view, "Tarea A") || !strings.Contains(view, "Tarea B") {
		t.Fatalf("expected filtered board, got:\n%s", view)
	}
	if backend.CountRequests(http.MethodGet, "/api/tasks") < 2 {
		t.Fatalf("expected a second list request")
	}
}

func TestHelpModalToggles(t *testing.T) {
	m, _ := newTestModel(t, 0)

	m = send(t, m, runes("?"))
	if !strings.Contains(m.View(), "nueva tarea") {
		t.Fatalf("expected help content, got:\n%s", m.View())
	}
	m = send(t, m, runes("?"))
	if m.modal.kind != modalNone {
		t.Fatalf("expected help to close")
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t, 0)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
