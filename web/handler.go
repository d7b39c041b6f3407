// Package web serves the task list as server-rendered HTML.
package web

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/render"
	"github.com/amonks/tareas/task"
	"github.com/amonks/tareas/tasklist"
)

// Options configures the web handler.
type Options struct {
	// Store is the task backend. Required.
	Store tasklist.Store

	// DisablePaging hides search and the pager.
	DisablePaging bool

	// PageSize is the page size of a list request without per_page.
	PageSize int

	// Location is used for typed and displayed due dates.
	Location *time.Location

	Logger *zap.Logger

	// Now overrides the clock used to validate due dates.
	Now func() time.Time
}

// Handler serves the web client. Every request gets its own controller,
// seeded from the query string, so the handler holds no list state.
type Handler struct {
	opts      Options
	logger    *zap.Logger
	router    chi.Router
	templates *template.Template
}

// NewHandler creates a new web handler.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize < 1 {
		opts.PageSize = tasklist.DefaultPageSize
	}
	handler := &Handler{
		opts:      opts,
		logger:    opts.Logger,
		templates: newTemplates(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(handler.logRequests)
	r.Get("/", handler.handleList)
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/new", handler.handleNew)
		r.Post("/", handler.handleCreate)
		r.Get("/{id}/edit", handler.withID(handler.handleEdit))
		r.Post("/{id}", handler.withID(handler.handleUpdate))
		r.Get("/{id}/delete", handler.withID(handler.handleDeletePrompt))
		r.Post("/{id}/delete", handler.withID(handler.handleDelete))
	})
	handler.router = r
	return handler
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("http_access",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("dur", time.Since(start)),
		)
	})
}

func (h *Handler) withID(fn func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id < 1 {
			http.NotFound(w, r)
			return
		}
		fn(w, r, id)
	}
}

func (h *Handler) controller(state tasklist.FilterState) *tasklist.Controller {
	opts := []tasklist.Option{
		tasklist.WithPaging(!h.opts.DisablePaging),
		tasklist.WithState(state),
		tasklist.WithLocation(h.opts.Location),
		tasklist.WithLogger(h.logger),
		// Mutations redirect to the list, which loads it.
		tasklist.WithAutoRefresh(false),
	}
	if h.opts.Now != nil {
		opts = append(opts, tasklist.WithClock(h.opts.Now))
	}
	return tasklist.New(h.opts.Store, opts...)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	state := h.stateFromValues(r.URL.Query())
	controller := h.controller(state)
	board, err := controller.Refresh(r.Context())
	data := h.listData(controller.State())
	if err != nil {
		data.Alert = tasklist.UserMessage(err)
		h.render(w, http.StatusBadGateway, "list", data)
		return
	}
	data.Board = board
	h.render(w, http.StatusOK, "list", data)
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	state := h.stateFromValues(r.URL.Query())
	controller := h.controller(state)
	h.render(w, http.StatusOK, "form", h.formData(controller.State(), controller.NewForm(), ""))
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request, id int) {
	state := h.stateFromValues(r.URL.Query())
	controller := h.controller(state)
	draft, err := controller.EditForm(r.Context(), id)
	if err != nil {
		h.renderAlert(w, controller.State(), err)
		return
	}
	h.render(w, http.StatusOK, "form", h.formData(controller.State(), draft, ""))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, 0)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, id int) {
	h.submit(w, r, id)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, id int) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form input", http.StatusBadRequest)
		return
	}
	state := h.returnState(r)
	controller := h.controller(state)
	draft := draftFromForm(r.PostForm, id)

	result, err := controller.Submit(r.Context(), draft)
	if result.Task == nil {
		status := http.StatusBadGateway
		var validation *task.ValidationError
		if errors.As(err, &validation) {
			status = http.StatusUnprocessableEntity
		}
		h.render(w, status, "form", h.formData(state, draft, tasklist.UserMessage(err)))
		return
	}
	http.Redirect(w, r, listURL(controller.State()), http.StatusSeeOther)
}

func (h *Handler) handleDeletePrompt(w http.ResponseWriter, r *http.Request, id int) {
	state := h.stateFromValues(r.URL.Query())
	controller := h.controller(state)
	confirmation, err := controller.RequestDelete(r.Context(), id)
	if err != nil {
		h.renderAlert(w, controller.State(), err)
		return
	}
	data := h.listData(controller.State())
	data.Confirm = &confirmation
	h.render(w, http.StatusOK, "confirm", data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id int) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form input", http.StatusBadRequest)
		return
	}
	state := h.returnState(r)
	controller := h.controller(state)
	if r.PostForm.Get("confirm") != "yes" {
		http.Redirect(w, r, listURL(controller.State()), http.StatusSeeOther)
		return
	}
	controller.ResumeDelete(id)
	if _, err := controller.ConfirmDelete(r.Context()); tasklist.DeleteFailed(err) {
		// The list is not reloaded after a failed delete.
		h.renderAlert(w, controller.State(), err)
		return
	}
	http.Redirect(w, r, listURL(controller.State()), http.StatusSeeOther)
}

func (h *Handler) renderAlert(w http.ResponseWriter, state tasklist.FilterState, err error) {
	data := h.listData(state)
	data.Alert = tasklist.UserMessage(err)
	h.render(w, http.StatusBadGateway, "list", data)
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", zap.String("template", name), zap.Error(err))
	}
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Paging     bool
	State      tasklist.FilterState
	ListURL    string
	Return     string
	Board      *render.Board
	Alert      string
	Confirm    *tasklist.Confirmation
	Form       *formData
	Statuses   []selectOption
	Priorities []selectOption
	Sizes      []selectOption
}

type formData struct {
	Title      string
	Action     string
	Draft      task.Draft
	Error      string
	Statuses   []selectOption
	Priorities []selectOption
}

func (h *Handler) listData(state tasklist.FilterState) pageData {
	return pageData{
		Paging:     !h.opts.DisablePaging,
		State:      state,
		ListURL:    listURL(state),
		Return:     stateValues(state).Encode(),
		Statuses:   statusOptions(string(state.Status), "Todos"),
		Priorities: priorityOptions(string(state.Priority), "Todas"),
		Sizes:      sizeOptions(state.PageSize),
	}
}

func (h *Handler) formData(state tasklist.FilterState, draft task.Draft, message string) pageData {
	data := h.listData(state)
	form := &formData{
		Title:      "Nueva tarea",
		Action:     "/tasks",
		Draft:      draft,
		Error:      message,
		Statuses:   statusOptions(string(draft.Status), ""),
		Priorities: priorityOptions(string(draft.Priority), ""),
	}
	if !draft.IsNew() {
		form.Title = "Editar tarea #" + strconv.Itoa(draft.ID)
		form.Action = "/tasks/" + strconv.Itoa(draft.ID)
	}
	data.Form = form
	return data
}

func (h *Handler) stateFromValues(values url.Values) tasklist.FilterState {
	state := tasklist.DefaultFilterState()
	state.PageSize = h.opts.PageSize
	if status := task.Status(values.Get("estado")); status.IsValid() {
		state.Status = status
	}
	if priority := task.Priority(values.Get("prioridad")); priority.IsValid() {
		state.Priority = priority
	}
	state.Search = values.Get("search")
	if size, err := strconv.Atoi(values.Get("per_page")); err == nil {
		state.PageSize = size
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		state.Page = page
	}
	return state.Normalize()
}

// returnState reads the list state a form posted back in its "return" field.
func (h *Handler) returnState(r *http.Request) tasklist.FilterState {
	values, err := url.ParseQuery(r.PostForm.Get("return"))
	if err != nil {
		values = url.Values{}
	}
	return h.stateFromValues(values)
}

func stateValues(state tasklist.FilterState) url.Values {
	values := url.Values{}
	if state.Status != "" {
		values.Set("estado", string(state.Status))
	}
	if state.Priority != "" {
		values.Set("prioridad", string(state.Priority))
	}
	if !internalstrings.IsBlank(state.Search) {
		values.Set("search", state.Search)
	}
	if state.PageSize > 0 {
		values.Set("per_page", strconv.Itoa(state.PageSize))
	}
	if state.Page > 1 {
		values.Set("page", strconv.Itoa(state.Page))
	}
	return values
}

func listURL(state tasklist.FilterState) string {
	return withQuery("/", state)
}

func pageURL(state tasklist.FilterState, page int) string {
	state.Page = page
	return listURL(state)
}

func draftFromForm(values url.Values, id int) task.Draft {
	return task.Draft{
		ID:          id,
		Title:       values.Get("titulo"),
		Description: values.Get("descripcion"),
		Status:      task.Status(values.Get("estado")),
		Priority:    task.Priority(values.Get("prioridad")),
		DueAt:       values.Get("fecha_vencimiento"),
	}
}

func statusOptions(selected, anyLabel string) []selectOption {
	var options []selectOption
	if anyLabel != "" {
		options = append(options, selectOption{Value: "", Label: anyLabel, Selected: selected == ""})
	}
	for _, status := range task.ValidStatuses() {
		options = append(options, selectOption{Value: string(status), Label: status.Label(), Selected: string(status) == selected})
	}
	return options
}

func priorityOptions(selected, anyLabel string) []selectOption {
	var options []selectOption
	if anyLabel != "" {
		options = append(options, selectOption{Value: "", Label: anyLabel, Selected: selected == ""})
	}
	for _, priority := range task.ValidPriorities() {
		options = append(options, selectOption{Value: string(priority), Label: priority.Label(), Selected: string(priority) == selected})
	}
	return options
}

func sizeOptions(selected int) []selectOption {
	options := make([]selectOption, 0, len(tasklist.PageSizes))
	for _, size := range tasklist.PageSizes {
		value := strconv.Itoa(size)
		options = append(options, selectOption{Value: value, Label: value, Selected: size == selected})
	}
	return options
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		logger.Info("web listening", zap.String("addr", addr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("web stopped")
		return nil
	}
}
