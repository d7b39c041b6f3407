// Package fakeapi is an in-memory implementation of the /api/tasks backend
// used by tests.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/amonks/tareas/internal/validation"
	"github.com/amonks/tareas/task"
)

// DetailNotFound is the detail returned for unknown task ids.
const DetailNotFound = "Tarea no encontrada"

// DefaultPerPage is used when a list request omits per_page.
const DefaultPerPage = 5

// MaxPerPage is the largest accepted per_page.
const MaxPerPage = 100

// Request is one request received by the server.
type Request struct {
	Method string
	Path   string
	Query  string
}

func (r Request) String() string {
	if r.Query == "" {
		return r.Method + " " + r.Path
	}
	return r.Method + " " + r.Path + "?" + r.Query
}

type failure struct {
	status int
	detail any
}

// Server holds tasks in memory and serves them over chi.
type Server struct {
	mu       sync.Mutex
	tasks    map[int]task.Task
	nextID   int
	now      func() time.Time
	requests []Request
	failures map[string][]failure

	// deleteStatus is either 204 or 200.
	deleteStatus int
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithDeleteMessage makes DELETE answer 200 with a message body.
func WithDeleteMessage() Option {
	return func(s *Server) {
		s.deleteStatus = http.StatusOK
	}
}

// New returns an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		tasks:        map[int]task.Task{},
		nextID:       1,
		failures:     map[string][]failure{},
		deleteStatus: http.StatusNoContent,
	}
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.Local)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed stores a task and returns it with its assigned id and creation time.
func (s *Server) Seed(payload task.Payload) task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(payload)
}

// Task returns a stored task.
func (s *Server) Task(id int) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.tasks[id]
	return item, ok
}

// Len returns the number of stored tasks.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests matched method. An empty
// pathPrefix matches every path.
func (s *Server) CountRequests(method, pathPrefix string) int {
	count := 0
	for _, req := range s.Requests() {
		if req.Method == method && strings.HasPrefix(req.Path, pathPrefix) {
			count++
		}
	}
	return count
}

// ResetRequests clears the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request with method answer status. A string
// detail is encoded as {"detail": detail}; nil omits the body.
func (s *Server) FailNext(method string, status int, detail any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], failure{status: status, detail: detail})
}

// Handler returns the HTTP handler for the backend.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)
	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.withTask(s.handleGet))
		r.Put("/{id}", s.withTask(s.handleUpdate))
		r.Delete("/{id}", s.withTask(s.handleDelete))
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
		queue := s.failures[r.Method]
		var injected *failure
		if len(queue) > 0 {
			injected = &queue[0]
			s.failures[r.Method] = queue[1:]
		}
		s.mu.Unlock()

		if injected != nil {
			if injected.detail == nil {
				w.WriteHeader(injected.status)
				return
			}
			writeJSON(w, injected.status, map[string]any{"detail": injected.detail})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withTask(fn func(http.ResponseWriter, *http.Request, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			writeValidation(w, "path", "task_id", "Input should be a valid integer")
			return
		}
		s.mu.Lock()
		_, ok := s.tasks[id]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": DetailNotFound})
			return
		}
		fn(w, r, id)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	status := task.Status(query.Get("estado"))
	if status != "" && !status.IsValid() {
		writeValidation(w, "query", "estado", "Input should be "+validation.QuoteValidValues(task.ValidStatuses()))
		return
	}
	priority := task.Priority(query.Get("prioridad"))
	if priority != "" && !priority.IsValid() {
		writeValidation(w, "query", "prioridad", "Input should be "+validation.QuoteValidValues(task.ValidPriorities()))
		return
	}
	page, ok := intParam(query.Get("page"), 1)
	if !ok || page < 1 {
		writeValidation(w, "query", "page", "Input should be greater than or equal to 1")
		return
	}
	perPage, ok := intParam(query.Get("per_page"), DefaultPerPage)
	if !ok || perPage < 1 || perPage > MaxPerPage {
		writeValidation(w, "query", "per_page", fmt.Sprintf("Input should be between 1 and %d", MaxPerPage))
		return
	}
	search := strings.ToLower(strings.TrimSpace(query.Get("search")))

	s.mu.Lock()
	matches := make([]task.Task, 0, len(s.tasks))
	for _, item := range s.tasks {
		if status != "" && item.Status != status {
			continue
		}
		if priority != "" && item.Priority != priority {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Title), search) && !strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		matches = append(matches, item)
	}
	s.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i].CreatedAt.Time, matches[j].CreatedAt.Time
		if a.Equal(b) {
			return matches[i].ID > matches[j].ID
		}
		return a.After(b)
	})

	total := len(matches)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	items := matches[start:end]

	writeJSON(w, http.StatusOK, task.Page{
		Items: items,
		Pagination: task.Pagination{
			TotalItems:  total,
			TotalPages:  totalPages,
			CurrentPage: page,
			PerPage:     perPage,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload task.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidation(w, "body", "", "JSON decode error")
		return
	}
	if field, msg, ok := validatePayload(payload); !ok {
		writeValidation(w, "body", field, msg)
		return
	}
	s.mu.Lock()
	created := s.insertLocked(payload)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request, id int) {
	item, _ := s.Task(id)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, id int) {
	var payload task.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidation(w, "body", "", "JSON decode error")
		return
	}
	if field, msg, ok := validatePayload(payload); !ok {
		writeValidation(w, "body", field, msg)
		return
	}
	s.mu.Lock()
	item := s.tasks[id]
	item.Title = payload.Title
	item.Description = payload.Description
	item.Status = payload.Status
	item.Priority = payload.Priority
	item.DueAt = payload.DueAt
	s.tasks[id] = item
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id int) {
	s.mu.Lock()
	delete(s.tasks, id)
	status := s.deleteStatus
	s.mu.Unlock()
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, map[string]string{"message": "Tarea eliminada exitosamente"})
}

func (s *Server) insertLocked(payload task.Payload) task.Task {
	item := task.Task{
		ID:          s.nextID,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		CreatedAt:   task.NewTimestamp(s.now()),
		DueAt:       payload.DueAt,
	}
	s.nextID++
	s.tasks[item.ID] = item
	return item
}

func validatePayload(payload task.Payload) (string, string, bool) {
	if payload.Title == "" || len([]rune(payload.Title)) > task.MaxTitleLength {
		return "titulo", fmt.Sprintf("String should have between 1 and %d characters", task.MaxTitleLength), false
	}
	if payload.Description == "" {
		return "descripcion", "String should have at least 1 character", false
	}
	if !payload.Status.IsValid() {
		return "estado", "String should match pattern '^(pendiente|en_progreso|completada)$'", false
	}
	if !payload.Priority.IsValid() {
		return "prioridad", "String should match pattern '^(baja|media|alta)$'", false
	}
	return "", "", true
}

func intParam(value string, fallback int) (int, bool) {
	if value == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// writeValidation answers 422 with a structured detail list.
func writeValidation(w http.ResponseWriter, location, field, msg string) {
	loc := []string{location}
	if field != "" {
		loc = append(loc, field)
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": loc, "msg": msg}},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
