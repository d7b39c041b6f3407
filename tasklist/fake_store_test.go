package tasklist

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/task"
)

type fakeStore struct {
	mu     sync.Mutex
	calls  []string
	params []api.ListParams
	tasks  map[int]task.Task
	page   task.Page

	listErr   error
	getErr    error
	saveErr   error
	deleteErr error

	// listHook runs before List returns, with the 1-based call number.
	listHook func(call int)
	// saveHook runs before Create or Update returns.
	saveHook func()
	// getHook runs before Get returns.
	getHook func(id int)
}

func newFakeStore(items ...task.Task) *fakeStore {
	store := &fakeStore{tasks: map[int]task.Task{}}
	for _, item := range items {
		store.tasks[item.ID] = item
	}
	store.page = task.Page{Items: items, Pagination: task.Pagination{CurrentPage: 1, TotalPages: 1}}
	return store
}

func (s *fakeStore) record(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	return len(s.calls)
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) count(prefix string) int {
	count := 0
	for _, call := range s.Calls() {
		if strings.HasPrefix(call, prefix) {
			count++
		}
	}
	return count
}

func (s *fakeStore) lastParams() api.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.params) == 0 {
		return api.ListParams{}
	}
	return s.params[len(s.params)-1]
}

func (s *fakeStore) List(ctx context.Context, params api.ListParams) (*task.Page, error) {
	s.record("list")
	s.mu.Lock()
	s.params = append(s.params, params)
	call := len(s.params)
	hook := s.listHook
	page := s.page
	err := s.listErr
	s.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	if params.Page > 0 && page.Pagination.CurrentPage == 1 {
		page.Pagination.CurrentPage = params.Page
	}
	return &page, nil
}

func (s *fakeStore) Get(ctx context.Context, id int) (*task.Task, error) {
	s.record(fmt.Sprintf("get %d", id))
	s.mu.Lock()
	hook := s.getHook
	s.mu.Unlock()
	if hook != nil {
		hook(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	item, ok := s.tasks[id]
	if !ok {
		return nil, &api.RequestFailedError{Method: "GET", URL: "/api/tasks", Status: 404, Message: "Tarea no encontrada"}
	}
	return &item, nil
}

func (s *fakeStore) Create(ctx context.Context, payload task.Payload) (*task.Task, error) {
	s.record("create")
	return s.save(0, payload)
}

func (s *fakeStore) Update(ctx context.Context, id int, payload task.Payload) (*task.Task, error) {
	s.record(fmt.Sprintf("update %d", id))
	return s.save(id, payload)
}

func (s *fakeStore) save(id int, payload task.Payload) (*task.Task, error) {
	s.mu.Lock()
	hook := s.saveHook
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if id == 0 {
		id = len(s.tasks) + 100
	}
	item := task.Task{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Priority:    payload.Priority,
		DueAt:       payload.DueAt,
	}
	s.tasks[id] = item
	return &item, nil
}

func (s *fakeStore) Delete(ctx context.Context, id int) error {
	s.record(fmt.Sprintf("delete %d", id))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.tasks, id)
	return nil
}
