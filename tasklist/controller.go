// Package tasklist drives the task list independently of any front end.
//
// A Controller owns the filter state, the delete confirmation and the
// save/delete flows. Every user action is one method that performs the
// network calls it needs and returns the resulting board or an error whose
// UserMessage is suitable for an alert.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/render"
	"github.com/amonks/tareas/task"
)

// Store is the backend the controller talks to. *api.Client implements it.
type Store interface {
	List(ctx context.Context, params api.ListParams) (*task.Page, error)
	Get(ctx context.Context, id int) (*task.Task, error)
	Create(ctx context.Context, payload task.Payload) (*task.Task, error)
	Update(ctx context.Context, id int, payload task.Payload) (*task.Task, error)
	Delete(ctx context.Context, id int) error
}

var _ Store = (*api.Client)(nil)

// ConfirmState is the state of the delete confirmation.
type ConfirmState int

const (
	// ConfirmIdle means no delete is awaiting confirmation.
	ConfirmIdle ConfirmState = iota
	// ConfirmPending means a delete was requested and awaits an answer.
	ConfirmPending
)

func (s ConfirmState) String() string {
	switch s {
	case ConfirmIdle:
		return "idle"
	case ConfirmPending:
		return "pending"
	default:
		return fmt.Sprintf("ConfirmState(%d)", int(s))
	}
}

// Confirmation describes the delete awaiting an answer.
type Confirmation struct {
	ID     int
	Title  string
	Prompt string
}

// DeletePrompt returns the confirmation question for a task title.
func DeletePrompt(title string) string {
	return "¿Desea eliminar la tarea \"" + title + "\"?"
}

// SubmitResult is the outcome of Submit.
type SubmitResult struct {
	// Task is the stored record. It is set whenever the save succeeded,
	// even when the refresh that follows failed.
	Task *task.Task

	// Created is true when the draft created a new task.
	Created bool

	// Board is the refreshed list. It is nil when the refresh failed or
	// auto refresh is off.
	Board *render.Board
}

// Option configures a Controller.
type Option func(*Controller)

// WithPaging enables or disables pagination and search. Enabled by default.
func WithPaging(enabled bool) Option {
	return func(c *Controller) {
		c.paging = enabled
	}
}

// WithState sets the initial filter state.
func WithState(state FilterState) Option {
	return func(c *Controller) {
		c.state = state.Normalize()
	}
}

// WithClock overrides the clock used to validate due dates.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the time zone for typed and displayed due dates.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithAutoRefresh controls whether Submit and ConfirmDelete fetch the list
// after a successful change. With it off they return a nil board, for front
// ends that load the list themselves afterwards.
func WithAutoRefresh(enabled bool) Option {
	return func(c *Controller) {
		c.refresh = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the task list controller. It is safe for concurrent use.
type Controller struct {
	store  Store
	paging bool
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger

	refresh bool

	mu         sync.Mutex
	state      FilterState
	listSeq    uint64
	confirmSeq uint64
	confirm    ConfirmState
	pending    Confirmation
	submitting bool
	deleting   bool
}

// New returns a controller over store.
func New(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		paging:  true,
		now:     time.Now,
		loc:     time.Local,
		logger:  zap.NewNop(),
		refresh: true,
		state:   DefaultFilterState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paging reports whether pagination and search are enabled.
func (c *Controller) Paging() bool {
	return c.paging
}

// Location returns the time zone used for due dates.
func (c *Controller) Location() *time.Location {
	return c.loc
}

// State returns a snapshot of the filter state.
func (c *Controller) State() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Refresh fetches the page described by the current state. A fetch that is
// overtaken by a newer one returns ErrSuperseded and leaves the state alone.
func (c *Controller) Refresh(ctx context.Context) (*render.Board, error) {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	params := c.state.Params(c.paging)
	c.mu.Unlock()

	page, err := c.store.List(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.listSeq {
		return nil, ErrSuperseded
	}
	if err != nil {
		c.logger.Warn("list tasks", zap.Error(err))
		return nil, listError(err)
	}
	if c.paging && page.Pagination.CurrentPage > 0 {
		c.state.Page = page.Pagination.CurrentPage
	}
	board := render.NewBoard(*page, render.Options{Paging: c.paging, Location: c.loc})
	return &board, nil
}

// SetStatusFilter filters by status. An empty status clears the filter.
func (c *Controller) SetStatusFilter(ctx context.Context, status task.Status) (*render.Board, error) {
	return c.refilter(ctx, func(s *FilterState) { s.Status = status })
}

// SetPriorityFilter filters by priority. An empty priority clears the filter.
func (c *Controller) SetPriorityFilter(ctx context.Context, priority task.Priority) (*render.Board, error) {
	return c.refilter(ctx, func(s *FilterState) { s.Priority = priority })
}

// SetSearch sets the free-text search.
func (c *Controller) SetSearch(ctx context.Context, search string) (*render.Board, error) {
	return c.refilter(ctx, func(s *FilterState) { s.Search = search })
}

// SetPageSize sets the number of tasks per page.
func (c *Controller) SetPageSize(ctx context.Context, size int) (*render.Board, error) {
	return c.refilter(ctx, func(s *FilterState) { s.PageSize = size })
}

// ClearFilters resets filters, search and page size to their defaults.
func (c *Controller) ClearFilters(ctx context.Context) (*render.Board, error) {
	return c.refilter(ctx, func(s *FilterState) {
		*s = DefaultFilterState()
	})
}

// refilter applies change, returns to the first page and refreshes.
func (c *Controller) refilter(ctx context.Context, change func(*FilterState)) (*render.Board, error) {
	c.mu.Lock()
	change(&c.state)
	c.state.Page = 1
	c.state = c.state.Normalize()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// NextPage moves one page forward.
func (c *Controller) NextPage(ctx context.Context) (*render.Board, error) {
	return c.repage(ctx, func(page int) int { return page + 1 })
}

// PrevPage moves one page back, stopping at the first page.
func (c *Controller) PrevPage(ctx context.Context) (*render.Board, error) {
	return c.repage(ctx, func(page int) int { return page - 1 })
}

// GoToPage moves to page n. The server clamps pages past the end.
func (c *Controller) GoToPage(ctx context.Context, n int) (*render.Board, error) {
	return c.repage(ctx, func(int) int { return n })
}

func (c *Controller) repage(ctx context.Context, change func(int) int) (*render.Board, error) {
	c.mu.Lock()
	c.state.Page = change(c.state.Page)
	c.state = c.state.Normalize()
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// NewForm returns an empty draft for a new task.
func (c *Controller) NewForm() task.Draft {
	return task.NewDraft()
}

// EditForm fetches a task and returns it as a draft.
func (c *Controller) EditForm(ctx context.Context, id int) (task.Draft, error) {
	item, err := c.store.Get(ctx, id)
	if err != nil {
		c.logger.Warn("load task", zap.Int("id", id), zap.Error(err))
		return task.Draft{}, &ActionError{Message: MessageLoadFailed, Err: err}
	}
	return task.DraftFromTask(*item, c.loc), nil
}

// Submit validates draft and creates or updates the task. An invalid draft
// returns a *task.ValidationError without contacting the backend. A failed
// save returns an error and leaves the list state untouched.
func (c *Controller) Submit(ctx context.Context, draft task.Draft) (SubmitResult, error) {
	if err := draft.Validate(c.now(), c.loc); err != nil {
		return SubmitResult{}, err
	}
	payload, err := draft.Payload(c.loc)
	if err != nil {
		return SubmitResult{}, err
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return SubmitResult{}, ErrBusy
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	result := SubmitResult{Created: draft.IsNew()}
	if result.Created {
		result.Task, err = c.store.Create(ctx, payload)
	} else {
		result.Task, err = c.store.Update(ctx, draft.ID, payload)
	}
	if err != nil {
		c.logger.Warn("save task", zap.Int("id", draft.ID), zap.Error(err))
		return SubmitResult{Created: result.Created}, &ActionError{Message: MessageSaveFailed, Err: err}
	}
	c.logger.Info("saved task", zap.Int("id", result.Task.ID), zap.Bool("created", result.Created))
	if !c.refresh {
		return result, nil
	}

	result.Board, err = c.Refresh(ctx)
	if err != nil {
		return result, err
	}
	return result, nil
}

// RequestDelete fetches the task and asks for confirmation. It replaces any
// confirmation that was already pending. When the fetch fails the
// controller is left idle. A fetch overtaken by a newer request, or by a
// cancel, returns ErrSuperseded and changes nothing.
func (c *Controller) RequestDelete(ctx context.Context, id int) (Confirmation, error) {
	c.mu.Lock()
	c.confirmSeq++
	seq := c.confirmSeq
	c.mu.Unlock()

	item, err := c.store.Get(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.confirmSeq {
		return Confirmation{}, ErrSuperseded
	}
	if err != nil {
		c.confirm = ConfirmIdle
		c.pending = Confirmation{}
		c.logger.Warn("prepare delete", zap.Int("id", id), zap.Error(err))
		return Confirmation{}, &ActionError{Message: MessagePrepareDeleteFailed, Err: err}
	}
	c.confirm = ConfirmPending
	c.pending = Confirmation{ID: item.ID, Title: item.Title, Prompt: DeletePrompt(item.Title)}
	return c.pending, nil
}

// ResumeDelete marks id as awaiting confirmation without fetching it. It
// lets stateless front ends carry a confirmation across requests.
func (c *Controller) ResumeDelete(id int) Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmSeq++
	c.confirm = ConfirmPending
	c.pending = Confirmation{ID: id}
	return c.pending
}

// Confirmation returns the pending confirmation, if any.
func (c *Controller) Confirmation() (Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.confirm == ConfirmPending
}

// ConfirmState returns the state of the delete confirmation.
func (c *Controller) ConfirmState() ConfirmState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirm
}

// ConfirmDelete deletes the pending task and refreshes the list. The
// confirmation is cleared whether or not the delete succeeds, and a failed
// delete does not refresh.
func (c *Controller) ConfirmDelete(ctx context.Context) (*render.Board, error) {
	c.mu.Lock()
	if c.confirm != ConfirmPending {
		c.mu.Unlock()
		return nil, ErrNoPendingDelete
	}
	if c.deleting {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	id := c.pending.ID
	c.deleting = true
	c.mu.Unlock()

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	c.deleting = false
	if c.pending.ID == id {
		c.confirm = ConfirmIdle
		c.pending = Confirmation{}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("delete task", zap.Int("id", id), zap.Error(err))
		return nil, &ActionError{Message: MessageDeleteFailed, Err: err}
	}
	c.logger.Info("deleted task", zap.Int("id", id))
	if !c.refresh {
		return nil, nil
	}
	return c.Refresh(ctx)
}

// CancelDelete abandons the pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmSeq++
	c.confirm = ConfirmIdle
	c.pending = Confirmation{}
}

// DismissConfirm handles a click outside the confirmation. It cancels.
func (c *Controller) DismissConfirm() {
	c.CancelDelete()
}

// IsSuperseded reports whether err is a discarded list or delete prompt
// result.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
