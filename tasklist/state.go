package tasklist

import (
	"strings"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/task"
)

// DefaultPageSize is the page size after start-up and after clearing filters.
const DefaultPageSize = 5

// MaxPageSize is the largest page size the backend accepts.
const MaxPageSize = 100

// PageSizes are the page sizes offered by the front ends.
var PageSizes = []int{5, 10, 20, 50}

// FilterState is the query the list is currently showing.
type FilterState struct {
	Status   task.Status
	Priority task.Priority
	Search   string
	PageSize int
	Page     int
}

// DefaultFilterState returns the state of a freshly opened list.
func DefaultFilterState() FilterState {
	return FilterState{PageSize: DefaultPageSize, Page: 1}
}

// Normalize clamps the page and page size into their valid ranges.
func (s FilterState) Normalize() FilterState {
	s.Search = strings.TrimSpace(s.Search)
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.PageSize > MaxPageSize {
		s.PageSize = MaxPageSize
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}

// Params converts the state into request parameters. Without paging only
// the status and priority filters are sent.
func (s FilterState) Params(paging bool) api.ListParams {
	params := api.ListParams{Status: s.Status, Priority: s.Priority}
	if paging {
		params.Search = s.Search
		params.Page = s.Page
		params.PerPage = s.PageSize
	}
	return params
}

// NextPageSize returns the page size after size in PageSizes, wrapping.
func NextPageSize(size int) int {
	for i, candidate := range PageSizes {
		if candidate == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}
