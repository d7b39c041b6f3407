package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/amonks/tareas/task"
)

// Query parameter names understood by the collection endpoint.
const (
	ParamStatus   = "estado"
	ParamPriority = "prioridad"
	ParamSearch   = "search"
	ParamPage     = "page"
	ParamPerPage  = "per_page"
)

// ListParams is one snapshot of the filters sent to the collection endpoint.
// Zero values are omitted from the query.
type ListParams struct {
	Status   task.Status
	Priority task.Priority
	Search   string
	Page     int
	PerPage  int
}

// Query returns the non-empty parameters as url.Values.
func (p ListParams) Query() url.Values {
	values := url.Values{}
	for _, pair := range p.pairs() {
		values.Set(pair[0], pair[1])
	}
	return values
}

// Encode renders the query string with parameters in a fixed order:
// estado, prioridad, search, page, per_page.
func (p ListParams) Encode() string {
	var builder strings.Builder
	for i, pair := range p.pairs() {
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(url.QueryEscape(pair[0]))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(pair[1]))
	}
	return builder.String()
}

func (p ListParams) pairs() [][2]string {
	pairs := make([][2]string, 0, 5)
	if p.Status != "" {
		pairs = append(pairs, [2]string{ParamStatus, string(p.Status)})
	}
	if p.Priority != "" {
		pairs = append(pairs, [2]string{ParamPriority, string(p.Priority)})
	}
	if search := strings.TrimSpace(p.Search); search != "" {
		pairs = append(pairs, [2]string{ParamSearch, search})
	}
	if p.Page > 0 {
		pairs = append(pairs, [2]string{ParamPage, strconv.Itoa(p.Page)})
	}
	if p.PerPage > 0 {
		pairs = append(pairs, [2]string{ParamPerPage, strconv.Itoa(p.PerPage)})
	}
	return pairs
}
