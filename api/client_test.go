package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amonks/tareas/task"
)

func TestListEncodesFiltersInFixedOrder(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"items":[{"id":1,"titulo":"Informe","descripcion":"Q3","estado":"pendiente","prioridad":"alta","fecha_vencimiento":null}],"pagination":{"current_page":2,"total_pages":3,"has_next":true}}`)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	page, err := client.List(context.Background(), ListParams{
		Status:  task.StatusPending,
		Search:  "report",
		Page:    2,
		PerPage: 5,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "estado=pendiente&search=report&page=2&per_page=5" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Informe" {
		t.Fatalf("unexpected items %+v", page.Items)
	}
	if page.Items[0].DueAt != nil {
		t.Fatalf("expected no due date, got %v", page.Items[0].DueAt)
	}
	if page.Pagination.CurrentPage != 2 || !page.Pagination.HasNext {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}
}

func TestListRejectsMissingPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[]}`)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).List(context.Background(), ListParams{})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	msg, ok := Message(err)
	if !ok || msg != MessageMalformedResponse {
		t.Fatalf("expected %q, got %q", MessageMalformedResponse, msg)
	}
}

func TestErrorDetailIsSurfaced(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"per_page fuera de rango"}`, want: "per_page fuera de rango"},
		{name: "structured detail", body: `{"detail":[{"loc":["query","page"]}]}`, want: MessageListFailed},
		{name: "not json", body: `Internal Server Error`, want: MessageListFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			_, err := NewClient(Options{BaseURL: server.URL}).List(context.Background(), ListParams{})
			if !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("expected request failure, got %v", err)
			}
			var failure *RequestFailedError
			if !errors.As(err, &failure) || failure.Status != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422 failure, got %v", err)
			}
			if failure.Message != tc.want {
				t.Fatalf("expected message %q, got %q", tc.want, failure.Message)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/7" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Tarea no encontrada"}`)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).Get(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if msg, _ := Message(err); msg != "Tarea no encontrada" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCreateSendsPayloadAndRequestID(t *testing.T) {
	var got map[string]any
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		requestID = r.Header.Get(RequestIDHeader)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":12,"titulo":"Comprar pan","descripcion":"Integral","estado":"pendiente","prioridad":"baja","fecha_creacion":"2026-03-01T10:00:00.123456","fecha_vencimiento":"2026-04-01T09:30:00"}`)
	}))
	defer server.Close()

	due := task.NewTimestamp(time.Date(2026, 4, 1, 9, 30, 0, 0, time.Local))
	created, err := NewClient(Options{BaseURL: server.URL}).Create(context.Background(), task.Payload{
		Title:       "Comprar pan",
		Description: "Integral",
		Status:      task.StatusPending,
		Priority:    task.PriorityLow,
		DueAt:       due,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 12 {
		t.Fatalf("expected id 12, got %d", created.ID)
	}
	if requestID == "" {
		t.Fatalf("expected %s header", RequestIDHeader)
	}
	if got["titulo"] != "Comprar pan" || got["fecha_vencimiento"] != "2026-04-01T09:30:00" {
		t.Fatalf("unexpected payload %v", got)
	}
	if created.CreatedAt == nil || created.CreatedAt.Year() != 2026 {
		t.Fatalf("expected creation time, got %v", created.CreatedAt)
	}
}

func TestUpdateUsesPut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/tasks/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":3,"titulo":"Nuevo","descripcion":"d","estado":"completada","prioridad":"media","fecha_vencimiento":null}`)
	}))
	defer server.Close()

	updated, err := NewClient(Options{BaseURL: server.URL}).Update(context.Background(), 3, task.Payload{Title: "Nuevo"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != task.StatusCompleted {
		t.Fatalf("unexpected status %q", updated.Status)
	}
}

func TestDeleteAcceptsNoContentAndMessageBody(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusOK} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			w.WriteHeader(status)
			if status == http.StatusOK {
				_, _ = io.WriteString(w, `{"message":"Tarea eliminada"}`)
			}
		}))

		err := NewClient(Options{BaseURL: server.URL}).Delete(context.Background(), 7)
		server.Close()
		if err != nil {
			t.Fatalf("delete with status %d: %v", status, err)
		}
	}
}

func TestDeleteNotFoundUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := NewClient(Options{BaseURL: server.URL}).Delete(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if msg, _ := Message(err); msg != MessageDeleteFailed {
		t.Fatalf("expected fallback %q, got %q", MessageDeleteFailed, msg)
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Options{BaseURL: url}).List(context.Background(), ListParams{})
	var failure *RequestFailedError
	if !errors.As(err, &failure) {
		t.Fatalf("expected request failure, got %v", err)
	}
	if failure.Status != 0 || failure.Err == nil {
		t.Fatalf("expected transport failure, got %+v", failure)
	}
	if !strings.Contains(err.Error(), MessageListFailed) {
		t.Fatalf("expected fallback in error, got %q", err.Error())
	}
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	cases := map[string]string{
		"":                       DefaultBaseURL,
		"localhost:9000/":        "http://localhost:9000",
		"https://tareas.example": "https://tareas.example",
	}
	for input, want := range cases {
		if got := NewClient(Options{BaseURL: input}).BaseURL(); got != want {
			t.Errorf("NewClient(%q).BaseURL() = %q, want %q", input, got, want)
		}
	}
}
