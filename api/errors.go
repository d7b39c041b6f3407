package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed matches every non-2xx response and transport failure.
	ErrRequestFailed = errors.New("request failed")

	// ErrMalformedResponse is returned when a 2xx body has an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNotFound matches a 404 from the single-record endpoints.
	ErrNotFound = errors.New("task not found")
)

// RequestFailedError describes a failed request. Status is zero for
// transport failures.
type RequestFailedError struct {
	Method string
	URL    string
	Status int

	// Message is the backend's detail message, or a generic fallback.
	Message string

	// Err is the transport error, if any.
	Err error
}

func (e *RequestFailedError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), e.Message)
}

// Is reports whether target is ErrRequestFailed, or ErrNotFound for 404s.
func (e *RequestFailedError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message carried by err, if any.
func Message(err error) (string, bool) {
	var requestErr *RequestFailedError
	if errors.As(err, &requestErr) && requestErr.Message != "" {
		return requestErr.Message, true
	}
	if errors.Is(err, ErrMalformedResponse) {
		return MessageMalformedResponse, true
	}
	return "", false
}

// Fallback messages used when the backend does not provide a detail.
const (
	MessageListFailed        = "Error al cargar las tareas"
	MessageMalformedResponse = "Formato de respuesta inválido"
	MessageGetFailed         = "Error al obtener la tarea"
	MessageCreateFailed      = "Error al crear la tarea"
	MessageUpdateFailed      = "Error al actualizar la tarea"
	MessageDeleteFailed      = "Error al eliminar la tarea"
)
