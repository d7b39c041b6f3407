package tasklist

import (
	"errors"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/task"
)

var (
	// ErrBusy is returned when a save or delete is already in flight.
	ErrBusy = errors.New("another operation is in progress")

	// ErrSuperseded is returned by a list fetch or delete prompt whose
	// result was discarded because a newer request started after it.
	ErrSuperseded = errors.New("request superseded")

	// ErrNoPendingDelete is returned by ConfirmDelete outside a confirmation.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
)

// User-facing messages for failed actions.
const (
	MessageLoadFailed          = "Error al cargar la tarea"
	MessageSaveFailed          = "Error al guardar la tarea"
	MessageDeleteFailed        = "Error al eliminar la tarea"
	MessagePrepareDeleteFailed = "Error al preparar la eliminación"
	MessageBusy                = "Hay una operación en curso"
)

// ActionError pairs a failed action with the message shown to the user.
type ActionError struct {
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the alert text for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validation *task.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var action *ActionError
	if errors.As(err, &action) && action.Message != "" {
		return action.Message
	}
	if errors.Is(err, ErrBusy) {
		return MessageBusy
	}
	if msg, ok := api.Message(err); ok {
		return msg
	}
	return err.Error()
}

func listError(err error) error {
	msg, ok := api.Message(err)
	if !ok {
		msg = api.MessageListFailed
	}
	return &ActionError{Message: msg, Err: err}
}

// DeleteFailed reports whether err from ConfirmDelete means the task was
// not deleted. Any other error comes from the refresh after the delete.
func DeleteFailed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoPendingDelete) || errors.Is(err, ErrBusy) {
		return true
	}
	var action *ActionError
	return errors.As(err, &action) && action.Message == MessageDeleteFailed
}
