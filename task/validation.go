package task

import "errors"

// ErrValidationFailed matches every form validation error.
var ErrValidationFailed = errors.New("validation failed")

// Form field names, using the backend's JSON keys.
const (
	FieldTitle       = "titulo"
	FieldDescription = "descripcion"
	FieldStatus      = "estado"
	FieldPriority    = "prioridad"
	FieldDueAt       = "fecha_vencimiento"
)

// Validation messages shown to the user.
const (
	MessageTitleRequired       = "El título es obligatorio"
	MessageDescriptionRequired = "La descripción es obligatoria"
	MessageStatusRequired      = "Debe seleccionar un estado"
	MessagePriorityRequired    = "Debe seleccionar una prioridad"
	MessageDueAtInvalid        = "La fecha de vencimiento no es válida"
	MessageDueAtInPast         = "La fecha de vencimiento no puede ser anterior a la fecha actual"
)

// ValidationError names the first invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
