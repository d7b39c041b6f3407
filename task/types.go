// Package task defines the task records exchanged with the /api/tasks
// backend and the edit form used to create or update them.
//
// Wire values are the backend's Spanish identifiers (pendiente, alta, ...).
// Labels are the human-readable forms shown on cards and in forms.
package task

import (
	"fmt"
	"strings"

	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/internal/validation"
)

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pendiente"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "en_progreso"

	// StatusCompleted indicates the task is finished.
	StatusCompleted Status = "completada"
)

// ValidStatuses returns all valid status values in display order.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Label returns the localized label for the status.
// Unknown values are returned unchanged.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInProgress:
		return "En Progreso"
	case StatusCompleted:
		return "Completada"
	default:
		return string(s)
	}
}

var statusAliases = map[string]Status{
	"pendiente":   StatusPending,
	"pending":     StatusPending,
	"en_progreso": StatusInProgress,
	"en progreso": StatusInProgress,
	"in_progress": StatusInProgress,
	"in progress": StatusInProgress,
	"completada":  StatusCompleted,
	"completed":   StatusCompleted,
}

// ParseStatus resolves a wire value, English alias, or label to a Status.
// Blank input returns the empty status, meaning "no selection".
func ParseStatus(value string) (Status, error) {
	normalized := internalstrings.NormalizeLowerTrimSpace(value)
	if normalized == "" {
		return "", nil
	}
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if status, ok := statusAliases[normalized]; ok {
		return status, nil
	}
	return "", &ParseError{Kind: "estado", Value: value, Valid: validation.FormatValidValues(ValidStatuses())}
}

// Priority represents the importance of a task.
type Priority string

const (
	// PriorityLow is the lowest priority.
	PriorityLow Priority = "baja"

	// PriorityMedium is the middle priority.
	PriorityMedium Priority = "media"

	// PriorityHigh is the highest priority.
	PriorityHigh Priority = "alta"
)

// ValidPriorities returns all valid priorities in display order.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Label returns the localized label for the priority.
// Unknown values are returned unchanged.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Baja"
	case PriorityMedium:
		return "Media"
	case PriorityHigh:
		return "Alta"
	default:
		return string(p)
	}
}

var priorityAliases = map[string]Priority{
	"baja":   PriorityLow,
	"low":    PriorityLow,
	"media":  PriorityMedium,
	"medium": PriorityMedium,
	"alta":   PriorityHigh,
	"high":   PriorityHigh,
}

// ParsePriority resolves a wire value, English alias, or label to a Priority.
// Blank input returns the empty priority, meaning "no selection".
func ParsePriority(value string) (Priority, error) {
	normalized := internalstrings.NormalizeLowerTrimSpace(value)
	if normalized == "" {
		return "", nil
	}
	if priority, ok := priorityAliases[normalized]; ok {
		return priority, nil
	}
	return "", &ParseError{Kind: "prioridad", Value: value, Valid: validation.FormatValidValues(ValidPriorities())}
}

// ParseError reports an unrecognized status or priority.
type ParseError struct {
	Kind  string
	Value string

	// Valid lists the accepted wire values.
	Valid string
}

func (e *ParseError) Error() string {
	if e.Valid == "" {
		return fmt.Sprintf("invalid %s %q", e.Kind, e.Value)
	}
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Kind, e.Value, e.Valid)
}
