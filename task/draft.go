package task

import (
	"strings"
	"time"
)

// Draft holds the edit form values for a new or existing task.
type Draft struct {
	// ID is zero for a task that has not been created yet.
	ID int

	Title       string
	Description string
	Status      Status
	Priority    Priority

	// DueAt is the due date as typed, in FormLayout. Blank means no due date.
	DueAt string
}

// NewDraft returns an empty form with default selections.
func NewDraft() Draft {
	return Draft{
		Status:   StatusPending,
		Priority: PriorityLow,
	}
}

// DraftFromTask populates a form from a fetched task, showing the due date
// in loc (nil means time.Local). Missing optional fields fall back to the
// form defaults.
func DraftFromTask(t Task, loc *time.Location) Draft {
	draft := Draft{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
	}
	if draft.Status == "" {
		draft.Status = StatusPending
	}
	if draft.Priority == "" {
		draft.Priority = PriorityLow
	}
	if t.DueAt != nil && !t.DueAt.IsZero() {
		draft.DueAt = t.DueAt.In(loc).Format(FormLayout)
	}
	return draft
}

// IsNew returns true if submitting the draft creates a task.
func (d Draft) IsNew() bool {
	return d.ID == 0
}

// Validate checks the form and returns the first invalid field as a
// *ValidationError. Due dates are parsed in loc (nil means time.Local) and
// must not be earlier than now.
func (d Draft) Validate(now time.Time, loc *time.Location) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: FieldTitle, Message: MessageTitleRequired}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: FieldDescription, Message: MessageDescriptionRequired}
	}
	if d.Status == "" {
		return &ValidationError{Field: FieldStatus, Message: MessageStatusRequired}
	}
	if d.Priority == "" {
		return &ValidationError{Field: FieldPriority, Message: MessagePriorityRequired}
	}
	if strings.TrimSpace(d.DueAt) != "" {
		due, err := ParseTimestamp(d.DueAt, loc)
		if err != nil {
			return &ValidationError{Field: FieldDueAt, Message: MessageDueAtInvalid}
		}
		if due.Before(now) {
			return &ValidationError{Field: FieldDueAt, Message: MessageDueAtInPast}
		}
	}
	return nil
}

// Payload converts the form into a request body. Text fields are trimmed
// and a blank due date becomes null. Call Validate first.
func (d Draft) Payload(loc *time.Location) (Payload, error) {
	payload := Payload{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Status:      d.Status,
		Priority:    d.Priority,
	}
	if strings.TrimSpace(d.DueAt) == "" {
		return payload, nil
	}
	due, err := ParseTimestamp(d.DueAt, loc)
	if err != nil {
		return Payload{}, &ValidationError{Field: FieldDueAt, Message: MessageDueAtInvalid}
	}
	payload.DueAt = NewTimestamp(due)
	return payload, nil
}
