package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amonks/tareas/task"
)

type formFieldKind int

const (
	fieldTitle formFieldKind = iota
	fieldDescription
	fieldStatus
	fieldPriority
	fieldDueAt
)

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

type formField struct {
	kind     formFieldKind
	label    string
	input    textinput.Model
	textarea textarea.Model

	// Choice fields cycle through values; labels are shown.
	values []string
	labels []string
	choice int
}

func newTextField(kind formFieldKind, label, value string, limit int) formField {
	input := textinput.New()
	input.SetValue(value)
	input.Prompt = ""
	if limit > 0 {
		input.CharLimit = limit
	}
	return formField{kind: kind, label: label, input: input}
}

func newAreaField(kind formFieldKind, label, value string) formField {
	area := textarea.New()
	area.SetValue(value)
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.SetHeight(4)
	return formField{kind: kind, label: label, textarea: area}
}

func newChoiceField(kind formFieldKind, label string, values, labels []string, current string) formField {
	field := formField{kind: kind, label: label, values: values, labels: labels}
	for i, value := range values {
		if value == current {
			field.choice = i
		}
	}
	return field
}

func (field formField) isChoice() bool {
	return len(field.values) > 0
}

func (field formField) isMultiline() bool {
	return field.kind == fieldDescription
}

func (field formField) Value() string {
	switch {
	case field.isChoice():
		return field.values[field.choice]
	case field.isMultiline():
		return field.textarea.Value()
	default:
		return field.input.Value()
	}
}

func (field formField) Focus() formField {
	switch {
	case field.isChoice():
	case field.isMultiline():
		field.textarea.Focus()
	default:
		field.input.Focus()
	}
	return field
}

func (field formField) Blur() formField {
	switch {
	case field.isChoice():
	case field.isMultiline():
		field.textarea.Blur()
	default:
		field.input.Blur()
	}
	return field
}

func (field formField) Update(msg tea.Msg) (formField, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case field.isChoice():
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "left", "h":
				field.choice = (field.choice - 1 + len(field.values)) % len(field.values)
			case "right", "l", " ":
				field.choice = (field.choice + 1) % len(field.values)
			}
		}
	case field.isMultiline():
		field.textarea, cmd = field.textarea.Update(msg)
	default:
		field.input, cmd = field.input.Update(msg)
	}
	return field, cmd
}

func (field formField) View(focused bool) string {
	if field.isChoice() {
		value := field.labels[field.choice]
		if focused {
			return selectedBorder.Render("< " + value + " >")
		}
		return "  " + value
	}
	if field.isMultiline() {
		return field.textarea.View()
	}
	return field.input.View()
}

type formModel struct {
	draft      task.Draft
	fields     []formField
	fieldIndex int
}

func newFormModel(draft task.Draft) formModel {
	statusValues, statusLabels := statusChoices()
	priorityValues, priorityLabels := priorityChoices()
	due := newTextField(fieldDueAt, "Vence", draft.DueAt, len(task.FormLayout))
	due.input.Placeholder = "AAAA-MM-DDTHH:MM"
	form := formModel{
		draft: draft,
		fields: []formField{
			newTextField(fieldTitle, "Título", draft.Title, task.MaxTitleLength),
			newAreaField(fieldDescription, "Descripción", draft.Description),
			newChoiceField(fieldStatus, "Estado", statusValues, statusLabels, string(draft.Status)),
			newChoiceField(fieldPriority, "Prioridad", priorityValues, priorityLabels, string(draft.Priority)),
			due,
		},
	}
	form.fields[0] = form.fields[0].Focus()
	return form
}

func statusChoices() ([]string, []string) {
	statuses := task.ValidStatuses()
	values := make([]string, 0, len(statuses))
	labels := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
		labels = append(labels, status.Label())
	}
	return values, labels
}

func priorityChoices() ([]string, []string) {
	priorities := task.ValidPriorities()
	values := make([]string, 0, len(priorities))
	labels := make([]string, 0, len(priorities))
	for _, priority := range priorities {
		values = append(values, string(priority))
		labels = append(labels, priority.Label())
	}
	return values, labels
}

func (form *formModel) SetWidth(width int) {
	inputWidth := width - 16
	if inputWidth < 10 {
		inputWidth = 10
	}
	for i, field := range form.fields {
		if field.isMultiline() {
			field.textarea.SetWidth(inputWidth)
		} else if !field.isChoice() {
			field.input.Width = inputWidth
		}
		form.fields[i] = field
	}
}

func (form formModel) Update(msg tea.Msg) (formModel, tea.Cmd, formAction) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			return form.advanceField(1), nil, formNone
		case "shift+tab", "backtab":
			return form.advanceField(-1), nil, formNone
		case "ctrl+s":
			return form, nil, formSubmit
		case "esc":
			return form, nil, formCancel
		case "enter":
			if !form.fields[form.fieldIndex].isMultiline() {
				return form.advanceField(1), nil, formNone
			}
		}
	}
	var cmd tea.Cmd
	form.fields[form.fieldIndex], cmd = form.fields[form.fieldIndex].Update(msg)
	return form, cmd, formNone
}

func (form formModel) advanceField(delta int) formModel {
	form.fields[form.fieldIndex] = form.fields[form.fieldIndex].Blur()
	form.fieldIndex = (form.fieldIndex + delta + len(form.fields)) % len(form.fields)
	form.fields[form.fieldIndex] = form.fields[form.fieldIndex].Focus()
	return form
}

// Draft returns the form values as a draft of the task being edited.
func (form formModel) Draft() task.Draft {
	draft := task.Draft{ID: form.draft.ID}
	for _, field := range form.fields {
		value := field.Value()
		switch field.kind {
		case fieldTitle:
			draft.Title = value
		case fieldDescription:
			draft.Description = value
		case fieldStatus:
			draft.Status = task.Status(value)
		case fieldPriority:
			draft.Priority = task.Priority(value)
		case fieldDueAt:
			draft.DueAt = strings.TrimSpace(value)
		}
	}
	return draft
}

func (form formModel) Title() string {
	if form.draft.IsNew() {
		return "Nueva tarea"
	}
	return fmt.Sprintf("Editar tarea #%d", form.draft.ID)
}

func (form formModel) View() string {
	lines := []string{labelStyle.Render(form.Title()), ""}
	for i, field := range form.fields {
		focused := i == form.fieldIndex
		label := labelStyle.Render(field.label + ":")
		if field.isMultiline() {
			lines = append(lines, label, field.View(focused))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", label, field.View(focused)))
	}
	lines = append(lines, "", valueMuted.Render("tab siguiente campo | ←/→ cambiar opción | ctrl+s guardar | esc cancelar"))
	return strings.Join(lines, "\n")
}
