package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	"github.com/amonks/tareas/task"
)

var taskTemplate = template.Must(template.New("task").Parse(`titulo = {{ printf "%q" .Title }}
estado = {{ printf "%q" .Status }} # pendiente, en_progreso, completada
prioridad = {{ printf "%q" .Priority }} # baja, media, alta
vence = {{ printf "%q" .DueAt }} # AAAA-MM-DDTHH:MM, vacío para no tener fecha
---
{{ .Description }}
`))

// RenderTaskTOML renders a draft as a TOML document for editing. The
// description follows the --- separator.
func RenderTaskTOML(draft task.Draft) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, draft); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

type parsedTask struct {
	Title    string `toml:"titulo"`
	Status   string `toml:"estado"`
	Priority string `toml:"prioridad"`
	DueAt    string `toml:"vence"`
}

// ParseTaskTOML parses editor output into a draft with base's ID. Field
// validation is left to task.Draft.Validate.
func ParseTaskTOML(content string, base task.Draft) (task.Draft, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed parsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return task.Draft{}, fmt.Errorf("parse TOML: %w", err)
	}

	status, err := task.ParseStatus(parsed.Status)
	if err != nil {
		return task.Draft{}, err
	}
	priority, err := task.ParsePriority(parsed.Priority)
	if err != nil {
		return task.Draft{}, err
	}

	return task.Draft{
		ID:          base.ID,
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(body),
		Status:      status,
		Priority:    priority,
		DueAt:       strings.TrimSpace(parsed.DueAt),
	}, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTaskTempFile() (*os.File, error) {
	return os.CreateTemp("", "tareas-*.md")
}

// EditDraft opens the editor on draft and returns the edited draft.
func EditDraft(draft task.Draft) (task.Draft, error) {
	content, err := RenderTaskTOML(draft)
	if err != nil {
		return task.Draft{}, err
	}

	tmpfile, err := createTaskTempFile()
	if err != nil {
		return task.Draft{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return task.Draft{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return task.Draft{}, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return task.Draft{}, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return task.Draft{}, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited), draft)
}
