package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/internal/age"
	"github.com/amonks/tareas/internal/markdown"
	"github.com/amonks/tareas/render"
	"github.com/amonks/tareas/task"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show detailed information about a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showJSON bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
}

func parseTaskID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(value), "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	item, err := current.client.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if showJSON {
		return encodeJSON(cmd.OutOrStdout(), item)
	}
	printTaskDetail(cmd.OutOrStdout(), *item, time.Local, time.Now())
	return nil
}

const taskDetailLineWidth = 80

// printTaskDetail prints detailed information about a task.
func printTaskDetail(w io.Writer, t task.Task, loc *time.Location, now time.Time) {
	fmt.Fprintf(w, "ID:        %d\n", t.ID)
	fmt.Fprintf(w, "Título:    %s\n", t.Title)
	fmt.Fprintf(w, "Estado:    %s\n", t.Status.Label())
	fmt.Fprintf(w, "Prioridad: %s\n", t.Priority.Label())
	due := "-"
	if t.DueAt != nil && !t.DueAt.IsZero() {
		due = render.FormatDue(t.DueAt.In(loc), loc) + " (" + age.Relative(t.DueAt.In(loc), now) + ")"
	}
	fmt.Fprintf(w, "Vence:     %s\n", due)
	if t.CreatedAt != nil && !t.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Creada:    %s (%s)\n", render.FormatDue(t.CreatedAt.In(loc), loc), age.Relative(t.CreatedAt.In(loc), now))
	}

	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintf(w, "\nDescripción:\n%s\n", formatTaskDescription(t.Description))
	}
}

func formatTaskDescription(value string) string {
	formatted := markdown.SafeRender(taskDetailLineWidth, value)
	if strings.TrimSpace(formatted) == "" {
		return "-"
	}
	return formatted
}
