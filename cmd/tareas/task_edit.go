package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/internal/editor"
	"github.com/amonks/tareas/task"
	"github.com/amonks/tareas/tasklist"
)

var createCmd = &cobra.Command{
	Use:   "create [titulo]",
	Short: "Create a new task",
	Long: `Create a new task.

By default, opens $EDITOR to edit a TOML representation of the task
when running interactively. Use --no-edit to skip the editor, or
--edit to force opening the editor even when not interactive.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task",
	Long: `Update a task.

By default, opens $EDITOR to edit a TOML representation of the task
when running interactively and no update flags are provided.
Use --no-edit to skip the editor, or --edit to force opening the editor even when not interactive.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

// taskFlags are the field flags shared by create and update.
type taskFlags struct {
	title       string
	description string
	status      string
	priority    string
	due         string
	edit        bool
	noEdit      bool
}

var (
	createFlags taskFlags
	updateFlags taskFlags
)

var taskFieldFlags = []string{"titulo", "descripcion", "estado", "prioridad", "vence"}

func init() {
	rootCmd.AddCommand(createCmd, updateCmd)

	registerTaskFlags(createCmd, &createFlags, false)
	registerTaskFlags(updateCmd, &updateFlags, true)
	addTaskFlagAliases(createCmd, updateCmd)
}

func registerTaskFlags(cmd *cobra.Command, flags *taskFlags, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&flags.title, "titulo", "", "New title")
	}
	cmd.Flags().StringVar(&flags.description, "descripcion", "", "Description (use '-' to read from stdin)")
	cmd.Flags().StringVar(&flags.status, "estado", "", "Status (pendiente, en_progreso, completada)")
	cmd.Flags().StringVar(&flags.priority, "prioridad", "", "Priority (baja, media, alta)")
	cmd.Flags().StringVar(&flags.due, "vence", "", "Due date as YYYY-MM-DDTHH:MM (empty clears it)")
	cmd.Flags().BoolVarP(&flags.edit, "edit", "e", false, "Open $EDITOR (default if interactive)")
	cmd.Flags().BoolVar(&flags.noEdit, "no-edit", false, "Do not open $EDITOR")
}

func resolveDescriptionFromStdin(description string, reader io.Reader) (string, error) {
	if description != "-" {
		return description, nil
	}

	input, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read description from stdin: %w", err)
	}

	value := strings.TrimSuffix(string(input), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}

// applyTaskFlags overrides draft fields with the flags that were set.
func applyTaskFlags(cmd *cobra.Command, flags *taskFlags, draft task.Draft) (task.Draft, error) {
	changed := cmd.Flags().Changed
	if changed("titulo") {
		draft.Title = flags.title
	}
	if changed("descripcion") {
		description, err := resolveDescriptionFromStdin(flags.description, cmd.InOrStdin())
		if err != nil {
			return draft, err
		}
		draft.Description = description
	}
	if changed("estado") {
		status, err := task.ParseStatus(flags.status)
		if err != nil {
			return draft, err
		}
		draft.Status = status
	}
	if changed("prioridad") {
		priority, err := task.ParsePriority(flags.priority)
		if err != nil {
			return draft, err
		}
		draft.Priority = priority
	}
	if changed("vence") {
		draft.DueAt = strings.TrimSpace(flags.due)
	}
	return draft, nil
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

func shouldUseEditor(hasFlags bool, editFlag bool, noEditFlag bool, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasFlags {
		return false
	}
	return interactive
}

func runCreate(cmd *cobra.Command, args []string) error {
	draft := task.NewDraft()
	if len(args) > 0 {
		draft.Title = args[0]
	}
	draft, err := applyTaskFlags(cmd, &createFlags, draft)
	if err != nil {
		return err
	}

	// Unlike update, create opens the editor even when flags are given.
	if shouldUseEditor(false, createFlags.edit, createFlags.noEdit, editor.IsInteractive()) {
		draft, err = editor.EditDraft(draft)
		if err != nil {
			return err
		}
	}

	return saveDraft(cmd, draft)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	controller := newController()
	draft, err := controller.EditForm(cmd.Context(), id)
	if err != nil {
		return err
	}
	draft, err = applyTaskFlags(cmd, &updateFlags, draft)
	if err != nil {
		return err
	}

	hasFlags := hasChangedFlags(cmd, taskFieldFlags...)
	if shouldUseEditor(hasFlags, updateFlags.edit, updateFlags.noEdit, editor.IsInteractive()) {
		draft, err = editor.EditDraft(draft)
		if err != nil {
			return err
		}
	}

	return saveDraft(cmd, draft)
}

func saveDraft(cmd *cobra.Command, draft task.Draft) error {
	// The command prints the saved task, not the list.
	controller := newController(tasklist.WithAutoRefresh(false))
	result, err := controller.Submit(cmd.Context(), draft)
	if err != nil {
		return err
	}

	verb := "Tarea actualizada"
	if result.Created {
		verb = "Tarea creada"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: %s\n", verb, result.Task.ID, result.Task.Title)
	return nil
}
