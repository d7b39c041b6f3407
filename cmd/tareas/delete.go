package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/internal/editor"
	internalstrings "github.com/amonks/tareas/internal/strings"
	"github.com/amonks/tareas/tasklist"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Long: `Delete a task.

Asks for confirmation on stdin unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteYes bool

var errConfirmationRequired = errors.New("se requiere confirmación (use --yes)")

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	controller := newController(tasklist.WithAutoRefresh(false))
	confirmation, err := controller.RequestDelete(cmd.Context(), id)
	if err != nil {
		return err
	}

	if !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [s/N] ", confirmation.Prompt)
		answer, err := readAnswer(cmd.InOrStdin())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		if answer == "" && !editor.IsInteractive() {
			controller.CancelDelete()
			return errConfirmationRequired
		}
		if !isAffirmative(answer) {
			controller.CancelDelete()
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelado")
			return nil
		}
	}

	if _, err := controller.ConfirmDelete(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tarea eliminada #%d\n", id)
	return nil
}

func readAnswer(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return internalstrings.NormalizeLowerTrimSpace(line), nil
}

func isAffirmative(answer string) bool {
	switch strings.TrimSpace(answer) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}
