package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/render"
	"github.com/amonks/tareas/task"
	"github.com/amonks/tareas/tasklist"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var (
	listStatus   string
	listPriority string
	listSearch   string
	listPage     int
	listPerPage  int
	listTable    bool
	listJSON     bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "estado", "", "Filter by status (pendiente, en_progreso, completada)")
	listCmd.Flags().StringVar(&listPriority, "prioridad", "", "Filter by priority (baja, media, alta)")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search title and description")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listPerPage, "per-page", 0, "Tasks per page (default from config)")
	listCmd.Flags().BoolVar(&listTable, "table", false, "Output as a table")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	addTaskFlagAliases(listCmd)
}

func listState(cmd *cobra.Command) (tasklist.FilterState, error) {
	state := tasklist.DefaultFilterState()
	state.PageSize = current.config.List.PerPage
	if cmd.Flags().Changed("estado") {
		status, err := task.ParseStatus(listStatus)
		if err != nil {
			return state, err
		}
		state.Status = status
	}
	if cmd.Flags().Changed("prioridad") {
		priority, err := task.ParsePriority(listPriority)
		if err != nil {
			return state, err
		}
		state.Priority = priority
	}
	if cmd.Flags().Changed("per-page") {
		state.PageSize = listPerPage
	}
	state.Search = listSearch
	state.Page = listPage
	return state.Normalize(), nil
}

func runList(cmd *cobra.Command, args []string) error {
	state, err := listState(cmd)
	if err != nil {
		return err
	}

	if listJSON {
		page, err := current.client.List(cmd.Context(), state.Params(true))
		if err != nil {
			return err
		}
		return encodeJSON(cmd.OutOrStdout(), page)
	}

	controller := newController(tasklist.WithState(state))
	board, err := controller.Refresh(cmd.Context())
	if err != nil {
		return err
	}

	if listTable {
		fmt.Fprint(cmd.OutOrStdout(), render.Table(*board))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.Text(*board, outputWidth()))
	return nil
}
