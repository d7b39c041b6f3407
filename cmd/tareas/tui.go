package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/internal/tui"
	"github.com/amonks/tareas/tasklist"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive task list",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var tuiNoPaging bool

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVar(&tuiNoPaging, "no-paging", false, "Disable search and pagination")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	controller := newController(tasklist.WithPaging(!tuiNoPaging))
	return tui.Run(ctx, controller)
}
