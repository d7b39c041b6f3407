package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tareas/internal/logging"
	"github.com/amonks/tareas/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the task list over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runWeb,
}

var (
	webAddr     string
	webNoPaging bool
)

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().StringVar(&webAddr, "addr", "", "Listen address (default from config)")
	webCmd.Flags().BoolVar(&webNoPaging, "no-paging", false, "Disable search and pagination")
}

func runWeb(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := current.config.Web.Addr
	if cmd.Flags().Changed("addr") {
		addr = webAddr
	}

	logger, err := logging.New(logging.Options{
		File:   current.config.Log.File,
		Level:  current.config.Log.Level,
		Format: current.config.Log.Format,
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	handler := web.NewHandler(web.Options{
		Store:         newClient(current.config, logger),
		DisablePaging: webNoPaging,
		PageSize:      current.config.List.PerPage,
		Location:      time.Local,
		Logger:        logger,
	})
	return web.ListenAndServe(ctx, addr, handler, logger)
}
