// Package main implements the tareas CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amonks/tareas/api"
	"github.com/amonks/tareas/internal/config"
	"github.com/amonks/tareas/internal/logging"
	"github.com/amonks/tareas/internal/paths"
	"github.com/amonks/tareas/tasklist"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tasklist.UserMessage(err))
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "tareas",
	Short:             "Tareas - manage tasks on a task list backend",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupApp,
}

var (
	rootAPIURL   string
	rootConfig   string
	rootLogFile  string
	rootLogLevel string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootAPIURL, "api-url", "", "Backend base URL (default $"+config.EnvAPIURL+" or "+api.DefaultBaseURL+")")
	flags.StringVar(&rootConfig, "config", "", "Config file (default ./"+config.ProjectFileName+")")
	flags.StringVar(&rootLogFile, "log-file", "", "Write diagnostic logs to this file")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// app holds what every command needs once flags and config are resolved.
type app struct {
	config *config.Config
	logger *zap.Logger
	client *api.Client
}

var current *app

func setupApp(cmd *cobra.Command, args []string) error {
	dir, err := paths.WorkingDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir, rootConfig)
	if err != nil {
		return err
	}
	applyRootFlags(cmd, cfg)

	logger, err := logging.New(logging.Options{
		File:   cfg.Log.File,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	current = &app{
		config: cfg,
		logger: logger,
		client: newClient(cfg, logger),
	}
	return nil
}

func applyRootFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.URL = rootAPIURL
	}
	if flags.Changed("log-file") {
		cfg.Log.File = rootLogFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = rootLogLevel
	}
}

func newClient(cfg *config.Config, logger *zap.Logger) *api.Client {
	return api.NewClient(api.Options{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})
}

func newController(opts ...tasklist.Option) *tasklist.Controller {
	state := tasklist.DefaultFilterState()
	state.PageSize = current.config.List.PerPage
	base := []tasklist.Option{
		tasklist.WithState(state),
		tasklist.WithLogger(current.logger),
		tasklist.WithLocation(time.Local),
	}
	return tasklist.New(current.client, append(base, opts...)...)
}
