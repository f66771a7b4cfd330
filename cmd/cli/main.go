package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/cmd/cli/commands"
	"github.com/shiftgrid/shiftgrid/internal/config"
	"github.com/shiftgrid/shiftgrid/pkg/utils/logging"
)

var app = &commands.AppContext{}

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftgrid",
		Short: "shiftgrid - staff roster constraint solver",
		Long:  `Builds a constraint model from staff, dates, and scheduling rules, then computes a best-effort optimal roster with a quantified violation report.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up config and logger for all commands.
func initApp() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.InitLogger(cfg.Environment, cfg.Logging.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("starting", zap.String("environment", cfg.Environment))

	app.Ctx = context.Background()
	app.Cfg = cfg
	app.Logger = logger
	return nil
}
