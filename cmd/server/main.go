package main

import (
	"fmt"
	"log"
	"os"

	"jobcoach/internal/config"
	"jobcoach/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "jobcoach"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "jobcoach serves job recommendations and a grounded career assistant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	l, err := logger.New(cfg.App.LogJSON, cfg.App.LogDebug)
	if err != nil {
		log.Printf("creating a logger: %s", err)
		return config.Config{}, nil, err
	}
	return cfg, l.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment)), nil
}
