package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"defect-lens/config"
)

// NewRootCmd создаёт корневую команду
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defect-lens",
		Short: "Visual defect inspection for manufactured parts",
		Long: `defect-lens captures a photo of a part and asks a multimodal model
for a structured inspection report: verdict, defect, location, severity,
suggested fix and confidence.

Configuration comes from .env, an optional YAML file (--config) and the
environment. The environment wins.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (YAML)")

	cmd.AddCommand(NewBotCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute запускает корневую команду
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig читает настройки и создаёт логгер по уровню из них
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}
