package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"defect-lens/internal/api/telegram"
	"defect-lens/internal/container"
)

// NewBotCmd создаёт команду запуска Telegram-бота
func NewBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run the Telegram bot. Users send a photo of a part or use /camera to take
a snapshot with the host camera, and receive the inspection report.

Requires TELEGRAM_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: runBotCmd,
	}
}

func runBotCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	c := container.New(cfg, logger)

	bot, err := telegram.NewBot(cfg.Telegram.Token, c.InspectionService, c.CaptureSurface, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot is running")
	return bot.Run(ctx)
}
