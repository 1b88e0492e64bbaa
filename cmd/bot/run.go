package main

import (
	"botrouter/internal/app"
	"botrouter/internal/config"
	"botrouter/pkg/logger"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot with long polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFiles...)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bot, err := app.NewBotFromConfig(ctx, cfg, log)
			if err != nil {
				log.Error("Failed to create bot", zap.Error(err))
				return err
			}

			if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error("Bot stopped with error", zap.Error(err))
				return err
			}

			log.Info("Shutdown complete")
			return nil
		},
	}
}
