package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gazette/internal/services/telegram"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test message to the delivery channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sender, err := telegram.New(
				cfg.Telegram.BaseURL,
				cfg.Telegram.BotToken,
				cfg.Telegram.ChannelID,
				time.Duration(cfg.Telegram.RequestTimeout)*time.Second,
			)
			if err != nil {
				return fmt.Errorf("build delivery client: %w", err)
			}

			if err := sender.SendMessage(cmd.Context(), "gazette delivery test: configuration is working"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test message sent to %s\n", cfg.Telegram.ChannelID)
			return nil
		},
	}
}
