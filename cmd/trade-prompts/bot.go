package main

import (
	"errors"

	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"

	"github.com/smith3v/trade-prompts/pkg/bot/handlers"
	"github.com/smith3v/trade-prompts/pkg/config"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve the catalog over Telegram",
	Long: `Start the Telegram bot with the token from telegram.token
(TRADEPROMPTS_TELEGRAM_TOKEN). The bot runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		token := config.AppConfig.Telegram.Token
		if token == "" {
			return errors.New("telegram.token is not set")
		}

		h := handlers.New(handlers.Options{Service: svc, Token: token})
		b, err := bot.New(token, bot.WithDefaultHandler(h.HandleMessage))
		if err != nil {
			logger.Error("failed to create bot", "error", err)
			return err
		}
		h.Register(b)

		go h.Forms().StartSweeper(ctx)

		logger.Info("Starting bot...")
		b.Start(ctx)
		return nil
	},
}
