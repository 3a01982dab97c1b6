package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/smith3v/trade-prompts/pkg/app"
	"github.com/smith3v/trade-prompts/pkg/config"
	"github.com/smith3v/trade-prompts/pkg/logger"
)

var (
	cfgFile string

	svc          *app.Service
	closeCatalog func() error
)

var rootCmd = &cobra.Command{
	Use:   "trade-prompts",
	Short: "Trading prompt catalog with a Telegram bot and a command line",
	Long: `trade-prompts keeps a collection of trading-analysis prompt templates.

Prompts mention [INSTRUMENT] where the traded symbol goes. Copying a prompt
renders it for the selected instrument and counts the use. The same catalog
is served by the Telegram bot (trade-prompts bot) and by the commands below.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(configPath(cmd)); err != nil {
			return err
		}
		if err := logger.Configure(logger.Options{
			Level:  config.AppConfig.Logging.Level,
			File:   config.AppConfig.Logging.File,
			Stderr: cmd.Name() != "bot",
		}); err != nil {
			logger.Error("failed to configure logger", "error", err)
		}

		var err error
		svc, closeCatalog, err = app.Open(cmd.Context(), config.AppConfig)
		if err != nil {
			logger.Error("failed to open catalog", "error", err)
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeCatalog == nil {
			return nil
		}
		err := closeCatalog()
		if closeErr := logger.Close(); err == nil {
			err = closeErr
		}
		return err
	},
}

// configPath skips the default config file when it does not exist.
func configPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("config") {
		return cfgFile
	}
	if _, err := os.Stat(cfgFile); err != nil {
		return ""
	}
	return cfgFile
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "config.json", "JSON config file, empty to use defaults and TRADEPROMPTS_* variables",
	)

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(listCmd, copyCmd, addCmd, favoriteCmd, createCmd, deleteCmd)
	rootCmd.AddCommand(topicsCmd, exportCmd, importCmd)
	rootCmd.AddCommand(signupCmd, signinCmd)
}
