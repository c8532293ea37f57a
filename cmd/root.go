// Package cmd implements the cincopalabras command line.
package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/cincopalabras/internal/app"
	"github.com/example/cincopalabras/internal/config"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "cincopalabras",
	Short:         "Пять новых испанских слов каждый день",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if dsn := viper.GetString("flags.dsn"); dsn != "" {
			loaded.Database.DSN = dsn
		}
		if level := viper.GetString("flags.log_level"); level != "" {
			loaded.Log.Level = level
		}

		l, err := loaded.NewLogger()
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

// ExecuteContext runs the root command. Cancelling ctx stops long-running commands.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("dsn", "", "database DSN (overrides CINCO_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides CINCO_LOG_LEVEL)")
	bindFlagToViper("flags.dsn", rootCmd.PersistentFlags().Lookup("dsn"))
	bindFlagToViper("flags.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// openApp builds the application and runs initialization.
// Exhausted vocabulary is not an error here; callers check the lesson for nil.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := a.Initialize(cmd.Context()); err != nil && !isExhausted(err) {
		a.Close()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close application")
	}
}

func printExhausted(cmd *cobra.Command) {
	cmd.Println("🎉 Все слова выучены! Новых слов для урока больше нет.")
}

func header(cmd *cobra.Command, format string, args ...interface{}) {
	cmd.Printf(format+"\n", args...)
}
