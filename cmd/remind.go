package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Отправлять ежедневное напоминание в заданное время",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if now, _ := cmd.Flags().GetBool("now"); now {
			return a.SendReminderNow(ctx)
		}

		watch, _ := cmd.Flags().GetDuration("watch")
		if err := a.StartReminders(ctx, watch); err != nil {
			return err
		}
		if next, ok := a.NextReminder(); ok {
			logger.WithField("next_run", next).Info("Reminder scheduler started")
		} else {
			logger.Info("Notifications are disabled, waiting for settings change")
		}

		<-ctx.Done()
		logger.Info("Shutting down reminder scheduler")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
	remindCmd.Flags().Bool("now", false, "отправить напоминание сразу и выйти")
	remindCmd.Flags().Duration("watch", time.Minute, "как часто перечитывать настройки")
}
