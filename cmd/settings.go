package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/cincopalabras/pkg/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Показать или изменить настройки",
	Long: `Без флагов выводит текущие настройки. Флаги меняют только указанные поля:

  cincopalabras settings --time 08:30 --notifications=true
  cincopalabras settings --theme dark --language en`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		update := updateFromFlags(cmd)
		var s *models.Settings
		if update.IsEmpty() {
			s, err = a.GetSettings(cmd.Context())
		} else {
			s, err = a.UpdateSettings(cmd.Context(), update)
		}
		if err != nil {
			return err
		}

		header(cmd, "Время напоминания: %s", s.NotificationTime)
		header(cmd, "Напоминания: %s", onOff(s.NotificationsEnabled))
		header(cmd, "Цель на день: %d слов", s.DailyGoal)
		header(cmd, "Тема: %s", s.Theme)
		header(cmd, "Язык: %s", s.Language)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	flags := settingsCmd.Flags()
	flags.String("time", "", "время напоминания в формате HH:MM")
	flags.Bool("notifications", false, "включить или выключить напоминания")
	flags.Int("goal", 0, "цель на день (слов)")
	flags.String("theme", "", "тема: light, dark или auto")
	flags.String("language", "", "язык: ru или en")
}

// updateFromFlags turns the flags the user actually passed into a partial update
func updateFromFlags(cmd *cobra.Command) models.SettingsUpdate {
	var update models.SettingsUpdate
	flags := cmd.Flags()

	if flags.Changed("time") {
		v, _ := flags.GetString("time")
		update.NotificationTime = &v
	}
	if flags.Changed("notifications") {
		v, _ := flags.GetBool("notifications")
		update.NotificationsEnabled = &v
	}
	if flags.Changed("goal") {
		v, _ := flags.GetInt("goal")
		update.DailyGoal = &v
	}
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		theme := models.Theme(v)
		update.Theme = &theme
	}
	if flags.Changed("language") {
		v, _ := flags.GetString("language")
		language := models.Language(v)
		update.Language = &language
	}
	return update
}

func onOff(enabled bool) string {
	if enabled {
		return "включены"
	}
	return "выключены"
}
