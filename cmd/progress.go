package cmd

import (
	"math"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Показать все выученные слова по урокам",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		report, err := a.Progress(cmd.Context())
		if err != nil {
			return err
		}

		header(cmd, "Уроков: %d, слов: %d, средний результат: %d%%",
			report.TotalLessons, report.TotalWords, int(math.Round(report.AverageScore)))
		for _, entry := range report.Lessons {
			header(cmd, "\n%s (%s), результат: %d%%", entry.Lesson.Date, statusLabel(entry.Lesson.Status), entry.Score)
			printWords(cmd, entry.Words)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Показать статистику ответов",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		stats, err := a.GetTestStatistics(cmd.Context())
		if err != nil {
			return err
		}
		header(cmd, "Ответов: %d, правильных: %d, точность: %.1f%%, среднее время: %.1f с",
			stats.TotalTests, stats.CorrectAnswers, stats.Accuracy, stats.AverageTime/1000)

		days, err := a.DailyProgress(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range days {
			done := "-"
			if d.TestCompleted {
				done = "✓"
			}
			header(cmd, "%s  слов: %d  тест: %s  результат: %d%%  всего: %d",
				d.Date, d.WordsLearned, done, d.TestScore, d.TotalWords)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, statsCmd)
}
