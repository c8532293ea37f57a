package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/cincopalabras/internal/app"
	"github.com/example/cincopalabras/internal/lesson"
	"github.com/example/cincopalabras/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Создать базу данных, загрузить словарь и подготовить урок на сегодня",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closeApp(a)

		today, err := a.Initialize(cmd.Context())
		if isExhausted(err) {
			printExhausted(cmd)
			return nil
		}
		if err != nil {
			return err
		}
		header(cmd, "Урок на %s готов: %d слов", today.Date, len(today.WordIDs))
		return nil
	},
}

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Показать урок на сегодня",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		next, _ := cmd.Flags().GetBool("next")
		current, err := a.EnsureLessonForToday(cmd.Context(), next)
		if isExhausted(err) {
			printExhausted(cmd)
			return nil
		}
		if err != nil {
			return err
		}

		words, err := a.GetWordsForLesson(cmd.Context(), current)
		if err != nil {
			return err
		}
		header(cmd, "Урок #%d (%s), статус: %s", current.ID, current.Date, statusLabel(current.Status))
		printWords(cmd, words)
		return nil
	},
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Открыть слова урока для изучения",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		current, err := a.EnsureLessonForToday(cmd.Context(), false)
		if isExhausted(err) {
			printExhausted(cmd)
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.MarkLessonAsViewed(cmd.Context(), current.ID); err != nil {
			return err
		}

		words, err := a.GetWordsForLesson(cmd.Context(), current)
		if err != nil {
			return err
		}
		header(cmd, "📚 Слова на %s", current.Date)
		printWords(cmd, words)
		cmd.Println("Когда будете готовы, запустите: cincopalabras quiz")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd, lessonCmd, learnCmd)
	lessonCmd.Flags().Bool("next", false, "пропустить текущий урок и начать новый")
}

func isExhausted(err error) bool {
	return errors.Is(err, lesson.ErrVocabularyExhausted)
}

func printWords(cmd *cobra.Command, words []models.Word) {
	for i, w := range words {
		if w.Transcription != "" {
			cmd.Printf("%d. %s [%s] - %s\n", i+1, w.Spanish, w.Transcription, w.Russian)
		} else {
			cmd.Printf("%d. %s - %s\n", i+1, w.Spanish, w.Russian)
		}
	}
}

func statusLabel(status models.LessonStatus) string {
	switch status {
	case models.LessonViewed:
		return "просмотрен"
	case models.LessonCompleted:
		return "завершён"
	default:
		return "не начат"
	}
}
