package cmd

import (
	"bufio"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Пройти тест по словам сегодняшнего урока",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		current, err := a.EnsureLessonForToday(ctx, false)
		if isExhausted(err) {
			printExhausted(cmd)
			return nil
		}
		if err != nil {
			return err
		}

		questions, err := a.BuildDailyTest(ctx, current)
		if err != nil {
			return err
		}

		input := bufio.NewScanner(cmd.InOrStdin())
		correct := 0
		for i, q := range questions {
			header(cmd, "\n%d/%d. %s [%s]", i+1, len(questions), q.Spanish, q.Transcription)
			for j, opt := range q.Options {
				cmd.Printf("  %d) %s\n", j+1, opt)
			}
			cmd.Print("Ваш ответ: ")

			started := time.Now()
			answer := readAnswer(input, q.Options)
			session, err := a.SaveTestResult(ctx, current.ID, q.WordID, q.CorrectAnswer, answer, time.Since(started))
			if err != nil {
				return err
			}

			if session.IsCorrect {
				correct++
				cmd.Println("✅ Правильно!")
			} else {
				cmd.Printf("❌ Неправильно. Правильный ответ: %s\n", q.CorrectAnswer)
			}
		}

		if err := a.MarkLessonAsCompleted(ctx, current.ID); err != nil {
			return err
		}

		results, err := a.GetTestResultsForLesson(ctx, current.ID)
		if err != nil {
			return err
		}
		header(cmd, "\nРезультат: %d из %d. Оценка урока: %d%%", correct, len(questions), a.CalculateTestScore(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)
}

// readAnswer accepts an option number or the option text. Empty input counts as no answer.
func readAnswer(input *bufio.Scanner, options []string) string {
	if !input.Scan() {
		return ""
	}
	text := strings.TrimSpace(input.Text())
	if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return text
}
