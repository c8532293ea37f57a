package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cincopalabras/internal/excel"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Добавить слова из CSV или XLSX файла",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(a)

		importCfg := excel.DefaultImportConfig(args[0])
		flags := cmd.Flags()
		importCfg.SheetName, _ = flags.GetString("sheet")
		importCfg.SpanishColumn, _ = flags.GetString("spanish-col")
		importCfg.TranscriptionColumn, _ = flags.GetString("transcription-col")
		importCfg.RussianColumn, _ = flags.GetString("russian-col")
		importCfg.StartRow, _ = flags.GetInt("start-row")

		result, err := a.ImportWords(cmd.Context(), importCfg)
		if err != nil {
			return fmt.Errorf("failed to import words: %w", err)
		}

		header(cmd, "Обработано строк: %d, добавлено: %d, пропущено: %d",
			result.TotalProcessed, result.Created, result.Skipped)
		for _, msg := range result.Errors {
			cmd.Println("  " + msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	defaults := excel.DefaultImportConfig("")
	flags := importCmd.Flags()
	flags.String("sheet", "", "лист XLSX (по умолчанию первый)")
	flags.String("spanish-col", defaults.SpanishColumn, "колонка с испанским словом")
	flags.String("transcription-col", defaults.TranscriptionColumn, "колонка с транскрипцией")
	flags.String("russian-col", defaults.RussianColumn, "колонка с переводом")
	flags.Int("start-row", defaults.StartRow, "первая строка с данными")
}
