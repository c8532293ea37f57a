package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/example/cincopalabras/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath            string // Path to the Excel or CSV file
	SpanishColumn       string // Column with the Spanish word
	TranscriptionColumn string // Column with the transcription
	RussianColumn       string // Column with the translation
	SheetName           string // Name of the sheet to import, first sheet when empty
	StartRow            int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:            path,
		SpanishColumn:       "A",
		TranscriptionColumn: "B",
		RussianColumn:       "C",
		StartRow:            2, // skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// WordStore is the subset of the word repository used by the importer
type WordStore interface {
	GetAll(ctx context.Context) ([]models.Word, error)
	BulkCreate(ctx context.Context, words []models.Word) error
}

// ReadWords parses an Excel or CSV file into unsaved words
func ReadWords(config ImportConfig, now time.Time) ([]models.Word, *ImportResult, error) {
	var rows [][]string
	var err error

	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	words := make([]models.Word, 0, len(rows))
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		word, err := parseRow(row, config, now)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		words = append(words, word)
	}
	return words, result, nil
}

// ImportWords reads a file and stores the words that are not in the corpus yet.
// A word is a duplicate when both its Spanish text and translation match an existing one.
func ImportWords(ctx context.Context, config ImportConfig, store WordStore, now time.Time) (*ImportResult, error) {
	words, result, err := ReadWords(config, now)
	if err != nil {
		return nil, err
	}

	existing, err := store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing words: %w", err)
	}
	seen := lo.Associate(existing, func(w models.Word) (string, struct{}) {
		return dedupeKey(w), struct{}{}
	})

	fresh := make([]models.Word, 0, len(words))
	for _, w := range words {
		key := dedupeKey(w)
		if _, ok := seen[key]; ok {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, w)
	}

	if err := store.BulkCreate(ctx, fresh); err != nil {
		return nil, fmt.Errorf("failed to store imported words: %w", err)
	}
	result.Created = len(fresh)
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, config ImportConfig, now time.Time) (models.Word, error) {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx < len(row) {
			return row[idx]
		}
		return ""
	}

	word := models.Word{
		Spanish:       cleanWord(cell(config.SpanishColumn)),
		Transcription: strings.TrimSpace(cell(config.TranscriptionColumn)),
		Russian:       cleanWord(cell(config.RussianColumn)),
		Difficulty:    models.DifficultyMedium,
		CreatedAt:     now,
	}
	if word.Spanish == "" {
		return word, fmt.Errorf("word cannot be empty")
	}
	if word.Russian == "" {
		return word, fmt.Errorf("translation cannot be empty")
	}
	return word, nil
}

// cleanWord removes the parenthesized note from a word, e.g. "ir (fui, ido)" -> "ir"
func cleanWord(word string) string {
	if idx := strings.Index(word, "("); idx > 0 {
		return strings.TrimSpace(word[:idx])
	}
	return strings.TrimSpace(word)
}

func dedupeKey(w models.Word) string {
	return strings.ToLower(w.Spanish) + "\x00" + strings.ToLower(w.Russian)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
