// Package corpus loads the vocabulary seed list and stores it on first run.
package corpus

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/internal/excel"
	"github.com/example/cincopalabras/pkg/models"
)

//go:embed words.json
var embeddedWords []byte

// Entry is one seed triple
type Entry struct {
	Spanish       string `json:"spanish"`
	Transcription string `json:"transcription"`
	Russian       string `json:"russian"`
}

// WordStore is the subset of the word repository used for seeding
type WordStore interface {
	Count(ctx context.Context) (int, error)
	BulkCreate(ctx context.Context, words []models.Word) error
}

// SeedResult reports what Seed did. Err is set when seeding failed and the
// vocabulary was left as it was.
type SeedResult struct {
	Seeded  int
	Skipped bool
	Err     error
}

// Seed fills an empty word table from path, or from the embedded list when path is empty.
// Failures are logged and reported in the result; they never abort the caller.
func Seed(ctx context.Context, store WordStore, path string, now time.Time, log logrus.FieldLogger) SeedResult {
	count, err := store.Count(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count words, continuing without seeding")
		return SeedResult{Err: err}
	}
	log.WithField("word_count", count).Debug("Current word count in database")
	if count > 0 {
		log.Debug("Words already seeded, skipping")
		return SeedResult{Skipped: true}
	}

	words, err := Load(path, now)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to load seed words")
		return SeedResult{Err: err}
	}
	if err := store.BulkCreate(ctx, words); err != nil {
		log.WithError(err).Error("Failed to seed words")
		return SeedResult{Err: err}
	}

	log.WithField("word_count", len(words)).Info("Seeded words into database")
	return SeedResult{Seeded: len(words)}
}

// Load reads seed words from a JSON, CSV or XLSX file, or the embedded list when path is empty
func Load(path string, now time.Time) ([]models.Word, error) {
	if path == "" {
		return Parse(embeddedWords, now)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus: %w", err)
		}
		return Parse(data, now)
	case ".csv", ".xlsx":
		words, _, err := excel.ReadWords(excel.DefaultImportConfig(path), now)
		return words, err
	default:
		return nil, fmt.Errorf("unsupported corpus format: %s", path)
	}
}

// Parse decodes a JSON array of entries. Missing fields become empty strings.
func Parse(data []byte, now time.Time) ([]models.Word, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}

	words := make([]models.Word, len(entries))
	for i, e := range entries {
		words[i] = models.Word{
			Spanish:       e.Spanish,
			Transcription: e.Transcription,
			Russian:       e.Russian,
			Difficulty:    models.DifficultyMedium,
			CreatedAt:     now,
		}
	}
	return words, nil
}
