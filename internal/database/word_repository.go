package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/cincopalabras/pkg/models"
)

const wordColumns = "id, spanish, transcription, russian, difficulty, created_at"

// WordRepository handles database operations for words
type WordRepository struct {
	db *DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetAll returns all words ordered by id
func (r *WordRepository) GetAll(ctx context.Context) ([]models.Word, error) {
	words := []models.Word{}
	err := r.db.SelectContext(ctx, &words, "SELECT "+wordColumns+" FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetByID returns a word by ID, or nil if it does not exist
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.db.Rebind("SELECT "+wordColumns+" FROM words WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}
	return &word, nil
}

// GetByIDs returns the words whose id is any of ids. Order is unspecified.
func (r *WordRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Word, error) {
	words := []models.Word{}
	if len(ids) == 0 {
		return words, nil
	}
	err := r.db.selectIn(ctx, &words, "SELECT "+wordColumns+" FROM words WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get words by IDs: %w", err)
	}
	return words, nil
}

// GetExcluding returns every word whose id is none of ids
func (r *WordRepository) GetExcluding(ctx context.Context, ids []int64) ([]models.Word, error) {
	if len(ids) == 0 {
		return r.GetAll(ctx)
	}
	words := []models.Word{}
	err := r.db.selectIn(ctx, &words, "SELECT "+wordColumns+" FROM words WHERE id NOT IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get words excluding IDs: %w", err)
	}
	return words, nil
}

// Count returns the number of words in the corpus
func (r *WordRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// Create inserts a new word and sets its ID
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	return createWord(ctx, r.db, word)
}

// BulkCreate inserts all words in a single transaction and sets their IDs
func (r *WordRepository) BulkCreate(ctx context.Context, words []models.Word) error {
	if len(words) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	for i := range words {
		if err := createWord(ctx, tx, &words[i]); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func createWord(ctx context.Context, ext sqlx.ExtContext, word *models.Word) error {
	if word.Difficulty == "" {
		word.Difficulty = models.DifficultyMedium
	}
	id, err := insertReturningID(ctx, ext, `
		INSERT INTO words (spanish, transcription, russian, difficulty, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		word.Spanish, word.Transcription, word.Russian, word.Difficulty, word.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create word %q: %w", word.Spanish, err)
	}
	word.ID = id
	return nil
}
