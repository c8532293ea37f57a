package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/example/cincopalabras/pkg/models"
)

const lessonColumns = "id, date, word_ids, status, created_at"

// LessonRepository handles database operations for lessons
type LessonRepository struct {
	db *DB
}

// NewLessonRepository creates a new repository instance
func NewLessonRepository(db *DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create inserts a new lesson and sets its ID
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.Status == "" {
		lesson.Status = models.LessonNotStarted
	}
	if lesson.WordIDs == nil {
		lesson.WordIDs = models.WordIDs{}
	}
	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO lessons (date, word_ids, status, created_at)
		VALUES (?, ?, ?, ?)`,
		lesson.Date, lesson.WordIDs, lesson.Status, lesson.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	lesson.ID = id
	return nil
}

// GetByID returns a lesson by ID, or nil if it does not exist
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.GetContext(ctx, &lesson, r.db.Rebind("SELECT "+lessonColumns+" FROM lessons WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return &lesson, nil
}

// GetLatestByDate returns the most recently created lesson for date, or nil
func (r *LessonRepository) GetLatestByDate(ctx context.Context, date string) (*models.Lesson, error) {
	var lesson models.Lesson
	query := "SELECT " + lessonColumns + " FROM lessons WHERE date = ? ORDER BY id DESC LIMIT 1"
	err := r.db.GetContext(ctx, &lesson, r.db.Rebind(query), date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by date: %w", err)
	}
	return &lesson, nil
}

// GetAll returns all lessons, most recent date first
func (r *LessonRepository) GetAll(ctx context.Context) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	err := r.db.SelectContext(ctx, &lessons, "SELECT "+lessonColumns+" FROM lessons ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get lessons: %w", err)
	}
	return lessons, nil
}

// UsedWordIDs returns the union of word ids across all lessons
func (r *LessonRepository) UsedWordIDs(ctx context.Context) ([]int64, error) {
	var rows []models.WordIDs
	if err := r.db.SelectContext(ctx, &rows, "SELECT word_ids FROM lessons"); err != nil {
		return nil, fmt.Errorf("failed to get used word IDs: %w", err)
	}
	ids := lo.Flatten(lo.Map(rows, func(ids models.WordIDs, _ int) []int64 { return ids }))
	return lo.Uniq(ids), nil
}

// UpdateStatus stores a new lifecycle status for the lesson
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status models.LessonStatus) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE lessons SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return fmt.Errorf("failed to update lesson status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("lesson %d: %w", id, ErrNotFound)
	}
	return nil
}
