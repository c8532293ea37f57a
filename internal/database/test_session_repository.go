package database

import (
	"context"
	"fmt"

	"github.com/example/cincopalabras/pkg/models"
)

const testSessionColumns = "id, lesson_id, word_id, correct_answer, user_answer, is_correct, time_spent, created_at"

// TestSessionRepository handles database operations for answered quiz questions.
// Records are append-only.
type TestSessionRepository struct {
	db *DB
}

// NewTestSessionRepository creates a new repository instance
func NewTestSessionRepository(db *DB) *TestSessionRepository {
	return &TestSessionRepository{db: db}
}

// Create inserts a new answer record and sets its ID
func (r *TestSessionRepository) Create(ctx context.Context, session *models.TestSession) error {
	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO test_sessions (
			lesson_id, word_id, correct_answer, user_answer,
			is_correct, time_spent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.LessonID,
		session.WordID,
		session.CorrectAnswer,
		session.UserAnswer,
		session.IsCorrect,
		session.TimeSpent,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test session: %w", err)
	}
	session.ID = id
	return nil
}

// GetByLessonID returns all answers recorded for a lesson
func (r *TestSessionRepository) GetByLessonID(ctx context.Context, lessonID int64) ([]models.TestSession, error) {
	sessions := []models.TestSession{}
	query := "SELECT " + testSessionColumns + " FROM test_sessions WHERE lesson_id = ? ORDER BY id"
	if err := r.db.SelectContext(ctx, &sessions, r.db.Rebind(query), lessonID); err != nil {
		return nil, fmt.Errorf("failed to get test sessions: %w", err)
	}
	return sessions, nil
}

// GetAll returns every recorded answer
func (r *TestSessionRepository) GetAll(ctx context.Context) ([]models.TestSession, error) {
	sessions := []models.TestSession{}
	if err := r.db.SelectContext(ctx, &sessions, "SELECT "+testSessionColumns+" FROM test_sessions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get test sessions: %w", err)
	}
	return sessions, nil
}

// Count returns the number of recorded answers
func (r *TestSessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM test_sessions"); err != nil {
		return 0, fmt.Errorf("failed to count test sessions: %w", err)
	}
	return count, nil
}
