package quiz

import (
	"context"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/pkg/models"
)

// SessionStore persists answered questions
type SessionStore interface {
	Create(ctx context.Context, session *models.TestSession) error
	GetByLessonID(ctx context.Context, lessonID int64) ([]models.TestSession, error)
	GetAll(ctx context.Context) ([]models.TestSession, error)
}

// Recorder stores quiz answers and aggregates them
type Recorder struct {
	sessions SessionStore
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewRecorder creates a recorder. A nil clock means time.Now.
func NewRecorder(sessions SessionStore, now func() time.Time, log logrus.FieldLogger) *Recorder {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{sessions: sessions, now: now, log: log}
}

// SaveTestResult appends an answer record. The answer is correct only when it
// matches the expected text exactly.
func (r *Recorder) SaveTestResult(ctx context.Context, lessonID, wordID int64, correctAnswer, userAnswer string, timeSpent time.Duration) (*models.TestSession, error) {
	session := &models.TestSession{
		LessonID:      lessonID,
		WordID:        wordID,
		CorrectAnswer: correctAnswer,
		UserAnswer:    userAnswer,
		IsCorrect:     userAnswer == correctAnswer,
		TimeSpent:     timeSpent.Milliseconds(),
		CreatedAt:     r.now(),
	}
	if err := r.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"lesson_id":  lessonID,
		"word_id":    wordID,
		"is_correct": session.IsCorrect,
	}).Debug("Saved test result")
	return session, nil
}

// GetTestResultsForLesson returns every answer recorded for the lesson, retakes included
func (r *Recorder) GetTestResultsForLesson(ctx context.Context, lessonID int64) ([]models.TestSession, error) {
	return r.sessions.GetByLessonID(ctx, lessonID)
}

// GetTestStatistics aggregates all answers ever recorded
func (r *Recorder) GetTestStatistics(ctx context.Context) (*models.TestStatistics, error) {
	sessions, err := r.sessions.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.TestStatistics{
		TotalTests:     len(sessions),
		CorrectAnswers: countCorrect(sessions),
	}
	if stats.TotalTests == 0 {
		return stats, nil
	}

	totalTime := lo.SumBy(sessions, func(s models.TestSession) int64 { return s.TimeSpent })
	stats.Accuracy = float64(stats.CorrectAnswers) / float64(stats.TotalTests) * 100
	stats.AverageTime = float64(totalTime) / float64(stats.TotalTests)
	return stats, nil
}

// CalculateTestScore returns the rounded percentage of correct answers, 0 for no answers
func CalculateTestScore(results []models.TestSession) int {
	if len(results) == 0 {
		return 0
	}
	return int(math.Round(float64(countCorrect(results)) / float64(len(results)) * 100))
}

func countCorrect(sessions []models.TestSession) int {
	return lo.CountBy(sessions, func(s models.TestSession) bool { return s.IsCorrect })
}
