// Package lesson selects the daily word batch and tracks lesson progress.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/pkg/models"
)

// DefaultBatchSize is the number of words in a daily lesson
const DefaultBatchSize = 5

var (
	// ErrVocabularyExhausted is returned when every word has already been used in a lesson
	ErrVocabularyExhausted = errors.New("no more words available for lessons")

	// ErrLessonNotFound is returned when a status change targets an unknown lesson
	ErrLessonNotFound = errors.New("lesson not found")
)

// WordStore is the read side of the vocabulary used by the engine
type WordStore interface {
	GetAll(ctx context.Context) ([]models.Word, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Word, error)
	GetExcluding(ctx context.Context, ids []int64) ([]models.Word, error)
}

// LessonStore persists lessons
type LessonStore interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	GetLatestByDate(ctx context.Context, date string) (*models.Lesson, error)
	GetAll(ctx context.Context) ([]models.Lesson, error)
	UsedWordIDs(ctx context.Context) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.LessonStatus) error
}

// Engine creates daily lessons and moves them through their lifecycle
type Engine struct {
	words     WordStore
	lessons   LessonStore
	batchSize int
	now       func() time.Time
	loc       *time.Location
	rnd       *rand.Rand
	log       logrus.FieldLogger
}

// Option configures an Engine
type Option func(*Engine)

// WithBatchSize sets how many words a new lesson gets
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone that decides where a day starts
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithRand sets the random source used for word selection
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) { e.rnd = rnd }
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine creates a lesson engine
func NewEngine(words WordStore, lessons LessonStore, opts ...Option) *Engine {
	e := &Engine{
		words:     words,
		lessons:   lessons,
		batchSize: DefaultBatchSize,
		now:       time.Now,
		loc:       time.Local,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current date in YYYY-MM-DD form
func (e *Engine) Today() string {
	return e.now().In(e.loc).Format(models.DateLayout)
}

// EnsureLessonForToday returns today's lesson, creating it when there is none.
// With forceAdvance the current lesson is marked completed and a fresh lesson
// is created for the same date; the date itself does not move.
func (e *Engine) EnsureLessonForToday(ctx context.Context, forceAdvance bool) (*models.Lesson, error) {
	today := e.Today()

	existing, err := e.lessons.GetLatestByDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if existing != nil && !forceAdvance {
		return existing, nil
	}
	if existing != nil {
		if err := e.MarkLessonAsCompleted(ctx, existing.ID); err != nil {
			return nil, err
		}
		e.log.WithFields(logrus.Fields{"lesson_id": existing.ID, "date": today}).Info("Skipped lesson")
	}

	pool, err := e.availableWords(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrVocabularyExhausted
	}

	e.rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	selected := pool[:min(e.batchSize, len(pool))]

	lesson := &models.Lesson{
		Date:      today,
		WordIDs:   lo.Map(selected, func(w models.Word, _ int) int64 { return w.ID }),
		Status:    models.LessonNotStarted,
		CreatedAt: e.now(),
	}
	if err := e.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"lesson_id":  lesson.ID,
		"date":       today,
		"word_count": len(lesson.WordIDs),
	}).Info("Created lesson")
	return lesson, nil
}

// availableWords returns the words that no lesson has used yet
func (e *Engine) availableWords(ctx context.Context) ([]models.Word, error) {
	used, err := e.lessons.UsedWordIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(used) == 0 {
		return e.words.GetAll(ctx)
	}
	return e.words.GetExcluding(ctx, used)
}

// MarkLessonAsViewed records that the learner opened the lesson
func (e *Engine) MarkLessonAsViewed(ctx context.Context, lessonID int64) error {
	return e.advance(ctx, lessonID, models.LessonViewed)
}

// MarkLessonAsCompleted records that the lesson quiz was finished or skipped
func (e *Engine) MarkLessonAsCompleted(ctx context.Context, lessonID int64) error {
	return e.advance(ctx, lessonID, models.LessonCompleted)
}

func (e *Engine) advance(ctx context.Context, lessonID int64, next models.LessonStatus) error {
	lesson, err := e.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson == nil {
		return fmt.Errorf("lesson %d: %w", lessonID, ErrLessonNotFound)
	}

	status := lesson.Status.Advance(next)
	if status == lesson.Status {
		return nil
	}
	return e.lessons.UpdateStatus(ctx, lessonID, status)
}

// GetTodayLesson returns today's lesson or nil
func (e *Engine) GetTodayLesson(ctx context.Context) (*models.Lesson, error) {
	return e.lessons.GetLatestByDate(ctx, e.Today())
}

// GetAllLessons returns every lesson, most recent first
func (e *Engine) GetAllLessons(ctx context.Context) ([]models.Lesson, error) {
	return e.lessons.GetAll(ctx)
}

// GetWordsForLesson resolves the lesson's word ids in lesson order.
// Ids that no longer resolve are left out.
func (e *Engine) GetWordsForLesson(ctx context.Context, lesson *models.Lesson) ([]models.Word, error) {
	found, err := e.words.GetByIDs(ctx, lesson.WordIDs)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(found, func(w models.Word) int64 { return w.ID })

	return lo.FilterMap(lesson.WordIDs, func(id int64, _ int) (models.Word, bool) {
		w, ok := byID[id]
		return w, ok
	}), nil
}
