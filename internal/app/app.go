// Package app wires storage and the learning components into one handle.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/internal/config"
	"github.com/example/cincopalabras/internal/corpus"
	"github.com/example/cincopalabras/internal/database"
	"github.com/example/cincopalabras/internal/excel"
	"github.com/example/cincopalabras/internal/lesson"
	"github.com/example/cincopalabras/internal/progress"
	"github.com/example/cincopalabras/internal/quiz"
	"github.com/example/cincopalabras/internal/scheduler"
	"github.com/example/cincopalabras/internal/settings"
	"github.com/example/cincopalabras/internal/telegram"
	"github.com/example/cincopalabras/pkg/models"
)

// ErrInitialization wraps storage failures on the startup path
var ErrInitialization = errors.New("initialization failed")

// App is the in-process API used by the CLI
type App struct {
	cfg *config.Config
	log logrus.FieldLogger
	db  *database.DB
	now func() time.Time

	words     *database.WordRepository
	lessons   *lesson.Engine
	builder   *quiz.Builder
	recorder  *quiz.Recorder
	settings  *settings.Store
	progress  *progress.Aggregator
	scheduler *scheduler.Scheduler
}

type options struct {
	now      func() time.Time
	rnd      *rand.Rand
	notifier scheduler.Notifier
}

// Option customizes App construction
type Option func(*options)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand sets the random source shared by lesson selection and quiz building
func WithRand(rnd *rand.Rand) Option {
	return func(o *options) { o.rnd = rnd }
}

// WithNotifier sets where reminders are delivered
func WithNotifier(n scheduler.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// New opens storage and builds every component
func New(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, opts ...Option) (*App, error) {
	o := options{
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	if o.notifier == nil {
		o.notifier = newNotifier(cfg.Telegram, log)
	}

	words := database.NewWordRepository(db)
	lessons := lesson.NewEngine(words, database.NewLessonRepository(db),
		lesson.WithBatchSize(cfg.Lesson.WordsPerLesson),
		lesson.WithClock(o.now),
		lesson.WithLocation(loc),
		lesson.WithRand(o.rnd),
		lesson.WithLogger(log),
	)
	recorder := quiz.NewRecorder(database.NewTestSessionRepository(db), o.now, log)
	store := settings.NewStore(database.NewSettingsRepository(db), o.now, log)

	return &App{
		cfg:     cfg,
		log:     log,
		db:      db,
		now:     o.now,
		words:   words,
		lessons: lessons,
		builder: quiz.NewBuilder(words,
			quiz.WithDistractors(cfg.Quiz.Distractors),
			quiz.WithRand(o.rnd),
			quiz.WithLogger(log),
		),
		recorder:  recorder,
		settings:  store,
		progress:  progress.NewAggregator(lessons, recorder),
		scheduler: scheduler.New(store, o.notifier, loc, log),
	}, nil
}

func newNotifier(cfg config.TelegramConfig, log logrus.FieldLogger) scheduler.Notifier {
	if !cfg.Enabled() {
		return scheduler.LogNotifier{Log: log}
	}
	n, err := telegram.New(cfg.Token, cfg.ChatID, log)
	if err != nil {
		log.WithError(err).Warn("Telegram unavailable, reminders will only be logged")
		return scheduler.LogNotifier{Log: log}
	}
	return n
}

// Close stops the scheduler and closes storage
func (a *App) Close() error {
	a.scheduler.Stop()
	return a.db.Close()
}

// Initialize prepares settings and vocabulary and returns today's lesson.
// Seeding problems leave the vocabulary empty; exhausted vocabulary is returned as is.
func (a *App) Initialize(ctx context.Context) (*models.Lesson, error) {
	if _, err := a.settings.Get(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	corpus.Seed(ctx, a.words, a.cfg.Corpus.Path, a.now(), a.log)

	current, err := a.lessons.EnsureLessonForToday(ctx, false)
	if errors.Is(err, lesson.ErrVocabularyExhausted) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	return current, nil
}

// EnsureLessonForToday returns today's lesson, creating it if needed
func (a *App) EnsureLessonForToday(ctx context.Context, forceAdvance bool) (*models.Lesson, error) {
	return a.lessons.EnsureLessonForToday(ctx, forceAdvance)
}

// NextDay skips the current lesson and starts a fresh one
func (a *App) NextDay(ctx context.Context) (*models.Lesson, error) {
	return a.lessons.EnsureLessonForToday(ctx, true)
}

// MarkLessonAsViewed records the first visit to the learning screen
func (a *App) MarkLessonAsViewed(ctx context.Context, lessonID int64) error {
	return a.lessons.MarkLessonAsViewed(ctx, lessonID)
}

// MarkLessonAsCompleted records a finished quiz
func (a *App) MarkLessonAsCompleted(ctx context.Context, lessonID int64) error {
	return a.lessons.MarkLessonAsCompleted(ctx, lessonID)
}

// GetTodayLesson returns today's lesson or nil
func (a *App) GetTodayLesson(ctx context.Context) (*models.Lesson, error) {
	return a.lessons.GetTodayLesson(ctx)
}

// GetAllLessons returns lessons most recent first
func (a *App) GetAllLessons(ctx context.Context) ([]models.Lesson, error) {
	return a.lessons.GetAllLessons(ctx)
}

// GetWordsForLesson resolves a lesson's words
func (a *App) GetWordsForLesson(ctx context.Context, l *models.Lesson) ([]models.Word, error) {
	return a.lessons.GetWordsForLesson(ctx, l)
}

// BuildDailyTest creates the quiz for a lesson
func (a *App) BuildDailyTest(ctx context.Context, l *models.Lesson) ([]models.TestQuestion, error) {
	return a.builder.BuildDailyTest(ctx, l)
}

// SaveTestResult records one answer
func (a *App) SaveTestResult(ctx context.Context, lessonID, wordID int64, correctAnswer, userAnswer string, timeSpent time.Duration) (*models.TestSession, error) {
	return a.recorder.SaveTestResult(ctx, lessonID, wordID, correctAnswer, userAnswer, timeSpent)
}

// GetTestResultsForLesson returns the answers recorded for a lesson
func (a *App) GetTestResultsForLesson(ctx context.Context, lessonID int64) ([]models.TestSession, error) {
	return a.recorder.GetTestResultsForLesson(ctx, lessonID)
}

// GetTestStatistics aggregates every recorded answer
func (a *App) GetTestStatistics(ctx context.Context) (*models.TestStatistics, error) {
	return a.recorder.GetTestStatistics(ctx)
}

// CalculateTestScore returns the rounded percentage of correct answers
func (a *App) CalculateTestScore(results []models.TestSession) int {
	return quiz.CalculateTestScore(results)
}

// GetSettings returns the settings singleton
func (a *App) GetSettings(ctx context.Context) (*models.Settings, error) {
	return a.settings.Get(ctx)
}

// UpdateSettings applies a partial change and moves the reminder to match
func (a *App) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (*models.Settings, error) {
	updated, err := a.settings.Update(ctx, update)
	if err != nil {
		return nil, err
	}
	if update.NotificationTime != nil || update.NotificationsEnabled != nil {
		a.reschedule(ctx)
	}
	return updated, nil
}

// ToggleNotifications flips reminder delivery on or off
func (a *App) ToggleNotifications(ctx context.Context) (*models.Settings, error) {
	updated, err := a.settings.ToggleNotifications(ctx)
	if err != nil {
		return nil, err
	}
	a.reschedule(ctx)
	return updated, nil
}

func (a *App) reschedule(ctx context.Context) {
	if err := a.scheduler.Reschedule(ctx); err != nil {
		a.log.WithError(err).Warn("Failed to reschedule reminder")
	}
}

// Progress returns the "all learned" report
func (a *App) Progress(ctx context.Context) (*models.ProgressReport, error) {
	return a.progress.Report(ctx)
}

// DailyProgress returns per-day progress in chronological order
func (a *App) DailyProgress(ctx context.Context) ([]models.DailyProgress, error) {
	return a.progress.Daily(ctx)
}

// ImportWords adds words from a CSV or XLSX file, skipping ones already present
func (a *App) ImportWords(ctx context.Context, cfg excel.ImportConfig) (*excel.ImportResult, error) {
	return excel.ImportWords(ctx, cfg, a.words, a.now())
}

// StartReminders schedules the daily reminder and runs the scheduler in the background.
// A positive watch interval also picks up settings changed by other processes.
func (a *App) StartReminders(ctx context.Context, watch time.Duration) error {
	if watch > 0 {
		if err := a.scheduler.Watch(ctx, watch); err != nil {
			return err
		}
	}
	return a.scheduler.Start(ctx)
}

// NextReminder reports when the reminder fires next
func (a *App) NextReminder() (time.Time, bool) {
	return a.scheduler.NextRun()
}

// SendReminderNow delivers the reminder immediately
func (a *App) SendReminderNow(ctx context.Context) error {
	return a.scheduler.SendNow(ctx)
}
