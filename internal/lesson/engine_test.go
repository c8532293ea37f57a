package lesson

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cincopalabras/internal/database"
	"github.com/example/cincopalabras/pkg/models"
)

type fixture struct {
	engine  *Engine
	words   *database.WordRepository
	lessons *database.LessonRepository
	now     time.Time
}

func newFixture(t *testing.T, wordCount int) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	db, err := database.Connect(ctx, database.DriverSQLite, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		words:   database.NewWordRepository(db),
		lessons: database.NewLessonRepository(db),
		now:     time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	words := make([]models.Word, wordCount)
	for i := range words {
		words[i] = models.Word{
			Spanish:   fmt.Sprintf("es-%d", i),
			Russian:   fmt.Sprintf("ru-%d", i),
			CreatedAt: f.now,
		}
	}
	require.NoError(t, f.words.BulkCreate(ctx, words))

	f.engine = NewEngine(f.words, f.lessons,
		WithClock(func() time.Time { return f.now }),
		WithLocation(time.UTC),
		WithRand(rand.New(rand.NewSource(7))),
		WithLogger(logger),
	)
	return f
}

func TestEnsureLessonForTodayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 20)

	first, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", first.Date)
	assert.Len(t, first.WordIDs, DefaultBatchSize)
	assert.Equal(t, models.LessonNotStarted, first.Status)
	assert.Equal(t, f.now, first.CreatedAt)

	for i := 0; i < 3; i++ {
		again, err := f.engine.EnsureLessonForToday(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
		assert.Equal(t, first.WordIDs, again.WordIDs)
	}
}

func TestEnsureLessonForTodayNeverReusesWords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 23)

	seen := map[int64]bool{}
	for day := 0; day < 5; day++ {
		f.now = f.now.Add(24 * time.Hour)
		lesson, err := f.engine.EnsureLessonForToday(ctx, false)
		require.NoError(t, err)

		unique := map[int64]bool{}
		for _, id := range lesson.WordIDs {
			assert.False(t, seen[id], "word %d reused on day %d", id, day)
			assert.False(t, unique[id], "word %d repeated within lesson", id)
			seen[id] = true
			unique[id] = true
		}
	}
	assert.Len(t, seen, 23)

	f.now = f.now.Add(24 * time.Hour)
	_, err := f.engine.EnsureLessonForToday(ctx, false)
	assert.ErrorIs(t, err, ErrVocabularyExhausted)
}

func TestEnsureLessonForTodayTakesRemainderWhenPoolIsSmall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 7)

	_, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)

	next, err := f.engine.EnsureLessonForToday(ctx, true)
	require.NoError(t, err)
	assert.Len(t, next.WordIDs, 2)
}

func TestFiveWordScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	all, err := f.words.GetAll(ctx)
	require.NoError(t, err)
	allIDs := make([]int64, len(all))
	for i, w := range all {
		allIDs[i] = w.ID
	}

	first, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, allIDs, []int64(first.WordIDs))

	second, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = f.engine.EnsureLessonForToday(ctx, true)
	assert.ErrorIs(t, err, ErrVocabularyExhausted)

	lessons, err := f.engine.GetAllLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 1, "no lesson is created when the vocabulary is exhausted")
}

func TestEnsureLessonForTodayEmptyVocabulary(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.engine.EnsureLessonForToday(context.Background(), false)
	assert.ErrorIs(t, err, ErrVocabularyExhausted)
}

func TestForceAdvanceCompletesCurrentLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 12)

	first, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)

	next, err := f.engine.EnsureLessonForToday(ctx, true)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.Equal(t, first.Date, next.Date)
	assert.NotContains(t, next.WordIDs, first.WordIDs[0])

	skipped, err := f.lessons.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, skipped.IsCompleted())
	assert.True(t, skipped.IsViewed())

	today, err := f.engine.GetTodayLesson(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.ID, today.ID)
}

func TestLessonStatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	lesson, err := f.engine.EnsureLessonForToday(ctx, false)
	require.NoError(t, err)

	require.NoError(t, f.engine.MarkLessonAsViewed(ctx, lesson.ID))
	require.NoError(t, f.engine.MarkLessonAsViewed(ctx, lesson.ID))
	got, err := f.lessons.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LessonViewed, got.Status)

	require.NoError(t, f.engine.MarkLessonAsCompleted(ctx, lesson.ID))
	require.NoError(t, f.engine.MarkLessonAsViewed(ctx, lesson.ID))
	require.NoError(t, f.engine.MarkLessonAsCompleted(ctx, lesson.ID))
	got, err = f.lessons.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LessonCompleted, got.Status)

	err = f.engine.MarkLessonAsViewed(ctx, 999)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestGetTodayLessonHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	lesson, err := f.engine.GetTodayLesson(ctx)
	require.NoError(t, err)
	assert.Nil(t, lesson)

	all, err := f.engine.GetAllLessons(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTodayUsesConfiguredLocation(t *testing.T) {
	f := newFixture(t, 0)
	f.now = time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)

	WithLocation(time.FixedZone("MSK", 3*60*60))(f.engine)

	assert.Equal(t, "2025-03-15", f.engine.Today())
}

func TestGetAllLessonsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 20)

	var ids []int64
	for day := 0; day < 3; day++ {
		lesson, err := f.engine.EnsureLessonForToday(ctx, false)
		require.NoError(t, err)
		ids = append([]int64{lesson.ID}, ids...)
		f.now = f.now.Add(24 * time.Hour)
	}

	all, err := f.engine.GetAllLessons(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, l := range all {
		assert.Equal(t, ids[i], l.ID)
	}
}

func TestGetWordsForLessonKeepsLessonOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 6)

	lesson := &models.Lesson{WordIDs: models.WordIDs{4, 999, 2, 6}}
	words, err := f.engine.GetWordsForLesson(ctx, lesson)
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, []int64{4, 2, 6}, []int64{words[0].ID, words[1].ID, words[2].ID})
}

type failingLessons struct {
	LessonStore
	err error
}

func (f failingLessons) GetLatestByDate(ctx context.Context, date string) (*models.Lesson, error) {
	return nil, f.err
}

func TestEnsureLessonForTodayPropagatesStorageFailure(t *testing.T) {
	f := newFixture(t, 10)
	boom := errors.New("disk I/O error")
	engine := NewEngine(f.words, failingLessons{err: boom})

	_, err := engine.EnsureLessonForToday(context.Background(), false)
	assert.ErrorIs(t, err, boom)
}
