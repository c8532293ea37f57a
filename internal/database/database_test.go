package database

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cincopalabras/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	db, err := Connect(context.Background(), DriverSQLite, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func seedWords(t *testing.T, repo *WordRepository, n int) []models.Word {
	t.Helper()
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{
			Spanish:       "palabra" + string(rune('a'+i)),
			Transcription: "[pa'labra]",
			Russian:       "слово" + string(rune('a'+i)),
			CreatedAt:     testNow,
		}
	}
	require.NoError(t, repo.BulkCreate(context.Background(), words))
	return words
}

func TestConnectRunsMigrationsOnce(t *testing.T) {
	dir := t.TempDir()
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	db, err := Connect(ctx, DriverSQLite, dir+"/data/test.db", logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Connect(ctx, DriverSQLite, dir+"/data/test.db", logger)
	require.NoError(t, err)
	defer db.Close()

	count, err := NewWordRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := Connect(context.Background(), "oracle", "x", logger)
	assert.Error(t, err)
}

func TestWordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWordRepository(newTestDB(t))

	words := seedWords(t, repo, 4)
	for _, w := range words {
		assert.NotZero(t, w.ID)
		assert.Equal(t, models.DifficultyMedium, w.Difficulty)
	}

	t.Run("count and all", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("get by id", func(t *testing.T) {
		w, err := repo.GetByID(ctx, words[1].ID)
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, words[1].Spanish, w.Spanish)
		assert.Equal(t, words[1].Russian, w.Russian)
		assert.WithinDuration(t, testNow, w.CreatedAt, time.Second)

		missing, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("any of", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []int64{words[0].ID, words[2].ID, 999})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{words[0].ID, words[2].ID}, wordIDs(got))

		empty, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("none of", func(t *testing.T) {
		got, err := repo.GetExcluding(ctx, []int64{words[0].ID, words[2].ID})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{words[1].ID, words[3].ID}, wordIDs(got))

		all, err := repo.GetExcluding(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestLessonRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository(newTestDB(t))

	first := &models.Lesson{Date: "2025-03-13", WordIDs: models.WordIDs{3, 1, 2}, CreatedAt: testNow}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, models.LessonNotStarted, first.Status)

	second := &models.Lesson{Date: "2025-03-14", WordIDs: models.WordIDs{4, 5}, CreatedAt: testNow}
	require.NoError(t, repo.Create(ctx, second))
	regenerated := &models.Lesson{Date: "2025-03-14", WordIDs: models.WordIDs{5, 6}, CreatedAt: testNow}
	require.NoError(t, repo.Create(ctx, regenerated))

	t.Run("get by id keeps word order", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.WordIDs{3, 1, 2}, got.WordIDs)
		assert.Equal(t, "2025-03-13", got.Date)
	})

	t.Run("latest by date", func(t *testing.T) {
		got, err := repo.GetLatestByDate(ctx, "2025-03-14")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, regenerated.ID, got.ID)

		none, err := repo.GetLatestByDate(ctx, "2024-01-01")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("all sorted by date descending", func(t *testing.T) {
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{regenerated.ID, second.ID, first.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("used word ids", func(t *testing.T) {
		used, err := repo.UsedWordIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5, 6}, used)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, first.ID, models.LessonViewed))
		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.IsViewed())
		assert.False(t, got.IsCompleted())

		err = repo.UpdateStatus(ctx, 999, models.LessonViewed)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTestSessionRepository(newTestDB(t))

	for i, answer := range []string{"дом", "Дом", "кот"} {
		s := &models.TestSession{
			LessonID:      1,
			WordID:        int64(i + 1),
			CorrectAnswer: "дом",
			UserAnswer:    answer,
			IsCorrect:     answer == "дом",
			TimeSpent:     1500,
			CreatedAt:     testNow,
		}
		require.NoError(t, repo.Create(ctx, s))
		assert.NotZero(t, s.ID)
	}
	require.NoError(t, repo.Create(ctx, &models.TestSession{LessonID: 2, WordID: 9, CreatedAt: testNow}))

	sessions, err := repo.GetByLessonID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.True(t, sessions[0].IsCorrect)
	assert.False(t, sessions[1].IsCorrect)
	assert.Equal(t, int64(1500), sessions[2].TimeSpent)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(newTestDB(t))

	missing, err := repo.Get(ctx, models.SettingsID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Update(ctx, models.SettingsID, models.SettingsUpdate{}, testNow)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Create(ctx, models.DefaultSettings(testNow)))

	theme := models.ThemeDark
	goal := 10
	later := testNow.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, models.SettingsID, models.SettingsUpdate{Theme: &theme, DailyGoal: &goal}, later))

	got, err := repo.Get(ctx, models.SettingsID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.ThemeDark, got.Theme)
	assert.Equal(t, 10, got.DailyGoal)
	assert.Equal(t, "09:00", got.NotificationTime)
	assert.Equal(t, models.LanguageRussian, got.Language)
	assert.WithinDuration(t, testNow, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, later, got.UpdatedAt, time.Millisecond)
}

func wordIDs(words []models.Word) []int64 {
	ids := make([]int64, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids
}
