package settings

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cincopalabras/internal/database"
	"github.com/example/cincopalabras/pkg/models"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newStore(t *testing.T) (*Store, *database.SettingsRepository, *clock) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	db, err := database.Connect(context.Background(), database.DriverSQLite, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := &clock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
	repo := database.NewSettingsRepository(db)
	return NewStore(repo, c.Now, logger), repo, c
}

func TestGetCreatesDefaultsOnce(t *testing.T) {
	ctx := context.Background()
	store, repo, c := newStore(t)

	s, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, s.ID)
	assert.Equal(t, "09:00", s.NotificationTime)
	assert.False(t, s.NotificationsEnabled)
	assert.Equal(t, 5, s.DailyGoal)
	assert.Equal(t, models.ThemeAuto, s.Theme)
	assert.Equal(t, models.LanguageRussian, s.Language)

	c.now = c.now.Add(time.Hour)
	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, s.CreatedAt.Equal(again.CreatedAt))

	stored, err := repo.Get(ctx, models.SettingsID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	store, repo, c := newStore(t)

	before, err := store.Get(ctx)
	require.NoError(t, err)

	c.now = c.now.Add(time.Minute)
	theme := models.ThemeDark
	updated, err := store.Update(ctx, models.SettingsUpdate{Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, updated.Theme)

	stored, err := repo.Get(ctx, models.SettingsID)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, stored.Theme)
	assert.Equal(t, before.NotificationTime, stored.NotificationTime)
	assert.Equal(t, before.DailyGoal, stored.DailyGoal)
	assert.Equal(t, before.Language, stored.Language)
	assert.Equal(t, before.NotificationsEnabled, stored.NotificationsEnabled)
	assert.True(t, before.CreatedAt.Equal(stored.CreatedAt))
	assert.True(t, stored.UpdatedAt.After(before.UpdatedAt))
}

func TestUpdateBumpsUpdatedAtWhenClockIsStill(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)

	before, err := store.Get(ctx)
	require.NoError(t, err)

	first, err := store.UpdateLanguage(ctx, models.LanguageEnglish)
	require.NoError(t, err)
	assert.True(t, first.UpdatedAt.After(before.UpdatedAt))

	second, err := store.UpdateDailyGoal(ctx, 10)
	require.NoError(t, err)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, models.LanguageEnglish, second.Language)
	assert.Equal(t, 10, second.DailyGoal)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	store, repo, _ := newStore(t)

	_, err := store.UpdateNotificationTime(ctx, "24:00")
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = store.UpdateNotificationTime(ctx, "9:00")
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = store.UpdateTheme(ctx, models.Theme("neon"))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = store.UpdateLanguage(ctx, models.Language("es"))
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = store.UpdateDailyGoal(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidSettings)

	stored, err := repo.Get(ctx, models.SettingsID)
	require.NoError(t, err)
	assert.Nil(t, stored, "nothing is written for rejected updates")
}

func TestToggleNotifications(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)

	s, err := store.ToggleNotifications(ctx)
	require.NoError(t, err)
	assert.True(t, s.NotificationsEnabled)

	s, err = store.ToggleNotifications(ctx)
	require.NoError(t, err)
	assert.False(t, s.NotificationsEnabled)
}

func TestUpdateNotificationTime(t *testing.T) {
	store, _, _ := newStore(t)

	s, err := store.UpdateNotificationTime(context.Background(), "21:30")
	require.NoError(t, err)
	assert.Equal(t, "21:30", s.NotificationTime)
}

func TestValidTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:05", "23:59", "12:00"} {
		assert.True(t, ValidTime(ok), ok)
	}
	for _, bad := range []string{"", "24:00", "12:60", "7:30", "12-30", "12:300"} {
		assert.False(t, ValidTime(bad), bad)
	}
}
