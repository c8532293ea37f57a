// Package settings keeps the learner preferences singleton.
package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/pkg/models"
)

// ErrInvalidSettings is returned when an update carries a value outside its allowed range
var ErrInvalidSettings = errors.New("invalid settings")

var hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Repository persists the settings record
type Repository interface {
	Get(ctx context.Context, id int64) (*models.Settings, error)
	Create(ctx context.Context, s *models.Settings) error
	Update(ctx context.Context, id int64, update models.SettingsUpdate, updatedAt time.Time) error
}

// Store is the get-or-create access point for settings
type Store struct {
	repo     Repository
	now      func() time.Time
	log      logrus.FieldLogger
	validate *validator.Validate
}

// NewStore creates a settings store. A nil clock means time.Now.
func NewStore(repo Repository, now func() time.Time, log logrus.FieldLogger) *Store {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	validate := validator.New()
	// registration only fails for an empty tag or nil func
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return ValidTime(fl.Field().String())
	})

	return &Store{repo: repo, now: now, log: log, validate: validate}
}

// ValidTime reports whether s is a 24-hour HH:MM time
func ValidTime(s string) bool {
	return hhmmPattern.MatchString(s)
}

// Get returns the settings, creating the defaults on first access
func (s *Store) Get(ctx context.Context) (*models.Settings, error) {
	current, err := s.repo.Get(ctx, models.SettingsID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	defaults := models.DefaultSettings(s.now())
	if err := s.repo.Create(ctx, defaults); err != nil {
		return nil, err
	}
	s.log.Info("Created default settings")
	return defaults, nil
}

// Update applies a partial change and returns the stored result.
// updated_at always moves strictly forward.
func (s *Store) Update(ctx context.Context, update models.SettingsUpdate) (*models.Settings, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now()
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Millisecond)
	}

	if err := s.repo.Update(ctx, current.ID, update, updatedAt); err != nil {
		return nil, err
	}

	update.Apply(current)
	current.UpdatedAt = updatedAt
	s.log.WithField("updated_at", updatedAt).Info("Updated settings")
	return current, nil
}

// UpdateNotificationTime sets the daily reminder time
func (s *Store) UpdateNotificationTime(ctx context.Context, hhmm string) (*models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{NotificationTime: &hhmm})
}

// ToggleNotifications flips whether reminders are sent
func (s *Store) ToggleNotifications(ctx context.Context) (*models.Settings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	enabled := !current.NotificationsEnabled
	return s.Update(ctx, models.SettingsUpdate{NotificationsEnabled: &enabled})
}

// UpdateTheme sets the color scheme
func (s *Store) UpdateTheme(ctx context.Context, theme models.Theme) (*models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{Theme: &theme})
}

// UpdateLanguage sets the interface language
func (s *Store) UpdateLanguage(ctx context.Context, language models.Language) (*models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{Language: &language})
}

// UpdateDailyGoal sets the number of words the learner aims for each day
func (s *Store) UpdateDailyGoal(ctx context.Context, goal int) (*models.Settings, error) {
	return s.Update(ctx, models.SettingsUpdate{DailyGoal: &goal})
}
