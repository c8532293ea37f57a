package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/cincopalabras/pkg/models"
)

const settingsColumns = `id, notification_time, notifications_enabled, daily_goal,
	theme, language, created_at, updated_at`

// SettingsRepository handles database operations for the settings record
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings record, or nil if it has not been created
func (r *SettingsRepository) Get(ctx context.Context, id int64) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.GetContext(ctx, &settings, r.db.Rebind("SELECT "+settingsColumns+" FROM settings WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Create inserts the settings record with its explicit ID
func (r *SettingsRepository) Create(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (
			id, notification_time, notifications_enabled, daily_goal,
			theme, language, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		s.ID,
		s.NotificationTime,
		s.NotificationsEnabled,
		s.DailyGoal,
		s.Theme,
		s.Language,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	return nil
}

// Update writes the fields set in update plus updated_at. id and created_at are never touched.
func (r *SettingsRepository) Update(ctx context.Context, id int64, update models.SettingsUpdate, updatedAt time.Time) error {
	sets := []string{}
	args := []interface{}{}
	if update.NotificationTime != nil {
		sets = append(sets, "notification_time = ?")
		args = append(args, *update.NotificationTime)
	}
	if update.NotificationsEnabled != nil {
		sets = append(sets, "notifications_enabled = ?")
		args = append(args, *update.NotificationsEnabled)
	}
	if update.DailyGoal != nil {
		sets = append(sets, "daily_goal = ?")
		args = append(args, *update.DailyGoal)
	}
	if update.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, *update.Theme)
	}
	if update.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, *update.Language)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt, id)

	query := "UPDATE settings SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("settings %d: %w", id, ErrNotFound)
	}
	return nil
}
