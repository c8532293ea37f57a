package models

import "time"

// SettingsID is the fixed identifier of the settings singleton
const SettingsID int64 = 1

// Theme is the UI color scheme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Language is the interface language preference
type Language string

const (
	LanguageRussian Language = "ru"
	LanguageEnglish Language = "en"
)

// Settings holds the learner's preferences
type Settings struct {
	ID                   int64     `json:"id" db:"id"`
	NotificationTime     string    `json:"notification_time" db:"notification_time"` // HH:MM
	NotificationsEnabled bool      `json:"notifications_enabled" db:"notifications_enabled"`
	DailyGoal            int       `json:"daily_goal" db:"daily_goal"`
	Theme                Theme     `json:"theme" db:"theme"`
	Language             Language  `json:"language" db:"language"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSettings returns the settings created on first access
func DefaultSettings(now time.Time) *Settings {
	return &Settings{
		ID:                   SettingsID,
		NotificationTime:     "09:00",
		NotificationsEnabled: false,
		DailyGoal:            5,
		Theme:                ThemeAuto,
		Language:             LanguageRussian,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// SettingsUpdate is a partial settings change. Nil fields are left untouched.
type SettingsUpdate struct {
	NotificationTime     *string   `json:"notification_time,omitempty" validate:"omitnil,hhmm"`
	NotificationsEnabled *bool     `json:"notifications_enabled,omitempty"`
	DailyGoal            *int      `json:"daily_goal,omitempty" validate:"omitnil,min=1"`
	Theme                *Theme    `json:"theme,omitempty" validate:"omitnil,oneof=light dark auto"`
	Language             *Language `json:"language,omitempty" validate:"omitnil,oneof=ru en"`
}

// IsEmpty reports whether the update carries no field changes
func (u SettingsUpdate) IsEmpty() bool {
	return u.NotificationTime == nil && u.NotificationsEnabled == nil && u.DailyGoal == nil &&
		u.Theme == nil && u.Language == nil
}

// Apply copies the set fields onto s
func (u SettingsUpdate) Apply(s *Settings) {
	if u.NotificationTime != nil {
		s.NotificationTime = *u.NotificationTime
	}
	if u.NotificationsEnabled != nil {
		s.NotificationsEnabled = *u.NotificationsEnabled
	}
	if u.DailyGoal != nil {
		s.DailyGoal = *u.DailyGoal
	}
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
}
