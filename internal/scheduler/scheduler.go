// Package scheduler sends the daily study reminder at the configured time.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/pkg/models"
)

// ReminderMessage is the text of the daily reminder
const ReminderMessage = "Время изучать новые испанские слова! 🎯"

const (
	reminderTag = "daily-reminder"
	watchTag    = "settings-watch"
)

// SettingsSource provides the current notification preferences
type SettingsSource interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Notifier delivers a reminder
type Notifier interface {
	SendReminder(ctx context.Context, message string) error
}

// Scheduler manages the daily reminder job
type Scheduler struct {
	cron     *gocron.Scheduler
	settings SettingsSource
	notifier Notifier
	log      logrus.FieldLogger

	mu     sync.Mutex
	active string
}

// New creates a scheduler that fires in loc
func New(settings SettingsSource, notifier Notifier, loc *time.Location, log logrus.FieldLogger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(loc),
		settings: settings,
		notifier: notifier,
		log:      log,
	}
}

// Start schedules the reminder from the stored settings and starts the scheduler without blocking
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.Reschedule(ctx); err != nil {
		return err
	}
	s.cron.StartAsync()
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Reschedule replaces the reminder job with one matching the current settings.
// Nothing is scheduled while notifications are disabled.
func (s *Scheduler) Reschedule(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cron.RemoveByTag(reminderTag); err != nil && !errors.Is(err, gocron.ErrJobNotFoundWithTag) {
		return fmt.Errorf("failed to remove reminder job: %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled {
		s.active = reminderKey(settings)
		s.log.Info("Notifications disabled, reminder not scheduled")
		return nil
	}

	_, err = s.cron.Every(1).Day().At(settings.NotificationTime).Tag(reminderTag).Do(s.sendReminder)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder at %s: %w", settings.NotificationTime, err)
	}

	s.active = reminderKey(settings)
	s.log.WithField("time", settings.NotificationTime).Info("Scheduled daily reminder")
	return nil
}

// Watch re-reads the settings every interval and reschedules when the reminder
// time or switch has changed. Changes made by other processes are picked up this way.
func (s *Scheduler) Watch(ctx context.Context, interval time.Duration) error {
	_, err := s.cron.Every(interval).Tag(watchTag).Do(s.refresh, ctx)
	if err != nil {
		return fmt.Errorf("failed to schedule settings watch: %w", err)
	}
	return nil
}

func (s *Scheduler) refresh(ctx context.Context) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Failed to read settings")
		return
	}

	s.mu.Lock()
	changed := reminderKey(settings) != s.active
	s.mu.Unlock()
	if !changed {
		return
	}

	if err := s.Reschedule(ctx); err != nil {
		s.log.WithError(err).Error("Failed to reschedule reminder")
	}
}

func reminderKey(settings *models.Settings) string {
	if !settings.NotificationsEnabled {
		return "off"
	}
	return settings.NotificationTime
}

// NextRun returns when the reminder fires next. ok is false when no reminder is scheduled.
func (s *Scheduler) NextRun() (next time.Time, ok bool) {
	jobs, err := s.cron.FindJobsByTag(reminderTag)
	if err != nil || len(jobs) == 0 {
		return time.Time{}, false
	}
	return jobs[0].NextRun(), true
}

// SendNow delivers the reminder immediately
func (s *Scheduler) SendNow(ctx context.Context) error {
	return s.notifier.SendReminder(ctx, ReminderMessage)
}

func (s *Scheduler) sendReminder() {
	if err := s.SendNow(context.Background()); err != nil {
		s.log.WithError(err).Error("Failed to send reminder")
		return
	}
	s.log.Info("Sent daily reminder")
}

// LogNotifier writes reminders to the log. It is used when no messenger is configured.
type LogNotifier struct {
	Log logrus.FieldLogger
}

// SendReminder implements Notifier
func (n LogNotifier) SendReminder(ctx context.Context, message string) error {
	n.Log.WithField("message", message).Info("Reminder")
	return nil
}
