package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CINCO_DATABASE_DSN
const EnvPrefix = "CINCO"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Lesson   LessonConfig   `mapstructure:"lesson"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Corpus   CorpusConfig   `mapstructure:"corpus"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Timezone string         `mapstructure:"timezone" validate:"required"`
}

// DatabaseConfig selects the storage driver
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite3 postgres"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

// LessonConfig controls daily batch size
type LessonConfig struct {
	WordsPerLesson int `mapstructure:"words_per_lesson" validate:"min=1"`
}

// QuizConfig controls question construction
type QuizConfig struct {
	Distractors int `mapstructure:"distractors" validate:"min=0"`
}

// CorpusConfig points to an optional corpus file used instead of the embedded one
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// TelegramConfig enables reminder delivery through a Telegram bot
type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

// Enabled reports whether reminders can be sent through Telegram
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "data/cincopalabras.db",
		},
		Lesson:   LessonConfig{WordsPerLesson: 5},
		Quiz:     QuizConfig{Distractors: 2},
		Log:      LogConfig{Level: "info", Format: "text"},
		Timezone: "Local",
	}
}

// Load reads .env (if present), then environment variables, on top of the defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("lesson.words_per_lesson", d.Lesson.WordsPerLesson)
	v.SetDefault("quiz.distractors", d.Quiz.Distractors)
	v.SetDefault("corpus.path", d.Corpus.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("telegram.token", d.Telegram.Token)
	v.SetDefault("telegram.chat_id", d.Telegram.ChatID)
	v.SetDefault("timezone", d.Timezone)
}

// Validate checks field constraints and the timezone name
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// NewLogger builds a logrus logger from the log section
func (c *Config) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
