package models

import "time"

// TestSession is a single answered quiz question
type TestSession struct {
	ID            int64     `json:"id" db:"id"`
	LessonID      int64     `json:"lesson_id" db:"lesson_id"`
	WordID        int64     `json:"word_id" db:"word_id"`
	CorrectAnswer string    `json:"correct_answer" db:"correct_answer"`
	UserAnswer    string    `json:"user_answer" db:"user_answer"`
	IsCorrect     bool      `json:"is_correct" db:"is_correct"`
	TimeSpent     int64     `json:"time_spent" db:"time_spent"` // milliseconds
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TestQuestion is a multiple choice question built from a lesson word. Not persisted.
type TestQuestion struct {
	WordID        int64    `json:"word_id"`
	Spanish       string   `json:"spanish"`
	Transcription string   `json:"transcription"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
}

// TestStatistics aggregates every recorded answer
type TestStatistics struct {
	TotalTests     int     `json:"total_tests"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`     // percent
	AverageTime    float64 `json:"average_time"` // milliseconds
}
