package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the day-granularity format used for lesson dates
const DateLayout = "2006-01-02"

// LessonStatus is the lifecycle state of a lesson.
// Transitions only move forward: not_started -> viewed -> completed.
type LessonStatus string

const (
	LessonNotStarted LessonStatus = "not_started"
	LessonViewed     LessonStatus = "viewed"
	LessonCompleted  LessonStatus = "completed"
)

func (s LessonStatus) rank() int {
	switch s {
	case LessonViewed:
		return 1
	case LessonCompleted:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is a known status
func (s LessonStatus) Valid() bool {
	return s == LessonNotStarted || s == LessonViewed || s == LessonCompleted
}

// Advance returns the status after moving to next. Moving backwards is a no-op.
func (s LessonStatus) Advance(next LessonStatus) LessonStatus {
	if next.rank() > s.rank() {
		return next
	}
	return s
}

// WordIDs is an ordered list of word identifiers stored as a JSON array
type WordIDs []int64

// Value implements driver.Valuer
func (ids WordIDs) Value() (driver.Value, error) {
	if ids == nil {
		ids = WordIDs{}
	}
	data, err := json.Marshal([]int64(ids))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (ids *WordIDs) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*ids = WordIDs{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported word_ids type %T", src)
	}

	var parsed []int64
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse word_ids: %w", err)
	}
	*ids = parsed
	return nil
}

// Lesson is the batch of words offered for a single day
type Lesson struct {
	ID        int64        `json:"id" db:"id"`
	Date      string       `json:"date" db:"date"` // YYYY-MM-DD
	WordIDs   WordIDs      `json:"word_ids" db:"word_ids"`
	Status    LessonStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// IsViewed reports whether the learner has opened the lesson
func (l *Lesson) IsViewed() bool {
	return l.Status == LessonViewed || l.Status == LessonCompleted
}

// IsCompleted reports whether the lesson quiz was finished or skipped
func (l *Lesson) IsCompleted() bool {
	return l.Status == LessonCompleted
}
