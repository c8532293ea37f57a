package models

import "time"

// Difficulty is a coarse difficulty label attached to a corpus word
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Word represents a Spanish word with its Russian translation
type Word struct {
	ID            int64      `json:"id" db:"id"`
	Spanish       string     `json:"spanish" db:"spanish"`
	Transcription string     `json:"transcription" db:"transcription"`
	Russian       string     `json:"russian" db:"russian"`
	Difficulty    Difficulty `json:"difficulty" db:"difficulty"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
