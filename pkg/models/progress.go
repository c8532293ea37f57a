package models

// LessonReport is a lesson with its resolved words and answers
type LessonReport struct {
	Lesson  Lesson        `json:"lesson"`
	Words   []Word        `json:"words"`
	Results []TestSession `json:"results"`
	Score   int           `json:"score"`
}

// ProgressReport backs the "all learned" view
type ProgressReport struct {
	Lessons      []LessonReport `json:"lessons"`
	TotalLessons int            `json:"total_lessons"`
	TotalWords   int            `json:"total_words"`
	AverageScore float64        `json:"average_score"`
}

// DailyProgress summarizes one lesson day
type DailyProgress struct {
	Date          string `json:"date"`
	WordsLearned  int    `json:"words_learned"`
	TestCompleted bool   `json:"test_completed"`
	TestScore     int    `json:"test_score"`
	TotalWords    int    `json:"total_words"`
}
