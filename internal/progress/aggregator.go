// Package progress derives reports from lesson and quiz history.
package progress

import (
	"context"

	"github.com/samber/lo"

	"github.com/example/cincopalabras/internal/quiz"
	"github.com/example/cincopalabras/pkg/models"
)

// LessonSource lists lessons and resolves their words
type LessonSource interface {
	GetAllLessons(ctx context.Context) ([]models.Lesson, error)
	GetWordsForLesson(ctx context.Context, lesson *models.Lesson) ([]models.Word, error)
}

// ResultSource returns the answers recorded for a lesson
type ResultSource interface {
	GetTestResultsForLesson(ctx context.Context, lessonID int64) ([]models.TestSession, error)
}

// Aggregator builds the "all learned" report
type Aggregator struct {
	lessons LessonSource
	results ResultSource
}

// NewAggregator creates an aggregator
func NewAggregator(lessons LessonSource, results ResultSource) *Aggregator {
	return &Aggregator{lessons: lessons, results: results}
}

// Report returns every lesson, most recent first, with its words, answers and score.
// TotalWords sums the word count of each lesson without deduplication.
func (a *Aggregator) Report(ctx context.Context) (*models.ProgressReport, error) {
	lessons, err := a.lessons.GetAllLessons(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.ProgressReport{
		Lessons:      make([]models.LessonReport, 0, len(lessons)),
		TotalLessons: len(lessons),
	}
	for i := range lessons {
		entry, err := a.lessonReport(ctx, &lessons[i])
		if err != nil {
			return nil, err
		}
		report.Lessons = append(report.Lessons, entry)
	}

	report.TotalWords = lo.SumBy(report.Lessons, func(l models.LessonReport) int { return len(l.Words) })
	if report.TotalLessons > 0 {
		totalScore := lo.SumBy(report.Lessons, func(l models.LessonReport) int { return l.Score })
		report.AverageScore = float64(totalScore) / float64(report.TotalLessons)
	}
	return report, nil
}

// Daily returns one entry per lesson in chronological order.
// TotalWords is the running word count up to and including that lesson.
func (a *Aggregator) Daily(ctx context.Context) ([]models.DailyProgress, error) {
	report, err := a.Report(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]models.DailyProgress, 0, len(report.Lessons))
	running := 0
	for i := len(report.Lessons) - 1; i >= 0; i-- {
		entry := report.Lessons[i]
		running += len(entry.Words)
		days = append(days, models.DailyProgress{
			Date:          entry.Lesson.Date,
			WordsLearned:  len(entry.Words),
			TestCompleted: entry.Lesson.IsCompleted(),
			TestScore:     entry.Score,
			TotalWords:    running,
		})
	}
	return days, nil
}

func (a *Aggregator) lessonReport(ctx context.Context, lesson *models.Lesson) (models.LessonReport, error) {
	words, err := a.lessons.GetWordsForLesson(ctx, lesson)
	if err != nil {
		return models.LessonReport{}, err
	}
	results, err := a.results.GetTestResultsForLesson(ctx, lesson.ID)
	if err != nil {
		return models.LessonReport{}, err
	}

	return models.LessonReport{
		Lesson:  *lesson,
		Words:   words,
		Results: results,
		Score:   quiz.CalculateTestScore(results),
	}, nil
}
