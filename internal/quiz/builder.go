// Package quiz builds multiple choice questions for a lesson and records the answers.
package quiz

import (
	"context"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/cincopalabras/pkg/models"
)

// DefaultDistractors is the number of wrong options offered per question
const DefaultDistractors = 2

// WordStore is the part of the vocabulary the builder reads
type WordStore interface {
	GetByID(ctx context.Context, id int64) (*models.Word, error)
	GetExcluding(ctx context.Context, ids []int64) ([]models.Word, error)
}

// Builder creates quiz questions from lesson words
type Builder struct {
	words       WordStore
	distractors int
	rnd         *rand.Rand
	log         logrus.FieldLogger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithDistractors sets how many wrong options each question gets
func WithDistractors(n int) BuilderOption {
	return func(b *Builder) {
		if n >= 0 {
			b.distractors = n
		}
	}
}

// WithRand sets the random source for distractor choice and option order
func WithRand(rnd *rand.Rand) BuilderOption {
	return func(b *Builder) { b.rnd = rnd }
}

// WithLogger sets the logger
func WithLogger(log logrus.FieldLogger) BuilderOption {
	return func(b *Builder) { b.log = log }
}

// NewBuilder creates a quiz builder
func NewBuilder(words WordStore, opts ...BuilderOption) *Builder {
	b := &Builder{
		words:       words,
		distractors: DefaultDistractors,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDailyTest returns one question per lesson word, in lesson order.
// Every call draws new distractors and a new option order.
func (b *Builder) BuildDailyTest(ctx context.Context, lesson *models.Lesson) ([]models.TestQuestion, error) {
	questions := make([]models.TestQuestion, 0, len(lesson.WordIDs))

	for _, wordID := range lesson.WordIDs {
		word, err := b.words.GetByID(ctx, wordID)
		if err != nil {
			return nil, err
		}
		if word == nil {
			b.log.WithFields(logrus.Fields{
				"lesson_id": lesson.ID,
				"word_id":   wordID,
			}).Warn("Lesson word not found, skipping question")
			continue
		}

		others, err := b.words.GetExcluding(ctx, []int64{word.ID})
		if err != nil {
			return nil, err
		}

		options := append([]string{word.Russian}, b.pickDistractors(word.Russian, others)...)
		b.rnd.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, models.TestQuestion{
			WordID:        word.ID,
			Spanish:       word.Spanish,
			Transcription: word.Transcription,
			CorrectAnswer: word.Russian,
			Options:       options,
		})
	}

	return questions, nil
}

// pickDistractors draws translations from others uniformly without replacement.
// Translations equal to the correct answer or already taken are passed over.
func (b *Builder) pickDistractors(correct string, others []models.Word) []string {
	picked := make([]string, 0, b.distractors)
	seen := map[string]bool{correct: true}

	for _, idx := range b.rnd.Perm(len(others)) {
		if len(picked) == b.distractors {
			break
		}
		translation := others[idx].Russian
		if seen[translation] {
			continue
		}
		seen[translation] = true
		picked = append(picked, translation)
	}
	return picked
}
