package domain

import (
	"errors"
	"time"
)

// ConfidenceLevel summarizes recent quiz accuracy for a bird.
type ConfidenceLevel string

// Possible confidence level values
const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// confidenceMinAnswers is the number of quiz answers required before the
// confidence level is recomputed. Below this, the prior value holds.
const confidenceMinAnswers = 3

// Common validation errors for Progress
var (
	ErrEmptyBirdID       = errors.New("progress bird ID cannot be empty")
	ErrNegativeCounter   = errors.New("progress counters cannot be negative")
	ErrInvalidConfidence = errors.New("invalid confidence level")
)

// Progress tracks study and quiz activity for a single bird. A record is
// created lazily with zeroed counters the first time a bird is looked up and
// is only ever mutated through RecordStudy and RecordQuizAnswer.
type Progress struct {
	BirdID             string          `json:"bird_id"`
	TimesStudied       int             `json:"times_studied"`
	TimesCorrectQuiz   int             `json:"times_correct_quiz"`
	TimesIncorrectQuiz int             `json:"times_incorrect_quiz"`
	LastStudied        *time.Time      `json:"last_studied,omitempty"`
	Confidence         ConfidenceLevel `json:"confidence_level"`
	Notes              string          `json:"notes"`
}

// NewProgress creates a default progress record for a bird with all counters
// at zero and low confidence. The record is not persisted by this call.
func NewProgress(birdID string) (*Progress, error) {
	if birdID == "" {
		return nil, ErrEmptyBirdID
	}

	return &Progress{
		BirdID:     birdID,
		Confidence: ConfidenceLow,
	}, nil
}

// RecordStudy registers one study pass over the bird's flashcard.
func (p *Progress) RecordStudy(now time.Time) {
	p.TimesStudied++
	t := now.UTC()
	p.LastStudied = &t
}

// RecordQuizAnswer registers a quiz answer and recomputes the confidence
// level once at least three answers have accumulated: accuracy >= 0.8 is
// high, >= 0.5 is medium, anything lower is low. With fewer than three
// answers the previous confidence level is kept.
func (p *Progress) RecordQuizAnswer(correct bool, now time.Time) {
	if correct {
		p.TimesCorrectQuiz++
	} else {
		p.TimesIncorrectQuiz++
	}
	t := now.UTC()
	p.LastStudied = &t

	total := p.TimesCorrectQuiz + p.TimesIncorrectQuiz
	if total < confidenceMinAnswers {
		return
	}

	accuracy := float64(p.TimesCorrectQuiz) / float64(total)
	switch {
	case accuracy >= 0.8:
		p.Confidence = ConfidenceHigh
	case accuracy >= 0.5:
		p.Confidence = ConfidenceMedium
	default:
		p.Confidence = ConfidenceLow
	}
}

// Validate checks if the Progress has valid data.
// Returns an error if any field fails validation.
func (p *Progress) Validate() error {
	if p.BirdID == "" {
		return ErrEmptyBirdID
	}

	if p.TimesStudied < 0 || p.TimesCorrectQuiz < 0 || p.TimesIncorrectQuiz < 0 {
		return ErrNegativeCounter
	}

	switch p.Confidence {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return nil
	default:
		return ErrInvalidConfidence
	}
}
