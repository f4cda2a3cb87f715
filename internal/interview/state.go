package interview

import (
	"errors"
	"time"

	"github.com/yoockh/skillsync/internal/models"
)

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Start moves a not_started session to in_progress. It reports false when the
// session was already in progress.
func Start(s *models.InterviewSession, now time.Time) (bool, error) {
	switch s.Stats.Status {
	case models.StatusNotStarted, "":
		s.Stats.Status = models.StatusInProgress
		s.Stats.StartedAt = &now
		return true, nil
	case models.StatusInProgress:
		return false, nil
	default:
		return false, ErrInvalidTransition
	}
}

// ApplyAnswer records an answer on one question, scores it and refreshes the
// session stats. Answering a not_started session starts it.
func ApplyAnswer(s *models.InterviewSession, questionID, answer string, timeSpent int, now time.Time) (*models.Question, error) {
	if IsTerminal(s.Stats.Status) {
		return nil, ErrInvalidTransition
	}
	q := s.Question(questionID)
	if q == nil {
		return nil, ErrQuestionNotFound
	}
	if _, err := Start(s, now); err != nil {
		return nil, err
	}

	q.UserAnswer = answer
	q.Answered = true
	q.AnsweredAt = &now
	q.TimeSpent = max(timeSpent, 0)
	q.Score = Score(*q)
	q.Feedback = Feedback(q.Score)

	RecomputeStats(s)
	return q, nil
}

// Complete freezes the session and attaches its results.
func Complete(s *models.InterviewSession, now time.Time) error {
	if IsTerminal(s.Stats.Status) {
		return ErrInvalidTransition
	}
	RecomputeStats(s)
	s.Stats.Status = models.StatusCompleted
	s.Stats.CompletedAt = &now
	s.Results = GenerateResults(s)
	return nil
}

// Abandon is only reachable from in_progress.
func Abandon(s *models.InterviewSession) error {
	if s.Stats.Status != models.StatusInProgress {
		return ErrInvalidTransition
	}
	s.Stats.Status = models.StatusAbandoned
	return nil
}

func IsTerminal(st models.SessionStatus) bool {
	return st == models.StatusCompleted || st == models.StatusAbandoned
}

// CategoriesFor maps a session category to the question types it covers.
func CategoriesFor(c models.Category) []models.QuestionType {
	switch c {
	case models.CategoryTechnical:
		return []models.QuestionType{models.QuestionTechnical}
	case models.CategoryBehavioral:
		return []models.QuestionType{models.QuestionBehavioral}
	default:
		return []models.QuestionType{models.QuestionTechnical, models.QuestionBehavioral}
	}
}
