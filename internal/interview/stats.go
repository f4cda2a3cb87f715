package interview

import (
	"math"

	"github.com/yoockh/skillsync/internal/models"
)

// RecomputeStats refreshes s.Stats and the running score fields of s.Results
// from s.Questions. Calling it twice without mutation yields the same stats.
func RecomputeStats(s *models.InterviewSession) models.SessionStats {
	answered := answeredQuestions(s.Questions)

	s.Stats.TotalQuestions = len(s.Questions)
	s.Stats.AnsweredQuestions = len(answered)
	s.Stats.TotalTimeSpent = 0
	for _, q := range answered {
		s.Stats.TotalTimeSpent += q.TimeSpent
	}

	if len(answered) > 0 {
		s.Stats.AverageScore = averageScore(answered)
		if avg, ok := averageByType(answered, models.QuestionTechnical); ok {
			s.Results.TechnicalScore = &avg
		}
		if avg, ok := averageByType(answered, models.QuestionBehavioral); ok {
			s.Results.BehavioralScore = &avg
		}
		s.Results.OverallScore = s.Stats.AverageScore
	}
	return s.Stats
}

func answeredQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, 0, len(qs))
	for _, q := range qs {
		if q.Answered {
			out = append(out, q)
		}
	}
	return out
}

func averageScore(qs []models.Question) float64 {
	if len(qs) == 0 {
		return 0
	}
	total := 0
	for _, q := range qs {
		total += q.Score
	}
	return float64(total) / float64(len(qs))
}

func averageByType(qs []models.Question, typ models.QuestionType) (float64, bool) {
	var subset []models.Question
	for _, q := range qs {
		if q.Type == typ {
			subset = append(subset, q)
		}
	}
	if len(subset) == 0 {
		return 0, false
	}
	return averageScore(subset), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
