package interview

import "github.com/yoockh/skillsync/internal/models"

const (
	strongThreshold = 8
	fairThreshold   = 6
)

var (
	defaultRecommendations = []string{
		"Continue practicing with mock interviews",
		"Review common interview questions in your field",
	}
	defaultNextSteps = "Keep practicing and focus on areas that need improvement. Consider scheduling more practice sessions."
)

// GenerateResults builds the completion summary from the answered questions.
func GenerateResults(s *models.InterviewSession) models.Results {
	answered := answeredQuestions(s.Questions)
	avg := averageScore(answered)

	res := models.Results{
		OverallScore:    round1(avg),
		Strengths:       []string{},
		Improvements:    []string{},
		Recommendations: append([]string{}, defaultRecommendations...),
		NextSteps:       defaultNextSteps,
	}
	if v, ok := averageByType(answered, models.QuestionTechnical); ok {
		v = round1(v)
		res.TechnicalScore = &v
	}
	if v, ok := averageByType(answered, models.QuestionBehavioral); ok {
		v = round1(v)
		res.BehavioralScore = &v
	}

	switch {
	case res.OverallScore >= strongThreshold:
		res.Strengths = append(res.Strengths,
			"Excellent communication skills",
			"Strong technical knowledge",
		)
	case res.OverallScore >= fairThreshold:
		res.Strengths = append(res.Strengths, "Good foundational knowledge")
		res.Improvements = append(res.Improvements, "Work on providing more detailed answers")
	default:
		res.Improvements = append(res.Improvements,
			"Focus on fundamental concepts",
			"Practice articulating thoughts clearly",
		)
	}
	return res
}
