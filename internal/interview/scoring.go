package interview

import (
	"strings"
	"unicode/utf8"

	"github.com/yoockh/skillsync/internal/models"
)

const (
	MaxScore       = 10
	minAnswerChars = 10
	quickAnswerSec = 300
)

// Score rates an answered question on a 0..10 heuristic. The keyword check is
// a plain substring test of each space-separated expected-answer token.
func Score(q models.Question) int {
	if utf8.RuneCountInString(strings.TrimSpace(q.UserAnswer)) < minAnswerChars {
		return 0
	}

	length := utf8.RuneCountInString(q.UserAnswer)
	answer := strings.ToLower(q.UserAnswer)

	score := 5
	if length > 100 {
		score++
	}
	if length > 200 {
		score++
	}
	if hasKeyword(strings.ToLower(q.ExpectedAnswer), answer) {
		score += 2
	}
	if q.TimeSpent > 0 && q.TimeSpent < quickAnswerSec {
		score++
	}
	return min(score, MaxScore)
}

// An empty token matches everything, so an empty expected answer always
// earns the keyword bonus.
func hasKeyword(expected, answer string) bool {
	for _, word := range strings.Split(expected, " ") {
		if strings.Contains(answer, word) {
			return true
		}
	}
	return false
}

// Feedback is the short note stored next to a score.
func Feedback(score int) string {
	switch {
	case score >= 8:
		return "Strong answer that covers the expected points."
	case score >= 5:
		return "Reasonable answer. Add concrete details and tie it back to the expected points."
	default:
		return "Answer is too short to evaluate. Aim for at least a few full sentences."
	}
}
