package interview

import (
	"sort"
	"time"

	"github.com/yoockh/skillsync/internal/models"
)

const (
	recentLimit   = 10
	weaknessLimit = 3
)

// Summarize projects sessions for the history listing, preserving order.
func Summarize(sessions []models.InterviewSession) []models.SessionSummary {
	out := make([]models.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, models.SessionSummary{
			ID:           s.ID,
			JobRole:      s.JobRole,
			Difficulty:   s.Difficulty,
			Status:       s.Stats.Status,
			CompletedAt:  s.Stats.CompletedAt,
			OverallScore: s.Results.OverallScore,
			CreatedAt:    s.CreatedAt,
		})
	}
	return out
}

// BuildAnalytics aggregates completed sessions. Sessions that are not
// completed are ignored.
func BuildAnalytics(sessions []models.InterviewSession) models.Analytics {
	out := models.Analytics{
		ImprovementTrend:  []models.PerformancePoint{},
		CommonWeaknesses:  []string{},
		RecentPerformance: []models.PerformancePoint{},
	}

	completed := make([]models.InterviewSession, 0, len(sessions))
	for _, s := range sessions {
		if s.Stats.Status == models.StatusCompleted {
			completed = append(completed, s)
		}
	}
	if len(completed) == 0 {
		return out
	}
	out.TotalInterviews = len(completed)

	// newest first
	sort.SliceStable(completed, func(i, j int) bool {
		return completedAt(completed[i]).After(completedAt(completed[j]))
	})

	var (
		total      float64
		tech, beh  float64
		weaknesses = map[string]int{}
	)
	for _, s := range completed {
		total += s.Results.OverallScore
		if v := s.Results.TechnicalScore; v != nil && *v != 0 {
			tech += *v
			out.CategoryPerformance.Technical.Count++
		}
		if v := s.Results.BehavioralScore; v != nil && *v != 0 {
			beh += *v
			out.CategoryPerformance.Behavioral.Count++
		}
		for _, w := range s.Results.Improvements {
			weaknesses[w]++
		}
	}
	out.AverageScore = round1(total / float64(len(completed)))
	if n := out.CategoryPerformance.Technical.Count; n > 0 {
		out.CategoryPerformance.Technical.Average = round1(tech / float64(n))
	}
	if n := out.CategoryPerformance.Behavioral.Count; n > 0 {
		out.CategoryPerformance.Behavioral.Average = round1(beh / float64(n))
	}

	for i, s := range completed {
		if i >= recentLimit {
			break
		}
		out.RecentPerformance = append(out.RecentPerformance, point(s))
	}
	for i := len(completed) - 1; i >= 0; i-- {
		out.ImprovementTrend = append(out.ImprovementTrend, point(completed[i]))
	}
	out.CommonWeaknesses = topWeaknesses(weaknesses, weaknessLimit)
	return out
}

func point(s models.InterviewSession) models.PerformancePoint {
	return models.PerformancePoint{
		Date:    s.Stats.CompletedAt,
		Score:   s.Results.OverallScore,
		JobRole: s.JobRole,
	}
}

func completedAt(s models.InterviewSession) time.Time {
	if s.Stats.CompletedAt != nil {
		return *s.Stats.CompletedAt
	}
	return s.CreatedAt
}

func topWeaknesses(counts map[string]int, n int) []string {
	out := make([]string, 0, len(counts))
	for w := range counts {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i]] != counts[out[j]] {
			return counts[out[i]] > counts[out[j]]
		}
		return out[i] < out[j]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
