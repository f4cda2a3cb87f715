package models

import "time"

// SessionSummary is the history projection of an InterviewSession.
type SessionSummary struct {
	ID           string        `json:"id"`
	JobRole      string        `json:"jobRole"`
	Difficulty   Difficulty    `json:"difficulty"`
	Status       SessionStatus `json:"status"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
	OverallScore float64       `json:"overallScore"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Analytics struct {
	TotalInterviews     int                 `json:"totalInterviews"`
	AverageScore        float64             `json:"averageScore"`
	ImprovementTrend    []PerformancePoint  `json:"improvementTrend"`
	CategoryPerformance CategoryPerformance `json:"categoryPerformance"`
	CommonWeaknesses    []string            `json:"commonWeaknesses"`
	RecentPerformance   []PerformancePoint  `json:"recentPerformance"`
}

type CategoryPerformance struct {
	Technical  CategoryScore `json:"technical"`
	Behavioral CategoryScore `json:"behavioral"`
}

type CategoryScore struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type PerformancePoint struct {
	Date    *time.Time `json:"date,omitempty"`
	Score   float64    `json:"score"`
	JobRole string     `json:"jobRole,omitempty"`
}
