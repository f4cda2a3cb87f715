package interview_test

import (
	"errors"
	"testing"
	"time"

	"github.com/yoockh/skillsync/internal/interview"
	"github.com/yoockh/skillsync/internal/models"
)

func newSession(types ...models.QuestionType) *models.InterviewSession {
	s := &models.InterviewSession{
		ID:     "s-1",
		UserID: "u-1",
		Stats:  models.SessionStats{Status: models.StatusNotStarted},
	}
	for i, typ := range types {
		s.Questions = append(s.Questions, models.Question{
			ID:             string(rune('a' + i)),
			Question:       "question",
			Type:           typ,
			ExpectedAnswer: "Answer: hash table",
			KeyPoints:      []string{},
		})
	}
	interview.RecomputeStats(s)
	return s
}

func TestRecomputeStats_CountsAndIdempotence(t *testing.T) {
	s := newSession(models.QuestionTechnical, models.QuestionBehavioral, models.QuestionSituational)
	now := time.Now()

	if _, err := interview.ApplyAnswer(s, "a", "A hash table gives constant lookups.", 40, now); err != nil {
		t.Fatalf("apply a: %v", err)
	}
	if _, err := interview.ApplyAnswer(s, "b", "We talked it through as a team.", 500, now); err != nil {
		t.Fatalf("apply b: %v", err)
	}

	first := interview.RecomputeStats(s)
	second := interview.RecomputeStats(s)
	if first.TotalQuestions != 3 || first.AnsweredQuestions != 2 {
		t.Fatalf("unexpected counts: %+v", first)
	}
	if first.TotalTimeSpent != 540 {
		t.Fatalf("expected total time 540 got %d", first.TotalTimeSpent)
	}
	if first.TotalQuestions != second.TotalQuestions || first.AnsweredQuestions != second.AnsweredQuestions ||
		first.TotalTimeSpent != second.TotalTimeSpent || first.AverageScore != second.AverageScore ||
		first.Status != second.Status {
		t.Fatalf("recompute not idempotent: %+v vs %+v", first, second)
	}

	// a: base 5, "hash" keyword, quick answer. b: base 5 only.
	qa, qb := s.Question("a"), s.Question("b")
	if qa.Score != 8 || qb.Score != 5 {
		t.Fatalf("expected scores 8 and 5, got %d and %d", qa.Score, qb.Score)
	}
	wantAvg := float64(qa.Score+qb.Score) / 2
	if first.AverageScore != wantAvg || s.Results.OverallScore != wantAvg {
		t.Fatalf("expected average %.2f got %.2f / %.2f", wantAvg, first.AverageScore, s.Results.OverallScore)
	}
	if s.Results.TechnicalScore == nil || *s.Results.TechnicalScore != float64(qa.Score) {
		t.Fatalf("technical score not set from answered technical questions")
	}
	if s.Results.BehavioralScore == nil || *s.Results.BehavioralScore != float64(qb.Score) {
		t.Fatalf("behavioral score not set from answered behavioral questions")
	}
}

func TestRecomputeStats_NothingAnswered(t *testing.T) {
	s := newSession(models.QuestionTechnical)
	stats := interview.RecomputeStats(s)
	if stats.AnsweredQuestions != 0 || stats.AverageScore != 0 || s.Results.TechnicalScore != nil {
		t.Fatalf("unexpected stats for unanswered session: %+v", stats)
	}
}

func TestStart_Transitions(t *testing.T) {
	s := newSession(models.QuestionTechnical)
	now := time.Now()

	changed, err := interview.Start(s, now)
	if err != nil || !changed || s.Stats.Status != models.StatusInProgress || s.Stats.StartedAt == nil {
		t.Fatalf("start failed: changed=%v err=%v stats=%+v", changed, err, s.Stats)
	}

	later := now.Add(time.Minute)
	changed, err = interview.Start(s, later)
	if err != nil || changed || !s.Stats.StartedAt.Equal(now) {
		t.Fatalf("second start should be a no-op: changed=%v err=%v", changed, err)
	}

	if err := interview.Complete(s, later); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := interview.Start(s, later); !errors.Is(err, interview.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition restarting a completed session, got %v", err)
	}
}

func TestApplyAnswer_Guards(t *testing.T) {
	s := newSession(models.QuestionTechnical)
	now := time.Now()

	if _, err := interview.ApplyAnswer(s, "missing", "some long answer", 10, now); !errors.Is(err, interview.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
	if s.Stats.Status != models.StatusNotStarted {
		t.Fatalf("failed answer must not change status")
	}

	q, err := interview.ApplyAnswer(s, "a", "some long answer", -4, now)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if q.TimeSpent != 0 || !q.Answered || q.AnsweredAt == nil || q.UserAnswer == "" {
		t.Fatalf("unexpected answered question: %+v", q)
	}
	if s.Stats.Status != models.StatusInProgress {
		t.Fatalf("answering should start the session, got %s", s.Stats.Status)
	}

	if err := interview.Complete(s, now); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := interview.ApplyAnswer(s, "a", "another long answer", 10, now); !errors.Is(err, interview.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition after completion, got %v", err)
	}
	if err := interview.Complete(s, now); !errors.Is(err, interview.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition completing twice, got %v", err)
	}
}

func TestAbandon(t *testing.T) {
	s := newSession(models.QuestionTechnical)
	if err := interview.Abandon(s); !errors.Is(err, interview.ErrInvalidTransition) {
		t.Fatalf("abandon from not_started should fail, got %v", err)
	}
	if _, err := interview.Start(s, time.Now()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := interview.Abandon(s); err != nil || s.Stats.Status != models.StatusAbandoned {
		t.Fatalf("abandon failed: %v status=%s", err, s.Stats.Status)
	}
	if err := interview.Complete(s, time.Now()); !errors.Is(err, interview.ErrInvalidTransition) {
		t.Fatalf("abandoned session must not complete, got %v", err)
	}
}

func TestComplete_NoAnswers(t *testing.T) {
	s := newSession(models.QuestionTechnical, models.QuestionBehavioral)
	if err := interview.Complete(s, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.Stats.Status != models.StatusCompleted || s.Stats.CompletedAt == nil {
		t.Fatalf("unexpected stats: %+v", s.Stats)
	}
	if s.Results.OverallScore != 0 {
		t.Fatalf("expected overall 0 got %v", s.Results.OverallScore)
	}
	if len(s.Results.Improvements) != 2 || len(s.Results.Strengths) != 0 {
		t.Fatalf("expected low-score bucket, got %+v", s.Results)
	}
}

func TestCategoriesFor(t *testing.T) {
	if got := interview.CategoriesFor(models.CategoryMixed); len(got) != 2 {
		t.Fatalf("mixed should cover two categories, got %v", got)
	}
	if got := interview.CategoriesFor(models.CategoryBehavioral); len(got) != 1 || got[0] != models.QuestionBehavioral {
		t.Fatalf("unexpected categories %v", got)
	}
}
