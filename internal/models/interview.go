package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

type Category string

const (
	CategoryTechnical  Category = "Technical"
	CategoryBehavioral Category = "Behavioral"
	CategoryMixed      Category = "Mixed"
)

type QuestionType string

const (
	QuestionTechnical   QuestionType = "technical"
	QuestionBehavioral  QuestionType = "behavioral"
	QuestionSituational QuestionType = "situational"
)

type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
	StatusAbandoned  SessionStatus = "abandoned"
)

// InterviewSession is one interview-practice attempt. Stats and Results are
// derived from Questions and never edited directly by callers.
type InterviewSession struct {
	ID         string     `bson:"_id" json:"id"`
	UserID     string     `bson:"user_id" json:"userId"`
	JobRole    string     `bson:"job_role" json:"jobRole"`
	Difficulty Difficulty `bson:"difficulty" json:"difficulty"`
	Category   Category   `bson:"category" json:"category"`

	Questions []Question      `bson:"questions" json:"questions"`
	Settings  SessionSettings `bson:"session_settings" json:"sessionSettings"`
	Stats     SessionStats    `bson:"session_stats" json:"sessionStats"`
	Results   Results         `bson:"results" json:"results"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type Question struct {
	ID             string       `bson:"id" json:"id"`
	Question       string       `bson:"question" json:"question"`
	Type           QuestionType `bson:"type" json:"type"`
	Difficulty     Difficulty   `bson:"difficulty" json:"difficulty"`
	ExpectedAnswer string       `bson:"expected_answer" json:"expectedAnswer"`
	KeyPoints      []string     `bson:"key_points" json:"keyPoints"`

	UserAnswer string     `bson:"user_answer,omitempty" json:"userAnswer,omitempty"`
	Answered   bool       `bson:"answered" json:"answered"`
	AnsweredAt *time.Time `bson:"answered_at,omitempty" json:"answeredAt,omitempty"`
	TimeSpent  int        `bson:"time_spent" json:"timeSpent"` // seconds
	Score      int        `bson:"score" json:"score"`          // 0..10
	Feedback   string     `bson:"feedback,omitempty" json:"feedback,omitempty"`
}

type SessionSettings struct {
	QuestionCount    int            `bson:"question_count" json:"questionCount"`
	TimeLimitSeconds int            `bson:"time_limit" json:"timeLimit"`
	Categories       []QuestionType `bson:"categories" json:"categories"`
	IncludeTimer     bool           `bson:"include_timer" json:"includeTimer"`
}

type SessionStats struct {
	TotalQuestions    int           `bson:"total_questions" json:"totalQuestions"`
	AnsweredQuestions int           `bson:"answered_questions" json:"answeredQuestions"`
	TotalTimeSpent    int           `bson:"total_time_spent" json:"totalTimeSpent"`
	AverageScore      float64       `bson:"average_score" json:"averageScore"`
	StartedAt         *time.Time    `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt       *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Status            SessionStatus `bson:"status" json:"status"`
}

type Results struct {
	OverallScore    float64  `bson:"overall_score" json:"overallScore"`
	TechnicalScore  *float64 `bson:"technical_score,omitempty" json:"technicalScore,omitempty"`
	BehavioralScore *float64 `bson:"behavioral_score,omitempty" json:"behavioralScore,omitempty"`
	Strengths       []string `bson:"strengths" json:"strengths"`
	Improvements    []string `bson:"improvements" json:"improvements"`
	Recommendations []string `bson:"recommendations" json:"recommendations"`
	NextSteps       string   `bson:"next_steps" json:"nextSteps"`
}

// Question returns a pointer into s.Questions, or nil.
func (s *InterviewSession) Question(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// Clone returns a deep copy so stores never share slices with callers.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		q.KeyPoints = append([]string(nil), q.KeyPoints...)
		if q.AnsweredAt != nil {
			t := *q.AnsweredAt
			q.AnsweredAt = &t
		}
		out.Questions[i] = q
	}
	out.Settings.Categories = append([]QuestionType(nil), s.Settings.Categories...)
	out.Stats.StartedAt = cloneTime(s.Stats.StartedAt)
	out.Stats.CompletedAt = cloneTime(s.Stats.CompletedAt)
	out.Results.TechnicalScore = cloneFloat(s.Results.TechnicalScore)
	out.Results.BehavioralScore = cloneFloat(s.Results.BehavioralScore)
	out.Results.Strengths = append([]string(nil), s.Results.Strengths...)
	out.Results.Improvements = append([]string(nil), s.Results.Improvements...)
	out.Results.Recommendations = append([]string(nil), s.Results.Recommendations...)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
