package models

import "time"

type EventType string

const (
	EventSessionCreated   EventType = "session_created"
	EventSessionStarted   EventType = "session_started"
	EventAnswerSubmitted  EventType = "answer_submitted"
	EventSessionCompleted EventType = "session_completed"
	EventSessionAbandoned EventType = "session_abandoned"
)

// SessionEvent is published on every lifecycle change of a session.
type SessionEvent struct {
	Type       EventType     `json:"type"`
	SessionID  string        `json:"session_id"`
	UserID     string        `json:"user_id"`
	Status     SessionStatus `json:"status"`
	QuestionID string        `json:"question_id,omitempty"`
	Score      *int          `json:"score,omitempty"`
	Stats      SessionStats  `json:"stats"`
	Timestamp  time.Time     `json:"timestamp"`
}
