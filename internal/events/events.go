package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeSessionCompleted marks a finished scored attempt.
const TypeSessionCompleted = "session.completed"

// DefaultChannel is the Redis Pub/Sub channel for gameplay events.
const DefaultChannel = "gameplay:sessions"

// SessionCompleted is published once a session is finalized and the best
// attempt of its key has been recomputed. Reporting consumes it read-only.
type SessionCompleted struct {
	Type             string          `json:"type"`
	SessionID        string          `json:"session_id"`
	StudentID        string          `json:"student_id"`
	GameID           string          `json:"game_id"`
	AssignmentID     string          `json:"assignment_id,omitempty"`
	AttemptNumber    int             `json:"attempt_number"`
	TotalScore       decimal.Decimal `json:"total_score"`
	PercentageScore  decimal.Decimal `json:"percentage_score"`
	Passed           bool            `json:"passed"`
	IsBestAttempt    bool            `json:"is_best_attempt"`
	BestSessionID    string          `json:"best_session_id,omitempty"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	CompletedAt      time.Time       `json:"completed_at"`
}
