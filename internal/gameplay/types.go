package gameplay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

// Status of a game session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Session is one scored attempt of a student at a game.
type Session struct {
	ID                   uuid.UUID       `json:"id"`
	StudentID            uuid.UUID       `json:"student_id"`
	GameID               uuid.UUID       `json:"game_id"`
	AssignmentID         *uuid.UUID      `json:"assignment_id,omitempty"`
	Status               Status          `json:"status"`
	CurrentQuestionIndex int             `json:"current_question_index"`
	TotalScore           decimal.Decimal `json:"total_score"`
	PercentageScore      decimal.Decimal `json:"percentage_score"`
	AttemptNumber        int             `json:"attempt_number"`
	IsBestAttempt        bool            `json:"is_best_attempt"`
	TimeSpentSeconds     int             `json:"time_spent_seconds"`
	StartedAt            time.Time       `json:"started_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
}

func sessionFromRow(row sqlcgen.GameSession) *Session {
	return &Session{
		ID:                   row.ID,
		StudentID:            row.StudentID,
		GameID:               row.GameID,
		AssignmentID:         row.AssignmentID,
		Status:               Status(row.Status),
		CurrentQuestionIndex: int(row.CurrentQuestionIndex),
		TotalScore:           row.TotalScore,
		PercentageScore:      row.PercentageScore,
		AttemptNumber:        int(row.AttemptNumber),
		IsBestAttempt:        row.IsBestAttempt,
		TimeSpentSeconds:     int(row.TimeSpentSeconds),
		StartedAt:            row.StartedAt,
		CompletedAt:          row.CompletedAt,
	}
}

// QuestionView is a question as shown to the player: no correctness data,
// and hint text only for hints already revealed in this session.
type QuestionView struct {
	SessionID       uuid.UUID       `json:"session_id"`
	Index           int             `json:"index"`
	Total           int             `json:"total"`
	ID              uuid.UUID       `json:"id"`
	Variant         game.Variant    `json:"variant"`
	Prompt          string          `json:"prompt"`
	Points          int             `json:"points"`
	AllowMultiple   bool            `json:"allow_multiple"`
	Answers         []AnswerOption  `json:"answers,omitempty"`
	DragItems       []game.DragItem `json:"drag_items,omitempty"`
	DropZones       []DropZoneView  `json:"drop_zones,omitempty"`
	Grid            *GridView       `json:"crossword_grid,omitempty"`
	CardFront       string          `json:"card_front,omitempty"`
	CardBack        string          `json:"card_back,omitempty"`
	Hints           []HintView      `json:"hints"`
	RevealedHintIDs []uuid.UUID     `json:"revealed_hint_ids"`
	HintsUsed       int             `json:"hints_used"`
	HintPenalty     decimal.Decimal `json:"hint_penalty"`
}

// AnswerOption is a selectable answer without its correctness flag.
type AnswerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DropZoneView is a drop zone without its accepted items.
type DropZoneView struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// GridView is the crossword layout without solution letters.
type GridView struct {
	Rows  int        `json:"rows,omitempty"`
	Cols  int        `json:"cols,omitempty"`
	Cells []CellView `json:"cells"`
}

// CellView is a crossword square without its letter.
type CellView struct {
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	IsBlack bool `json:"is_black"`
}

// HintView lists a hint; Text is empty until the hint is revealed.
type HintView struct {
	ID         uuid.UUID `json:"id"`
	Penalty    int       `json:"penalty"`
	IsRevealed bool      `json:"is_revealed"`
	Text       string    `json:"text,omitempty"`
}

// SubmitRequest carries one answer submission.
type SubmitRequest struct {
	SessionID        uuid.UUID       `json:"-"`
	StudentID        uuid.UUID       `json:"-"`
	QuestionID       uuid.UUID       `json:"question_id"`
	Selected         json.RawMessage `json:"selected"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
}

// SubmitResult is the outcome of a graded submission.
type SubmitResult struct {
	QuestionID        uuid.UUID       `json:"question_id"`
	IsCorrect         bool            `json:"is_correct"`
	PointsEarned      decimal.Decimal `json:"points_earned"`
	CorrectAnswerIDs  []string        `json:"correct_answer_ids"`
	Explanation       string          `json:"explanation,omitempty"`
	HintsUsed         int             `json:"hints_used"`
	TotalScore        decimal.Decimal `json:"total_score"`
	NextQuestionIndex int             `json:"next_question_index"`
	IsLastQuestion    bool            `json:"is_last_question"`
}

// RevealedHint is returned when a hint is revealed.
type RevealedHint struct {
	HintID       uuid.UUID       `json:"hint_id"`
	QuestionID   uuid.UUID       `json:"question_id"`
	Text         string          `json:"text"`
	Penalty      int             `json:"penalty"`
	HintsUsed    int             `json:"hints_used"`
	TotalPenalty decimal.Decimal `json:"total_penalty"`
	RevealedAt   time.Time       `json:"revealed_at"`
}

// Results summarizes a completed session.
type Results struct {
	Session        *Session         `json:"session"`
	GameTitle      string           `json:"game_title"`
	Variant        game.Variant     `json:"variant"`
	PossiblePoints int              `json:"possible_points"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Passed         bool             `json:"passed"`
	Questions      []QuestionResult `json:"questions"`
}

// QuestionResult is one row of a results breakdown. Unanswered questions
// have Answered false and zero points.
type QuestionResult struct {
	QuestionID       uuid.UUID       `json:"question_id"`
	Prompt           string          `json:"prompt"`
	Answered         bool            `json:"answered"`
	Selected         json.RawMessage `json:"selected,omitempty"`
	IsCorrect        bool            `json:"is_correct"`
	PointsEarned     decimal.Decimal `json:"points_earned"`
	Points           int             `json:"points"`
	HintsUsed        int             `json:"hints_used"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	CorrectAnswerIDs []string        `json:"correct_answer_ids"`
	Explanation      string          `json:"explanation,omitempty"`
	Answers          []game.Answer   `json:"answers,omitempty"`
}
