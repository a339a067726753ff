package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
)

type sessionStore interface {
	CountSessionsForKey(ctx context.Context, arg sqlcgen.CountSessionsForKeyParams) (int32, error)
	CreateSession(ctx context.Context, arg sqlcgen.CreateSessionParams) (sqlcgen.GameSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error)
	GetSessionForUpdate(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error)
	UpdateSessionProgress(ctx context.Context, arg sqlcgen.UpdateSessionProgressParams) error
	CompleteSession(ctx context.Context, arg sqlcgen.CompleteSessionParams) (sqlcgen.GameSession, error)
	AbandonSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error)
	CreateQuestionAttempt(ctx context.Context, arg sqlcgen.CreateQuestionAttemptParams) (sqlcgen.QuestionAttempt, error)
	ListQuestionAttempts(ctx context.Context, sessionID uuid.UUID) ([]sqlcgen.QuestionAttempt, error)
	QuestionAttemptExists(ctx context.Context, arg sqlcgen.QuestionAttemptExistsParams) (bool, error)
	CreateHintUsage(ctx context.Context, arg sqlcgen.CreateHintUsageParams) (sqlcgen.HintUsage, error)
	ListHintUsagesForQuestion(ctx context.Context, arg sqlcgen.ListHintUsagesForQuestionParams) ([]sqlcgen.HintUsage, error)
	LockAttemptKey(ctx context.Context, lockKey string) error
	ListCompletedSessionsForKey(ctx context.Context, arg sqlcgen.ListCompletedSessionsForKeyParams) ([]sqlcgen.GameSession, error)
	ClearBestAttempts(ctx context.Context, arg sqlcgen.ClearBestAttemptsParams) error
	MarkBestAttempt(ctx context.Context, id uuid.UUID) error
}

// TxBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AttemptKey identifies the attempt history of a student for one game,
// optionally scoped to an assignment.
type AttemptKey struct {
	StudentID    uuid.UUID
	GameID       uuid.UUID
	AssignmentID *uuid.UUID
}

// String renders the key for lock names.
func (k AttemptKey) String() string {
	assignment := "none"
	if k.AssignmentID != nil {
		assignment = k.AssignmentID.String()
	}
	return k.StudentID.String() + ":" + k.GameID.String() + ":" + assignment
}

// SessionTx is the set of writes allowed while a session row is locked.
type SessionTx interface {
	// Session returns the row as read under FOR UPDATE.
	Session() sqlcgen.GameSession
	AttemptExists(ctx context.Context, questionID uuid.UUID) (bool, error)
	InsertAttempt(ctx context.Context, arg sqlcgen.CreateQuestionAttemptParams) (sqlcgen.QuestionAttempt, error)
	InsertHintUsage(ctx context.Context, arg sqlcgen.CreateHintUsageParams) (sqlcgen.HintUsage, error)
	ListHintUsages(ctx context.Context, questionID uuid.UUID) ([]sqlcgen.HintUsage, error)
	UpdateProgress(ctx context.Context, totalScore decimal.Decimal, questionIndex int32) error
	Complete(ctx context.Context, percentage decimal.Decimal, timeSpentSeconds int32, completedAt time.Time) (sqlcgen.GameSession, error)
	Abandon(ctx context.Context) (sqlcgen.GameSession, error)
	// RecomputeBest re-derives the best-attempt flag of the session's key
	// under an advisory lock. pick chooses the winner among the completed
	// sessions and reports false when there is none.
	RecomputeBest(ctx context.Context, pick func([]sqlcgen.GameSession) (uuid.UUID, bool)) (uuid.UUID, bool, error)
}

// SessionRepository persists game sessions, question attempts and hint usages.
type SessionRepository struct {
	db     TxBeginner
	store  sessionStore
	withTx func(tx pgx.Tx) sessionStore
}

// NewSessionRepository wraps sqlc Queries; db opens the InSession transactions.
func NewSessionRepository(db TxBeginner, queries *sqlcgen.Queries) *SessionRepository {
	return &SessionRepository{
		db:     db,
		store:  queries,
		withTx: func(tx pgx.Tx) sessionStore { return queries.WithTx(tx) },
	}
}

// CountSessions returns how many sessions (any status) exist for the key.
func (r *SessionRepository) CountSessions(ctx context.Context, key AttemptKey) (int, error) {
	n, err := r.store.CountSessionsForKey(ctx, sqlcgen.CountSessionsForKeyParams{
		StudentID:    key.StudentID,
		GameID:       key.GameID,
		AssignmentID: key.AssignmentID,
	})
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", translate(err))
	}
	return int(n), nil
}

// CreateSession inserts a new in-progress session. A duplicate attempt number
// surfaces as ErrConflict.
func (r *SessionRepository) CreateSession(ctx context.Context, params sqlcgen.CreateSessionParams) (sqlcgen.GameSession, error) {
	row, err := r.store.CreateSession(ctx, params)
	if err != nil {
		return sqlcgen.GameSession{}, fmt.Errorf("create session: %w", translate(err))
	}
	return row, nil
}

// GetSession reads a session without locking it.
func (r *SessionRepository) GetSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error) {
	row, err := r.store.GetSession(ctx, id)
	if err != nil {
		return sqlcgen.GameSession{}, fmt.Errorf("get session: %w", translate(err))
	}
	return row, nil
}

// ListAttempts returns the graded answers of a session in answer order.
func (r *SessionRepository) ListAttempts(ctx context.Context, sessionID uuid.UUID) ([]sqlcgen.QuestionAttempt, error) {
	rows, err := r.store.ListQuestionAttempts(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", translate(err))
	}
	return rows, nil
}

// ListHintUsages returns the hints revealed for a question in reveal order.
func (r *SessionRepository) ListHintUsages(ctx context.Context, sessionID, questionID uuid.UUID) ([]sqlcgen.HintUsage, error) {
	rows, err := r.store.ListHintUsagesForQuestion(ctx, sqlcgen.ListHintUsagesForQuestionParams{
		SessionID:  sessionID,
		QuestionID: questionID,
	})
	if err != nil {
		return nil, fmt.Errorf("list hint usages: %w", translate(err))
	}
	return rows, nil
}

// InSession runs fn in a transaction holding the session row lock. The
// transaction commits only when fn returns nil.
func (r *SessionRepository) InSession(ctx context.Context, sessionID uuid.UUID, fn func(SessionTx) error) error {
	return r.inTx(ctx, func(store sessionStore) error {
		row, err := store.GetSessionForUpdate(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", translate(err))
		}
		return fn(&sessionTx{store: store, session: row})
	})
}

func (r *SessionRepository) inTx(ctx context.Context, fn func(sessionStore) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(r.withTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type sessionTx struct {
	store   sessionStore
	session sqlcgen.GameSession
}

func (t *sessionTx) Session() sqlcgen.GameSession {
	return t.session
}

func (t *sessionTx) AttemptExists(ctx context.Context, questionID uuid.UUID) (bool, error) {
	exists, err := t.store.QuestionAttemptExists(ctx, sqlcgen.QuestionAttemptExistsParams{
		SessionID:  t.session.ID,
		QuestionID: questionID,
	})
	if err != nil {
		return false, fmt.Errorf("check attempt: %w", translate(err))
	}
	return exists, nil
}

func (t *sessionTx) InsertAttempt(ctx context.Context, arg sqlcgen.CreateQuestionAttemptParams) (sqlcgen.QuestionAttempt, error) {
	arg.SessionID = t.session.ID
	row, err := t.store.CreateQuestionAttempt(ctx, arg)
	if err != nil {
		return sqlcgen.QuestionAttempt{}, fmt.Errorf("insert attempt: %w", translate(err))
	}
	return row, nil
}

func (t *sessionTx) InsertHintUsage(ctx context.Context, arg sqlcgen.CreateHintUsageParams) (sqlcgen.HintUsage, error) {
	arg.SessionID = t.session.ID
	row, err := t.store.CreateHintUsage(ctx, arg)
	if err != nil {
		return sqlcgen.HintUsage{}, fmt.Errorf("insert hint usage: %w", translate(err))
	}
	return row, nil
}

func (t *sessionTx) ListHintUsages(ctx context.Context, questionID uuid.UUID) ([]sqlcgen.HintUsage, error) {
	rows, err := t.store.ListHintUsagesForQuestion(ctx, sqlcgen.ListHintUsagesForQuestionParams{
		SessionID:  t.session.ID,
		QuestionID: questionID,
	})
	if err != nil {
		return nil, fmt.Errorf("list hint usages: %w", translate(err))
	}
	return rows, nil
}

func (t *sessionTx) UpdateProgress(ctx context.Context, totalScore decimal.Decimal, questionIndex int32) error {
	err := t.store.UpdateSessionProgress(ctx, sqlcgen.UpdateSessionProgressParams{
		ID:                   t.session.ID,
		TotalScore:           totalScore,
		CurrentQuestionIndex: questionIndex,
	})
	if err != nil {
		return fmt.Errorf("update progress: %w", translate(err))
	}
	t.session.TotalScore = totalScore
	t.session.CurrentQuestionIndex = questionIndex
	return nil
}

func (t *sessionTx) Complete(ctx context.Context, percentage decimal.Decimal, timeSpentSeconds int32, completedAt time.Time) (sqlcgen.GameSession, error) {
	row, err := t.store.CompleteSession(ctx, sqlcgen.CompleteSessionParams{
		ID:               t.session.ID,
		PercentageScore:  percentage,
		TimeSpentSeconds: timeSpentSeconds,
		CompletedAt:      &completedAt,
	})
	if err != nil {
		return sqlcgen.GameSession{}, fmt.Errorf("complete session: %w", translate(err))
	}
	t.session = row
	return row, nil
}

func (t *sessionTx) Abandon(ctx context.Context) (sqlcgen.GameSession, error) {
	row, err := t.store.AbandonSession(ctx, t.session.ID)
	if err != nil {
		return sqlcgen.GameSession{}, fmt.Errorf("abandon session: %w", translate(err))
	}
	t.session = row
	return row, nil
}

func (t *sessionTx) RecomputeBest(ctx context.Context, pick func([]sqlcgen.GameSession) (uuid.UUID, bool)) (uuid.UUID, bool, error) {
	key := AttemptKey{StudentID: t.session.StudentID, GameID: t.session.GameID, AssignmentID: t.session.AssignmentID}
	if err := t.store.LockAttemptKey(ctx, "best:"+key.String()); err != nil {
		return uuid.Nil, false, fmt.Errorf("lock attempt key: %w", translate(err))
	}
	completed, err := t.store.ListCompletedSessionsForKey(ctx, sqlcgen.ListCompletedSessionsForKeyParams{
		StudentID:    key.StudentID,
		GameID:       key.GameID,
		AssignmentID: key.AssignmentID,
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("list completed sessions: %w", translate(err))
	}
	if err := t.store.ClearBestAttempts(ctx, sqlcgen.ClearBestAttemptsParams{
		StudentID:    key.StudentID,
		GameID:       key.GameID,
		AssignmentID: key.AssignmentID,
	}); err != nil {
		return uuid.Nil, false, fmt.Errorf("clear best attempts: %w", translate(err))
	}
	best, ok := pick(completed)
	if !ok {
		return uuid.Nil, false, nil
	}
	if err := t.store.MarkBestAttempt(ctx, best); err != nil {
		return uuid.Nil, false, fmt.Errorf("mark best attempt: %w", translate(err))
	}
	t.session.IsBestAttempt = best == t.session.ID
	return best, true, nil
}
