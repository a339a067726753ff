package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
)

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) CountSessionsForKey(ctx context.Context, arg sqlcgen.CountSessionsForKeyParams) (int32, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockSessionStore) CreateSession(ctx context.Context, arg sqlcgen.CreateSessionParams) (sqlcgen.GameSession, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) GetSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) GetSessionForUpdate(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) UpdateSessionProgress(ctx context.Context, arg sqlcgen.UpdateSessionProgressParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockSessionStore) CompleteSession(ctx context.Context, arg sqlcgen.CompleteSessionParams) (sqlcgen.GameSession, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) AbandonSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) CreateQuestionAttempt(ctx context.Context, arg sqlcgen.CreateQuestionAttemptParams) (sqlcgen.QuestionAttempt, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.QuestionAttempt), args.Error(1)
}

func (m *mockSessionStore) ListQuestionAttempts(ctx context.Context, sessionID uuid.UUID) ([]sqlcgen.QuestionAttempt, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]sqlcgen.QuestionAttempt), args.Error(1)
}

func (m *mockSessionStore) QuestionAttemptExists(ctx context.Context, arg sqlcgen.QuestionAttemptExistsParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionStore) CreateHintUsage(ctx context.Context, arg sqlcgen.CreateHintUsageParams) (sqlcgen.HintUsage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.HintUsage), args.Error(1)
}

func (m *mockSessionStore) ListHintUsagesForQuestion(ctx context.Context, arg sqlcgen.ListHintUsagesForQuestionParams) ([]sqlcgen.HintUsage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.HintUsage), args.Error(1)
}

func (m *mockSessionStore) LockAttemptKey(ctx context.Context, lockKey string) error {
	return m.Called(ctx, lockKey).Error(0)
}

func (m *mockSessionStore) ListCompletedSessionsForKey(ctx context.Context, arg sqlcgen.ListCompletedSessionsForKeyParams) ([]sqlcgen.GameSession, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.GameSession), args.Error(1)
}

func (m *mockSessionStore) ClearBestAttempts(ctx context.Context, arg sqlcgen.ClearBestAttemptsParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockSessionStore) MarkBestAttempt(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestSessionRepo(store *mockSessionStore, tx *fakeTx) *SessionRepository {
	return &SessionRepository{
		db:     &fakeBeginner{tx: tx},
		store:  store,
		withTx: func(pgx.Tx) sessionStore { return store },
	}
}

func TestSessionRepository_CountSessions(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	assignment := uuidFromByte(9)
	key := AttemptKey{StudentID: uuidFromByte(1), GameID: uuidFromByte(2), AssignmentID: &assignment}
	store.On("CountSessionsForKey", mock.Anything, sqlcgen.CountSessionsForKeyParams{
		StudentID:    key.StudentID,
		GameID:       key.GameID,
		AssignmentID: &assignment,
	}).Return(int32(2), nil)

	n, err := repo.CountSessions(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	store.AssertExpectations(t)
}

func TestSessionRepository_CreateSessionConflict(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	params := sqlcgen.CreateSessionParams{ID: uuidFromByte(3), StudentID: uuidFromByte(1), GameID: uuidFromByte(2), AttemptNumber: 2}
	store.On("CreateSession", mock.Anything, params).
		Return(sqlcgen.GameSession{}, &pgconn.PgError{Code: "23505", ConstraintName: "game_sessions_attempt_key"})

	_, err := repo.CreateSession(context.Background(), params)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "game_sessions_attempt_key")
}

func TestSessionRepository_GetSessionNotFound(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	store.On("GetSession", mock.Anything, uuidFromByte(4)).Return(sqlcgen.GameSession{}, pgx.ErrNoRows)

	_, err := repo.GetSession(context.Background(), uuidFromByte(4))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_InSessionCommits(t *testing.T) {
	store := new(mockSessionStore)
	tx := &fakeTx{}
	repo := newTestSessionRepo(store, tx)

	sessionID := uuidFromByte(5)
	questionID := uuidFromByte(6)
	row := sqlcgen.GameSession{ID: sessionID, Status: "in_progress"}
	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(row, nil)
	store.On("QuestionAttemptExists", mock.Anything, sqlcgen.QuestionAttemptExistsParams{SessionID: sessionID, QuestionID: questionID}).Return(false, nil)
	store.On("UpdateSessionProgress", mock.Anything, sqlcgen.UpdateSessionProgressParams{
		ID:                   sessionID,
		TotalScore:           decimal.NewFromInt(7),
		CurrentQuestionIndex: 1,
	}).Return(nil)

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		assert.Equal(t, sessionID, stx.Session().ID)
		exists, err := stx.AttemptExists(context.Background(), questionID)
		require.NoError(t, err)
		assert.False(t, exists)
		if err := stx.UpdateProgress(context.Background(), decimal.NewFromInt(7), 1); err != nil {
			return err
		}
		assert.Equal(t, int32(1), stx.Session().CurrentQuestionIndex)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	store.AssertExpectations(t)
}

func TestSessionRepository_InSessionRollsBackOnError(t *testing.T) {
	store := new(mockSessionStore)
	tx := &fakeTx{}
	repo := newTestSessionRepo(store, tx)

	sessionID := uuidFromByte(5)
	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(sqlcgen.GameSession{ID: sessionID}, nil)
	store.On("CreateHintUsage", mock.Anything, mock.AnythingOfType("sqlcgen.CreateHintUsageParams")).
		Return(sqlcgen.HintUsage{}, &pgconn.PgError{Code: "23505"})

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		_, err := stx.InsertHintUsage(context.Background(), sqlcgen.CreateHintUsageParams{ID: uuidFromByte(7)})
		return err
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestSessionRepository_InSessionMissingRow(t *testing.T) {
	store := new(mockSessionStore)
	tx := &fakeTx{}
	repo := newTestSessionRepo(store, tx)

	store.On("GetSessionForUpdate", mock.Anything, uuidFromByte(8)).Return(sqlcgen.GameSession{}, pgx.ErrNoRows)

	called := false
	err := repo.InSession(context.Background(), uuidFromByte(8), func(SessionTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.True(t, tx.rolledBack)
}

func TestSessionRepository_InsertAttemptScopesToLockedSession(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	sessionID := uuidFromByte(5)
	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(sqlcgen.GameSession{ID: sessionID}, nil)
	store.On("CreateQuestionAttempt", mock.Anything, mock.MatchedBy(func(arg sqlcgen.CreateQuestionAttemptParams) bool {
		return arg.SessionID == sessionID && arg.IsCorrect
	})).Return(sqlcgen.QuestionAttempt{SessionID: sessionID, IsCorrect: true}, nil)

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		_, err := stx.InsertAttempt(context.Background(), sqlcgen.CreateQuestionAttemptParams{IsCorrect: true})
		return err
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSessionRepository_CompleteSetsTimestamp(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	sessionID := uuidFromByte(5)
	completedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(sqlcgen.GameSession{ID: sessionID}, nil)
	store.On("CompleteSession", mock.Anything, sqlcgen.CompleteSessionParams{
		ID:               sessionID,
		PercentageScore:  decimal.NewFromInt(70),
		TimeSpentSeconds: 42,
		CompletedAt:      &completedAt,
	}).Return(sqlcgen.GameSession{ID: sessionID, Status: "completed", CompletedAt: &completedAt}, nil)

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		row, err := stx.Complete(context.Background(), decimal.NewFromInt(70), 42, completedAt)
		if err != nil {
			return err
		}
		assert.Equal(t, "completed", row.Status)
		assert.Equal(t, "completed", stx.Session().Status)
		return nil
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSessionRepository_RecomputeBest(t *testing.T) {
	store := new(mockSessionStore)
	tx := &fakeTx{}
	repo := newTestSessionRepo(store, tx)

	sessionID := uuidFromByte(11)
	row := sqlcgen.GameSession{ID: sessionID, StudentID: uuidFromByte(1), GameID: uuidFromByte(2), Status: "completed"}
	key := AttemptKey{StudentID: row.StudentID, GameID: row.GameID}
	completed := []sqlcgen.GameSession{{ID: uuidFromByte(10)}, row}

	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(row, nil)
	store.On("LockAttemptKey", mock.Anything, "best:"+key.String()).Return(nil)
	store.On("ListCompletedSessionsForKey", mock.Anything, sqlcgen.ListCompletedSessionsForKeyParams{
		StudentID: key.StudentID,
		GameID:    key.GameID,
	}).Return(completed, nil)
	store.On("ClearBestAttempts", mock.Anything, sqlcgen.ClearBestAttemptsParams{
		StudentID: key.StudentID,
		GameID:    key.GameID,
	}).Return(nil)
	store.On("MarkBestAttempt", mock.Anything, sessionID).Return(nil)

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		best, ok, err := stx.RecomputeBest(context.Background(), func(rows []sqlcgen.GameSession) (uuid.UUID, bool) {
			assert.Len(t, rows, 2)
			return rows[1].ID, true
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, sessionID, best)
		assert.True(t, stx.Session().IsBestAttempt)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	store.AssertExpectations(t)
}

func TestSessionRepository_RecomputeBestNoCompleted(t *testing.T) {
	store := new(mockSessionStore)
	repo := newTestSessionRepo(store, &fakeTx{})

	sessionID := uuidFromByte(12)
	store.On("GetSessionForUpdate", mock.Anything, sessionID).Return(sqlcgen.GameSession{ID: sessionID}, nil)
	store.On("LockAttemptKey", mock.Anything, mock.Anything).Return(nil)
	store.On("ListCompletedSessionsForKey", mock.Anything, mock.Anything).Return([]sqlcgen.GameSession{}, nil)
	store.On("ClearBestAttempts", mock.Anything, mock.Anything).Return(nil)

	err := repo.InSession(context.Background(), sessionID, func(stx SessionTx) error {
		_, ok, err := stx.RecomputeBest(context.Background(), func([]sqlcgen.GameSession) (uuid.UUID, bool) {
			return uuid.Nil, false
		})
		assert.False(t, ok)
		return err
	})
	require.NoError(t, err)
	store.AssertNotCalled(t, "MarkBestAttempt", mock.Anything, mock.Anything)
}

func TestSessionRepository_CommitFailure(t *testing.T) {
	store := new(mockSessionStore)
	tx := &fakeTx{commitErr: errors.New("connection reset")}
	repo := newTestSessionRepo(store, tx)

	store.On("GetSessionForUpdate", mock.Anything, uuidFromByte(5)).Return(sqlcgen.GameSession{ID: uuidFromByte(5)}, nil)

	err := repo.InSession(context.Background(), uuidFromByte(5), func(SessionTx) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit tx")
	assert.True(t, tx.rolledBack)
}

func TestAttemptKeyString(t *testing.T) {
	assignment := uuidFromByte(3)
	withAssignment := AttemptKey{StudentID: uuidFromByte(1), GameID: uuidFromByte(2), AssignmentID: &assignment}
	without := AttemptKey{StudentID: uuidFromByte(1), GameID: uuidFromByte(2)}

	assert.NotEqual(t, withAssignment.String(), without.String())
	assert.Contains(t, without.String(), ":none")
}
