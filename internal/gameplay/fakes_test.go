package gameplay

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/events"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

// memoryStore mimics the Postgres repository: uniqueness violations surface
// as repository.ErrConflict and InSession rolls back on error.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]sqlcgen.GameSession
	attempts []sqlcgen.QuestionAttempt
	usages   []sqlcgen.HintUsage

	failRecompute error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[uuid.UUID]sqlcgen.GameSession{}}
}

func sameKey(row sqlcgen.GameSession, studentID, gameID uuid.UUID, assignmentID *uuid.UUID) bool {
	if row.StudentID != studentID || row.GameID != gameID {
		return false
	}
	if row.AssignmentID == nil || assignmentID == nil {
		return row.AssignmentID == nil && assignmentID == nil
	}
	return *row.AssignmentID == *assignmentID
}

func (m *memoryStore) CountSessions(_ context.Context, key repository.AttemptKey) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.sessions {
		if sameKey(row, key.StudentID, key.GameID, key.AssignmentID) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) CreateSession(_ context.Context, p sqlcgen.CreateSessionParams) (sqlcgen.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.sessions {
		if sameKey(row, p.StudentID, p.GameID, p.AssignmentID) && row.AttemptNumber == p.AttemptNumber {
			return sqlcgen.GameSession{}, fmt.Errorf("%w: game_sessions_attempt_key", repository.ErrConflict)
		}
	}
	row := sqlcgen.GameSession{
		ID:              p.ID,
		StudentID:       p.StudentID,
		GameID:          p.GameID,
		AssignmentID:    p.AssignmentID,
		Status:          string(StatusInProgress),
		TotalScore:      decimal.Zero,
		PercentageScore: decimal.Zero,
		AttemptNumber:   p.AttemptNumber,
		StartedAt:       p.StartedAt,
		UpdatedAt:       p.StartedAt,
	}
	m.sessions[row.ID] = row
	return row, nil
}

func (m *memoryStore) GetSession(_ context.Context, id uuid.UUID) (sqlcgen.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.sessions[id]
	if !ok {
		return sqlcgen.GameSession{}, repository.ErrNotFound
	}
	return row, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, sessionID uuid.UUID) ([]sqlcgen.QuestionAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sqlcgen.QuestionAttempt
	for _, a := range m.attempts {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryStore) ListHintUsages(_ context.Context, sessionID, questionID uuid.UUID) ([]sqlcgen.HintUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usagesFor(sessionID, questionID), nil
}

func (m *memoryStore) usagesFor(sessionID, questionID uuid.UUID) []sqlcgen.HintUsage {
	var out []sqlcgen.HintUsage
	for _, u := range m.usages {
		if u.SessionID == sessionID && u.QuestionID == questionID {
			out = append(out, u)
		}
	}
	return out
}

func (m *memoryStore) InSession(_ context.Context, sessionID uuid.UUID, fn func(repository.SessionTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.sessions[sessionID]
	if !ok {
		return repository.ErrNotFound
	}

	sessions := make(map[uuid.UUID]sqlcgen.GameSession, len(m.sessions))
	for k, v := range m.sessions {
		sessions[k] = v
	}
	attempts := append([]sqlcgen.QuestionAttempt(nil), m.attempts...)
	usages := append([]sqlcgen.HintUsage(nil), m.usages...)

	if err := fn(&memoryTx{store: m, session: row}); err != nil {
		m.sessions, m.attempts, m.usages = sessions, attempts, usages
		return err
	}
	return nil
}

func (m *memoryStore) session(id uuid.UUID) sqlcgen.GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *memoryStore) bestCount(studentID, gameID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.sessions {
		if row.StudentID == studentID && row.GameID == gameID && row.IsBestAttempt {
			n++
		}
	}
	return n
}

// memoryTx runs with memoryStore.mu held.
type memoryTx struct {
	store   *memoryStore
	session sqlcgen.GameSession
}

func (t *memoryTx) Session() sqlcgen.GameSession { return t.session }

func (t *memoryTx) AttemptExists(_ context.Context, questionID uuid.UUID) (bool, error) {
	for _, a := range t.store.attempts {
		if a.SessionID == t.session.ID && a.QuestionID == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) InsertAttempt(ctx context.Context, p sqlcgen.CreateQuestionAttemptParams) (sqlcgen.QuestionAttempt, error) {
	if exists, _ := t.AttemptExists(ctx, p.QuestionID); exists {
		return sqlcgen.QuestionAttempt{}, fmt.Errorf("%w: question_attempts_session_question_key", repository.ErrConflict)
	}
	row := sqlcgen.QuestionAttempt{
		ID:               p.ID,
		SessionID:        t.session.ID,
		QuestionID:       p.QuestionID,
		SelectedAnswer:   p.SelectedAnswer,
		IsCorrect:        p.IsCorrect,
		PointsEarned:     p.PointsEarned,
		HintsUsed:        p.HintsUsed,
		TimeSpentSeconds: p.TimeSpentSeconds,
		AnsweredAt:       p.AnsweredAt,
	}
	t.store.attempts = append(t.store.attempts, row)
	return row, nil
}

func (t *memoryTx) InsertHintUsage(_ context.Context, p sqlcgen.CreateHintUsageParams) (sqlcgen.HintUsage, error) {
	for _, u := range t.store.usages {
		if u.SessionID == t.session.ID && u.HintID == p.HintID {
			return sqlcgen.HintUsage{}, fmt.Errorf("%w: hint_usages_session_hint_key", repository.ErrConflict)
		}
	}
	row := sqlcgen.HintUsage{
		ID:         p.ID,
		SessionID:  t.session.ID,
		QuestionID: p.QuestionID,
		HintID:     p.HintID,
		RevealedAt: p.RevealedAt,
	}
	t.store.usages = append(t.store.usages, row)
	return row, nil
}

func (t *memoryTx) ListHintUsages(_ context.Context, questionID uuid.UUID) ([]sqlcgen.HintUsage, error) {
	return t.store.usagesFor(t.session.ID, questionID), nil
}

func (t *memoryTx) UpdateProgress(_ context.Context, totalScore decimal.Decimal, questionIndex int32) error {
	t.session.TotalScore = totalScore
	t.session.CurrentQuestionIndex = questionIndex
	t.store.sessions[t.session.ID] = t.session
	return nil
}

func (t *memoryTx) Complete(_ context.Context, percentage decimal.Decimal, timeSpentSeconds int32, completedAt time.Time) (sqlcgen.GameSession, error) {
	t.session.Status = string(StatusCompleted)
	t.session.PercentageScore = percentage
	t.session.TimeSpentSeconds = timeSpentSeconds
	t.session.CompletedAt = &completedAt
	t.store.sessions[t.session.ID] = t.session
	return t.session, nil
}

func (t *memoryTx) Abandon(context.Context) (sqlcgen.GameSession, error) {
	t.session.Status = string(StatusAbandoned)
	t.store.sessions[t.session.ID] = t.session
	return t.session, nil
}

func (t *memoryTx) RecomputeBest(_ context.Context, pick func([]sqlcgen.GameSession) (uuid.UUID, bool)) (uuid.UUID, bool, error) {
	if t.store.failRecompute != nil {
		return uuid.Nil, false, t.store.failRecompute
	}
	var completed []sqlcgen.GameSession
	for id, row := range t.store.sessions {
		if !sameKey(row, t.session.StudentID, t.session.GameID, t.session.AssignmentID) {
			continue
		}
		if row.IsBestAttempt {
			row.IsBestAttempt = false
			t.store.sessions[id] = row
		}
		if Status(row.Status) == StatusCompleted {
			completed = append(completed, row)
		}
	}
	best, ok := pick(completed)
	if !ok {
		return uuid.Nil, false, nil
	}
	row := t.store.sessions[best]
	row.IsBestAttempt = true
	t.store.sessions[best] = row
	t.session.IsBestAttempt = best == t.session.ID
	return best, true, nil
}

type stubGames map[uuid.UUID]*game.Game

func (s stubGames) Game(_ context.Context, id uuid.UUID) (*game.Game, error) {
	g, ok := s[id]
	if !ok {
		return nil, game.ErrNotFound
	}
	return g, nil
}

// memoryLocker is a process-local Locker.
type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{locks: map[string]*sync.Mutex{}}
}

func (l *memoryLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SessionCompleted
	err    error
}

func (p *recordingPublisher) PublishSessionCompleted(_ context.Context, evt events.SessionCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

// stepClock advances one second per reading.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store     *memoryStore
	games     stubGames
	publisher *recordingPublisher
	svc       *Service
}

func newFixture(games ...*game.Game) *fixture {
	f := &fixture{
		store:     newMemoryStore(),
		games:     stubGames{},
		publisher: &recordingPublisher{},
	}
	for _, g := range games {
		f.games[g.ID] = g
	}
	clock := &stepClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = NewService(f.store, f.games, newMemoryLocker(), f.publisher, ServiceOptions{
		MaxAttempts: 3,
		Now:         clock.Now,
	}, zerolog.New(io.Discard))
	return f
}

// mcqQuestion builds a single-select question whose first answer is correct.
func mcqQuestion(points int, hints ...game.Hint) game.Question {
	return game.Question{
		ID:      uuid.New(),
		Variant: game.VariantMCQ,
		Prompt:  "Pick one",
		Points:  points,
		Answers: []game.Answer{
			{ID: uuid.NewString(), Text: "right", IsCorrect: true},
			{ID: uuid.NewString(), Text: "wrong"},
		},
		Hints: hints,
	}
}

func newGame(variant game.Variant, questions ...game.Question) *game.Game {
	for i := range questions {
		questions[i].Position = i
		if questions[i].Variant == "" {
			questions[i].Variant = variant
		}
	}
	return &game.Game{ID: uuid.New(), Title: "Test game", Variant: variant, Questions: questions}
}

func correctPayload(q game.Question) []byte {
	return []byte(fmt.Sprintf(`[%q]`, q.CorrectAnswerIDs()[0]))
}

func wrongPayload(q game.Question) []byte {
	for _, a := range q.Answers {
		if !a.IsCorrect {
			return []byte(fmt.Sprintf(`[%q]`, a.ID))
		}
	}
	return []byte(`[]`)
}
