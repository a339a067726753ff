package gameplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/events"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/gameplay/grading"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/gameplay/scoring"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/metrics"
)

const defaultMaxAttempts = 3

// Service runs the session state machine: start, serve, grade, complete.
type Service struct {
	store       Store
	games       GameSource
	locker      Locker
	publisher   EventPublisher
	engine      *scoring.Engine
	maxAttempts int
	now         func() time.Time
	logger      zerolog.Logger
}

// ServiceOptions configures the gameplay service.
type ServiceOptions struct {
	MaxAttempts   int
	ScoringConfig *scoring.Config // nil uses scoring.DefaultConfig
	Now           func() time.Time
}

// NewService creates a gameplay service. locker and publisher may be nil.
func NewService(
	store Store,
	games GameSource,
	locker Locker,
	publisher EventPublisher,
	opts ServiceOptions,
	logger zerolog.Logger,
) *Service {
	scoringCfg := scoring.DefaultConfig()
	if opts.ScoringConfig != nil {
		scoringCfg = *opts.ScoringConfig
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		store:       store,
		games:       games,
		locker:      locker,
		publisher:   publisher,
		engine:      scoring.NewEngine(scoringCfg),
		maxAttempts: maxAttempts,
		now:         func() time.Time { return now().UTC() },
		logger:      logger.With().Str("component", "gameplay_service").Logger(),
	}
}

// Start opens a new attempt for (student, game, assignment). Every session
// counts toward the attempt limit regardless of status.
func (s *Service) Start(ctx context.Context, studentID, gameID uuid.UUID, assignmentID *uuid.UUID) (*Session, error) {
	g, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	key := repository.AttemptKey{StudentID: studentID, GameID: gameID, AssignmentID: assignmentID}
	unlock, err := s.lock(ctx, "attempts:"+key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	lastCount := -1
	for try := 0; try <= s.maxAttempts; try++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		count, err := s.store.CountSessions(ctx, key)
		if err != nil {
			return nil, s.storeErr("count sessions", err)
		}
		// An unchanged count after a conflict means the attempt number is
		// taken by a row outside the count (a gap in the history).
		if count >= s.maxAttempts || count == lastCount {
			metrics.AttemptLimitRejections.Inc()
			return nil, ErrAttemptLimitExceeded
		}
		lastCount = count

		row, err := s.store.CreateSession(ctx, sqlcgen.CreateSessionParams{
			ID:            uuid.New(),
			StudentID:     studentID,
			GameID:        gameID,
			AssignmentID:  assignmentID,
			AttemptNumber: int32(count + 1),
			StartedAt:     s.now(),
		})
		if errors.Is(err, repository.ErrConflict) {
			// A concurrent start took this attempt number; recount.
			continue
		}
		if err != nil {
			return nil, s.storeErr("create session", err)
		}

		metrics.SessionsStarted.WithLabelValues(string(g.Variant)).Inc()
		s.logger.Info().
			Str("session_id", row.ID.String()).
			Str("student_id", studentID.String()).
			Str("game_id", gameID.String()).
			Int32("attempt_number", row.AttemptNumber).
			Msg("session started")
		return sessionFromRow(row), nil
	}
	metrics.AttemptLimitRejections.Inc()
	return nil, ErrAttemptLimitExceeded
}

// Session returns a session owned by the student.
func (s *Service) Session(ctx context.Context, sessionID, studentID uuid.UUID) (*Session, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return sessionFromRow(row), nil
}

// CurrentQuestion returns the question at the session cursor.
func (s *Service) CurrentQuestion(ctx context.Context, sessionID, studentID uuid.UUID) (*QuestionView, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) != StatusInProgress {
		return nil, ErrInvalidState
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}

	idx := int(row.CurrentQuestionIndex)
	if idx >= len(g.Questions) {
		return nil, ErrOutOfRange
	}
	q := g.Questions[idx]
	usages, err := s.store.ListHintUsages(ctx, sessionID, q.ID)
	if err != nil {
		return nil, s.storeErr("list hint usages", err)
	}
	return buildQuestionView(sessionID, idx, len(g.Questions), q, usages), nil
}

// Question returns any not yet answered question of the session for display.
func (s *Service) Question(ctx context.Context, sessionID, questionID, studentID uuid.UUID) (*QuestionView, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) != StatusInProgress {
		return nil, ErrInvalidState
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}
	q, idx, ok := g.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}

	attempts, err := s.store.ListAttempts(ctx, sessionID)
	if err != nil {
		return nil, s.storeErr("list attempts", err)
	}
	for _, a := range attempts {
		if a.QuestionID == questionID {
			return nil, ErrAlreadyAnswered
		}
	}

	usages, err := s.store.ListHintUsages(ctx, sessionID, questionID)
	if err != nil {
		return nil, s.storeErr("list hint usages", err)
	}
	return buildQuestionView(sessionID, idx, len(g.Questions), q, usages), nil
}

// SubmitAnswer grades the answer to the question at the cursor, records the
// attempt and advances the cursor in one transaction.
func (s *Service) SubmitAnswer(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	row, err := s.loadOwned(ctx, req.SessionID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) != StatusInProgress {
		return nil, ErrInvalidState
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}
	q, idx, ok := g.Question(req.QuestionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", req.QuestionID, ErrNotFound)
	}

	sub, err := grading.DecodeSubmission(q.Variant, req.Selected)
	if err != nil {
		return nil, err
	}
	selected := []byte(req.Selected)
	if len(selected) == 0 || !json.Valid(selected) {
		selected = []byte("null")
	}
	timeSpent := req.TimeSpentSeconds
	if timeSpent < 0 {
		timeSpent = 0
	}

	var result *SubmitResult
	err = s.store.InSession(ctx, req.SessionID, func(tx repository.SessionTx) error {
		locked := tx.Session()
		if locked.StudentID != req.StudentID {
			return ErrForbidden
		}
		if Status(locked.Status) != StatusInProgress {
			return ErrInvalidState
		}
		answered, err := tx.AttemptExists(ctx, q.ID)
		if err != nil {
			return err
		}
		if answered {
			return ErrAlreadyAnswered
		}
		if idx != int(locked.CurrentQuestionIndex) {
			return ErrInvalidState
		}

		usages, err := tx.ListHintUsages(ctx, q.ID)
		if err != nil {
			return err
		}
		hintsUsed, penalty := penaltyOf(q, usages)
		graded := grading.Grade(q, sub)
		points := s.engine.PointsEarned(q.Points, graded.IsCorrect, hintsUsed, penalty)

		_, err = tx.InsertAttempt(ctx, sqlcgen.CreateQuestionAttemptParams{
			ID:               uuid.New(),
			QuestionID:       q.ID,
			SelectedAnswer:   selected,
			IsCorrect:        graded.IsCorrect,
			PointsEarned:     points,
			HintsUsed:        int32(hintsUsed),
			TimeSpentSeconds: int32(timeSpent),
			AnsweredAt:       s.now(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyAnswered
			}
			return err
		}

		total := locked.TotalScore.Add(points)
		next := locked.CurrentQuestionIndex + 1
		if err := tx.UpdateProgress(ctx, total, next); err != nil {
			return err
		}

		result = &SubmitResult{
			QuestionID:        q.ID,
			IsCorrect:         graded.IsCorrect,
			PointsEarned:      points,
			CorrectAnswerIDs:  graded.CorrectAnswerIDs,
			Explanation:       q.Explanation,
			HintsUsed:         hintsUsed,
			TotalScore:        total,
			NextQuestionIndex: int(next),
			IsLastQuestion:    int(next) >= len(g.Questions),
		}
		return nil
	})
	if err != nil {
		return nil, s.storeErr("submit answer", err)
	}

	metrics.AnswersGraded.WithLabelValues(string(q.Variant), strconv.FormatBool(result.IsCorrect)).Inc()
	s.logger.Debug().
		Str("session_id", req.SessionID.String()).
		Str("question_id", q.ID.String()).
		Bool("correct", result.IsCorrect).
		Str("points", result.PointsEarned.String()).
		Msg("answer graded")
	return result, nil
}

// Complete finalizes the session, re-derives the best attempt of its key and
// publishes a completion event.
func (s *Service) Complete(ctx context.Context, sessionID uuid.UUID, totalTimeSpentSeconds int, studentID uuid.UUID) (*Session, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) != StatusInProgress {
		return nil, ErrInvalidState
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}
	if totalTimeSpentSeconds < 0 {
		totalTimeSpentSeconds = 0
	}

	key := repository.AttemptKey{StudentID: row.StudentID, GameID: row.GameID, AssignmentID: row.AssignmentID}
	unlock, err := s.lock(ctx, "best:"+key.String())
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		completed sqlcgen.GameSession
		bestID    uuid.UUID
	)
	err = s.store.InSession(ctx, sessionID, func(tx repository.SessionTx) error {
		locked := tx.Session()
		if locked.StudentID != studentID {
			return ErrForbidden
		}
		if Status(locked.Status) != StatusInProgress {
			return ErrInvalidState
		}

		pct := s.engine.Percentage(g.Variant, locked.TotalScore, g.PossiblePoints())
		if _, err := tx.Complete(ctx, pct, int32(totalTimeSpentSeconds), s.now()); err != nil {
			return err
		}
		best, _, err := tx.RecomputeBest(ctx, SelectBest)
		if err != nil {
			return err
		}
		bestID = best
		completed = tx.Session()
		return nil
	})
	if err != nil {
		return nil, s.storeErr("complete session", err)
	}

	session := sessionFromRow(completed)
	passed := s.engine.Passed(session.PercentageScore)
	metrics.SessionsFinished.WithLabelValues(string(g.Variant), string(StatusCompleted)).Inc()
	metrics.SessionPercentage.Observe(session.PercentageScore.InexactFloat64())
	s.logger.Info().
		Str("session_id", sessionID.String()).
		Str("student_id", studentID.String()).
		Str("percentage", session.PercentageScore.String()).
		Bool("best_attempt", session.IsBestAttempt).
		Msg("session completed")

	s.publishCompleted(ctx, session, bestID, passed)
	return session, nil
}

// Abandon ends an in-progress session without scoring it. The attempt still
// counts toward the limit.
func (s *Service) Abandon(ctx context.Context, sessionID, studentID uuid.UUID) (*Session, error) {
	var abandoned sqlcgen.GameSession
	err := s.store.InSession(ctx, sessionID, func(tx repository.SessionTx) error {
		locked := tx.Session()
		if locked.StudentID != studentID {
			return ErrForbidden
		}
		if Status(locked.Status) != StatusInProgress {
			return ErrInvalidState
		}
		row, err := tx.Abandon(ctx)
		if err != nil {
			return err
		}
		abandoned = row
		return nil
	})
	if err != nil {
		return nil, s.storeErr("abandon session", err)
	}

	variant := "unknown"
	if g, err := s.games.Game(ctx, abandoned.GameID); err == nil {
		variant = string(g.Variant)
	}
	metrics.SessionsFinished.WithLabelValues(variant, string(StatusAbandoned)).Inc()
	s.logger.Info().Str("session_id", sessionID.String()).Msg("session abandoned")
	return sessionFromRow(abandoned), nil
}

// Results returns the per-question breakdown of a completed session.
func (s *Service) Results(ctx context.Context, sessionID, studentID uuid.UUID) (*Results, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if Status(row.Status) != StatusCompleted {
		return nil, ErrInvalidState
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.store.ListAttempts(ctx, sessionID)
	if err != nil {
		return nil, s.storeErr("list attempts", err)
	}
	byQuestion := make(map[uuid.UUID]sqlcgen.QuestionAttempt, len(attempts))
	for _, a := range attempts {
		byQuestion[a.QuestionID] = a
	}

	session := sessionFromRow(row)
	res := &Results{
		Session:        session,
		GameTitle:      g.Title,
		Variant:        g.Variant,
		PossiblePoints: g.PossiblePoints(),
		TotalQuestions: len(g.Questions),
		Passed:         s.engine.Passed(session.PercentageScore),
		Questions:      make([]QuestionResult, 0, len(g.Questions)),
	}
	for _, q := range g.Questions {
		qr := QuestionResult{
			QuestionID:       q.ID,
			Prompt:           q.Prompt,
			Points:           q.Points,
			CorrectAnswerIDs: q.CorrectAnswerIDs(),
			Explanation:      q.Explanation,
			Answers:          q.Answers,
		}
		if a, ok := byQuestion[q.ID]; ok {
			qr.Answered = true
			qr.Selected = json.RawMessage(a.SelectedAnswer)
			qr.IsCorrect = a.IsCorrect
			qr.PointsEarned = a.PointsEarned
			qr.HintsUsed = int(a.HintsUsed)
			qr.TimeSpentSeconds = int(a.TimeSpentSeconds)
			if a.IsCorrect {
				res.CorrectCount++
			}
		}
		res.Questions = append(res.Questions, qr)
	}
	return res, nil
}

func (s *Service) loadOwned(ctx context.Context, sessionID, studentID uuid.UUID) (sqlcgen.GameSession, error) {
	row, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return sqlcgen.GameSession{}, s.storeErr("get session", err)
	}
	if row.StudentID != studentID {
		return sqlcgen.GameSession{}, ErrForbidden
	}
	return row, nil
}

func (s *Service) loadGame(ctx context.Context, gameID uuid.UUID) (*game.Game, error) {
	g, err := s.games.Game(ctx, gameID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	return g, nil
}

func (s *Service) lock(ctx context.Context, key string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	return s.locker.Lock(ctx, key)
}

// storeErr maps repository errors onto service kinds and leaves service
// kinds returned from transaction callbacks untouched.
func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) publishCompleted(ctx context.Context, session *Session, bestID uuid.UUID, passed bool) {
	if s.publisher == nil {
		return
	}
	evt := events.SessionCompleted{
		SessionID:        session.ID.String(),
		StudentID:        session.StudentID.String(),
		GameID:           session.GameID.String(),
		AttemptNumber:    session.AttemptNumber,
		TotalScore:       session.TotalScore,
		PercentageScore:  session.PercentageScore,
		Passed:           passed,
		IsBestAttempt:    session.IsBestAttempt,
		TimeSpentSeconds: session.TimeSpentSeconds,
	}
	if session.AssignmentID != nil {
		evt.AssignmentID = session.AssignmentID.String()
	}
	if bestID != uuid.Nil {
		evt.BestSessionID = bestID.String()
	}
	if session.CompletedAt != nil {
		evt.CompletedAt = *session.CompletedAt
	}
	if err := s.publisher.PublishSessionCompleted(ctx, evt); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID.String()).Msg("publish session completed failed")
	}
}
