package gameplay

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/metrics"
)

// RevealHint records that the student revealed a hint and returns its text.
// Hints close once the question has an attempt; each hint is revealed at
// most once per session.
func (s *Service) RevealHint(ctx context.Context, sessionID, questionID, hintID, studentID uuid.UUID) (*RevealedHint, error) {
	row, err := s.loadOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return nil, err
	}
	q, _, ok := g.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}
	hint, ok := q.Hint(hintID)
	if !ok {
		return nil, fmt.Errorf("hint %s: %w", hintID, ErrNotFound)
	}

	var result *RevealedHint
	err = s.store.InSession(ctx, sessionID, func(tx repository.SessionTx) error {
		locked := tx.Session()
		if locked.StudentID != studentID {
			return ErrForbidden
		}
		if Status(locked.Status) != StatusInProgress {
			return ErrInvalidState
		}
		answered, err := tx.AttemptExists(ctx, questionID)
		if err != nil {
			return err
		}
		if answered {
			return ErrQuestionAlreadyAnswered
		}

		usages, err := tx.ListHintUsages(ctx, questionID)
		if err != nil {
			return err
		}
		for _, u := range usages {
			if u.HintID == hintID {
				return ErrAlreadyRevealed
			}
		}

		usage, err := tx.InsertHintUsage(ctx, sqlcgen.CreateHintUsageParams{
			ID:         uuid.New(),
			QuestionID: questionID,
			HintID:     hintID,
			RevealedAt: s.now(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrAlreadyRevealed
			}
			return err
		}

		count, total := penaltyOf(q, append(usages, usage))
		result = &RevealedHint{
			HintID:       hintID,
			QuestionID:   questionID,
			Text:         hint.Text,
			Penalty:      hint.Penalty,
			HintsUsed:    count,
			TotalPenalty: total,
			RevealedAt:   usage.RevealedAt,
		}
		return nil
	})
	if err != nil {
		return nil, s.storeErr("reveal hint", err)
	}

	metrics.HintsRevealed.Inc()
	s.logger.Debug().
		Str("session_id", sessionID.String()).
		Str("question_id", questionID.String()).
		Str("hint_id", hintID.String()).
		Int("hints_used", result.HintsUsed).
		Msg("hint revealed")
	return result, nil
}

// PenaltyFor reports how many hints were revealed for a question in a
// session and the sum of their penalties. There is no cap.
func (s *Service) PenaltyFor(ctx context.Context, sessionID, questionID uuid.UUID) (int, decimal.Decimal, error) {
	row, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return 0, decimal.Zero, s.storeErr("get session", err)
	}
	g, err := s.loadGame(ctx, row.GameID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	q, _, ok := g.Question(questionID)
	if !ok {
		return 0, decimal.Zero, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}
	usages, err := s.store.ListHintUsages(ctx, sessionID, questionID)
	if err != nil {
		return 0, decimal.Zero, s.storeErr("list hint usages", err)
	}
	count, total := penaltyOf(q, usages)
	return count, total, nil
}

// penaltyOf counts usages and sums the penalties of the hints they reveal.
func penaltyOf(q game.Question, usages []sqlcgen.HintUsage) (int, decimal.Decimal) {
	total := decimal.Zero
	for _, u := range usages {
		if h, ok := q.Hint(u.HintID); ok {
			total = total.Add(decimal.NewFromInt(int64(h.Penalty)))
		}
	}
	return len(usages), total
}
