package gameplay

import (
	"bytes"

	"github.com/google/uuid"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
)

// SelectBest picks the best completed attempt: highest percentage, then the
// earliest completion, then the lowest id. Rows that are not completed are
// ignored. It reports false when no row qualifies.
func SelectBest(rows []sqlcgen.GameSession) (uuid.UUID, bool) {
	var (
		best  sqlcgen.GameSession
		found bool
	)
	for _, row := range rows {
		if Status(row.Status) != StatusCompleted {
			continue
		}
		if !found || betterAttempt(row, best) {
			best = row
			found = true
		}
	}
	if !found {
		return uuid.Nil, false
	}
	return best.ID, true
}

func betterAttempt(a, b sqlcgen.GameSession) bool {
	if c := a.PercentageScore.Cmp(b.PercentageScore); c != 0 {
		return c > 0
	}
	switch {
	case a.CompletedAt != nil && b.CompletedAt == nil:
		return true
	case a.CompletedAt == nil && b.CompletedAt != nil:
		return false
	case a.CompletedAt != nil && b.CompletedAt != nil && !a.CompletedAt.Equal(*b.CompletedAt):
		return a.CompletedAt.Before(*b.CompletedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
