package gameplay

import (
	"context"

	"github.com/google/uuid"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/events"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

// Store is the persistence contract of the session engine. Every mutation of
// an existing session goes through InSession so it runs under the session
// row lock and commits atomically.
type Store interface {
	CountSessions(ctx context.Context, key repository.AttemptKey) (int, error)
	CreateSession(ctx context.Context, params sqlcgen.CreateSessionParams) (sqlcgen.GameSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (sqlcgen.GameSession, error)
	ListAttempts(ctx context.Context, sessionID uuid.UUID) ([]sqlcgen.QuestionAttempt, error)
	ListHintUsages(ctx context.Context, sessionID, questionID uuid.UUID) ([]sqlcgen.HintUsage, error)
	InSession(ctx context.Context, sessionID uuid.UUID, fn func(repository.SessionTx) error) error
}

var _ Store = (*repository.SessionRepository)(nil)

// GameSource resolves game definitions.
type GameSource interface {
	Game(ctx context.Context, id uuid.UUID) (*game.Game, error)
}

var _ GameSource = (*game.Catalog)(nil)

// Locker serializes work on an attempt key across API instances.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// EventPublisher announces finished sessions.
type EventPublisher interface {
	PublishSessionCompleted(ctx context.Context, evt events.SessionCompleted) error
}

var _ EventPublisher = (*events.Publisher)(nil)
