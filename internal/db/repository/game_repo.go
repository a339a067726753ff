package repository

import (
	"context"

	"github.com/google/uuid"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
)

type gameStore interface {
	GetGame(ctx context.Context, id uuid.UUID) (sqlcgen.Game, error)
	ListQuestionsByGame(ctx context.Context, gameID uuid.UUID) ([]sqlcgen.GameQuestion, error)
	ListAnswersByGame(ctx context.Context, gameID uuid.UUID) ([]sqlcgen.GameAnswer, error)
	ListHintsByGame(ctx context.Context, gameID uuid.UUID) ([]sqlcgen.GameHint, error)
}

// GameDefinition is the raw row set of one game and its questions.
type GameDefinition struct {
	Game      sqlcgen.Game
	Questions []sqlcgen.GameQuestion
	Answers   []sqlcgen.GameAnswer
	Hints     []sqlcgen.GameHint
}

// GameRepository reads game definitions. Authoring happens elsewhere.
type GameRepository struct {
	store gameStore
}

// NewGameRepository wraps sqlc Queries for game catalog reads.
func NewGameRepository(store gameStore) *GameRepository {
	return &GameRepository{store: store}
}

// Load fetches a game with every question, answer and hint row.
func (r *GameRepository) Load(ctx context.Context, gameID uuid.UUID) (GameDefinition, error) {
	game, err := r.store.GetGame(ctx, gameID)
	if err != nil {
		return GameDefinition{}, translate(err)
	}
	questions, err := r.store.ListQuestionsByGame(ctx, gameID)
	if err != nil {
		return GameDefinition{}, translate(err)
	}
	answers, err := r.store.ListAnswersByGame(ctx, gameID)
	if err != nil {
		return GameDefinition{}, translate(err)
	}
	hints, err := r.store.ListHintsByGame(ctx, gameID)
	if err != nil {
		return GameDefinition{}, translate(err)
	}
	return GameDefinition{Game: game, Questions: questions, Answers: answers, Hints: hints}, nil
}
