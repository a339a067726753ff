package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/db/repository"
	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/metrics"
)

// ErrNotFound is returned when no game exists for an id.
var ErrNotFound = errors.New("game not found")

// DefinitionCache defines cache behavior (implemented by Redis-backed Cache).
type DefinitionCache interface {
	Get(ctx context.Context, id uuid.UUID) (*Game, error)
	Set(ctx context.Context, g Game) error
}

// Catalog resolves read-only game definitions: cache first, then Postgres.
type Catalog struct {
	repo   *repository.GameRepository
	cache  DefinitionCache
	logger zerolog.Logger
}

func NewCatalog(repo *repository.GameRepository, cache DefinitionCache, logger zerolog.Logger) *Catalog {
	return &Catalog{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "game_catalog").Logger(),
	}
}

// Game returns the definition with questions in play order.
func (c *Catalog) Game(ctx context.Context, id uuid.UUID) (*Game, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, id)
		if err != nil {
			c.logger.Warn().Err(err).Str("game_id", id.String()).Msg("game cache read failed")
		} else if cached != nil {
			metrics.CacheHits.Inc()
			return cached, nil
		}
		metrics.CacheMisses.Inc()
	}

	start := time.Now()
	def, err := c.repo.Load(ctx, id)
	metrics.RecordStoreOperation("load_game", start)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load game: %w", err)
	}
	g, err := toDomain(def)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, *g); err != nil {
			c.logger.Warn().Err(err).Str("game_id", id.String()).Msg("game cache write failed")
		}
	}
	return g, nil
}

func toDomain(def repository.GameDefinition) (*Game, error) {
	variant := Variant(def.Game.TemplateType)
	if !variant.Valid() {
		return nil, fmt.Errorf("game %s: unknown template %q", def.Game.ID, def.Game.TemplateType)
	}

	answers := make(map[uuid.UUID][]Answer)
	for _, a := range def.Answers {
		answers[a.QuestionID] = append(answers[a.QuestionID], Answer{
			ID:        a.ID.String(),
			Text:      a.Text,
			IsCorrect: a.IsCorrect,
		})
	}
	hints := make(map[uuid.UUID][]Hint)
	for _, h := range def.Hints {
		hints[h.QuestionID] = append(hints[h.QuestionID], Hint{ID: h.ID, Text: h.Text, Penalty: int(h.Penalty)})
	}

	g := &Game{
		ID:        def.Game.ID,
		Title:     def.Game.Title,
		Variant:   variant,
		Questions: make([]Question, 0, len(def.Questions)),
	}
	for _, row := range def.Questions {
		q, err := questionFromRow(variant, row)
		if err != nil {
			return nil, err
		}
		q.Answers = answers[row.ID]
		q.Hints = hints[row.ID]
		g.Questions = append(g.Questions, q)
	}
	return g, nil
}

func questionFromRow(variant Variant, row sqlcgen.GameQuestion) (Question, error) {
	q := Question{
		ID:            row.ID,
		Variant:       variant,
		Position:      int(row.Position),
		Prompt:        row.Prompt,
		Explanation:   deref(row.Explanation),
		Points:        int(row.Points),
		AllowMultiple: row.AllowMultiple,
		CardFront:     deref(row.CardFront),
		CardBack:      deref(row.CardBack),
	}
	if err := unmarshalColumn(row.DragItems, &q.DragItems); err != nil {
		return Question{}, fmt.Errorf("question %s drag_items: %w", row.ID, err)
	}
	if err := unmarshalColumn(row.DropZones, &q.DropZones); err != nil {
		return Question{}, fmt.Errorf("question %s drop_zones: %w", row.ID, err)
	}
	if len(row.CrosswordGrid) > 0 && string(row.CrosswordGrid) != "null" {
		var grid CrosswordGrid
		if err := json.Unmarshal(row.CrosswordGrid, &grid); err != nil {
			return Question{}, fmt.Errorf("question %s crossword_grid: %w", row.ID, err)
		}
		q.Grid = &grid
	}
	return q, nil
}

func unmarshalColumn(raw []byte, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
