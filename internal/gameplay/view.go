package gameplay

import (
	"github.com/google/uuid"

	sqlcgen "github.com/ehteshamawan1/quiz-app-sub000/internal/db/sqlc"
	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

func buildQuestionView(sessionID uuid.UUID, index, total int, q game.Question, usages []sqlcgen.HintUsage) *QuestionView {
	revealed := make(map[uuid.UUID]bool, len(usages))
	revealedIDs := make([]uuid.UUID, 0, len(usages))
	for _, u := range usages {
		revealed[u.HintID] = true
		revealedIDs = append(revealedIDs, u.HintID)
	}
	count, penalty := penaltyOf(q, usages)

	view := &QuestionView{
		SessionID:       sessionID,
		Index:           index,
		Total:           total,
		ID:              q.ID,
		Variant:         q.Variant,
		Prompt:          q.Prompt,
		Points:          q.Points,
		AllowMultiple:   q.AllowMultiple,
		DragItems:       q.DragItems,
		CardFront:       q.CardFront,
		CardBack:        q.CardBack,
		Hints:           make([]HintView, 0, len(q.Hints)),
		RevealedHintIDs: revealedIDs,
		HintsUsed:       count,
		HintPenalty:     penalty,
	}

	for _, a := range q.Answers {
		view.Answers = append(view.Answers, AnswerOption{ID: a.ID, Text: a.Text})
	}
	for _, z := range q.DropZones {
		view.DropZones = append(view.DropZones, DropZoneView{ID: z.ID, Label: z.Label})
	}
	if q.Grid != nil {
		grid := &GridView{Rows: q.Grid.Rows, Cols: q.Grid.Cols, Cells: make([]CellView, 0, len(q.Grid.Cells))}
		for _, c := range q.Grid.Cells {
			grid.Cells = append(grid.Cells, CellView{Row: c.Row, Col: c.Col, IsBlack: c.IsBlack})
		}
		view.Grid = grid
	}
	for _, h := range q.Hints {
		hv := HintView{ID: h.ID, Penalty: h.Penalty, IsRevealed: revealed[h.ID]}
		if hv.IsRevealed {
			hv.Text = h.Text
		}
		view.Hints = append(view.Hints, hv)
	}
	return view
}
