package game

import (
	"github.com/google/uuid"
)

// Variant is the template discriminant shared by a game and its questions.
type Variant string

// Template variants.
const (
	VariantMCQ           Variant = "mcq"
	VariantHintDiscovery Variant = "hint_discovery"
	VariantTimedQuiz     Variant = "timed_quiz"
	VariantDragDrop      Variant = "drag_drop"
	VariantWordCross     Variant = "word_cross"
	VariantFlashcards    Variant = "flashcards"
)

// Valid reports whether v is one of the known template variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantMCQ, VariantHintDiscovery, VariantTimedQuiz, VariantDragDrop, VariantWordCross, VariantFlashcards:
		return true
	}
	return false
}

// AnswerBased reports whether the variant is graded against a flat answer id list.
func (v Variant) AnswerBased() bool {
	return v == VariantMCQ || v == VariantHintDiscovery || v == VariantTimedQuiz
}

// Game is the immutable definition a session is played against.
type Game struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Variant   Variant    `json:"variant"`
	Questions []Question `json:"questions"`
}

// Question is a single playable item. Variant-specific fields are left empty
// for the variants that do not use them.
type Question struct {
	ID            uuid.UUID      `json:"id"`
	Variant       Variant        `json:"variant"`
	Position      int            `json:"position"`
	Prompt        string         `json:"prompt"`
	Explanation   string         `json:"explanation,omitempty"`
	Points        int            `json:"points"`
	AllowMultiple bool           `json:"allow_multiple"`
	Answers       []Answer       `json:"answers,omitempty"`
	DragItems     []DragItem     `json:"drag_items,omitempty"`
	DropZones     []DropZone     `json:"drop_zones,omitempty"`
	Grid          *CrosswordGrid `json:"crossword_grid,omitempty"`
	CardFront     string         `json:"card_front,omitempty"`
	CardBack      string         `json:"card_back,omitempty"`
	Hints         []Hint         `json:"hints,omitempty"`
}

// Answer is a selectable option of an answer-based question.
type Answer struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Hint is revealed on demand and costs Penalty points.
type Hint struct {
	ID      uuid.UUID `json:"id"`
	Text    string    `json:"text"`
	Penalty int       `json:"penalty"`
}

// DragItem is a draggable token of a drag_drop question.
type DragItem struct {
	ID   string `json:"id"`
	Text string `json:"text,omitempty"`
}

// DropZone accepts one placed item; CorrectItemIDs empty means any item is accepted.
type DropZone struct {
	ID             string   `json:"id"`
	Label          string   `json:"label,omitempty"`
	CorrectItemIDs []string `json:"correct_item_ids,omitempty"`
}

// CrosswordGrid holds the solution grid of a word_cross question.
type CrosswordGrid struct {
	Rows  int    `json:"rows,omitempty"`
	Cols  int    `json:"cols,omitempty"`
	Cells []Cell `json:"cells"`
}

// Cell is a crossword square.
type Cell struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Letter  string `json:"letter,omitempty"`
	IsBlack bool   `json:"is_black"`
}

// Question returns the question with the given id.
func (g *Game) Question(id uuid.UUID) (Question, int, bool) {
	for i, q := range g.Questions {
		if q.ID == id {
			return q, i, true
		}
	}
	return Question{}, -1, false
}

// PossiblePoints sums the base points of every question.
func (g *Game) PossiblePoints() int {
	total := 0
	for _, q := range g.Questions {
		total += q.Points
	}
	return total
}

// Hint returns the hint with the given id.
func (q Question) Hint(id uuid.UUID) (Hint, bool) {
	for _, h := range q.Hints {
		if h.ID == id {
			return h, true
		}
	}
	return Hint{}, false
}

// CorrectAnswerIDs lists the ids of answers flagged correct, in definition order.
func (q Question) CorrectAnswerIDs() []string {
	ids := make([]string, 0, len(q.Answers))
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
