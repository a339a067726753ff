package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

// ErrInvalidPayload is returned when a submitted payload does not match the
// shape the question's variant expects.
var ErrInvalidPayload = errors.New("invalid answer payload")

// Submission is the decoded answer of a student. Exactly one field is used,
// selected by Variant.
type Submission struct {
	Variant    game.Variant
	AnswerIDs  []string          // mcq, hint_discovery, timed_quiz
	Placements map[string]string // drag_drop: drop zone id -> placed item id
	Letters    map[string]string // word_cross: "row-col" -> letter
}

// Result is the outcome of grading one submission.
type Result struct {
	IsCorrect        bool     `json:"is_correct"`
	CorrectAnswerIDs []string `json:"correct_answer_ids"`
}

// DecodeSubmission parses the raw wire payload for the given variant.
// Flashcards take no payload; anything sent is ignored.
func DecodeSubmission(variant game.Variant, raw json.RawMessage) (Submission, error) {
	sub := Submission{Variant: variant}
	empty := len(raw) == 0 || string(raw) == "null"

	switch variant {
	case game.VariantMCQ, game.VariantHintDiscovery, game.VariantTimedQuiz:
		if empty {
			return sub, nil
		}
		if err := json.Unmarshal(raw, &sub.AnswerIDs); err != nil {
			return sub, fmt.Errorf("%w: expected list of answer ids", ErrInvalidPayload)
		}
	case game.VariantDragDrop:
		if empty {
			return sub, nil
		}
		if err := json.Unmarshal(raw, &sub.Placements); err != nil {
			return sub, fmt.Errorf("%w: expected drop zone to item mapping", ErrInvalidPayload)
		}
	case game.VariantWordCross:
		if empty {
			return sub, nil
		}
		if err := json.Unmarshal(raw, &sub.Letters); err != nil {
			return sub, fmt.Errorf("%w: expected cell to letter mapping", ErrInvalidPayload)
		}
	case game.VariantFlashcards:
	default:
		return sub, fmt.Errorf("%w: unknown variant %q", ErrInvalidPayload, variant)
	}
	return sub, nil
}

// Grade applies the single correctness rule of the question's variant.
func Grade(q game.Question, sub Submission) Result {
	switch q.Variant {
	case game.VariantMCQ, game.VariantHintDiscovery, game.VariantTimedQuiz:
		return gradeSelection(q, sub.AnswerIDs)
	case game.VariantDragDrop:
		return Result{IsCorrect: gradePlacements(q.DropZones, sub.Placements), CorrectAnswerIDs: []string{}}
	case game.VariantWordCross:
		return Result{IsCorrect: gradeGrid(q.Grid, sub.Letters), CorrectAnswerIDs: []string{}}
	case game.VariantFlashcards:
		return Result{IsCorrect: true, CorrectAnswerIDs: []string{}}
	default:
		return Result{CorrectAnswerIDs: []string{}}
	}
}

func gradeSelection(q game.Question, selected []string) Result {
	correct := q.CorrectAnswerIDs()
	res := Result{CorrectAnswerIDs: correct}
	if len(selected) == 0 {
		return res
	}

	if !q.AllowMultiple {
		res.IsCorrect = len(selected) == 1 && contains(correct, selected[0])
		return res
	}

	want := toSet(correct)
	got := toSet(selected)
	res.IsCorrect = len(got) == len(selected) && setEqual(want, got)
	return res
}

func gradePlacements(zones []game.DropZone, placements map[string]string) bool {
	for _, zone := range zones {
		if len(zone.CorrectItemIDs) == 0 {
			continue
		}
		placed, ok := placements[zone.ID]
		if !ok || placed == "" {
			return false
		}
		if !contains(zone.CorrectItemIDs, placed) {
			return false
		}
	}
	return true
}

func gradeGrid(grid *game.CrosswordGrid, letters map[string]string) bool {
	if grid == nil {
		return true
	}
	for _, cell := range grid.Cells {
		if cell.IsBlack {
			continue
		}
		got := strings.ToUpper(strings.TrimSpace(letters[CellKey(cell.Row, cell.Col)]))
		if got != strings.ToUpper(cell.Letter) {
			return false
		}
	}
	return true
}

// CellKey formats the "row-col" key used by word_cross payloads.
func CellKey(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
