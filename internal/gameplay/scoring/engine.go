package scoring

import (
	"github.com/shopspring/decimal"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

var hundred = decimal.NewFromInt(100)

// Config holds scoring constants (defaults match the grading policy).
type Config struct {
	PassThreshold decimal.Decimal // default: 70 (percent)
	PercentPlaces int32           // default: 2
	MinimumPoints decimal.Decimal // default: 0, floor for a correct answer
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		PassThreshold: decimal.NewFromInt(70),
		PercentPlaces: 2,
		MinimumPoints: decimal.Zero,
	}
}

// Engine computes per-question points and the session percentage.
type Engine struct {
	config Config
}

// NewEngine creates a scoring engine with the provided config.
func NewEngine(config Config) *Engine {
	if config.PercentPlaces <= 0 {
		config.PercentPlaces = 2
	}
	return &Engine{config: config}
}

// PointsEarned computes points for a single graded answer.
// Formula: max(0, points - totalPenalty/max(hintsUsed, 1))
// The average penalty per hint is subtracted, not the sum; a hint-free
// correct answer earns full credit.
func (e *Engine) PointsEarned(points int, isCorrect bool, hintsUsed int, totalPenalty decimal.Decimal) decimal.Decimal {
	if !isCorrect {
		return decimal.Zero
	}

	divisor := hintsUsed
	if divisor < 1 {
		divisor = 1
	}
	average := totalPenalty.Div(decimal.NewFromInt(int64(divisor)))

	earned := decimal.NewFromInt(int64(points)).Sub(average)
	if earned.LessThan(e.config.MinimumPoints) {
		return e.config.MinimumPoints
	}
	return earned
}

// Percentage converts a session total into a 0-100 score rounded to two places.
// Flashcards always finish at 100; a game worth zero points also yields 100.
func (e *Engine) Percentage(variant game.Variant, totalScore decimal.Decimal, possiblePoints int) decimal.Decimal {
	if variant == game.VariantFlashcards || possiblePoints <= 0 {
		return hundred
	}
	pct := totalScore.Div(decimal.NewFromInt(int64(possiblePoints))).Mul(hundred)
	return pct.Round(e.config.PercentPlaces)
}

// Passed reports whether a finished percentage clears the pass threshold.
func (e *Engine) Passed(percentage decimal.Decimal) bool {
	return percentage.GreaterThanOrEqual(e.config.PassThreshold)
}
