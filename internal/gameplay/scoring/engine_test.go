package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ehteshamawan1/quiz-app-sub000/internal/game"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPointsEarned(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	tests := []struct {
		name    string
		points  int
		correct bool
		hints   int
		penalty decimal.Decimal
		want    string
	}{
		{"incorrect earns nothing", 10, false, 0, decimal.Zero, "0"},
		{"incorrect with hints earns nothing", 10, false, 2, dec("6"), "0"},
		{"correct without hints earns full credit", 10, true, 0, decimal.Zero, "10"},
		{"average of two hints is subtracted", 10, true, 2, dec("6"), "7"},
		{"single hint subtracts its penalty", 10, true, 1, dec("3"), "7"},
		{"fractional average is kept", 10, true, 2, dec("5"), "7.5"},
		{"never negative", 2, true, 1, dec("5"), "0"},
		{"zero point question", 0, true, 0, decimal.Zero, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.PointsEarned(tt.points, tt.correct, tt.hints, tt.penalty)
			assert.True(t, dec(tt.want).Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestPercentage(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	assert.True(t, dec("70").Equal(engine.Percentage(game.VariantMCQ, dec("7"), 10)))
	assert.True(t, dec("33.33").Equal(engine.Percentage(game.VariantMCQ, dec("10"), 30)))
	assert.True(t, dec("66.67").Equal(engine.Percentage(game.VariantTimedQuiz, dec("20"), 30)))
	assert.True(t, dec("0").Equal(engine.Percentage(game.VariantDragDrop, decimal.Zero, 30)))
}

func TestPercentageFlashcardsAlwaysFull(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	assert.True(t, dec("100").Equal(engine.Percentage(game.VariantFlashcards, decimal.Zero, 50)))
}

func TestPercentageZeroPossiblePoints(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	assert.True(t, dec("100").Equal(engine.Percentage(game.VariantMCQ, decimal.Zero, 0)))
}

func TestPassed(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	assert.True(t, engine.Passed(dec("70")))
	assert.True(t, engine.Passed(dec("99.5")))
	assert.False(t, engine.Passed(dec("69.99")))

	strict := NewEngine(Config{PassThreshold: dec("90")})
	assert.False(t, strict.Passed(dec("89")))
}
