package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRatio(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCorrect int
		wantTotal   int
		wantOK      bool
	}{
		{name: "plain ratio", raw: "3/5", wantCorrect: 3, wantTotal: 5, wantOK: true},
		{name: "spaced ratio", raw: "3 / 5", wantCorrect: 3, wantTotal: 5, wantOK: true},
		{name: "zero correct", raw: "0/10", wantCorrect: 0, wantTotal: 10, wantOK: true},
		{name: "empty string", raw: "", wantOK: false},
		{name: "prose", raw: "you got 3 of 5", wantOK: false},
		{name: "trailing garbage", raw: "3/5!", wantOK: false},
		{name: "missing numerator", raw: "/5", wantOK: false},
		{name: "negative", raw: "-1/5", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, total, ok := ParseRatio(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCorrect, correct)
				assert.Equal(t, tt.wantTotal, total)
			}
		})
	}
}

func TestComputeScore(t *testing.T) {
	limit := 20 * time.Minute

	tests := []struct {
		name           string
		correct        int
		total          int
		elapsed        time.Duration
		wantRaw        int
		wantEfficiency int
		wantBonus      int
		wantFinal      int
	}{
		{
			name: "instant finish doubles the raw points",
			correct: 3, total: 5, elapsed: 0,
			wantRaw: 15, wantEfficiency: 100, wantBonus: 15, wantFinal: 30,
		},
		{
			name: "full time leaves no bonus",
			correct: 3, total: 5, elapsed: limit,
			wantRaw: 15, wantEfficiency: 0, wantBonus: 0, wantFinal: 15,
		},
		{
			name: "half time rounds the bonus up",
			correct: 3, total: 5, elapsed: limit / 2,
			wantRaw: 15, wantEfficiency: 50, wantBonus: 8, wantFinal: 23,
		},
		{
			name: "overtime is floored at zero efficiency",
			correct: 5, total: 5, elapsed: limit + time.Minute,
			wantRaw: 25, wantEfficiency: 0, wantBonus: 0, wantFinal: 25,
		},
		{
			name: "nothing correct scores nothing",
			correct: 0, total: 5, elapsed: 0,
			wantRaw: 0, wantEfficiency: 100, wantBonus: 0, wantFinal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScore(tt.correct, tt.total, tt.elapsed, limit)
			assert.Equal(t, tt.wantRaw, got.RawPoints)
			assert.Equal(t, tt.wantEfficiency, got.TimeEfficiency)
			assert.Equal(t, tt.wantBonus, got.BonusPoints)
			assert.Equal(t, tt.wantFinal, got.FinalScore)
			assert.Equal(t, tt.correct, got.Correct)
			assert.Equal(t, tt.total, got.Total)
		})
	}
}

func TestComputeScore_Deterministic(t *testing.T) {
	first := ComputeScore(4, 7, 13*time.Minute, 20*time.Minute)
	second := ComputeScore(4, 7, 13*time.Minute, 20*time.Minute)
	assert.Equal(t, first, second)
}
