package quiz

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

// PointsPerCorrect is the raw value of one correct answer.
const PointsPerCorrect = 5

var ratioPattern = regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`)

// ParseRatio extracts "correct / total" from the checker's results string.
// Anything that does not match the whole string fails the parse.
func ParseRatio(raw string) (correct, total int, ok bool) {
	m := ratioPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	correct, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return correct, total, true
}

// Score is the client-side estimate of an attempt's value. The server keeps
// the authoritative balance; this breakdown only sizes the reward claim and
// the result screen.
type Score struct {
	Correct        int
	Total          int
	RawPoints      int
	TimeEfficiency int // percent of the budget left unused, floored at 0
	BonusPoints    int
	FinalScore     int
}

// ComputeScore derives the point breakdown from the correctness ratio and
// the time spent. Pure and deterministic: the same inputs always produce
// the same breakdown.
func ComputeScore(correct, total int, elapsed, limit time.Duration) Score {
	raw := correct * PointsPerCorrect

	usedPercent := float64(elapsed) / float64(limit) * 100
	efficiency := 100 - usedPercent
	if efficiency < 0 {
		efficiency = 0
	}

	bonus := int(math.Round(float64(raw) * efficiency / 100))

	return Score{
		Correct:        correct,
		Total:          total,
		RawPoints:      raw,
		TimeEfficiency: int(math.Round(efficiency)),
		BonusPoints:    bonus,
		FinalScore:     raw + bonus,
	}
}
