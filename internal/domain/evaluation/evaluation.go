// Package evaluation maps raw test results to qualitative levels, display
// percentiles, and human-readable feedback.
//
// Every test type is described by one registry entry holding its threshold
// table, ordering direction, and canned feedback strings. Adding a test type
// means adding one entry; nothing here switches on the type directly.
package evaluation

import (
	"fmt"
	"math"

	"github.com/okian/brainmark/internal/domain/types"
)

// Level is one of six ordered performance bands.
type Level string

// Levels from best to worst.
const (
	Expert       Level = "expert"
	Excellent    Level = "excellent"
	AboveAverage Level = "above_average"
	Average      Level = "average"
	BelowAverage Level = "below_average"
	Beginner     Level = "beginner"
)

// levels lists every level from best to worst. Threshold tables are indexed
// by position in this slice.
var levels = [levelCount]Level{
	Expert, Excellent, AboveAverage, Average, BelowAverage, Beginner,
}

const levelCount = 6

// Result is the evaluation of one attempt. It is derived, never persisted.
type Result struct {
	Level       Level   `json:"level"`
	Score       float64 `json:"score"`
	Percentile  int     `json:"percentile"` // 0-100 display heuristic
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Suggestion  string  `json:"suggestion"`
	Emoji       string  `json:"emoji"`
	Color       string  `json:"color"`
}

// levelInfo carries the static per-level display metadata.
type levelInfo struct {
	title string
	emoji string
	color string
}

var levelStyles = map[Level]levelInfo{
	Beginner:     {title: "Beginner", emoji: "🌱", color: "text-gray-600"},
	BelowAverage: {title: "Below Average", emoji: "📈", color: "text-orange-600"},
	Average:      {title: "Average", emoji: "👍", color: "text-blue-600"},
	AboveAverage: {title: "Above Average", emoji: "⭐", color: "text-green-600"},
	Excellent:    {title: "Excellent", emoji: "🏆", color: "text-purple-600"},
	Expert:       {title: "Expert", emoji: "🚀", color: "text-red-600"},
}

// Evaluate classifies score for the given test type. Unknown test types are
// rejected; the caller must not rely on any default table.
func Evaluate(testType types.TestType, score float64) (Result, error) {
	entry, ok := registry[testType]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTestType, testType)
	}

	idx := matchLevel(score, entry)
	level := levels[idx]
	style := levelStyles[level]

	return Result{
		Level:       level,
		Score:       score,
		Percentile:  percentile(score, idx, entry),
		Title:       style.title,
		Description: entry.description(level, score),
		Suggestion:  entry.suggestions[level],
		Emoji:       style.emoji,
		Color:       style.color,
	}, nil
}

func (e registryEntry) qualifies(score, threshold float64) bool {
	if e.lowerIsBetter {
		return score <= threshold
	}
	return score >= threshold
}

// matchLevel scans the threshold table from best to worst and returns the
// index of the first level the score qualifies for. The beginner threshold
// is an infinite sentinel, so the scan always terminates with a match.
func matchLevel(score float64, entry registryEntry) int {
	for i, threshold := range entry.thresholds {
		if entry.qualifies(score, threshold) {
			return i
		}
	}
	return levelCount - 1
}

// percentile combines the matched level's rank with linear progress inside
// its band into a 0-100 display number. Bands touching an infinite bound
// degrade to a fixed midpoint. This is a feedback heuristic, not a population
// percentile; the only guarantees are that a better level yields a higher
// value and that, within a band, a better raw score never yields a lower one.
func percentile(score float64, idx int, entry registryEntry) int {
	progress := bandProgress(score, idx, entry)
	rank := float64(levelCount - idx - 1)
	return int(math.Round((rank + progress) / levelCount * 100))
}

func bandProgress(score float64, idx int, entry registryEntry) float64 {
	current := entry.thresholds[idx]

	// Bound of the adjacent better band. The best band is open-ended.
	var better float64
	switch {
	case idx > 0:
		better = entry.thresholds[idx-1]
	case entry.lowerIsBetter:
		better = 0
	default:
		better = math.Inf(1)
	}

	if math.IsInf(current, 0) || math.IsInf(better, 0) || (entry.lowerIsBetter && better == 0) {
		return 0.5
	}

	var progress float64
	if entry.lowerIsBetter {
		progress = (current - score) / (current - better)
	} else {
		progress = (score - current) / (better - current)
	}
	return math.Max(0, math.Min(1, progress))
}
