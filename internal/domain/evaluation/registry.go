package evaluation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/brainmark/internal/domain/types"
)

// registryEntry describes how one test type is evaluated: its threshold
// table (indexed best to worst, matching the levels slice), its ordering
// direction, how the raw score is rendered, and the per-level feedback.
type registryEntry struct {
	thresholds    [levelCount]float64
	lowerIsBetter bool
	formatScore   func(score float64) string
	descriptions  map[Level]string // templates; %s is the formatted score
	suggestions   map[Level]string
}

func (e registryEntry) description(level Level, score float64) string {
	return fmt.Sprintf(e.descriptions[level], e.formatScore(score))
}

func num(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// inf is the beginner sentinel: +Inf for lower-is-better tables, -Inf for
// higher-is-better ones, so the best-to-worst scan always matches.
var inf = math.Inf(1)

var registry = map[types.TestType]registryEntry{
	types.Reaction: {
		thresholds:    [levelCount]float64{180, 220, 280, 350, 450, inf},
		lowerIsBetter: true,
		formatScore:   func(s float64) string { return num(s) + "ms" },
		descriptions: map[Level]string{
			Expert:       "A reaction time of %s is expert territory. Your reflexes are razor sharp.",
			Excellent:    "%s is an excellent reaction time, faster than most people.",
			AboveAverage: "A reaction time of %s is above average. Nicely done.",
			Average:      "%s is a normal reaction time, right around the average.",
			BelowAverage: "A reaction time of %s is slightly below average.",
			Beginner:     "A reaction time of %s leaves plenty of room to improve.",
		},
		suggestions: map[Level]string{
			Expert:       "Keep those reflexes sharp. Try more demanding reaction drills.",
			Excellent:    "Keep it up. Games and sports help maintain reaction speed.",
			AboveAverage: "Good result. Regular practice can push it further.",
			Average:      "Reaction-training games can shave off milliseconds.",
			BelowAverage: "Practice regularly, cut back on caffeine, and get enough sleep.",
			Beginner:     "Practice often, rest well, and avoid testing while tired.",
		},
	},
	types.Memory: {
		thresholds:  [levelCount]float64{12, 9, 7, 5, 3, -inf},
		formatScore: func(s float64) string { return num(s) + " digits" },
		descriptions: map[Level]string{
			Expert:       "Recalling %s puts you at an exceptional level of memory.",
			Excellent:    "Recalling %s is an excellent result. Your memory is strong.",
			AboveAverage: "A span of %s is above the average.",
			Average:      "Recalling %s is a normal memory span.",
			BelowAverage: "A span of %s can still be improved.",
			Beginner:     "Recalling %s is a decent starting point.",
		},
		suggestions: map[Level]string{
			Expert:       "Astonishing recall. Take on harder memory challenges.",
			Excellent:    "Excellent memory. Keep training to hold this level.",
			AboveAverage: "Solid memory. Techniques like the memory palace can help.",
			Average:      "Chunking digits and repetition will stretch your span.",
			BelowAverage: "Try chunking and association techniques.",
			Beginner:     "Start with short numbers and grow the length step by step.",
		},
	},
	types.Visual: {
		thresholds:  [levelCount]float64{11, 8, 6, 4, 2, -inf},
		formatScore: func(s float64) string { return "level " + num(s) },
		descriptions: map[Level]string{
			Expert:       "Reaching %s shows outstanding spatial memory.",
			Excellent:    "%s is an excellent visual memory result.",
			AboveAverage: "Reaching %s puts your visual memory above average.",
			Average:      "%s is a normal visual memory result.",
			BelowAverage: "%s still leaves room to improve.",
			Beginner:     "%s is a good start.",
		},
		suggestions: map[Level]string{
			Expert:       "Remarkable spatial memory. Try more complex visual tasks.",
			Excellent:    "Very strong visual memory. Keep it up.",
			AboveAverage: "Good visual memory. Spatial puzzles can push it further.",
			Average:      "Observation drills and spatial games will help.",
			BelowAverage: "Practice visual attention exercises to sharpen observation.",
			Beginner:     "Start with simple patterns and build up the complexity.",
		},
	},
	types.Typing: {
		thresholds:  [levelCount]float64{90, 70, 50, 35, 20, -inf},
		formatScore: func(s float64) string { return num(s) + " WPM" },
		descriptions: map[Level]string{
			Expert:       "%s is an expert-level typing speed!",
			Excellent:    "%s is an excellent typing speed.",
			AboveAverage: "%s is faster than the average typist.",
			Average:      "%s is a normal typing speed.",
			BelowAverage: "%s has room to grow.",
			Beginner:     "%s is a decent starting point.",
		},
		suggestions: map[Level]string{
			Expert:       "Professional speed. Competitive typing could be for you.",
			Excellent:    "Excellent typing. Keep the streak going.",
			AboveAverage: "Good speed. Continued practice will make it faster.",
			Average:      "Typing trainers will improve both speed and accuracy.",
			BelowAverage: "Learn proper finger placement and practice daily.",
			Beginner:     "Master the home row first; accuracy before speed.",
		},
	},
	types.Sequence: {
		thresholds:  [levelCount]float64{13, 10, 7, 5, 3, -inf},
		formatScore: func(s float64) string { return "level " + num(s) },
		descriptions: map[Level]string{
			Expert:       "Reaching %s shows a formidable working memory.",
			Excellent:    "%s is an excellent sequence memory result.",
			AboveAverage: "Reaching %s is a good sequence memory showing.",
			Average:      "%s is a normal sequence memory result.",
			BelowAverage: "%s can still be improved.",
			Beginner:     "%s is a good beginning.",
		},
		suggestions: map[Level]string{
			Expert:       "Superb working memory. Try longer, more complex sequences.",
			Excellent:    "Excellent sequence memory. Keep training.",
			AboveAverage: "Good working memory. N-back training can push it further.",
			Average:      "Sequence games are a fun way to train working memory.",
			BelowAverage: "Working-memory drills and focused attention will help.",
			Beginner:     "Start with short sequences and build up gradually.",
		},
	},
	types.Chimp: {
		thresholds:  [levelCount]float64{13, 10, 8, 6, 4, -inf},
		formatScore: func(s float64) string { return num(s) + " numbers" },
		descriptions: map[Level]string{
			Expert:       "Tracking %s at a glance rivals the chimps themselves.",
			Excellent:    "Tracking %s is an excellent result.",
			AboveAverage: "Tracking %s is above the human average.",
			Average:      "Tracking %s is a typical result for this test.",
			BelowAverage: "Tracking %s can be improved with practice.",
			Beginner:     "Tracking %s is a fine place to start.",
		},
		suggestions: map[Level]string{
			Expert:       "Exceptional photographic recall. Few humans score higher.",
			Excellent:    "Excellent result. Keep challenging your instant recall.",
			AboveAverage: "Good showing. Glance-and-recall drills will help.",
			Average:      "Practice taking in the whole grid before the numbers hide.",
			BelowAverage: "Slow down on the first glance; capture positions as a shape.",
			Beginner:     "Start with fewer numbers and add more as you improve.",
		},
	},
	types.Aim: {
		thresholds:  [levelCount]float64{140, 100, 80, 60, 40, -inf},
		formatScore: func(s float64) string { return num(s) + " points" },
		descriptions: map[Level]string{
			Expert:       "%s is expert-level precision.",
			Excellent:    "%s shows excellent hand-eye coordination.",
			AboveAverage: "%s is better than the average aim.",
			Average:      "%s is a typical aim score.",
			BelowAverage: "%s leaves room for steadier aim.",
			Beginner:     "%s is a reasonable first showing.",
		},
		suggestions: map[Level]string{
			Expert:       "Surgical precision. Competitive FPS aim trainers await.",
			Excellent:    "Excellent coordination. Keep your mouse setup consistent.",
			AboveAverage: "Good aim. Lower sensitivity may improve precision.",
			Average:      "Regular target practice builds speed and accuracy together.",
			BelowAverage: "Focus on accuracy first; speed follows.",
			Beginner:     "Slow, deliberate target practice beats fast guessing.",
		},
	},
	types.Stroop: {
		thresholds:  [levelCount]float64{140, 100, 80, 60, 40, -inf},
		formatScore: func(s float64) string { return num(s) + " points" },
		descriptions: map[Level]string{
			Expert:       "%s shows expert-level cognitive control.",
			Excellent:    "%s is an excellent result against interference.",
			AboveAverage: "%s is above-average attentional control.",
			Average:      "%s is a typical Stroop result.",
			BelowAverage: "%s suggests the color-word conflict slows you down.",
			Beginner:     "%s is a fair first attempt at a genuinely hard task.",
		},
		suggestions: map[Level]string{
			Expert:       "Remarkable inhibitory control. Try speeding up further.",
			Excellent:    "Excellent focus. Keep practicing under time pressure.",
			AboveAverage: "Good control. Naming the ink color aloud can help.",
			Average:      "Practice deliberately ignoring the word, not the color.",
			BelowAverage: "Slow down slightly; accuracy builds the reflex.",
			Beginner:     "The conflict fades with practice. Keep at it.",
		},
	},
	types.Schulte: {
		thresholds:  [levelCount]float64{140, 100, 80, 60, 40, -inf},
		formatScore: func(s float64) string { return num(s) + " points" },
		descriptions: map[Level]string{
			Expert:       "%s shows an expert-level field of view.",
			Excellent:    "%s is an excellent Schulte grid result.",
			AboveAverage: "%s is an above-average scan speed.",
			Average:      "%s is a typical grid result.",
			BelowAverage: "%s can improve with wider peripheral focus.",
			Beginner:     "%s is a solid first grid.",
		},
		suggestions: map[Level]string{
			Expert:       "Outstanding peripheral vision. Try larger grids.",
			Excellent:    "Excellent scanning. Keep your gaze centered.",
			AboveAverage: "Good speed. Fix your eyes on the center and widen focus.",
			Average:      "Resist scanning row by row; use your peripheral vision.",
			BelowAverage: "Practice holding a central gaze while locating numbers.",
			Beginner:     "Start with small grids and keep your eyes on the center.",
		},
	},
}
