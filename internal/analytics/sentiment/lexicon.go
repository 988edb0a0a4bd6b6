package sentiment

// PositiveWords raise a note's sentiment score by one each when contained.
var PositiveWords = []string{
	"good",
	"great",
	"excellent",
	"profit",
	"win",
	"confident",
	"calm",
	"disciplined",
	"patient",
	"focused",
	"successful",
	"perfect",
}

// NegativeWords lower a note's sentiment score by one each when contained.
var NegativeWords = []string{
	"bad",
	"terrible",
	"loss",
	"lose",
	"mistake",
	"fear",
	"greedy",
	"anxious",
	"frustrated",
	"impulsive",
	"revenge",
	"fomo",
}

// ControlWords mark an emotion label as a controlled state of mind.
var ControlWords = []string{
	"confident",
	"calm",
	"disciplined",
	"focused",
	"patient",
}

const (
	neutralScore = 3
	minScore     = 1
	maxScore     = 5

	// NeutralEmotion labels trades without an emotion.
	NeutralEmotion = "neutral"

	// TrendDays is how many of the most recent days CalculateSentimentTrends keeps.
	TrendDays = 30
	// ControlThreshold is the share of trades that must carry a control
	// emotion before the emotional-control insight is reported.
	ControlThreshold = 0.7

	maxNoteTokens    = 10
	minKeywordLength = 4
	minOccurrences   = 3
	maxKeywords      = 10
)
