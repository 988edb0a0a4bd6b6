package setups

import (
	"fmt"
	"math"
	"sort"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// DefaultSimilarLimit is used when FindSimilarTrades gets a limit <= 0.
const DefaultSimilarLimit = 5

// Similarity score weights, summing to 100.
const (
	weightSymbol    = 40.0
	weightSetup     = 30.0
	weightDirection = 10.0
	weightQuantity  = 10.0
	weightEntry     = 10.0

	// rFactorTolerance is the R-factor gap CompareTrades reports as a difference.
	rFactorTolerance = 0.5
)

// SimilarTrade is a trade ranked against a reference trade.
type SimilarTrade struct {
	Trade models.Trade `json:"trade"`
	Score float64      `json:"score"`
}

// TradeComparison describes how two trades relate.
type TradeComparison struct {
	Similarities []string `json:"similarities"`
	Differences  []string `json:"differences"`
	Outcome      string   `json:"outcome"`
}

// closeness is 1 for equal values, falling linearly to 0 as the gap reaches
// the larger of the two.
func closeness(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 1
	}
	return 1 - math.Abs(a-b)/m
}

// SimilarityScore rates candidate against ref on a 0-100 scale.
func SimilarityScore(ref, candidate models.Trade) float64 {
	var score float64
	if ref.Symbol == candidate.Symbol {
		score += weightSymbol
	}
	if ref.SetupName == candidate.SetupName {
		score += weightSetup
	}
	if ref.Direction == candidate.Direction {
		score += weightDirection
	}
	score += weightQuantity * closeness(ref.Quantity, candidate.Quantity)
	score += weightEntry * closeness(ref.EntryPrice, candidate.EntryPrice)
	return score
}

// FindSimilarTrades ranks every trade other than ref by SimilarityScore and
// returns the best limit matches. Equal scores keep input order.
func FindSimilarTrades(trades []models.Trade, ref models.Trade, limit int) []SimilarTrade {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	out := make([]SimilarTrade, 0, len(trades))
	for _, t := range trades {
		if t.ID == ref.ID {
			continue
		}
		out = append(out, SimilarTrade{Trade: t, Score: SimilarityScore(ref, t)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CompareTrades lists what a and b share, where they diverge, and how their
// results compare.
func CompareTrades(a, b models.Trade) TradeComparison {
	c := TradeComparison{Similarities: []string{}, Differences: []string{}}

	if a.SetupName == b.SetupName && a.SetupName != "" {
		c.Similarities = append(c.Similarities, fmt.Sprintf("Same setup: %s", a.SetupName))
	}
	if a.Symbol == b.Symbol {
		c.Similarities = append(c.Similarities, fmt.Sprintf("Same symbol: %s", a.Symbol))
	}
	if a.Direction == b.Direction {
		c.Similarities = append(c.Similarities, fmt.Sprintf("Same direction: %s", a.Direction))
	}

	if a.Quantity != b.Quantity {
		c.Differences = append(c.Differences, fmt.Sprintf("Quantity differs: %g vs %g", a.Quantity, b.Quantity))
	}
	ra, rb := metrics.CalculateRFactor(a), metrics.CalculateRFactor(b)
	switch {
	case metrics.IsUndefined(ra) != metrics.IsUndefined(rb):
		c.Differences = append(c.Differences, fmt.Sprintf("R-factor differs: %s vs %s",
			metrics.Ratio(ra), metrics.Ratio(rb)))
	case !metrics.IsUndefined(ra) && math.Abs(ra-rb) > rFactorTolerance:
		c.Differences = append(c.Differences, fmt.Sprintf("R-factor differs: %.2fR vs %.2fR", ra, rb))
	}
	if a.Emotion != b.Emotion {
		c.Differences = append(c.Differences, fmt.Sprintf("Emotion differs: %s vs %s",
			emotionOrNone(a.Emotion), emotionOrNone(b.Emotion)))
	}

	pa, pb := metrics.CalculatePnL(a), metrics.CalculatePnL(b)
	switch {
	case pa > pb:
		c.Outcome = fmt.Sprintf("Trade %s outperformed trade %s by %.2f (%.2f vs %.2f)", a.ID, b.ID, pa-pb, pa, pb)
	case pb > pa:
		c.Outcome = fmt.Sprintf("Trade %s outperformed trade %s by %.2f (%.2f vs %.2f)", b.ID, a.ID, pb-pa, pb, pa)
	default:
		c.Outcome = fmt.Sprintf("Trades %s and %s produced the same P&L (%.2f)", a.ID, b.ID, pa)
	}
	return c
}

func emotionOrNone(e string) string {
	if e == "" {
		return "none"
	}
	return e
}
