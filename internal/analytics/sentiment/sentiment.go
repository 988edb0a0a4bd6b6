// Package sentiment scores trade notes against static lexicons and relates
// emotion labels and note keywords to P&L.
package sentiment

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// EmotionImpact is the performance of trades sharing an emotion label.
type EmotionImpact struct {
	Emotion     string  `json:"emotion"`
	TradeCount  int     `json:"tradeCount"`
	TotalPnL    float64 `json:"totalPnL"`
	AveragePnL  float64 `json:"averagePnL"`
	WinRate     float64 `json:"winRate"`
	Consistency float64 `json:"consistency"` // population stdev of P&L
}

// SentimentTrend is one calendar day of note sentiment and P&L.
type SentimentTrend struct {
	Date             string  `json:"date"`
	AverageSentiment float64 `json:"averageSentiment"`
	PnL              float64 `json:"pnl"`
	TradeCount       int     `json:"tradeCount"`
}

// KeywordImpact is the average P&L of trades whose notes use a keyword.
type KeywordImpact struct {
	Keyword     string  `json:"keyword"`
	Impact      float64 `json:"impact"`
	Occurrences int     `json:"occurrences"`
}

// CalculateSentimentScore scores text on a 1-5 scale. Every lexicon word
// contained in the lowercased text moves the neutral score by one.
func CalculateSentimentScore(text string) int {
	lower := strings.ToLower(text)
	score := neutralScore
	for _, w := range PositiveWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range NegativeWords {
		if strings.Contains(lower, w) {
			score--
		}
	}
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

func emotionLabel(t models.Trade) string {
	if !t.HasEmotion() {
		return NeutralEmotion
	}
	return t.Emotion
}

// AnalyzeEmotionImpact groups trades by emotion, ranked by total P&L
// descending with ties broken by emotion name.
func AnalyzeEmotionImpact(trades []models.Trade) []EmotionImpact {
	groups := make(map[string][]float64)
	for _, t := range trades {
		label := emotionLabel(t)
		groups[label] = append(groups[label], metrics.CalculatePnL(t))
	}

	out := make([]EmotionImpact, 0, len(groups))
	for label, pnls := range groups {
		var total float64
		wins := 0
		for _, p := range pnls {
			total += p
			if p > 0 {
				wins++
			}
		}
		out = append(out, EmotionImpact{
			Emotion:     label,
			TradeCount:  len(pnls),
			TotalPnL:    total,
			AveragePnL:  total / float64(len(pnls)),
			WinRate:     metrics.WinRate(wins, len(pnls)),
			Consistency: metrics.PopulationStdDev(pnls),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnL != out[j].TotalPnL {
			return out[i].TotalPnL > out[j].TotalPnL
		}
		return out[i].Emotion < out[j].Emotion
	})
	return out
}

// CalculateSentimentTrends returns per-day sentiment and P&L for the most
// recent TrendDays days with trades, oldest first. Days are calendar days in
// loc, or time.Local when loc is nil.
func CalculateSentimentTrends(trades []models.Trade, loc *time.Location) []SentimentTrend {
	if loc == nil {
		loc = time.Local
	}
	type day struct {
		scoreSum int
		pnl      float64
		count    int
	}
	days := make(map[string]*day)
	for _, t := range trades {
		key := t.EntryDate.In(loc).Format("2006-01-02")
		d, ok := days[key]
		if !ok {
			d = &day{}
			days[key] = d
		}
		d.scoreSum += CalculateSentimentScore(t.Notes)
		d.pnl += metrics.CalculatePnL(t)
		d.count++
	}

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > TrendDays {
		keys = keys[len(keys)-TrendDays:]
	}

	out := make([]SentimentTrend, 0, len(keys))
	for _, k := range keys {
		d := days[k]
		out = append(out, SentimentTrend{
			Date:             k,
			AverageSentiment: float64(d.scoreSum) / float64(d.count),
			PnL:              d.pnl,
			TradeCount:       d.count,
		})
	}
	return out
}

// IsControlEmotion reports whether an emotion label contains a ControlWords
// entry.
func IsControlEmotion(emotion string) bool {
	lower := strings.ToLower(emotion)
	for _, w := range ControlWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// GetEmotionalInsights produces readable observations in a fixed order:
// best emotion, worst emotion, most consistent emotion, emotional control.
func GetEmotionalInsights(trades []models.Trade) []string {
	impacts := AnalyzeEmotionImpact(trades)
	if len(impacts) == 0 {
		return []string{}
	}

	var insights []string
	best := impacts[0]
	insights = append(insights, fmt.Sprintf(
		"Best emotional state: %q with %.2f total P&L over %d trades (%.1f%% win rate)",
		best.Emotion, best.TotalPnL, best.TradeCount, best.WinRate))

	worst := impacts[len(impacts)-1]
	if len(impacts) > 1 && worst.TotalPnL < 0 {
		insights = append(insights, fmt.Sprintf(
			"Worst emotional state: %q with %.2f total P&L over %d trades (%.1f%% win rate)",
			worst.Emotion, worst.TotalPnL, worst.TradeCount, worst.WinRate))
	}

	steadiest := impacts[0]
	for _, imp := range impacts[1:] {
		if imp.Consistency < steadiest.Consistency {
			steadiest = imp
		}
	}
	insights = append(insights, fmt.Sprintf(
		"Most consistent results when %q (P&L standard deviation %.2f)",
		steadiest.Emotion, steadiest.Consistency))

	controlled := 0
	for _, t := range trades {
		if IsControlEmotion(t.Emotion) {
			controlled++
		}
	}
	ratio := float64(controlled) / float64(len(trades))
	if ratio >= ControlThreshold {
		insights = append(insights, fmt.Sprintf(
			"Good emotional control: %.0f%% of trades were taken in a controlled state",
			ratio*100))
	}
	return insights
}

// tokens returns the distinct keyword candidates of a note: the first
// maxNoteTokens whitespace-separated words, as written, at least
// minKeywordLength runes long.
func tokens(notes string) []string {
	fields := strings.Fields(notes)
	if len(fields) > maxNoteTokens {
		fields = fields[:maxNoteTokens]
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len([]rune(w)) < minKeywordLength {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// CorrelateNotesWithPerformance ranks note keywords used in at least three
// trades by the magnitude of their average P&L and returns the top ten.
func CorrelateNotesWithPerformance(trades []models.Trade) []KeywordImpact {
	type acc struct {
		pnl   float64
		count int
	}
	words := make(map[string]*acc)
	for _, t := range trades {
		pnl := metrics.CalculatePnL(t)
		for _, w := range tokens(t.Notes) {
			a, ok := words[w]
			if !ok {
				a = &acc{}
				words[w] = a
			}
			a.pnl += pnl
			a.count++
		}
	}

	out := make([]KeywordImpact, 0)
	for w, a := range words {
		if a.count < minOccurrences {
			continue
		}
		out = append(out, KeywordImpact{Keyword: w, Impact: a.pnl / float64(a.count), Occurrences: a.count})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].Impact), math.Abs(out[j].Impact)
		if ai != aj {
			return ai > aj
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}
	return out
}
