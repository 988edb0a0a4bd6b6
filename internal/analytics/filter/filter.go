// Package filter evaluates TradeFilters against a trade collection and
// manages named filter presets.
package filter

import (
	"math"
	"strings"
	"time"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// Matcher is the compiled form of a TradeFilters value. Date bounds are
// parsed once and string sets are turned into lookups.
type Matcher struct {
	hasStart bool
	start    time.Time
	hasEnd   bool
	end      time.Time

	symbols  map[string]struct{}
	setups   map[string]struct{}
	emotions map[string]struct{}

	minPnL   *float64
	maxPnL   *float64
	winOnly  bool
	lossOnly bool
	minRR    *float64
	search   string
}

// Compile validates f and prepares it for repeated matching. Date bounds
// without a zone offset are read in loc (time.Local when nil). The only
// failure is an unparsable date bound, reported as ErrInvalidTimestamp.
func Compile(f models.TradeFilters, loc *time.Location) (*Matcher, error) {
	m := &Matcher{
		symbols:  toSet(f.Symbols),
		setups:   toSet(f.Setups),
		emotions: toSet(f.Emotions),
		minPnL:   f.MinPnL,
		maxPnL:   f.MaxPnL,
		winOnly:  f.WinOnly,
		lossOnly: f.LossOnly,
		minRR:    f.MinRiskReward,
		search:   strings.ToLower(f.SearchText),
	}

	if f.DateRange != nil {
		if strings.TrimSpace(f.DateRange.Start) != "" {
			ts, err := models.ParseTimestamp(f.DateRange.Start, loc)
			if err != nil {
				return nil, err
			}
			m.hasStart, m.start = true, ts
		}
		if strings.TrimSpace(f.DateRange.End) != "" {
			ts, err := models.ParseTimestamp(f.DateRange.End, loc)
			if err != nil {
				return nil, err
			}
			m.hasEnd, m.end = true, ts
		}
	}
	return m, nil
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

// Match reports whether t satisfies every active predicate.
func (m *Matcher) Match(t models.Trade) bool {
	if m.hasStart && t.EntryDate.Before(m.start) {
		return false
	}
	if m.hasEnd && t.EntryDate.After(m.end) {
		return false
	}
	if !inSet(m.symbols, t.Symbol) || !inSet(m.setups, t.SetupName) || !inSet(m.emotions, t.Emotion) {
		return false
	}

	if m.minPnL != nil || m.maxPnL != nil || m.winOnly || m.lossOnly {
		pnl := metrics.CalculatePnL(t)
		if m.minPnL != nil && pnl < *m.minPnL {
			return false
		}
		if m.maxPnL != nil && pnl > *m.maxPnL {
			return false
		}
		if m.winOnly && pnl <= 0 {
			return false
		}
		if m.lossOnly && pnl >= 0 {
			return false
		}
	}

	if m.minRR != nil && FilterRiskReward(t) < *m.minRR {
		return false
	}
	if m.search != "" && !matchesText(t, m.search) {
		return false
	}
	return true
}

func matchesText(t models.Trade, needle string) bool {
	for _, field := range []string{t.Symbol, t.SetupName, t.Notes, t.Emotion} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterRiskReward is the undirected reward-to-risk magnitude used by the
// minRiskReward filter: |(exit-entry)/(stop-entry)|, 0 when stop equals
// entry. It differs from metrics.CalculateRFactor, which is signed by
// direction and undefined at zero risk.
func FilterRiskReward(t models.Trade) float64 {
	den := t.StopLossPrice - t.EntryPrice
	if den == 0 {
		return 0
	}
	return math.Abs((t.ExitPrice - t.EntryPrice) / den)
}

// Apply returns the trades matching f in input order. The input slice is
// not modified. An empty filter returns a copy of every trade.
func Apply(trades []models.Trade, f models.TradeFilters, loc *time.Location) ([]models.Trade, error) {
	m, err := Compile(f, loc)
	if err != nil {
		return nil, err
	}
	return m.Filter(trades), nil
}

// Filter returns the matching subset of trades in input order.
func (m *Matcher) Filter(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if m.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
