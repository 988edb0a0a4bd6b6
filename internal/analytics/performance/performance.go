// Package performance groups trades into calendar buckets and derives
// equity, return-vs-target and win-rate series.
//
// Every bucket is keyed by the trade's entry date converted to the caller's
// location (time.Local when nil). Buckets exist only for observed trades.
package performance

import (
	"math"
	"sort"
	"time"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

const (
	// WeeksReturned is how many of the most recent weeks WeeklyPnL keeps.
	WeeksReturned = 12
	// DefaultMonthlyTarget applies to months without an explicit goal.
	DefaultMonthlyTarget = 1000.0

	weekKeyLayout  = "2006-01-02"
	monthKeyLayout = "2006-01"
)

// TargetProvider supplies per-month return goals keyed by YYYY-MM.
type TargetProvider interface {
	MonthlyTargets() map[string]float64
}

// PeriodPnL is the P&L total of a calendar period.
type PeriodPnL struct {
	Period     string  `json:"period"`
	PnL        float64 `json:"pnl"`
	TradeCount int     `json:"tradeCount"`
}

// HourPerformance holds the average P&L of trades entered in an hour.
type HourPerformance struct {
	Hour       int     `json:"hour"`
	AveragePnL float64 `json:"averagePnL"`
	TotalPnL   float64 `json:"totalPnL"`
	TradeCount int     `json:"tradeCount"`
}

// DayPerformance holds the total P&L of trades entered on a weekday.
type DayPerformance struct {
	Day        string  `json:"day"`
	TotalPnL   float64 `json:"totalPnL"`
	TradeCount int     `json:"tradeCount"`
}

// MonthlyTarget compares a month's P&L with its goal.
type MonthlyTarget struct {
	Month      string  `json:"month"`
	Actual     float64 `json:"actual"`
	Target     float64 `json:"target"`
	Percentage float64 `json:"percentage"`
}

// MonthlyRate is a per-month percentage or average.
type MonthlyRate struct {
	Month      string  `json:"month"`
	Value      float64 `json:"value"`
	TradeCount int     `json:"tradeCount"`
}

// PerformanceMetrics bundles every time-bucketed series.
type PerformanceMetrics struct {
	WeeklyPnL            []PeriodPnL           `json:"weeklyPnL"`
	MonthlyPnL           []PeriodPnL           `json:"monthlyPnL"`
	EquityCurve          []metrics.EquityPoint `json:"equityCurve"`
	MaxDrawdown          float64               `json:"maxDrawdown"`
	BestTradingHours     []HourPerformance     `json:"bestTradingHours"`
	BestTradingDays      []DayPerformance      `json:"bestTradingDays"`
	MonthlyReturnTargets []MonthlyTarget       `json:"monthlyReturnTargets"`
	MonthlyWinRate       []MonthlyRate         `json:"monthlyWinRate"`
	AverageTradeSize     []MonthlyRate         `json:"averageTradeSize"`
}

// GeneratePerformanceMetrics computes every series in one call. targets may
// be nil.
func GeneratePerformanceMetrics(trades []models.Trade, targets map[string]float64, loc *time.Location) PerformanceMetrics {
	curve := metrics.EquityCurve(trades)
	return PerformanceMetrics{
		WeeklyPnL:            WeeklyPnL(trades, loc),
		MonthlyPnL:           MonthlyPnL(trades, loc),
		EquityCurve:          curve,
		MaxDrawdown:          metrics.MaxDrawdown(curve),
		BestTradingHours:     BestTradingHours(trades, loc),
		BestTradingDays:      BestTradingDays(trades, loc),
		MonthlyReturnTargets: MonthlyReturnTargets(trades, targets, loc),
		MonthlyWinRate:       MonthlyWinRate(trades, loc),
		AverageTradeSize:     AverageTradeSize(trades, loc),
	}
}

// WeekStart returns midnight of the Monday starting t's ISO week.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// WeekKey returns the YYYY-MM-DD of t's week start.
func WeekKey(t time.Time) string {
	return WeekStart(t).Format(weekKeyLayout)
}

// MonthKey returns t formatted as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(monthKeyLayout)
}

// localTime returns t in loc, or in time.Local when loc is nil.
func localTime(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc)
}

// bucket accumulates trades under a string key.
type bucket struct {
	pnl    float64
	absPnL float64
	wins   int
	count  int
}

func groupBy(trades []models.Trade, loc *time.Location, key func(time.Time) string) map[string]*bucket {
	groups := make(map[string]*bucket)
	for _, t := range trades {
		k := key(localTime(t.EntryDate, loc))
		b, ok := groups[k]
		if !ok {
			b = &bucket{}
			groups[k] = b
		}
		pnl := metrics.CalculatePnL(t)
		b.pnl += pnl
		b.absPnL += math.Abs(pnl)
		b.count++
		if pnl > 0 {
			b.wins++
		}
	}
	return groups
}

// sortedKeys works for YYYY-MM and YYYY-MM-DD keys, which sort
// lexicographically in calendar order.
func sortedKeys(groups map[string]*bucket) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func periodSeries(groups map[string]*bucket) []PeriodPnL {
	keys := sortedKeys(groups)
	out := make([]PeriodPnL, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeriodPnL{Period: k, PnL: groups[k].pnl, TradeCount: groups[k].count})
	}
	return out
}

// WeeklyPnL returns P&L per ISO week, ascending, limited to the most recent
// WeeksReturned weeks.
func WeeklyPnL(trades []models.Trade, loc *time.Location) []PeriodPnL {
	series := periodSeries(groupBy(trades, loc, WeekKey))
	if len(series) > WeeksReturned {
		series = series[len(series)-WeeksReturned:]
	}
	return series
}

// MonthlyPnL returns P&L per month, ascending.
func MonthlyPnL(trades []models.Trade, loc *time.Location) []PeriodPnL {
	return periodSeries(groupBy(trades, loc, MonthKey))
}

// BestTradingHours returns the average P&L per trade for each local hour of
// day with trades, in hour order.
func BestTradingHours(trades []models.Trade, loc *time.Location) []HourPerformance {
	var sums [24]float64
	var counts [24]int
	for _, t := range trades {
		h := localTime(t.EntryDate, loc).Hour()
		sums[h] += metrics.CalculatePnL(t)
		counts[h]++
	}

	out := make([]HourPerformance, 0, 24)
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		out = append(out, HourPerformance{
			Hour:       h,
			AveragePnL: sums[h] / float64(counts[h]),
			TotalPnL:   sums[h],
			TradeCount: counts[h],
		})
	}
	return out
}

// BestTradingDays returns the total P&L for each local weekday with trades,
// Sunday first.
func BestTradingDays(trades []models.Trade, loc *time.Location) []DayPerformance {
	var sums [7]float64
	var counts [7]int
	for _, t := range trades {
		d := localTime(t.EntryDate, loc).Weekday()
		sums[d] += metrics.CalculatePnL(t)
		counts[d]++
	}

	out := make([]DayPerformance, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if counts[d] == 0 {
			continue
		}
		out = append(out, DayPerformance{Day: d.String(), TotalPnL: sums[d], TradeCount: counts[d]})
	}
	return out
}

// MonthlyReturnTargets compares each month's P&L with its target. Months
// missing from targets use DefaultMonthlyTarget; a non-positive target
// yields a percentage of 0.
func MonthlyReturnTargets(trades []models.Trade, targets map[string]float64, loc *time.Location) []MonthlyTarget {
	groups := groupBy(trades, loc, MonthKey)
	keys := sortedKeys(groups)
	out := make([]MonthlyTarget, 0, len(keys))
	for _, k := range keys {
		target := DefaultMonthlyTarget
		if v, ok := targets[k]; ok {
			target = v
		}
		actual := groups[k].pnl
		pct := 0.0
		if target > 0 {
			pct = actual / target * 100
		}
		out = append(out, MonthlyTarget{Month: k, Actual: actual, Target: target, Percentage: pct})
	}
	return out
}

// MonthlyWinRate returns the percentage of winning trades per month.
func MonthlyWinRate(trades []models.Trade, loc *time.Location) []MonthlyRate {
	groups := groupBy(trades, loc, MonthKey)
	keys := sortedKeys(groups)
	out := make([]MonthlyRate, 0, len(keys))
	for _, k := range keys {
		b := groups[k]
		out = append(out, MonthlyRate{Month: k, Value: metrics.WinRate(b.wins, b.count), TradeCount: b.count})
	}
	return out
}

// AverageTradeSize returns the mean absolute P&L per month.
func AverageTradeSize(trades []models.Trade, loc *time.Location) []MonthlyRate {
	groups := groupBy(trades, loc, MonthKey)
	keys := sortedKeys(groups)
	out := make([]MonthlyRate, 0, len(keys))
	for _, k := range keys {
		b := groups[k]
		out = append(out, MonthlyRate{Month: k, Value: b.absPnL / float64(b.count), TradeCount: b.count})
	}
	return out
}
