package metrics

import (
	"sort"
	"time"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// EquityPoint is one trade's position on the equity curve.
type EquityPoint struct {
	Date     time.Time `json:"date"`
	TradeID  string    `json:"tradeId"`
	PnL      float64   `json:"pnl"`
	Equity   float64   `json:"equity"`
	Drawdown float64   `json:"drawdown"` // equity minus running peak, <= 0
}

// SortByEntryDate returns a copy of trades ordered by entry date. Trades
// with equal entry dates keep their input order.
func SortByEntryDate(trades []models.Trade) []models.Trade {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})
	return sorted
}

// EquityCurve returns the running cumulative P&L, one point per trade in
// entry date order.
func EquityCurve(trades []models.Trade) []EquityPoint {
	sorted := SortByEntryDate(trades)
	curve := make([]EquityPoint, 0, len(sorted))

	var equity, peak float64
	for i, t := range sorted {
		pnl := CalculatePnL(t)
		equity += pnl
		if i == 0 || equity > peak {
			peak = equity
		}
		curve = append(curve, EquityPoint{
			Date:     t.EntryDate,
			TradeID:  t.ID,
			PnL:      pnl,
			Equity:   equity,
			Drawdown: equity - peak,
		})
	}
	return curve
}

// MaxDrawdown returns the largest peak-to-trough decline as a non-negative
// magnitude.
func MaxDrawdown(curve []EquityPoint) float64 {
	var lowest float64
	for _, p := range curve {
		if p.Drawdown < lowest {
			lowest = p.Drawdown
		}
	}
	if lowest == 0 {
		return 0
	}
	return -lowest
}
