// Package metrics provides per-trade arithmetic and account-level aggregates.
//
// Undefined ratios resolve to sentinels instead of errors: NaN for an
// R-factor with zero risk, +Inf for a ratio with a positive numerator and a
// zero denominator.
package metrics

import (
	"fmt"
	"math"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// TradeMetrics holds the derived values of a single trade.
type TradeMetrics struct {
	TradeID string  `json:"tradeId"`
	PnL     float64 `json:"pnl"`
	RFactor Ratio   `json:"rFactor"`
}

// CalculatePnL returns the signed profit or loss of a trade.
// It panics on a direction other than buy or sell; callers validate trades
// at the ingestion boundary.
func CalculatePnL(t models.Trade) float64 {
	switch t.Direction {
	case models.DirectionBuy:
		return (t.ExitPrice - t.EntryPrice) * t.Quantity
	case models.DirectionSell:
		return (t.EntryPrice - t.ExitPrice) * t.Quantity
	default:
		panic(fmt.Sprintf("metrics: unknown direction %q on trade %s", t.Direction, t.ID))
	}
}

// CalculateRFactor returns the realized reward in multiples of initial risk.
// Returns NaN when the stop equals the entry.
func CalculateRFactor(t models.Trade) float64 {
	risk := math.Abs(t.EntryPrice - t.StopLossPrice)
	if risk == 0 {
		return math.NaN()
	}
	return directionalDelta(t) / risk
}

// IsUndefined reports whether a ratio is the NaN sentinel.
func IsUndefined(x float64) bool {
	return math.IsNaN(x)
}

func directionalDelta(t models.Trade) float64 {
	if t.Direction == models.DirectionSell {
		return t.EntryPrice - t.ExitPrice
	}
	return t.ExitPrice - t.EntryPrice
}

// ComputeTradeMetrics returns P&L and R-factor for one trade.
func ComputeTradeMetrics(t models.Trade) TradeMetrics {
	return TradeMetrics{
		TradeID: t.ID,
		PnL:     CalculatePnL(t),
		RFactor: Ratio(CalculateRFactor(t)),
	}
}

// PnLs returns the P&L of every trade in input order.
func PnLs(trades []models.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = CalculatePnL(t)
	}
	return out
}

// ProfitFactor returns gross profit over gross loss magnitude.
func ProfitFactor(trades []models.Trade) float64 {
	var grossProfit, grossLoss float64
	for _, t := range trades {
		pnl := CalculatePnL(t)
		if pnl > 0 {
			grossProfit += pnl
		} else if pnl < 0 {
			grossLoss += pnl
		}
	}
	return safeRatio(grossProfit, math.Abs(grossLoss))
}

// RiskRewardRatio returns the average winner over the average loser magnitude.
func RiskRewardRatio(trades []models.Trade) float64 {
	var winSum, lossSum float64
	var wins, losses int
	for _, t := range trades {
		pnl := CalculatePnL(t)
		if pnl > 0 {
			winSum += pnl
			wins++
		} else if pnl < 0 {
			lossSum += math.Abs(pnl)
			losses++
		}
	}

	avgWin := 0.0
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	avgLoss := 0.0
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return safeRatio(avgWin, avgLoss)
}

// RecoveryFactor returns net P&L over the maximum drawdown magnitude of the
// equity curve.
func RecoveryFactor(trades []models.Trade) float64 {
	var net float64
	for _, t := range trades {
		net += CalculatePnL(t)
	}
	return safeRatio(net, MaxDrawdown(EquityCurve(trades)))
}

// safeRatio divides, mapping a zero denominator to +Inf for a positive
// numerator and 0 otherwise.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		if num > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return num / den
}

// TradeRef identifies a single trade by id and P&L.
type TradeRef struct {
	TradeID string  `json:"tradeId"`
	PnL     float64 `json:"pnl"`
}

// Stats holds account-level aggregates.
type Stats struct {
	TotalTrades     int      `json:"totalTrades"`
	Wins            int      `json:"wins"`
	Losses          int      `json:"losses"`
	WinRate         float64  `json:"winRate"`
	TotalPnL        float64  `json:"totalPnL"`
	AveragePnL      float64  `json:"averagePnL"`
	BestTrade       TradeRef `json:"bestTrade"`
	WorstTrade      TradeRef `json:"worstTrade"`
	ProfitFactor    Ratio    `json:"profitFactor"`
	RiskRewardRatio Ratio    `json:"riskRewardRatio"`
	RecoveryFactor  Ratio    `json:"recoveryFactor"`
	MaxDrawdown     float64  `json:"maxDrawdown"`
}

// AccountStats aggregates a trade collection. Empty input yields zero values.
func AccountStats(trades []models.Trade) Stats {
	stats := Stats{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	for i, t := range trades {
		pnl := CalculatePnL(t)
		stats.TotalPnL += pnl
		if pnl > 0 {
			stats.Wins++
		} else if pnl < 0 {
			stats.Losses++
		}
		if i == 0 || pnl > stats.BestTrade.PnL {
			stats.BestTrade = TradeRef{TradeID: t.ID, PnL: pnl}
		}
		if i == 0 || pnl < stats.WorstTrade.PnL {
			stats.WorstTrade = TradeRef{TradeID: t.ID, PnL: pnl}
		}
	}

	stats.WinRate = WinRate(stats.Wins, stats.TotalTrades)
	stats.AveragePnL = stats.TotalPnL / float64(stats.TotalTrades)
	stats.ProfitFactor = Ratio(ProfitFactor(trades))
	stats.RiskRewardRatio = Ratio(RiskRewardRatio(trades))
	stats.RecoveryFactor = Ratio(RecoveryFactor(trades))
	stats.MaxDrawdown = MaxDrawdown(EquityCurve(trades))
	return stats
}

// WinRate returns wins as a percentage of total, 0 when total is 0.
func WinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
