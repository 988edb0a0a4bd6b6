package setups

import (
	"fmt"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// Recommendation thresholds.
const (
	LowWinRate  = 45.0
	LowAverageR = 1.5
)

// GetTradeInsights returns advisory strings derived from setup statistics:
// the best setup first, then per-setup flags in ranked order.
func GetTradeInsights(trades []models.Trade) []string {
	patterns := AnalyzeBySetup(trades)
	insights := []string{}
	if len(patterns) == 0 {
		return insights
	}

	best := patterns[0]
	insights = append(insights, fmt.Sprintf(
		"Best setup: %s with %.2f total P&L over %d trades (%.1f%% win rate)",
		best.SetupName, best.TotalPnL, best.TradeCount, best.WinRate))

	for _, p := range patterns {
		if p.WinRate < LowWinRate {
			insights = append(insights, fmt.Sprintf(
				"%s has a %.1f%% win rate across %d trades; review entry quality",
				p.SetupName, p.WinRate, p.TradeCount))
		}
		if p.AverageRFactor.IsDefined() && p.AverageRFactor.Float64() < LowAverageR {
			insights = append(insights, fmt.Sprintf(
				"%s averages %.2fR; plan targets further from the stop",
				p.SetupName, p.AverageRFactor.Float64()))
		}
		if p.MaxDrawdown > 0 && p.MaxDrawdown > p.TotalPnL {
			insights = append(insights, fmt.Sprintf(
				"%s drawdown of %.2f exceeds its total P&L of %.2f; reduce position size",
				p.SetupName, p.MaxDrawdown, p.TotalPnL))
		}
	}
	return insights
}
