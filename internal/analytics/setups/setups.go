// Package setups analyzes trades grouped by strategy label and relates
// individual trades to one another.
package setups

import (
	"math"
	"sort"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// UnlabeledSetup groups trades with no setup name.
const UnlabeledSetup = "unlabeled"

// SetupPattern holds the statistics of one setup.
type SetupPattern struct {
	SetupName      string           `json:"setupName"`
	TradeCount     int              `json:"tradeCount"`
	TotalPnL       float64          `json:"totalPnL"`
	AveragePnL     float64          `json:"averagePnL"`
	WinRate        float64          `json:"winRate"`
	AverageRFactor metrics.Ratio    `json:"averageRFactor"` // undefined risks skipped
	Consistency    float64          `json:"consistency"`
	BestTrade      metrics.TradeRef `json:"bestTrade"`
	WorstTrade     metrics.TradeRef `json:"worstTrade"`
	MaxDrawdown    float64          `json:"maxDrawdown"`
}

func setupLabel(t models.Trade) string {
	if t.SetupName == "" {
		return UnlabeledSetup
	}
	return t.SetupName
}

// AnalyzeBySetup returns one pattern per setup, ranked by total P&L
// descending with ties broken by name.
func AnalyzeBySetup(trades []models.Trade) []SetupPattern {
	groups := make(map[string][]models.Trade)
	for _, t := range trades {
		label := setupLabel(t)
		groups[label] = append(groups[label], t)
	}

	out := make([]SetupPattern, 0, len(groups))
	for name, group := range groups {
		out = append(out, analyzeSetup(name, group))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPnL != out[j].TotalPnL {
			return out[i].TotalPnL > out[j].TotalPnL
		}
		return out[i].SetupName < out[j].SetupName
	})
	return out
}

func analyzeSetup(name string, group []models.Trade) SetupPattern {
	p := SetupPattern{SetupName: name, TradeCount: len(group)}
	pnls := make([]float64, len(group))

	wins := 0
	var rSum float64
	rCount := 0
	for i, t := range group {
		pnl := metrics.CalculatePnL(t)
		pnls[i] = pnl
		p.TotalPnL += pnl
		if pnl > 0 {
			wins++
		}
		if i == 0 || pnl > p.BestTrade.PnL {
			p.BestTrade = metrics.TradeRef{TradeID: t.ID, PnL: pnl}
		}
		if i == 0 || pnl < p.WorstTrade.PnL {
			p.WorstTrade = metrics.TradeRef{TradeID: t.ID, PnL: pnl}
		}
		if r := metrics.CalculateRFactor(t); !metrics.IsUndefined(r) {
			rSum += r
			rCount++
		}
	}

	p.AveragePnL = p.TotalPnL / float64(len(group))
	p.WinRate = metrics.WinRate(wins, len(group))
	p.AverageRFactor = metrics.Ratio(math.NaN())
	if rCount > 0 {
		p.AverageRFactor = metrics.Ratio(rSum / float64(rCount))
	}
	p.Consistency = metrics.PopulationStdDev(pnls)
	p.MaxDrawdown = metrics.MaxDrawdown(metrics.EquityCurve(group))
	return p
}

// TopSetups returns at most n leading patterns. n <= 0 returns all.
func TopSetups(patterns []SetupPattern, n int) []SetupPattern {
	if n <= 0 || n >= len(patterns) {
		return patterns
	}
	return patterns[:n]
}
