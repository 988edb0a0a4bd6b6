package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/performance"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/setups"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/config"
	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/store"
	"github.com/codedbyabhishek/trading-diary-sub001/pkg/id"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Journal:   config.JournalConfig{DBPath: filepath.Join(dir, "journal.db")},
		Analytics: config.AnalyticsConfig{Timezone: "UTC", SimilarLimit: 5, TopSetups: 5, Workers: 2},
		Logging:   config.LoggingConfig{Level: "info"},
		Goals:     config.GoalsConfig{Path: filepath.Join(dir, "goals.yaml")},
		Dir:       dir,
	}
}

// seed writes three trades: two AAPL breakout wins and one GOOGL loss.
func seed(t *testing.T, cfg *config.Config) {
	t.Helper()
	s, err := store.NewSQLiteStore(cfg.Journal.DBPath, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	trades := []models.Trade{
		{
			ID: "T1", Symbol: "AAPL", Direction: models.DirectionBuy, SetupName: "breakout",
			EntryPrice: 100, ExitPrice: 110, StopLossPrice: 95, Quantity: 10,
			EntryDate: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
			ExitDate:  time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
			Emotion:   "calm", Notes: "patient entry, followed the plan",
		},
		{
			ID: "T2", Symbol: "GOOGL", Direction: models.DirectionSell, SetupName: "reversal",
			EntryPrice: 50, ExitPrice: 52, StopLossPrice: 53, Quantity: 10,
			EntryDate: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
			ExitDate:  time.Date(2024, 1, 16, 10, 45, 0, 0, time.UTC),
			Emotion:   "fomo", Notes: "chased the move, impulsive",
		},
		{
			ID: "T3", Symbol: "AAPL", Direction: models.DirectionBuy, SetupName: "breakout",
			EntryPrice: 100, ExitPrice: 105, StopLossPrice: 98, Quantity: 5,
			EntryDate: time.Date(2024, 2, 1, 14, 0, 0, 0, time.UTC),
			ExitDate:  time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC),
			Emotion:   "calm",
		},
	}
	for i := range trades {
		require.NoError(t, s.SaveTrade(context.Background(), &trades[i]))
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(cfg, zerolog.Nop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func runJSON(t *testing.T, cfg *config.Config, target interface{}, args ...string) {
	t.Helper()
	out, err := run(t, cfg, append(args, "--json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), target), out)
}

func TestTradeAdd(t *testing.T) {
	cfg := testConfig(t)

	var trade models.Trade
	runJSON(t, cfg, &trade, "trade", "add",
		"--symbol", "aapl", "--direction", "Buy",
		"--entry", "187.35", "--exit", "191.10", "--stop", "185.05", "--qty", "12.5",
		"--entry-date", "2024-03-01T09:45", "--exit-date", "2024-03-01T11:15",
		"--setup", "breakout", "--emotion", " Calm ", "--notes", "waited for the retest",
		"--image", "charts/aapl.png")

	assert.True(t, id.Valid(trade.ID), trade.ID)
	assert.Equal(t, "AAPL", trade.Symbol)
	assert.Equal(t, models.DirectionBuy, trade.Direction)
	assert.Equal(t, "calm", trade.Emotion)
	assert.Equal(t, 187.35, trade.EntryPrice)
	assert.Equal(t, 12.5, trade.Quantity)
	assert.True(t, trade.EntryDate.Equal(time.Date(2024, 3, 1, 9, 45, 0, 0, time.UTC)))
	assert.Equal(t, []string{"charts/aapl.png"}, trade.Images)
	assert.NotZero(t, trade.CreatedAt)

	var listed []models.Trade
	runJSON(t, cfg, &listed, "trade", "list")
	require.Len(t, listed, 1)
	assert.Equal(t, trade.ID, listed[0].ID)
}

func TestTradeAddRejectsInvalidInput(t *testing.T) {
	base := []string{"trade", "add", "--symbol", "AAPL", "--entry", "100", "--exit", "110",
		"--qty", "1", "--entry-date", "2024-01-15T09:30"}

	tests := []struct {
		name  string
		extra []string
		want  error
	}{
		{"unknown direction", []string{"--direction", "short", "--stop", "95"}, apperrors.ErrUnknownDirection},
		{"malformed price", []string{"--direction", "buy", "--stop", "abc"}, apperrors.ErrInputValidation},
		{"zero stop", []string{"--direction", "buy", "--stop", "0"}, apperrors.ErrInputValidation},
		{"bad exit date", []string{"--direction", "buy", "--stop", "95", "--exit-date", "tomorrow"}, apperrors.ErrInvalidTimestamp},
		{"exit before entry", []string{"--direction", "buy", "--stop", "95", "--exit-date", "2024-01-14"}, apperrors.ErrInputValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			_, err := run(t, cfg, append(append([]string{}, base...), tt.extra...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTradeListFilters(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	ids := func(args ...string) []string {
		var trades []models.Trade
		runJSON(t, cfg, &trades, append([]string{"trade", "list"}, args...)...)
		out := make([]string, 0, len(trades))
		for _, tr := range trades {
			out = append(out, tr.ID)
		}
		return out
	}

	assert.Equal(t, []string{"T1", "T2", "T3"}, ids())
	assert.Equal(t, []string{"T1", "T3"}, ids("--win-only"))
	assert.Equal(t, []string{"T2"}, ids("--loss-only"))
	assert.Equal(t, []string{"T2"}, ids("--symbol", "GOOGL"))
	assert.Equal(t, []string{"T1", "T2"}, ids("--to", "2024-01-31"))
	assert.Equal(t, []string{"T3"}, ids("--from", "2024-02-01"))
	assert.Equal(t, []string{"T1"}, ids("--min-pnl", "50"))
	assert.Equal(t, []string{"T2", "T3"}, ids("--max-pnl", "25"))
	assert.Equal(t, []string{"T2"}, ids("--search", "IMPULSIVE"))
	assert.Equal(t, []string{"T1", "T3"}, ids("--emotion", "calm"))
	assert.Equal(t, []string{"T1", "T3"}, ids("--emotion", "Calm"))
	assert.Equal(t, []string{"T2"}, ids("--emotion", " FOMO ,None"))
	assert.Empty(t, ids("--emotion", "none"))
	assert.Equal(t, []string{"T3"}, ids("--limit", "1"))
	assert.Equal(t, []string{"T1", "T3"}, ids("--min-rr", "2"))

	_, err := run(t, cfg, "trade", "list", "--from", "last week")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimestamp)
}

func TestTradeShowAndDelete(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	var shown struct {
		ID      string        `json:"id"`
		PnL     float64       `json:"pnl"`
		RFactor metrics.Ratio `json:"rFactor"`
	}
	runJSON(t, cfg, &shown, "trade", "show", "T1")
	assert.Equal(t, "T1", shown.ID)
	assert.Equal(t, 100.0, shown.PnL)
	assert.Equal(t, metrics.Ratio(2), shown.RFactor)

	_, err := run(t, cfg, "trade", "delete", "T1")
	require.NoError(t, err)

	_, err = run(t, cfg, "trade", "show", "T1")
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
	_, err = run(t, cfg, "trade", "delete", "T1")
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
}

func TestStatsCommand(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	var stats metrics.Stats
	runJSON(t, cfg, &stats, "stats")
	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 105.0, stats.TotalPnL)
	assert.Equal(t, "T1", stats.BestTrade.TradeID)
	assert.Equal(t, "T2", stats.WorstTrade.TradeID)
	assert.InDelta(t, 125.0/20.0, stats.ProfitFactor.Float64(), 1e-9)

	// Without losses the profit factor is infinite.
	runJSON(t, cfg, &stats, "stats", "--win-only")
	assert.Equal(t, 2, stats.TotalTrades)
	assert.True(t, math.IsInf(stats.ProfitFactor.Float64(), 1))
}

func TestPerformanceUsesGoals(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)
	require.NoError(t, os.WriteFile(cfg.Goals.Path, []byte("monthly:\n  \"2024-01\": 200\n"), 0644))

	var pm performance.PerformanceMetrics
	runJSON(t, cfg, &pm, "performance")

	require.Len(t, pm.MonthlyReturnTargets, 2)
	jan, feb := pm.MonthlyReturnTargets[0], pm.MonthlyReturnTargets[1]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, 80.0, jan.Actual)
	assert.Equal(t, 200.0, jan.Target)
	assert.InDelta(t, 40.0, jan.Percentage, 1e-9)
	assert.Equal(t, performance.DefaultMonthlyTarget, feb.Target)
	assert.InDelta(t, 2.5, feb.Percentage, 1e-9)
	assert.Len(t, pm.EquityCurve, 3)
	assert.Equal(t, 20.0, pm.MaxDrawdown)
}

func TestConfiguredTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analytics.Timezone = "Asia/Kolkata"
	seed(t, cfg)

	var pm performance.PerformanceMetrics
	runJSON(t, cfg, &pm, "performance")
	require.Len(t, pm.BestTradingHours, 2)
	assert.Equal(t, 15, pm.BestTradingHours[0].Hour)
	assert.Equal(t, 2, pm.BestTradingHours[0].TradeCount)
	assert.Equal(t, 19, pm.BestTradingHours[1].Hour)

	var trade models.Trade
	runJSON(t, cfg, &trade, "trade", "add",
		"--symbol", "INFY", "--direction", "buy",
		"--entry", "1500", "--exit", "1520", "--stop", "1490", "--qty", "10",
		"--entry-date", "2024-03-01T09:45")
	assert.True(t, trade.EntryDate.Equal(time.Date(2024, 3, 1, 4, 15, 0, 0, time.UTC)), trade.EntryDate)

	var listed []models.Trade
	runJSON(t, cfg, &listed, "trade", "list", "--from", "2024-03-01T09:45", "--to", "2024-03-01T09:45")
	require.Len(t, listed, 1)
	assert.Equal(t, trade.ID, listed[0].ID)
}

func TestSimilarAndCompare(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	var similar []setups.SimilarTrade
	runJSON(t, cfg, &similar, "similar", "T1")
	require.Len(t, similar, 2)
	assert.Equal(t, "T3", similar[0].Trade.ID)
	assert.Greater(t, similar[0].Score, similar[1].Score)

	runJSON(t, cfg, &similar, "similar", "T1", "--limit", "1")
	assert.Len(t, similar, 1)

	var cmp setups.TradeComparison
	runJSON(t, cfg, &cmp, "compare", "T1", "T2")
	assert.Contains(t, cmp.Outcome, "outperformed")
	assert.NotEmpty(t, cmp.Differences)

	_, err := run(t, cfg, "compare", "T1", "missing")
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
}

func TestPresetLifecycle(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	var preset models.FilterPreset
	runJSON(t, cfg, &preset, "preset", "save", "calm winners", "--win-only", "--emotion", "calm")
	assert.Equal(t, "calm winners", preset.Name)
	assert.True(t, preset.Filters.WinOnly)
	assert.Equal(t, []string{"calm"}, preset.Filters.Emotions)

	var stats metrics.Stats
	runJSON(t, cfg, &stats, "stats", "--preset", "calm winners")
	assert.Equal(t, 2, stats.TotalTrades)

	// Flags narrow the preset further.
	runJSON(t, cfg, &stats, "stats", "--preset", preset.ID, "--from", "2024-02-01")
	assert.Equal(t, 1, stats.TotalTrades)

	var presets []models.FilterPreset
	runJSON(t, cfg, &presets, "preset", "list")
	require.Len(t, presets, 1)
	assert.Equal(t, preset.ID, presets[0].ID)

	_, err := run(t, cfg, "preset", "delete", "calm winners")
	require.NoError(t, err)

	runJSON(t, cfg, &presets, "preset", "list")
	assert.Empty(t, presets)

	_, err = run(t, cfg, "stats", "--preset", "calm winners")
	assert.ErrorIs(t, err, apperrors.ErrPresetNotFound)

	_, err = run(t, cfg, "preset", "save", "   ")
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)
}

func TestReportCommand(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	var r map[string]interface{}
	runJSON(t, cfg, &r, "report")
	assert.Equal(t, 3.0, r["tradeCount"])
	for _, key := range []string{"stats", "performance", "emotionImpact", "sentimentTrends", "keywords", "setups", "tradeInsights", "emotionalInsights"} {
		assert.Contains(t, r, key)
	}
}

func TestTextOutput(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"version"}, []string{"Trading diary v" + Version}},
		{[]string{"config", "show"}, []string{"Journal", cfg.Journal.DBPath, "Top Setups:"}},
		{[]string{"config", "validate"}, []string{"Configuration is valid"}},
		{[]string{"trade", "list"}, []string{"T1", "GOOGL", "+100.00", "-20.00", "3 trades, total P&L +105.00"}},
		{[]string{"trade", "show", "T1"}, []string{"BUY AAPL  T1", "2.00R", "Held:        1h 30m"}},
		{[]string{"stats"}, []string{"Account Statistics", "66.7%", "6.25"}},
		{[]string{"performance"}, []string{"Monthly P&L", "2024-01", "By Weekday", "Monday"}},
		{[]string{"emotions"}, []string{"Performance by Emotion", "calm", "fomo", "Emotional Insights"}},
		{[]string{"setups"}, []string{"breakout", "reversal"}},
		{[]string{"insights"}, []string{"Trade Insights", "Best setup: breakout"}},
		{[]string{"similar", "T1"}, []string{"Trades similar to AAPL breakout (T1)", "T3"}},
		{[]string{"compare", "T1", "T2"}, []string{"Similarities", "Differences", "outperformed"}},
		{[]string{"report"}, []string{"Account Statistics", "Equity", "Setups", "Trade Insights"}},
		{[]string{"preset", "list"}, []string{"No saved presets"}},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := run(t, cfg, tt.args...)
			require.NoError(t, err, out)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEmptyJournal(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "trade", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No trades match")

	var stats metrics.Stats
	runJSON(t, cfg, &stats, "stats")
	assert.Zero(t, stats.TotalTrades)

	out, err = run(t, cfg, "insights")
	require.NoError(t, err)
	assert.Contains(t, out, "Not enough data yet")
}

func TestDescribeFilters(t *testing.T) {
	assert.Equal(t, "all trades", describeFilters(models.TradeFilters{}))
	got := describeFilters(models.TradeFilters{
		DateRange:     &models.DateRange{Start: "2024-01-01"},
		Symbols:       []string{"AAPL", "MSFT"},
		Emotions:      []string{"calm", ""},
		MinPnL:        models.Float(-50),
		WinOnly:       true,
		MinRiskReward: models.Float(1.5),
	})
	assert.Equal(t, "--from 2024-01-01 --symbol AAPL,MSFT --emotion calm,none --min-pnl -50 --win-only --min-rr 1.5", got)
}
