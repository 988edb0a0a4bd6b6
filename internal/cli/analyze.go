package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/performance"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/sentiment"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/setups"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/report"
)

// addAnalyzeCommands adds the analytics commands.
func addAnalyzeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newStatsCmd(app))
	rootCmd.AddCommand(newPerformanceCmd(app))
	rootCmd.AddCommand(newEmotionsCmd(app))
	rootCmd.AddCommand(newSetupsCmd(app))
	rootCmd.AddCommand(newSimilarCmd(app))
	rootCmd.AddCommand(newCompareCmd(app))
	rootCmd.AddCommand(newInsightsCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
}

// analysisFunc computes and renders one view of the filtered trades.
type analysisFunc func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error

// newAnalysisCmd builds a command that loads filtered trades and runs fn.
func newAnalysisCmd(app *App, use, short, long string, fn analysisFunc) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			start := time.Now()
			logger := logging.WithOperation(app.Logger, use)
			ff.warn(output)

			trades, err := loadTrades(ctx, app, cmd, &ff)
			if err == nil {
				err = fn(ctx, cmd, output, trades)
			}
			logging.LogAnalysis(logger, use, len(trades), time.Since(start), err)
			return err
		},
	}

	addFilterFlags(cmd, &ff)
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	return newAnalysisCmd(app, "stats", "Account statistics",
		"Totals, win rate, profit factor, reward to risk, recovery factor and drawdown.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			stats := metrics.AccountStats(trades)
			if output.IsJSON() {
				return output.JSON(stats)
			}
			renderStats(output, stats)
			return nil
		})
}

func renderStats(output *Output, s metrics.Stats) {
	output.Bold("Account Statistics")
	output.Printf("  Trades:          %d (%d wins, %d losses)\n", s.TotalTrades, s.Wins, s.Losses)
	output.Printf("  Win Rate:        %s\n", FormatRate(s.WinRate))
	output.Printf("  Total P&L:       %s\n", output.FormatPnL(s.TotalPnL))
	output.Printf("  Average P&L:     %s\n", output.FormatPnL(s.AveragePnL))
	if s.TotalTrades > 0 {
		output.Printf("  Best Trade:      %s (%s)\n", output.FormatPnL(s.BestTrade.PnL), s.BestTrade.TradeID)
		output.Printf("  Worst Trade:     %s (%s)\n", output.FormatPnL(s.WorstTrade.PnL), s.WorstTrade.TradeID)
	}
	output.Printf("  Profit Factor:   %s\n", FormatRatio(s.ProfitFactor))
	output.Printf("  Reward/Risk:     %s\n", FormatRatio(s.RiskRewardRatio))
	output.Printf("  Recovery Factor: %s\n", FormatRatio(s.RecoveryFactor))
	output.Printf("  Max Drawdown:    %s\n", output.FormatPnL(-s.MaxDrawdown))
}

func newPerformanceCmd(app *App) *cobra.Command {
	return newAnalysisCmd(app, "performance", "Time-bucketed performance",
		"Weekly and monthly P&L, equity curve, best hours and weekdays, monthly targets, win rate and trade size.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			goals, err := app.goals()
			if err != nil {
				return err
			}
			pm := performance.GeneratePerformanceMetrics(trades, goals.MonthlyTargets(), app.Location)
			if output.IsJSON() {
				return output.JSON(pm)
			}
			renderPerformance(output, pm)
			return nil
		})
}

func renderPerformance(output *Output, pm performance.PerformanceMetrics) {
	if len(pm.EquityCurve) == 0 {
		output.Info("No trades to analyze")
		return
	}

	last := pm.EquityCurve[len(pm.EquityCurve)-1]
	output.Bold("Equity")
	output.Printf("  Final Equity:    %s\n", output.FormatPnL(last.Equity))
	output.Printf("  Max Drawdown:    %s\n", output.FormatPnL(-pm.MaxDrawdown))
	output.Println()

	output.Bold("Weekly P&L (last %d weeks)", performance.WeeksReturned)
	renderPeriods(output, "Week Of", pm.WeeklyPnL)
	output.Println()

	output.Bold("Monthly P&L")
	table := NewTable(output, "Month", "Trades", "P&L", "Target", "Progress", "Win Rate", "Avg Size")
	for i, m := range pm.MonthlyPnL {
		target := pm.MonthlyReturnTargets[i]
		table.AddRow(
			m.Period,
			fmt.Sprintf("%d", m.TradeCount),
			output.FormatPnL(m.PnL),
			FormatCurrency(target.Target),
			FormatRate(target.Percentage),
			FormatRate(pm.MonthlyWinRate[i].Value),
			FormatCurrency(pm.AverageTradeSize[i].Value),
		)
	}
	table.Render()
	output.Println()

	output.Bold("By Entry Hour")
	table = NewTable(output, "Hour", "Trades", "Avg P&L", "Total P&L")
	for _, h := range pm.BestTradingHours {
		table.AddRow(
			fmt.Sprintf("%02d:00", h.Hour),
			fmt.Sprintf("%d", h.TradeCount),
			output.FormatPnL(h.AveragePnL),
			output.FormatPnL(h.TotalPnL),
		)
	}
	table.Render()
	output.Println()

	output.Bold("By Weekday")
	table = NewTable(output, "Day", "Trades", "Total P&L")
	for _, d := range pm.BestTradingDays {
		table.AddRow(d.Day, fmt.Sprintf("%d", d.TradeCount), output.FormatPnL(d.TotalPnL))
	}
	table.Render()
}

func renderPeriods(output *Output, label string, periods []performance.PeriodPnL) {
	table := NewTable(output, label, "Trades", "P&L")
	for _, p := range periods {
		table.AddRow(p.Period, fmt.Sprintf("%d", p.TradeCount), output.FormatPnL(p.PnL))
	}
	table.Render()
}

func newEmotionsCmd(app *App) *cobra.Command {
	return newAnalysisCmd(app, "emotions", "Emotion and note sentiment analysis",
		"Performance by emotion, daily note sentiment, note keywords and emotional insights.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			view := emotionView{
				Impact:   sentiment.AnalyzeEmotionImpact(trades),
				Trends:   sentiment.CalculateSentimentTrends(trades, app.Location),
				Keywords: sentiment.CorrelateNotesWithPerformance(trades),
				Insights: sentiment.GetEmotionalInsights(trades),
			}
			if output.IsJSON() {
				return output.JSON(view)
			}
			renderEmotions(output, view)
			return nil
		})
}

// emotionView groups the sentiment analyses for output.
type emotionView struct {
	Impact   []sentiment.EmotionImpact  `json:"emotionImpact"`
	Trends   []sentiment.SentimentTrend `json:"sentimentTrends"`
	Keywords []sentiment.KeywordImpact  `json:"keywords"`
	Insights []string                   `json:"insights"`
}

func renderEmotions(output *Output, v emotionView) {
	if len(v.Impact) == 0 {
		output.Info("No trades to analyze")
		return
	}

	output.Bold("Performance by Emotion")
	table := NewTable(output, "Emotion", "Trades", "Total P&L", "Avg P&L", "Win Rate", "Std Dev")
	for _, e := range v.Impact {
		table.AddRow(
			e.Emotion,
			fmt.Sprintf("%d", e.TradeCount),
			output.FormatPnL(e.TotalPnL),
			output.FormatPnL(e.AveragePnL),
			FormatRate(e.WinRate),
			fmt.Sprintf("%.2f", e.Consistency),
		)
	}
	table.Render()
	output.Println()

	if len(v.Trends) > 0 {
		output.Bold("Daily Sentiment")
		table = NewTable(output, "Date", "Trades", "Sentiment", "P&L")
		for _, tr := range v.Trends {
			table.AddRow(tr.Date, fmt.Sprintf("%d", tr.TradeCount), fmt.Sprintf("%.2f", tr.AverageSentiment), output.FormatPnL(tr.PnL))
		}
		table.Render()
		output.Println()
	}

	if len(v.Keywords) > 0 {
		output.Bold("Note Keywords")
		table = NewTable(output, "Keyword", "Trades", "Avg P&L")
		for _, k := range v.Keywords {
			table.AddRow(k.Keyword, fmt.Sprintf("%d", k.Occurrences), output.FormatPnL(k.Impact))
		}
		table.Render()
		output.Println()
	}

	renderInsights(output, "Emotional Insights", v.Insights)
}

func renderInsights(output *Output, title string, lines []string) {
	renderList(output, title, lines, "Not enough data yet")
}

func renderList(output *Output, title string, lines []string, empty string) {
	output.Bold(title)
	if len(lines) == 0 {
		output.Dim("  %s", empty)
		return
	}
	for _, line := range lines {
		output.Printf("  • %s\n", line)
	}
}

func newSetupsCmd(app *App) *cobra.Command {
	var top int

	cmd := newAnalysisCmd(app, "setups", "Setup statistics",
		"Per-setup totals, win rate, average R-factor, consistency and drawdown, best first.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			n := app.Config.Analytics.TopSetups
			if cmd.Flags().Changed("top") {
				n = top
			}
			patterns := setups.TopSetups(setups.AnalyzeBySetup(trades), n)
			if output.IsJSON() {
				return output.JSON(patterns)
			}
			renderSetups(output, patterns)
			return nil
		})

	cmd.Flags().IntVar(&top, "top", 0, "number of setups to show, 0 for all (default: analytics.top_setups)")
	return cmd
}

func renderSetups(output *Output, patterns []setups.SetupPattern) {
	if len(patterns) == 0 {
		output.Info("No trades to analyze")
		return
	}

	output.Bold("Setups")
	table := NewTable(output, "Setup", "Trades", "Total P&L", "Avg P&L", "Win Rate", "Avg R", "Std Dev", "Drawdown")
	for _, p := range patterns {
		table.AddRow(
			p.SetupName,
			fmt.Sprintf("%d", p.TradeCount),
			output.FormatPnL(p.TotalPnL),
			output.FormatPnL(p.AveragePnL),
			FormatRate(p.WinRate),
			output.FormatR(p.AverageRFactor.Float64()),
			fmt.Sprintf("%.2f", p.Consistency),
			output.FormatPnL(-p.MaxDrawdown),
		)
	}
	table.Render()
}

func newSimilarCmd(app *App) *cobra.Command {
	var ff filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "Find trades similar to a trade",
		Long:  "Rank other trades by symbol, setup, direction, quantity and entry price likeness.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			s, err := app.openStore()
			if err != nil {
				return err
			}
			ref, err := s.GetTrade(ctx, args[0])
			if err != nil {
				return err
			}
			candidates, err := loadTrades(ctx, app, cmd, &ff)
			if err != nil {
				return err
			}

			n := app.Config.Analytics.SimilarLimit
			if cmd.Flags().Changed("limit") {
				n = limit
			}
			similar := setups.FindSimilarTrades(candidates, *ref, n)

			if output.IsJSON() {
				return output.JSON(similar)
			}
			if len(similar) == 0 {
				output.Info("No other trades to compare with")
				return nil
			}

			output.Bold("Trades similar to %s %s (%s)", ref.Symbol, orDash(ref.SetupName), ref.ID)
			table := NewTable(output, "Score", "ID", "Date", "Symbol", "Setup", "Side", "P&L")
			for _, st := range similar {
				t := st.Trade
				table.AddRow(
					fmt.Sprintf("%.0f", st.Score),
					t.ID,
					FormatDate(t.EntryDate.In(app.Location)),
					t.Symbol,
					orDash(t.SetupName),
					strings.ToUpper(string(t.Direction)),
					output.FormatPnL(metrics.CalculatePnL(t)),
				)
			}
			table.Render()
			return nil
		},
	}

	addFilterFlags(cmd, &ff)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum matches (default: analytics.similar_limit)")
	return cmd
}

func newCompareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> <id>",
		Short: "Compare two trades",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			s, err := app.openStore()
			if err != nil {
				return err
			}
			a, err := s.GetTrade(ctx, args[0])
			if err != nil {
				return err
			}
			b, err := s.GetTrade(ctx, args[1])
			if err != nil {
				return err
			}
			cmp := setups.CompareTrades(*a, *b)

			if output.IsJSON() {
				return output.JSON(cmp)
			}
			output.Bold("Trade %s vs %s", a.ID, b.ID)
			renderList(output, "Similarities", cmp.Similarities, "None")
			renderList(output, "Differences", cmp.Differences, "None")
			output.Println()
			output.Info("%s", cmp.Outcome)
			return nil
		},
	}
}

func newInsightsCmd(app *App) *cobra.Command {
	return newAnalysisCmd(app, "insights", "Setup and emotion insights",
		"Plain-language observations about setups and emotional state.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			view := struct {
				Trade     []string `json:"trade"`
				Emotional []string `json:"emotional"`
			}{
				Trade:     setups.GetTradeInsights(trades),
				Emotional: sentiment.GetEmotionalInsights(trades),
			}
			if output.IsJSON() {
				return output.JSON(view)
			}
			renderInsights(output, "Trade Insights", view.Trade)
			output.Println()
			renderInsights(output, "Emotional Insights", view.Emotional)
			return nil
		})
}

func newReportCmd(app *App) *cobra.Command {
	return newAnalysisCmd(app, "report", "Full analytics report",
		"Runs every analysis concurrently and prints one combined report.",
		func(ctx context.Context, cmd *cobra.Command, output *Output, trades []models.Trade) error {
			goals, err := app.goals()
			if err != nil {
				return err
			}
			r, err := report.Build(ctx, trades, report.Options{
				Targets:   goals.MonthlyTargets(),
				Location:  app.Location,
				TopSetups: app.Config.Analytics.TopSetups,
				Workers:   app.Config.Analytics.Workers,
				Logger:    app.Logger,
			})
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(r)
			}

			output.Dim("Generated %s over %d trades", FormatDateTime(r.GeneratedAt.In(app.Location)), r.TradeCount)
			output.Println()
			renderStats(output, r.Stats)
			output.Println()
			renderPerformance(output, r.Performance)
			output.Println()
			renderEmotions(output, emotionView{
				Impact:   r.EmotionImpact,
				Trends:   r.SentimentTrends,
				Keywords: r.Keywords,
				Insights: r.EmotionalInsights,
			})
			output.Println()
			renderSetups(output, r.Setups)
			output.Println()
			renderInsights(output, "Trade Insights", r.TradeInsights)
			return nil
		})
}
