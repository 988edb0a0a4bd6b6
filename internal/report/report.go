// Package report assembles every analytics view of a trade collection.
package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/performance"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/sentiment"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/setups"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/workers"
)

// Options controls report generation.
type Options struct {
	// Targets maps YYYY-MM to a monthly return goal. May be nil.
	Targets map[string]float64
	// Location is the calendar used for time buckets; nil means time.Local.
	Location  *time.Location
	TopSetups int
	Workers   int
	Logger    zerolog.Logger
}

// Report bundles every analysis of one trade collection.
type Report struct {
	GeneratedAt       time.Time                      `json:"generatedAt"`
	TradeCount        int                            `json:"tradeCount"`
	Stats             metrics.Stats                  `json:"stats"`
	Performance       performance.PerformanceMetrics `json:"performance"`
	EmotionImpact     []sentiment.EmotionImpact      `json:"emotionImpact"`
	SentimentTrends   []sentiment.SentimentTrend     `json:"sentimentTrends"`
	EmotionalInsights []string                       `json:"emotionalInsights"`
	Keywords          []sentiment.KeywordImpact      `json:"keywords"`
	Setups            []setups.SetupPattern          `json:"setups"`
	TradeInsights     []string                       `json:"tradeInsights"`
}

// Build runs the analyzers as independent tasks on a worker pool. Each task
// writes a distinct field, so the result equals a sequential computation.
func Build(ctx context.Context, trades []models.Trade, opts Options) (*Report, error) {
	start := time.Now()
	pool := workers.NewPool(opts.Workers)
	loc := opts.Location

	r := &Report{GeneratedAt: start, TradeCount: len(trades)}
	err := pool.Run(ctx,
		func(context.Context) error {
			r.Stats = metrics.AccountStats(trades)
			return nil
		},
		func(context.Context) error {
			r.Performance = performance.GeneratePerformanceMetrics(trades, opts.Targets, loc)
			return nil
		},
		func(context.Context) error {
			r.EmotionImpact = sentiment.AnalyzeEmotionImpact(trades)
			return nil
		},
		func(context.Context) error {
			r.SentimentTrends = sentiment.CalculateSentimentTrends(trades, loc)
			return nil
		},
		func(context.Context) error {
			r.EmotionalInsights = sentiment.GetEmotionalInsights(trades)
			return nil
		},
		func(context.Context) error {
			r.Keywords = sentiment.CorrelateNotesWithPerformance(trades)
			return nil
		},
		func(context.Context) error {
			r.Setups = setups.TopSetups(setups.AnalyzeBySetup(trades), opts.TopSetups)
			return nil
		},
		func(context.Context) error {
			r.TradeInsights = setups.GetTradeInsights(trades)
			return nil
		},
	)
	if err != nil {
		opts.Logger.Error().Err(err).Int("trades", len(trades)).Msg("Report generation failed")
		return nil, err
	}

	stats := pool.Stats()
	opts.Logger.Debug().
		Int("trades", len(trades)).
		Int("workers", stats.Workers).
		Uint64("tasks", stats.TasksDone).
		Dur("duration", time.Since(start)).
		Msg("Report generated")
	return r, nil
}
