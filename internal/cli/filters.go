package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/filter"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/store"
)

// noEmotion selects trades without an emotion label in --emotion.
const noEmotion = "none"

// filterFlags holds the shared trade selection flags.
type filterFlags struct {
	from     string
	to       string
	symbols  []string
	setups   []string
	emotions []string
	minPnL   float64
	maxPnL   float64
	minRR    float64
	winOnly  bool
	lossOnly bool
	search   string
	preset   string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.from, "from", "", "earliest entry date, inclusive (ISO-8601)")
	flags.StringVar(&f.to, "to", "", "latest entry date, inclusive (ISO-8601)")
	flags.StringSliceVar(&f.symbols, "symbol", nil, "only these symbols (repeatable)")
	flags.StringSliceVar(&f.setups, "setup", nil, "only these setups (repeatable)")
	flags.StringSliceVar(&f.emotions, "emotion", nil, "only these emotions; \"none\" selects unlabeled trades")
	flags.Float64Var(&f.minPnL, "min-pnl", 0, "minimum P&L, inclusive")
	flags.Float64Var(&f.maxPnL, "max-pnl", 0, "maximum P&L, inclusive")
	flags.Float64Var(&f.minRR, "min-rr", 0, "minimum realized reward to risk")
	flags.BoolVar(&f.winOnly, "win-only", false, "only winning trades")
	flags.BoolVar(&f.lossOnly, "loss-only", false, "only losing trades")
	flags.StringVar(&f.search, "search", "", "case-insensitive text in symbol, setup, notes or emotion")
	flags.StringVar(&f.preset, "preset", "", "apply a saved preset (id or name) before the flags")
}

// filters converts the flags into TradeFilters. Numeric bounds are set only
// when their flag was given.
func (f *filterFlags) filters(cmd *cobra.Command) models.TradeFilters {
	flags := cmd.Flags()
	out := models.TradeFilters{
		Symbols:    f.symbols,
		Setups:     f.setups,
		WinOnly:    f.winOnly,
		LossOnly:   f.lossOnly,
		SearchText: strings.TrimSpace(f.search),
	}

	if f.from != "" || f.to != "" {
		out.DateRange = &models.DateRange{Start: f.from, End: f.to}
	}
	// Emotions are stored lowercased.
	for _, e := range f.emotions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == noEmotion {
			e = ""
		}
		out.Emotions = append(out.Emotions, e)
	}
	if flags.Changed("min-pnl") {
		out.MinPnL = models.Float(f.minPnL)
	}
	if flags.Changed("max-pnl") {
		out.MaxPnL = models.Float(f.maxPnL)
	}
	if flags.Changed("min-rr") {
		out.MinRiskReward = models.Float(f.minRR)
	}
	return out
}

// warn flags selections that can never match.
func (f *filterFlags) warn(output *Output) {
	if f.winOnly && f.lossOnly && !output.IsJSON() {
		output.Warning("--win-only and --loss-only together match no trades")
	}
}

// loadTrades reads the journal and narrows it by the preset, then by the
// flags.
func loadTrades(ctx context.Context, app *App, cmd *cobra.Command, f *filterFlags) ([]models.Trade, error) {
	s, err := app.openStore()
	if err != nil {
		return nil, err
	}

	trades, err := s.ListTrades(ctx, store.ListOptions{})
	if err != nil {
		return nil, err
	}

	if f.preset != "" {
		preset, err := app.Presets.FindPreset(ctx, f.preset)
		if err != nil {
			return nil, err
		}
		trades, err = filter.ApplyPreset(trades, preset, app.Location)
		if err != nil {
			return nil, err
		}
		l := logging.WithPreset(app.Logger, preset.Name)
		l.Debug().
			Int("trades", len(trades)).
			Msg("Preset applied")
	}

	criteria := f.filters(cmd)
	if criteria.IsEmpty() {
		return trades, nil
	}
	return filter.Apply(trades, criteria, app.Location)
}
