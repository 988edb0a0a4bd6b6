package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/filter"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/metrics"
	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
	"github.com/codedbyabhishek/trading-diary-sub001/pkg/id"
)

// addTradeCommands adds journal entry commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Journal entries",
		Long:  "Record, list, inspect and delete journaled trades.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

// tradeInput holds the raw flag values of a new trade.
type tradeInput struct {
	symbol    string
	direction string
	setup     string
	entry     string
	exit      string
	stop      string
	quantity  string
	entryDate string
	exitDate  string
	notes     string
	emotion   string
	images    []string
}

// parsePrice reads a decimal flag value into a float64.
func parsePrice(field, value string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, apperrors.NewValidationError(field, value, "must be a decimal number")
	}
	return d.InexactFloat64(), nil
}

// trade builds and validates a Trade from the input.
func (in *tradeInput) trade(loc *time.Location) (models.Trade, error) {
	var t models.Trade
	var err error

	t.Symbol = strings.ToUpper(strings.TrimSpace(in.symbol))
	if t.Direction, err = models.ParseDirection(in.direction); err != nil {
		return t, err
	}
	t.SetupName = strings.TrimSpace(in.setup)
	if t.EntryPrice, err = parsePrice("entry", in.entry); err != nil {
		return t, err
	}
	if t.ExitPrice, err = parsePrice("exit", in.exit); err != nil {
		return t, err
	}
	if t.StopLossPrice, err = parsePrice("stop", in.stop); err != nil {
		return t, err
	}
	if t.Quantity, err = parsePrice("qty", in.quantity); err != nil {
		return t, err
	}
	if t.EntryDate, err = models.ParseTimestamp(in.entryDate, loc); err != nil {
		return t, apperrors.Wrap(err, "entry date")
	}
	if in.exitDate == "" {
		t.ExitDate = t.EntryDate
	} else if t.ExitDate, err = models.ParseTimestamp(in.exitDate, loc); err != nil {
		return t, apperrors.Wrap(err, "exit date")
	}
	if t.ExitDate.Before(t.EntryDate) {
		return t, apperrors.NewValidationError("exit-date", in.exitDate, "exit date is before entry date")
	}
	t.Notes = strings.TrimSpace(in.notes)
	t.Emotion = strings.ToLower(strings.TrimSpace(in.emotion))
	t.Images = in.images

	t.ID = id.New()
	return t, t.Validate()
}

func newTradeAddCmd(app *App) *cobra.Command {
	var in tradeInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a completed trade",
		Example: `  diary trade add --symbol AAPL --direction buy --entry 150 --exit 155 \
    --stop 148 --qty 10 --entry-date 2024-01-15T09:30 --exit-date 2024-01-15T11:00 \
    --setup breakout --emotion calm --notes "patient entry, held to target"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			trade, err := in.trade(app.Location)
			if err != nil {
				output.Error("Invalid trade: %v", err)
				return err
			}

			s, err := app.openStore()
			if err != nil {
				return err
			}
			if err := s.SaveTrade(ctx, &trade); err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}
			l := logging.WithTradeID(app.Logger, trade.ID)
			l.Info().
				Str("symbol", trade.Symbol).
				Msg("Trade recorded")

			if output.IsJSON() {
				return output.JSON(trade)
			}
			output.Success("✓ Recorded trade %s", trade.ID)
			output.Printf("  %s %s  P&L %s  (%s)\n",
				strings.ToUpper(string(trade.Direction)), trade.Symbol,
				output.FormatPnL(metrics.CalculatePnL(trade)),
				output.FormatR(metrics.CalculateRFactor(trade)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.symbol, "symbol", "", "instrument symbol (required)")
	flags.StringVar(&in.direction, "direction", "", "buy or sell (required)")
	flags.StringVar(&in.setup, "setup", "", "setup name")
	flags.StringVar(&in.entry, "entry", "", "entry price (required)")
	flags.StringVar(&in.exit, "exit", "", "exit price (required)")
	flags.StringVar(&in.stop, "stop", "", "stop-loss price (required)")
	flags.StringVar(&in.quantity, "qty", "", "quantity (required)")
	flags.StringVar(&in.entryDate, "entry-date", "", "entry time, ISO-8601 (required)")
	flags.StringVar(&in.exitDate, "exit-date", "", "exit time, ISO-8601 (default: entry time)")
	flags.StringVar(&in.notes, "notes", "", "free-text notes")
	flags.StringVar(&in.emotion, "emotion", "", "emotion label, e.g. calm or fomo")
	flags.StringSliceVar(&in.images, "image", nil, "screenshot path (repeatable)")
	for _, name := range []string{"symbol", "direction", "entry", "exit", "stop", "qty", "entry-date"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var ff filterFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		Long:  "List journaled trades in entry order, optionally filtered.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			ff.warn(output)
			trades, err := loadTrades(ctx, app, cmd, &ff)
			if err != nil {
				return err
			}
			if limit > 0 && len(trades) > limit {
				trades = trades[len(trades)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}
			if len(trades) == 0 {
				output.Info("No trades match")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Symbol", "Side", "Setup", "Qty", "Entry", "Exit", "P&L", "R", "Emotion")
			for _, t := range trades {
				m := metrics.ComputeTradeMetrics(t)
				table.AddRow(
					t.ID,
					FormatDate(t.EntryDate.In(app.Location)),
					t.Symbol,
					strings.ToUpper(string(t.Direction)),
					orDash(t.SetupName),
					FormatQuantity(t.Quantity),
					FormatPrice(t.EntryPrice),
					FormatPrice(t.ExitPrice),
					output.FormatPnL(m.PnL),
					output.FormatR(m.RFactor.Float64()),
					orDash(t.Emotion),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trades, total P&L %s", len(trades), FormatPnL(metrics.AccountStats(trades).TotalPnL))
			return nil
		},
	}

	addFilterFlags(cmd, &ff)
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent N trades")
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			s, err := app.openStore()
			if err != nil {
				return err
			}
			t, err := s.GetTrade(ctx, args[0])
			if err != nil {
				return err
			}
			m := metrics.ComputeTradeMetrics(*t)

			if output.IsJSON() {
				return output.JSON(struct {
					*models.Trade
					PnL        float64       `json:"pnl"`
					RFactor    metrics.Ratio `json:"rFactor"`
					RiskReward float64       `json:"riskReward"`
				}{t, m.PnL, m.RFactor, filter.FilterRiskReward(*t)})
			}

			output.Bold("%s %s  %s", strings.ToUpper(string(t.Direction)), t.Symbol, t.ID)
			output.Printf("  Setup:       %s\n", orDash(t.SetupName))
			output.Printf("  Entry:       %s @ %s\n", FormatDateTime(t.EntryDate.In(app.Location)), FormatPrice(t.EntryPrice))
			output.Printf("  Exit:        %s @ %s\n", FormatDateTime(t.ExitDate.In(app.Location)), FormatPrice(t.ExitPrice))
			output.Printf("  Held:        %s\n", FormatDuration(t.ExitDate.Sub(t.EntryDate)))
			output.Printf("  Stop:        %s\n", FormatPrice(t.StopLossPrice))
			output.Printf("  Quantity:    %s\n", FormatQuantity(t.Quantity))
			output.Printf("  P&L:         %s\n", output.FormatPnL(m.PnL))
			output.Printf("  R-Factor:    %s\n", output.FormatR(m.RFactor.Float64()))
			output.Printf("  Reward/Risk: %.2f\n", filter.FilterRiskReward(*t))
			output.Printf("  Emotion:     %s\n", orDash(t.Emotion))
			if t.Notes != "" {
				output.Printf("  Notes:       %s\n", t.Notes)
			}
			for _, img := range t.Images {
				output.Printf("  Image:       %s\n", img)
			}
			output.Dim("  Recorded %s", FormatDateTime(time.UnixMilli(t.CreatedAt).In(app.Location)))
			return nil
		},
	}
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			s, err := app.openStore()
			if err != nil {
				return err
			}
			if err := s.DeleteTrade(ctx, args[0]); err != nil {
				return err
			}
			l := logging.WithTradeID(app.Logger, args[0])
			l.Info().Msg("Trade deleted")

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Deleted trade %s", args[0])
			return nil
		},
	}
}
