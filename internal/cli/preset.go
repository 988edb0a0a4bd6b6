package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// addPresetCommands adds saved filter commands.
func addPresetCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Saved filter presets",
		Long:  "Save the filter flags under a name and reuse them with --preset.",
	}

	cmd.AddCommand(newPresetSaveCmd(app))
	cmd.AddCommand(newPresetListCmd(app))
	cmd.AddCommand(newPresetDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newPresetSaveCmd(app *App) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:     "save <name>",
		Short:   "Save the given filter flags as a preset",
		Example: `  diary preset save "calm winners" --emotion calm --win-only`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			if _, err := app.openStore(); err != nil {
				return err
			}
			preset, err := app.Presets.SaveFilterPreset(ctx, args[0], ff.filters(cmd))
			if err != nil {
				output.Error("Failed to save preset: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(preset)
			}
			output.Success("✓ Saved preset %q (%s)", preset.Name, preset.ID)
			return nil
		},
	}

	addFilterFlags(cmd, &ff)
	// A preset cannot reference another preset.
	_ = cmd.Flags().MarkHidden("preset")
	return cmd
}

func newPresetListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			if _, err := app.openStore(); err != nil {
				return err
			}
			presets, err := app.Presets.GetFilterPresets(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(presets)
			}
			if len(presets) == 0 {
				output.Info("No saved presets")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Created", "Filters")
			for _, p := range presets {
				table.AddRow(
					p.ID,
					p.Name,
					FormatDate(time.UnixMilli(p.CreatedAt).In(app.Location)),
					TruncateString(describeFilters(p.Filters), 60),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPresetDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := commandContext(app)
			defer cancel()

			if _, err := app.openStore(); err != nil {
				return err
			}
			preset, err := app.Presets.FindPreset(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Presets.DeleteFilterPreset(ctx, preset.ID); err != nil {
				return err
			}
			l := logging.WithPreset(app.Logger, preset.Name)
			l.Debug().Msg("Preset deleted from CLI")

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": preset.ID})
			}
			output.Success("✓ Deleted preset %q", preset.Name)
			return nil
		},
	}
}

// describeFilters renders the active predicates of f in flag syntax.
func describeFilters(f models.TradeFilters) string {
	if f.IsEmpty() {
		return "all trades"
	}

	var parts []string
	if f.DateRange != nil {
		if f.DateRange.Start != "" {
			parts = append(parts, "--from "+f.DateRange.Start)
		}
		if f.DateRange.End != "" {
			parts = append(parts, "--to "+f.DateRange.End)
		}
	}
	if len(f.Symbols) > 0 {
		parts = append(parts, "--symbol "+strings.Join(f.Symbols, ","))
	}
	if len(f.Setups) > 0 {
		parts = append(parts, "--setup "+strings.Join(f.Setups, ","))
	}
	if len(f.Emotions) > 0 {
		emotions := make([]string, len(f.Emotions))
		for i, e := range f.Emotions {
			emotions[i] = e
			if e == "" {
				emotions[i] = noEmotion
			}
		}
		parts = append(parts, "--emotion "+strings.Join(emotions, ","))
	}
	if f.MinPnL != nil {
		parts = append(parts, "--min-pnl "+strconv.FormatFloat(*f.MinPnL, 'f', -1, 64))
	}
	if f.MaxPnL != nil {
		parts = append(parts, "--max-pnl "+strconv.FormatFloat(*f.MaxPnL, 'f', -1, 64))
	}
	if f.WinOnly {
		parts = append(parts, "--win-only")
	}
	if f.LossOnly {
		parts = append(parts, "--loss-only")
	}
	if f.MinRiskReward != nil {
		parts = append(parts, "--min-rr "+strconv.FormatFloat(*f.MinRiskReward, 'f', -1, 64))
	}
	if f.SearchText != "" {
		parts = append(parts, "--search "+f.SearchText)
	}
	return strings.Join(parts, " ")
}
