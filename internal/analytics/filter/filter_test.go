package filter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

func sample() []models.Trade {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC) }
	return []models.Trade{
		{ID: "1", Symbol: "AAPL", Direction: models.DirectionBuy, SetupName: "breakout",
			EntryPrice: 100, ExitPrice: 110, StopLossPrice: 95, Quantity: 10,
			EntryDate: day(1), ExitDate: day(1), Notes: "Clean breakout, felt calm", Emotion: "calm"},
		{ID: "2", Symbol: "GOOGL", Direction: models.DirectionSell, SetupName: "reversal",
			EntryPrice: 100, ExitPrice: 104, StopLossPrice: 105, Quantity: 5,
			EntryDate: day(5), ExitDate: day(5), Notes: "chased the move", Emotion: "fomo"},
		{ID: "3", Symbol: "MSFT", Direction: models.DirectionBuy, SetupName: "breakout",
			EntryPrice: 50, ExitPrice: 50, StopLossPrice: 50, Quantity: 1,
			EntryDate: day(10), ExitDate: day(10)},
	}
}

func ids(trades []models.Trade) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.ID
	}
	return out
}

func TestApplyEmptyIsIdentity(t *testing.T) {
	trades := sample()
	got, err := Apply(trades, models.TradeFilters{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, trades, got)
}

func TestApplySymbols(t *testing.T) {
	trades := sample()[:2]
	got, err := Apply(trades, models.TradeFilters{Symbols: []string{"AAPL"}}, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
}

func TestApplyPredicates(t *testing.T) {
	tests := []struct {
		name    string
		filters models.TradeFilters
		want    []string
	}{
		{"setups", models.TradeFilters{Setups: []string{"breakout"}}, []string{"1", "3"}},
		{"emotions", models.TradeFilters{Emotions: []string{"fomo"}}, []string{"2"}},
		{"missing emotion only via empty label", models.TradeFilters{Emotions: []string{""}}, []string{"3"}},
		{"win only", models.TradeFilters{WinOnly: true}, []string{"1"}},
		{"loss only", models.TradeFilters{LossOnly: true}, []string{"2"}},
		{"win and loss", models.TradeFilters{WinOnly: true, LossOnly: true}, []string{}},
		{"min pnl inclusive", models.TradeFilters{MinPnL: models.Float(0)}, []string{"1", "3"}},
		{"max pnl inclusive", models.TradeFilters{MaxPnL: models.Float(-20)}, []string{"2"}},
		{"pnl band", models.TradeFilters{MinPnL: models.Float(-20), MaxPnL: models.Float(50)}, []string{"2", "3"}},
		// 1: |10/-5| = 2; 2: |4/5| = 0.8; 3: zero risk ⇒ 0.
		{"min risk reward", models.TradeFilters{MinRiskReward: models.Float(1)}, []string{"1"}},
		{"min risk reward zero", models.TradeFilters{MinRiskReward: models.Float(0)}, []string{"1", "2", "3"}},
		{"search notes case insensitive", models.TradeFilters{SearchText: "CHASED"}, []string{"2"}},
		{"search symbol", models.TradeFilters{SearchText: "msf"}, []string{"3"}},
		{"search emotion", models.TradeFilters{SearchText: "calm"}, []string{"1"}},
		{"date range inclusive", models.TradeFilters{DateRange: &models.DateRange{
			Start: "2024-03-01T10:00:00Z", End: "2024-03-05T10:00:00Z"}}, []string{"1", "2"}},
		{"open-ended start", models.TradeFilters{DateRange: &models.DateRange{Start: "2024-03-05T10:00:00Z"}}, []string{"2", "3"}},
		{"combined", models.TradeFilters{Setups: []string{"breakout"}, WinOnly: true}, []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(sample(), tt.filters, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyInvalidDateBound(t *testing.T) {
	_, err := Apply(sample(), models.TradeFilters{DateRange: &models.DateRange{Start: "last week"}}, time.UTC)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimestamp)
}

func TestApplyReadsBoundsInLocation(t *testing.T) {
	// Trade 2 is entered at 2024-03-05T10:00Z, which is 15:30 in Kolkata.
	kolkata := time.FixedZone("IST", 5*3600+1800)
	f := models.TradeFilters{DateRange: &models.DateRange{Start: "2024-03-05T12:00", End: "2024-03-05T16:00"}}

	got, err := Apply(sample(), f, kolkata)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(got))

	got, err = Apply(sample(), f, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	trades := sample()
	before := append([]models.Trade(nil), trades...)
	_, err := Apply(trades, models.TradeFilters{LossOnly: true}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, before, trades)
}

func TestFilterRiskReward(t *testing.T) {
	tr := models.Trade{EntryPrice: 100, ExitPrice: 120, StopLossPrice: 95}
	assert.InDelta(t, 4.0, FilterRiskReward(tr), 1e-9)
	// Undirected: a losing buy still yields a positive magnitude.
	tr.ExitPrice = 90
	assert.InDelta(t, 2.0, FilterRiskReward(tr), 1e-9)
	tr.StopLossPrice = 100
	assert.Equal(t, 0.0, FilterRiskReward(tr))
}

// memoryPresets is an in-memory PresetStore.
type memoryPresets struct {
	mu      sync.Mutex
	presets map[string]models.FilterPreset
	failing bool
}

func newMemoryPresets() *memoryPresets {
	return &memoryPresets{presets: make(map[string]models.FilterPreset)}
}

func (m *memoryPresets) CreatePreset(_ context.Context, p models.FilterPreset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("disk full")
	}
	m.presets[p.ID] = p
	return nil
}

func (m *memoryPresets) ListPresets(_ context.Context) ([]models.FilterPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.FilterPreset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryPresets) DeletePreset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[id]; !ok {
		return apperrors.ErrPresetNotFound
	}
	delete(m.presets, id)
	return nil
}

func TestPresetManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemoryPresets()
	pm := NewPresetManager(store, zerolog.Nop())
	pm.now = func() time.Time { return time.UnixMilli(1700000000000) }

	filters := models.TradeFilters{Symbols: []string{"AAPL"}, WinOnly: true}
	saved, err := pm.SaveFilterPreset(ctx, "  aapl winners ", filters)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "aapl winners", saved.Name)
	assert.Equal(t, int64(1700000000000), saved.CreatedAt)

	presets, err := pm.GetFilterPresets(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, filters, presets[0].Filters)

	byName, err := pm.FindPreset(ctx, "aapl winners")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byName.ID)

	got, err := ApplyPreset(sample(), byName, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(got))

	require.NoError(t, pm.DeleteFilterPreset(ctx, saved.ID))
	_, err = pm.FindPreset(ctx, saved.ID)
	assert.ErrorIs(t, err, apperrors.ErrPresetNotFound)
	assert.ErrorIs(t, pm.DeleteFilterPreset(ctx, saved.ID), apperrors.ErrPresetNotFound)
}

func TestPresetManagerRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := newMemoryPresets()
	pm := NewPresetManager(store, zerolog.Nop())

	_, err := pm.SaveFilterPreset(ctx, "   ", models.TradeFilters{})
	assert.ErrorIs(t, err, apperrors.ErrInputValidation)

	_, err = pm.SaveFilterPreset(ctx, "bad dates", models.TradeFilters{DateRange: &models.DateRange{End: "soon"}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimestamp)

	store.failing = true
	_, err = pm.SaveFilterPreset(ctx, "ok", models.TradeFilters{})
	assert.Error(t, err)
	assert.Empty(t, store.presets)
}
