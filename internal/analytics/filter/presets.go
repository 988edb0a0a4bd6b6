package filter

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// PresetStore is the keyed persistence contract for filter presets.
// ListPresets makes no ordering guarantee.
type PresetStore interface {
	CreatePreset(ctx context.Context, preset models.FilterPreset) error
	ListPresets(ctx context.Context) ([]models.FilterPreset, error)
	DeletePreset(ctx context.Context, id string) error
}

// PresetManager saves, lists and applies filter presets.
type PresetManager struct {
	store  PresetStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewPresetManager creates a manager backed by store.
func NewPresetManager(store PresetStore, logger zerolog.Logger) *PresetManager {
	return &PresetManager{
		store:  store,
		logger: logger.With().Str("component", "presets").Logger(),
		now:    time.Now,
	}
}

// SaveFilterPreset stores filters under name with a generated id and
// returns the stored preset.
func (pm *PresetManager) SaveFilterPreset(ctx context.Context, name string, filters models.TradeFilters) (models.FilterPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FilterPreset{}, apperrors.NewValidationError("name", name, "preset name cannot be empty")
	}
	if _, err := Compile(filters, nil); err != nil {
		return models.FilterPreset{}, apperrors.Wrap(err, "invalid preset filters")
	}

	preset := models.FilterPreset{
		ID:        uuid.New().String(),
		Name:      name,
		Filters:   filters,
		CreatedAt: pm.now().UnixMilli(),
	}
	if err := pm.store.CreatePreset(ctx, preset); err != nil {
		pm.logger.Error().Err(err).Str("preset", name).Msg("Failed to save filter preset")
		return models.FilterPreset{}, apperrors.Wrap(err, "failed to save filter preset")
	}

	pm.logger.Info().Str("preset_id", preset.ID).Str("preset", name).Msg("Saved filter preset")
	return preset, nil
}

// GetFilterPresets lists every stored preset in store order.
func (pm *PresetManager) GetFilterPresets(ctx context.Context) ([]models.FilterPreset, error) {
	presets, err := pm.store.ListPresets(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list filter presets")
	}
	pm.logger.Debug().Int("count", len(presets)).Msg("Listed filter presets")
	return presets, nil
}

// FindPreset returns the preset whose id or name equals key.
func (pm *PresetManager) FindPreset(ctx context.Context, key string) (models.FilterPreset, error) {
	presets, err := pm.GetFilterPresets(ctx)
	if err != nil {
		return models.FilterPreset{}, err
	}
	for _, p := range presets {
		if p.ID == key {
			return p, nil
		}
	}
	for _, p := range presets {
		if p.Name == key {
			return p, nil
		}
	}
	return models.FilterPreset{}, apperrors.Wrapf(apperrors.ErrPresetNotFound, "preset %q", key)
}

// DeleteFilterPreset removes the preset with the given id.
func (pm *PresetManager) DeleteFilterPreset(ctx context.Context, id string) error {
	if err := pm.store.DeletePreset(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete filter preset")
	}
	pm.logger.Info().Str("preset_id", id).Msg("Deleted filter preset")
	return nil
}

// ApplyPreset filters the current trade collection with a preset's filters.
func ApplyPreset(trades []models.Trade, preset models.FilterPreset, loc *time.Location) ([]models.Trade, error) {
	return Apply(trades, preset.Filters, loc)
}
