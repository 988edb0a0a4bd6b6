// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/models"
)

// TradeStore persists journaled trades.
type TradeStore interface {
	SaveTrade(ctx context.Context, trade *models.Trade) error
	GetTrade(ctx context.Context, id string) (*models.Trade, error)
	ListTrades(ctx context.Context, opts ListOptions) ([]models.Trade, error)
	DeleteTrade(ctx context.Context, id string) error
}

// PresetStore persists filter presets. It satisfies filter.PresetStore.
type PresetStore interface {
	CreatePreset(ctx context.Context, preset models.FilterPreset) error
	GetPreset(ctx context.Context, id string) (*models.FilterPreset, error)
	ListPresets(ctx context.Context) ([]models.FilterPreset, error)
	DeletePreset(ctx context.Context, id string) error
}

// Store combines every persistence concern of the diary.
type Store interface {
	TradeStore
	PresetStore
	Close() error
}

// ListOptions narrows ListTrades. The zero value lists every trade.
type ListOptions struct {
	Symbol string
	Limit  int
}
