package models

import (
	"strings"
	"time"

	apperrors "github.com/codedbyabhishek/trading-diary-sub001/internal/errors"
)

// Trade represents a completed, journaled trade. Derived values such as P&L
// and R-factor are computed on demand by the analytics packages.
type Trade struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Direction     Direction `json:"direction"`
	SetupName     string    `json:"setupName"`
	EntryPrice    float64   `json:"entryPrice"`
	ExitPrice     float64   `json:"exitPrice"`
	StopLossPrice float64   `json:"stopLossPrice"`
	Quantity      float64   `json:"quantity"`
	EntryDate     time.Time `json:"entryDate"`
	ExitDate      time.Time `json:"exitDate"`
	Notes         string    `json:"notes,omitempty"`
	Emotion       string    `json:"emotion,omitempty"`
	Images        []string  `json:"images,omitempty"`
	CreatedAt     int64     `json:"createdAt"` // epoch milliseconds
	UpdatedAt     int64     `json:"updatedAt"` // epoch milliseconds
}

// HasEmotion reports whether the trade carries an emotion label.
func (t Trade) HasEmotion() bool {
	return strings.TrimSpace(t.Emotion) != ""
}

// Validate checks the ingestion contract. The analytics core assumes every
// trade it receives has passed this check.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return apperrors.NewValidationError("id", t.ID, "id cannot be empty")
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return apperrors.NewValidationError("symbol", t.Symbol, "symbol cannot be empty")
	}
	if err := t.Direction.Validate(); err != nil {
		return err
	}
	if t.EntryPrice <= 0 {
		return apperrors.NewValidationError("entryPrice", t.EntryPrice, "must be positive")
	}
	if t.ExitPrice <= 0 {
		return apperrors.NewValidationError("exitPrice", t.ExitPrice, "must be positive")
	}
	if t.StopLossPrice <= 0 {
		return apperrors.NewValidationError("stopLossPrice", t.StopLossPrice, "must be positive")
	}
	if t.Quantity <= 0 {
		return apperrors.NewValidationError("quantity", t.Quantity, "must be positive")
	}
	if t.EntryDate.IsZero() {
		return apperrors.NewValidationError("entryDate", t.EntryDate, "entry date is required")
	}
	if t.ExitDate.IsZero() {
		return apperrors.NewValidationError("exitDate", t.ExitDate, "exit date is required")
	}
	return nil
}
